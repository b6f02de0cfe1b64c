package exploration

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// BoxOptions configures one grouped box plot
type BoxOptions struct {
	Path      string          // output file, format by extension
	X         string          // grouping column, needs a saved order
	Y         []string        // value columns, one box series each
	Condition frame.Condition // row filter applied before grouping
	MaxY      int             // integer y ticks up to this value when > 0
	XLabel    string          // defaults to X
	YLegend   []string        // legend labels, default Y
	YLabel    string          // y axis label, overrides the single-series default
	BarWidth  float64         // fraction of the group slot, 1/len(Y)-0.05 when 0
}

func (o *BoxOptions) normalize() error {
	if o.X == "" {
		return errors.InvalidInput("box plot needs a grouping column")
	}
	if len(o.Y) == 0 {
		return errors.InvalidInput("box plot needs at least one value column")
	}
	if o.XLabel == "" {
		o.XLabel = o.X
	}
	if len(o.YLegend) == 0 {
		o.YLegend = o.Y
	}
	if o.BarWidth <= 0 {
		o.BarWidth = 1/float64(len(o.Y)) - 0.05
	}
	return nil
}

// BoxPlot writes a grouped box chart: one box per value of the
// grouping column in its saved order and y column, filled in the
// group color with a firebrick median line. Groups without rows are
// skipped with a warning.
func (e *Explorer) BoxPlot(o BoxOptions) error {
	if o.Path == "" {
		return errors.InvalidInput("box plot needs an output path")
	}
	p, err := e.buildBoxPlot(o)
	if err != nil {
		return err
	}
	if err := savePlot(p, o.Path); err != nil {
		return err
	}
	e.log.Info("Session %s saved box plot of %v by %s%s to %s",
		e.sessionID, o.Y, o.X, conditionSuffix(o.Condition), o.Path)
	return nil
}

func (e *Explorer) buildBoxPlot(o BoxOptions) (*plot.Plot, error) {
	if err := o.normalize(); err != nil {
		return nil, err
	}
	groups, err := e.groupsFor(o.X)
	if err != nil {
		return nil, err
	}
	colors, err := e.colorsFor(o.X, len(groups))
	if err != nil {
		return nil, err
	}
	filtered, err := e.df.Filter(o.Condition)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.X.Label.Text = o.XLabel
	p.NominalX(groupLabels(groups)...)
	applyYTicks(p, o.MaxY)

	width := slotWidth * vg.Length(o.BarWidth) * 0.8
	for i, yc := range o.Y {
		for j, g := range groups {
			values, err := groupValues(filtered, o.X, g, yc)
			if err != nil {
				return nil, err
			}
			if len(values) == 0 {
				e.log.Warn("Session %s box plot: no %s values for group %s", e.sessionID, yc, g.Text())
				continue
			}
			loc := float64(j) + o.BarWidth*(float64(i)-float64(len(o.Y)-1)/2)
			box, err := plotter.NewBoxPlot(width, loc, plotter.Values(values))
			if err != nil {
				return nil, errors.Wrapf(err, "box for group %s", g.Text())
			}
			box.FillColor = shade(colors[j], i)
			box.MedianStyle.Color = firebrick
			box.MedianStyle.Width = 1.5
			p.Add(box)
		}
	}

	e.applyLegend(p, o.YLegend, o.YLabel, colors)
	e.paintAxes(p)
	return p, nil
}
