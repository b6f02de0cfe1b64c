package exploration

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// BarOptions configures one grouped bar plot
type BarOptions struct {
	Path      string          // output file, format by extension
	X         string          // grouping column, needs a saved order
	Y         []string        // value columns, one bar series each
	Condition frame.Condition // row filter applied before grouping
	Aggregate Aggregate       // bar height aggregation, mean when unset
	MaxY      int             // integer y ticks up to this value when > 0
	XLabel    string          // defaults to X
	YLegend   []string        // legend labels, default Y
	YLabel    string          // y axis label, overrides the single-series default
	BarWidth  float64         // fraction of the group slot, 1/len(Y)-0.05 when 0
}

func (o *BarOptions) normalize() error {
	if o.X == "" {
		return errors.InvalidInput("bar plot needs a grouping column")
	}
	if len(o.Y) == 0 {
		return errors.InvalidInput("bar plot needs at least one value column")
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

// BarPlot writes a grouped bar chart: one cluster per value of the
// grouping column in its saved order, one bar per y column, heights
// from the configured aggregation over rows matching the condition.
func (e *Explorer) BarPlot(o BarOptions) error {
	if o.Path == "" {
		return errors.InvalidInput("bar plot needs an output path")
	}
	p, err := e.buildBarPlot(o)
	if err != nil {
		return err
	}
	if err := savePlot(p, o.Path); err != nil {
		return err
	}
	e.log.Info("Session %s saved bar plot of %v by %s%s to %s",
		e.sessionID, o.Y, o.X, conditionSuffix(o.Condition), o.Path)
	return nil
}

func (e *Explorer) buildBarPlot(o BarOptions) (*plot.Plot, error) {
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

	heights := make([][]float64, len(o.Y))
	for i, yc := range o.Y {
		heights[i] = make([]float64, len(groups))
		for j, g := range groups {
			values, err := groupValues(filtered, o.X, g, yc)
			if err != nil {
				return nil, err
			}
			h, err := o.Aggregate.apply(values)
			if err != nil {
				return nil, errors.Wrapf(err, "aggregate %s for group %s", yc, g.Text())
			}
			heights[i][j] = h
		}
	}

	p := plot.New()
	p.X.Label.Text = o.XLabel
	p.NominalX(groupLabels(groups)...)
	applyYTicks(p, o.MaxY)

	width := slotWidth * vg.Length(o.BarWidth)
	for i := range o.Y {
		offset := width * vg.Length(float64(i)-float64(len(o.Y)-1)/2)
		for j := range groups {
			cell := make(plotter.Values, len(groups))
			cell[j] = heights[i][j]
			bars, err := plotter.NewBarChart(cell, width)
			if err != nil {
				return nil, errors.Wrapf(err, "bar chart for group %s", groups[j].Text())
			}
			bars.Color = shade(colors[j], i)
			bars.LineStyle = draw.LineStyle{Color: color.White, Width: 0}
			bars.Offset = offset
			p.Add(bars)
		}
	}

	e.applyLegend(p, o.YLegend, o.YLabel, colors)
	e.paintAxes(p)
	return p, nil
}

// groupValues extracts one group's series of a y column
func groupValues(f *frame.Frame, x string, g frame.Value, y string) ([]float64, error) {
	sub, err := f.Filter(frame.Where(x, g))
	if err != nil {
		return nil, err
	}
	return sub.Floats(y)
}

func groupLabels(groups []frame.Value) []string {
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Text()
	}
	return labels
}

func applyYTicks(p *plot.Plot, maxY int) {
	if maxY <= 0 {
		return
	}
	p.Y.Min = 0
	p.Y.Max = float64(maxY)
	p.Y.Tick.Marker = integerTicks{max: maxY}
}

// applyLegend adds one legend entry per series, or labels the y axis
// directly when there is only one.
func (e *Explorer) applyLegend(p *plot.Plot, legend []string, yLabel string, colors []color.Color) {
	if len(legend) > 1 {
		for i, label := range legend {
			fill := color.Color(color.Gray{Y: 128})
			if len(colors) > 0 {
				fill = shade(colors[0], i)
			}
			p.Legend.Add(label, seriesThumb{fill: fill})
		}
		p.Legend.Top = true
		if yLabel != "" {
			p.Y.Label.Text = yLabel
		}
		return
	}
	if yLabel != "" {
		p.Y.Label.Text = yLabel
	} else {
		p.Y.Label.Text = legend[0]
	}
}
