package exploration

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// BothPlot writes a bar and a box view of the same data side by side
// on one PNG canvas. The Path fields of the sub-options are ignored;
// the combined image goes to path.
func (e *Explorer) BothPlot(bar BarOptions, box BoxOptions, path string) error {
	if path == "" {
		return errors.InvalidInput("combined plot needs an output path")
	}
	barPlot, err := e.buildBarPlot(bar)
	if err != nil {
		return err
	}
	boxPlot, err := e.buildBoxPlot(box)
	if err != nil {
		return err
	}

	img := vgimg.NewWith(vgimg.UseWH(8*vg.Inch, 5*vg.Inch), vgimg.UseDPI(plotDPI))
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter * 2}
	plots := [][]*plot.Plot{{barPlot, boxPlot}}
	canvases := plot.Align(plots, tiles, draw.New(img))
	barPlot.Draw(canvases[0][0])
	boxPlot.Draw(canvases[0][1])

	if err := writePNG(img, path); err != nil {
		return err
	}
	e.log.Info("Session %s saved combined plot of %v by %s to %s", e.sessionID, bar.Y, bar.X, path)
	return nil
}
