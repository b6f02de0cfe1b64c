package exploration

import (
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4.5 * vg.Inch
	plotDPI    = 300

	// display width of one full group slot
	slotWidth = vg.Length(46)
)

var firebrick = color.RGBA{R: 178, G: 34, B: 34, A: 255}

// integerTicks labels every whole value from zero up to the limit
type integerTicks struct {
	max int
}

func (t integerTicks) Ticks(min, max float64) []plot.Tick {
	ticks := make([]plot.Tick, 0, t.max+1)
	for v := 0; v <= t.max; v++ {
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return ticks
}

// shade lightens a group color for every series past the first so
// overlapping series stay distinguishable.
func shade(c color.Color, series int) color.Color {
	if series == 0 {
		return c
	}
	t := 0.3 * float64(series)
	if t > 0.8 {
		t = 0.8
	}
	r, g, b, a := c.RGBA()
	blend := func(ch uint32) uint8 {
		v := float64(ch >> 8)
		return uint8(v + (255-v)*t)
	}
	return color.RGBA{R: blend(r), G: blend(g), B: blend(b), A: uint8(a >> 8)}
}

// seriesThumb is a filled legend swatch in a series color
type seriesThumb struct {
	fill color.Color
}

func (t seriesThumb) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(t.fill, c.ClipPolygonY(pts))
}

func paintAxis(ax *plot.Axis, c color.Color) {
	ax.LineStyle.Color = c
	ax.Label.TextStyle.Color = c
	ax.Tick.LineStyle.Color = c
	ax.Tick.Label.Color = c
}

func (e *Explorer) paintAxes(p *plot.Plot) {
	paintAxis(&p.X, e.axes)
	paintAxis(&p.Y, e.axes)
}

// savePlot writes PNG output at print resolution and defers other
// formats to the plot's own writers.
func savePlot(p *plot.Plot, path string) error {
	if strings.ToLower(filepath.Ext(path)) != ".png" {
		if err := p.Save(plotWidth, plotHeight, path); err != nil {
			return errors.Wrapf(err, "save plot to %s", path)
		}
		return nil
	}
	img := vgimg.NewWith(vgimg.UseWH(plotWidth, plotHeight), vgimg.UseDPI(plotDPI))
	p.Draw(draw.New(img))
	return writePNG(img, path)
}

func writePNG(img *vgimg.Canvas, path string) error {
	w, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create plot file %s", path)
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return errors.Wrapf(err, "write plot file %s", path)
	}
	return nil
}
