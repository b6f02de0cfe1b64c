package exploration

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
	"github.com/MarcRuble/experiment-evaluation/internal/testkit"
)

func testFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New("participant", "size", "score", "errors")
	sizes := []string{"S", "M", "L"}
	scores := [][]float64{{1, 2, 3}, {2, 3, 4}, {5, 6, 7}}
	faults := [][]float64{{2, 1, 2}, {1, 1, 0}, {0, 1, 0}}
	for i, size := range sizes {
		for j := range scores[i] {
			require.NoError(t, f.Append(
				frame.Num(float64(j+1)),
				frame.Str(size),
				frame.Num(scores[i][j]),
				frame.Num(faults[i][j]),
			))
		}
	}
	return f
}

func sizePalette() []color.Color {
	return []color.Color{
		color.RGBA{R: 102, G: 153, B: 204, A: 255},
		color.RGBA{R: 153, G: 204, B: 102, A: 255},
		color.RGBA{R: 204, G: 102, B: 102, A: 255},
	}
}

// configuredSession returns a session with order and colors saved for
// the size column.
func configuredSession(t *testing.T) *Explorer {
	t.Helper()
	e, err := New(testFrame(t))
	require.NoError(t, err)
	e.SaveOrder("size", frame.Str("S"), frame.Str("M"), frame.Str("L"))
	e.SaveColors("size", sizePalette()...)
	return e
}

func assertFileWritten(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err, "plot file should exist")
	assert.Greater(t, info.Size(), int64(0), "plot file should not be empty")
}

func TestNew_RequiresFrame(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	e, err := New(testFrame(t))
	require.NoError(t, err)
	assert.NotEmpty(t, e.SessionID())
	assert.Equal(t, 9, e.Frame().Len())
}

func TestExcludeReplace(t *testing.T) {
	src := testFrame(t)
	e, err := New(src)
	require.NoError(t, err)

	_, err = e.Exclude(frame.Where("size", frame.Str("L")))
	require.NoError(t, err)
	assert.Equal(t, 6, e.Frame().Len())
	assert.Equal(t, 9, src.Len(), "source dataset stays untouched")

	_, err = e.Replace(frame.Where("size", frame.Str("M")), "score", frame.Num(9))
	require.NoError(t, err)
	sub, err := e.Frame().Filter(frame.Where("size", frame.Str("M")))
	require.NoError(t, err)
	values, err := sub.Floats("score")
	require.NoError(t, err)
	for _, v := range values {
		assert.Equal(t, 9.0, v)
	}
}

func TestAggregate(t *testing.T) {
	mean, err := AggregateMean.apply([]float64{1, 2, 10})
	require.NoError(t, err)
	assert.InDelta(t, 13.0/3.0, mean, 1e-9)

	median, err := AggregateMedian.apply([]float64{1, 2, 10})
	require.NoError(t, err)
	assert.InDelta(t, 2, median, 1e-9)

	_, err = AggregateMean.apply(nil)
	assert.Error(t, err, "empty groups cannot aggregate")
}

func TestShade(t *testing.T) {
	base := color.RGBA{R: 100, G: 150, B: 200, A: 255}
	assert.Equal(t, color.Color(base), shade(base, 0), "first series keeps the group color")

	r0, g0, b0, _ := base.RGBA()
	r1, g1, b1, a1 := shade(base, 1).RGBA()
	assert.Greater(t, r1, r0)
	assert.Greater(t, g1, g0)
	assert.Greater(t, b1, b0)
	assert.Equal(t, uint32(0xffff), a1)

	r2, g2, b2, _ := shade(base, 2).RGBA()
	assert.Greater(t, r2, r1)
	assert.Greater(t, g2, g1)
	assert.Greater(t, b2, b1)
}

func TestBarPlot_WritesFile(t *testing.T) {
	e := configuredSession(t)
	path := filepath.Join(t.TempDir(), "scores.png")
	err := e.BarPlot(BarOptions{
		Path:   path,
		X:      "size",
		Y:      []string{"score"},
		MaxY:   8,
		YLabel: "mean score",
	})
	require.NoError(t, err)
	assertFileWritten(t, path)
}

func TestBarPlot_MultipleSeries(t *testing.T) {
	e := configuredSession(t)
	path := filepath.Join(t.TempDir(), "series.png")
	err := e.BarPlot(BarOptions{
		Path:      path,
		X:         "size",
		Y:         []string{"score", "errors"},
		YLegend:   []string{"mean score", "mean errors"},
		Aggregate: AggregateMedian,
	})
	require.NoError(t, err)
	assertFileWritten(t, path)
}

func TestBarPlot_Condition(t *testing.T) {
	e := configuredSession(t)
	path := filepath.Join(t.TempDir(), "conditioned.png")
	err := e.BarPlot(BarOptions{
		Path:      path,
		X:         "size",
		Y:         []string{"score"},
		Condition: frame.Where("participant", frame.Num(1)),
	})
	require.NoError(t, err)
	assertFileWritten(t, path)

	err = e.BarPlot(BarOptions{
		Path:      filepath.Join(t.TempDir(), "bad.png"),
		X:         "size",
		Y:         []string{"score"},
		Condition: frame.Where("missing", frame.Num(1)),
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeColumnNotFound, errors.GetCode(err))
}

func TestBarPlot_MissingConfig(t *testing.T) {
	e, err := New(testFrame(t))
	require.NoError(t, err)
	opts := BarOptions{
		Path: filepath.Join(t.TempDir(), "plot.png"),
		X:    "size",
		Y:    []string{"score"},
	}

	err = e.BarPlot(opts)
	require.Error(t, err)
	assert.Equal(t, errors.CodeOrderNotFound, errors.GetCode(err))

	e.SaveOrder("size", frame.Str("S"), frame.Str("M"), frame.Str("L"))
	err = e.BarPlot(opts)
	require.Error(t, err)
	assert.Equal(t, errors.CodeColorNotFound, errors.GetCode(err))

	e.SaveDefaultColors(sizePalette()...)
	require.NoError(t, e.BarPlot(opts))
	assertFileWritten(t, opts.Path)
}

func TestBarPlot_Validation(t *testing.T) {
	e := configuredSession(t)
	dir := t.TempDir()

	err := e.BarPlot(BarOptions{X: "size", Y: []string{"score"}})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	err = e.BarPlot(BarOptions{Path: filepath.Join(dir, "p.png"), Y: []string{"score"}})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	err = e.BarPlot(BarOptions{Path: filepath.Join(dir, "p.png"), X: "size"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestBoxPlot_WritesFile(t *testing.T) {
	e := configuredSession(t)
	path := filepath.Join(t.TempDir(), "scores_box.png")
	err := e.BoxPlot(BoxOptions{
		Path: path,
		X:    "size",
		Y:    []string{"score"},
		MaxY: 8,
	})
	require.NoError(t, err)
	assertFileWritten(t, path)
}

func TestBoxPlot_SkipsEmptyGroups(t *testing.T) {
	e := configuredSession(t)
	e.SaveOrder("size", frame.Str("S"), frame.Str("M"), frame.Str("L"), frame.Str("XL"))
	path := filepath.Join(t.TempDir(), "partial.png")
	err := e.BoxPlot(BoxOptions{
		Path: path,
		X:    "size",
		Y:    []string{"score"},
	})
	require.NoError(t, err, "groups without rows are skipped")
	assertFileWritten(t, path)
}

func TestBoxPlot_SVGOutput(t *testing.T) {
	e := configuredSession(t)
	path := filepath.Join(t.TempDir(), "scores.svg")
	err := e.BoxPlot(BoxOptions{
		Path: path,
		X:    "size",
		Y:    []string{"score"},
	})
	require.NoError(t, err)
	assertFileWritten(t, path)
}

func TestBothPlot_WritesFile(t *testing.T) {
	e := configuredSession(t)
	path := filepath.Join(t.TempDir(), "combined.png")
	err := e.BothPlot(
		BarOptions{X: "size", Y: []string{"score"}, MaxY: 8},
		BoxOptions{X: "size", Y: []string{"score"}, MaxY: 8},
		path,
	)
	require.NoError(t, err)
	assertFileWritten(t, path)

	err = e.BothPlot(BarOptions{X: "size", Y: []string{"score"}}, BoxOptions{X: "size", Y: []string{"score"}}, "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestBothPlot_GeneratedData(t *testing.T) {
	f, err := testkit.NewExperimentGenerator(testkit.DefaultExperimentConfig()).Generate()
	require.NoError(t, err)

	e, err := New(f)
	require.NoError(t, err)
	e.SaveOrder("size", frame.Str("S"), frame.Str("M"), frame.Str("L"))
	e.SaveDefaultColors(sizePalette()...)

	path := filepath.Join(t.TempDir(), "generated.png")
	err = e.BothPlot(
		BarOptions{X: "size", Y: []string{"score"}},
		BoxOptions{X: "size", Y: []string{"score"}},
		path,
	)
	require.NoError(t, err)
	assertFileWritten(t, path)
}
