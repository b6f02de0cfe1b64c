// Package exploration provides the visualization session for
// repeated-measures experiment data: grouped bar and box plots with
// consistent group ordering, per-group color schemes, and file output.
package exploration

import (
	"image/color"

	"github.com/google/uuid"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// Option configures an Explorer at construction
type Option func(*Explorer)

// WithLogger replaces the session logger
func WithLogger(log *internal.Logger) Option {
	return func(e *Explorer) { e.log = log }
}

// Explorer is one visualization session. It holds the current dataset
// reference, the group ordering table, and the color schemes consulted
// by every plot. Configuration is set before plotting and treated as
// read-only during a plot call. Sessions are not safe for concurrent
// use.
type Explorer struct {
	df        *frame.Frame
	ordering  *frame.Ordering
	colors    map[string][]color.Color
	fallback  []color.Color
	axes      color.Color
	sessionID string
	log       *internal.Logger
}

// New creates a visualization session over a dataset
func New(f *frame.Frame, opts ...Option) (*Explorer, error) {
	if f == nil {
		return nil, errors.InvalidInput("exploration needs a dataset")
	}
	e := &Explorer{
		df:        f,
		ordering:  frame.NewOrdering(),
		colors:    make(map[string][]color.Color),
		axes:      color.Black,
		sessionID: newSessionID(),
		log:       internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log.Debug("Exploration session %s started over %d rows", e.sessionID, f.Len())
	return e, nil
}

// newSessionID produces a time-ordered identifier, falling back to a
// random one.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// Frame exposes the session's current dataset reference
func (e *Explorer) Frame() *frame.Frame {
	return e.df
}

// SessionID returns the identifier correlating this session's log lines
func (e *Explorer) SessionID() string {
	return e.sessionID
}

// SaveOrder fixes the enumeration order for a column's values. Plots
// require a saved order for their grouping column.
func (e *Explorer) SaveOrder(column string, values ...frame.Value) {
	e.ordering.Set(column, values)
}

// SaveColors fixes the color scheme for a column, aligned with the
// column's saved order.
func (e *Explorer) SaveColors(column string, colors ...color.Color) {
	e.colors[column] = colors
}

// SaveDefaultColors fixes the palette used for columns without their
// own scheme.
func (e *Explorer) SaveDefaultColors(colors ...color.Color) {
	e.fallback = colors
}

// SetAxesColor sets the color of axis lines, ticks and labels
func (e *Explorer) SetAxesColor(c color.Color) {
	e.axes = c
}

// Exclude drops rows matching the condition and makes the narrowed
// dataset the session's current reference.
func (e *Explorer) Exclude(c frame.Condition) (*Explorer, error) {
	out, err := e.df.Exclude(c)
	if err != nil {
		return e, err
	}
	e.df = out
	return e, nil
}

// Replace sets column to v on rows matching the condition
func (e *Explorer) Replace(c frame.Condition, column string, v frame.Value) (*Explorer, error) {
	out, err := e.df.Replace(c, column, v)
	if err != nil {
		return e, err
	}
	e.df = out
	return e, nil
}

// groupsFor returns the saved order of the grouping column. Plots do
// not fall back to discovery order: an unordered x axis is a
// configuration mistake.
func (e *Explorer) groupsFor(x string) ([]frame.Value, error) {
	if values, ok := e.ordering.Lookup(x); ok {
		return values, nil
	}
	return nil, errors.OrderNotFound(x)
}

// colorsFor returns one color per group for a column, from the
// column's scheme or the default palette, cycling when the palette is
// shorter than the group list.
func (e *Explorer) colorsFor(column string, groups int) ([]color.Color, error) {
	palette, ok := e.colors[column]
	if !ok {
		palette = e.fallback
	}
	if len(palette) == 0 {
		return nil, errors.ColorNotFound(column)
	}
	out := make([]color.Color, groups)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out, nil
}

// conditionSuffix renders a condition for log lines
func conditionSuffix(c frame.Condition) string {
	if c.IsEmpty() {
		return ""
	}
	return " with " + c.String()
}
