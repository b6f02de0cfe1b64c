// Package evaluation provides the analysis session for repeated-measures
// experiment data: dataset manipulation, descriptive summaries, assumption
// checks, omnibus tests, and pairwise group comparisons with Bonferroni
// correction and significance annotation.
package evaluation

import (
	"github.com/google/uuid"

	"github.com/MarcRuble/experiment-evaluation/adapters/table"
	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/domain/result"
	"github.com/MarcRuble/experiment-evaluation/internal"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// DefaultAlpha is the significance level new sessions start with
const DefaultAlpha = 0.05

// Settings holds the explicit session configuration
type Settings struct {
	Alpha float64
}

func (s Settings) validate() error {
	if s.Alpha <= 0 || s.Alpha >= 1 {
		return errors.ConfigInvalid("alpha must lie strictly between 0 and 1")
	}
	return nil
}

// Option configures an Evaluator at construction
type Option func(*Evaluator)

// WithAlpha sets the significance level
func WithAlpha(alpha float64) Option {
	return func(e *Evaluator) { e.settings.Alpha = alpha }
}

// WithLogger replaces the session logger
func WithLogger(log *internal.Logger) Option {
	return func(e *Evaluator) { e.log = log }
}

// Evaluator is one analysis session. It holds the current dataset
// reference, the significance settings, and the group ordering table.
// Dataset transforms produce a new frame and swap the held reference;
// the caller's original frame is never mutated. Sessions are not safe
// for concurrent use.
type Evaluator struct {
	df        *frame.Frame
	settings  Settings
	ordering  *frame.Ordering
	sessionID string
	log       *internal.Logger
}

// New creates an analysis session over a dataset
func New(f *frame.Frame, opts ...Option) (*Evaluator, error) {
	if f == nil {
		return nil, errors.InvalidInput("evaluation needs a dataset")
	}
	e := &Evaluator{
		df:        f,
		settings:  Settings{Alpha: DefaultAlpha},
		ordering:  frame.NewOrdering(),
		sessionID: newSessionID(),
		log:       internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.settings.validate(); err != nil {
		return nil, err
	}
	e.log.Debug("Evaluation session %s started over %d rows", e.sessionID, f.Len())
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
func (e *Evaluator) Frame() *frame.Frame {
	return e.df
}

// SessionID returns the identifier correlating this session's log lines
func (e *Evaluator) SessionID() string {
	return e.sessionID
}

// Alpha returns the session significance level
func (e *Evaluator) Alpha() float64 {
	return e.settings.Alpha
}

// SetAlpha adjusts the significance level used by all later checks
func (e *Evaluator) SetAlpha(alpha float64) error {
	s := Settings{Alpha: alpha}
	if err := s.validate(); err != nil {
		return err
	}
	e.settings = s
	return nil
}

// SaveOrder fixes the enumeration order for a column's values. Groups
// not listed here fall back to first-occurrence order.
func (e *Evaluator) SaveOrder(column string, values ...frame.Value) {
	e.ordering.Set(column, values)
}

// Exclude drops rows matching the condition and makes the narrowed
// dataset the session's current reference.
func (e *Evaluator) Exclude(c frame.Condition) (*Evaluator, error) {
	out, err := e.df.Exclude(c)
	if err != nil {
		return e, err
	}
	e.df = out
	return e, nil
}

// Replace sets column to v on rows matching the condition
func (e *Evaluator) Replace(c frame.Condition, column string, v frame.Value) (*Evaluator, error) {
	out, err := e.df.Replace(c, column, v)
	if err != nil {
		return e, err
	}
	e.df = out
	return e, nil
}

// AddMean appends one row per subject holding the mean of the value
// column across that subject's rows, labeled in the across column.
func (e *Evaluator) AddMean(subject, across, value string, label frame.Value) (*Evaluator, error) {
	out, err := e.df.AddMeanRows(subject, across, value, label)
	if err != nil {
		return e, err
	}
	e.df = out
	return e, nil
}

// AddMeanColumn appends a column holding the row-wise mean of the
// given columns.
func (e *Evaluator) AddMeanColumn(name string, columns ...string) (*Evaluator, error) {
	out, err := e.df.AddMeanColumn(name, columns...)
	if err != nil {
		return e, err
	}
	e.df = out
	return e, nil
}

// Mean returns the mean of a column over rows matching the condition
func (e *Evaluator) Mean(column string, c frame.Condition) (float64, error) {
	filtered, err := e.df.Filter(c)
	if err != nil {
		return 0, err
	}
	return filtered.Mean(column)
}

// Std returns the sample standard deviation of a column over rows
// matching the condition.
func (e *Evaluator) Std(column string, c frame.Condition) (float64, error) {
	filtered, err := e.df.Filter(c)
	if err != nil {
		return 0, err
	}
	return filtered.Std(column)
}

// Counts tallies rows per distinct value of a column over rows
// matching the condition.
func (e *Evaluator) Counts(column string, c frame.Condition) ([]frame.ValueCount, error) {
	filtered, err := e.df.Filter(c)
	if err != nil {
		return nil, err
	}
	return filtered.CountsBy(column)
}

// Display renders the current dataset as a fixed-width table
func (e *Evaluator) Display() string {
	return e.df.Table()
}

// DisplaySorted renders the current dataset sorted by one column
func (e *Evaluator) DisplaySorted(column string, ascending bool) (string, error) {
	return e.df.SortedTable(column, ascending)
}

// SaveTable writes a comparison result table to a CSV file
func (e *Evaluator) SaveTable(path string, t result.Table) error {
	if err := table.WriteCSV(path, t.Columns(), t.Records()); err != nil {
		return err
	}
	e.log.Info("Session %s saved result table to %s", e.sessionID, path)
	return nil
}

// conditionSuffix renders a condition for log lines
func conditionSuffix(c frame.Condition) string {
	if c.IsEmpty() {
		return ""
	}
	return " with " + c.String()
}

// groupSeries extracts the value series of every enumerated group
// after applying the condition.
func (e *Evaluator) groupSeries(value, group string, c frame.Condition) ([][]float64, []frame.Value, error) {
	filtered, err := e.df.Filter(c)
	if err != nil {
		return nil, nil, err
	}
	groups, err := filtered.OrderedGroups(group, e.ordering)
	if err != nil {
		return nil, nil, err
	}
	series := make([][]float64, len(groups))
	for i, g := range groups {
		s, err := seriesOf(filtered, value, group, g)
		if err != nil {
			return nil, nil, err
		}
		series[i] = s
	}
	return series, groups, nil
}

// seriesOf extracts the value series of one group in row order
func seriesOf(f *frame.Frame, value, group string, g frame.Value) ([]float64, error) {
	sub, err := f.Filter(frame.Where(group, g))
	if err != nil {
		return nil, err
	}
	return sub.Floats(value)
}
