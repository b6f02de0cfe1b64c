package frame

import (
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
	"github.com/montanaflynn/stats"
)

// Row is one record, mapping column name to cell value
type Row map[string]Value

// Frame is an ordered collection of rows with a fixed column set.
// Frames are treated as immutable views: every transform returns a
// new frame and leaves the receiver untouched. Row maps may be shared
// between a frame and its filtered views.
type Frame struct {
	columns []string
	rows    []Row
}

// New creates an empty frame with the given column order
func New(columns ...string) *Frame {
	return &Frame{columns: append([]string(nil), columns...)}
}

// FromRecords creates a frame from records aligned with the column order
func FromRecords(columns []string, records [][]Value) (*Frame, error) {
	f := New(columns...)
	for _, rec := range records {
		if len(rec) != len(columns) {
			return nil, errors.InvalidInput("record length does not match column count")
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = rec[i]
		}
		f.rows = append(f.rows, row)
	}
	return f, nil
}

// Append adds one row built from values aligned with the column order
func (f *Frame) Append(values ...Value) error {
	if len(values) != len(f.columns) {
		return errors.InvalidInput("value count does not match column count")
	}
	row := make(Row, len(f.columns))
	for i, col := range f.columns {
		row[col] = values[i]
	}
	f.rows = append(f.rows, row)
	return nil
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return len(f.rows)
}

// Columns returns the column names in declaration order
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// HasColumn reports whether the frame declares a column
func (f *Frame) HasColumn(name string) bool {
	for _, col := range f.columns {
		if col == name {
			return true
		}
	}
	return false
}

// At returns the row at index i
func (f *Frame) At(i int) Row {
	return f.rows[i]
}

// Column returns the cells of one column in row order
func (f *Frame) Column(name string) ([]Value, error) {
	if !f.HasColumn(name) {
		return nil, errors.ColumnNotFound(name)
	}
	out := make([]Value, len(f.rows))
	for i, r := range f.rows {
		out[i] = r[name]
	}
	return out, nil
}

// Floats projects one column to float64, failing on any non-numeric cell
func (f *Frame) Floats(name string) ([]float64, error) {
	cells, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, v := range cells {
		num, ok := v.Float()
		if !ok {
			return nil, errors.ValueNotNumeric(name)
		}
		out[i] = num
	}
	return out, nil
}

// checkColumns verifies every referenced column exists
func (f *Frame) checkColumns(names ...string) error {
	for _, name := range names {
		if !f.HasColumn(name) {
			return errors.ColumnNotFound(name)
		}
	}
	return nil
}

// Filter returns the view of rows matching the condition. An empty
// condition is the identity and returns the receiver itself. Clauses
// narrow the row set one at a time; clause order never changes the
// result set.
func (f *Frame) Filter(c Condition) (*Frame, error) {
	out := f
	for _, cl := range c.clauses {
		if !out.HasColumn(cl.column) {
			return nil, errors.ColumnNotFound(cl.column)
		}
		narrowed := make([]Row, 0, len(out.rows))
		for _, r := range out.rows {
			if cl.value.Equal(r[cl.column]) {
				narrowed = append(narrowed, r)
			}
		}
		out = &Frame{columns: out.columns, rows: narrowed}
	}
	return out, nil
}

// Exclude returns a new frame without the rows matching the condition.
// An empty condition matches every row, leaving an empty frame.
func (f *Frame) Exclude(c Condition) (*Frame, error) {
	if err := f.checkColumns(c.Columns()...); err != nil {
		return nil, err
	}
	kept := make([]Row, 0, len(f.rows))
	for _, r := range f.rows {
		if !c.matches(r) {
			kept = append(kept, r)
		}
	}
	return &Frame{columns: f.columns, rows: kept}, nil
}

// Replace returns a new frame where rows matching the condition have
// column set to v. Affected rows are copied so the receiver's rows stay
// untouched.
func (f *Frame) Replace(c Condition, column string, v Value) (*Frame, error) {
	if err := f.checkColumns(column); err != nil {
		return nil, err
	}
	if err := f.checkColumns(c.Columns()...); err != nil {
		return nil, err
	}
	rows := make([]Row, len(f.rows))
	for i, r := range f.rows {
		if c.matches(r) {
			replaced := make(Row, len(r))
			for k, val := range r {
				replaced[k] = val
			}
			replaced[column] = v
			rows[i] = replaced
		} else {
			rows[i] = r
		}
	}
	return &Frame{columns: f.columns, rows: rows}, nil
}

// AddMeanRows appends, for each distinct value of the subject column,
// one synthetic row holding the mean of the value column across that
// subject's rows, with the across column set to label. Remaining
// columns carry over from the subject's first row. Subjects appear in
// first-occurrence order.
func (f *Frame) AddMeanRows(subject, across, value string, label Value) (*Frame, error) {
	if err := f.checkColumns(subject, across, value); err != nil {
		return nil, err
	}

	subjects, err := f.distinct(subject)
	if err != nil {
		return nil, err
	}

	rows := append([]Row(nil), f.rows...)
	for _, subj := range subjects {
		var series []float64
		var first Row
		for _, r := range f.rows {
			if !subj.Equal(r[subject]) {
				continue
			}
			if first == nil {
				first = r
			}
			num, ok := r[value].Float()
			if !ok {
				return nil, errors.ValueNotNumeric(value)
			}
			series = append(series, num)
		}
		mean, err := stats.Mean(series)
		if err != nil {
			return nil, errors.Wrapf(err, "mean of %q for subject %s", value, subj.Text())
		}

		added := make(Row, len(first))
		for k, val := range first {
			added[k] = val
		}
		added[across] = label
		added[value] = Num(mean)
		rows = append(rows, added)
	}
	return &Frame{columns: f.columns, rows: rows}, nil
}

// AddMeanColumn returns a new frame with an extra column holding the
// row-wise mean of the given numeric columns. An existing column of
// the same name is overwritten.
func (f *Frame) AddMeanColumn(name string, columns ...string) (*Frame, error) {
	if len(columns) == 0 {
		return nil, errors.InvalidInput("mean column needs at least one source column")
	}
	if err := f.checkColumns(columns...); err != nil {
		return nil, err
	}

	cols := f.Columns()
	if !f.HasColumn(name) {
		cols = append(cols, name)
	}

	rows := make([]Row, len(f.rows))
	for i, r := range f.rows {
		var sum float64
		for _, col := range columns {
			num, ok := r[col].Float()
			if !ok {
				return nil, errors.ValueNotNumeric(col)
			}
			sum += num
		}
		added := make(Row, len(r)+1)
		for k, v := range r {
			added[k] = v
		}
		added[name] = Num(sum / float64(len(columns)))
		rows[i] = added
	}
	return &Frame{columns: cols, rows: rows}, nil
}

// distinct returns the column's distinct values in first-occurrence order
func (f *Frame) distinct(column string) ([]Value, error) {
	if !f.HasColumn(column) {
		return nil, errors.ColumnNotFound(column)
	}
	var out []Value
	for _, r := range f.rows {
		v := r[column]
		found := false
		for _, seen := range out {
			if seen.Equal(v) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	return out, nil
}
