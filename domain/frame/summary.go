package frame

import (
	"sort"
	"strings"

	"github.com/MarcRuble/experiment-evaluation/internal/errors"
	"github.com/montanaflynn/stats"
)

// ValueCount pairs a distinct column value with its row count
type ValueCount struct {
	Value Value
	Count int
}

// Mean returns the mean of a numeric column
func (f *Frame) Mean(column string) (float64, error) {
	series, err := f.Floats(column)
	if err != nil {
		return 0, err
	}
	mean, err := stats.Mean(series)
	if err != nil {
		return 0, errors.Wrapf(err, "mean of column %q", column)
	}
	return mean, nil
}

// Std returns the sample standard deviation of a numeric column
func (f *Frame) Std(column string) (float64, error) {
	series, err := f.Floats(column)
	if err != nil {
		return 0, err
	}
	std, err := stats.StandardDeviationSample(series)
	if err != nil {
		return 0, errors.Wrapf(err, "standard deviation of column %q", column)
	}
	return std, nil
}

// CountsBy tallies rows per distinct value of a column, in
// first-occurrence order.
func (f *Frame) CountsBy(column string) ([]ValueCount, error) {
	groups, err := f.distinct(column)
	if err != nil {
		return nil, err
	}
	counts := make([]ValueCount, len(groups))
	for i, g := range groups {
		counts[i] = ValueCount{Value: g}
		for _, r := range f.rows {
			if g.Equal(r[column]) {
				counts[i].Count++
			}
		}
	}
	return counts, nil
}

// Table renders the frame as a fixed-width text table for interactive
// inspection.
func (f *Frame) Table() string {
	widths := make([]int, len(f.columns))
	for i, col := range f.columns {
		widths[i] = len(col)
	}
	cells := make([][]string, len(f.rows))
	for ri, r := range f.rows {
		cells[ri] = make([]string, len(f.columns))
		for ci, col := range f.columns {
			text := r[col].Text()
			cells[ri][ci] = text
			if len(text) > widths[ci] {
				widths[ci] = len(text)
			}
		}
	}

	var b strings.Builder
	writeLine := func(fields []string) {
		for i, field := range fields {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(field)
			b.WriteString(strings.Repeat(" ", widths[i]-len(field)))
		}
		b.WriteString("\n")
	}
	writeLine(f.columns)
	for _, row := range cells {
		writeLine(row)
	}
	return b.String()
}

// SortedTable renders the frame sorted by one column. Sorting is
// stable and compares numerically when both cells are numeric.
func (f *Frame) SortedTable(by string, ascending bool) (string, error) {
	if !f.HasColumn(by) {
		return "", errors.ColumnNotFound(by)
	}
	sorted := &Frame{columns: f.columns, rows: append([]Row(nil), f.rows...)}
	sort.SliceStable(sorted.rows, func(i, j int) bool {
		if ascending {
			return lessValue(sorted.rows[i][by], sorted.rows[j][by])
		}
		return lessValue(sorted.rows[j][by], sorted.rows[i][by])
	})
	return sorted.Table(), nil
}

// lessValue orders two cells, numerically when possible
func lessValue(a, b Value) bool {
	an, aok := a.Float()
	bn, bok := b.Float()
	if aok && bok {
		return an < bn
	}
	return a.Text() < b.Text()
}
