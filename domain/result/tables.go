package result

import (
	"strings"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// Table is the surface shared by both comparison result layouts,
// enough to export or render either one.
type Table interface {
	Columns() []string
	Records() [][]frame.Value
}

// PairTable is the flat comparison layout used when no baseline is
// designated: one row per compared pair, columns A, B, then one column
// per metric (statistic, p, corrected p, effect sizes).
type PairTable struct {
	metrics []string
	rows    []pairRow
}

type pairRow struct {
	a, b  frame.Value
	cells map[string]frame.Value
}

// NewPairTable creates an empty pair table with the given metric columns
func NewPairTable(metrics ...string) *PairTable {
	return &PairTable{metrics: append([]string(nil), metrics...)}
}

// AddPair appends one comparison outcome
func (t *PairTable) AddPair(a, b frame.Value, cells map[string]frame.Value) {
	copied := make(map[string]frame.Value, len(cells))
	for k, v := range cells {
		copied[k] = v
	}
	t.rows = append(t.rows, pairRow{a: a, b: b, cells: copied})
}

// Len returns the number of compared pairs
func (t *PairTable) Len() int {
	return len(t.rows)
}

// Pair returns the two group identifiers of row i
func (t *PairTable) Pair(i int) (a, b frame.Value) {
	return t.rows[i].a, t.rows[i].b
}

// Cell returns one metric cell of row i
func (t *PairTable) Cell(i int, metric string) (frame.Value, bool) {
	v, ok := t.rows[i].cells[metric]
	return v, ok
}

// Columns returns A, B, then the metric columns
func (t *PairTable) Columns() []string {
	cols := make([]string, 0, len(t.metrics)+2)
	cols = append(cols, "A", "B")
	cols = append(cols, t.metrics...)
	return cols
}

// Records returns the rows in insertion order, aligned with Columns
func (t *PairTable) Records() [][]frame.Value {
	records := make([][]frame.Value, len(t.rows))
	for i, row := range t.rows {
		rec := make([]frame.Value, 0, len(t.metrics)+2)
		rec = append(rec, row.a, row.b)
		for _, m := range t.metrics {
			rec = append(rec, row.cells[m])
		}
		records[i] = rec
	}
	return records
}

// String renders the table fixed-width
func (t *PairTable) String() string {
	return render(t)
}

// BaselineTable is the metric-indexed comparison layout used when a
// baseline is designated: one row per metric, one column per
// non-baseline group. The layout difference from PairTable is a
// display convention, not a semantic one.
type BaselineTable struct {
	metrics []string
	groups  []frame.Value
	cells   map[string]map[string]frame.Value
}

// NewBaselineTable creates a table with fixed metric rows and group columns
func NewBaselineTable(metrics []string, groups []frame.Value) *BaselineTable {
	t := &BaselineTable{
		metrics: append([]string(nil), metrics...),
		groups:  append([]frame.Value(nil), groups...),
		cells:   make(map[string]map[string]frame.Value, len(metrics)),
	}
	for _, m := range t.metrics {
		t.cells[m] = make(map[string]frame.Value, len(groups))
	}
	return t
}

// Set stores one cell; metric and group must belong to the table
func (t *BaselineTable) Set(metric string, group frame.Value, v frame.Value) error {
	row, ok := t.cells[metric]
	if !ok {
		return errors.NotFound("metric row " + metric)
	}
	if !t.hasGroup(group) {
		return errors.NotFound("group column " + group.Text())
	}
	row[group.Text()] = v
	return nil
}

// Cell returns one cell by metric row and group column
func (t *BaselineTable) Cell(metric string, group frame.Value) (frame.Value, bool) {
	row, ok := t.cells[metric]
	if !ok {
		return frame.Value{}, false
	}
	v, ok := row[group.Text()]
	return v, ok
}

// Metrics returns the metric row labels in order
func (t *BaselineTable) Metrics() []string {
	return append([]string(nil), t.metrics...)
}

// Groups returns the group columns in order
func (t *BaselineTable) Groups() []frame.Value {
	return append([]frame.Value(nil), t.groups...)
}

// Columns returns the metric-label column followed by the group columns
func (t *BaselineTable) Columns() []string {
	cols := make([]string, 0, len(t.groups)+1)
	cols = append(cols, "metric")
	for _, g := range t.groups {
		cols = append(cols, g.Text())
	}
	return cols
}

// Records returns one row per metric, aligned with Columns
func (t *BaselineTable) Records() [][]frame.Value {
	records := make([][]frame.Value, len(t.metrics))
	for i, m := range t.metrics {
		rec := make([]frame.Value, 0, len(t.groups)+1)
		rec = append(rec, frame.Str(m))
		for _, g := range t.groups {
			rec = append(rec, t.cells[m][g.Text()])
		}
		records[i] = rec
	}
	return records
}

// String renders the table fixed-width
func (t *BaselineTable) String() string {
	return render(t)
}

func (t *BaselineTable) hasGroup(group frame.Value) bool {
	for _, g := range t.groups {
		if g.Equal(group) {
			return true
		}
	}
	return false
}

// render lays out any result table as fixed-width text
func render(t Table) string {
	columns := t.Columns()
	records := t.Records()

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	cells := make([][]string, len(records))
	for ri, rec := range records {
		cells[ri] = make([]string, len(columns))
		for ci := range columns {
			text := ""
			if ci < len(rec) {
				text = rec[ci].Text()
			}
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
	writeLine(columns)
	for _, row := range cells {
		writeLine(row)
	}
	return b.String()
}
