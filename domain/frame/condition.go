package frame

import (
	"fmt"
	"strings"
)

// clause is one equality predicate on a column
type clause struct {
	column string
	value  Value
}

// Condition restricts a frame to rows matching a conjunction of
// equality predicates. The zero value (or NoCondition) matches every
// row. Conditions are resolved once at construction; consumers only
// ever see the clause list.
type Condition struct {
	clauses []clause
}

// NoCondition matches every row
func NoCondition() Condition {
	return Condition{}
}

// Where matches rows whose column equals value
func Where(column string, value Value) Condition {
	return Condition{clauses: []clause{{column: column, value: value}}}
}

// And combines conditions into one conjunction, preserving clause order
func And(conds ...Condition) Condition {
	var combined []clause
	for _, c := range conds {
		combined = append(combined, c.clauses...)
	}
	return Condition{clauses: combined}
}

// IsEmpty reports whether the condition has no clauses
func (c Condition) IsEmpty() bool {
	return len(c.clauses) == 0
}

// Columns returns the distinct columns the condition references, in
// clause order.
func (c Condition) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, cl := range c.clauses {
		if !seen[cl.column] {
			seen[cl.column] = true
			cols = append(cols, cl.column)
		}
	}
	return cols
}

// String renders the condition for log lines
func (c Condition) String() string {
	if len(c.clauses) == 0 {
		return "<all rows>"
	}
	parts := make([]string, len(c.clauses))
	for i, cl := range c.clauses {
		parts[i] = fmt.Sprintf("%s=%s", cl.column, cl.value.Text())
	}
	return strings.Join(parts, " AND ")
}

// matches reports whether a row satisfies every clause
func (c Condition) matches(r Row) bool {
	for _, cl := range c.clauses {
		if !cl.value.Equal(r[cl.column]) {
			return false
		}
	}
	return true
}
