package frame

import (
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// Ordering is the group ordering table: per-column explicit value
// sequences consulted by every grouping operation. Set once during
// session configuration and read-only afterwards.
type Ordering struct {
	orders map[string][]Value
}

// NewOrdering creates an empty ordering table
func NewOrdering() *Ordering {
	return &Ordering{orders: make(map[string][]Value)}
}

// Set stores the explicit order for a column, replacing any previous one
func (o *Ordering) Set(column string, values []Value) {
	o.orders[column] = append([]Value(nil), values...)
}

// Lookup returns the explicit order for a column, if one was saved
func (o *Ordering) Lookup(column string) ([]Value, bool) {
	values, ok := o.orders[column]
	return values, ok
}

// OrderedGroups enumerates the groups of a categorical column: the
// saved explicit order verbatim when the ordering table has one (even
// entries with zero matching rows), else the distinct values in
// first-occurrence order. Deterministic for an unchanged frame and
// ordering table. A nil ordering always falls back to discovery order.
func (f *Frame) OrderedGroups(column string, ord *Ordering) ([]Value, error) {
	if !f.HasColumn(column) {
		return nil, errors.ColumnNotFound(column)
	}
	if ord != nil {
		if saved, ok := ord.Lookup(column); ok {
			return append([]Value(nil), saved...), nil
		}
	}
	return f.distinct(column)
}
