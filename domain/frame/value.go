package frame

import (
	"strconv"
)

// Kind discriminates the cell variants a Frame can hold
type Kind int

const (
	KindNumber Kind = iota
	KindString
)

// Value is a tagged scalar cell: numeric or string.
// Result tables reuse it so p-value annotation can swap a numeric
// cell for its rendered display string in place.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Num creates a numeric value
func Num(v float64) Value {
	return Value{kind: KindNumber, num: v}
}

// Str creates a string value
func Str(s string) Value {
	return Value{kind: KindString, str: s}
}

// Kind returns the variant tag
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumeric reports whether the value holds a number
func (v Value) IsNumeric() bool {
	return v.kind == KindNumber
}

// Float returns the numeric payload and whether the value is numeric
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the display form: the string payload, or minimal
// decimal formatting for numbers.
func (v Value) Text() string {
	if v.kind == KindString {
		return v.str
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// Equal compares two values. Same-kind values compare directly;
// mixed kinds compare display forms, so a label read from CSV as
// "3" still matches a typed Num(3).
func (v Value) Equal(o Value) bool {
	if v.kind == o.kind {
		if v.kind == KindNumber {
			return v.num == o.num
		}
		return v.str == o.str
	}
	return v.Text() == o.Text()
}
