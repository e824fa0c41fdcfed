package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies what a single cell holds. A cell's kind normally
// matches its column type, except after fill-missing, which stores the
// replacement literal verbatim (see Dataset.FillNulls).
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindString
)

// DateLayout is the canonical text form of date cells.
const DateLayout = "2006-01-02"

// Value is one nullable cell.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	t    time.Time
	s    string
}

// Null returns the null cell value.
func Null() Value { return Value{kind: KindNull} }

// Int returns an integer cell value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float cell value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean cell value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Date returns a date cell value.
func Date(t time.Time) Value { return Value{kind: KindTime, t: t} }

// String returns a string cell value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Kind returns the cell's kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt returns the integer payload.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the cell as a float64; integer cells widen.
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// AsBool returns the boolean payload.
func (v Value) AsBool() bool { return v.b }

// AsTime returns the date payload.
func (v Value) AsTime() time.Time { return v.t }

// AsString returns the string payload.
func (v Value) AsString() string { return v.s }

// String returns the canonical text representation of the cell, the
// form written to delimited and spreadsheet output. Null renders as the
// empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		// Positional notation at every magnitude, shortest digits
		// that round-trip.
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(DateLayout)
	default:
		return v.s
	}
}

// isNumeric reports whether the cell holds an int or float.
func (v Value) isNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Compare orders two non-null cells: negative when a < b, zero when
// equal, positive when a > b. Numeric cells compare numerically, dates
// chronologically; mismatched kinds fall back to the canonical text
// form.
func Compare(a, b Value) int {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		}
		return 0
	case a.isNumeric() && b.isNumeric():
		af, bf := a.AsFloat(), b.AsFloat()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case a.kind == KindTime && b.kind == KindTime:
		switch {
		case a.t.Before(b.t):
			return -1
		case a.t.After(b.t):
			return 1
		}
		return 0
	case a.kind == KindBool && b.kind == KindBool:
		switch {
		case !a.b && b.b:
			return -1
		case a.b && !b.b:
			return 1
		}
		return 0
	default:
		return strings.Compare(a.String(), b.String())
	}
}

// Equal reports whether two cells are equal. Null equals only null.
func Equal(a, b Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	return Compare(a, b) == 0
}
