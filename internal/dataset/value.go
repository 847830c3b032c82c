package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the scalar held by a Value.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	default:
		return "empty"
	}
}

// Value is a single cell. Text keeps the raw cell string; Number and Date are
// produced by typed sources (programmatic callers, spreadsheets).
type Value struct {
	kind Kind
	num  float64
	text string
	date time.Time
}

// Row maps a column name to its cell.
type Row map[string]Value

func Empty() Value { return Value{} }
func Num(f float64) Value { return Value{kind: KindNumber, num: f} }
func Str(s string) Value { return Value{kind: KindText, text: s} }
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }
func (v Value) Kind() Kind { return v.kind }

// FromAny converts loosely typed input (decoded JSON, test fixtures) to a Value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Empty()
	case Value:
		return t
	case string:
		if strings.TrimSpace(t) == "" {
			return Empty()
		}
		return Str(t)
	case float64:
		return Num(t)
	case float32:
		return Num(float64(t))
	case int:
		return Num(float64(t))
	case int64:
		return Num(float64(t))
	case time.Time:
		return Date(t)
	default:
		return Empty()
	}
}

// IsEmpty reports whether the cell holds nothing usable.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindEmpty:
		return true
	case KindText:
		return strings.TrimSpace(v.text) == ""
	case KindNumber:
		return math.IsNaN(v.num)
	default:
		return false
	}
}

// Float returns the numeric reading of the cell. Dates are not numbers.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	case KindText:
		return ParseNumber(v.text)
	default:
		return 0, false
	}
}

// Time returns the calendar reading of the cell.
func (v Value) Time() (time.Time, bool) {
	switch v.kind {
	case KindDate:
		if v.date.Year() <= minYear {
			return time.Time{}, false
		}
		return v.date, true
	case KindText:
		return ParseDate(v.text)
	default:
		return time.Time{}, false
	}
}

// String renders the cell the way it groups: trimmed text, shortest float, ISO date.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return strings.TrimSpace(v.text)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		if v.date.Hour() == 0 && v.date.Minute() == 0 && v.date.Second() == 0 {
			return v.date.Format("2006-01-02")
		}
		return v.date.Format(time.RFC3339)
	default:
		return ""
	}
}

// MarshalJSON keeps numbers numeric and empties null so rows encode as plain objects.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindEmpty:
		return []byte("null"), nil
	case KindNumber:
		if f, ok := v.Float(); ok {
			return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
		}
		return []byte("null"), nil
	default:
		return []byte(strconv.Quote(v.String())), nil
	}
}
