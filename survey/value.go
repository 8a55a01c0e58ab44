package survey

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindTime
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	default:
		return "empty"
	}
}

// Value is a single table cell. The zero value is an empty (missing) cell.
type Value struct {
	kind Kind
	text string
	num  float64
	at   time.Time
	flag bool
}

// Empty returns a missing cell.
func Empty() Value { return Value{} }

// Text returns a text cell. Blank text is treated as missing.
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s}
}

// Number returns a numeric cell. NaN and infinities are treated as missing.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Time returns a timestamp cell. The zero time is treated as missing.
func Time(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: KindTime, at: t}
}

// Bool returns a boolean cell.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// FromAny converts a loader-supplied Go value into a cell.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Empty()
	case Value:
		return x
	case string:
		return Text(NormalizeCell(x))
	case time.Time:
		return Time(x)
	case bool:
		return Bool(x)
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return Empty()
		}
		return Number(f)
	default:
		return Text(NormalizeCell(cast.ToString(x)))
	}
}

// Kind reports the cell kind.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the cell is missing.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Float returns the numeric reading of the cell. Text is parsed the way a
// spreadsheet would coerce it; anything unparseable is reported as not ok.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		f, err := cast.ToFloat64E(strings.TrimSpace(v.text))
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int returns the cell rounded to the nearest integer.
func (v Value) Int() (int, bool) {
	f, ok := v.Float()
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

// TimeValue returns the timestamp held by the cell.
func (v Value) TimeValue() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.at, true
}

// BoolValue returns the flag held by the cell.
func (v Value) BoolValue() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.flag, true
}

// String renders the cell the way it is written to CSV. Empty cells render as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		return v.at.Format(time.RFC3339)
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// Interface returns the cell as a plain Go value (nil for empty cells).
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindTime:
		return v.at
	case KindBool:
		return v.flag
	default:
		return nil
	}
}

// Equal reports whether two cells hold the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindTime:
		return v.at.Equal(o.at)
	case KindBool:
		return v.flag == o.flag
	default:
		return true
	}
}

// MarshalJSON encodes empty cells as null and everything else as its natural JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindTime {
		return json.Marshal(v.at.Format(time.RFC3339))
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a JSON scalar into a cell.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// MarshalYAML encodes the cell as a YAML scalar.
func (v Value) MarshalYAML() (any, error) {
	if v.kind == KindTime {
		return v.at.Format(time.RFC3339), nil
	}
	return v.Interface(), nil
}
