package attrs

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates the scalar types an attribute can hold.
type ValueKind int

const (
	// KindNull marks a missing value (failed gauge rows).
	KindNull ValueKind = iota
	// KindNumber marks a numeric attribute.
	KindNumber
	// KindText marks a textual attribute (e.g. dominant land cover class).
	KindText
)

// Value is a single attribute value. Most attributes are numeric; a few,
// like the dominant land cover class, are textual.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Number creates a numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text creates a textual value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Null creates a missing value.
func Null() Value {
	return Value{kind: KindNull}
}

// Kind returns the value's kind.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Float64 returns the numeric value and whether the value is numeric.
func (v Value) Float64() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// String formats the value for CSV output. Null values render empty.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Null()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Text(s)
		return nil
	}
	return fmt.Errorf("attrs: cannot unmarshal %q as attribute value", string(data))
}
