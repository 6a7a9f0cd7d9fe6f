package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

type ValueType uint8

const (
	ValueNull ValueType = iota
	ValueText
	ValueNumber
)

// Value holds whatever the presentation layer produced for a field: text or a
// number. The same field may hold either between writes. The zero Value is
// Null, which only appears at the storage boundary and means "never recorded".
type Value struct {
	typ    ValueType
	text   string
	number float64
}

var Null = Value{}

func Text(s string) Value {
	return Value{typ: ValueText, text: s}
}

func Number(f float64) Value {
	return Value{typ: ValueNumber, number: f}
}

func (v Value) Type() ValueType {
	return v.typ
}

func (v Value) IsNull() bool {
	return v.typ == ValueNull
}

func (v Value) IsText() bool {
	return v.typ == ValueText
}

func (v Value) IsNumber() bool {
	return v.typ == ValueNumber
}

func (v Value) Float() (float64, bool) {
	if v.typ != ValueNumber {
		return 0, false
	}
	return v.number, true
}

func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case ValueText:
		return v.text == other.text
	case ValueNumber:
		return v.number == other.number
	default:
		return true
	}
}

// String renders the value the way it appears in reports. Integral numbers
// have no decimal part.
func (v Value) String() string {
	switch v.typ {
	case ValueText:
		return v.text
	case ValueNumber:
		return FormatNumber(v.number)
	default:
		return ""
	}
}

// Any returns the native representation handed to dynamically typed stores.
func (v Value) Any() any {
	switch v.typ {
	case ValueText:
		return v.text
	case ValueNumber:
		return v.number
	default:
		return nil
	}
}

func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var ErrUnsupportedValue = errors.New("unsupported value type")

// ValueOf converts a driver or JSON decoded value into a Value.
func ValueOf(src any) (Value, error) {
	switch val := src.(type) {
	case nil:
		return Null, nil
	case Value:
		return val, nil
	case string:
		return Text(val), nil
	case []byte:
		return Text(string(val)), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(float64(val)), nil
	case int:
		return Number(float64(val)), nil
	case int32:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Null, fmt.Errorf("parsing number %q: %w", val, err)
		}
		return Number(f), nil
	default:
		return Null, fmt.Errorf("%w: %T", ErrUnsupportedValue, src)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case ValueText:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v.text); err != nil {
			return nil, err
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
	case ValueNumber:
		if math.IsInf(v.number, 0) || math.IsNaN(v.number) {
			return nil, fmt.Errorf("%w: non-finite number", ErrUnsupportedValue)
		}
		return []byte(FormatNumber(v.number)), nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
