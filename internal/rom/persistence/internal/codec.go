package internal

import (
	"encoding/json"
	"fmt"

	"gaitbase/internal/rom/domain"
)

// ValueCodec converts between record values and driver values.
type ValueCodec interface {
	Encode(v domain.Value) (any, error)
	Decode(src any) (domain.Value, error)
}

// CodecFor picks the conversion for a dialect. sqlite keeps the dynamic type
// of each value; postgres columns are TEXT holding JSON.
func CodecFor(dialect string) ValueCodec {
	if dialect == "postgres" {
		return JSONCodec{}
	}
	return NativeCodec{}
}

type NativeCodec struct{}

func (NativeCodec) Encode(v domain.Value) (any, error) {
	return v.Any(), nil
}

func (NativeCodec) Decode(src any) (domain.Value, error) {
	return domain.ValueOf(src)
}

type JSONCodec struct{}

func (JSONCodec) Encode(v domain.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", v.String(), err)
	}
	return string(data), nil
}

// Decode reads text that is not JSON as plain text, which covers rows written
// by other tools.
func (JSONCodec) Decode(src any) (domain.Value, error) {
	var raw string
	switch val := src.(type) {
	case nil:
		return domain.Null, nil
	case string:
		raw = val
	case []byte:
		raw = string(val)
	default:
		return domain.ValueOf(src)
	}

	var v domain.Value
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return domain.Text(raw), nil
	}
	return v, nil
}
