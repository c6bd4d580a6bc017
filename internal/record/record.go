package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

const (
	fieldName  = "name"
	fieldType  = "type"
	fieldValue = "value"
)

// Raw is a record as it crosses the wire: an untyped JSON object that may be
// malformed. Raw records are only trusted after Verify.
type Raw map[string]any

func NewRaw(name string, kind Kind, value any) Raw {
	return Raw{fieldName: name, fieldType: string(kind), fieldValue: value}
}

// Record is a validated, typed record. Template slots carry a Kind and a nil
// Value until they are populated.
type Record struct {
	Name  string
	Kind  Kind
	Value Value
}

func (r Record) Raw() Raw {
	var value any
	if r.Value != nil {
		value = r.Value.wire()
	}
	return NewRaw(r.Name, r.Kind, value)
}

// Wire converts typed records back to their wire form, preserving order.
func Wire(records []Record) []Raw {
	out := make([]Raw, len(records))
	for i, r := range records {
		out[i] = r.Raw()
	}
	return out
}

// Clone deep-copies records so that no value aliases the source.
func Clone(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Record{Name: r.Name, Kind: r.Kind}
		if r.Value != nil {
			out[i].Value = r.Value.clone()
		}
	}
	return out
}

// Parse verifies raw records and converts them to typed records.
func Parse(raws []Raw) ([]Record, error) {
	if err := Verify(raws); err != nil {
		return nil, err
	}
	out := make([]Record, len(raws))
	for i, r := range raws {
		name, ok := r[fieldName].(string)
		if !ok || name == "" {
			return nil, &SchemaError{Index: i, Field: fieldName, Reason: "'name' must be a non-empty string"}
		}
		kind := Kind(r[fieldType].(string))
		value, err := typed(kind, r[fieldValue])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = Record{Name: name, Kind: kind, Value: value}
	}
	return out, nil
}

func typed(kind Kind, v any) (Value, error) {
	switch kind {
	case KindImage:
		var encoded string
		switch s := v.(type) {
		case string:
			encoded = s
		case []byte:
			encoded = string(s)
		}
		data, err := DecodeImage(encoded)
		if err != nil {
			return nil, err
		}
		return Image(data), nil
	case KindFloat:
		f, _ := asFloat(v)
		return Float(f), nil
	case KindInt:
		i, _ := asInt(v)
		return Int(i), nil
	case KindString:
		s, _ := v.(string)
		return Text(s), nil
	}
	return nil, fmt.Errorf("unsupported type: %s", kind)
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case json.Number:
		// the literal decides: 3 is an int, 3.0 and 3e0 are floats
		if strings.ContainsAny(string(n), ".eE") {
			return 0, false
		}
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	i, ok := asInt(v)
	return float64(i), ok
}

func typeName(v any) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case json.Number:
		if strings.ContainsAny(string(n), ".eE") {
			return "float"
		}
		return "int"
	}
	return fmt.Sprintf("%T", v)
}
