package wkt

import (
	"encoding/json"
	"fmt"

	"github.com/datahopper/protoreflect/internal/pberr"
)

// ValueKind tags which case a ValueValue holds.
type ValueKind string

const (
	ValueKindNull   ValueKind = "null"
	ValueKindNumber ValueKind = "number"
	ValueKindString ValueKind = "string"
	ValueKindBool   ValueKind = "bool"
	ValueKindList   ValueKind = "list"
	ValueKindStruct ValueKind = "struct"
)

// ValueValue is the host-native representation of google.protobuf.Value: a
// tagged union over null, number, string, bool, list, and struct.
type ValueValue struct {
	Kind ValueKind

	NumberVal float64
	StringVal string
	BoolVal   bool
	ListVal   []ValueValue
	StructVal StructValue
}

// StructValue is the host-native representation of google.protobuf.Struct:
// an unordered mapping from string keys to ValueValue. Equality is
// value-wise; insertion order is not semantically meaningful.
type StructValue struct {
	Fields map[string]ValueValue
}

func NullValue() ValueValue                { return ValueValue{Kind: ValueKindNull} }
func NumberValue(n float64) ValueValue      { return ValueValue{Kind: ValueKindNumber, NumberVal: n} }
func StringValue(s string) ValueValue       { return ValueValue{Kind: ValueKindString, StringVal: s} }
func BoolValue(b bool) ValueValue           { return ValueValue{Kind: ValueKindBool, BoolVal: b} }
func ListValue(items []ValueValue) ValueValue {
	return ValueValue{Kind: ValueKindList, ListVal: items}
}
func StructValueOf(s StructValue) ValueValue { return ValueValue{Kind: ValueKindStruct, StructVal: s} }

// FromGo converts an arbitrary host dynamically-typed value into a
// ValueValue: nil, bool, string, any numeric type, []interface{}, and
// map[string]interface{} are accepted. Unsupported host types fail with
// pberr.InvalidData.
func FromGo(v interface{}) (ValueValue, error) {
	switch t := v.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case float64:
		return NumberValue(t), nil
	case float32:
		return NumberValue(float64(t)), nil
	case int:
		return NumberValue(float64(t)), nil
	case int8:
		return NumberValue(float64(t)), nil
	case int16:
		return NumberValue(float64(t)), nil
	case uint:
		return NumberValue(float64(t)), nil
	case uint8:
		return NumberValue(float64(t)), nil
	case uint16:
		return NumberValue(float64(t)), nil
	case int32:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case uint32:
		return NumberValue(float64(t)), nil
	case uint64:
		return NumberValue(float64(t)), nil
	case []interface{}:
		items := make([]ValueValue, len(t))
		for i, elem := range t {
			cv, err := FromGo(elem)
			if err != nil {
				return ValueValue{}, err
			}
			items[i] = cv
		}
		return ListValue(items), nil
	case map[string]interface{}:
		fields := make(map[string]ValueValue, len(t))
		for k, elem := range t {
			cv, err := FromGo(elem)
			if err != nil {
				return ValueValue{}, err
			}
			fields[k] = cv
		}
		return StructValueOf(StructValue{Fields: fields}), nil
	default:
		return ValueValue{}, pberr.InvalidData("google.protobuf.Value", fmt.Sprintf("unsupported host type %T", v))
	}
}

// ToGo converts v back to a plain host dynamically-typed value
// (nil/bool/string/float64/[]interface{}/map[string]interface{}).
func (v ValueValue) ToGo() interface{} {
	switch v.Kind {
	case ValueKindNull:
		return nil
	case ValueKindNumber:
		return v.NumberVal
	case ValueKindString:
		return v.StringVal
	case ValueKindBool:
		return v.BoolVal
	case ValueKindList:
		out := make([]interface{}, len(v.ListVal))
		for i, item := range v.ListVal {
			out[i] = item.ToGo()
		}
		return out
	case ValueKindStruct:
		out := make(map[string]interface{}, len(v.StructVal.Fields))
		for k, item := range v.StructVal.Fields {
			out[k] = item.ToGo()
		}
		return out
	default:
		return nil
	}
}

// canonicalJSON marshals v to the canonical JSON byte string this module
// stores in a single bytes field (see DESIGN.md, "Struct/Value wire
// format").
func canonicalJSON(v ValueValue) ([]byte, error) {
	return json.Marshal(v.ToGo())
}

func canonicalStructJSON(s StructValue) ([]byte, error) {
	return json.Marshal(StructValueOf(s).ToGo())
}

func valueFromJSON(data []byte) (ValueValue, error) {
	if len(data) == 0 {
		return NullValue(), nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ValueValue{}, pberr.ConversionFailed("bytes", "google.protobuf.Value", err.Error())
	}
	return FromGo(raw)
}

func structFromJSON(data []byte) (StructValue, error) {
	if len(data) == 0 {
		return StructValue{Fields: map[string]ValueValue{}}, nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return StructValue{}, pberr.ConversionFailed("bytes", "google.protobuf.Struct", err.Error())
	}
	fields := make(map[string]ValueValue, len(raw))
	for k, elem := range raw {
		cv, err := FromGo(elem)
		if err != nil {
			return StructValue{}, err
		}
		fields[k] = cv
	}
	return StructValue{Fields: fields}, nil
}
