package dynamicmsg

import (
	"fmt"
	"math"
	"reflect"

	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/pberr"
)

// Set assigns fieldName's value, replacing any previous value (and, for
// repeated fields, the entire sequence). It fails with pberr.FieldNotFound
// for an unknown name, pberr.TypeMismatch if value is not compatible with
// the field's declared type, and pberr.Immutable if the message is frozen.
// A failed Set leaves the message unchanged.
func (m *Message) Set(fieldName string, value interface{}) error {
	fd, err := m.field(fieldName)
	if err != nil {
		return err
	}
	if m.frozen {
		return pberr.Immutable()
	}

	coerced, err := coerceForField(fd, value)
	if err != nil {
		return err
	}

	m.values[fieldName] = coerced
	m.clearOneofSiblings(fd)
	return nil
}

// clearOneofSiblings enforces oneof exclusivity: setting a field in a oneof
// clears any previously-set sibling in the same group, matching real
// protobuf oneof semantics.
func (m *Message) clearOneofSiblings(fd *descriptor.FieldDescriptor) {
	oo := fd.ContainingOneof()
	if oo == nil {
		return
	}
	for _, sibling := range oo.Fields() {
		if sibling.Name() != fd.Name() {
			delete(m.values, sibling.Name())
		}
	}
}

// Append adds element to the end of fieldName's repeated sequence, creating
// the sequence if absent.
func (m *Message) Append(fieldName string, element interface{}) error {
	fd, err := m.field(fieldName)
	if err != nil {
		return err
	}
	if !fd.IsRepeated() || fd.IsMap() {
		return pberr.TypeMismatch(fieldName, "repeated", kindName(fd))
	}
	if m.frozen {
		return pberr.Immutable()
	}

	coercedElem, err := coerceElement(fd, element)
	if err != nil {
		return err
	}

	existing, _ := m.values[fieldName].([]interface{})
	next := make([]interface{}, len(existing), len(existing)+1)
	copy(next, existing)
	next = append(next, coercedElem)
	m.values[fieldName] = next
	return nil
}

// Put assigns key -> value in fieldName's map, creating the map if absent.
func (m *Message) Put(fieldName string, key, value interface{}) error {
	fd, err := m.field(fieldName)
	if err != nil {
		return err
	}
	if !fd.IsMap() {
		return pberr.TypeMismatch(fieldName, "map", kindName(fd))
	}
	if m.frozen {
		return pberr.Immutable()
	}

	coercedKey, err := coerceScalar(fd.MapKeyKind(), "", key)
	if err != nil {
		return pberr.TypeMismatch(fieldName+" (key)", string(fd.MapKeyKind()), fmt.Sprintf("%T", key))
	}
	coercedVal, err := coerceMapValue(fd, value)
	if err != nil {
		return err
	}

	existing, _ := m.values[fieldName].(map[interface{}]interface{})
	next := make(map[interface{}]interface{}, len(existing)+1)
	for k, v := range existing {
		next[k] = v
	}
	next[coercedKey] = coercedVal
	m.values[fieldName] = next
	return nil
}

// coerceForField validates/coerces value for a Set call against fd,
// dispatching on whether fd is a map, repeated, or singular field.
func coerceForField(fd *descriptor.FieldDescriptor, value interface{}) (interface{}, error) {
	if fd.IsMap() {
		return coerceMapWhole(fd, value)
	}
	if fd.IsRepeated() {
		return coerceListWhole(fd, value)
	}
	return coerceElement(fd, value)
}

// coerceElement validates/coerces one singular-shaped value: a message for
// message-kind fields, otherwise a scalar/enum.
func coerceElement(fd *descriptor.FieldDescriptor, value interface{}) (interface{}, error) {
	if fd.Kind() == descriptor.KindMessage || fd.Kind() == descriptor.KindGroup {
		msg, ok := value.(*Message)
		if !ok {
			return nil, pberr.TypeMismatch(fd.Name(), fd.TypeName(), fmt.Sprintf("%T", value))
		}
		if msg.Descriptor().FullName() != fd.TypeName() {
			return nil, pberr.TypeMismatch(fd.Name(), fd.TypeName(), msg.Descriptor().FullName())
		}
		return msg, nil
	}
	return coerceScalar(fd.Kind(), fd.Name(), value)
}

func coerceListWhole(fd *descriptor.FieldDescriptor, value interface{}) (interface{}, error) {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, pberr.TypeMismatch(fd.Name(), "repeated "+string(fd.Kind()), fmt.Sprintf("%T", value))
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, err := coerceElement(fd, rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = elem
	}
	return out, nil
}

func coerceMapWhole(fd *descriptor.FieldDescriptor, value interface{}) (interface{}, error) {
	rv := reflect.ValueOf(value)
	if value == nil || rv.Kind() != reflect.Map {
		return nil, pberr.TypeMismatch(fd.Name(), kindName(fd), fmt.Sprintf("%T", value))
	}
	out := make(map[interface{}]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := coerceScalar(fd.MapKeyKind(), "", iter.Key().Interface())
		if err != nil {
			return nil, pberr.TypeMismatch(fd.Name()+" (key)", string(fd.MapKeyKind()), fmt.Sprintf("%T", iter.Key().Interface()))
		}
		v, err := coerceMapValue(fd, iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func coerceMapValue(fd *descriptor.FieldDescriptor, value interface{}) (interface{}, error) {
	if fd.MapValueKind() == descriptor.KindMessage {
		msg, ok := value.(*Message)
		if !ok || msg.Descriptor().FullName() != fd.MapValueTypeName() {
			return nil, pberr.TypeMismatch(fd.Name()+" (value)", fd.MapValueTypeName(), fmt.Sprintf("%T", value))
		}
		return msg, nil
	}
	return coerceScalar(fd.MapValueKind(), fd.Name()+" (value)", value)
}

// coerceScalar validates/coerces value against a scalar or enum kind,
// applying only two conversions: integer widening within the same
// signedness, and signed<->unsigned conversion when the value is in range.
// No other coercions occur: a string is never accepted for a bytes field or
// vice versa.
func coerceScalar(kind descriptor.Kind, fieldName string, value interface{}) (interface{}, error) {
	switch kind {
	case descriptor.KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case descriptor.KindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case descriptor.KindBytes:
		if b, ok := value.([]byte); ok {
			return b, nil
		}
	case descriptor.KindFloat:
		if f, ok := value.(float32); ok {
			return f, nil
		}
	case descriptor.KindDouble:
		if d, ok := value.(float64); ok {
			return d, nil
		}
	default:
		if kind.IsInteger() || kind == descriptor.KindEnum {
			if coerced, ok := coerceIntLike(kind, value); ok {
				return coerced, nil
			}
		}
	}
	return nil, pberr.TypeMismatch(fieldName, string(kind), fmt.Sprintf("%T", value))
}

// normalizeInt extracts a signed/unsigned 64-bit view of any Go integer
// scalar type this module stores, or ok=false if value isn't one.
func normalizeInt(value interface{}) (signed bool, sval int64, uval uint64, ok bool) {
	switch v := value.(type) {
	case int32:
		return true, int64(v), 0, true
	case int64:
		return true, v, 0, true
	case int:
		return true, int64(v), 0, true
	case uint32:
		return false, 0, uint64(v), true
	case uint64:
		return false, 0, v, true
	case uint:
		return false, 0, uint64(v), true
	default:
		return false, 0, 0, false
	}
}

func coerceIntLike(kind descriptor.Kind, value interface{}) (interface{}, bool) {
	signed, sval, uval, ok := normalizeInt(value)
	if !ok {
		return nil, false
	}

	targetSigned := kind.IsSigned() || kind == descriptor.KindEnum

	if targetSigned {
		var asInt64 int64
		if signed {
			asInt64 = sval
		} else {
			if uval > math.MaxInt64 {
				return nil, false
			}
			asInt64 = int64(uval)
		}
		return fitSigned(kind, asInt64)
	}

	var asUint64 uint64
	if signed {
		if sval < 0 {
			return nil, false
		}
		asUint64 = uint64(sval)
	} else {
		asUint64 = uval
	}
	return fitUnsigned(kind, asUint64)
}

func fitSigned(kind descriptor.Kind, v int64) (interface{}, bool) {
	switch kind {
	case descriptor.KindInt32, descriptor.KindSint32, descriptor.KindSfixed32, descriptor.KindEnum:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, false
		}
		return int32(v), true
	case descriptor.KindInt64, descriptor.KindSint64, descriptor.KindSfixed64:
		return v, true
	}
	return nil, false
}

func fitUnsigned(kind descriptor.Kind, v uint64) (interface{}, bool) {
	switch kind {
	case descriptor.KindUint32, descriptor.KindFixed32:
		if v > math.MaxUint32 {
			return nil, false
		}
		return uint32(v), true
	case descriptor.KindUint64, descriptor.KindFixed64:
		return v, true
	}
	return nil, false
}
