// Package dynamicmsg implements the dynamic message value store: a
// (descriptor, values) pair where fields are get/set by name with full
// type-compatibility checking, proto3-style scalar presence, repeated/map
// sequence semantics, and oneof bookkeeping.
//
// A Message is not safe for concurrent use by multiple writers; callers
// sharing a Message across goroutines must synchronize externally.
package dynamicmsg

import (
	"fmt"

	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/pberr"
)

// Message is a dynamic message value: a fixed descriptor plus a mutable
// field-name-keyed value store.
type Message struct {
	desc   *descriptor.MessageDescriptor
	values map[string]interface{}
	frozen bool
}

// New creates an empty Message bound to desc, with every singular field
// absent and every repeated/map field an empty (non-nil) sequence/mapping.
func New(desc *descriptor.MessageDescriptor) *Message {
	return &Message{
		desc:   desc,
		values: make(map[string]interface{}),
	}
}

// Descriptor returns the message's fixed schema. It never changes over the
// message's lifetime.
func (m *Message) Descriptor() *descriptor.MessageDescriptor { return m.desc }

// Freeze makes the message reject further mutation; Set/Clear/Append/Put
// all then fail with pberr.Immutable. Freezing is one-way.
func (m *Message) Freeze() { m.frozen = true }

// IsFrozen reports whether Freeze has been called.
func (m *Message) IsFrozen() bool { return m.frozen }

func (m *Message) field(fieldName string) (*descriptor.FieldDescriptor, error) {
	fd, ok := m.desc.FieldByName(fieldName)
	if !ok {
		return nil, pberr.FieldNotFound(fieldName)
	}
	return fd, nil
}

// Get returns the field's current value, or nil if absent. Unset proto3
// singular scalars return their zero value rather than nil (their presence
// is tracked separately via HasValue); unset message fields and
// never-appended repeated/map fields still return nil/empty rather than an
// error.
func (m *Message) Get(fieldName string) (interface{}, error) {
	fd, err := m.field(fieldName)
	if err != nil {
		return nil, err
	}
	if v, ok := m.values[fieldName]; ok {
		return v, nil
	}
	if fd.IsMap() {
		return map[interface{}]interface{}{}, nil
	}
	if fd.IsRepeated() {
		return []interface{}{}, nil
	}
	if fd.Kind() == descriptor.KindMessage {
		return nil, nil
	}
	return zeroValue(fd), nil
}

// HasValue reports whether fieldName carries an explicit value. Repeated
// and map fields never have presence: HasValue reports whether the
// sequence/mapping is non-empty for them as the closest analogue, since
// "set to empty" and "never touched" are indistinguishable states for
// those field kinds.
func (m *Message) HasValue(fieldName string) (bool, error) {
	fd, err := m.field(fieldName)
	if err != nil {
		return false, err
	}
	v, ok := m.values[fieldName]
	if !ok {
		return false, nil
	}
	if fd.IsMap() {
		mv, _ := v.(map[interface{}]interface{})
		return len(mv) > 0, nil
	}
	if fd.IsRepeated() {
		lv, _ := v.([]interface{})
		return len(lv) > 0, nil
	}
	return true, nil
}

// Clear removes any value for fieldName, restoring it to absent.
func (m *Message) Clear(fieldName string) error {
	if _, err := m.field(fieldName); err != nil {
		return err
	}
	if m.frozen {
		return pberr.Immutable()
	}
	delete(m.values, fieldName)
	return nil
}

func zeroValue(fd *descriptor.FieldDescriptor) interface{} {
	switch fd.Kind() {
	case descriptor.KindBool:
		return false
	case descriptor.KindString:
		return ""
	case descriptor.KindBytes:
		return []byte(nil)
	case descriptor.KindFloat:
		return float32(0)
	case descriptor.KindDouble:
		return float64(0)
	case descriptor.KindInt32, descriptor.KindSint32, descriptor.KindSfixed32, descriptor.KindEnum:
		return int32(0)
	case descriptor.KindInt64, descriptor.KindSint64, descriptor.KindSfixed64:
		return int64(0)
	case descriptor.KindUint32, descriptor.KindFixed32:
		return uint32(0)
	case descriptor.KindUint64, descriptor.KindFixed64:
		return uint64(0)
	default:
		return nil
	}
}

func kindName(fd *descriptor.FieldDescriptor) string {
	if fd.IsMap() {
		return "map<" + string(fd.MapKeyKind()) + ", " + string(fd.MapValueKind()) + ">"
	}
	if fd.IsRepeated() {
		return "repeated " + string(fd.Kind())
	}
	if fd.Kind() == descriptor.KindMessage || fd.Kind() == descriptor.KindEnum {
		return fmt.Sprintf("%s(%s)", fd.Kind(), fd.TypeName())
	}
	return string(fd.Kind())
}
