package codec

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/factory"
	"github.com/datahopper/protoreflect/internal/pberr"
)

// populateDynamicpb copies every present field of msg onto dyn, a real
// dynamicpb message compiled from msg's own descriptor. Nested messages are
// populated recursively so a single top-level Serialize call walks the
// whole tree.
func populateDynamicpb(dyn *dynamicpb.Message, msg *dynamicmsg.Message) error {
	md := dyn.Descriptor()
	for _, fd := range msg.Descriptor().Fields() {
		has, err := msg.HasValue(fd.Name())
		if err != nil {
			return err
		}
		if !has {
			continue
		}
		val, err := msg.Get(fd.Name())
		if err != nil {
			return err
		}
		field := md.Fields().ByName(protoreflect.Name(fd.Name()))
		if field == nil {
			return pberr.FieldNotFound(fd.Name())
		}
		switch {
		case fd.IsMap():
			m, err := mapToProtoValue(dyn, field, fd, val)
			if err != nil {
				return err
			}
			dyn.Set(field, m)
		case fd.IsRepeated():
			l, err := listToProtoValue(dyn, field, fd.Kind(), val)
			if err != nil {
				return err
			}
			dyn.Set(field, l)
		default:
			pv, err := scalarToProtoValue(field, fd.Kind(), val)
			if err != nil {
				return err
			}
			dyn.Set(field, pv)
		}
	}
	return nil
}

func listToProtoValue(dyn *dynamicpb.Message, field protoreflect.FieldDescriptor, kind descriptor.Kind, val interface{}) (protoreflect.Value, error) {
	elems, _ := val.([]interface{})
	list := dyn.NewField(field).List()
	for _, e := range elems {
		pv, err := scalarToProtoValue(field, kind, e)
		if err != nil {
			return protoreflect.Value{}, err
		}
		list.Append(pv)
	}
	return protoreflect.ValueOfList(list), nil
}

func mapToProtoValue(dyn *dynamicpb.Message, field protoreflect.FieldDescriptor, fd *descriptor.FieldDescriptor, val interface{}) (protoreflect.Value, error) {
	entries, _ := val.(map[interface{}]interface{})
	mp := dyn.NewField(field).Map()
	valueField := field.MapValue()
	for k, v := range entries {
		mk, err := scalarMapKey(fd.MapKeyKind(), k)
		if err != nil {
			return protoreflect.Value{}, err
		}
		mv, err := scalarToProtoValue(valueField, fd.MapValueKind(), v)
		if err != nil {
			return protoreflect.Value{}, err
		}
		mp.Set(mk, mv)
	}
	return protoreflect.ValueOfMap(mp), nil
}

func scalarMapKey(kind descriptor.Kind, k interface{}) (protoreflect.MapKey, error) {
	switch kind {
	case descriptor.KindString:
		s, _ := k.(string)
		return protoreflect.ValueOfString(s).MapKey(), nil
	case descriptor.KindBool:
		b, _ := k.(bool)
		return protoreflect.ValueOfBool(b).MapKey(), nil
	case descriptor.KindInt32, descriptor.KindSint32, descriptor.KindSfixed32:
		i, _ := k.(int32)
		return protoreflect.ValueOfInt32(i).MapKey(), nil
	case descriptor.KindInt64, descriptor.KindSint64, descriptor.KindSfixed64:
		i, _ := k.(int64)
		return protoreflect.ValueOfInt64(i).MapKey(), nil
	case descriptor.KindUint32, descriptor.KindFixed32:
		u, _ := k.(uint32)
		return protoreflect.ValueOfUint32(u).MapKey(), nil
	case descriptor.KindUint64, descriptor.KindFixed64:
		u, _ := k.(uint64)
		return protoreflect.ValueOfUint64(u).MapKey(), nil
	default:
		return protoreflect.MapKey{}, pberr.UnsupportedType(string(kind))
	}
}

// scalarToProtoValue converts one Go value from a dynamicmsg.Message's store
// into the protoreflect.Value field expects. kind drives the conversion
// rather than field.Kind() directly so the same helper serves list elements
// and map values, whose protoreflect.FieldDescriptor reports the container's
// own (repeated/map) cardinality rather than the element's.
func scalarToProtoValue(field protoreflect.FieldDescriptor, kind descriptor.Kind, val interface{}) (protoreflect.Value, error) {
	switch kind {
	case descriptor.KindMessage, descriptor.KindGroup:
		nested, ok := val.(*dynamicmsg.Message)
		if !ok {
			return protoreflect.Value{}, pberr.TypeMismatch(string(field.Name()), "message", fmt.Sprintf("%T", val))
		}
		nestedDyn := dynamicpb.NewMessage(field.Message())
		if err := populateDynamicpb(nestedDyn, nested); err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfMessage(nestedDyn), nil
	case descriptor.KindBool:
		b, _ := val.(bool)
		return protoreflect.ValueOfBool(b), nil
	case descriptor.KindString:
		s, _ := val.(string)
		return protoreflect.ValueOfString(s), nil
	case descriptor.KindBytes:
		b, _ := val.([]byte)
		return protoreflect.ValueOfBytes(b), nil
	case descriptor.KindFloat:
		f, _ := val.(float32)
		return protoreflect.ValueOfFloat32(f), nil
	case descriptor.KindDouble:
		d, _ := val.(float64)
		return protoreflect.ValueOfFloat64(d), nil
	case descriptor.KindEnum:
		// Enum fields compile to plain int32 fields (see kindToFieldType).
		i, _ := val.(int32)
		return protoreflect.ValueOfInt32(i), nil
	case descriptor.KindInt32, descriptor.KindSint32, descriptor.KindSfixed32:
		i, _ := val.(int32)
		return protoreflect.ValueOfInt32(i), nil
	case descriptor.KindInt64, descriptor.KindSint64, descriptor.KindSfixed64:
		i, _ := val.(int64)
		return protoreflect.ValueOfInt64(i), nil
	case descriptor.KindUint32, descriptor.KindFixed32:
		u, _ := val.(uint32)
		return protoreflect.ValueOfUint32(u), nil
	case descriptor.KindUint64, descriptor.KindFixed64:
		u, _ := val.(uint64)
		return protoreflect.ValueOfUint64(u), nil
	default:
		return protoreflect.Value{}, pberr.UnsupportedType(string(kind))
	}
}

// populateDynamicMessage is the inverse of populateDynamicpb: it reads every
// present field off a real dynamicpb message and writes it into out through
// the ordinary Set/Append/Put mutation API, recursing into nested messages
// via resolver to find their MessageDescriptor.
func populateDynamicMessage(out *dynamicmsg.Message, dyn *dynamicpb.Message, resolver descriptor.Resolver) error {
	var rangeErr error
	dyn.Range(func(field protoreflect.FieldDescriptor, v protoreflect.Value) bool {
		fd, ok := out.Descriptor().FieldByName(string(field.Name()))
		if !ok {
			rangeErr = pberr.FieldNotFound(string(field.Name()))
			return false
		}
		switch {
		case fd.IsMap():
			rangeErr = populateMap(out, fd, v.Map(), resolver)
		case fd.IsRepeated():
			rangeErr = populateList(out, fd, v.List(), resolver)
		default:
			goVal, err := protoValueToGo(fd.Kind(), fd.TypeName(), v, resolver)
			if err != nil {
				rangeErr = err
				break
			}
			rangeErr = out.Set(fd.Name(), goVal)
		}
		return rangeErr == nil
	})
	return rangeErr
}

func populateList(out *dynamicmsg.Message, fd *descriptor.FieldDescriptor, list protoreflect.List, resolver descriptor.Resolver) error {
	for i := 0; i < list.Len(); i++ {
		goVal, err := protoValueToGo(fd.Kind(), fd.TypeName(), list.Get(i), resolver)
		if err != nil {
			return err
		}
		if err := out.Append(fd.Name(), goVal); err != nil {
			return err
		}
	}
	return nil
}

func populateMap(out *dynamicmsg.Message, fd *descriptor.FieldDescriptor, m protoreflect.Map, resolver descriptor.Resolver) error {
	var putErr error
	m.Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
		goKey := mapKeyToGo(fd.MapKeyKind(), k)
		goVal, err := protoValueToGo(fd.MapValueKind(), fd.MapValueTypeName(), v, resolver)
		if err != nil {
			putErr = err
			return false
		}
		putErr = out.Put(fd.Name(), goKey, goVal)
		return putErr == nil
	})
	return putErr
}

func mapKeyToGo(kind descriptor.Kind, k protoreflect.MapKey) interface{} {
	switch kind {
	case descriptor.KindString:
		return k.String()
	case descriptor.KindBool:
		return k.Bool()
	case descriptor.KindInt32, descriptor.KindSint32, descriptor.KindSfixed32:
		return int32(k.Int())
	case descriptor.KindInt64, descriptor.KindSint64, descriptor.KindSfixed64:
		return k.Int()
	case descriptor.KindUint32, descriptor.KindFixed32:
		return uint32(k.Uint())
	case descriptor.KindUint64, descriptor.KindFixed64:
		return k.Uint()
	default:
		return nil
	}
}

func protoValueToGo(kind descriptor.Kind, typeName string, v protoreflect.Value, resolver descriptor.Resolver) (interface{}, error) {
	if kind == descriptor.KindMessage || kind == descriptor.KindGroup {
		return messageValueToGo(typeName, v, resolver)
	}
	return scalarValueToGo(kind, v), nil
}

func messageValueToGo(typeName string, v protoreflect.Value, resolver descriptor.Resolver) (interface{}, error) {
	target, ok := resolver.FindMessage(typeName)
	if !ok {
		return nil, pberr.UnknownDescriptor(typeName)
	}
	nested := factory.New(target)
	nestedDyn, ok := v.Message().Interface().(*dynamicpb.Message)
	if !ok {
		return nil, pberr.ConversionFailed(typeName, "dynamicmsg.Message", "nested value is not a *dynamicpb.Message")
	}
	if err := populateDynamicMessage(nested, nestedDyn, resolver); err != nil {
		return nil, err
	}
	return nested, nil
}

func scalarValueToGo(kind descriptor.Kind, v protoreflect.Value) interface{} {
	switch kind {
	case descriptor.KindBool:
		return v.Bool()
	case descriptor.KindString:
		return v.String()
	case descriptor.KindBytes:
		return append([]byte(nil), v.Bytes()...)
	case descriptor.KindFloat:
		return float32(v.Float())
	case descriptor.KindDouble:
		return v.Float()
	case descriptor.KindEnum:
		return int32(v.Int())
	case descriptor.KindInt32, descriptor.KindSint32, descriptor.KindSfixed32:
		return int32(v.Int())
	case descriptor.KindInt64, descriptor.KindSint64, descriptor.KindSfixed64:
		return v.Int()
	case descriptor.KindUint32, descriptor.KindFixed32:
		return uint32(v.Uint())
	case descriptor.KindUint64, descriptor.KindFixed64:
		return v.Uint()
	default:
		return nil
	}
}
