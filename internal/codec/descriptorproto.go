package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/datahopper/protoreflect/internal/descriptor"
)

// toFileDescriptorProto translates one of this module's own FileDescriptor
// trees into the real descriptorpb.FileDescriptorProto shape
// protodesc.NewFile compiles. Map fields are expanded into the synthetic
// nested MapEntry message real protobuf wire encoding requires; enum fields
// are encoded as a plain int32 on the wire, matching this module's own
// dynamic-message storage (see kindToFieldType).
func toFileDescriptorProto(file *descriptor.FileDescriptor, resolver descriptor.Resolver) *descriptorpb.FileDescriptorProto {
	fdProto := &descriptorpb.FileDescriptorProto{
		Name:    proto.String(file.Name()),
		Syntax:  proto.String("proto3"),
		Options: &descriptorpb.FileOptions{},
	}
	if file.Package() != "" {
		fdProto.Package = proto.String(file.Package())
	}
	for _, m := range file.Messages() {
		fdProto.MessageType = append(fdProto.MessageType, buildMessageProto(m))
	}
	for _, e := range file.Enums() {
		fdProto.EnumType = append(fdProto.EnumType, buildEnumProto(e))
	}
	for _, dep := range collectDependencyFiles(file, resolver) {
		fdProto.Dependency = append(fdProto.Dependency, dep.Name())
	}
	return fdProto
}

func buildEnumProto(e *descriptor.EnumDescriptor) *descriptorpb.EnumDescriptorProto {
	ed := &descriptorpb.EnumDescriptorProto{Name: proto.String(e.Name())}
	for _, v := range e.Values() {
		ed.Value = append(ed.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(v.Name()),
			Number: proto.Int32(v.Number()),
		})
	}
	return ed
}

func buildMessageProto(m *descriptor.MessageDescriptor) *descriptorpb.DescriptorProto {
	dp := &descriptorpb.DescriptorProto{Name: proto.String(m.Name())}

	oneofIndex := make(map[string]int32)
	for _, oo := range m.Oneofs() {
		oneofIndex[oo.Name()] = int32(len(dp.OneofDecl))
		dp.OneofDecl = append(dp.OneofDecl, &descriptorpb.OneofDescriptorProto{Name: proto.String(oo.Name())})
	}

	for _, f := range m.Fields() {
		if f.IsMap() {
			entryName := mapEntryName(f.Name())
			entry := buildMapEntryProto(entryName, f)
			dp.NestedType = append(dp.NestedType, entry)

			dp.Field = append(dp.Field, &descriptorpb.FieldDescriptorProto{
				Name:     proto.String(f.Name()),
				Number:   proto.Int32(f.Number()),
				Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
				Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
				TypeName: proto.String("." + m.FullName() + "." + entryName),
				JsonName: proto.String(f.JSONName()),
			})
			continue
		}

		fp := &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(f.Name()),
			Number:   proto.Int32(f.Number()),
			Type:     kindToFieldType(f.Kind()).Enum(),
			JsonName: proto.String(f.JSONName()),
		}
		if f.IsRepeated() {
			fp.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		} else {
			fp.Label = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()
		}
		if f.Kind() == descriptor.KindMessage || f.Kind() == descriptor.KindGroup {
			fp.TypeName = proto.String("." + f.TypeName())
		}
		if oo := f.ContainingOneof(); oo != nil {
			idx := oneofIndex[oo.Name()]
			fp.OneofIndex = &idx
		}
		dp.Field = append(dp.Field, fp)
	}

	for _, nm := range m.NestedMessages() {
		dp.NestedType = append(dp.NestedType, buildMessageProto(nm))
	}
	for _, ne := range m.NestedEnums() {
		dp.EnumType = append(dp.EnumType, buildEnumProto(ne))
	}

	return dp
}

// buildMapEntryProto synthesizes the implicit "<Field>Entry" message real
// protobuf wire format requires for every map<K, V> field: a two-field
// message {key = 1; value = 2;} marked map_entry.
func buildMapEntryProto(entryName string, f *descriptor.FieldDescriptor) *descriptorpb.DescriptorProto {
	keyField := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String("key"),
		Number: proto.Int32(1),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   kindToFieldType(f.MapKeyKind()).Enum(),
	}
	valueField := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String("value"),
		Number: proto.Int32(2),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   kindToFieldType(f.MapValueKind()).Enum(),
	}
	if f.MapValueKind() == descriptor.KindMessage {
		valueField.TypeName = proto.String("." + f.MapValueTypeName())
	}
	return &descriptorpb.DescriptorProto{
		Name:    proto.String(entryName),
		Field:   []*descriptorpb.FieldDescriptorProto{keyField, valueField},
		Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
	}
}

func mapEntryName(fieldName string) string {
	out := make([]byte, 0, len(fieldName)+5)
	upperNext := true
	for i := 0; i < len(fieldName); i++ {
		c := fieldName[i]
		if c == '_' {
			upperNext = true
			continue
		}
		if upperNext && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upperNext = false
		out = append(out, c)
	}
	return string(out) + "Entry"
}

// kindToFieldType maps this module's Kind to the real wire type it encodes
// as. KindEnum is encoded as a plain int32: this module stores enum field
// values as int32 (see dynamicmsg.zeroValue), so no synthetic enum type
// needs to round-trip through the wire.
func kindToFieldType(k descriptor.Kind) descriptorpb.FieldDescriptorProto_Type {
	switch k {
	case descriptor.KindDouble:
		return descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	case descriptor.KindFloat:
		return descriptorpb.FieldDescriptorProto_TYPE_FLOAT
	case descriptor.KindInt64:
		return descriptorpb.FieldDescriptorProto_TYPE_INT64
	case descriptor.KindUint64:
		return descriptorpb.FieldDescriptorProto_TYPE_UINT64
	case descriptor.KindInt32, descriptor.KindEnum:
		return descriptorpb.FieldDescriptorProto_TYPE_INT32
	case descriptor.KindFixed64:
		return descriptorpb.FieldDescriptorProto_TYPE_FIXED64
	case descriptor.KindFixed32:
		return descriptorpb.FieldDescriptorProto_TYPE_FIXED32
	case descriptor.KindBool:
		return descriptorpb.FieldDescriptorProto_TYPE_BOOL
	case descriptor.KindString:
		return descriptorpb.FieldDescriptorProto_TYPE_STRING
	case descriptor.KindGroup:
		return descriptorpb.FieldDescriptorProto_TYPE_GROUP
	case descriptor.KindMessage:
		return descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	case descriptor.KindBytes:
		return descriptorpb.FieldDescriptorProto_TYPE_BYTES
	case descriptor.KindUint32:
		return descriptorpb.FieldDescriptorProto_TYPE_UINT32
	case descriptor.KindSfixed32:
		return descriptorpb.FieldDescriptorProto_TYPE_SFIXED32
	case descriptor.KindSfixed64:
		return descriptorpb.FieldDescriptorProto_TYPE_SFIXED64
	case descriptor.KindSint32:
		return descriptorpb.FieldDescriptorProto_TYPE_SINT32
	case descriptor.KindSint64:
		return descriptorpb.FieldDescriptorProto_TYPE_SINT64
	default:
		panic(fmt.Sprintf("codec: unhandled kind %q", k))
	}
}
