package wkt

import "github.com/datahopper/protoreflect/internal/descriptor"

// wellKnownFile mirrors the relevant slice of google/protobuf/*.proto just
// enough for this module's own descriptor model: field numbers and kinds
// match the real wire format for Timestamp/Duration/FieldMask/Any, while
// Struct and Value use a single-bytes-field simplification (see DESIGN.md,
// "Struct/Value wire format").
var wellKnownFile = mustBuildWellKnownFile()

func mustBuildWellKnownFile() *descriptor.FileDescriptor {
	timestamp := descriptor.NewMessage("Timestamp").
		AddField(descriptor.FieldSpec{Name: "seconds", Number: 1, Kind: descriptor.KindInt64}).
		AddField(descriptor.FieldSpec{Name: "nanos", Number: 2, Kind: descriptor.KindInt32})

	duration := descriptor.NewMessage("Duration").
		AddField(descriptor.FieldSpec{Name: "seconds", Number: 1, Kind: descriptor.KindInt64}).
		AddField(descriptor.FieldSpec{Name: "nanos", Number: 2, Kind: descriptor.KindInt32})

	empty := descriptor.NewMessage("Empty")

	fieldMask := descriptor.NewMessage("FieldMask").
		AddField(descriptor.FieldSpec{Name: "paths", Number: 1, Kind: descriptor.KindString, Repeated: true})

	structMsg := descriptor.NewMessage("Struct").
		AddField(descriptor.FieldSpec{Name: "fields", Number: 1, Kind: descriptor.KindBytes})

	valueMsg := descriptor.NewMessage("Value").
		AddField(descriptor.FieldSpec{Name: "value_data", Number: 1, Kind: descriptor.KindBytes})

	anyMsg := descriptor.NewMessage("Any").
		AddField(descriptor.FieldSpec{Name: "type_url", Number: 1, Kind: descriptor.KindString}).
		AddField(descriptor.FieldSpec{Name: "value", Number: 2, Kind: descriptor.KindBytes})

	file, err := descriptor.NewFile("google/protobuf/wellknown.proto", "google.protobuf").
		AddMessage(timestamp).
		AddMessage(duration).
		AddMessage(empty).
		AddMessage(fieldMask).
		AddMessage(structMsg).
		AddMessage(valueMsg).
		AddMessage(anyMsg).
		Build()
	if err != nil {
		// The well-known schema is fixed at compile time; a build failure
		// here means this package itself is broken, not caller input.
		panic("wkt: failed to build well-known-type descriptors: " + err.Error())
	}
	return file
}

func wellKnownMessage(name string) *descriptor.MessageDescriptor {
	for _, m := range wellKnownFile.Messages() {
		if m.Name() == name {
			return m
		}
	}
	panic("wkt: no such well-known message " + name)
}

var (
	timestampDescriptor = wellKnownMessage("Timestamp")
	durationDescriptor  = wellKnownMessage("Duration")
	emptyDescriptor     = wellKnownMessage("Empty")
	fieldMaskDescriptor = wellKnownMessage("FieldMask")
	structDescriptor    = wellKnownMessage("Struct")
	valueDescriptor     = wellKnownMessage("Value")
	anyDescriptor       = wellKnownMessage("Any")
)

// File returns the single synthetic FileDescriptor ("google/protobuf/wellknown.proto")
// owning all seven well-known messages. Callers that register user files
// referencing a well-known type by field (e.g. a Timestamp-typed field) must
// also register this file into their own descriptor.Resolver/typeregistry,
// so cross-file dependency resolution (internal/codec's compileFileLocked)
// can find it by fully qualified name.
func File() *descriptor.FileDescriptor { return wellKnownFile }

// Descriptors returns the seven well-known message descriptors this package
// builds against, keyed by their unqualified names (Timestamp, Duration,
// Empty, FieldMask, Struct, Value, Any). Callers that want to register
// these FQNs into their own type registry can range over this map.
func Descriptors() map[string]*descriptor.MessageDescriptor {
	out := make(map[string]*descriptor.MessageDescriptor, len(wellKnownFile.Messages()))
	for _, m := range wellKnownFile.Messages() {
		out[m.Name()] = m
	}
	return out
}
