package wkt

import (
	"fmt"

	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/factory"
	"github.com/datahopper/protoreflect/internal/pberr"
	"github.com/datahopper/protoreflect/internal/typeurl"
)

const anyTypeName = "google.protobuf.Any"

// Codec serializes/deserializes a dynamic message to/from wire bytes, used
// by AnyValue.Pack/UnpackTo/UnpackUsing. internal/codec provides the
// concrete implementation; wkt depends only on this narrow interface to
// avoid importing the codec package's own dependency on dynamicmsg and
// descriptor resolution.
type Codec interface {
	Serialize(msg *dynamicmsg.Message) ([]byte, error)
	Deserialize(data []byte, desc *descriptor.MessageDescriptor) (*dynamicmsg.Message, error)
}

// Resolver resolves a fully qualified message name, used by UnpackUsing.
type Resolver interface {
	FindMessage(fqn string) (*descriptor.MessageDescriptor, bool)
}

// AnyValue is the host-native representation of google.protobuf.Any.
type AnyValue struct {
	TypeURL string
	Value   []byte
}

// NewAnyValue validates typeURL (see typeurl.Validate) before constructing
// an AnyValue.
func NewAnyValue(typeURL string, value []byte) (AnyValue, error) {
	if !typeurl.Validate(typeURL) {
		return AnyValue{}, pberr.InvalidData(anyTypeName, fmt.Sprintf("invalid type URL %q", typeURL))
	}
	return AnyValue{TypeURL: typeURL, Value: value}, nil
}

// GetTypeName returns the portion of TypeURL after the first "/" (or the
// whole string if there is none), matching typeurl.ExtractTypeName's
// leniency.
func (a AnyValue) GetTypeName() string {
	return typeurl.ExtractTypeName(a.TypeURL)
}

// Pack serializes msg via codec and wraps it as an AnyValue whose type URL
// is "type.googleapis.com/" + msg's descriptor full name.
func Pack(msg *dynamicmsg.Message, codec Codec) (AnyValue, error) {
	data, err := codec.Serialize(msg)
	if err != nil {
		return AnyValue{}, err
	}
	return AnyValue{
		TypeURL: typeurl.CreateTypeURL(msg.Descriptor().FullName()),
		Value:   data,
	}, nil
}

// UnpackTo deserializes a into a fresh message of desc's type. Fails with
// pberr.ConversionFailed if desc's full name doesn't match a.GetTypeName().
func (a AnyValue) UnpackTo(desc *descriptor.MessageDescriptor, codec Codec) (*dynamicmsg.Message, error) {
	if desc.FullName() != a.GetTypeName() {
		return nil, pberr.ConversionFailed(a.GetTypeName(), desc.FullName(), "Any type URL does not match target descriptor")
	}
	return codec.Deserialize(a.Value, desc)
}

// UnpackUsing looks up a.GetTypeName() in resolver and deserializes into
// that descriptor. Fails with pberr.ConversionFailed if the type name is
// unknown to resolver.
func (a AnyValue) UnpackUsing(resolver Resolver, codec Codec) (*dynamicmsg.Message, error) {
	desc, ok := resolver.FindMessage(a.GetTypeName())
	if !ok {
		return nil, pberr.ConversionFailed(a.GetTypeName(), "", "type name not found in registry")
	}
	return codec.Deserialize(a.Value, desc)
}

type anyHandler struct{}

// AnyHandler is the stateless Handler for google.protobuf.Any. Its
// CreateSpecialized/CreateDynamic only move the type_url/value fields in
// and out of a dynamic message — packing/unpacking an arbitrary payload
// message is Pack/UnpackTo/UnpackUsing above, which delegate serialization
// to a Codec.
var AnyHandler Handler = anyHandler{}

func (anyHandler) HandledTypeName() string    { return anyTypeName }
func (anyHandler) SupportPhase() SupportPhase { return PhaseCritical }

func (anyHandler) CreateSpecialized(msg *dynamicmsg.Message) (interface{}, error) {
	if msg.Descriptor().FullName() != anyTypeName {
		return nil, pberr.InvalidData(anyTypeName, "message descriptor is not google.protobuf.Any")
	}
	typeURLVal, err := msg.Get("type_url")
	if err != nil {
		return nil, err
	}
	valueVal, err := msg.Get("value")
	if err != nil {
		return nil, err
	}
	typeURL, _ := typeURLVal.(string)
	value, _ := valueVal.([]byte)
	if typeURL != "" && !typeurl.Validate(typeURL) {
		return nil, pberr.InvalidData(anyTypeName, fmt.Sprintf("invalid type URL %q", typeURL))
	}
	return AnyValue{TypeURL: typeURL, Value: value}, nil
}

func (anyHandler) CreateDynamic(s interface{}) (*dynamicmsg.Message, error) {
	av, ok := s.(AnyValue)
	if !ok {
		return nil, pberr.ConversionFailed(fmt.Sprintf("%T", s), anyTypeName, "expected AnyValue")
	}
	if !typeurl.Validate(av.TypeURL) {
		return nil, pberr.ConversionFailed("AnyValue", anyTypeName, fmt.Sprintf("invalid type URL %q", av.TypeURL))
	}
	msg := factory.New(anyDescriptor)
	_ = msg.Set("type_url", av.TypeURL)
	_ = msg.Set("value", av.Value)
	return msg, nil
}

func (anyHandler) Validate(s interface{}) bool {
	av, ok := s.(AnyValue)
	if !ok {
		return false
	}
	return typeurl.Validate(av.TypeURL)
}
