package wkt

import (
	"fmt"

	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/factory"
	"github.com/datahopper/protoreflect/internal/pberr"
)

const structTypeName = "google.protobuf.Struct"
const valueTypeName = "google.protobuf.Value"

type structHandler struct{}

// StructHandler is the stateless Handler for google.protobuf.Struct.
var StructHandler Handler = structHandler{}

func (structHandler) HandledTypeName() string    { return structTypeName }
func (structHandler) SupportPhase() SupportPhase { return PhaseAdvanced }

func (structHandler) CreateSpecialized(msg *dynamicmsg.Message) (interface{}, error) {
	if msg.Descriptor().FullName() != structTypeName {
		return nil, pberr.InvalidData(structTypeName, "message descriptor is not google.protobuf.Struct")
	}
	fieldsVal, err := msg.Get("fields")
	if err != nil {
		return nil, err
	}
	raw, _ := fieldsVal.([]byte)
	return structFromJSON(raw)
}

func (structHandler) CreateDynamic(s interface{}) (*dynamicmsg.Message, error) {
	sv, ok := s.(StructValue)
	if !ok {
		return nil, pberr.ConversionFailed(fmt.Sprintf("%T", s), structTypeName, "expected StructValue")
	}
	data, err := canonicalStructJSON(sv)
	if err != nil {
		return nil, pberr.ConversionFailed("StructValue", structTypeName, err.Error())
	}
	msg := factory.New(structDescriptor)
	_ = msg.Set("fields", data)
	return msg, nil
}

func (structHandler) Validate(s interface{}) bool {
	_, ok := s.(StructValue)
	return ok
}

type valueHandler struct{}

// ValueHandler is the stateless Handler for google.protobuf.Value.
var ValueHandler Handler = valueHandler{}

func (valueHandler) HandledTypeName() string    { return valueTypeName }
func (valueHandler) SupportPhase() SupportPhase { return PhaseAdvanced }

func (valueHandler) CreateSpecialized(msg *dynamicmsg.Message) (interface{}, error) {
	if msg.Descriptor().FullName() != valueTypeName {
		return nil, pberr.InvalidData(valueTypeName, "message descriptor is not google.protobuf.Value")
	}
	dataVal, err := msg.Get("value_data")
	if err != nil {
		return nil, err
	}
	raw, _ := dataVal.([]byte)
	return valueFromJSON(raw)
}

func (valueHandler) CreateDynamic(s interface{}) (*dynamicmsg.Message, error) {
	vv, ok := s.(ValueValue)
	if !ok {
		return nil, pberr.ConversionFailed(fmt.Sprintf("%T", s), valueTypeName, "expected ValueValue")
	}
	data, err := canonicalJSON(vv)
	if err != nil {
		return nil, pberr.ConversionFailed("ValueValue", valueTypeName, err.Error())
	}
	msg := factory.New(valueDescriptor)
	_ = msg.Set("value_data", data)
	return msg, nil
}

func (valueHandler) Validate(s interface{}) bool {
	_, ok := s.(ValueValue)
	return ok
}
