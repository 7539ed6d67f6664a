package wkt

import (
	"fmt"

	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/factory"
	"github.com/datahopper/protoreflect/internal/pberr"
)

const emptyTypeName = "google.protobuf.Empty"

// EmptyValue is the unit value corresponding to google.protobuf.Empty. All
// instances compare equal.
type EmptyValue struct{}

type emptyHandler struct{}

// EmptyHandler is the stateless Handler for google.protobuf.Empty.
var EmptyHandler Handler = emptyHandler{}

func (emptyHandler) HandledTypeName() string    { return emptyTypeName }
func (emptyHandler) SupportPhase() SupportPhase { return PhaseImportant }

func (emptyHandler) CreateSpecialized(msg *dynamicmsg.Message) (interface{}, error) {
	if msg.Descriptor().FullName() != emptyTypeName {
		return nil, pberr.InvalidData(emptyTypeName, "message descriptor is not google.protobuf.Empty")
	}
	return EmptyValue{}, nil
}

func (emptyHandler) CreateDynamic(s interface{}) (*dynamicmsg.Message, error) {
	if _, ok := s.(EmptyValue); !ok {
		return nil, pberr.ConversionFailed(fmt.Sprintf("%T", s), emptyTypeName, "expected EmptyValue")
	}
	return factory.New(emptyDescriptor), nil
}

func (emptyHandler) Validate(s interface{}) bool {
	_, ok := s.(EmptyValue)
	return ok
}
