// Package wkt implements handlers for the seven well-known protobuf types:
// Timestamp, Duration, Empty, FieldMask, Struct, Value, and Any. Each
// handler bridges a wire-shaped dynamic message to a host-native
// "specialized" Go value and back, under one shared contract.
package wkt

import (
	"github.com/datahopper/protoreflect/internal/dynamicmsg"
)

// SupportPhase is a documentation-only maturity tier a handler advertises;
// nothing in this module gates behavior on it.
type SupportPhase string

const (
	PhaseCritical  SupportPhase = "critical"
	PhaseImportant SupportPhase = "important"
	PhaseAdvanced  SupportPhase = "advanced"
)

// Handler is the contract every well-known-type adapter implements. All
// handlers are stateless: a single package-level instance of each is safe
// to share across goroutines and registries.
//
// Round-trip law: for every s accepted by Validate, CreateSpecialized(must(CreateDynamic(s))) equals s.
type Handler interface {
	// HandledTypeName is the fully qualified name this handler speaks for,
	// e.g. "google.protobuf.Timestamp".
	HandledTypeName() string

	// SupportPhase reports this handler's documentation-only maturity tier.
	SupportPhase() SupportPhase

	// CreateSpecialized reads msg's fields and produces the native value.
	// Fails with pberr.InvalidData if msg's descriptor FQN doesn't match
	// HandledTypeName, or if field values violate the type's invariants.
	CreateSpecialized(msg *dynamicmsg.Message) (interface{}, error)

	// CreateDynamic builds a fresh dynamic message of HandledTypeName,
	// populates its fields from s, and returns it. Fails with
	// pberr.ConversionFailed if s's runtime type doesn't match what this
	// handler expects.
	CreateDynamic(s interface{}) (*dynamicmsg.Message, error)

	// Validate reports whether s is a well-formed specialized value for
	// this handler. It never fails/panics.
	Validate(s interface{}) bool
}
