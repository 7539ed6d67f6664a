// Package pberr defines the single error taxonomy shared by the descriptor,
// dynamic-message, and well-known-type layers.
package pberr

import "fmt"

// Kind identifies which error variant an Error carries.
type Kind string

const (
	KindUnsupportedType   Kind = "UnsupportedType"
	KindConversionFailed  Kind = "ConversionFailed"
	KindInvalidData       Kind = "InvalidData"
	KindHandlerNotFound   Kind = "HandlerNotFound"
	KindValidationFailed  Kind = "ValidationFailed"
	KindDuplicateName     Kind = "DuplicateName"
	KindFieldNotFound     Kind = "FieldNotFound"
	KindTypeMismatch      Kind = "TypeMismatch"
	KindImmutable         Kind = "Immutable"
	KindUnknownDescriptor Kind = "UnknownDescriptor"
)

// Error is the single error type for this module. Two Errors compare equal
// (via Equal, and via == since the struct holds only comparable fields) iff
// their Kind and all payload fields match — callers can assert by shape
// rather than by message text.
type Error struct {
	Kind Kind

	// Payload fields; which ones are populated depends on Kind.
	TypeName     string // UnsupportedType, InvalidData, HandlerNotFound, ValidationFailed
	From         string // ConversionFailed
	To           string // ConversionFailed
	Reason       string // ConversionFailed, InvalidData, ValidationFailed
	FQN          string // DuplicateName, UnknownDescriptor
	NameOrNumber string // FieldNotFound
	Field        string // TypeMismatch
	Expected     string // TypeMismatch
	Actual       string // TypeMismatch
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupportedType:
		return fmt.Sprintf("unsupported type: %s", e.TypeName)
	case KindConversionFailed:
		return fmt.Sprintf("conversion failed from %s to %s: %s", e.From, e.To, e.Reason)
	case KindInvalidData:
		return fmt.Sprintf("invalid data for %s: %s", e.TypeName, e.Reason)
	case KindHandlerNotFound:
		return fmt.Sprintf("handler not found: %s", e.TypeName)
	case KindValidationFailed:
		return fmt.Sprintf("validation failed for %s: %s", e.TypeName, e.Reason)
	case KindDuplicateName:
		return fmt.Sprintf("duplicate name: %s", e.FQN)
	case KindFieldNotFound:
		return fmt.Sprintf("field not found: %s", e.NameOrNumber)
	case KindTypeMismatch:
		return fmt.Sprintf("type mismatch for field %s: expected %s, got %s", e.Field, e.Expected, e.Actual)
	case KindImmutable:
		return "message is immutable"
	case KindUnknownDescriptor:
		return fmt.Sprintf("unknown descriptor: %s", e.FQN)
	default:
		return fmt.Sprintf("unknown error kind: %s", e.Kind)
	}
}

// Equal reports whether two errors share the same variant and payload,
// matching the "compare by shape, not string" rule test assertions rely on.
func (e *Error) Equal(other *Error) bool {
	if e == nil || other == nil {
		return e == other
	}
	return *e == *other
}

// Is lets errors.Is match two Errors by shape: the target must carry the
// same Kind and identical payload fields.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Equal(t)
}

func UnsupportedType(typeName string) *Error {
	return &Error{Kind: KindUnsupportedType, TypeName: typeName}
}

func ConversionFailed(from, to, reason string) *Error {
	return &Error{Kind: KindConversionFailed, From: from, To: to, Reason: reason}
}

func InvalidData(typeName, reason string) *Error {
	return &Error{Kind: KindInvalidData, TypeName: typeName, Reason: reason}
}

func HandlerNotFound(typeName string) *Error {
	return &Error{Kind: KindHandlerNotFound, TypeName: typeName}
}

func ValidationFailed(typeName, reason string) *Error {
	return &Error{Kind: KindValidationFailed, TypeName: typeName, Reason: reason}
}

func DuplicateName(fqn string) *Error {
	return &Error{Kind: KindDuplicateName, FQN: fqn}
}

func FieldNotFound(nameOrNumber string) *Error {
	return &Error{Kind: KindFieldNotFound, NameOrNumber: nameOrNumber}
}

func TypeMismatch(field, expected, actual string) *Error {
	return &Error{Kind: KindTypeMismatch, Field: field, Expected: expected, Actual: actual}
}

func Immutable() *Error {
	return &Error{Kind: KindImmutable}
}

func UnknownDescriptor(fqn string) *Error {
	return &Error{Kind: KindUnknownDescriptor, FQN: fqn}
}
