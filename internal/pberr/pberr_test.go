package pberr

import (
	"errors"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{"unsupported", UnsupportedType("foo.Bar"), "unsupported type: foo.Bar"},
		{"conversion", ConversionFailed("string", "int32", "not numeric"), "conversion failed from string to int32: not numeric"},
		{"invalid", InvalidData("Timestamp", "nanos out of range"), "invalid data for Timestamp: nanos out of range"},
		{"handler", HandlerNotFound("google.protobuf.Any"), "handler not found: google.protobuf.Any"},
		{"validation", ValidationFailed("FieldMask", "empty path segment"), "validation failed for FieldMask: empty path segment"},
		{"duplicate", DuplicateName("foo.Bar"), "duplicate name: foo.Bar"},
		{"fieldnotfound", FieldNotFound("missing_field"), "field not found: missing_field"},
		{"typemismatch", TypeMismatch("age", "int32", "string"), "type mismatch for field age: expected int32, got string"},
		{"immutable", Immutable(), "message is immutable"},
		{"unknowndesc", UnknownDescriptor("foo.Bar"), "unknown descriptor: foo.Bar"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.err.Error(); got != c.want {
				t.Fatalf("Error() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestEqualAndIs(t *testing.T) {
	a := TypeMismatch("age", "int32", "string")
	b := TypeMismatch("age", "int32", "string")
	c := TypeMismatch("age", "int32", "bool")

	if !a.Equal(b) {
		t.Fatalf("expected a.Equal(b)")
	}
	if a.Equal(c) {
		t.Fatalf("expected a not equal to c")
	}
	if !errors.Is(a, b) {
		t.Fatalf("expected errors.Is(a, b)")
	}
	if errors.Is(a, c) {
		t.Fatalf("expected errors.Is(a, c) to be false")
	}
}

func TestEqualNilHandling(t *testing.T) {
	var nilErr *Error
	other := Immutable()
	if nilErr.Equal(other) {
		t.Fatalf("nil should not equal non-nil")
	}
	if !nilErr.Equal(nil) {
		t.Fatalf("nil should equal nil")
	}
}
