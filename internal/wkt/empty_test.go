package wkt_test

import (
	"testing"

	"github.com/datahopper/protoreflect/internal/wkt"
)

func TestEmptyRoundTrip(t *testing.T) {
	msg, err := wkt.EmptyHandler.CreateDynamic(wkt.EmptyValue{})
	if err != nil {
		t.Fatalf("CreateDynamic() failed: %v", err)
	}
	if len(msg.Descriptor().Fields()) != 0 {
		t.Fatalf("Empty descriptor should have no fields")
	}
	got, err := wkt.EmptyHandler.CreateSpecialized(msg)
	if err != nil {
		t.Fatalf("CreateSpecialized() failed: %v", err)
	}
	if got != (wkt.EmptyValue{}) {
		t.Fatalf("expected EmptyValue{}")
	}
}

func TestEmptyRejectsWrongType(t *testing.T) {
	if _, err := wkt.EmptyHandler.CreateDynamic("not empty"); err == nil {
		t.Fatalf("expected ConversionFailed for a non-EmptyValue")
	}
}
