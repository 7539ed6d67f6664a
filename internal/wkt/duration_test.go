package wkt_test

import (
	"testing"

	"github.com/datahopper/protoreflect/internal/wkt"
)

func TestDurationRoundTrip(t *testing.T) {
	dv := wkt.DurationValue{Seconds: -5, Nanos: -250}
	msg, err := wkt.DurationHandler.CreateDynamic(dv)
	if err != nil {
		t.Fatalf("CreateDynamic() failed: %v", err)
	}
	got, err := wkt.DurationHandler.CreateSpecialized(msg)
	if err != nil {
		t.Fatalf("CreateSpecialized() failed: %v", err)
	}
	if got != dv {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, dv)
	}
}

func TestDurationSignMismatchRejected(t *testing.T) {
	dv := wkt.DurationValue{Seconds: 1, Nanos: -500_000_000}
	if wkt.DurationHandler.Validate(dv) {
		t.Fatalf("mismatched signs should not validate")
	}
	if _, err := wkt.DurationHandler.CreateDynamic(dv); err == nil {
		t.Fatalf("expected ConversionFailed for mismatched signs")
	}
}

func TestDurationZeroComponentAlwaysValid(t *testing.T) {
	cases := []wkt.DurationValue{
		{Seconds: 0, Nanos: -999_999_999},
		{Seconds: 0, Nanos: 999_999_999},
		{Seconds: -5, Nanos: 0},
		{Seconds: 5, Nanos: 0},
	}
	for _, dv := range cases {
		if !wkt.DurationHandler.Validate(dv) {
			t.Fatalf("%+v should validate: a zero component never conflicts", dv)
		}
	}
	if wkt.DurationHandler.Validate(wkt.DurationValue{Seconds: 0, Nanos: 1_000_000_000}) {
		t.Fatalf("nanos beyond 999999999 should not validate")
	}
}

func TestDurationSecondsRoundTripWithinMicrosecond(t *testing.T) {
	cases := []wkt.DurationValue{
		{Seconds: 3, Nanos: 250_000_000},
		{Seconds: -3, Nanos: -250_000_000},
		{Seconds: 0, Nanos: -750_000_000},
	}
	for _, orig := range cases {
		back := wkt.DurationFromSeconds(orig.AsSeconds())
		if back.Seconds != orig.Seconds {
			t.Fatalf("seconds drifted: %+v vs %+v", back, orig)
		}
		diff := back.Nanos - orig.Nanos
		if diff < 0 {
			diff = -diff
		}
		if diff > 1000 {
			t.Fatalf("nanos drifted by %d for %+v, want within a microsecond", diff, orig)
		}
		if !wkt.DurationHandler.Validate(back) {
			t.Fatalf("round-tripped duration %+v lost sign coherence", back)
		}
	}
}

func TestDurationAbsAndNegate(t *testing.T) {
	dv := wkt.DurationValue{Seconds: -3, Nanos: -500}
	abs := dv.Abs()
	if abs.Seconds != 3 || abs.Nanos != 500 {
		t.Fatalf("Abs() = %+v", abs)
	}
	neg := wkt.DurationValue{Seconds: 3, Nanos: 500}.Negate()
	if neg.Seconds != -3 || neg.Nanos != -500 {
		t.Fatalf("Negate() = %+v", neg)
	}
	if wkt.ZeroDuration.Seconds != 0 || wkt.ZeroDuration.Nanos != 0 {
		t.Fatalf("ZeroDuration should be all-zero")
	}
}
