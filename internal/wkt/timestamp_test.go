package wkt_test

import (
	"testing"

	"github.com/datahopper/protoreflect/internal/wkt"
)

func TestTimestampRoundTrip(t *testing.T) {
	tv := wkt.TimestampValue{Seconds: 1_234_567_890, Nanos: 123_456_789}
	msg, err := wkt.TimestampHandler.CreateDynamic(tv)
	if err != nil {
		t.Fatalf("CreateDynamic() failed: %v", err)
	}
	if sec, _ := msg.Get("seconds"); sec != int64(1_234_567_890) {
		t.Fatalf("Get(seconds) = %v, want 1234567890", sec)
	}
	if nanos, _ := msg.Get("nanos"); nanos != int32(123_456_789) {
		t.Fatalf("Get(nanos) = %v, want 123456789", nanos)
	}
	got, err := wkt.TimestampHandler.CreateSpecialized(msg)
	if err != nil {
		t.Fatalf("CreateSpecialized() failed: %v", err)
	}
	if got != tv {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, tv)
	}
}

func TestTimestampFromSecondsCarriesOnRounding(t *testing.T) {
	// 1.9999999999 rounds to a full extra second of nanos; the carry must
	// land in Seconds rather than leave Nanos at 1e9.
	tv := wkt.TimestampFromSeconds(1.9999999999)
	if tv.Seconds != 2 || tv.Nanos != 0 {
		t.Fatalf("TimestampFromSeconds(1.9999999999) = %+v, want {2 0}", tv)
	}

	tv = wkt.TimestampFromSeconds(1.5)
	if tv.Seconds != 1 || tv.Nanos != 500_000_000 {
		t.Fatalf("TimestampFromSeconds(1.5) = %+v, want {1 500000000}", tv)
	}
}

func TestTimestampSecondsRoundTripWithinMicrosecond(t *testing.T) {
	orig := wkt.TimestampValue{Seconds: 1_700_000_000, Nanos: 123_456_000}
	back := wkt.TimestampFromSeconds(orig.AsSeconds())
	if back.Seconds != orig.Seconds {
		t.Fatalf("seconds drifted: %+v vs %+v", back, orig)
	}
	diff := back.Nanos - orig.Nanos
	if diff < 0 {
		diff = -diff
	}
	if diff > 1000 {
		t.Fatalf("nanos drifted by %d, want within a microsecond", diff)
	}
}

func TestTimestampRejectsNegativeNanos(t *testing.T) {
	tv := wkt.TimestampValue{Seconds: 0, Nanos: -1}
	if wkt.TimestampHandler.Validate(tv) {
		t.Fatalf("negative nanos should not validate")
	}
	if _, err := wkt.TimestampHandler.CreateDynamic(tv); err == nil {
		t.Fatalf("expected ConversionFailed for negative nanos")
	}
}

func TestTimestampWrongDescriptorFails(t *testing.T) {
	other, _ := wkt.DurationHandler.CreateDynamic(wkt.DurationValue{Seconds: 1})
	if _, err := wkt.TimestampHandler.CreateSpecialized(other); err == nil {
		t.Fatalf("expected InvalidData for a Duration message")
	}
}

func TestTimestampDisplay(t *testing.T) {
	tv := wkt.TimestampValue{Seconds: 0, Nanos: 0}
	if got := tv.Display(); got != "1970-01-01T00:00:00Z" {
		t.Fatalf("Display() = %q, want epoch", got)
	}
}
