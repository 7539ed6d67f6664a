package wkt

import (
	"fmt"

	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/factory"
	"github.com/datahopper/protoreflect/internal/pberr"
)

const durationTypeName = "google.protobuf.Duration"

// DurationValue is the host-native representation of google.protobuf.Duration.
type DurationValue struct {
	Seconds int64
	Nanos   int32
}

// Abs returns d with both components made non-negative.
func (d DurationValue) Abs() DurationValue {
	if d.Seconds < 0 {
		d.Seconds = -d.Seconds
	}
	if d.Nanos < 0 {
		d.Nanos = -d.Nanos
	}
	return d
}

// Negate returns d with both components sign-flipped.
func (d DurationValue) Negate() DurationValue {
	return DurationValue{Seconds: -d.Seconds, Nanos: -d.Nanos}
}

// ZeroDuration is the zero-value DurationValue.
var ZeroDuration = DurationValue{}

// AsSeconds converts d to a host floating-point seconds value.
func (d DurationValue) AsSeconds() float64 {
	return float64(d.Seconds) + float64(d.Nanos)/1e9
}

// DurationFromSeconds splits a floating-point seconds value into
// seconds-plus-nanos, preserving sign. Both parts are truncated toward
// zero, so they share the input's sign and the fractional nanoseconds are
// never rounded up.
func DurationFromSeconds(sec float64) DurationValue {
	whole := int64(sec)
	frac := sec - float64(whole)
	nanos := int32(frac * 1e9)
	if whole > 0 && nanos < 0 {
		whole--
		nanos += 1_000_000_000
	} else if whole < 0 && nanos > 0 {
		whole++
		nanos -= 1_000_000_000
	}
	return DurationValue{Seconds: whole, Nanos: nanos}
}

type durationHandler struct{}

// DurationHandler is the stateless Handler for google.protobuf.Duration.
var DurationHandler Handler = durationHandler{}

func (durationHandler) HandledTypeName() string    { return durationTypeName }
func (durationHandler) SupportPhase() SupportPhase { return PhaseCritical }

func (durationHandler) CreateSpecialized(msg *dynamicmsg.Message) (interface{}, error) {
	if msg.Descriptor().FullName() != durationTypeName {
		return nil, pberr.InvalidData(durationTypeName, "message descriptor is not google.protobuf.Duration")
	}
	seconds, nanos, err := readSecondsNanos(msg)
	if err != nil {
		return nil, err
	}
	dv := DurationValue{Seconds: seconds, Nanos: nanos}
	if !DurationHandler.Validate(dv) {
		return nil, pberr.InvalidData(durationTypeName, fmt.Sprintf("seconds %d and nanos %d must have the same sign", seconds, nanos))
	}
	return dv, nil
}

func (durationHandler) CreateDynamic(s interface{}) (*dynamicmsg.Message, error) {
	dv, ok := s.(DurationValue)
	if !ok {
		return nil, pberr.ConversionFailed(fmt.Sprintf("%T", s), durationTypeName, "expected DurationValue")
	}
	if !DurationHandler.Validate(dv) {
		return nil, pberr.ConversionFailed("DurationValue", durationTypeName, "seconds and nanos must have the same sign")
	}
	msg := factory.New(durationDescriptor)
	_ = msg.Set("seconds", dv.Seconds)
	_ = msg.Set("nanos", dv.Nanos)
	return msg, nil
}

func (durationHandler) Validate(s interface{}) bool {
	dv, ok := s.(DurationValue)
	if !ok {
		return false
	}
	if dv.Nanos < -999_999_999 || dv.Nanos > 999_999_999 {
		return false
	}
	if dv.Seconds > 0 && dv.Nanos < 0 {
		return false
	}
	if dv.Seconds < 0 && dv.Nanos > 0 {
		return false
	}
	return true
}
