package wkt

import (
	"fmt"
	"math"
	"time"

	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/factory"
	"github.com/datahopper/protoreflect/internal/pberr"
)

const timestampTypeName = "google.protobuf.Timestamp"

// TimestampValue is the host-native representation of google.protobuf.Timestamp.
type TimestampValue struct {
	Seconds int64
	Nanos   int32
}

// Display renders t in canonical ISO-8601 UTC form,
// YYYY-MM-DDThh:mm:ss[.fffffffff]Z.
func (t TimestampValue) Display() string {
	ts := time.Unix(t.Seconds, int64(t.Nanos)).UTC()
	if t.Nanos == 0 {
		return ts.Format("2006-01-02T15:04:05Z")
	}
	return ts.Format("2006-01-02T15:04:05.999999999Z")
}

// AsTime converts t to the seconds-plus-fractional host representation,
// t = seconds + nanos/1e9.
func (t TimestampValue) AsTime() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

// AsSeconds converts t to the seconds-plus-fractional host representation,
// t = seconds + nanos/1e9.
func (t TimestampValue) AsSeconds() float64 {
	return float64(t.Seconds) + float64(t.Nanos)/1e9
}

// TimestampFromSeconds splits a floating-point seconds value into integer
// seconds and the remaining nanoseconds, clamped into [0, 999999999]; if
// rounding the fraction produces a full second of nanos, the extra second
// carries into Seconds.
func TimestampFromSeconds(sec float64) TimestampValue {
	whole := int64(math.Floor(sec))
	nanos := int32(math.Round((sec - float64(whole)) * 1e9))
	if nanos >= 1_000_000_000 {
		whole++
		nanos -= 1_000_000_000
	}
	if nanos < 0 {
		nanos = 0
	}
	return TimestampValue{Seconds: whole, Nanos: nanos}
}

// TimestampFromTime splits a host time into seconds plus nanoseconds,
// carrying into seconds if rounding produces a full second of nanos.
func TimestampFromTime(t time.Time) TimestampValue {
	u := t.UTC()
	seconds := u.Unix()
	nanos := int32(u.Nanosecond())
	if nanos >= 1_000_000_000 {
		seconds++
		nanos -= 1_000_000_000
	}
	return TimestampValue{Seconds: seconds, Nanos: nanos}
}

type timestampHandler struct{}

// TimestampHandler is the stateless Handler for google.protobuf.Timestamp.
var TimestampHandler Handler = timestampHandler{}

func (timestampHandler) HandledTypeName() string   { return timestampTypeName }
func (timestampHandler) SupportPhase() SupportPhase { return PhaseCritical }

func (timestampHandler) CreateSpecialized(msg *dynamicmsg.Message) (interface{}, error) {
	if msg.Descriptor().FullName() != timestampTypeName {
		return nil, pberr.InvalidData(timestampTypeName, "message descriptor is not google.protobuf.Timestamp")
	}
	seconds, nanos, err := readSecondsNanos(msg)
	if err != nil {
		return nil, err
	}
	if nanos < 0 || nanos > 999_999_999 {
		return nil, pberr.InvalidData(timestampTypeName, fmt.Sprintf("nanos %d out of range [0, 999999999]", nanos))
	}
	return TimestampValue{Seconds: seconds, Nanos: nanos}, nil
}

func (timestampHandler) CreateDynamic(s interface{}) (*dynamicmsg.Message, error) {
	tv, ok := s.(TimestampValue)
	if !ok {
		return nil, pberr.ConversionFailed(fmt.Sprintf("%T", s), timestampTypeName, "expected TimestampValue")
	}
	if !TimestampHandler.Validate(tv) {
		return nil, pberr.ConversionFailed("TimestampValue", timestampTypeName, fmt.Sprintf("nanos %d out of range", tv.Nanos))
	}
	msg := factory.New(timestampDescriptor)
	_ = msg.Set("seconds", tv.Seconds)
	_ = msg.Set("nanos", tv.Nanos)
	return msg, nil
}

func (timestampHandler) Validate(s interface{}) bool {
	tv, ok := s.(TimestampValue)
	if !ok {
		return false
	}
	return tv.Nanos >= 0 && tv.Nanos <= 999_999_999
}

// readSecondsNanos reads the seconds/nanos fields shared by Timestamp and
// Duration, treating an absent field as 0.
func readSecondsNanos(msg *dynamicmsg.Message) (int64, int32, error) {
	secondsVal, err := msg.Get("seconds")
	if err != nil {
		return 0, 0, err
	}
	nanosVal, err := msg.Get("nanos")
	if err != nil {
		return 0, 0, err
	}
	seconds, _ := secondsVal.(int64)
	nanos, _ := nanosVal.(int32)
	return seconds, nanos, nil
}
