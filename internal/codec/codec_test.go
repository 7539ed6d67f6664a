package codec_test

import (
	"testing"

	"github.com/datahopper/protoreflect/internal/codec"
	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/factory"
	"github.com/datahopper/protoreflect/internal/typeregistry"
	"github.com/datahopper/protoreflect/internal/wkt"
)

func widgetFile(t *testing.T) (*typeregistry.Registry, *descriptor.MessageDescriptor) {
	t.Helper()
	origin := descriptor.NewMessage("Origin").
		AddField(descriptor.FieldSpec{Name: "country", Number: 1, Kind: descriptor.KindString})

	widget := descriptor.NewMessage("Widget").
		AddField(descriptor.FieldSpec{Name: "id", Number: 1, Kind: descriptor.KindString}).
		AddField(descriptor.FieldSpec{Name: "quantity", Number: 2, Kind: descriptor.KindInt32}).
		AddField(descriptor.FieldSpec{Name: "tags", Number: 3, Kind: descriptor.KindString, Repeated: true}).
		AddField(descriptor.FieldSpec{
			Name: "attributes", Number: 4, Kind: descriptor.KindInt32, IsMap: true,
			MapKeyKind: descriptor.KindString, MapValueKind: descriptor.KindInt32,
		}).
		AddField(descriptor.FieldSpec{Name: "origin", Number: 5, Kind: descriptor.KindMessage, TypeName: "catalog.v1.Widget.Origin"}).
		AddField(descriptor.FieldSpec{Name: "created_at", Number: 6, Kind: descriptor.KindMessage, TypeName: "google.protobuf.Timestamp"}).
		AddNestedMessage(origin)

	file, err := descriptor.NewFile("catalog/widget.proto", "catalog.v1").AddMessage(widget).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	reg := typeregistry.New()
	if err := reg.RegisterFile(wkt.File()); err != nil {
		t.Fatalf("RegisterFile(wkt.File()) failed: %v", err)
	}
	if err := reg.RegisterFile(file); err != nil {
		t.Fatalf("RegisterFile(widget) failed: %v", err)
	}
	widgetDesc, ok := reg.FindMessage("catalog.v1.Widget")
	if !ok {
		t.Fatalf("catalog.v1.Widget not found after registration")
	}
	return reg, widgetDesc
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	reg, widgetDesc := widgetFile(t)
	c := codec.NewProtoCodec(reg)

	msg := factory.New(widgetDesc)
	mustSet(t, msg, "id", "w-1")
	mustSet(t, msg, "quantity", int32(3))
	mustAppend(t, msg, "tags", "blue")
	mustAppend(t, msg, "tags", "large")
	mustPut(t, msg, "attributes", "weight_g", int32(450))

	originDesc, ok := widgetDesc.FieldByName("origin")
	if !ok {
		t.Fatalf("origin field not found")
	}
	origin := dynamicmsg.New(mustMessageDescriptor(t, reg, originDesc.TypeName()))
	mustSet(t, origin, "country", "DE")
	mustSet(t, msg, "origin", origin)

	tsDesc, ok := reg.FindMessage("google.protobuf.Timestamp")
	if !ok {
		t.Fatalf("google.protobuf.Timestamp not registered")
	}
	ts := dynamicmsg.New(tsDesc)
	mustSet(t, ts, "seconds", int64(1700000000))
	mustSet(t, ts, "nanos", int32(250))
	mustSet(t, msg, "created_at", ts)

	wire, err := c.Serialize(msg)
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	if len(wire) == 0 {
		t.Fatalf("Serialize() produced no bytes")
	}

	out, err := c.Deserialize(wire, widgetDesc)
	if err != nil {
		t.Fatalf("Deserialize() failed: %v", err)
	}

	assertField(t, out, "id", "w-1")
	assertField(t, out, "quantity", int32(3))

	tagsVal, err := out.Get("tags")
	if err != nil {
		t.Fatalf("Get(tags) failed: %v", err)
	}
	tags := tagsVal.([]interface{})
	if len(tags) != 2 || tags[0] != "blue" || tags[1] != "large" {
		t.Fatalf("tags = %v, want [blue large]", tags)
	}

	attrsVal, err := out.Get("attributes")
	if err != nil {
		t.Fatalf("Get(attributes) failed: %v", err)
	}
	attrs := attrsVal.(map[interface{}]interface{})
	if attrs["weight_g"] != int32(450) {
		t.Fatalf("attributes[weight_g] = %v, want 450", attrs["weight_g"])
	}

	originVal, err := out.Get("origin")
	if err != nil {
		t.Fatalf("Get(origin) failed: %v", err)
	}
	gotOrigin := originVal.(*dynamicmsg.Message)
	assertField(t, gotOrigin, "country", "DE")

	tsVal, err := out.Get("created_at")
	if err != nil {
		t.Fatalf("Get(created_at) failed: %v", err)
	}
	gotTs := tsVal.(*dynamicmsg.Message)
	assertField(t, gotTs, "seconds", int64(1700000000))
	assertField(t, gotTs, "nanos", int32(250))
}

func TestSerializeEmptyMessageRoundTrips(t *testing.T) {
	reg, widgetDesc := widgetFile(t)
	c := codec.NewProtoCodec(reg)

	msg := factory.New(widgetDesc)
	wire, err := c.Serialize(msg)
	if err != nil {
		t.Fatalf("Serialize() failed: %v", err)
	}
	out, err := c.Deserialize(wire, widgetDesc)
	if err != nil {
		t.Fatalf("Deserialize() failed: %v", err)
	}
	if hasID, _ := out.HasValue("id"); hasID {
		t.Fatalf("expected id to be absent on an empty message round trip")
	}
}

func TestAnyPackUnpackThroughRealCodec(t *testing.T) {
	reg, widgetDesc := widgetFile(t)
	c := codec.NewProtoCodec(reg)

	msg := factory.New(widgetDesc)
	mustSet(t, msg, "id", "w-42")
	mustSet(t, msg, "quantity", int32(9))

	av, err := wkt.Pack(msg, c)
	if err != nil {
		t.Fatalf("Pack() failed: %v", err)
	}
	if av.TypeURL != "type.googleapis.com/catalog.v1.Widget" {
		t.Fatalf("Pack() TypeURL = %q", av.TypeURL)
	}

	unpacked, err := av.UnpackUsing(reg, c)
	if err != nil {
		t.Fatalf("UnpackUsing() failed: %v", err)
	}
	assertField(t, unpacked, "id", "w-42")
	assertField(t, unpacked, "quantity", int32(9))
}

func TestAnyUnpackToMismatchedDescriptorFails(t *testing.T) {
	reg, widgetDesc := widgetFile(t)
	c := codec.NewProtoCodec(reg)

	msg := factory.New(widgetDesc)
	mustSet(t, msg, "id", "w-1")
	av, err := wkt.Pack(msg, c)
	if err != nil {
		t.Fatalf("Pack() failed: %v", err)
	}

	wrong, ok := reg.FindMessage("google.protobuf.Timestamp")
	if !ok {
		t.Fatalf("google.protobuf.Timestamp not registered")
	}
	if _, err := av.UnpackTo(wrong, c); err == nil {
		t.Fatalf("expected ConversionFailed unpacking a Widget into a Timestamp descriptor")
	}
}

func mustMessageDescriptor(t *testing.T, reg *typeregistry.Registry, fqn string) *descriptor.MessageDescriptor {
	t.Helper()
	d, ok := reg.FindMessage(fqn)
	if !ok {
		t.Fatalf("message %s not found in registry", fqn)
	}
	return d
}

func mustSet(t *testing.T, msg *dynamicmsg.Message, field string, value interface{}) {
	t.Helper()
	if err := msg.Set(field, value); err != nil {
		t.Fatalf("Set(%s) failed: %v", field, err)
	}
}

func mustAppend(t *testing.T, msg *dynamicmsg.Message, field string, value interface{}) {
	t.Helper()
	if err := msg.Append(field, value); err != nil {
		t.Fatalf("Append(%s) failed: %v", field, err)
	}
}

func mustPut(t *testing.T, msg *dynamicmsg.Message, field string, key, value interface{}) {
	t.Helper()
	if err := msg.Put(field, key, value); err != nil {
		t.Fatalf("Put(%s) failed: %v", field, err)
	}
}

func assertField(t *testing.T, msg *dynamicmsg.Message, field string, want interface{}) {
	t.Helper()
	got, err := msg.Get(field)
	if err != nil {
		t.Fatalf("Get(%s) failed: %v", field, err)
	}
	if got != want {
		t.Fatalf("%s = %v (%T), want %v (%T)", field, got, got, want, want)
	}
}
