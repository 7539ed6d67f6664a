package protoio_test

import (
	"testing"

	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/protoio"
)

const widgetProto = `
syntax = "proto3";
package catalog.v1;

message Widget {
  string id = 1;
  int32 quantity = 2;
  repeated string tags = 3;
  map<string, int32> attributes = 4;
  Origin origin = 5;

  message Origin {
    string country = 1;
  }
}

service WidgetService {
  rpc GetWidget (Widget) returns (Widget);
}
`

func TestParseFilesConvertsMessagesFieldsAndServices(t *testing.T) {
	files, err := protoio.ParseFiles(map[string]string{"catalog/widget.proto": widgetProto})
	if err != nil {
		t.Fatalf("ParseFiles() failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("ParseFiles() = %d files, want 1", len(files))
	}

	file := files[0]
	if file.Package() != "catalog.v1" {
		t.Fatalf("Package() = %q, want catalog.v1", file.Package())
	}
	if len(file.Messages()) != 1 {
		t.Fatalf("Messages() = %d, want 1", len(file.Messages()))
	}

	widget := file.Messages()[0]
	if widget.FullName() != "catalog.v1.Widget" {
		t.Fatalf("FullName() = %q, want catalog.v1.Widget", widget.FullName())
	}

	id, ok := widget.FieldByName("id")
	if !ok || id.Kind() != descriptor.KindString {
		t.Fatalf("field id = %+v, ok=%v, want string field", id, ok)
	}
	tags, ok := widget.FieldByName("tags")
	if !ok || !tags.IsRepeated() || tags.Kind() != descriptor.KindString {
		t.Fatalf("field tags = %+v, ok=%v, want repeated string field", tags, ok)
	}
	attrs, ok := widget.FieldByName("attributes")
	if !ok || !attrs.IsMap() || attrs.MapKeyKind() != descriptor.KindString || attrs.MapValueKind() != descriptor.KindInt32 {
		t.Fatalf("field attributes = %+v, ok=%v, want map<string, int32>", attrs, ok)
	}
	origin, ok := widget.FieldByName("origin")
	if !ok || origin.Kind() != descriptor.KindMessage || origin.TypeName() != "catalog.v1.Widget.Origin" {
		t.Fatalf("field origin = %+v, ok=%v, want message field typed catalog.v1.Widget.Origin", origin, ok)
	}

	if len(widget.NestedMessages()) != 1 || widget.NestedMessages()[0].FullName() != "catalog.v1.Widget.Origin" {
		t.Fatalf("NestedMessages() = %+v, want [catalog.v1.Widget.Origin]", widget.NestedMessages())
	}

	if len(file.Services()) != 1 {
		t.Fatalf("Services() = %d, want 1", len(file.Services()))
	}
	svc := file.Services()[0]
	if svc.Name() != "WidgetService" || len(svc.Methods()) != 1 {
		t.Fatalf("Services()[0] = %+v, want WidgetService with 1 method", svc)
	}
	method := svc.Methods()[0]
	if method.InputType() != "catalog.v1.Widget" || method.OutputType() != "catalog.v1.Widget" {
		t.Fatalf("method = %+v, want input/output catalog.v1.Widget", method)
	}
}

func TestParseFilesRejectsEmptyInput(t *testing.T) {
	if _, err := protoio.ParseFiles(nil); err == nil {
		t.Fatalf("expected an error for empty input")
	}
}

func TestParseFilesSkipsWellKnownImports(t *testing.T) {
	source := `
syntax = "proto3";
package catalog.v1;

import "google/protobuf/timestamp.proto";

message Order {
  google.protobuf.Timestamp placed_at = 1;
}
`
	files, err := protoio.ParseFiles(map[string]string{"catalog/order.proto": source})
	if err != nil {
		t.Fatalf("ParseFiles() failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("ParseFiles() = %d files, want 1 (well-known import excluded)", len(files))
	}
	order := files[0].Messages()[0]
	placedAt, ok := order.FieldByName("placed_at")
	if !ok || placedAt.TypeName() != "google.protobuf.Timestamp" {
		t.Fatalf("field placed_at = %+v, ok=%v, want message field typed google.protobuf.Timestamp", placedAt, ok)
	}
}
