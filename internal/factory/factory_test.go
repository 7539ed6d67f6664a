package factory_test

import (
	"testing"

	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/factory"
)

func TestNewProducesEmptyMessage(t *testing.T) {
	widget := descriptor.NewMessage("Widget").
		AddField(descriptor.FieldSpec{Name: "id", Number: 1, Kind: descriptor.KindInt32}).
		AddField(descriptor.FieldSpec{Name: "tags", Number: 2, Kind: descriptor.KindString, Repeated: true})
	file, err := descriptor.NewFile("widget.proto", "widget.v1").AddMessage(widget).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	m := factory.New(file.Messages()[0])
	if m.Descriptor() != file.Messages()[0] {
		t.Fatalf("Descriptor() mismatch")
	}
	has, err := m.HasValue("id")
	if err != nil || has {
		t.Fatalf("newly-factory'd message should have id absent, got %v, %v", has, err)
	}
	tags, err := m.Get("tags")
	if err != nil {
		t.Fatalf("Get(tags) failed: %v", err)
	}
	if l, ok := tags.([]interface{}); !ok || len(l) != 0 {
		t.Fatalf("Get(tags) = %#v, want empty slice", tags)
	}
}
