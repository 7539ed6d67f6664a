package descriptor_test

import (
	"sort"
	"testing"

	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/typeregistry"
)

func buildNestedFile(t *testing.T) (*descriptor.FileDescriptor, *typeregistry.Registry) {
	t.Helper()
	addr := descriptor.NewMessage("Address").
		AddField(descriptor.FieldSpec{Name: "city", Number: 1, Kind: descriptor.KindString})

	user := descriptor.NewMessage("User").
		AddField(descriptor.FieldSpec{Name: "id", Number: 1, Kind: descriptor.KindInt32}).
		AddField(descriptor.FieldSpec{Name: "address", Number: 2, Kind: descriptor.KindMessage, TypeName: "nest.v1.Address"})

	file, err := descriptor.NewFile("nest.proto", "nest.v1").
		AddMessage(user).
		AddMessage(addr).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	reg := typeregistry.New()
	if err := reg.RegisterFile(file); err != nil {
		t.Fatalf("RegisterFile() failed: %v", err)
	}
	return file, reg
}

func TestWalkFieldsExpandsNestedMessages(t *testing.T) {
	file, reg := buildNestedFile(t)
	user := file.Messages()[0]

	paths := descriptor.WalkFields(user, reg, "", nil)
	var got []string
	for _, p := range paths {
		got = append(got, p.Path)
	}
	sort.Strings(got)

	want := []string{"address", "address.city", "id"}
	if len(got) != len(want) {
		t.Fatalf("WalkFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("WalkFields() = %v, want %v", got, want)
		}
	}
}

func TestWalkFieldsGuardsSelfReference(t *testing.T) {
	node := descriptor.NewMessage("Node").
		AddField(descriptor.FieldSpec{Name: "value", Number: 1, Kind: descriptor.KindInt32}).
		AddField(descriptor.FieldSpec{Name: "next", Number: 2, Kind: descriptor.KindMessage, TypeName: "tree.v1.Node"})

	file, err := descriptor.NewFile("tree.proto", "tree.v1").AddMessage(node).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	reg := typeregistry.New()
	if err := reg.RegisterFile(file); err != nil {
		t.Fatalf("RegisterFile() failed: %v", err)
	}

	paths := descriptor.WalkFields(file.Messages()[0], reg, "", nil)
	if len(paths) != 2 {
		t.Fatalf("expected exactly 2 entries for a self-referential message, got %d: %v", len(paths), paths)
	}
}
