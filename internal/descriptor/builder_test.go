package descriptor

import "testing"

func buildUserFile(t *testing.T) *FileDescriptor {
	t.Helper()
	addr := NewMessage("Address").
		AddField(FieldSpec{Name: "city", Number: 1, Kind: KindString})

	user := NewMessage("User").
		AddField(FieldSpec{Name: "id", Number: 1, Kind: KindInt32}).
		AddField(FieldSpec{Name: "name", Number: 2, Kind: KindString}).
		AddField(FieldSpec{Name: "address", Number: 3, Kind: KindMessage, TypeName: "user.v1.Address"}).
		AddField(FieldSpec{Name: "tags", Number: 4, Kind: KindString, Repeated: true}).
		AddField(FieldSpec{Name: "email", Number: 5, Kind: KindString, OneofName: "contact"}).
		AddField(FieldSpec{Name: "phone", Number: 6, Kind: KindString, OneofName: "contact"})

	file, err := NewFile("user.proto", "user.v1").
		AddMessage(user).
		AddMessage(addr).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return file
}

func TestBuilderFullNamesAndOrdering(t *testing.T) {
	file := buildUserFile(t)
	user := file.Messages()[0]
	if user.FullName() != "user.v1.User" {
		t.Fatalf("FullName() = %q", user.FullName())
	}

	fields := user.Fields()
	var numbers []int32
	for _, f := range fields {
		numbers = append(numbers, f.Number())
	}
	want := []int32{1, 2, 3, 4, 5, 6}
	if len(numbers) != len(want) {
		t.Fatalf("got %d fields, want %d", len(numbers), len(want))
	}
	for i, n := range numbers {
		if n != want[i] {
			t.Fatalf("field[%d].Number() = %d, want %d", i, n, want[i])
		}
	}
}

func TestBuilderOneofGrouping(t *testing.T) {
	file := buildUserFile(t)
	user := file.Messages()[0]
	if len(user.Oneofs()) != 1 {
		t.Fatalf("expected 1 oneof, got %d", len(user.Oneofs()))
	}
	oo := user.Oneofs()[0]
	if oo.Name() != "contact" || len(oo.Fields()) != 2 {
		t.Fatalf("unexpected oneof shape: %+v", oo)
	}
	email, _ := user.FieldByName("email")
	if email.ContainingOneof() != oo {
		t.Fatalf("email field not linked to its oneof")
	}
}

func TestBuilderDuplicateFieldName(t *testing.T) {
	m := NewMessage("Dup").
		AddField(FieldSpec{Name: "a", Number: 1, Kind: KindString}).
		AddField(FieldSpec{Name: "a", Number: 2, Kind: KindString})
	_, err := NewFile("dup.proto", "").AddMessage(m).Build()
	if err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestBuilderDuplicateFieldNumber(t *testing.T) {
	m := NewMessage("Dup").
		AddField(FieldSpec{Name: "a", Number: 1, Kind: KindString}).
		AddField(FieldSpec{Name: "b", Number: 1, Kind: KindString})
	_, err := NewFile("dup.proto", "").AddMessage(m).Build()
	if err == nil {
		t.Fatalf("expected duplicate number error")
	}
}

func TestBuilderMissingTypeName(t *testing.T) {
	m := NewMessage("Bad").
		AddField(FieldSpec{Name: "child", Number: 1, Kind: KindMessage})
	_, err := NewFile("bad.proto", "").AddMessage(m).Build()
	if err == nil {
		t.Fatalf("expected invalid data error for missing type_name")
	}
}

func TestBuilderNonPositiveFieldNumber(t *testing.T) {
	m := NewMessage("Bad").
		AddField(FieldSpec{Name: "x", Number: 0, Kind: KindString})
	_, err := NewFile("bad.proto", "").AddMessage(m).Build()
	if err == nil {
		t.Fatalf("expected invalid data error for non-positive field number")
	}
}

func TestBuilderJSONNameDerivation(t *testing.T) {
	m := NewMessage("M").
		AddField(FieldSpec{Name: "user_id", Number: 1, Kind: KindString})
	file, err := NewFile("m.proto", "").AddMessage(m).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	fd, _ := file.Messages()[0].FieldByName("user_id")
	if fd.JSONName() != "userId" {
		t.Fatalf("JSONName() = %q, want %q", fd.JSONName(), "userId")
	}
}

func TestHasPresence(t *testing.T) {
	file := buildUserFile(t)
	user := file.Messages()[0]
	id, _ := user.FieldByName("id")
	tags, _ := user.FieldByName("tags")
	if !id.HasPresence() {
		t.Fatalf("scalar field should have presence")
	}
	if tags.HasPresence() {
		t.Fatalf("repeated field should never have presence")
	}
}
