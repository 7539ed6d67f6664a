package descriptor

import (
	"fmt"
	"sort"

	"github.com/iancoleman/strcase"

	"github.com/datahopper/protoreflect/internal/pberr"
)

// FieldSpec is the builder-time description of a field; AddField converts it
// into an immutable FieldDescriptor once the enclosing message is built.
type FieldSpec struct {
	Name     string
	Number   int32
	Kind     Kind
	TypeName string // required for Kind == KindMessage/KindEnum/KindGroup

	Repeated bool

	IsMap            bool
	MapKeyKind       Kind
	MapValueKind     Kind
	MapValueTypeName string

	// OneofName, if non-empty, places this field in the named oneof group.
	// Oneof groups are discovered implicitly from the fields that name them;
	// callers never declare oneofs up front.
	OneofName string

	// JSONName overrides the default lowerCamelCase derivation when set.
	JSONName string
}

// EnumValueSpec is the builder-time description of one enum value.
type EnumValueSpec struct {
	Name   string
	Number int32
}

// EnumBuilder accumulates an enum's values before Build freezes them.
type EnumBuilder struct {
	name   string
	values []EnumValueSpec
}

func NewEnum(name string) *EnumBuilder {
	return &EnumBuilder{name: name}
}

func (b *EnumBuilder) AddValue(name string, number int32) *EnumBuilder {
	b.values = append(b.values, EnumValueSpec{Name: name, Number: number})
	return b
}

func (b *EnumBuilder) build(fullName string) (*EnumDescriptor, error) {
	seenNames := make(map[string]bool, len(b.values))
	seenNumbers := make(map[int32]bool, len(b.values))
	values := make([]*EnumValueDescriptor, 0, len(b.values))
	for _, v := range b.values {
		if seenNames[v.Name] {
			return nil, pberr.DuplicateName(fmt.Sprintf("%s.%s", fullName, v.Name))
		}
		if seenNumbers[v.Number] {
			return nil, pberr.DuplicateName(fmt.Sprintf("%s#%d", fullName, v.Number))
		}
		seenNames[v.Name] = true
		seenNumbers[v.Number] = true
		values = append(values, &EnumValueDescriptor{name: v.Name, number: v.Number})
	}
	return &EnumDescriptor{name: b.name, fullName: fullName, values: values}, nil
}

// MessageBuilder accumulates a message's fields and nested types before
// Build freezes them into an immutable MessageDescriptor tree.
type MessageBuilder struct {
	name        string
	fields      []FieldSpec
	nested      []*MessageBuilder
	nestedEnums []*EnumBuilder
}

func NewMessage(name string) *MessageBuilder {
	return &MessageBuilder{name: name}
}

func (b *MessageBuilder) AddField(f FieldSpec) *MessageBuilder {
	b.fields = append(b.fields, f)
	return b
}

func (b *MessageBuilder) AddNestedMessage(m *MessageBuilder) *MessageBuilder {
	b.nested = append(b.nested, m)
	return b
}

func (b *MessageBuilder) AddNestedEnum(e *EnumBuilder) *MessageBuilder {
	b.nestedEnums = append(b.nestedEnums, e)
	return b
}

func (b *MessageBuilder) build(file *FileDescriptor, parent *MessageDescriptor, fullName string) (*MessageDescriptor, error) {
	md := &MessageDescriptor{
		name:           b.name,
		fullName:       fullName,
		file:           file,
		parent:         parent,
		fieldsByName:   make(map[string]*FieldDescriptor, len(b.fields)),
		fieldsByNumber: make(map[int32]*FieldDescriptor, len(b.fields)),
	}

	oneofsByName := make(map[string]*OneofDescriptor)
	var oneofOrder []string

	for _, spec := range b.fields {
		if _, dup := md.fieldsByName[spec.Name]; dup {
			return nil, pberr.DuplicateName(fmt.Sprintf("%s.%s", fullName, spec.Name))
		}
		if _, dup := md.fieldsByNumber[spec.Number]; dup {
			return nil, pberr.DuplicateName(fmt.Sprintf("%s#%d", fullName, spec.Number))
		}
		if spec.Number <= 0 {
			return nil, pberr.InvalidData(fullName, fmt.Sprintf("field %s has non-positive number %d", spec.Name, spec.Number))
		}
		if (spec.Kind == KindMessage || spec.Kind == KindEnum || spec.Kind == KindGroup) && spec.TypeName == "" {
			return nil, pberr.InvalidData(fullName, fmt.Sprintf("field %s of kind %s requires a type_name", spec.Name, spec.Kind))
		}

		jsonName := spec.JSONName
		if jsonName == "" {
			jsonName = strcase.ToLowerCamel(spec.Name)
		}

		fd := &FieldDescriptor{
			name:             spec.Name,
			number:           spec.Number,
			kind:             spec.Kind,
			typeName:         spec.TypeName,
			jsonName:         jsonName,
			repeated:         spec.Repeated,
			isMap:            spec.IsMap,
			mapKeyKind:       spec.MapKeyKind,
			mapValueKind:     spec.MapValueKind,
			mapValueTypeName: spec.MapValueTypeName,
			message:          md,
		}

		if spec.OneofName != "" {
			oo, ok := oneofsByName[spec.OneofName]
			if !ok {
				oo = &OneofDescriptor{name: spec.OneofName, index: int32(len(oneofOrder))}
				oneofsByName[spec.OneofName] = oo
				oneofOrder = append(oneofOrder, spec.OneofName)
			}
			oo.fields = append(oo.fields, fd)
			fd.oneof = oo
		}

		md.fieldsByName[spec.Name] = fd
		md.fieldsByNumber[spec.Number] = fd
	}

	md.fieldsOrdered = make([]*FieldDescriptor, 0, len(md.fieldsByName))
	for _, fd := range md.fieldsByName {
		md.fieldsOrdered = append(md.fieldsOrdered, fd)
	}
	sort.Slice(md.fieldsOrdered, func(i, j int) bool {
		return md.fieldsOrdered[i].number < md.fieldsOrdered[j].number
	})

	for _, name := range oneofOrder {
		md.oneofs = append(md.oneofs, oneofsByName[name])
	}

	for _, nb := range b.nested {
		nmd, err := nb.build(file, md, fullName+"."+nb.name)
		if err != nil {
			return nil, err
		}
		md.nestedMessages = append(md.nestedMessages, nmd)
	}
	for _, eb := range b.nestedEnums {
		ed, err := eb.build(fullName + "." + eb.name)
		if err != nil {
			return nil, err
		}
		md.nestedEnums = append(md.nestedEnums, ed)
	}

	return md, nil
}

// ServiceBuilder accumulates a service's methods.
type ServiceBuilder struct {
	name    string
	methods []MethodSpec
}

// MethodSpec is the builder-time description of one RPC method.
type MethodSpec struct {
	Name            string
	InputType       string
	OutputType      string
	ClientStreaming bool
	ServerStreaming bool
}

func NewService(name string) *ServiceBuilder {
	return &ServiceBuilder{name: name}
}

func (b *ServiceBuilder) AddMethod(m MethodSpec) *ServiceBuilder {
	b.methods = append(b.methods, m)
	return b
}

func (b *ServiceBuilder) build() (*ServiceDescriptor, error) {
	seen := make(map[string]bool, len(b.methods))
	methods := make([]*MethodDescriptor, 0, len(b.methods))
	for _, m := range b.methods {
		if seen[m.Name] {
			return nil, pberr.DuplicateName(fmt.Sprintf("%s.%s", b.name, m.Name))
		}
		seen[m.Name] = true
		methods = append(methods, &MethodDescriptor{
			name:            m.Name,
			inputType:       m.InputType,
			outputType:      m.OutputType,
			clientStreaming: m.ClientStreaming,
			serverStreaming: m.ServerStreaming,
		})
	}
	return &ServiceDescriptor{name: b.name, methods: methods}, nil
}

// FileBuilder accumulates a file's top-level messages, enums, and services
// in any order; Build freezes them into an immutable FileDescriptor tree and
// computes every fully qualified name.
type FileBuilder struct {
	name     string
	pkg      string
	messages []*MessageBuilder
	enums    []*EnumBuilder
	services []*ServiceBuilder
}

// NewFile starts a builder for a file named name (its path, e.g.
// "myapp/widgets.proto") declaring package pkg (may be empty).
func NewFile(name, pkg string) *FileBuilder {
	return &FileBuilder{name: name, pkg: pkg}
}

func (b *FileBuilder) AddMessage(m *MessageBuilder) *FileBuilder {
	b.messages = append(b.messages, m)
	return b
}

func (b *FileBuilder) AddEnum(e *EnumBuilder) *FileBuilder {
	b.enums = append(b.enums, e)
	return b
}

func (b *FileBuilder) AddService(s *ServiceBuilder) *FileBuilder {
	b.services = append(b.services, s)
	return b
}

// qualify derives "<package>.<name>", with the package omitted when empty.
func (b *FileBuilder) qualify(name string) string {
	if b.pkg == "" {
		return name
	}
	return b.pkg + "." + name
}

// Build validates and freezes the accumulated declarations. Once Build
// returns successfully the resulting FileDescriptor and everything it owns
// is immutable for the rest of the program's lifetime.
func (b *FileBuilder) Build() (*FileDescriptor, error) {
	fd := &FileDescriptor{name: b.name, pkg: b.pkg}

	for _, mb := range b.messages {
		md, err := mb.build(fd, nil, b.qualify(mb.name))
		if err != nil {
			return nil, err
		}
		fd.messages = append(fd.messages, md)
	}
	for _, eb := range b.enums {
		ed, err := eb.build(b.qualify(eb.name))
		if err != nil {
			return nil, err
		}
		fd.enums = append(fd.enums, ed)
	}
	for _, sb := range b.services {
		sd, err := sb.build()
		if err != nil {
			return nil, err
		}
		fd.services = append(fd.services, sd)
	}

	return fd, nil
}
