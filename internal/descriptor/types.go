// Package descriptor implements the immutable schema model: FileDescriptor,
// MessageDescriptor, FieldDescriptor, EnumDescriptor, ServiceDescriptor, and
// MethodDescriptor, plus the builder phase that produces them.
//
// Descriptors are arena-owned trees: a MessageDescriptor owns its nested
// messages and enums directly (that structure is a tree, never cyclic), but
// a FieldDescriptor referencing a message or enum type carries only the
// target's fully qualified name — resolution against a registry is lazy, so
// self-referential and mutually-recursive message graphs never require the
// descriptor model itself to form an owning cycle.
package descriptor

// FileDescriptor describes a single proto file: its package and the
// messages, enums, and services it declares at the top level.
type FileDescriptor struct {
	name     string
	pkg      string
	messages []*MessageDescriptor
	enums    []*EnumDescriptor
	services []*ServiceDescriptor
}

func (f *FileDescriptor) Name() string                   { return f.name }
func (f *FileDescriptor) Package() string                { return f.pkg }
func (f *FileDescriptor) Messages() []*MessageDescriptor { return f.messages }
func (f *FileDescriptor) Enums() []*EnumDescriptor       { return f.enums }
func (f *FileDescriptor) Services() []*ServiceDescriptor { return f.services }

// MessageDescriptor describes a message type: its fields (indexed by both
// name and number), nested messages/enums, and oneof groups.
type MessageDescriptor struct {
	name     string
	fullName string
	file     *FileDescriptor
	parent   *MessageDescriptor // nil for top-level messages

	fieldsByName   map[string]*FieldDescriptor
	fieldsByNumber map[int32]*FieldDescriptor
	fieldsOrdered  []*FieldDescriptor // ascending by field number

	nestedMessages []*MessageDescriptor
	nestedEnums    []*EnumDescriptor
	oneofs         []*OneofDescriptor
}

func (m *MessageDescriptor) Name() string                         { return m.name }
func (m *MessageDescriptor) FullName() string                     { return m.fullName }
func (m *MessageDescriptor) File() *FileDescriptor                { return m.file }
func (m *MessageDescriptor) Parent() *MessageDescriptor           { return m.parent }
func (m *MessageDescriptor) NestedMessages() []*MessageDescriptor { return m.nestedMessages }
func (m *MessageDescriptor) NestedEnums() []*EnumDescriptor       { return m.nestedEnums }
func (m *MessageDescriptor) Oneofs() []*OneofDescriptor           { return m.oneofs }

// Fields returns the message's fields ordered by ascending field number, the
// order serialization callers that respect wire order must use.
func (m *MessageDescriptor) Fields() []*FieldDescriptor { return m.fieldsOrdered }

// FieldByName looks up a field by its proto name.
func (m *MessageDescriptor) FieldByName(name string) (*FieldDescriptor, bool) {
	f, ok := m.fieldsByName[name]
	return f, ok
}

// FieldByNumber looks up a field by its wire number.
func (m *MessageDescriptor) FieldByNumber(number int32) (*FieldDescriptor, bool) {
	f, ok := m.fieldsByNumber[number]
	return f, ok
}

// OneofDescriptor describes a oneof group: the set of fields where at most
// one may carry a value at a time.
type OneofDescriptor struct {
	name   string
	index  int32
	fields []*FieldDescriptor
}

func (o *OneofDescriptor) Name() string              { return o.name }
func (o *OneofDescriptor) Index() int32              { return o.index }
func (o *OneofDescriptor) Fields() []*FieldDescriptor { return o.fields }

// FieldDescriptor describes a single message field.
type FieldDescriptor struct {
	name     string
	number   int32
	kind     Kind
	typeName string // fully qualified name of the target message/enum type, if any
	jsonName string

	repeated bool
	isMap    bool

	mapKeyKind       Kind
	mapValueKind     Kind
	mapValueTypeName string

	oneof *OneofDescriptor // nil if not part of a oneof

	message *MessageDescriptor // the message this field belongs to
}

func (f *FieldDescriptor) Name() string                      { return f.name }
func (f *FieldDescriptor) Number() int32                     { return f.number }
func (f *FieldDescriptor) Kind() Kind                        { return f.kind }
func (f *FieldDescriptor) TypeName() string                  { return f.typeName }
func (f *FieldDescriptor) JSONName() string                  { return f.jsonName }
func (f *FieldDescriptor) IsRepeated() bool                  { return f.repeated }
func (f *FieldDescriptor) IsMap() bool                       { return f.isMap }
func (f *FieldDescriptor) MapKeyKind() Kind                  { return f.mapKeyKind }
func (f *FieldDescriptor) MapValueKind() Kind                { return f.mapValueKind }
func (f *FieldDescriptor) MapValueTypeName() string          { return f.mapValueTypeName }
func (f *FieldDescriptor) ContainingOneof() *OneofDescriptor { return f.oneof }
func (f *FieldDescriptor) Message() *MessageDescriptor       { return f.message }

// HasPresence reports whether this field tracks explicit "has" state.
// Scalar singular fields track a has-bit, message fields track presence via
// nil/absent, and repeated/map fields never have presence (an empty
// sequence/mapping and "unset" are the same state).
func (f *FieldDescriptor) HasPresence() bool {
	if f.repeated || f.isMap {
		return false
	}
	return true
}

// EnumDescriptor describes an enum type and its ordered values.
type EnumDescriptor struct {
	name     string
	fullName string
	values   []*EnumValueDescriptor
}

func (e *EnumDescriptor) Name() string                   { return e.name }
func (e *EnumDescriptor) FullName() string               { return e.fullName }
func (e *EnumDescriptor) Values() []*EnumValueDescriptor { return e.values }

func (e *EnumDescriptor) ValueByName(name string) (*EnumValueDescriptor, bool) {
	for _, v := range e.values {
		if v.name == name {
			return v, true
		}
	}
	return nil, false
}

func (e *EnumDescriptor) ValueByNumber(number int32) (*EnumValueDescriptor, bool) {
	for _, v := range e.values {
		if v.number == number {
			return v, true
		}
	}
	return nil, false
}

// EnumValueDescriptor describes one named value of an enum.
type EnumValueDescriptor struct {
	name   string
	number int32
}

func (v *EnumValueDescriptor) Name() string  { return v.name }
func (v *EnumValueDescriptor) Number() int32 { return v.number }

// ServiceDescriptor describes an RPC service and its ordered methods.
type ServiceDescriptor struct {
	name    string
	methods []*MethodDescriptor
}

func (s *ServiceDescriptor) Name() string                 { return s.name }
func (s *ServiceDescriptor) Methods() []*MethodDescriptor { return s.methods }

// MethodDescriptor describes a single RPC method.
type MethodDescriptor struct {
	name            string
	inputType       string
	outputType      string
	clientStreaming bool
	serverStreaming bool
}

func (m *MethodDescriptor) Name() string            { return m.name }
func (m *MethodDescriptor) InputType() string       { return m.inputType }
func (m *MethodDescriptor) OutputType() string      { return m.outputType }
func (m *MethodDescriptor) IsClientStreaming() bool { return m.clientStreaming }
func (m *MethodDescriptor) IsServerStreaming() bool { return m.serverStreaming }
