// Package protoio is the descriptor-ingestion boundary. Proto-file parsing
// is kept out of the core packages, but a runtime reflection engine needs
// *some* way to get FileDescriptors in: this package parses .proto source
// text with jhump/protoreflect's protoparse and converts the result into
// this module's own descriptor.FileDescriptor builder tree, so the core
// never depends on protoparse directly.
package protoio

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/obs"
	"github.com/datahopper/protoreflect/internal/pberr"
)

// virtualFS serves in-memory .proto sources to protoparse, so callers can
// ingest schema text without touching the real filesystem.
type virtualFS struct {
	files map[string][]byte
}

func newVirtualFS(sources map[string][]byte) *virtualFS {
	return &virtualFS{files: sources}
}

func (vfs *virtualFS) Open(name string) (fs.File, error) {
	content, ok := vfs.files[path.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("protoio: file not found: %s", name)
	}
	return &virtualFile{name: name, content: content}, nil
}

type virtualFile struct {
	name    string
	content []byte
	offset  int64
}

func (f *virtualFile) Stat() (fs.FileInfo, error) {
	return virtualFileInfo{name: path.Base(f.name), size: int64(len(f.content))}, nil
}

func (f *virtualFile) Read(b []byte) (int, error) {
	if f.offset >= int64(len(f.content)) {
		return 0, io.EOF
	}
	n := copy(b, f.content[f.offset:])
	f.offset += int64(n)
	return n, nil
}

func (f *virtualFile) Close() error { return nil }

type virtualFileInfo struct {
	name string
	size int64
}

func (fi virtualFileInfo) Name() string       { return fi.name }
func (fi virtualFileInfo) Size() int64        { return fi.size }
func (fi virtualFileInfo) Mode() fs.FileMode  { return 0o444 }
func (fi virtualFileInfo) ModTime() time.Time { return time.Time{} }
func (fi virtualFileInfo) IsDir() bool        { return false }
func (fi virtualFileInfo) Sys() interface{}   { return nil }

// ParseFiles compiles the named .proto sources (filename -> source text) and
// returns one descriptor.FileDescriptor per user file. The order of the
// returned files follows iteration over the sources map and is therefore
// not defined. Well-known-type imports
// ("google/protobuf/*.proto") are resolved by protoparse's own built-in
// descriptor set and are not returned; callers wanting those descriptors
// register wkt.File() alongside the parsed files instead.
func ParseFiles(sources map[string]string) ([]*descriptor.FileDescriptor, error) {
	if len(sources) == 0 {
		return nil, pberr.InvalidData("", "no .proto sources supplied")
	}

	byteSources := make(map[string][]byte, len(sources))
	names := make([]string, 0, len(sources))
	for name, content := range sources {
		byteSources[path.Clean(name)] = []byte(content)
		names = append(names, path.Clean(name))
	}

	vfs := newVirtualFS(byteSources)
	parser := protoparse.Parser{
		Accessor: func(filename string) (io.ReadCloser, error) {
			f, err := vfs.Open(filename)
			if err != nil {
				return nil, err
			}
			return f.(io.ReadCloser), nil
		},
		ImportPaths:           []string{"."},
		IncludeSourceCodeInfo: false,
	}

	parsed, err := parser.ParseFiles(names...)
	if err != nil {
		return nil, pberr.InvalidData("", fmt.Sprintf("failed to parse proto sources: %v", err))
	}

	out := make([]*descriptor.FileDescriptor, 0, len(parsed))
	for _, fd := range parsed {
		if isWellKnown(fd.GetName()) {
			continue
		}
		converted, err := convertFile(fd)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	obs.OperationLogger("protoio", "parse_files", "", 0).Int("fileCount", len(out)).Msg("parsed proto sources into descriptor trees")
	return out, nil
}

func isWellKnown(name string) bool {
	return len(name) >= 7 && name[:7] == "google/"
}

// convertFile translates a parsed *desc.FileDescriptor into this module's
// own immutable FileDescriptor tree via the builder API in
// internal/descriptor, the conversion internal/codec's toFileDescriptorProto
// runs in reverse.
func convertFile(fd *desc.FileDescriptor) (*descriptor.FileDescriptor, error) {
	fb := descriptor.NewFile(fd.GetName(), fd.GetPackage())
	for _, m := range fd.GetMessageTypes() {
		fb.AddMessage(convertMessage(m))
	}
	for _, e := range fd.GetEnumTypes() {
		fb.AddEnum(convertEnum(e))
	}
	for _, s := range fd.GetServices() {
		fb.AddService(convertService(s))
	}
	return fb.Build()
}

func convertMessage(md *desc.MessageDescriptor) *descriptor.MessageBuilder {
	mb := descriptor.NewMessage(md.GetName())
	for _, f := range md.GetFields() {
		mb.AddField(convertField(f))
	}
	for _, nm := range md.GetNestedMessageTypes() {
		if nm.IsMapEntry() {
			// Map fields carry their key/value kinds on the field itself;
			// internal/codec re-synthesizes the entry message when compiling.
			continue
		}
		mb.AddNestedMessage(convertMessage(nm))
	}
	for _, ne := range md.GetNestedEnumTypes() {
		mb.AddNestedEnum(convertEnum(ne))
	}
	return mb
}

func convertField(fd *desc.FieldDescriptor) descriptor.FieldSpec {
	spec := descriptor.FieldSpec{
		Name:     fd.GetName(),
		Number:   fd.GetNumber(),
		Kind:     convertKind(fd.GetType()),
		JSONName: fd.GetJSONName(),
	}
	if mt := fd.GetMessageType(); mt != nil {
		spec.TypeName = mt.GetFullyQualifiedName()
	}
	if et := fd.GetEnumType(); et != nil {
		spec.TypeName = et.GetFullyQualifiedName()
	}
	if oo := fd.GetOneOf(); oo != nil {
		spec.OneofName = oo.GetName()
	}

	if fd.IsMap() {
		spec.IsMap = true
		keyField := fd.GetMapKeyType()
		valField := fd.GetMapValueType()
		spec.MapKeyKind = convertKind(keyField.GetType())
		spec.MapValueKind = convertKind(valField.GetType())
		if mt := valField.GetMessageType(); mt != nil {
			spec.MapValueTypeName = mt.GetFullyQualifiedName()
		}
		if et := valField.GetEnumType(); et != nil {
			spec.MapValueTypeName = et.GetFullyQualifiedName()
		}
	} else {
		spec.Repeated = fd.IsRepeated()
	}
	return spec
}

func convertEnum(ed *desc.EnumDescriptor) *descriptor.EnumBuilder {
	eb := descriptor.NewEnum(ed.GetName())
	for _, v := range ed.GetValues() {
		eb.AddValue(v.GetName(), v.GetNumber())
	}
	return eb
}

func convertService(sd *desc.ServiceDescriptor) *descriptor.ServiceBuilder {
	sb := descriptor.NewService(sd.GetName())
	for _, m := range sd.GetMethods() {
		sb.AddMethod(descriptor.MethodSpec{
			Name:            m.GetName(),
			InputType:       m.GetInputType().GetFullyQualifiedName(),
			OutputType:      m.GetOutputType().GetFullyQualifiedName(),
			ClientStreaming: m.IsClientStreaming(),
			ServerStreaming: m.IsServerStreaming(),
		})
	}
	return sb
}

func convertKind(t descriptorpb.FieldDescriptorProto_Type) descriptor.Kind {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return descriptor.KindDouble
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return descriptor.KindFloat
	case descriptorpb.FieldDescriptorProto_TYPE_INT64:
		return descriptor.KindInt64
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64:
		return descriptor.KindUint64
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		return descriptor.KindInt32
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return descriptor.KindFixed64
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return descriptor.KindFixed32
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return descriptor.KindBool
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return descriptor.KindString
	case descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return descriptor.KindGroup
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		return descriptor.KindMessage
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return descriptor.KindBytes
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		return descriptor.KindUint32
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return descriptor.KindEnum
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return descriptor.KindSfixed32
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return descriptor.KindSfixed64
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32:
		return descriptor.KindSint32
	case descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		return descriptor.KindSint64
	default:
		return descriptor.KindMessage
	}
}
