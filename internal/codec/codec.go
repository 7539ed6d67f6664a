// Package codec bridges this module's own descriptor/dynamic-message model
// to real protobuf wire bytes, via google.golang.org/protobuf's dynamic
// message support. It is the external codec Any packing defers serialization
// to, and the concrete implementation of the Codec interface internal/wkt
// is built against.
package codec

import (
	"fmt"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/factory"
	"github.com/datahopper/protoreflect/internal/obs"
	"github.com/datahopper/protoreflect/internal/pberr"
)

// ProtoCodec serializes dynamic messages to/from real protobuf wire bytes
// by compiling this module's own FileDescriptor trees into genuine
// protoreflect.FileDescriptor values and driving them through
// google.golang.org/protobuf/types/dynamicpb.
type ProtoCodec struct {
	resolver descriptor.Resolver

	mu       sync.Mutex
	files    *protoregistry.Files
	compiled map[string]protoreflect.FileDescriptor
}

// NewProtoCodec creates a codec that resolves cross-file message references
// through resolver (typically a *typeregistry.Registry).
func NewProtoCodec(resolver descriptor.Resolver) *ProtoCodec {
	return &ProtoCodec{
		resolver: resolver,
		files:    new(protoregistry.Files),
		compiled: make(map[string]protoreflect.FileDescriptor),
	}
}

// Serialize marshals msg to protobuf wire bytes.
func (c *ProtoCodec) Serialize(msg *dynamicmsg.Message) ([]byte, error) {
	md, err := c.compileMessage(msg.Descriptor())
	if err != nil {
		return nil, err
	}
	dyn := dynamicpb.NewMessage(md)
	if err := populateDynamicpb(dyn, msg); err != nil {
		return nil, err
	}
	data, err := proto.Marshal(dyn)
	if err != nil {
		return nil, pberr.ConversionFailed(msg.Descriptor().FullName(), "bytes", err.Error())
	}
	obs.OperationLogger("codec", "serialize", msg.Descriptor().FullName(), 0).Msg("serialized message")
	return data, nil
}

// Deserialize unmarshals data into a fresh dynamic message of desc's type.
func (c *ProtoCodec) Deserialize(data []byte, desc *descriptor.MessageDescriptor) (*dynamicmsg.Message, error) {
	md, err := c.compileMessage(desc)
	if err != nil {
		return nil, err
	}
	dyn := dynamicpb.NewMessage(md)
	if err := proto.Unmarshal(data, dyn); err != nil {
		return nil, pberr.ConversionFailed("bytes", desc.FullName(), err.Error())
	}
	out := factory.New(desc)
	if err := populateDynamicMessage(out, dyn, c.resolver); err != nil {
		return nil, err
	}
	obs.OperationLogger("codec", "deserialize", desc.FullName(), 0).Msg("deserialized message")
	return out, nil
}

// compileMessage compiles desc's owning file (and everything it transitively
// depends on) and returns the real protoreflect.MessageDescriptor matching desc.
func (c *ProtoCodec) compileMessage(desc *descriptor.MessageDescriptor) (protoreflect.MessageDescriptor, error) {
	if _, err := c.compileFile(desc.File()); err != nil {
		return nil, err
	}
	fullName := protoreflect.FullName(desc.FullName())
	d, err := c.files.FindDescriptorByName(fullName)
	if err != nil {
		return nil, pberr.UnknownDescriptor(desc.FullName())
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, pberr.UnknownDescriptor(desc.FullName())
	}
	return md, nil
}

func (c *ProtoCodec) compileFile(file *descriptor.FileDescriptor) (protoreflect.FileDescriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compileFileLocked(file, make(map[string]bool))
}

func (c *ProtoCodec) compileFileLocked(file *descriptor.FileDescriptor, inProgress map[string]bool) (protoreflect.FileDescriptor, error) {
	if fd, ok := c.compiled[file.Name()]; ok {
		return fd, nil
	}
	if inProgress[file.Name()] {
		return nil, pberr.InvalidData(file.Name(), "cyclic file dependency")
	}
	inProgress[file.Name()] = true

	depNames := collectDependencyFiles(file, c.resolver)
	for _, dep := range depNames {
		if _, err := c.compileFileLocked(dep, inProgress); err != nil {
			return nil, err
		}
	}

	fdProto := toFileDescriptorProto(file, c.resolver)
	fd, err := protodesc.NewFile(fdProto, c.files)
	if err != nil {
		return nil, pberr.InvalidData(file.Name(), fmt.Sprintf("failed to compile descriptor: %v", err))
	}
	if err := c.files.RegisterFile(fd); err != nil {
		return nil, pberr.InvalidData(file.Name(), fmt.Sprintf("failed to register compiled descriptor: %v", err))
	}
	c.compiled[file.Name()] = fd
	return fd, nil
}

// collectDependencyFiles finds every distinct FileDescriptor referenced by a
// message- or group-typed field (or a map field with message values) in file
// but not declared within file itself. Enum-typed fields are not followed,
// since enums compile to plain int32 fields.
func collectDependencyFiles(file *descriptor.FileDescriptor, resolver descriptor.Resolver) []*descriptor.FileDescriptor {
	seen := map[string]*descriptor.FileDescriptor{}
	var walk func(md *descriptor.MessageDescriptor)
	walk = func(md *descriptor.MessageDescriptor) {
		for _, f := range md.Fields() {
			if (f.Kind() == descriptor.KindMessage || f.Kind() == descriptor.KindGroup) && f.TypeName() != "" {
				if target, ok := resolver.FindMessage(f.TypeName()); ok && target.File().Name() != file.Name() {
					seen[target.File().Name()] = target.File()
				}
			}
			if f.IsMap() && f.MapValueKind() == descriptor.KindMessage && f.MapValueTypeName() != "" {
				if target, ok := resolver.FindMessage(f.MapValueTypeName()); ok && target.File().Name() != file.Name() {
					seen[target.File().Name()] = target.File()
				}
			}
		}
		for _, nm := range md.NestedMessages() {
			walk(nm)
		}
	}
	for _, m := range file.Messages() {
		walk(m)
	}
	out := make([]*descriptor.FileDescriptor, 0, len(seen))
	for _, f := range seen {
		out = append(out, f)
	}
	return out
}
