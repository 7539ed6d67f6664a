// Package typeregistry resolves fully qualified names to descriptors for
// messages, enums, and services. It is built from files registered by a caller
// (the descriptor construction side of this module never imports it, to
// avoid forming a cycle); lookups are the common case and take a shared read
// lock, so concurrent readers never block each other, while RegisterFile
// takes an exclusive write lock.
package typeregistry

import (
	"sync"

	"github.com/datahopper/protoreflect/internal/descriptor"
	"github.com/datahopper/protoreflect/internal/pberr"
)

// Registry maps fully qualified names to descriptors. The zero value is not
// usable; construct with New.
type Registry struct {
	mu       sync.RWMutex
	files    map[string]*descriptor.FileDescriptor
	messages map[string]*descriptor.MessageDescriptor
	enums    map[string]*descriptor.EnumDescriptor
	services map[string]*descriptor.ServiceDescriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		files:    make(map[string]*descriptor.FileDescriptor),
		messages: make(map[string]*descriptor.MessageDescriptor),
		enums:    make(map[string]*descriptor.EnumDescriptor),
		services: make(map[string]*descriptor.ServiceDescriptor),
	}
}

// RegisterFile adds file and every message, enum, and service it declares
// (including nested ones) under their fully qualified names. It fails with
// pberr.DuplicateName if any FQN — or the file's own path — collides with an
// already-registered entry; registration of that file is then rejected in
// full (no partial registration).
func (r *Registry) RegisterFile(file *descriptor.FileDescriptor) error {
	msgs := make(map[string]*descriptor.MessageDescriptor)
	enums := make(map[string]*descriptor.EnumDescriptor)
	for _, m := range file.Messages() {
		collectMessages(m, msgs, enums)
	}
	for _, e := range file.Enums() {
		enums[e.FullName()] = e
	}
	services := make(map[string]*descriptor.ServiceDescriptor)
	for _, s := range file.Services() {
		services[qualify(file.Package(), s.Name())] = s
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.files[file.Name()]; dup {
		return pberr.DuplicateName(file.Name())
	}
	for fqn := range msgs {
		if _, dup := r.messages[fqn]; dup {
			return pberr.DuplicateName(fqn)
		}
	}
	for fqn := range enums {
		if _, dup := r.enums[fqn]; dup {
			return pberr.DuplicateName(fqn)
		}
	}
	for fqn := range services {
		if _, dup := r.services[fqn]; dup {
			return pberr.DuplicateName(fqn)
		}
	}

	r.files[file.Name()] = file
	for fqn, m := range msgs {
		r.messages[fqn] = m
	}
	for fqn, e := range enums {
		r.enums[fqn] = e
	}
	for fqn, s := range services {
		r.services[fqn] = s
	}
	return nil
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func collectMessages(m *descriptor.MessageDescriptor, msgs map[string]*descriptor.MessageDescriptor, enums map[string]*descriptor.EnumDescriptor) {
	msgs[m.FullName()] = m
	for _, nm := range m.NestedMessages() {
		collectMessages(nm, msgs, enums)
	}
	for _, ne := range m.NestedEnums() {
		enums[ne.FullName()] = ne
	}
}

// FindMessage resolves fqn to a message descriptor.
func (r *Registry) FindMessage(fqn string) (*descriptor.MessageDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messages[fqn]
	return m, ok
}

// FindEnum resolves fqn to an enum descriptor.
func (r *Registry) FindEnum(fqn string) (*descriptor.EnumDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.enums[fqn]
	return e, ok
}

// FindService resolves fqn to a service descriptor.
func (r *Registry) FindService(fqn string) (*descriptor.ServiceDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.services[fqn]
	return s, ok
}

// FindFile resolves a file by its path/name.
func (r *Registry) FindFile(name string) (*descriptor.FileDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[name]
	return f, ok
}

// RegisteredTypes returns every registered message, enum, and service FQN,
// for diagnostics.
func (r *Registry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.messages)+len(r.enums)+len(r.services))
	for fqn := range r.messages {
		out = append(out, fqn)
	}
	for fqn := range r.enums {
		out = append(out, fqn)
	}
	for fqn := range r.services {
		out = append(out, fqn)
	}
	return out
}
