// Package wktregistry implements the process-wide well-known-types registry:
// a name-routed dispatcher over the seven internal/wkt handlers.
package wktregistry

import (
	"sync"

	"github.com/datahopper/protoreflect/internal/dynamicmsg"
	"github.com/datahopper/protoreflect/internal/pberr"
	"github.com/datahopper/protoreflect/internal/wkt"
)

// Registry maps a well-known type's fully qualified name to the Handler
// that speaks for it. The zero value is usable and starts empty; use New
// for a registry pre-seeded with the seven default handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]wkt.Handler
}

// New creates a registry with all seven well-known-type handlers
// (Timestamp, Duration, Empty, FieldMask, Struct, Value, Any) installed.
func New() *Registry {
	r := &Registry{handlers: make(map[string]wkt.Handler)}
	for _, h := range defaultHandlers() {
		r.Register(h)
	}
	return r
}

func defaultHandlers() []wkt.Handler {
	return []wkt.Handler{
		wkt.TimestampHandler,
		wkt.DurationHandler,
		wkt.EmptyHandler,
		wkt.FieldMaskHandler,
		wkt.StructHandler,
		wkt.ValueHandler,
		wkt.AnyHandler,
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry, created lazily with the seven
// default handlers on first use. Tests that need isolation should construct
// their own Registry with New instead of calling Clear on this one, since
// Clear races with any other package reading through Default.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New()
	})
	return defaultReg
}

// Register installs handler under its HandledTypeName, idempotently: a
// later registration for the same FQN replaces an earlier one.
func (r *Registry) Register(handler wkt.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[string]wkt.Handler)
	}
	r.handlers[handler.HandledTypeName()] = handler
}

// GetHandler returns the handler registered for fqn, if any.
func (r *Registry) GetHandler(fqn string) (wkt.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[fqn]
	return h, ok
}

// CreateSpecialized routes to fqn's handler's CreateSpecialized. Fails with
// pberr.HandlerNotFound if no handler is registered for fqn.
func (r *Registry) CreateSpecialized(msg *dynamicmsg.Message, fqn string) (interface{}, error) {
	h, ok := r.GetHandler(fqn)
	if !ok {
		return nil, pberr.HandlerNotFound(fqn)
	}
	return h.CreateSpecialized(msg)
}

// CreateDynamic routes to fqn's handler's CreateDynamic. Fails with
// pberr.HandlerNotFound if no handler is registered for fqn.
func (r *Registry) CreateDynamic(s interface{}, fqn string) (*dynamicmsg.Message, error) {
	h, ok := r.GetHandler(fqn)
	if !ok {
		return nil, pberr.HandlerNotFound(fqn)
	}
	return h.CreateDynamic(s)
}

// Clear removes every registered handler. It exists for test isolation
// only; production callers should not need it.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = make(map[string]wkt.Handler)
}
