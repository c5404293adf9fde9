package mongodb

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process wide registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Registry maps discriminator values to the concrete model types they decode into
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]reflect.Type),
	}
}

// TypeNameOf returns the discriminator a prototype registers under: the name
// of the struct its pointer points to.
func TypeNameOf(prototype Model) string {
	t, err := structType(prototype)
	if err != nil {
		return ""
	}
	return t.Name()
}

// Register adds each prototype under its type name and returns how many were new.
// Registering the same type twice is a no-op; reusing a name for a different
// type fails and leaves the registry untouched.
func (r *Registry) Register(prototypes ...Model) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make(map[string]reflect.Type, len(prototypes))
	for _, proto := range prototypes {
		t, err := structType(proto)
		if err != nil {
			return 0, err
		}

		name := t.Name()
		existing, ok := r.types[name]
		if !ok {
			existing, ok = pending[name]
		}
		if ok {
			if existing != t {
				return 0, errors.Wrapf(ErrTypeConflict, "%s: %s vs %s", name, existing, t)
			}
			continue
		}
		pending[name] = t
	}

	for name, t := range pending {
		r.types[name] = t
	}
	return len(pending), nil
}

// IsRegistered reports whether name has a registered model
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.types[name]
	return ok
}

// Names returns the registered type names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs an empty model of the named type with its discriminator set
func (r *Registry) New(name string) (Model, error) {
	r.mu.RLock()
	t, ok := r.types[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Wrap(ErrUnknownType, name)
	}

	m := reflect.New(t).Interface().(Model)
	m.setType(name)
	return m, nil
}

func structType(prototype Model) (reflect.Type, error) {
	if prototype == nil {
		return nil, errors.Wrap(ErrInvalidModel, "nil prototype")
	}

	t := reflect.TypeOf(prototype)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrInvalidModel, "expected pointer to struct, got %s", t)
	}
	return t.Elem(), nil
}
