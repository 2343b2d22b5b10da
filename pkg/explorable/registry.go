package explorable

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Registry caches one Schema per concrete struct type. Each type is resolved at
// most once, on first use, and the result is shared by every instance.
type Registry struct {
	mu      sync.Mutex
	entries map[reflect.Type]*registryEntry
}

type registryEntry struct {
	once     sync.Once
	resolved bool
	decl     declaration
	schema   *Schema
	err      error
}

func NewRegistry() *Registry {
	return &Registry{
		entries: map[reflect.Type]*registryEntry{},
	}
}

var defaultRegistry = NewRegistry()

// Default returns the registry used by the package level functions.
func Default() *Registry {
	return defaultRegistry
}

func structType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func (r *Registry) entryLocked(t reflect.Type) *registryEntry {
	e, ok := r.entries[t]
	if !ok {
		e = &registryEntry{}
		r.entries[t] = e
	}
	return e
}

// Register adds declarations for a type. It must be called before the type is
// first used, registering an already resolved type fails with ErrAlreadyResolved.
func (r *Registry) Register(t reflect.Type, options ...OptionFunc) error {
	t = structType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("cannot register %v: %w", t, ErrNotExplorable)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entryLocked(t)
	if e.resolved {
		return fmt.Errorf("cannot register %s: %w", t, ErrAlreadyResolved)
	}

	for _, option := range options {
		option(&e.decl)
	}

	return nil
}

// Schema returns the exposed-name-set for t, resolving it on first use.
func (r *Registry) Schema(t reflect.Type) (*Schema, error) {
	t = structType(t)
	if t == nil {
		return nil, fmt.Errorf("nil type: %w", ErrNotExplorable)
	}

	r.mu.Lock()
	e := r.entryLocked(t)
	r.mu.Unlock()

	e.once.Do(func() {
		r.mu.Lock()
		e.resolved = true
		decl := e.decl
		r.mu.Unlock()

		e.schema, e.err = resolve(t, decl)
	})

	return e.schema, e.err
}

// Count returns the number of successfully resolved types.
func (r *Registry) Count() int {
	return len(r.Entries())
}

// Entries returns the resolved schemas ordered by type name.
func (r *Registry) Entries() []*Schema {
	r.mu.Lock()
	defer r.mu.Unlock()

	schemas := []*Schema{}
	for _, e := range r.entries {
		if e.resolved && e.schema != nil {
			schemas = append(schemas, e.schema)
		}
	}

	slices.SortFunc(schemas, func(a, b *Schema) int {
		return strings.Compare(a.TypeName(), b.TypeName())
	})

	return schemas
}

// Of returns the exposed property view of entity, which must be a non nil
// pointer to a struct.
func (r *Registry) Of(entity any) (*View, error) {
	rv := reflect.ValueOf(entity)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%T is not a pointer to a struct: %w", entity, ErrNotExplorable)
	}

	schema, err := r.Schema(rv.Type())
	if err != nil {
		return nil, err
	}

	return &View{
		entity: entity,
		elem:   rv.Elem(),
		schema: schema,
	}, nil
}

// Register adds declarations for T to the default registry.
func Register[T any](options ...OptionFunc) error {
	return defaultRegistry.Register(reflect.TypeFor[T](), options...)
}

// SchemaOf returns the exposed-name-set of T from the default registry.
func SchemaOf[T any]() (*Schema, error) {
	return defaultRegistry.Schema(reflect.TypeFor[T]())
}

// Of returns the exposed property view of entity using the default registry.
func Of(entity any) (*View, error) {
	return defaultRegistry.Of(entity)
}

// MustOf is like Of but panics if entity cannot be explored. It is meant for
// constructors of types that are known to be explorable.
func MustOf(entity any) *View {
	v, err := Of(entity)
	if err != nil {
		panic(err)
	}
	return v
}
