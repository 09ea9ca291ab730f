package sqlrow

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"sync"
)

// ErasedCodec is a Codec with its type parameter removed, for code that only
// knows a column's Go type at run time.
type ErasedCodec struct {
	Type     reflect.Type
	Affinity Affinity

	bind    func(any) (driver.Value, error)
	extract func(any) (any, error)
}

// Erase drops the type parameter of c.
func Erase[T any](c Codec[T]) ErasedCodec {
	return ErasedCodec{
		Type:     reflect.TypeFor[T](),
		Affinity: c.Affinity,
		bind: func(v any) (driver.Value, error) {
			t, ok := v.(T)
			if !ok {
				return nil, fmt.Errorf("codec for %s got %T", reflect.TypeFor[T](), v)
			}
			return c.Bind(t)
		},
		extract: func(src any) (any, error) { return c.Extract(src) },
	}
}

// Bind converts v, which must have type e.Type, to its stored value.
func (e ErasedCodec) Bind(v any) (driver.Value, error) { return e.bind(v) }

// Extract converts a stored value to a value of type e.Type.
func (e ErasedCodec) Extract(src any) (any, error) { return e.extract(src) }

// Registry maps Go types to codecs. The zero value is empty; NewRegistry
// returns one holding the standard codecs. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[reflect.Type]ErasedCodec
}

// NewRegistry returns a registry pre-populated with the standard codecs.
func NewRegistry() *Registry {
	r := &Registry{}
	registerStandard(r)
	return r
}

// Register adds or replaces the codec for T.
func Register[T any](r *Registry, c Codec[T]) {
	r.put(Erase(c))
}

func (r *Registry) put(e ErasedCodec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.codecs == nil {
		r.codecs = make(map[reflect.Type]ErasedCodec)
	}
	r.codecs[e.Type] = e
}

// Lookup returns the codec registered for t.
func (r *Registry) Lookup(t reflect.Type) (ErasedCodec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.codecs[t]
	return e, ok
}

// Affinity returns the stored affinity of t, or AffinityAny when t has no
// registered codec.
func (r *Registry) Affinity(t reflect.Type) Affinity {
	if e, ok := r.Lookup(t); ok {
		return e.Affinity
	}

	return AffinityAny
}

var defaultRegistry = NewRegistry()

// DefaultRegistry is the process-wide registry of standard codecs. Col reads
// it for codecs built without an affinity.
func DefaultRegistry() *Registry { return defaultRegistry }

func registerStandard(r *Registry) {
	Register(r, Text)
	Register(r, Int64)
	Register(r, Int)
	Register(r, Int32)
	Register(r, Int16)
	Register(r, Int8)
	Register(r, Uint)
	Register(r, Uint64)
	Register(r, Uint32)
	Register(r, Uint16)
	Register(r, Uint8)
	Register(r, Float64)
	Register(r, Float32)
	Register(r, Bool)
	Register(r, Blob)
	Register(r, Time)

	Register(r, Nullable(Text))
	Register(r, Nullable(Int64))
	Register(r, Nullable(Int))
	Register(r, Nullable(Float64))
	Register(r, Nullable(Bool))
	Register(r, Nullable(Time))

	Register[sql.NullString](r, NullString)
	Register[sql.NullInt64](r, NullInt64)
	Register[sql.NullInt32](r, NullInt32)
	Register[sql.NullFloat64](r, NullFloat64)
	Register[sql.NullBool](r, NullBool)
	Register[sql.NullTime](r, NullTime)
}
