package bind

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/signadot/rjson/jtree"
)

// Default is the registry used by the package level entry points.
var Default = NewRegistry()

type entry struct {
	typ      reflect.Type
	manual   *TypeDescriptor
	defaults func(reflect.Value)
}

type override struct {
	to   func(reflect.Value) (*jtree.Node, error)
	from func(*jtree.Node) (reflect.Value, error)
}

// Registry holds the reflective types and custom overrides known to an
// Engine. Types are registered during initialization; Freeze then builds
// every descriptor and strategy, after which the registry is read only
// and safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	frozen    atomic.Bool
	log       *slog.Logger
	entries   map[reflect.Type]*entry
	order     []reflect.Type
	overrides map[reflect.Type]*override
	oorder    []reflect.Type

	// set by Freeze
	descs      map[reflect.Type]*TypeDescriptor
	strategies map[reflect.Type]*Strategy
	// strategies of composite types first seen after Freeze
	derived sync.Map
}

func NewRegistry(opts ...Option) *Registry {
	cfg := newConfig(opts...)
	return &Registry{
		log:       cfg.log,
		entries:   map[reflect.Type]*entry{},
		overrides: map[reflect.Type]*override{},
	}
}

type RegisterOption func(*registerConfig)

type registerConfig struct {
	defaults     func(reflect.Value)
	defaultsType reflect.Type
}

// WithDefaults sets the function applied to a zeroed T to produce its
// default instance. It takes precedence over a Defaulter implementation.
func WithDefaults[T any](f func(*T)) RegisterOption {
	return func(c *registerConfig) {
		c.defaultsType = reflect.TypeFor[T]()
		c.defaults = func(obj reflect.Value) {
			f(obj.Addr().Interface().(*T))
		}
	}
}

// Register makes the struct type T reflective. Its descriptor is derived
// from its exported fields and rjson struct tags when the registry is
// frozen.
func Register[T any](r *Registry, opts ...RegisterOption) error {
	return r.RegisterType(reflect.TypeFor[T](), opts...)
}

// MustRegister is like Register but panics on error. It is intended for
// package initialization.
func MustRegister[T any](r *Registry, opts ...RegisterOption) {
	if err := Register[T](r, opts...); err != nil {
		panic(err)
	}
}

// RegisterType is the reflect.Type form of Register.
func (r *Registry) RegisterType(t reflect.Type, opts ...RegisterOption) error {
	if t == nil || t.Kind() != reflect.Struct {
		return &RegistrationError{Type: t, Message: "only struct types can be reflective"}
	}
	cfg, err := registerOptions(t, opts)
	if err != nil {
		return err
	}
	return r.add(&entry{typ: t, defaults: defaultsInit(t, cfg.defaults)})
}

func registerOptions(t reflect.Type, opts []RegisterOption) (*registerConfig, error) {
	cfg := &registerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.defaultsType != nil && cfg.defaultsType != t {
		return nil, &RegistrationError{
			Type:    t,
			Message: fmt.Sprintf("defaults are for %s", cfg.defaultsType),
		}
	}
	return cfg, nil
}

func (r *Registry) add(e *entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return &RegistrationError{Type: e.typ, Message: "registry is frozen", Err: ErrFrozen}
	}
	if err := r.checkNew(e.typ); err != nil {
		return err
	}
	r.entries[e.typ] = e
	r.order = append(r.order, e.typ)
	return nil
}

func (r *Registry) checkNew(t reflect.Type) error {
	if _, ok := r.entries[t]; ok {
		return &RegistrationError{Type: t, Message: "already registered"}
	}
	if _, ok := r.overrides[t]; ok {
		return &RegistrationError{Type: t, Message: "already registered as an override"}
	}
	return nil
}

// RegisterOverride replaces structural traversal of T with to and from.
// Errors returned by to are passed through unchanged; errors returned by
// from are reported with the path of the offending node.
func RegisterOverride[T any](r *Registry, to func(T) (*jtree.Node, error), from func(*jtree.Node) (T, error)) error {
	t := reflect.TypeFor[T]()
	if to == nil || from == nil {
		return &RegistrationError{Type: t, Message: "override needs both directions"}
	}
	o := &override{
		to: func(v reflect.Value) (*jtree.Node, error) {
			return to(valueAs[T](v))
		},
		from: func(n *jtree.Node) (reflect.Value, error) {
			x, err := from(n)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&x).Elem(), nil
		},
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return &RegistrationError{Type: t, Message: "registry is frozen", Err: ErrFrozen}
	}
	if err := r.checkNew(t); err != nil {
		return err
	}
	r.overrides[t] = o
	r.oorder = append(r.oorder, t)
	return nil
}

// valueAs returns v as a T without losing nil interface values.
func valueAs[T any](v reflect.Value) T {
	var x T
	reflect.ValueOf(&x).Elem().Set(v)
	return x
}

// Frozen reports whether Freeze has succeeded.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// Freeze builds the descriptor of every registered type and resolves the
// strategy of every registered type and of every type reachable from
// their fields. An unsupported type anywhere in that closure fails the
// freeze and leaves the registry open. Freezing a frozen registry is a
// no-op.
func (r *Registry) Freeze() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return nil
	}
	descs := make(map[reflect.Type]*TypeDescriptor, len(r.order))
	for _, t := range r.order {
		if _, err := r.buildDescriptor(t, descs); err != nil {
			return err
		}
	}
	r.descs = descs
	rs := newResolver(r)
	for _, t := range r.oorder {
		if _, err := rs.resolve(t, ""); err != nil {
			r.descs = nil
			return err
		}
	}
	for _, t := range r.order {
		if _, err := rs.resolve(t, ""); err != nil {
			r.descs = nil
			return err
		}
	}
	r.strategies = rs.cache
	r.frozen.Store(true)
	if r.log != nil {
		r.log.Debug("registry frozen", "types", len(r.order), "overrides", len(r.oorder), "strategies", len(r.strategies))
	}
	return nil
}

// Descriptor returns the descriptor of a reflective type in a frozen
// registry.
func (r *Registry) Descriptor(t reflect.Type) (*TypeDescriptor, bool) {
	if !r.frozen.Load() {
		return nil, false
	}
	d, ok := r.descs[t]
	return d, ok
}

// Resolve returns the strategy for t. The registry must be frozen.
// Composite types built only from known types (a slice of a registered
// struct, say) are resolved on first use and cached; no new descriptors
// are ever built after Freeze.
func (r *Registry) Resolve(t reflect.Type) (*Strategy, error) {
	if !r.frozen.Load() {
		return nil, ErrNotFrozen
	}
	if s, ok := r.strategies[t]; ok {
		return s, nil
	}
	if s, ok := r.derived.Load(t); ok {
		return s.(*Strategy), nil
	}
	rs := newResolver(r)
	s, err := rs.resolve(t, "")
	if err != nil {
		return nil, err
	}
	for k, v := range rs.cache {
		r.derived.LoadOrStore(k, v)
	}
	return s, nil
}
