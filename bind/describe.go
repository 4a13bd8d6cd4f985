package bind

import (
	"fmt"
	"reflect"
)

// Builder collects a manually written descriptor for T. The field list is
// taken as already flattened: it is used as is, in order, and embedded
// types are not inspected.
//
//	err := bind.Describe[Account](reg).
//		Field(bind.Accessor("id", (*Account).ID, (*Account).SetID)).
//		ConstField(bind.ConstAccessor("created", (*Account).Created)).
//		Done()
type Builder[T any] struct {
	r      *Registry
	fields []*FieldDescriptor
	opts   []RegisterOption
	err    error
}

func Describe[T any](r *Registry) *Builder[T] {
	return &Builder[T]{r: r}
}

// Field appends fields built by Accessor or ConstAccessor for T.
func (b *Builder[T]) Field(fds ...*FieldDescriptor) *Builder[T] {
	t := reflect.TypeFor[T]()
	for _, fd := range fds {
		if fd == nil || fd.Owner != t {
			b.fail(fd, t)
			continue
		}
		b.fields = append(b.fields, fd)
	}
	return b
}

// ConstField appends fields that are serialized but never set.
func (b *Builder[T]) ConstField(fds ...*FieldDescriptor) *Builder[T] {
	for _, fd := range fds {
		if fd != nil {
			fd.Const = true
		}
	}
	return b.Field(fds...)
}

func (b *Builder[T]) fail(fd *FieldDescriptor, t reflect.Type) {
	if b.err != nil {
		return
	}
	if fd == nil {
		b.err = &RegistrationError{Type: t, Message: "nil field"}
		return
	}
	b.err = &RegistrationError{Type: t, Message: fmt.Sprintf("field %q accesses %s", fd.Name, fd.Owner)}
}

// Defaults sets the default instance of T, as WithDefaults does.
func (b *Builder[T]) Defaults(f func(*T)) *Builder[T] {
	b.opts = append(b.opts, WithDefaults(f))
	return b
}

// Done registers the descriptor.
func (b *Builder[T]) Done() error {
	t := reflect.TypeFor[T]()
	if b.err != nil {
		return b.err
	}
	if t.Kind() != reflect.Struct {
		return &RegistrationError{Type: t, Message: "only struct types can be reflective"}
	}
	seen := map[string]bool{}
	for _, f := range b.fields {
		if seen[f.Name] {
			return &RegistrationError{Type: t, Message: fmt.Sprintf("duplicate field %q", f.Name)}
		}
		seen[f.Name] = true
	}
	cfg, err := registerOptions(t, b.opts)
	if err != nil {
		return err
	}
	return b.r.add(&entry{
		typ:      t,
		manual:   &TypeDescriptor{Type: t, Fields: b.fields},
		defaults: defaultsInit(t, cfg.defaults),
	})
}

// Accessor returns a field of T named name that is read with get and
// written with set. Method expressions such as (*T).Name work well here,
// and give access to unexported state.
func Accessor[T, F any](name string, get func(*T) F, set func(*T, F)) *FieldDescriptor {
	fd := ConstAccessor(name, get)
	fd.Const = false
	fd.Set = func(obj, v reflect.Value) {
		set(obj.Addr().Interface().(*T), valueAs[F](v))
	}
	return fd
}

// ConstAccessor returns a read only field of T.
func ConstAccessor[T, F any](name string, get func(*T) F) *FieldDescriptor {
	return &FieldDescriptor{
		Name: name,
		Type: reflect.TypeFor[F](),
		Get: func(obj reflect.Value) reflect.Value {
			x := get(obj.Addr().Interface().(*T))
			return reflect.ValueOf(&x).Elem()
		},
		Const: true,
		Owner: reflect.TypeFor[T](),
	}
}
