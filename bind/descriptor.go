package bind

import (
	"fmt"
	"reflect"
)

// FieldDescriptor describes one member of a reflective type. Get and Set
// take an addressable value of the descriptor's type.
type FieldDescriptor struct {
	Name  string
	Type  reflect.Type
	Get   func(obj reflect.Value) reflect.Value
	Set   func(obj, v reflect.Value)
	Const bool

	// Owner is the type that declares the field. It differs from the
	// descriptor's type for fields inherited from an embedded base.
	Owner reflect.Type
}

// TypeDescriptor is the flattened field list of a reflective type: base
// fields first, in embedding order, then the type's own fields.
type TypeDescriptor struct {
	Type   reflect.Type
	Fields []*FieldDescriptor

	init func(obj reflect.Value)
}

// New returns an addressable, default initialized value of d.Type.
func (d *TypeDescriptor) New() reflect.Value {
	v := reflect.New(d.Type).Elem()
	if d.init != nil {
		d.init(v)
	}
	return v
}

// Field returns the field named name.
func (d *TypeDescriptor) Field(name string) (*FieldDescriptor, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Defaulter is implemented by reflective types whose default instance is
// not the zero value. SetDefaults is called on a zeroed value.
type Defaulter interface {
	SetDefaults()
}

var defaulterType = reflect.TypeFor[Defaulter]()

// buildDescriptor derives the descriptor of a registered struct type.
// Descriptors of registered embedded bases are built first and memoized
// in descs.
func (r *Registry) buildDescriptor(t reflect.Type, descs map[reflect.Type]*TypeDescriptor) (*TypeDescriptor, error) {
	if d, ok := descs[t]; ok {
		return d, nil
	}
	e := r.entries[t]
	if e.manual != nil {
		d := e.manual
		d.init = e.defaults
		descs[t] = d
		return d, nil
	}
	d := &TypeDescriptor{Type: t}
	var inits []func(reflect.Value)
	contributed := map[reflect.Type]bool{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous {
			base, err := r.embeddedBase(t, sf)
			if err != nil {
				return nil, err
			}
			if base != nil {
				bd, err := r.buildDescriptor(base, descs)
				if err != nil {
					return nil, err
				}
				d.Fields = appendBase(d.Fields, bd, i, contributed)
				if bd.init != nil {
					inits = append(inits, func(obj reflect.Value) { bd.init(obj.Field(i)) })
				}
				continue
			}
			if sf.Type.Kind() == reflect.Struct {
				// non reflective bases contribute nothing
				continue
			}
		}
		ft, err := parseFieldTag(sf.Name, sf.Tag.Get(tagKey))
		if err != nil {
			return nil, &RegistrationError{Type: t, Message: fmt.Sprintf("field %s", sf.Name), Err: err}
		}
		if ft.Omit {
			continue
		}
		d.Fields = append(d.Fields, &FieldDescriptor{
			Name:  ft.Name,
			Type:  sf.Type,
			Get:   func(obj reflect.Value) reflect.Value { return obj.Field(i) },
			Set:   func(obj, v reflect.Value) { obj.Field(i).Set(v) },
			Const: ft.Const,
			Owner: t,
		})
	}
	if e.defaults != nil {
		inits = append(inits, e.defaults)
	}
	switch len(inits) {
	case 0:
	case 1:
		d.init = inits[0]
	default:
		d.init = func(obj reflect.Value) {
			for _, f := range inits {
				f(obj)
			}
		}
	}
	descs[t] = d
	return d, nil
}

// embeddedBase returns the registered struct type embedded by sf, or nil
// if sf does not embed one.
func (r *Registry) embeddedBase(t reflect.Type, sf reflect.StructField) (reflect.Type, error) {
	if tag := sf.Tag.Get(tagKey); tag == "-" {
		return nil, nil
	}
	ft := sf.Type
	if ft.Kind() == reflect.Pointer {
		if _, ok := r.entries[ft.Elem()]; ok {
			return nil, &RegistrationError{
				Type:    t,
				Message: fmt.Sprintf("embedded pointer %s cannot be a base; embed %s by value", ft, ft.Elem()),
			}
		}
		return nil, nil
	}
	if _, ok := r.entries[ft]; !ok || ft.Kind() != reflect.Struct {
		return nil, nil
	}
	return ft, nil
}

// appendBase appends the fields of a base descriptor embedded at index i,
// rebased onto the embedding type. Fields whose owner was already
// contributed by an earlier base are skipped.
func appendBase(fields []*FieldDescriptor, bd *TypeDescriptor, i int, contributed map[reflect.Type]bool) []*FieldDescriptor {
	owners := map[reflect.Type]bool{}
	for _, bf := range bd.Fields {
		if contributed[bf.Owner] {
			continue
		}
		owners[bf.Owner] = true
		fields = append(fields, &FieldDescriptor{
			Name:  bf.Name,
			Type:  bf.Type,
			Get:   func(obj reflect.Value) reflect.Value { return bf.Get(obj.Field(i)) },
			Set:   func(obj, v reflect.Value) { bf.Set(obj.Field(i), v) },
			Const: bf.Const,
			Owner: bf.Owner,
		})
	}
	for o := range owners {
		contributed[o] = true
	}
	return fields
}

// defaultsInit returns the initializer for t from an explicit defaults
// function or from t's Defaulter implementation.
func defaultsInit(t reflect.Type, explicit func(reflect.Value)) func(reflect.Value) {
	if explicit != nil {
		return explicit
	}
	if reflect.PointerTo(t).Implements(defaulterType) {
		return func(obj reflect.Value) {
			obj.Addr().Interface().(Defaulter).SetDefaults()
		}
	}
	return nil
}
