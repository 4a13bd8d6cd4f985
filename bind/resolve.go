package bind

import (
	"encoding"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/signadot/rjson/debug"
	"github.com/signadot/rjson/jtree"
)

// Kind tags the traversal strategy of a type.
type Kind int

const (
	Primitive Kind = iota + 1
	Text
	Enumeration
	Object
	Nullable
	Sequence
	Associative
	Custom
)

var kindNames = [...]string{
	Primitive:   "primitive",
	Text:        "text",
	Enumeration: "enumeration",
	Object:      "object",
	Nullable:    "nullable",
	Sequence:    "sequence",
	Associative: "associative",
	Custom:      "custom",
}

func (k Kind) String() string {
	if k <= 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Strategy says how values of Type are walked. Elem is the strategy of
// the pointee, the elements or the map values; Key that of map keys.
// Fields parallels Desc.Fields for objects.
type Strategy struct {
	Kind   Kind
	Type   reflect.Type
	Elem   *Strategy
	Key    *Strategy
	Desc   *TypeDescriptor
	Fields []*Strategy

	to   func(reflect.Value) (*jtree.Node, error)
	from func(*jtree.Node) (reflect.Value, error)
}

// Marshaler is implemented by types that render themselves as a tree.
type Marshaler interface {
	MarshalTree() (*jtree.Node, error)
}

// Unmarshaler is implemented by pointers to types that bind themselves
// from a tree.
type Unmarshaler interface {
	UnmarshalTree(*jtree.Node) error
}

var (
	marshalerType       = reflect.TypeFor[Marshaler]()
	unmarshalerType     = reflect.TypeFor[Unmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

type resolver struct {
	r     *Registry
	cache map[reflect.Type]*Strategy
	log   *slog.Logger
}

func newResolver(r *Registry) *resolver {
	return &resolver{r: r, cache: map[reflect.Type]*Strategy{}, log: r.log}
}

func (rs *resolver) lookup(t reflect.Type) (*Strategy, bool) {
	if s, ok := rs.r.strategies[t]; ok {
		return s, true
	}
	if s, ok := rs.r.derived.Load(t); ok {
		return s.(*Strategy), true
	}
	s, ok := rs.cache[t]
	return s, ok
}

// resolve returns the strategy for t, caching it before descending so
// that types referring to themselves through pointers, slices or maps
// resolve to the same strategy. where names the field through which t was
// reached, for error reporting.
func (rs *resolver) resolve(t reflect.Type, where string) (*Strategy, error) {
	if s, ok := rs.lookup(t); ok {
		return s, nil
	}
	s := &Strategy{Type: t}
	rs.cache[t] = s
	if err := rs.fill(s, where); err != nil {
		delete(rs.cache, t)
		return nil, err
	}
	if rs.log != nil {
		rs.log.Debug("resolved strategy", "type", t.String(), "kind", s.Kind.String())
	}
	if debug.Resolve() {
		debug.Logf("resolve %s -> %s\n", t, s.Kind)
	}
	return s, nil
}

func (rs *resolver) fill(s *Strategy, where string) error {
	t := s.Type
	if o, ok := rs.r.overrides[t]; ok {
		s.Kind = Custom
		s.to, s.from = o.to, o.from
		return nil
	}
	if methodCustom(s) {
		return nil
	}
	var err error
	switch t.Kind() {
	case reflect.Bool, reflect.Float32, reflect.Float64:
		s.Kind = Primitive
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s.Kind = Primitive
		if t.PkgPath() != "" {
			s.Kind = Enumeration
		}
		return nil
	case reflect.String:
		s.Kind = Text
		return nil
	case reflect.Pointer:
		s.Kind = Nullable
		s.Elem, err = rs.resolve(t.Elem(), where)
		return err
	case reflect.Slice, reflect.Array:
		s.Kind = Sequence
		s.Elem, err = rs.resolve(t.Elem(), where)
		return err
	case reflect.Map:
		s.Kind = Associative
		s.Key = keyStrategy(t.Key())
		if s.Key == nil {
			return &UnsupportedTypeError{Type: t.Key(), Where: where}
		}
		s.Elem, err = rs.resolve(t.Elem(), where)
		return err
	case reflect.Struct:
		d, ok := rs.r.descs[t]
		if !ok {
			break
		}
		s.Kind = Object
		s.Desc = d
		s.Fields = make([]*Strategy, len(d.Fields))
		for i, f := range d.Fields {
			s.Fields[i], err = rs.resolve(f.Type, t.String()+"."+f.Name)
			if err != nil {
				return err
			}
		}
		return nil
	}
	return &UnsupportedTypeError{Type: t, Where: where}
}

// methodCustom gives s a custom strategy if its type binds itself through
// Marshaler/Unmarshaler or through encoding.TextMarshaler and
// encoding.TextUnmarshaler. Pointer types are left to the nullable
// strategy so that nil is handled before any method is called.
func methodCustom(s *Strategy) bool {
	t := s.Type
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	pt := reflect.PointerTo(t)
	switch {
	case pt.Implements(marshalerType) && pt.Implements(unmarshalerType):
		s.Kind = Custom
		s.to = func(v reflect.Value) (*jtree.Node, error) {
			return receiver(v).Interface().(Marshaler).MarshalTree()
		}
		s.from = func(n *jtree.Node) (reflect.Value, error) {
			p := reflect.New(t)
			if err := p.Interface().(Unmarshaler).UnmarshalTree(n); err != nil {
				return reflect.Value{}, err
			}
			return p.Elem(), nil
		}
		return true
	case pt.Implements(textMarshalerType) && pt.Implements(textUnmarshalerType):
		s.Kind = Custom
		s.to = func(v reflect.Value) (*jtree.Node, error) {
			text, err := receiver(v).Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return nil, err
			}
			return jtree.FromString(string(text)), nil
		}
		s.from = func(n *jtree.Node) (reflect.Value, error) {
			if n.Type != jtree.StringType {
				return reflect.Value{}, &DeserializationError{
					Kind:     TypeMismatch,
					Expected: jtree.StringType.String(),
					Actual:   n.Type.String(),
				}
			}
			p := reflect.New(t)
			if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(n.String)); err != nil {
				return reflect.Value{}, err
			}
			return p.Elem(), nil
		}
		return true
	}
	return false
}

// receiver returns a pointer to v, copying v if it is not addressable,
// so that both value and pointer methods can be called.
func receiver(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}

// keyStrategy returns the strategy used to render map keys of type t as
// member names, or nil if t cannot be a key. String kinds are used as is,
// integer kinds in decimal and other types through their text methods.
func keyStrategy(t reflect.Type) *Strategy {
	s := &Strategy{Type: t}
	switch t.Kind() {
	case reflect.String:
		s.Kind = Text
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s.Kind = Primitive
		if t.PkgPath() != "" {
			s.Kind = Enumeration
		}
	default:
		pt := reflect.PointerTo(t)
		if t.Kind() == reflect.Pointer || !pt.Implements(textMarshalerType) || !pt.Implements(textUnmarshalerType) {
			return nil
		}
		s.Kind = Custom
	}
	return s
}

// keyString renders the map key k as a member name.
func (s *Strategy) keyString(k reflect.Value) (string, error) {
	switch s.Kind {
	case Text:
		return k.String(), nil
	case Custom:
		text, err := receiver(k).Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	}
	if k.CanInt() {
		return strconv.FormatInt(k.Int(), 10), nil
	}
	return strconv.FormatUint(k.Uint(), 10), nil
}

// parseKey parses a member name back into a map key.
func (s *Strategy) parseKey(name string) (reflect.Value, error) {
	k := reflect.New(s.Type).Elem()
	switch s.Kind {
	case Text:
		k.SetString(name)
	case Custom:
		if err := k.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(name)); err != nil {
			return reflect.Value{}, err
		}
	default:
		if k.CanInt() {
			i, err := strconv.ParseInt(name, 10, s.Type.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			k.SetInt(i)
			break
		}
		u, err := strconv.ParseUint(name, 10, s.Type.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		k.SetUint(u)
	}
	return k, nil
}
