package bind

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/signadot/rjson/jtree"
)

// encoder walks a value along its strategy. visited holds the pointers on
// the current path, so a pointer shared between branches is fine but one
// that leads back to an ancestor is a cycle.
type encoder struct {
	path    pathStack
	visited map[visit]Path
}

// visit identifies a pointer, map or slice by address and type, as a
// struct and its first field share an address. Slices also need their
// length, as a slice and its prefix share an address.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

func newEncoder() *encoder {
	return &encoder{visited: map[visit]Path{}}
}

func (en *encoder) encode(v reflect.Value, s *Strategy) (*jtree.Node, error) {
	switch s.Kind {
	case Primitive:
		return en.encodePrimitive(v)
	case Text:
		return jtree.FromString(v.String()), nil
	case Enumeration:
		if v.CanInt() {
			return jtree.FromInt(v.Int()), nil
		}
		return jtree.FromUint(v.Uint()), nil
	case Nullable:
		return en.encodePointer(v, s)
	case Sequence:
		return en.encodeSequence(v, s)
	case Associative:
		return en.encodeMap(v, s)
	case Object:
		return en.encodeObject(v, s)
	case Custom:
		n, err := s.to(v)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return jtree.Null(), nil
		}
		if n.Type == jtree.NumberType && !jtree.ValidNumber(n.Number) {
			return nil, &SerializationError{
				Path:    en.path.snapshot(),
				Message: fmt.Sprintf("%q is not a JSON number", n.Number),
			}
		}
		return n, nil
	}
	return nil, &SerializationError{
		Path:    en.path.snapshot(),
		Message: fmt.Sprintf("no strategy for %s", s.Type),
	}
}

func (en *encoder) encodePrimitive(v reflect.Value) (*jtree.Node, error) {
	switch v.Kind() {
	case reflect.Bool:
		return jtree.FromBool(v.Bool()), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &SerializationError{
				Path:    en.path.snapshot(),
				Message: fmt.Sprintf("%v has no JSON representation", f),
			}
		}
		return jtree.FromNumber(strconv.FormatFloat(f, 'g', -1, v.Type().Bits())), nil
	}
	if v.CanInt() {
		return jtree.FromInt(v.Int()), nil
	}
	return jtree.FromUint(v.Uint()), nil
}

func (en *encoder) encodePointer(v reflect.Value, s *Strategy) (*jtree.Node, error) {
	if v.IsNil() {
		return jtree.Null(), nil
	}
	ref, err := en.enter(v)
	if err != nil {
		return nil, err
	}
	defer en.leave(ref)
	return en.encode(v.Elem(), s.Elem)
}

// enter records the reference v on the current path. A reference that is
// already there leads back to an ancestor.
func (en *encoder) enter(v reflect.Value) (visit, error) {
	ref := visit{ptr: v.Pointer(), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		ref.len = v.Len()
	}
	if prev, seen := en.visited[ref]; seen {
		return ref, &SerializationError{
			Path:    en.path.snapshot(),
			Message: fmt.Sprintf("circular reference to the value at %s", describePath(prev)),
		}
	}
	en.visited[ref] = en.path.snapshot()
	return ref, nil
}

func (en *encoder) leave(ref visit) {
	delete(en.visited, ref)
}

func (en *encoder) encodeSequence(v reflect.Value, s *Strategy) (*jtree.Node, error) {
	if v.Kind() == reflect.Slice && v.Len() > 0 {
		ref, err := en.enter(v)
		if err != nil {
			return nil, err
		}
		defer en.leave(ref)
	}
	arr := jtree.Array(v.Len())
	for i := 0; i < v.Len(); i++ {
		en.path.pushIndex(i)
		n, err := en.encode(v.Index(i), s.Elem)
		en.path.pop()
		if err != nil {
			return nil, err
		}
		arr.Append("", n)
	}
	return arr, nil
}

func describePath(p Path) string {
	if len(p) == 0 {
		return "the root"
	}
	return p.String()
}

type mapMember struct {
	key string
	val reflect.Value
}

// encodeMap renders a map as an object with members sorted by key.
func (en *encoder) encodeMap(v reflect.Value, s *Strategy) (*jtree.Node, error) {
	if v.Len() > 0 {
		ref, err := en.enter(v)
		if err != nil {
			return nil, err
		}
		defer en.leave(ref)
	}
	members := make([]mapMember, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := s.Key.keyString(iter.Key())
		if err != nil {
			return nil, &SerializationError{
				Path:    en.path.snapshot(),
				Message: fmt.Sprintf("map key %v", iter.Key()),
				Err:     err,
			}
		}
		members = append(members, mapMember{key: key, val: iter.Value()})
	}
	slices.SortFunc(members, func(a, b mapMember) int { return cmp.Compare(a.key, b.key) })
	obj := jtree.Object(len(members))
	for _, m := range members {
		en.path.pushField(m.key)
		n, err := en.encode(m.val, s.Elem)
		en.path.pop()
		if err != nil {
			return nil, err
		}
		obj.Append(m.key, n)
	}
	return obj, nil
}

func (en *encoder) encodeObject(v reflect.Value, s *Strategy) (*jtree.Node, error) {
	if !v.CanAddr() {
		v = receiver(v).Elem()
	}
	fields := s.Desc.Fields
	obj := jtree.Object(len(fields))
	for i, f := range fields {
		en.path.pushField(f.Name)
		n, err := en.encode(f.Get(v), s.Fields[i])
		en.path.pop()
		if err != nil {
			return nil, err
		}
		obj.Append(f.Name, n)
	}
	return obj, nil
}
