package bind

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/signadot/rjson/jtree"
)

// decoder binds a tree to a fresh value along a strategy. Results are
// built bottom up and only assigned into their parent once complete, so a
// failure leaves nothing partially populated.
type decoder struct {
	path pathStack
}

func (de *decoder) decode(n *jtree.Node, s *Strategy) (reflect.Value, error) {
	if n == nil {
		n = jtree.Null()
	}
	switch s.Kind {
	case Primitive:
		return de.decodePrimitive(n, s.Type)
	case Text:
		if n.Type != jtree.StringType {
			return reflect.Value{}, de.mismatch(jtree.StringType.String(), n)
		}
		v := reflect.New(s.Type).Elem()
		v.SetString(n.String)
		return v, nil
	case Enumeration:
		// the raw value is kept whether or not it names an enumerator
		return de.decodeInteger(n, s.Type)
	case Nullable:
		if n.Type == jtree.NullType {
			return reflect.Zero(s.Type), nil
		}
		inner, err := de.decode(n, s.Elem)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(s.Type.Elem())
		p.Elem().Set(inner)
		return p, nil
	case Sequence:
		return de.decodeSequence(n, s)
	case Associative:
		return de.decodeMap(n, s)
	case Object:
		return de.decodeObject(n, s)
	case Custom:
		return de.decodeCustom(n, s)
	}
	return reflect.Value{}, fmt.Errorf("no strategy for %s", s.Type)
}

func (de *decoder) decodePrimitive(n *jtree.Node, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Bool:
		if n.Type != jtree.BoolType {
			return reflect.Value{}, de.mismatch(jtree.BoolType.String(), n)
		}
		v := reflect.New(t).Elem()
		v.SetBool(n.Bool)
		return v, nil
	case reflect.Float32, reflect.Float64:
		if n.Type != jtree.NumberType {
			return reflect.Value{}, de.mismatch(jtree.NumberType.String(), n)
		}
		f, err := n.Float64()
		if err != nil {
			return reflect.Value{}, de.outOfRange(t, n, err)
		}
		v := reflect.New(t).Elem()
		if v.OverflowFloat(f) {
			return reflect.Value{}, de.outOfRange(t, n, nil)
		}
		v.SetFloat(f)
		return v, nil
	}
	return de.decodeInteger(n, t)
}

// decodeInteger accepts any number literal with an integral value that
// fits t, so 1e3 and 2.0 are valid integers but 2.5 is not.
func (de *decoder) decodeInteger(n *jtree.Node, t reflect.Type) (reflect.Value, error) {
	if n.Type != jtree.NumberType {
		return reflect.Value{}, de.mismatch("integer", n)
	}
	v := reflect.New(t).Elem()
	signed := v.CanInt()
	if n.IsInteger() {
		if signed {
			i, err := n.Int64()
			if err != nil || v.OverflowInt(i) {
				return reflect.Value{}, de.outOfRange(t, n, err)
			}
			v.SetInt(i)
			return v, nil
		}
		u, err := n.Uint64()
		if err != nil || v.OverflowUint(u) {
			return reflect.Value{}, de.outOfRange(t, n, err)
		}
		v.SetUint(u)
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return reflect.Value{}, de.outOfRange(t, n, err)
	}
	if f != math.Trunc(f) {
		return reflect.Value{}, &DeserializationError{
			Path:     de.path.snapshot(),
			Kind:     TypeMismatch,
			Expected: "integer",
			Actual:   "number " + n.Number,
		}
	}
	switch {
	case signed && f >= math.MinInt64 && f < math.MaxInt64 && !v.OverflowInt(int64(f)):
		v.SetInt(int64(f))
	case !signed && f >= 0 && f < math.MaxUint64 && !v.OverflowUint(uint64(f)):
		v.SetUint(uint64(f))
	default:
		return reflect.Value{}, de.outOfRange(t, n, nil)
	}
	return v, nil
}

func (de *decoder) decodeSequence(n *jtree.Node, s *Strategy) (reflect.Value, error) {
	if n.Type != jtree.ArrayType {
		return reflect.Value{}, de.mismatch(jtree.ArrayType.String(), n)
	}
	t := s.Type
	var out reflect.Value
	if t.Kind() == reflect.Array {
		if len(n.Values) != t.Len() {
			return reflect.Value{}, &DeserializationError{
				Path:     de.path.snapshot(),
				Kind:     LengthMismatch,
				Expected: fmt.Sprintf("%d elements", t.Len()),
				Actual:   strconv.Itoa(len(n.Values)),
			}
		}
		out = reflect.New(t).Elem()
	} else {
		out = reflect.MakeSlice(t, len(n.Values), len(n.Values))
	}
	for i, child := range n.Values {
		de.path.pushIndex(i)
		v, err := de.decode(child, s.Elem)
		de.path.pop()
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

func (de *decoder) decodeMap(n *jtree.Node, s *Strategy) (reflect.Value, error) {
	if n.Type != jtree.ObjectType {
		return reflect.Value{}, de.mismatch(jtree.ObjectType.String(), n)
	}
	out := reflect.MakeMapWithSize(s.Type, len(n.Fields))
	for i, name := range n.Fields {
		de.path.pushField(name)
		k, err := s.Key.parseKey(name)
		if err != nil {
			err = &DeserializationError{
				Path:     de.path.snapshot(),
				Kind:     InvalidKey,
				Expected: s.Type.Key().String(),
				Actual:   strconv.Quote(name),
				Err:      err,
			}
			de.path.pop()
			return reflect.Value{}, err
		}
		v, err := de.decode(n.Values[i], s.Elem)
		de.path.pop()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, v)
	}
	return out, nil
}

// decodeObject starts from the type's default instance and sets every
// non const field that has a member. Missing members keep their default
// and unknown members are ignored.
func (de *decoder) decodeObject(n *jtree.Node, s *Strategy) (reflect.Value, error) {
	if n.Type != jtree.ObjectType {
		return reflect.Value{}, de.mismatch(jtree.ObjectType.String(), n)
	}
	obj := s.Desc.New()
	for i, f := range s.Desc.Fields {
		if f.Const {
			continue
		}
		child, ok := n.Lookup(f.Name)
		if !ok {
			continue
		}
		de.path.pushField(f.Name)
		v, err := de.decode(child, s.Fields[i])
		de.path.pop()
		if err != nil {
			return reflect.Value{}, err
		}
		f.Set(obj, v)
	}
	return obj, nil
}

// decodeCustom delegates to an override. Its errors are reported at the
// current path; a DeserializationError from the override keeps its own
// path below the current one.
func (de *decoder) decodeCustom(n *jtree.Node, s *Strategy) (reflect.Value, error) {
	v, err := s.from(n)
	if err != nil {
		if inner, ok := err.(*DeserializationError); ok {
			cp := *inner
			cp.Path = append(de.path.snapshot(), inner.Path...)
			return reflect.Value{}, &cp
		}
		return reflect.Value{}, &DeserializationError{
			Path: de.path.snapshot(),
			Kind: OverrideFailed,
			Err:  err,
		}
	}
	if !v.IsValid() {
		return reflect.Zero(s.Type), nil
	}
	return v, nil
}

func (de *decoder) mismatch(expected string, n *jtree.Node) error {
	return &DeserializationError{
		Path:     de.path.snapshot(),
		Kind:     TypeMismatch,
		Expected: expected,
		Actual:   n.Type.String(),
	}
}

func (de *decoder) outOfRange(t reflect.Type, n *jtree.Node, err error) error {
	return &DeserializationError{
		Path:     de.path.snapshot(),
		Kind:     OutOfRange,
		Expected: t.String(),
		Actual:   n.Number,
		Err:      err,
	}
}
