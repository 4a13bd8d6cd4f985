package codec

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/signadot/rjson/jtree"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): the same
// tree always produces the same bytes, with map keys sorted.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

type cborCodec struct{}

// CBOR returns a codec for deterministic CBOR. Object members come back
// sorted by key.
func CBOR() Codec { return cborCodec{} }

func (cborCodec) Name() string { return "cbor" }

func (cborCodec) Marshal(node *jtree.Node) ([]byte, error) {
	v, err := toCBORValue(node)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(v)
}

func (cborCodec) Unmarshal(data []byte) (*jtree.Node, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", jtree.ErrParse, err)
	}
	return fromCBORValue(v)
}

func toCBORValue(node *jtree.Node) (any, error) {
	switch node.Type {
	case jtree.NullType:
		return nil, nil
	case jtree.BoolType:
		return node.Bool, nil
	case jtree.StringType:
		return node.String, nil
	case jtree.NumberType:
		return number(node)
	case jtree.ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			x, err := toCBORValue(v)
			if err != nil {
				return nil, err
			}
			res[i] = x
		}
		return res, nil
	case jtree.ObjectType:
		res := make(map[string]any, len(node.Fields))
		for i, f := range node.Fields {
			if _, dup := res[f]; dup {
				return nil, fmt.Errorf("duplicate member %q", f)
			}
			x, err := toCBORValue(node.Values[i])
			if err != nil {
				return nil, err
			}
			res[f] = x
		}
		return res, nil
	}
	return nil, fmt.Errorf("cannot encode node of type %s", node.Type)
}

func fromCBORValue(v any) (*jtree.Node, error) {
	switch x := v.(type) {
	case map[string]any:
		res := jtree.Object(len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			val, err := fromCBORValue(x[k])
			if err != nil {
				return nil, err
			}
			res.Append(k, val)
		}
		return res, nil
	case []any:
		res := jtree.Array(len(x))
		for _, e := range x {
			val, err := fromCBORValue(e)
			if err != nil {
				return nil, err
			}
			res.Append("", val)
		}
		return res, nil
	case []byte:
		return nil, fmt.Errorf("cbor byte strings have no JSON tree form")
	}
	return fromScalar(v)
}
