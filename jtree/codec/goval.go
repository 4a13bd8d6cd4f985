package codec

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/signadot/rjson/jtree"
)

// number converts the literal of a number node to int64, uint64 or
// float64, preferring the integer forms.
func number(node *jtree.Node) (any, error) {
	if node.IsInteger() {
		if i, err := node.Int64(); err == nil {
			return i, nil
		}
		if u, err := node.Uint64(); err == nil {
			return u, nil
		}
	}
	f, err := node.Float64()
	if err != nil {
		return nil, fmt.Errorf("number %s: %w", node.Number, err)
	}
	return f, nil
}

// fromScalar converts a decoded scalar Go value to a leaf node.
func fromScalar(v any) (*jtree.Node, error) {
	switch x := v.(type) {
	case nil:
		return jtree.Null(), nil
	case bool:
		return jtree.FromBool(x), nil
	case string:
		return jtree.FromString(x), nil
	case int:
		return jtree.FromInt(int64(x)), nil
	case int8:
		return jtree.FromInt(int64(x)), nil
	case int16:
		return jtree.FromInt(int64(x)), nil
	case int32:
		return jtree.FromInt(int64(x)), nil
	case int64:
		return jtree.FromInt(x), nil
	case uint:
		return jtree.FromUint(uint64(x)), nil
	case uint8:
		return jtree.FromUint(uint64(x)), nil
	case uint16:
		return jtree.FromUint(uint64(x)), nil
	case uint32:
		return jtree.FromUint(uint64(x)), nil
	case uint64:
		return jtree.FromUint(x), nil
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case *big.Int:
		return jtree.FromNumber(x.String()), nil
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}

func fromFloat(f float64) (*jtree.Node, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported number %s", strconv.FormatFloat(f, 'g', -1, 64))
	}
	return jtree.FromFloat(f), nil
}
