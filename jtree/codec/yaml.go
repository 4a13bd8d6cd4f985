package codec

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/signadot/rjson/jtree"
)

type yamlCodec struct{}

// YAML returns a codec for block style YAML. Object member order is
// preserved in both directions.
func YAML() Codec { return yamlCodec{} }

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(node *jtree.Node) ([]byte, error) {
	v, err := toYAMLValue(node)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}

func (yamlCodec) Unmarshal(data []byte) (*jtree.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", jtree.ErrParse, err)
	}
	return fromYAMLValue(v)
}

func toYAMLValue(node *jtree.Node) (any, error) {
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
			x, err := toYAMLValue(v)
			if err != nil {
				return nil, err
			}
			res[i] = x
		}
		return res, nil
	case jtree.ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			x, err := toYAMLValue(node.Values[i])
			if err != nil {
				return nil, err
			}
			res[i] = yaml.MapItem{Key: f, Value: x}
		}
		return res, nil
	}
	return nil, fmt.Errorf("cannot encode node of type %s", node.Type)
}

func fromYAMLValue(v any) (*jtree.Node, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		res := jtree.Object(len(x))
		for _, item := range x {
			val, err := fromYAMLValue(item.Value)
			if err != nil {
				return nil, err
			}
			res.Append(fmt.Sprint(item.Key), val)
		}
		return res, nil
	case map[string]any:
		res := jtree.Object(len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			val, err := fromYAMLValue(x[k])
			if err != nil {
				return nil, err
			}
			res.Append(k, val)
		}
		return res, nil
	case []any:
		res := jtree.Array(len(x))
		for _, e := range x {
			val, err := fromYAMLValue(e)
			if err != nil {
				return nil, err
			}
			res.Append("", val)
		}
		return res, nil
	case time.Time:
		return jtree.FromString(x.Format(time.RFC3339Nano)), nil
	}
	return fromScalar(v)
}
