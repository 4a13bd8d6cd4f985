package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/signadot/rjson/jtree"
)

type msgpackCodec struct{}

// MsgPack returns a MessagePack codec. Objects are written as maps in
// member order, so trees round trip exactly.
func MsgPack() Codec { return msgpackCodec{} }

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Marshal(node *jtree.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeMsgpack(enc, node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeMsgpack(enc *msgpack.Encoder, node *jtree.Node) error {
	switch node.Type {
	case jtree.NullType:
		return enc.EncodeNil()
	case jtree.BoolType:
		return enc.EncodeBool(node.Bool)
	case jtree.StringType:
		return enc.EncodeString(node.String)
	case jtree.NumberType:
		v, err := number(node)
		if err != nil {
			return err
		}
		switch x := v.(type) {
		case int64:
			return enc.EncodeInt(x)
		case uint64:
			return enc.EncodeUint(x)
		case float64:
			return enc.EncodeFloat64(x)
		}
		return fmt.Errorf("unexpected number %T", v)
	case jtree.ArrayType:
		if err := enc.EncodeArrayLen(len(node.Values)); err != nil {
			return err
		}
		for _, v := range node.Values {
			if err := encodeMsgpack(enc, v); err != nil {
				return err
			}
		}
		return nil
	case jtree.ObjectType:
		if err := enc.EncodeMapLen(len(node.Fields)); err != nil {
			return err
		}
		for i, f := range node.Fields {
			if err := enc.EncodeString(f); err != nil {
				return err
			}
			if err := encodeMsgpack(enc, node.Values[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("cannot encode node of type %s", node.Type)
}

func (msgpackCodec) Unmarshal(data []byte) (*jtree.Node, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	node, err := decodeMsgpack(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", jtree.ErrParse, err)
	}
	return node, nil
}

func isMap(c byte) bool {
	return msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32
}

func isArray(c byte) bool {
	return msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32
}

func decodeMsgpack(dec *msgpack.Decoder) (*jtree.Node, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case isMap(c):
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		res := jtree.Object(n)
		for range n {
			key, err := dec.DecodeString()
			if err != nil {
				return nil, fmt.Errorf("map key: %w", err)
			}
			val, err := decodeMsgpack(dec)
			if err != nil {
				return nil, err
			}
			res.Append(key, val)
		}
		return res, nil
	case isArray(c):
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		res := jtree.Array(n)
		for range n {
			val, err := decodeMsgpack(dec)
			if err != nil {
				return nil, err
			}
			res.Append("", val)
		}
		return res, nil
	}
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, err
	}
	return fromScalar(v)
}
