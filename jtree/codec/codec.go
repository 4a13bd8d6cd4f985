// Package codec renders JSON trees in other wire formats.
//
// Every codec maps the six node types onto the target format and back.
// Codecs that preserve member order (json, yaml, msgpack) round trip a tree
// exactly; cbor uses core deterministic encoding, which sorts object
// members by key.
package codec

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/rjson/jtree"
)

// Codec converts between JSON trees and an encoded representation.
type Codec interface {
	// Name is the short name used to select the codec.
	Name() string

	// Marshal encodes node.
	Marshal(node *jtree.Node) ([]byte, error)

	// Unmarshal decodes data into a tree.
	Unmarshal(data []byte) (*jtree.Node, error)
}

var ErrUnknownCodec = errors.New("unknown codec")

var codecs = map[string]Codec{}

func register(c Codec, aliases ...string) {
	codecs[c.Name()] = c
	for _, a := range aliases {
		codecs[a] = c
	}
}

func init() {
	register(JSON(), "j")
	register(YAML(), "y", "yml")
	register(CBOR(), "c")
	register(MsgPack(), "m", "msgp")
}

// Lookup returns the codec named name or one of its aliases.
func Lookup(name string) (Codec, error) {
	c, ok := codecs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownCodec, name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names returns the primary names of the registered codecs.
func Names() []string {
	var res []string
	for k, c := range codecs {
		if k == c.Name() {
			res = append(res, k)
		}
	}
	slices.Sort(res)
	return res
}

type jsonCodec struct {
	opts []jtree.ParseOption
}

// JSON returns the JSON text codec. Unmarshal accepts comments and
// trailing commas.
func JSON() Codec {
	return jsonCodec{opts: []jtree.ParseOption{jtree.Lenient()}}
}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(node *jtree.Node) ([]byte, error) {
	return jtree.MarshalJSON(node)
}

func (c jsonCodec) Unmarshal(data []byte) (*jtree.Node, error) {
	return jtree.Parse(data, c.opts...)
}
