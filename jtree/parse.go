package jtree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
)

const defaultMaxDepth = 10000

type ParseOption func(*parseState)

type parseState struct {
	lenient  bool
	maxDepth int
}

// Lenient makes Parse accept JSON with comments and trailing commas.
func Lenient() ParseOption {
	return func(ps *parseState) { ps.lenient = true }
}

// ParseMaxDepth bounds the nesting depth of parsed documents.
func ParseMaxDepth(n int) ParseOption {
	return func(ps *parseState) { ps.maxDepth = n }
}

// Parse parses a single JSON document.
func Parse(data []byte, opts ...ParseOption) (*Node, error) {
	ps := &parseState{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(ps)
	}
	if ps.lenient {
		data = jsonc.ToJSON(data)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	node, err := ps.parseValue(dec, 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("%w: trailing data at offset %d", ErrParse, dec.InputOffset())
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return node, nil
}

// ParseReader reads r to the end and parses it as a single document.
func ParseReader(r io.Reader, opts ...ParseOption) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts...)
}

func (ps *parseState) parseValue(dec *json.Decoder, depth int) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: unexpected end of input", ErrParse)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	switch x := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return FromBool(x), nil
	case json.Number:
		return FromNumber(x.String()), nil
	case string:
		return FromString(x), nil
	case json.Delim:
		if depth >= ps.maxDepth {
			return nil, fmt.Errorf("%w: nesting deeper than %d", ErrParse, ps.maxDepth)
		}
		switch x {
		case '{':
			return ps.parseObject(dec, depth+1)
		case '[':
			return ps.parseArray(dec, depth+1)
		}
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrParse, x, dec.InputOffset())
	}
	return nil, fmt.Errorf("%w: unexpected token %v", ErrParse, tok)
}

func (ps *parseState) parseObject(dec *json.Decoder, depth int) (*Node, error) {
	res := Object(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key %v is not a string", ErrParse, tok)
		}
		val, err := ps.parseValue(dec, depth)
		if err != nil {
			return nil, err
		}
		res.Append(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return res, nil
}

func (ps *parseState) parseArray(dec *json.Decoder, depth int) (*Node, error) {
	res := Array(0)
	for dec.More() {
		val, err := ps.parseValue(dec, depth)
		if err != nil {
			return nil, err
		}
		res.Append("", val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return res, nil
}

// MustParse is like Parse but panics on error. It is intended for tests
// and package level literals.
func MustParse(s string) *Node {
	node, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return node
}
