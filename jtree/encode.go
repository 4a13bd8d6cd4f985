package jtree

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

type EncodeOption func(*EncState)

// EncodeWire selects compact output with no insignificant whitespace.
func EncodeWire(v bool) EncodeOption {
	return func(es *EncState) { es.wire = v }
}

// EncodeIndent sets the per level indentation of non-wire output.
func EncodeIndent(s string) EncodeOption {
	return func(es *EncState) { es.indent = s }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}

type EncState struct {
	wire   bool
	indent string
	depth  int

	Color func(Type, ColorAttr, string) string
}

// Encode writes node to w as JSON text followed by a newline.
func Encode(node *Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: "  "}
	for _, opt := range opts {
		opt(es)
	}
	if err := encode(node, w, es); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// MarshalJSON returns the compact JSON text of node.
func MarshalJSON(node *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(node, &buf, &EncState{wire: true}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustString returns the indented JSON text of node, panicking on error.
func MustString(node *Node, opts ...EncodeOption) string {
	var buf bytes.Buffer
	if err := Encode(node, &buf, opts...); err != nil {
		panic(err)
	}
	return buf.String()
}

func (y *Node) MarshalJSON() ([]byte, error) {
	return MarshalJSON(y)
}

func (y *Node) UnmarshalJSON(d []byte) error {
	node, err := Parse(d)
	if err != nil {
		return err
	}
	*y = *node
	return nil
}

func applyColor(es *EncState, t Type, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(t, attr, v)
}

func encode(node *Node, w io.Writer, es *EncState) error {
	if node == nil {
		return writeString(w, applyColor(es, NullType, ValueColor, "null"))
	}
	switch node.Type {
	case NullType:
		return writeString(w, applyColor(es, NullType, ValueColor, "null"))
	case BoolType:
		v := "false"
		if node.Bool {
			v = "true"
		}
		return writeString(w, applyColor(es, BoolType, ValueColor, v))
	case NumberType:
		if !ValidNumber(node.Number) {
			return fmt.Errorf("%w: invalid literal %q", ErrNotNumber, node.Number)
		}
		return writeString(w, applyColor(es, NumberType, ValueColor, node.Number))
	case StringType:
		return writeString(w, applyColor(es, StringType, ValueColor, quoteString(node.String)))
	case ArrayType:
		return encodeArray(node, w, es)
	case ObjectType:
		return encodeObject(node, w, es)
	}
	return fmt.Errorf("cannot encode node of type %s", node.Type)
}

func encodeObject(node *Node, w io.Writer, es *EncState) error {
	if len(node.Fields) != len(node.Values) {
		return fmt.Errorf("malformed object: %d fields, %d values", len(node.Fields), len(node.Values))
	}
	if err := writeString(w, applyColor(es, ObjectType, SepColor, "{")); err != nil {
		return err
	}
	if len(node.Values) == 0 {
		return writeString(w, applyColor(es, ObjectType, SepColor, "}"))
	}
	es.depth++
	for i, field := range node.Fields {
		if i > 0 {
			if err := writeString(w, applyColor(es, ObjectType, SepColor, ",")); err != nil {
				return err
			}
		}
		if err := writeNL(w, es); err != nil {
			return err
		}
		key := applyColor(es, ObjectType, FieldColor, quoteString(field))
		sep := ":"
		if !es.wire {
			sep = ": "
		}
		if err := writeString(w, key+applyColor(es, ObjectType, SepColor, sep)); err != nil {
			return err
		}
		if err := encode(node.Values[i], w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeNL(w, es); err != nil {
		return err
	}
	return writeString(w, applyColor(es, ObjectType, SepColor, "}"))
}

func encodeArray(node *Node, w io.Writer, es *EncState) error {
	if err := writeString(w, applyColor(es, ArrayType, SepColor, "[")); err != nil {
		return err
	}
	if len(node.Values) == 0 {
		return writeString(w, applyColor(es, ArrayType, SepColor, "]"))
	}
	es.depth++
	for i, v := range node.Values {
		if i > 0 {
			if err := writeString(w, applyColor(es, ArrayType, SepColor, ",")); err != nil {
				return err
			}
		}
		if err := writeNL(w, es); err != nil {
			return err
		}
		if err := encode(v, w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeNL(w, es); err != nil {
		return err
	}
	return writeString(w, applyColor(es, ArrayType, SepColor, "]"))
}

func writeNL(w io.Writer, es *EncState) error {
	if es.wire {
		return nil
	}
	return writeString(w, "\n"+strings.Repeat(es.indent, es.depth))
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

const hexDigits = "0123456789abcdef"

// quoteString returns s as a JSON string literal. Invalid UTF-8 is
// replaced with U+FFFD.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				b.WriteByte('\\')
				b.WriteByte(c)
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\r':
				b.WriteString(`\r`)
			case c == '\t':
				b.WriteString(`\t`)
			case c == '\b':
				b.WriteString(`\b`)
			case c == '\f':
				b.WriteString(`\f`)
			case c < 0x20:
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[c>>4])
				b.WriteByte(hexDigits[c&0xf])
			default:
				b.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteString(`\ufffd`)
		case r == '\u2028':
			b.WriteString(`\u2028`)
		case r == '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
	return b.String()
}
