package jtree

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncodeWire(t *testing.T) {
	node := FromKeyVals([]KeyVal{
		{Key: "name", Val: FromString("x\"y")},
		{Key: "n", Val: FromInt(-3)},
		{Key: "f", Val: FromFloat(0.5)},
		{Key: "xs", Val: FromSlice([]*Node{FromBool(false), Null()})},
		{Key: "empty", Val: Object(0)},
	})
	got, err := MarshalJSON(node)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"x\"y","n":-3,"f":0.5,"xs":[false,null],"empty":{}}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestEncodeIndent(t *testing.T) {
	node := MustParse(`{"a":[1,2],"b":{}}`)
	var buf bytes.Buffer
	if err := Encode(node, &buf); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {}\n}\n"
	if buf.String() != want {
		t.Errorf("Encode() = %q, want %q", buf.String(), want)
	}
}

func TestQuoteString(t *testing.T) {
	tests := map[string]string{
		"plain":        `"plain"`,
		"tab\there":    `"tab\there"`,
		"\x01":         `"\u0001"`,
		"ünïcode":      `"ünïcode"`,
		"a\u2028b":           `"a\u2028b"`,
		string([]byte{0xff}): `"\ufffd"`,
	}
	for in, want := range tests {
		if got := quoteString(in); got != want {
			t.Errorf("quoteString(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := `{"s":"line\nbreak \\ \"q\"","n":[0,-1,2.5e10],"o":{"k":null,"t":true}}`
	node := MustParse(in)
	out, err := MarshalJSON(node)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(node, back) {
		t.Errorf("round trip mismatch: %s vs %s", in, out)
	}
}

func TestEncodeColors(t *testing.T) {
	var buf bytes.Buffer
	colors := &Colors{
		Default: colorDefault,
		Map: map[Colorable]func(string, ...any) string{
			{Type: BoolType, Attr: ValueColor}: func(s string, _ ...any) string { return "<" + s + ">" },
		},
	}
	if err := Encode(FromSlice([]*Node{FromBool(true)}), &buf, EncodeWire(true), EncodeColors(colors)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<true>") {
		t.Errorf("Encode() = %q, want colored bool", buf.String())
	}
}

func TestEncodeInvalidNumber(t *testing.T) {
	for _, lit := range []string{"NaN", "+Inf", "", "1."} {
		node := FromSlice([]*Node{FromNumber(lit)})
		if _, err := MarshalJSON(node); !errors.Is(err, ErrNotNumber) {
			t.Errorf("MarshalJSON(%q) error = %v, want ErrNotNumber", lit, err)
		}
	}
}
