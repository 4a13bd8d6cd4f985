package jtree

import (
	"bytes"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line oriented diff of the indented renderings of from
// and to, with removed lines prefixed by "-", added lines by "+" and
// unchanged lines by a space. It returns the empty string when the
// documents are Equal.
func Diff(from, to *Node, opts ...EncodeOption) (string, error) {
	if Equal(from, to) {
		return "", nil
	}
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	var a, b bytes.Buffer
	if err := Encode(from, &a); err != nil {
		return "", err
	}
	if err := Encode(to, &b); err != nil {
		return "", err
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a.String(), b.String())
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix, attr := " ", ColorAttr(-1)
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix, attr = "+", InsertColor
		case diffpatch.DiffDelete:
			prefix, attr = "-", DeleteColor
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = prefix + line
			if attr >= 0 && es.Color != nil {
				line = es.Color(NullType, attr, strings.TrimSuffix(line, "\n")) + "\n"
			}
			out.WriteString(line)
		}
	}
	return out.String(), nil
}
