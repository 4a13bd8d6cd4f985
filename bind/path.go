package bind

import (
	"slices"
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object member or an array index.
type Segment struct {
	Field   string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	if plainField(s.Field) {
		return s.Field
	}
	return "[" + strconv.Quote(s.Field) + "]"
}

// Path locates a node from the root of a document, rendered like
// testObjects[0].number.
type Path []Segment

func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if !seg.IsIndex && plainField(seg.Field) && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

func plainField(f string) bool {
	return f != "" && !strings.ContainsAny(f, ".[]\"")
}

// pathStack is the mutable path of the node being visited. Every push is
// paired with a pop once the child returns, whether or not it failed.
type pathStack struct {
	segs []Segment
}

func (s *pathStack) pushField(name string) {
	s.segs = append(s.segs, Segment{Field: name})
}

func (s *pathStack) pushIndex(i int) {
	s.segs = append(s.segs, Segment{Index: i, IsIndex: true})
}

func (s *pathStack) pop() {
	s.segs = s.segs[:len(s.segs)-1]
}

func (s *pathStack) snapshot() Path {
	if len(s.segs) == 0 {
		return nil
	}
	return Path(slices.Clone(s.segs))
}

func (s *pathStack) String() string {
	return Path(s.segs).String()
}
