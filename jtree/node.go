package jtree

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

type Node struct {
	Type   Type
	Fields []string
	Values []*Node

	String string
	Bool   bool
	Number string
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: NumberType, Number: strconv.FormatInt(v, 10)}
}

func FromUint(v uint64) *Node {
	return &Node{Type: NumberType, Number: strconv.FormatUint(v, 10)}
}

// FromFloat returns a number node for f. JSON has no representation for
// NaN or the infinities; callers must reject those before calling.
func FromFloat(f float64) *Node {
	return &Node{Type: NumberType, Number: strconv.FormatFloat(f, 'g', -1, 64)}
}

// FromNumber returns a number node holding the literal lit verbatim. The
// literal is checked when the node is encoded; see ValidNumber.
func FromNumber(lit string) *Node {
	return &Node{Type: NumberType, Number: lit}
}

// ValidNumber reports whether lit is a JSON number literal.
func ValidNumber(lit string) bool {
	i, n := 0, len(lit)
	if i < n && lit[i] == '-' {
		i++
	}
	switch {
	case i < n && lit[i] == '0':
		i++
	case i < n && lit[i] >= '1' && lit[i] <= '9':
		i = skipDigits(lit, i)
	default:
		return false
	}
	if i < n && lit[i] == '.' {
		i++
		if i == n || !isDigit(lit[i]) {
			return false
		}
		i = skipDigits(lit, i)
	}
	if i < n && (lit[i] == 'e' || lit[i] == 'E') {
		i++
		if i < n && (lit[i] == '+' || lit[i] == '-') {
			i++
		}
		if i == n || !isDigit(lit[i]) {
			return false
		}
		i = skipDigits(lit, i)
	}
	return i == n
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func skipDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromSlice(vs []*Node) *Node {
	res := &Node{Type: ArrayType, Values: make([]*Node, len(vs))}
	copy(res.Values, vs)
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals returns an object node whose members are kvs, in order.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]string, len(kvs)),
		Values: make([]*Node, len(kvs)),
	}
	for i := range kvs {
		res.Fields[i] = kvs[i].Key
		res.Values[i] = kvs[i].Val
	}
	return res
}

// FromMap returns an object node with the members of m sorted by key.
func FromMap(m map[string]*Node) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]string, 0, len(m)),
		Values: make([]*Node, 0, len(m)),
	}
	for _, key := range slices.Sorted(maps.Keys(m)) {
		res.Fields = append(res.Fields, key)
		res.Values = append(res.Values, m[key])
	}
	return res
}

// Object returns an empty object node with room for n members.
func Object(n int) *Node {
	return &Node{
		Type:   ObjectType,
		Fields: make([]string, 0, n),
		Values: make([]*Node, 0, n),
	}
}

// Array returns an empty array node with room for n elements.
func Array(n int) *Node {
	return &Node{Type: ArrayType, Values: make([]*Node, 0, n)}
}

// Append adds a member to an object node or an element to an array
// node. key is ignored for arrays.
func (y *Node) Append(key string, v *Node) *Node {
	switch y.Type {
	case ObjectType:
		y.Fields = append(y.Fields, key)
		y.Values = append(y.Values, v)
	case ArrayType:
		y.Values = append(y.Values, v)
	default:
		panic(fmt.Sprintf("append to %s node", y.Type))
	}
	return y
}

// Get returns the value of the first member of y named field, or nil.
func Get(y *Node, field string) *Node {
	v, _ := y.Lookup(field)
	return v
}

// Lookup returns the value of the first member named field and whether
// it exists. It returns false for non-object nodes.
func (y *Node) Lookup(field string) (*Node, bool) {
	if y == nil || y.Type != ObjectType {
		return nil, false
	}
	for i, f := range y.Fields {
		if f == field {
			return y.Values[i], true
		}
	}
	return nil, false
}

// Len returns the number of members or elements of a container node.
func (y *Node) Len() int {
	return len(y.Values)
}

func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := &Node{
		Type:   y.Type,
		String: y.String,
		Bool:   y.Bool,
		Number: y.Number,
	}
	if y.Fields != nil {
		res.Fields = slices.Clone(y.Fields)
	}
	if y.Values != nil {
		res.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			res.Values[i] = v.Clone()
		}
	}
	return res
}

// IsInteger reports whether y is a number node whose literal has no
// fraction or exponent.
func (y *Node) IsInteger() bool {
	return y.Type == NumberType && y.Number != "" && !strings.ContainsAny(y.Number, ".eE")
}

// Int64 returns the value of an integral number node.
func (y *Node) Int64() (int64, error) {
	if y.Type != NumberType {
		return 0, fmt.Errorf("%w: %s is not a number", ErrNotNumber, y.Type)
	}
	return strconv.ParseInt(y.Number, 10, 64)
}

// Uint64 returns the value of a non-negative integral number node. Negative
// zero is zero.
func (y *Node) Uint64() (uint64, error) {
	if y.Type != NumberType {
		return 0, fmt.Errorf("%w: %s is not a number", ErrNotNumber, y.Type)
	}
	lit := y.Number
	if len(lit) > 1 && lit[0] == '-' && strings.Trim(lit[1:], "0") == "" {
		return 0, nil
	}
	return strconv.ParseUint(lit, 10, 64)
}

// Float64 returns the value of a number node.
func (y *Node) Float64() (float64, error) {
	if y.Type != NumberType {
		return 0, fmt.Errorf("%w: %s is not a number", ErrNotNumber, y.Type)
	}
	f, err := strconv.ParseFloat(y.Number, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s", strconv.ErrRange, y.Number)
	}
	return f, nil
}

// Visit calls f on y and its descendants depth first, once before
// (isPost false) and once after (isPost true) the children. Children are
// skipped when the pre call returns false.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}
