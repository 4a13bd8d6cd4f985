package bind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/rjson/jtree"
)

type TestObject struct {
	Number int    `rjson:"field=number"`
	Text   string `rjson:"field=text"`
}

func (o *TestObject) SetDefaults() {
	o.Text = "foo"
}

type Container struct {
	Name        string       `rjson:"field=name"`
	TestObjects []TestObject `rjson:"field=testObjects"`
}

type Animal struct {
	Age int `rjson:"field=age"`
}

type Dog struct {
	Animal
	Alive bool `rjson:"field=alive"`
}

type A struct {
	X int `rjson:"field=x"`
}

type B struct {
	Y int `rjson:"field=y"`
}

type AB struct {
	A
	B
	Z int `rjson:"field=z"`
}

type Root struct {
	ID int `rjson:"field=id"`
}

type Left struct {
	Root
	L int `rjson:"field=l"`
}

type Right struct {
	Root
	R int `rjson:"field=r"`
}

type Diamond struct {
	Left
	Right
	Own int `rjson:"field=own"`
}

type Unregistered struct {
	Hidden int
}

type WithPlain struct {
	Unregistered
	N int `rjson:"field=n"`
}

type Wrapped struct {
	TestObject
	Extra int `rjson:"field=extra"`
}

type PtrBase struct {
	*Animal
	N int `rjson:"field=n"`
}

type Opt struct {
	Ptr   *int        `rjson:"field=ptr"`
	Child *TestObject `rjson:"field=child"`
}

type Color int

const (
	Red Color = iota
	Green
	Blue
)

type Paint struct {
	Color Color `rjson:"field=color"`
}

type Versioned struct {
	Version int `rjson:"field=version,const"`
	N       int `rjson:"field=n"`
}

type Skip struct {
	A int `rjson:"field=a"`
	B int `rjson:"-"`
}

type Plain struct {
	Count int
	Label string
}

type Loop struct {
	Name string `rjson:"field=name"`
	Next *Loop  `rjson:"field=next"`
}

type Pair struct {
	A *TestObject `rjson:"field=a"`
	B *TestObject `rjson:"field=b"`
}

type Tree struct {
	Val  int    `rjson:"field=val"`
	Kids []Tree `rjson:"field=kids"`
}

type Measure struct {
	V float64 `rjson:"field=v"`
}

type Small struct {
	B int8    `rjson:"field=b"`
	U uint8   `rjson:"field=u"`
	F float32 `rjson:"field=f"`
}

type Fixed struct {
	P [2]int `rjson:"field=p"`
}

type HasAny struct {
	V any
}

type HasChan struct {
	C chan int
}

type Inner struct {
	K string `rjson:"field=k"`
}

type HasInner struct {
	In Inner `rjson:"field=in"`
}

type BadTag struct {
	X int `rjson:"fielld=x"`
}

// Point binds itself as a two element array.
type Point struct {
	X, Y int
}

func (p Point) MarshalTree() (*jtree.Node, error) {
	return jtree.FromSlice([]*jtree.Node{jtree.FromInt(int64(p.X)), jtree.FromInt(int64(p.Y))}), nil
}

func (p *Point) UnmarshalTree(n *jtree.Node) error {
	if n.Type != jtree.ArrayType || len(n.Values) != 2 {
		return &DeserializationError{Kind: TypeMismatch, Expected: "array of 2", Actual: n.Type.String()}
	}
	var xy [2]int
	for i, v := range n.Values {
		if !v.IsInteger() {
			return &DeserializationError{
				Path:     Path{{Index: i, IsIndex: true}},
				Kind:     TypeMismatch,
				Expected: "integer",
				Actual:   v.Type.String(),
			}
		}
		x, err := v.Int64()
		if err != nil {
			return err
		}
		xy[i] = int(x)
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

type Shape struct {
	Corner Point `rjson:"field=corner"`
}

type Celsius float64

func celsiusTo(c Celsius) (*jtree.Node, error) {
	return jtree.FromString(strconv.FormatFloat(float64(c), 'f', 1, 64) + "C"), nil
}

func celsiusFrom(n *jtree.Node) (Celsius, error) {
	if n.Type != jtree.StringType || !strings.HasSuffix(n.String, "C") {
		return 0, fmt.Errorf("bad temperature of type %s", n.Type)
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(n.String, "C"), 64)
	if err != nil {
		return 0, err
	}
	return Celsius(f), nil
}

type Reading struct {
	Temp Celsius `rjson:"field=temp"`
}

// account keeps its state private and exposes it through methods.
type account struct {
	id      string
	balance int
}

func (a *account) ID() string       { return a.id }
func (a *account) SetID(id string)  { a.id = id }
func (a *account) Balance() int     { return a.balance }
func (a *account) SetBalance(b int) { a.balance = b }
func (a *account) Kind() string     { return "checking" }
