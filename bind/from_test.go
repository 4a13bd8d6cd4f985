package bind

import (
	"errors"
	"net/netip"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/rjson/jtree"
)

func fromEngine(t *testing.T) *Engine {
	return newEngine(t, func(r *Registry) error {
		return errors.Join(
			Register[TestObject](r), Register[Container](r),
			Register[Animal](r), Register[Dog](r), Register[Wrapped](r),
			Register[Opt](r), Register[Paint](r), Register[Small](r), Register[Fixed](r),
			Register[Versioned](r, WithDefaults(func(v *Versioned) { v.Version = 2 })),
			Register[Shape](r), Register[Reading](r),
			RegisterOverride(r, celsiusTo, celsiusFrom),
		)
	})
}

func decodeAs[T any](t *testing.T, e *Engine, doc string) (T, error) {
	t.Helper()
	return Decode[T](e, jtree.MustParse(doc))
}

func TestFromJSON(t *testing.T) {
	e := fromEngine(t)
	defaults := TestObject{}
	defaults.SetDefaults()
	tests := []struct {
		name string
		doc  string
		typ  reflect.Type
		want any
	}{
		{"missing members", `{}`, reflect.TypeFor[TestObject](), defaults},
		{"unknown members", `{"number":5,"bogus":true}`, reflect.TypeFor[TestObject](), TestObject{Number: 5, Text: "foo"}},
		{"inheritance", `{"age":4,"alive":true}`, reflect.TypeFor[Dog](), Dog{Animal{Age: 4}, true}},
		{"base defaults", `{"extra":1}`, reflect.TypeFor[Wrapped](), Wrapped{TestObject{Text: "foo"}, 1}},
		{"null", `{"ptr":null,"child":null}`, reflect.TypeFor[Opt](), Opt{}},
		{"present", `{"ptr":3,"child":{"number":1}}`, reflect.TypeFor[Opt](),
			Opt{Ptr: intp(3), Child: &TestObject{Number: 1, Text: "foo"}}},
		{"enumeration", `{"color":1}`, reflect.TypeFor[Paint](), Paint{Green}},
		{"unnamed enumerator", `{"color":42}`, reflect.TypeFor[Paint](), Paint{Color(42)}},
		{"const skipped", `{"version":9,"n":1}`, reflect.TypeFor[Versioned](), Versioned{Version: 2, N: 1}},
		{"integral literals", `{"b":1e2,"u":2.0,"f":0.5}`, reflect.TypeFor[Small](), Small{B: 100, U: 2, F: 0.5}},
		{"negative zero", `{"b":-0,"u":-0,"f":-0}`, reflect.TypeFor[Small](), Small{}},
		{"array", `{"p":[1,2]}`, reflect.TypeFor[Fixed](), Fixed{P: [2]int{1, 2}}},
		{"empty slice", `{"name":"x","testObjects":[]}`, reflect.TypeFor[Container](), Container{Name: "x", TestObjects: []TestObject{}}},
		{"tree methods", `{"corner":[3,4]}`, reflect.TypeFor[Shape](), Shape{Point{3, 4}}},
		{"override", `{"temp":"-3.5C"}`, reflect.TypeFor[Reading](), Reading{Temp: -3.5}},
		{"int keys", `{"10":"a","2":"b"}`, reflect.TypeFor[map[int]string](), map[int]string{10: "a", 2: "b"}},
		{"enum keys", `{"1":true}`, reflect.TypeFor[map[Color]bool](), map[Color]bool{Green: true}},
		{"text keys", `{"10.0.0.1":1}`, reflect.TypeFor[map[netip.Addr]int](), map[netip.Addr]int{netip.MustParseAddr("10.0.0.1"): 1}},
		{"nested pointers", `[null,{"age":1}]`, reflect.TypeFor[[]*Animal](), []*Animal{nil, {Age: 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := e.fromJSON(jtree.MustParse(tc.doc), tc.typ)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, v.Interface(), cmp.Comparer(func(a, b netip.Addr) bool { return a == b })); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromJSONTime(t *testing.T) {
	e := fromEngine(t)
	want := time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC)
	n, err := e.ToJSON(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode[time.Time](e, n)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFromJSONErrors(t *testing.T) {
	e := fromEngine(t)
	tests := []struct {
		name string
		doc  string
		typ  reflect.Type
		kind ErrorKind
		path string
	}{
		{"nested mismatch", `{"name":"x","testObjects":[{"number":"notanumber"}]}`,
			reflect.TypeFor[Container](), TypeMismatch, "testObjects[0].number"},
		{"later element", `{"testObjects":[{},{},{"text":1}]}`,
			reflect.TypeFor[Container](), TypeMismatch, "testObjects[2].text"},
		{"object expected", `[]`, reflect.TypeFor[TestObject](), TypeMismatch, ""},
		{"array expected", `{"testObjects":{}}`, reflect.TypeFor[Container](), TypeMismatch, "testObjects"},
		{"null sequence", `{"testObjects":null}`, reflect.TypeFor[Container](), TypeMismatch, "testObjects"},
		{"bool expected", `{"age":1,"alive":"yes"}`, reflect.TypeFor[Dog](), TypeMismatch, "alive"},
		{"enumeration needs number", `{"color":"red"}`, reflect.TypeFor[Paint](), TypeMismatch, "color"},
		{"fraction", `{"b":2.5}`, reflect.TypeFor[Small](), TypeMismatch, "b"},
		{"int8 overflow", `{"b":300}`, reflect.TypeFor[Small](), OutOfRange, "b"},
		{"negative uint", `{"u":-1}`, reflect.TypeFor[Small](), OutOfRange, "u"},
		{"float32 overflow", `{"f":1e300}`, reflect.TypeFor[Small](), OutOfRange, "f"},
		{"huge", `{"f":1e999}`, reflect.TypeFor[Small](), OutOfRange, "f"},
		{"array length", `{"p":[1,2,3]}`, reflect.TypeFor[Fixed](), LengthMismatch, "p"},
		{"bad int key", `{"x":"a"}`, reflect.TypeFor[map[int]string](), InvalidKey, "x"},
		{"bad text key", `{"a":{"1.2.3":1}}`, reflect.TypeFor[map[string]map[netip.Addr]int](), InvalidKey, `a["1.2.3"]`},
		{"override failed", `{"temp":21}`, reflect.TypeFor[Reading](), OverrideFailed, "temp"},
		{"text method mismatch", `[1]`, reflect.TypeFor[[]time.Time](), TypeMismatch, "[0]"},
		{"text method failed", `["yesterday"]`, reflect.TypeFor[[]time.Time](), OverrideFailed, "[0]"},
		{"tree method path", `{"corner":[1,"y"]}`, reflect.TypeFor[Shape](), TypeMismatch, "corner[1]"},
		{"nullable inner", `[{"age":"old"}]`, reflect.TypeFor[[]*Animal](), TypeMismatch, "[0].age"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.fromJSON(jtree.MustParse(tc.doc), tc.typ)
			var de *DeserializationError
			if !errors.As(err, &de) {
				t.Fatalf("got %v, want DeserializationError", err)
			}
			if de.Kind != tc.kind {
				t.Errorf("kind %s, want %s", de.Kind, tc.kind)
			}
			if got := de.Path.String(); got != tc.path {
				t.Errorf("path %q, want %q", got, tc.path)
			}
			if !errors.Is(err, tc.kind.sentinel()) {
				t.Errorf("%v does not match %v", err, tc.kind.sentinel())
			}
		})
	}
}

func TestFromJSONErrorDetail(t *testing.T) {
	e := fromEngine(t)
	_, err := decodeAs[Container](t, e, `{"name":"x","testObjects":[{"number":"notanumber"}]}`)
	want := "deserialize error at testObjects[0].number: type mismatch: expected integer, got string"
	if err == nil || err.Error() != want {
		t.Errorf("got %v, want %s", err, want)
	}
	_, err = decodeAs[Small](t, e, `{"u":-1}`)
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("%v does not wrap the parse error", err)
	}
	_, err = decodeAs[Reading](t, e, `{"temp":"xC"}`)
	if !errors.Is(err, ErrOverride) || !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("%v does not wrap the override error", err)
	}
}

func TestFromJSONIntoKeepsTarget(t *testing.T) {
	e := fromEngine(t)
	got := Container{Name: "keep", TestObjects: []TestObject{{Number: 1}}}
	want := Container{Name: "keep", TestObjects: []TestObject{{Number: 1}}}
	err := e.FromJSONInto(jtree.MustParse(`{"name":"new","testObjects":[{"number":2},{"number":"x"}]}`), &got)
	if err == nil {
		t.Fatal("expected an error")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("target changed (-want +got):\n%s", diff)
	}
	if err := e.FromJSONInto(jtree.MustParse(`{}`), got); err == nil {
		t.Error("non pointer target accepted")
	}
}
