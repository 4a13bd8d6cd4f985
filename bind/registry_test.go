package bind

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newEngine(t *testing.T, register func(r *Registry) error) *Engine {
	t.Helper()
	r := NewRegistry()
	if err := register(r); err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(r)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func fieldNames(d *TypeDescriptor) []string {
	var res []string
	for _, f := range d.Fields {
		res = append(res, f.Name)
	}
	return res
}

func TestFlatten(t *testing.T) {
	e := newEngine(t, func(r *Registry) error {
		return errors.Join(
			Register[Animal](r), Register[Dog](r),
			Register[A](r), Register[B](r), Register[AB](r),
			Register[Root](r), Register[Left](r), Register[Right](r), Register[Diamond](r),
			Register[WithPlain](r), Register[Skip](r), Register[Plain](r),
		)
	})
	tests := []struct {
		typ  reflect.Type
		want []string
	}{
		{reflect.TypeFor[Dog](), []string{"age", "alive"}},
		{reflect.TypeFor[AB](), []string{"x", "y", "z"}},
		{reflect.TypeFor[Diamond](), []string{"id", "l", "r", "own"}},
		{reflect.TypeFor[WithPlain](), []string{"n"}},
		{reflect.TypeFor[Skip](), []string{"a"}},
		{reflect.TypeFor[Plain](), []string{"Count", "Label"}},
	}
	for _, tc := range tests {
		t.Run(tc.typ.Name(), func(t *testing.T) {
			d, ok := e.Registry().Descriptor(tc.typ)
			if !ok {
				t.Fatalf("no descriptor for %s", tc.typ)
			}
			if diff := cmp.Diff(tc.want, fieldNames(d)); diff != "" {
				t.Errorf("fields (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlattenOwners(t *testing.T) {
	e := newEngine(t, func(r *Registry) error {
		return errors.Join(Register[Root](r), Register[Left](r), Register[Right](r), Register[Diamond](r))
	})
	d, _ := e.Registry().Descriptor(reflect.TypeFor[Diamond]())
	want := []reflect.Type{
		reflect.TypeFor[Root](),
		reflect.TypeFor[Left](),
		reflect.TypeFor[Right](),
		reflect.TypeFor[Diamond](),
	}
	for i, f := range d.Fields {
		if f.Owner != want[i] {
			t.Errorf("field %s: owner %s, want %s", f.Name, f.Owner, want[i])
		}
	}
}

func TestDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	if err := Register[TestObject](r); err != nil {
		t.Fatal(err)
	}
	var regErr *RegistrationError
	if err := Register[TestObject](r); !errors.As(err, &regErr) {
		t.Errorf("second Register: got %v, want RegistrationError", err)
	}
	if err := Describe[TestObject](r).Done(); !errors.As(err, &regErr) {
		t.Errorf("Describe of registered type: got %v, want RegistrationError", err)
	}
	if err := RegisterOverride(r, celsiusTo, celsiusFrom); err != nil {
		t.Fatal(err)
	}
	if err := Register[Reading](r); err != nil {
		t.Fatal(err)
	}
	if err := RegisterOverride(r, celsiusTo, celsiusFrom); !errors.As(err, &regErr) {
		t.Errorf("second RegisterOverride: got %v, want RegistrationError", err)
	}
}

func TestRegisterRejects(t *testing.T) {
	r := NewRegistry()
	if err := Register[int](r); err == nil {
		t.Error("Register[int] succeeded")
	}
	if err := Register[*TestObject](r); err == nil {
		t.Error("Register[*TestObject] succeeded")
	}
	if err := Register[Dog](r, WithDefaults(func(a *Animal) {})); err == nil {
		t.Error("Register with defaults for another type succeeded")
	}
}

func TestRegisterAfterFreeze(t *testing.T) {
	e := newEngine(t, func(r *Registry) error { return Register[TestObject](r) })
	err := Register[Dog](e.Registry())
	if !errors.Is(err, ErrFrozen) {
		t.Errorf("got %v, want ErrFrozen", err)
	}
	err = RegisterOverride(e.Registry(), celsiusTo, celsiusFrom)
	if !errors.Is(err, ErrFrozen) {
		t.Errorf("override: got %v, want ErrFrozen", err)
	}
}

func TestFreezeUnsupported(t *testing.T) {
	tests := []struct {
		name     string
		register func(r *Registry) error
		typ      reflect.Type
		where    string
	}{
		{
			name:     "interface",
			register: func(r *Registry) error { return Register[HasAny](r) },
			typ:      reflect.TypeFor[any](),
			where:    "bind.HasAny.V",
		},
		{
			name:     "chan",
			register: func(r *Registry) error { return Register[HasChan](r) },
			typ:      reflect.TypeFor[chan int](),
			where:    "bind.HasChan.C",
		},
		{
			name:     "unregistered struct",
			register: func(r *Registry) error { return Register[HasInner](r) },
			typ:      reflect.TypeFor[Inner](),
			where:    "bind.HasInner.in",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry()
			if err := tc.register(r); err != nil {
				t.Fatal(err)
			}
			err := r.Freeze()
			var ute *UnsupportedTypeError
			if !errors.As(err, &ute) {
				t.Fatalf("got %v, want UnsupportedTypeError", err)
			}
			if ute.Type != tc.typ || ute.Where != tc.where {
				t.Errorf("got %s at %q, want %s at %q", ute.Type, ute.Where, tc.typ, tc.where)
			}
			if !errors.Is(err, ErrUnsupportedType) {
				t.Error("error does not match ErrUnsupportedType")
			}
			if r.Frozen() {
				t.Error("registry frozen after failed Freeze")
			}
		})
	}
}

func TestFreezeRetry(t *testing.T) {
	r := NewRegistry()
	if err := Register[HasInner](r); err != nil {
		t.Fatal(err)
	}
	if err := r.Freeze(); err == nil {
		t.Fatal("Freeze succeeded with unregistered field type")
	}
	if err := Register[Inner](r); err != nil {
		t.Fatal(err)
	}
	if err := r.Freeze(); err != nil {
		t.Fatal(err)
	}
	if !r.Frozen() {
		t.Error("registry not frozen")
	}
}

func TestFreezeRegistrationErrors(t *testing.T) {
	tests := []struct {
		name     string
		register func(r *Registry) error
	}{
		{"bad tag", func(r *Registry) error { return Register[BadTag](r) }},
		{"pointer base", func(r *Registry) error {
			return errors.Join(Register[Animal](r), Register[PtrBase](r))
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry()
			if err := tc.register(r); err != nil {
				t.Fatal(err)
			}
			var regErr *RegistrationError
			if err := r.Freeze(); !errors.As(err, &regErr) {
				t.Errorf("got %v, want RegistrationError", err)
			}
		})
	}
}

func TestResolveKinds(t *testing.T) {
	e := newEngine(t, func(r *Registry) error {
		return errors.Join(Register[TestObject](r), RegisterOverride(r, celsiusTo, celsiusFrom))
	})
	tests := []struct {
		typ  reflect.Type
		want Kind
	}{
		{reflect.TypeFor[int](), Primitive},
		{reflect.TypeFor[float32](), Primitive},
		{reflect.TypeFor[bool](), Primitive},
		{reflect.TypeFor[Color](), Enumeration},
		{reflect.TypeFor[string](), Text},
		{reflect.TypeFor[*int](), Nullable},
		{reflect.TypeFor[[]int](), Sequence},
		{reflect.TypeFor[[2]int](), Sequence},
		{reflect.TypeFor[map[string]int](), Associative},
		{reflect.TypeFor[map[Color]int](), Associative},
		{reflect.TypeFor[TestObject](), Object},
		{reflect.TypeFor[Point](), Custom},
		{reflect.TypeFor[Celsius](), Custom},
	}
	for _, tc := range tests {
		s, err := e.Registry().Resolve(tc.typ)
		if err != nil {
			t.Errorf("%s: %v", tc.typ, err)
			continue
		}
		if s.Kind != tc.want {
			t.Errorf("%s: got %s, want %s", tc.typ, s.Kind, tc.want)
		}
	}
	for _, typ := range []reflect.Type{
		reflect.TypeFor[complex128](),
		reflect.TypeFor[map[float64]int](),
		reflect.TypeFor[func()](),
		reflect.TypeFor[Inner](),
	} {
		if _, err := e.Registry().Resolve(typ); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("%s: got %v, want ErrUnsupportedType", typ, err)
		}
	}
}

func TestResolveNotFrozen(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Resolve(reflect.TypeFor[int]()); !errors.Is(err, ErrNotFrozen) {
		t.Errorf("got %v, want ErrNotFrozen", err)
	}
}

func TestResolveSelfReference(t *testing.T) {
	e := newEngine(t, func(r *Registry) error {
		return errors.Join(Register[Tree](r), Register[Loop](r))
	})
	tree, err := e.Registry().Resolve(reflect.TypeFor[Tree]())
	if err != nil {
		t.Fatal(err)
	}
	if kids := tree.Fields[1]; kids.Kind != Sequence || kids.Elem != tree {
		t.Errorf("kids strategy does not refer back to Tree")
	}
	loop, err := e.Registry().Resolve(reflect.TypeFor[Loop]())
	if err != nil {
		t.Fatal(err)
	}
	if next := loop.Fields[1]; next.Kind != Nullable || next.Elem != loop {
		t.Errorf("next strategy does not refer back to Loop")
	}
}

func TestDescribe(t *testing.T) {
	r := NewRegistry()
	err := Describe[account](r).
		Field(
			Accessor("id", (*account).ID, (*account).SetID),
			Accessor("balance", (*account).Balance, (*account).SetBalance),
		).
		ConstField(ConstAccessor("kind", (*account).Kind)).
		Defaults(func(a *account) { a.balance = 100 }).
		Done()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Freeze(); err != nil {
		t.Fatal(err)
	}
	d, ok := r.Descriptor(reflect.TypeFor[account]())
	if !ok {
		t.Fatal("no descriptor")
	}
	if diff := cmp.Diff([]string{"id", "balance", "kind"}, fieldNames(d)); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	if f, _ := d.Field("kind"); !f.Const {
		t.Error("kind is not const")
	}
	if got := d.New().Addr().Interface().(*account).balance; got != 100 {
		t.Errorf("default balance %d, want 100", got)
	}
}

func TestDescribeRejects(t *testing.T) {
	var regErr *RegistrationError
	r := NewRegistry()
	err := Describe[account](r).Field(Accessor("number", func(o *TestObject) int { return o.Number }, func(o *TestObject, n int) { o.Number = n })).Done()
	if !errors.As(err, &regErr) {
		t.Errorf("foreign accessor: got %v, want RegistrationError", err)
	}
	err = Describe[account](r).Field(
		Accessor("id", (*account).ID, (*account).SetID),
		ConstAccessor("id", (*account).Kind),
	).Done()
	if !errors.As(err, &regErr) {
		t.Errorf("duplicate field: got %v, want RegistrationError", err)
	}
	if err := Describe[int](r).Done(); !errors.As(err, &regErr) {
		t.Errorf("non struct: got %v, want RegistrationError", err)
	}
}
