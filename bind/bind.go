package bind

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/signadot/rjson/debug"
	"github.com/signadot/rjson/jtree"
)

// Engine converts between Go values and trees using a frozen Registry.
// It is safe for concurrent use.
type Engine struct {
	reg *Registry
	log *slog.Logger
}

// NewEngine freezes r, or Default if r is nil, and returns an engine
// over it.
func NewEngine(r *Registry, opts ...Option) (*Engine, error) {
	if r == nil {
		r = Default
	}
	if err := r.Freeze(); err != nil {
		return nil, err
	}
	cfg := newConfig(opts...)
	if cfg.log == nil {
		cfg.log = r.log
	}
	return &Engine{reg: r, log: cfg.log}, nil
}

func (e *Engine) Registry() *Registry {
	return e.reg
}

// ToJSON returns the tree of v. A nil v gives a null node.
func (e *Engine) ToJSON(v any) (*jtree.Node, error) {
	if v == nil {
		return jtree.Null(), nil
	}
	return e.toJSON(reflect.ValueOf(v))
}

func (e *Engine) toJSON(val reflect.Value) (*jtree.Node, error) {
	s, err := e.reg.Resolve(val.Type())
	if err != nil {
		return nil, err
	}
	node, err := newEncoder().encode(val, s)
	if err != nil {
		if e.log != nil {
			e.log.Debug("serialize failed", "type", val.Type().String(), "error", err)
		}
		return nil, err
	}
	if debug.To() {
		debug.Logf("to %s:\n%s", val.Type(), debug.Tree{Node: node})
	}
	return node, nil
}

// FromJSONInto binds n to the value ptr points to. On failure *ptr is
// left untouched.
func (e *Engine) FromJSONInto(n *jtree.Node, ptr any) error {
	pv := reflect.ValueOf(ptr)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return fmt.Errorf("FromJSONInto: need a non-nil pointer, got %T", ptr)
	}
	v, err := e.fromJSON(n, pv.Type().Elem())
	if err != nil {
		return err
	}
	pv.Elem().Set(v)
	return nil
}

func (e *Engine) fromJSON(n *jtree.Node, t reflect.Type) (reflect.Value, error) {
	s, err := e.reg.Resolve(t)
	if err != nil {
		return reflect.Value{}, err
	}
	if debug.From() {
		debug.Logf("from %s:\n%s", t, debug.Tree{Node: n})
	}
	de := &decoder{}
	v, err := de.decode(n, s)
	if err != nil {
		if e.log != nil {
			e.log.Debug("deserialize failed", "type", t.String(), "error", err)
		}
		if debug.From() {
			debug.Logf("from %s failed: %v\n", t, err)
		}
		return reflect.Value{}, err
	}
	return v, nil
}

// Decode binds n to a new T.
func Decode[T any](e *Engine, n *jtree.Node) (T, error) {
	var zero T
	v, err := e.fromJSON(n, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return valueAs[T](v), nil
}

// Marshal returns the compact JSON text of v.
func (e *Engine) Marshal(v any) ([]byte, error) {
	node, err := e.ToJSON(v)
	if err != nil {
		return nil, err
	}
	return jtree.MarshalJSON(node)
}

// Unmarshal parses data and binds it to the value ptr points to.
func (e *Engine) Unmarshal(data []byte, ptr any, opts ...jtree.ParseOption) error {
	node, err := jtree.Parse(data, opts...)
	if err != nil {
		return err
	}
	return e.FromJSONInto(node, ptr)
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
	defaultErr    error
)

// DefaultEngine returns the engine over Default, freezing Default on
// first use. Types must be registered with Default before that.
func DefaultEngine() (*Engine, error) {
	defaultOnce.Do(func() {
		defaultEngine, defaultErr = NewEngine(Default)
	})
	return defaultEngine, defaultErr
}

// ToJSON converts v using the default engine.
func ToJSON(v any) (*jtree.Node, error) {
	e, err := DefaultEngine()
	if err != nil {
		return nil, err
	}
	return e.ToJSON(v)
}

// FromJSON binds n to a new T using the default engine.
func FromJSON[T any](n *jtree.Node) (T, error) {
	e, err := DefaultEngine()
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](e, n)
}

// Marshal returns the compact JSON text of v using the default engine.
func Marshal(v any) ([]byte, error) {
	e, err := DefaultEngine()
	if err != nil {
		return nil, err
	}
	return e.Marshal(v)
}

// Unmarshal parses data and binds it to a new T using the default engine.
func Unmarshal[T any](data []byte, opts ...jtree.ParseOption) (T, error) {
	var zero T
	node, err := jtree.Parse(data, opts...)
	if err != nil {
		return zero, err
	}
	return FromJSON[T](node)
}
