package bind

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrOutOfRange     = errors.New("number out of range")
	ErrInvalidKey     = errors.New("invalid key")
	ErrLengthMismatch = errors.New("length mismatch")
	ErrOverride       = errors.New("override failed")

	ErrUnsupportedType = errors.New("unsupported type")
	ErrFrozen          = errors.New("registry is frozen")
	ErrNotFrozen       = errors.New("registry is not frozen")
)

// ErrorKind classifies a DeserializationError.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota
	OutOfRange
	InvalidKey
	LengthMismatch
	OverrideFailed
)

var errorKinds = [...]struct {
	name     string
	sentinel error
}{
	TypeMismatch:   {"type mismatch", ErrTypeMismatch},
	OutOfRange:     {"out of range", ErrOutOfRange},
	InvalidKey:     {"invalid key", ErrInvalidKey},
	LengthMismatch: {"length mismatch", ErrLengthMismatch},
	OverrideFailed: {"override failed", ErrOverride},
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKinds) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKinds[k].name
}

func (k ErrorKind) sentinel() error {
	if k < 0 || int(k) >= len(errorKinds) {
		return nil
	}
	return errorKinds[k].sentinel
}

// DeserializationError reports why a tree could not be bound to a value
// and where in the tree that happened.
type DeserializationError struct {
	Path     Path
	Kind     ErrorKind
	Expected string
	Actual   string
	Err      error
}

func (e *DeserializationError) Error() string {
	msg := e.Kind.String()
	if e.Expected != "" {
		msg = fmt.Sprintf("%s: expected %s, got %s", msg, e.Expected, e.Actual)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Path) != 0 {
		return fmt.Sprintf("deserialize error at %s: %s", e.Path, msg)
	}
	return fmt.Sprintf("deserialize error: %s", msg)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the error's kind, so that
// errors.Is(err, ErrTypeMismatch) holds for a TypeMismatch.
func (e *DeserializationError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// SerializationError represents a value that has no JSON rendering.
type SerializationError struct {
	Path    Path
	Message string
	Err     error
}

func (e *SerializationError) Error() string {
	if len(e.Path) != 0 {
		return fmt.Sprintf("serialize error at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("serialize error: %s", e.Message)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError reports a type for which no traversal strategy
// exists. Where names the registered field through which the type was
// reached, if any.
type UnsupportedTypeError struct {
	Type  reflect.Type
	Where string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Where != "" {
		return fmt.Sprintf("unsupported type %s at %s", e.Type, e.Where)
	}
	return fmt.Sprintf("unsupported type %s", e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}

// RegistrationError represents a failure to register a type.
type RegistrationError struct {
	Type    reflect.Type
	Message string
	Err     error
}

func (e *RegistrationError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("registration error for %s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("registration error: %s", e.Message)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
