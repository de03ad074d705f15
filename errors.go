package typeddict

import (
	"errors"
	"fmt"
)

var (
	// ErrNotHashable is reported by types whose instances cannot be hashed.
	ErrNotHashable = errors.New("is not hashable")

	// ErrUnsupportedComparison is reported when a comparison operator is not
	// defined for a type.
	ErrUnsupportedComparison = errors.New("comparison not supported")

	// ErrInstanceSize is returned when an instance region does not match the
	// byte size of its type.
	ErrInstanceSize = errors.New("instance size mismatch")

	// ErrInvalidInstance is returned when an instance refers to a pooled
	// object that no longer exists.
	ErrInvalidInstance = errors.New("invalid instance")

	// ErrAllocationFailure is carried by the panic raised when a backing
	// buffer cannot grow any further.
	ErrAllocationFailure = errors.New("allocation failure")
)

// TypeError ties a failure to the rendered name of the type that raised it.
//
// The underlying sentinel can be matched with errors.Is.
type TypeError struct {
	TypeName string
	Op       CompareOp
	Err      error
}

func (e *TypeError) Error() string {
	if errors.Is(e.Err, ErrUnsupportedComparison) {
		return fmt.Sprintf("%s %s between objects of type %s", e.Op, e.Err, e.TypeName)
	}

	return e.TypeName + " " + e.Err.Error()
}

func (e *TypeError) Unwrap() error { return e.Err }

func notHashable(typeName string) error {
	return &TypeError{TypeName: typeName, Err: ErrNotHashable}
}

func unsupportedComparison(typeName string, op CompareOp) error {
	return &TypeError{TypeName: typeName, Op: op, Err: ErrUnsupportedComparison}
}

func checkSize(t ElementType, p []byte) error {
	if len(p) != t.ByteSize() {
		return fmt.Errorf("%w: %s wants %d bytes, got %d", ErrInstanceSize, t.Name(), t.ByteSize(), len(p))
	}

	return nil
}
