package flowrx

import (
	"errors"
	"fmt"
)

// ConstraintError reports a protocol or argument violation: a nil factory,
// a negative count or an overflowing range, raised synchronously as a panic
// at the call site, or a zero request, delivered to the subscriber through
// OnError. These are programmer errors, not upstream failures.
type ConstraintError struct {
	Op  string
	Msg string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("flowrx: %s: %s", e.Op, e.Msg)
}

func constraintf(op, format string, args ...interface{}) *ConstraintError {
	return &ConstraintError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// CompositeError aggregates the errors collected by a delayErrors flatMap
// or merge once the drain loop reaches its terminal evaluation. It wraps
// errors.Join so callers can still errors.Is/errors.As through it.
type CompositeError struct {
	Errors []error
	joined error
}

func newCompositeError(errs []error) *CompositeError {
	cp := make([]error, len(errs))
	copy(cp, errs)
	return &CompositeError{Errors: cp, joined: errors.Join(cp...)}
}

func (c *CompositeError) Error() string {
	return c.joined.Error()
}

func (c *CompositeError) Unwrap() []error {
	return c.Errors
}
