// Package errors defines the error taxonomy shared by every estimator in
// chemprep.
//
// All errors support Go 1.13+ error chains: typed errors can be extracted
// with errors.As, and each typed error unwraps to one of the package
// sentinels so call sites can branch with errors.Is without caring about
// the concrete type. Stack traces are attached by cockroachdb/errors, so
// logging an error with %+v prints where it was created.
package errors

import (
	"fmt"

	cockroacherrors "github.com/cockroachdb/errors"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrNotFitted indicates an estimator was used before Fit.
	ErrNotFitted = cockroacherrors.New("estimator is not fitted")

	// ErrEmptyData indicates an operation received data with no rows or
	// no columns.
	ErrEmptyData = cockroacherrors.New("empty data")

	// ErrDimensionMismatch indicates input dimensions do not match what
	// the estimator was fitted with, or an axis is out of range.
	ErrDimensionMismatch = cockroacherrors.New("dimension mismatch")
)

// NotFittedError is returned when Transform, InverseTransform or Predict
// is called on an estimator that has not been fitted.
type NotFittedError struct {
	// ModelName is the estimator type, e.g. "MinMaxScaler".
	ModelName string

	// Method is the method that was called, e.g. "Transform".
	Method string
}

// NewNotFittedError creates a NotFittedError for the given estimator and
// method.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s called before Fit; call Fit first", e.ModelName, e.Method)
}

// Unwrap links the error to the ErrNotFitted sentinel.
func (e *NotFittedError) Unwrap() error {
	return ErrNotFitted
}

// DimensionError is returned when an input's dimensions do not match the
// fitted state, or when a requested axis does not exist on the input.
type DimensionError struct {
	// Op is the operation that detected the mismatch, e.g.
	// "MinMaxScaler.Transform".
	Op string

	// Expected is the required size.
	Expected int

	// Got is the size that was actually provided.
	Got int

	// Axis is the axis the sizes refer to.
	Axis int
}

// NewDimensionError creates a DimensionError for the given operation.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: dimension mismatch on axis %d: expected %d, got %d",
		e.Op, e.Axis, e.Expected, e.Got)
}

// Unwrap links the error to the ErrDimensionMismatch sentinel.
func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// ValueError is returned when an argument value is invalid: a negative
// axis, duplicate indices, a non-positive shape and so on.
type ValueError struct {
	// Op is the operation that rejected the value.
	Op string

	// Message describes the invalid value.
	Message string
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// ModelError wraps a lower-level failure with estimator operation context.
type ModelError struct {
	// Op is the operation that failed.
	Op string

	// Message describes the failure.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// NewModelError creates a ModelError wrapping cause. cause may be nil.
func NewModelError(op, message string, cause error) *ModelError {
	return &ModelError{Op: op, Message: message, Cause: cause}
}

func (e *ModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ModelError) Unwrap() error {
	return e.Cause
}

// Newf creates a new error with a formatted message and a captured stack.
func Newf(format string, args ...interface{}) error {
	return cockroacherrors.Newf(format, args...)
}

// Wrapf annotates err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return cockroacherrors.Wrapf(err, format, args...)
}

// Recover converts a panic in an exported operation into an error stored
// in *errp, preserving any error the operation already produced. Deferred
// at the top of every exported estimator method:
//
//	func (m *MinMaxScaler) Fit(...) (err error) {
//		defer errors.Recover(&err, "MinMaxScaler.Fit")
//		...
//	}
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			*errp = cockroacherrors.Wrapf(err, "%s: panic recovered", op)
			return
		}
		*errp = cockroacherrors.Newf("%s: panic recovered: %v", op, r)
	}
}
