package diffusion

import (
	"errors"
	"fmt"
)

// Domain errors for diffusion operations.
var (
	// ErrShape indicates an empty, nil or non-rectangular field, or two
	// fields whose dimensions disagree.
	ErrShape = errors.New("diffusion: field shape mismatch")

	// ErrInvalidValue indicates a NaN or infinite coefficient.
	ErrInvalidValue = errors.New("diffusion: invalid value (NaN or Inf)")

	// ErrInvalidArgument indicates an argument outside its valid range,
	// such as a negative iteration count.
	ErrInvalidArgument = errors.New("diffusion: invalid argument")
)

// ShapeError describes why a field was rejected.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrShape, e.Reason)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// InvalidValueError names the coefficient that was NaN or infinite.
type InvalidValueError struct {
	Name  string
	Value float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s=%v", ErrInvalidValue, e.Name, e.Value)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// InvalidArgumentError names the argument that was out of range.
type InvalidArgumentError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s=%v (%s)", ErrInvalidArgument, e.Name, e.Value, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

func shapeErrorf(format string, args ...any) error {
	return &ShapeError{Reason: fmt.Sprintf(format, args...)}
}

// CheckFinite returns an *InvalidValueError if v is NaN or infinite.
func CheckFinite(name string, v float64) error {
	if isBad(v) {
		return &InvalidValueError{Name: name, Value: v}
	}
	return nil
}
