package perceptron

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch reports a value of the wrong kind, such as a non-sequence
	// where a vector is required or an activation outside the registry.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrShapeMismatch reports a container that is not one-dimensional.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrDimensionMismatch reports an input vector whose length differs from
	// the weight count. Errors of this kind are *DimensionError.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNonFinite reports a weighted sum that overflowed to an infinity or
	// NaN even though every weight and input was finite.
	ErrNonFinite = errors.New("non-finite weighted sum")
)

// DimensionError carries both counts of a failed length check.
type DimensionError struct {
	Given    int
	Expected int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: number of inputs (%d) does not match the expected number of weights (%d)",
		ErrDimensionMismatch, e.Given, e.Expected)
}

func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
