package perceptron

import (
	"encoding/json"
	"fmt"
	"reflect"

	"gonum.org/v1/gonum/mat"
)

// ToVector converts a dynamically typed container to a one-dimensional
// vector. Non-sequence values and non-numeric elements fail with
// ErrTypeMismatch; bare scalars, nested sequences and matrices fail with
// ErrShapeMismatch. The result never aliases v.
func ToVector(v any) ([]float64, error) {
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: expected a one-dimensional numeric sequence, got nil", ErrTypeMismatch)
	case []float64:
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	case mat.Vector:
		out := make([]float64, x.Len())
		for i := range out {
			out[i] = x.AtVec(i)
		}
		return out, nil
	case mat.Matrix:
		r, c := x.Dims()
		return nil, fmt.Errorf("%w: expected a one-dimensional sequence, got a %dx%d matrix", ErrShapeMismatch, r, c)
	}

	if _, ok := scalar(v); ok {
		return nil, fmt.Errorf("%w: expected a one-dimensional sequence, got scalar %v", ErrShapeMismatch, v)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: expected a one-dimensional numeric sequence, got %T", ErrTypeMismatch, v)
	}

	out := make([]float64, rv.Len())
	for i := range out {
		elem := rv.Index(i)
		for elem.Kind() == reflect.Interface && !elem.IsNil() {
			elem = elem.Elem()
		}
		if !elem.IsValid() || (elem.Kind() == reflect.Interface && elem.IsNil()) {
			return nil, fmt.Errorf("%w: element %d is nil", ErrTypeMismatch, i)
		}
		if elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array {
			return nil, fmt.Errorf("%w: element %d is a sequence; expected a one-dimensional sequence", ErrShapeMismatch, i)
		}
		f, ok := scalar(elem.Interface())
		if !ok {
			return nil, fmt.Errorf("%w: element %d has non-numeric type %s", ErrTypeMismatch, i, elem.Type())
		}
		out[i] = f
	}
	return out, nil
}

func scalar(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}
