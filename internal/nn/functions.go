package nn

import "math"

var (
	// Largest float64 below 1 and smallest above 0; continuous activations
	// never leave their open ranges even where the exact value rounds to a bound.
	belowOne  = math.Nextafter(1, 0)
	aboveZero = math.SmallestNonzeroFloat64
)

// The functions below expect a non-NaN z; NaN falls through to the zero or
// negative branch. Callers go through Activation.Apply or a finite
// weighted sum.

func stepActivation(z float64) float64 {
	if z >= 0 {
		return 1
	}
	return 0
}

func signActivation(z float64) float64 {
	if z >= 0 {
		return 1
	}
	return -1
}

func tanhActivation(z float64) float64 {
	return sat(math.Tanh(z), belowOne, -belowOne)
}

// sigmoidActivation branches on sign so exp never overflows.
func sigmoidActivation(z float64) float64 {
	var out float64
	if z >= 0 {
		out = 1 / (1 + math.Exp(-z))
	} else {
		e := math.Exp(z)
		out = e / (1 + e)
	}
	return sat(out, belowOne, aboveZero)
}

func reluActivation(z float64) float64 {
	if z > 0 {
		return z
	}
	return 0
}

// sat clamps value to [min, max].
func sat(value, max, min float64) float64 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}
