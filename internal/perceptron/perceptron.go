package perceptron

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"perceptron/internal/nn"
)

// WarnNoWeights is recorded when a perceptron is built without weights.
const WarnNoWeights = "perceptron initialized with no weights"

// Perceptron is a single neuron with a fixed bias and weight vector. It is
// never mutated after New returns, so one value may serve concurrent callers.
type Perceptron struct {
	bias     float64
	weights  *mat.VecDense
	n        int
	warnings []string
}

type options struct {
	logger logrus.FieldLogger
}

type Option func(*options)

// WithLogger routes construction diagnostics to logger instead of the
// logrus standard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New copies weights into a new perceptron. An empty weight vector is
// accepted but leaves the neuron inert and records WarnNoWeights.
func New(bias float64, weights []float64, opts ...Option) *Perceptron {
	o := options{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Perceptron{bias: bias, n: len(weights)}
	if p.n == 0 {
		p.warnings = append(p.warnings, WarnNoWeights)
		o.logger.WithField("bias", bias).Warn(WarnNoWeights)
		return p
	}
	data := make([]float64, p.n)
	copy(data, weights)
	p.weights = mat.NewVecDense(p.n, data)
	return p
}

// NewFromValues builds a perceptron from an untyped weight container, for
// callers holding decoded JSON or other dynamic data.
func NewFromValues(bias float64, weights any, opts ...Option) (*Perceptron, error) {
	vec, err := ToVector(weights)
	if err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	return New(bias, vec, opts...), nil
}

func (p *Perceptron) Bias() float64 {
	return p.bias
}

// Weights returns a copy of the weight vector.
func (p *Perceptron) Weights() []float64 {
	out := make([]float64, p.n)
	for i := range out {
		out[i] = p.weights.AtVec(i)
	}
	return out
}

// InputCount is the exact input vector length accepted by WeightedSum.
func (p *Perceptron) InputCount() int {
	return p.n
}

// Inert reports whether the perceptron has no weights.
func (p *Perceptron) Inert() bool {
	return p.n == 0
}

func (p *Perceptron) Warnings() []string {
	out := make([]string, len(p.warnings))
	copy(out, p.warnings)
	return out
}

// WeightedSum returns z = w·x + b. A sum that is not finite fails with
// ErrNonFinite, so every activation sees a finite z.
func (p *Perceptron) WeightedSum(inputs []float64) (float64, error) {
	if len(inputs) != p.n {
		return 0, &DimensionError{Given: len(inputs), Expected: p.n}
	}
	z := p.bias
	if p.n > 0 {
		z += mat.Dot(p.weights, mat.NewVecDense(p.n, inputs))
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, z)
	}
	return z, nil
}

// Output is the result of one prediction.
type Output struct {
	Z          float64
	Value      float64
	Activation nn.Activation
	Kind       nn.Kind
}

// Predict applies act to the weighted sum of inputs. act must be a member of
// the activation registry.
func (p *Perceptron) Predict(inputs []float64, act nn.Activation) (Output, error) {
	spec, err := nn.GetActivation(act)
	if err != nil {
		return Output{}, fmt.Errorf("%w: activation must be one of %v: %w", ErrTypeMismatch, nn.ListActivations(), err)
	}
	z, err := p.WeightedSum(inputs)
	if err != nil {
		return Output{}, err
	}
	return Output{Z: z, Value: spec.Func(z), Activation: act, Kind: spec.Kind}, nil
}

// Format renders discrete outputs as integers and continuous outputs with six
// decimals.
func (o Output) Format() string {
	if o.Kind == nn.KindDiscrete {
		return strconv.FormatFloat(o.Value, 'f', 0, 64)
	}
	return strconv.FormatFloat(o.Value, 'f', 6, 64)
}

func (o Output) String() string {
	return o.Format()
}
