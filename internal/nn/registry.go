package nn

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	ErrActivationExists   = errors.New("activation already registered")
	ErrActivationNotFound = errors.New("activation not found")
	ErrNotANumber         = errors.New("activation input is NaN")
)

// Kind tells a front-end how to present an activation's output.
type Kind uint8

const (
	KindContinuous Kind = iota
	KindDiscrete
)

func (k Kind) String() string {
	switch k {
	case KindDiscrete:
		return "discrete"
	case KindContinuous:
		return "continuous"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ActivationFunc maps a pre-activation value to a neuron output.
type ActivationFunc func(z float64) float64

// Activation identifies one member of the fixed activation registry.
// The zero value is not a member.
type Activation uint8

const (
	ActivationUnknown Activation = iota
	Step
	Sign
	Tanh
	Sigmoid
	ReLU
)

type ActivationSpec struct {
	Name  string
	Label string
	Range string
	Kind  Kind
	Func  ActivationFunc
}

var activationRegistry = struct {
	specs  map[Activation]ActivationSpec
	byName map[string]Activation
}{
	specs:  make(map[Activation]ActivationSpec),
	byName: make(map[string]Activation),
}

func init() {
	mustRegisterActivation(Step, ActivationSpec{Name: "step", Label: "Step (0 or 1)", Range: "{0,1}", Kind: KindDiscrete, Func: stepActivation})
	mustRegisterActivation(Sign, ActivationSpec{Name: "sign", Label: "Sign (-1 or 1)", Range: "{-1,1}", Kind: KindDiscrete, Func: signActivation})
	mustRegisterActivation(Tanh, ActivationSpec{Name: "tanh", Label: "Tanh (-1 to 1)", Range: "(-1,1)", Kind: KindContinuous, Func: tanhActivation})
	mustRegisterActivation(Sigmoid, ActivationSpec{Name: "sigmoid", Label: "Sigmoid (0 to 1)", Range: "(0,1)", Kind: KindContinuous, Func: sigmoidActivation})
	mustRegisterActivation(ReLU, ActivationSpec{Name: "relu", Label: "ReLU (max(0, z))", Range: "[0,inf)", Kind: KindContinuous, Func: reluActivation})
}

func registerActivation(id Activation, spec ActivationSpec) error {
	if id == ActivationUnknown {
		return errors.New("activation id is required")
	}
	if spec.Name == "" {
		return errors.New("activation name is required")
	}
	if spec.Func == nil {
		return errors.New("activation function is required")
	}
	if _, exists := activationRegistry.specs[id]; exists {
		return fmt.Errorf("%w: %s", ErrActivationExists, spec.Name)
	}
	if _, exists := activationRegistry.byName[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrActivationExists, spec.Name)
	}
	activationRegistry.specs[id] = spec
	activationRegistry.byName[spec.Name] = id
	return nil
}

func mustRegisterActivation(id Activation, spec ActivationSpec) {
	if err := registerActivation(id, spec); err != nil {
		panic(err)
	}
}

// ParseActivation resolves a registry name. Matching ignores case and
// surrounding whitespace.
func ParseActivation(name string) (Activation, error) {
	id, ok := activationRegistry.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ActivationUnknown, fmt.Errorf("%w: %q", ErrActivationNotFound, name)
	}
	return id, nil
}

// GetActivation returns the registry entry for id.
func GetActivation(id Activation) (ActivationSpec, error) {
	spec, ok := activationRegistry.specs[id]
	if !ok {
		return ActivationSpec{}, fmt.Errorf("%w: id %d", ErrActivationNotFound, uint8(id))
	}
	return spec, nil
}

// ListActivations returns registered names in sorted order.
func ListActivations() []string {
	names := make([]string, 0, len(activationRegistry.byName))
	for name := range activationRegistry.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Valid reports whether a is a registry member.
func (a Activation) Valid() bool {
	_, ok := activationRegistry.specs[a]
	return ok
}

func (a Activation) String() string {
	if spec, ok := activationRegistry.specs[a]; ok {
		return spec.Name
	}
	return fmt.Sprintf("activation(%d)", uint8(a))
}

// Kind returns KindContinuous for non-members.
func (a Activation) Kind() Kind {
	return activationRegistry.specs[a].Kind
}

func (a Activation) Label() string {
	if spec, ok := activationRegistry.specs[a]; ok {
		return spec.Label
	}
	return "Unknown"
}

// Apply evaluates the activation at z. It returns ErrActivationNotFound for
// values outside the registry and ErrNotANumber when z is NaN.
func (a Activation) Apply(z float64) (float64, error) {
	spec, err := GetActivation(a)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(z) {
		return 0, fmt.Errorf("%w: %s", ErrNotANumber, spec.Name)
	}
	return spec.Func(z), nil
}

func (a Activation) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: id %d", ErrActivationNotFound, uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Activation) UnmarshalText(text []byte) error {
	id, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}
