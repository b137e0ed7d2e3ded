package layers

import (
	"fmt"
	"math"
)

// Activation is an element-wise nonlinearity applied to pre-activations.
type Activation func(float64) float64

func Tanh(v float64) float64 { return math.Tanh(v) }

func Sigmoid(v float64) float64 { return 1.0 / (1.0 + math.Exp(-v)) }

func ReLU(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}

// Linear is the identity. It is a deliberate choice, distinct from having
// no activation at all, which is not expressible here.
func Linear(v float64) float64 { return v }

// ActivationByName resolves the config spelling of an activation. The
// spellings "none" and "" are rejected: a cell without an activation never
// appends hidden states, so allowing it would silently drop every state
// sequence.
func ActivationByName(name string) (Activation, error) {
	switch name {
	case "tanh":
		return Tanh, nil
	case "sigmoid":
		return Sigmoid, nil
	case "relu":
		return ReLU, nil
	case "linear":
		return Linear, nil
	case "", "none":
		return nil, fmt.Errorf("%w: activation must be set, got %q", ErrInvalidConfig, name)
	default:
		return nil, fmt.Errorf("%w: unknown activation %q", ErrInvalidConfig, name)
	}
}
