package layers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/younglimpo/Deep-NLP/utils"
)

// CellConfig configures a RecurrentCell. A nil Activation means Tanh; a
// nil Init means Glorot-uniform over the shared rng.
type CellConfig struct {
	HiddenDim     int
	Activation    Activation
	ReturnOutputs bool
	ReturnStates  bool
	UseBias       bool
	Init          Initializer
}

// RecurrentCell is a single-layer vanilla RNN:
//
//	a_t = x_t·U + h_(t-1)·W (+ b)
//	h_t = activation(a_t)
//	o_t = softmax(h_t·V (+ c))   when ReturnOutputs
//
// with h_(-1) = 0. Parameter shapes follow the math: U (inputDim x H),
// W (H x H), V (H x H), biases (H x 1).
type RecurrentCell struct {
	HiddenDim     int
	ReturnOutputs bool
	ReturnStates  bool
	UseBias       bool

	// Parameters, allocated by Initialize. V and C exist only with
	// ReturnOutputs; B and C only with UseBias.
	U *mat.Dense
	W *mat.Dense
	B *mat.Dense
	V *mat.Dense
	C *mat.Dense

	act  Activation
	init Initializer
}

func NewRecurrentCell(cfg CellConfig) (*RecurrentCell, error) {
	if cfg.HiddenDim <= 0 {
		return nil, fmt.Errorf("%w: hidden dim %d must be positive", ErrInvalidConfig, cfg.HiddenDim)
	}
	act := cfg.Activation
	if act == nil {
		act = Tanh
	}
	init := cfg.Init
	if init == nil {
		init = GlorotUniform(nil)
	}
	return &RecurrentCell{
		HiddenDim:     cfg.HiddenDim,
		ReturnOutputs: cfg.ReturnOutputs,
		ReturnStates:  cfg.ReturnStates,
		UseBias:       cfg.UseBias,
		act:           act,
		init:          init,
	}, nil
}

// Initialize allocates U, W and the optional projection/biases for the
// given input feature width.
func (c *RecurrentCell) Initialize(inputWidth int) error {
	if inputWidth <= 0 {
		return fmt.Errorf("%w: input width %d must be positive", ErrInvalidConfig, inputWidth)
	}
	c.U = c.init(inputWidth, c.HiddenDim)
	c.W = c.init(c.HiddenDim, c.HiddenDim)
	if c.UseBias {
		c.B = Zeros(c.HiddenDim, 1)
	}
	if c.ReturnOutputs {
		c.V = c.init(c.HiddenDim, c.HiddenDim)
		if c.UseBias {
			c.C = Zeros(c.HiddenDim, 1)
		}
	}
	return nil
}

// Forward runs the recurrence over each (inputDim x T) sequence. Output
// fields follow the return priority:
//
//	ReturnOutputs && ReturnStates -> Seq = outputs, Aux = states
//	ReturnStates                  -> Seq = states
//	ReturnOutputs                 -> Seq = outputs
//	neither                       -> Final = last hidden state
func (c *RecurrentCell) Forward(xs []*mat.Dense) (*Output, error) {
	if c.U == nil {
		return nil, fmt.Errorf("%w: RecurrentCell forward before Initialize", ErrInvalidConfig)
	}
	out := &Output{}
	for _, x := range xs {
		states := c.run(x)
		var outputs *mat.Dense
		if c.ReturnOutputs {
			// o_t depends only on h_t, so the whole sequence projects at once.
			proj := utils.ToDense(utils.Dot(c.V.T(), states))
			if c.UseBias {
				proj = utils.AddBias(proj, c.C)
			}
			outputs = utils.ColSoftmax(proj)
		}
		switch {
		case c.ReturnOutputs && c.ReturnStates:
			out.Seq = append(out.Seq, outputs)
			out.Aux = append(out.Aux, states)
		case c.ReturnStates:
			out.Seq = append(out.Seq, states)
		case c.ReturnOutputs:
			out.Seq = append(out.Seq, outputs)
		default:
			out.Final = append(out.Final, utils.LastCol(states))
		}
	}
	return out, nil
}

// run computes the (HiddenDim x T) state sequence for one input.
func (c *RecurrentCell) run(x *mat.Dense) *mat.Dense {
	_, T := x.Dims()
	H := c.HiddenDim

	// Input contributions for every step at once: U^T·x is (H x T).
	pre := utils.ToDense(utils.Dot(c.U.T(), x))
	if c.UseBias {
		pre = utils.AddBias(pre, c.B)
	}

	states := mat.NewDense(H, T, nil)
	h := mat.NewVecDense(H, nil) // h_(-1) = 0
	a := mat.NewVecDense(H, nil)
	for t := 0; t < T; t++ {
		a.MulVec(c.W.T(), h)
		a.AddVec(a, pre.ColView(t))
		for i := 0; i < H; i++ {
			h.SetVec(i, c.act(a.AtVec(i)))
			states.Set(i, t, h.AtVec(i))
		}
	}
	return states
}

// OutputWidth is HiddenDim: states, outputs, and the final state all have
// the hidden width.
func (c *RecurrentCell) OutputWidth(inputWidth int) (int, error) {
	return c.HiddenDim, nil
}
