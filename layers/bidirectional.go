package layers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/younglimpo/Deep-NLP/utils"
)

// MergeMode selects how the two directional state sequences combine.
type MergeMode string

const (
	MergeSum    MergeMode = "sum"
	MergeMul    MergeMode = "mul"
	MergeAve    MergeMode = "ave"
	MergeConcat MergeMode = "concat"
	MergeNone   MergeMode = "none"
)

// Bidirectional runs one RecurrentCell over the input and again over the
// time-reversed input, then merges the two hidden-state sequences. Both
// passes share the cell, and with it the weights.
type Bidirectional struct {
	Cell *RecurrentCell
	Mode MergeMode
}

// NewBidirectional validates the merge mode at construction. The
// ReturnStates requirement on the cell is checked at call time.
func NewBidirectional(cell *RecurrentCell, mode MergeMode) (*Bidirectional, error) {
	if cell == nil {
		return nil, fmt.Errorf("%w: nil recurrent cell", ErrInvalidConfig)
	}
	switch mode {
	case MergeSum, MergeMul, MergeAve, MergeConcat, MergeNone:
	default:
		return nil, fmt.Errorf("%w: merge mode %q, want sum, mul, ave, concat, or none",
			ErrInvalidConfig, string(mode))
	}
	return &Bidirectional{Cell: cell, Mode: mode}, nil
}

// Initialize sizes the shared cell for the input width.
func (b *Bidirectional) Initialize(inputWidth int) error {
	return b.Cell.Initialize(inputWidth)
}

// Forward merges the two directional passes position-wise. For every mode
// but none the merged sequences land in Seq; none leaves the pair unmerged
// with forward states in Seq and backward states in Aux, both in forward
// time order.
func (b *Bidirectional) Forward(xs []*mat.Dense) (*Output, error) {
	if !b.Cell.ReturnStates {
		return nil, fmt.Errorf("%w: bidirectional needs a cell with ReturnStates set", ErrInvalidConfig)
	}
	fw, err := b.Cell.Forward(xs)
	if err != nil {
		return nil, err
	}
	rev := make([]*mat.Dense, len(xs))
	for i, x := range xs {
		rev[i] = utils.ReverseCols(x)
	}
	bw, err := b.Cell.Forward(rev)
	if err != nil {
		return nil, err
	}
	fwStates := statesOf(fw, b.Cell)
	bwStates := statesOf(bw, b.Cell)

	out := &Output{}
	for i := range fwStates {
		f := fwStates[i]
		// Backward states come out in reversed time; flip them so column t
		// lines up with input position t.
		r := utils.ReverseCols(bwStates[i])
		switch b.Mode {
		case MergeConcat:
			out.Seq = append(out.Seq, utils.Stack(f, r))
		case MergeSum:
			out.Seq = append(out.Seq, utils.ToDense(utils.Add(f, r)))
		case MergeAve:
			out.Seq = append(out.Seq, utils.ToDense(utils.Scale(0.5, utils.Add(f, r))))
		case MergeMul:
			out.Seq = append(out.Seq, utils.ToDense(utils.Multiply(f, r)))
		case MergeNone:
			out.Seq = append(out.Seq, f)
			out.Aux = append(out.Aux, r)
		}
	}
	return out, nil
}

// statesOf picks the state-sequence component, dropping outputs when the
// cell emits both.
func statesOf(o *Output, c *RecurrentCell) []*mat.Dense {
	if c.ReturnOutputs {
		return o.Aux
	}
	return o.Seq
}

// OutputWidth doubles the hidden width for concat; every other mode keeps
// it (none yields a pair of hidden-width sequences).
func (b *Bidirectional) OutputWidth(inputWidth int) (int, error) {
	w, err := b.Cell.OutputWidth(inputWidth)
	if err != nil {
		return 0, err
	}
	if b.Mode == MergeConcat {
		return 2 * w, nil
	}
	return w, nil
}
