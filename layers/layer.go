// Package layers implements the scaled token embedding, the vanilla
// recurrent cell, and the bidirectional wrapper as forward-only layers
// over gonum matrices. Sequences are (d x T): feature vectors as columns,
// time along the column axis; a batch is one matrix per sequence.
package layers

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidConfig marks layer configuration rejected by constructors,
// Initialize, or call-time preconditions. Match it with errors.Is.
var ErrInvalidConfig = errors.New("invalid layer configuration")

// Layer is the contract shared by the layers in this package: allocate
// parameters for a known input width, evaluate a batch, and report the
// produced feature width. Time length is preserved by every layer, so
// width is the only inferred dimension.
type Layer interface {
	Initialize(inputWidth int) error
	Forward(xs []*mat.Dense) (*Output, error)
	OutputWidth(inputWidth int) (int, error)
}

// Output carries the tensors a forward pass emits. Which fields are set
// depends on the layer and its flags; see the Forward doc of each layer.
type Output struct {
	// Seq holds the primary per-step sequences, one (width x T) matrix per
	// input sequence: embedded vectors, hidden states, softmax outputs, or
	// merged states.
	Seq []*mat.Dense
	// Aux holds the secondary sequences when a layer emits a pair: hidden
	// states alongside softmax outputs, or the backward half of an unmerged
	// bidirectional pass.
	Aux []*mat.Dense
	// Final holds the last hidden state as a (width x 1) column per
	// sequence, set when a cell was asked for no per-step sequences.
	Final []*mat.Dense
}
