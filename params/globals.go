package params

// ModelConfig collects the hyperparameters for the embedding, the recurrent
// cell, the bidirectional merge, and the demo classification head.
type ModelConfig struct {
	// Core layer parameters
	VocabSize int    // |V|, rows of the embedding table
	ModelDim  int    // embedding width
	HiddenDim int    // recurrent state width
	MergeMode string // sum | mul | ave | concat | none

	Activation string // tanh | sigmoid | relu | linear
	UseBias    bool

	// Demo pipeline parameters
	SeqLen     int   // time steps per sequence
	BatchSize  int   // sequences per forward pass
	HeadHidden int   // width of the relu dense stage in the demo head
	NumClasses int   // softmax width of the demo head
	Seed       int64 // rng seed for weight init and synthetic ids
}

// Reasonable defaults for small experiments
var Config = ModelConfig{
	VocabSize: 5000,
	ModelDim:  64,
	HiddenDim: 64,
	MergeMode: "concat",

	Activation: "tanh",
	UseBias:    true,

	SeqLen:     256,
	BatchSize:  4,
	HeadHidden: 10,
	NumClasses: 2,
	Seed:       42,
}
