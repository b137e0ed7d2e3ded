package layers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/younglimpo/Deep-NLP/utils"
)

// TokenEmbedding maps integer token ids to learned vectors scaled by
// sqrt(ModelDim).
type TokenEmbedding struct {
	VocabSize int
	ModelDim  int

	// Table is (VocabSize x ModelDim), one row per token id. Allocated by
	// Initialize; forward passes never write to it.
	Table *mat.Dense

	init Initializer
}

// NewTokenEmbedding validates the configured sizes. A nil init selects
// Glorot-uniform over the shared rng.
func NewTokenEmbedding(vocabSize, modelDim int, init Initializer) (*TokenEmbedding, error) {
	if vocabSize <= 0 || modelDim <= 0 {
		return nil, fmt.Errorf("%w: vocab size %d and model dim %d must be positive",
			ErrInvalidConfig, vocabSize, modelDim)
	}
	if init == nil {
		init = GlorotUniform(nil)
	}
	return &TokenEmbedding{VocabSize: vocabSize, ModelDim: modelDim, init: init}, nil
}

// Initialize allocates the table. The input width is ignored: ids are
// scalar per step and the table shape comes from the configuration.
func (e *TokenEmbedding) Initialize(inputWidth int) error {
	e.Table = e.init(e.VocabSize, e.ModelDim)
	return nil
}

// Forward embeds one (1 x T) id matrix per sequence into (ModelDim x T).
// Stored floats are truncated to integer ids before lookup; ids outside
// the table fail with the matrix access, they are not guarded here.
func (e *TokenEmbedding) Forward(xs []*mat.Dense) (*Output, error) {
	if e.Table == nil {
		return nil, fmt.Errorf("%w: TokenEmbedding forward before Initialize", ErrInvalidConfig)
	}
	scale := math.Sqrt(float64(e.ModelDim))
	out := make([]*mat.Dense, len(xs))
	for s, ids := range xs {
		r, T := ids.Dims()
		if r != 1 {
			return nil, fmt.Errorf("%w: id sequences must be (1 x T), got (%d x %d)",
				ErrInvalidConfig, r, T)
		}
		emb := mat.NewDense(e.ModelDim, T, nil)
		for t := 0; t < T; t++ {
			id := int(ids.At(0, t)) // truncating cast
			for i := 0; i < e.ModelDim; i++ {
				emb.Set(i, t, e.Table.At(id, i))
			}
		}
		out[s] = utils.ToDense(utils.Scale(scale, emb))
	}
	return &Output{Seq: out}, nil
}

// OutputWidth is ModelDim for any input.
func (e *TokenEmbedding) OutputWidth(inputWidth int) (int, error) {
	return e.ModelDim, nil
}
