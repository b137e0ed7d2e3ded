package layers

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Initializer fills a freshly allocated (r x c) parameter matrix.
// Layers take one at construction so callers can pin seeds.
type Initializer func(r, c int) *mat.Dense

// GlorotUniform draws uniformly from ±sqrt(6/(fanIn+fanOut)), fanIn = r,
// fanOut = c. A nil rng uses the shared math/rand source.
func GlorotUniform(rng *rand.Rand) Initializer {
	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}
	return func(r, c int) *mat.Dense {
		limit := math.Sqrt(6.0 / float64(r+c))
		data := make([]float64, r*c)
		for i := range data {
			data[i] = (uniform()*2 - 1) * limit
		}
		return mat.NewDense(r, c, data)
	}
}

// Zeros returns a zero-filled (r x c) matrix. Biases always use it.
func Zeros(r, c int) *mat.Dense {
	return mat.NewDense(r, c, nil)
}
