package layers

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// ---- Activations ----

func TestActivationByName(t *testing.T) {
	tanh, err := ActivationByName("tanh")
	if err != nil {
		t.Fatal(err)
	}
	if got := tanh(0.3); got != math.Tanh(0.3) {
		t.Fatalf("tanh(0.3) = %.6g, want %.6g", got, math.Tanh(0.3))
	}
	sig, err := ActivationByName("sigmoid")
	if err != nil {
		t.Fatal(err)
	}
	if got := sig(0); got != 0.5 {
		t.Fatalf("sigmoid(0) = %.6g, want 0.5", got)
	}
	relu, err := ActivationByName("relu")
	if err != nil {
		t.Fatal(err)
	}
	if relu(-2) != 0 || relu(3) != 3 {
		t.Fatal("relu must clamp negatives and pass positives")
	}
	lin, err := ActivationByName("linear")
	if err != nil {
		t.Fatal(err)
	}
	if got := lin(3.5); got != 3.5 {
		t.Fatalf("linear(3.5) = %.6g, want 3.5", got)
	}

	for _, name := range []string{"none", "", "swish"} {
		if _, err := ActivationByName(name); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("activation %q: err = %v, want ErrInvalidConfig", name, err)
		}
	}
}

// ---- Initializers ----

func TestGlorotUniformBounds(t *testing.T) {
	init := GlorotUniform(rand.New(rand.NewSource(31)))
	m := init(30, 20)
	limit := math.Sqrt(6.0 / 50.0)
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); math.Abs(v) > limit {
				t.Fatalf("weight[%d,%d] = %.6g exceeds glorot limit %.6g", i, j, v, limit)
			}
		}
	}
}

func TestGlorotUniformSeedStable(t *testing.T) {
	a := GlorotUniform(rand.New(rand.NewSource(55)))(6, 4)
	b := GlorotUniform(rand.New(rand.NewSource(55)))(6, 4)
	if !mat.Equal(a, b) {
		t.Fatal("same seed must reproduce the same weights")
	}
}

func TestZeros(t *testing.T) {
	m := Zeros(3, 1)
	r, c := m.Dims()
	if r != 3 || c != 1 {
		t.Fatalf("zeros shape (%d x %d), want (3 x 1)", r, c)
	}
	for i := 0; i < r; i++ {
		if m.At(i, 0) != 0 {
			t.Fatalf("zeros[%d,0] = %.6g, want 0", i, m.At(i, 0))
		}
	}
}
