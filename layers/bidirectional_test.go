package layers

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/younglimpo/Deep-NLP/utils"
)

// ---- Bidirectional ----

func testStateCell(t *testing.T, hidden, inputDim int, seed int64) *RecurrentCell {
	return testCell(t, CellConfig{
		HiddenDim:    hidden,
		ReturnStates: true,
		UseBias:      true,
		Init:         GlorotUniform(rand.New(rand.NewSource(seed))),
	}, inputDim)
}

func TestBidirectionalMergeWidths(t *testing.T) {
	x := randSeq(rand.New(rand.NewSource(2)), 2, 4)
	cases := []struct {
		mode  MergeMode
		width int
	}{
		{MergeConcat, 6},
		{MergeSum, 3},
		{MergeAve, 3},
		{MergeMul, 3},
		{MergeNone, 3},
	}
	for _, tc := range cases {
		wrap, err := NewBidirectional(testStateCell(t, 3, 2, 42), tc.mode)
		if err != nil {
			t.Fatal(err)
		}
		w, err := wrap.OutputWidth(2)
		if err != nil {
			t.Fatal(err)
		}
		if w != tc.width {
			t.Fatalf("%s: OutputWidth = %d, want %d", tc.mode, w, tc.width)
		}
		out, err := wrap.Forward([]*mat.Dense{x})
		if err != nil {
			t.Fatal(err)
		}
		if r, c := out.Seq[0].Dims(); r != tc.width || c != 4 {
			t.Fatalf("%s: merged shape (%d x %d), want (%d x 4)", tc.mode, r, c, tc.width)
		}
		if tc.mode == MergeNone {
			if len(out.Aux) != 1 {
				t.Fatalf("none: want an unmerged backward sequence, got %+v", out)
			}
			if r, c := out.Aux[0].Dims(); r != 3 || c != 4 {
				t.Fatalf("none: backward shape (%d x %d), want (3 x 4)", r, c)
			}
		} else if out.Aux != nil {
			t.Fatalf("%s: unexpected Aux sequences", tc.mode)
		}
	}
}

func TestBidirectionalMergeArithmetic(t *testing.T) {
	cell := testStateCell(t, 3, 2, 7)
	x := randSeq(rand.New(rand.NewSource(8)), 2, 5)
	batch := []*mat.Dense{x}

	pair, err := mustWrap(t, cell, MergeNone).Forward(batch)
	if err != nil {
		t.Fatal(err)
	}
	f, r := pair.Seq[0], pair.Aux[0]

	sum, err := mustWrap(t, cell, MergeSum).Forward(batch)
	if err != nil {
		t.Fatal(err)
	}
	if want := utils.ToDense(utils.Add(f, r)); !mat.EqualApprox(sum.Seq[0], want, 1e-12) {
		t.Fatal("sum merge is not the element-wise sum of the two passes")
	}

	ave, err := mustWrap(t, cell, MergeAve).Forward(batch)
	if err != nil {
		t.Fatal(err)
	}
	if want := utils.ToDense(utils.Scale(0.5, utils.Add(f, r))); !mat.EqualApprox(ave.Seq[0], want, 1e-12) {
		t.Fatal("ave merge is not the element-wise mean of the two passes")
	}

	mul, err := mustWrap(t, cell, MergeMul).Forward(batch)
	if err != nil {
		t.Fatal(err)
	}
	if want := utils.ToDense(utils.Multiply(f, r)); !mat.EqualApprox(mul.Seq[0], want, 1e-12) {
		t.Fatal("mul merge is not the element-wise product of the two passes")
	}

	concat, err := mustWrap(t, cell, MergeConcat).Forward(batch)
	if err != nil {
		t.Fatal(err)
	}
	if want := utils.Stack(f, r); !mat.EqualApprox(concat.Seq[0], want, 1e-12) {
		t.Fatal("concat merge must stack forward states on top of backward states")
	}
}

// A palindromic input makes the backward pass identical to the forward
// pass, so the unmerged pair must be (states, reversed states). The
// forward component staying in forward time order is the point.
func TestBidirectionalKeepsForwardTimeOrder(t *testing.T) {
	cell := testStateCell(t, 3, 2, 13)
	x := mat.NewDense(2, 3, []float64{
		0.4, -0.9, 0.4,
		1.1, 0.3, 1.1,
	})

	direct, err := cell.Forward([]*mat.Dense{x})
	if err != nil {
		t.Fatal(err)
	}
	states := direct.Seq[0]

	out, err := mustWrap(t, cell, MergeNone).Forward([]*mat.Dense{x})
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(out.Seq[0], states) {
		t.Fatal("forward states were reordered by the wrapper")
	}
	if !mat.Equal(out.Aux[0], utils.ReverseCols(states)) {
		t.Fatal("backward states are not in forward time order")
	}
}

func TestBidirectionalDropsOutputComponent(t *testing.T) {
	cell := testCell(t, CellConfig{
		HiddenDim:     2,
		ReturnOutputs: true,
		ReturnStates:  true,
		UseBias:       true,
		Init:          GlorotUniform(rand.New(rand.NewSource(17))),
	}, 2)
	x := randSeq(rand.New(rand.NewSource(18)), 2, 4)

	direct, err := cell.Forward([]*mat.Dense{x})
	if err != nil {
		t.Fatal(err)
	}
	out, err := mustWrap(t, cell, MergeNone).Forward([]*mat.Dense{x})
	if err != nil {
		t.Fatal(err)
	}
	// The wrapper must merge hidden states (Aux of the both-flags cell),
	// never the softmax outputs.
	if !mat.Equal(out.Seq[0], direct.Aux[0]) {
		t.Fatal("wrapper merged something other than the state sequences")
	}
}

func TestBidirectionalInvalidMergeMode(t *testing.T) {
	cell := testStateCell(t, 2, 2, 1)
	_, err := NewBidirectional(cell, MergeMode("xor"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("merge mode xor: err = %v, want ErrInvalidConfig", err)
	}
	if !strings.Contains(err.Error(), "xor") {
		t.Fatalf("error %q does not name the offending mode", err)
	}
	if _, err := NewBidirectional(nil, MergeSum); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("nil cell: err = %v, want ErrInvalidConfig", err)
	}
}

func TestBidirectionalRequiresStateSequences(t *testing.T) {
	cell := testCell(t, CellConfig{
		HiddenDim: 2,
		Init:      GlorotUniform(rand.New(rand.NewSource(19))),
	}, 2)
	wrap, err := NewBidirectional(cell, MergeConcat)
	if err != nil {
		t.Fatal(err)
	}
	x := randSeq(rand.New(rand.NewSource(20)), 2, 3)
	if _, err := wrap.Forward([]*mat.Dense{x}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("cell without ReturnStates: err = %v, want ErrInvalidConfig", err)
	}
}

func mustWrap(t *testing.T, cell *RecurrentCell, mode MergeMode) *Bidirectional {
	wrap, err := NewBidirectional(cell, mode)
	if err != nil {
		t.Fatal(err)
	}
	return wrap
}
