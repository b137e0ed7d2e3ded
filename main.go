package main

import (
	"flag"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/younglimpo/Deep-NLP/layers"
	"github.com/younglimpo/Deep-NLP/params"
	"github.com/younglimpo/Deep-NLP/utils"
)

var (
	vocabFlag       int
	dimFlag         int
	hiddenFlag      int
	mergeFlag       string
	activationFlag  string
	seqFlag         int
	batchFlag       int
	seedFlag        int64
	noBiasFlag      bool
	interactiveFlag bool
)

func init() {
	flag.IntVar(&vocabFlag, "vocab", params.Config.VocabSize, "vocabulary size")
	flag.IntVar(&dimFlag, "dim", params.Config.ModelDim, "embedding width")
	flag.IntVar(&hiddenFlag, "hidden", params.Config.HiddenDim, "recurrent state width")
	flag.StringVar(&mergeFlag, "merge", params.Config.MergeMode, "bidirectional merge mode (sum|mul|ave|concat|none)")
	flag.StringVar(&activationFlag, "activation", params.Config.Activation, "cell activation (tanh|sigmoid|relu|linear)")
	flag.IntVar(&seqFlag, "seq", params.Config.SeqLen, "time steps per sequence")
	flag.IntVar(&batchFlag, "batch", params.Config.BatchSize, "sequences per forward pass")
	flag.Int64Var(&seedFlag, "seed", params.Config.Seed, "rng seed for weights and synthetic ids")
	flag.BoolVar(&noBiasFlag, "no-bias", false, "disable the recurrent biases")
	flag.BoolVar(&interactiveFlag, "interactive", false, "read id sequences from stdin instead of the batch demo")
}

// pipeline owns the layer stack plus the demo classification head
// (global average pooling, a relu dense stage, a softmax dense stage).
type pipeline struct {
	emb  *layers.TokenEmbedding
	wrap *layers.Bidirectional

	stack []layers.Layer

	W1, B1 *mat.Dense // (HeadHidden x mergedWidth)
	W2, B2 *mat.Dense // (NumClasses x HeadHidden)
}

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := params.Config
	cfg.VocabSize = vocabFlag
	cfg.ModelDim = dimFlag
	cfg.HiddenDim = hiddenFlag
	cfg.MergeMode = mergeFlag
	cfg.Activation = activationFlag
	cfg.SeqLen = seqFlag
	cfg.BatchSize = batchFlag
	cfg.Seed = seedFlag
	cfg.UseBias = !noBiasFlag

	p, err := buildPipeline(cfg)
	if err != nil {
		log.WithError(err).Fatal("configuration rejected")
	}
	log.WithFields(logrus.Fields{
		"vocab":  cfg.VocabSize,
		"dim":    cfg.ModelDim,
		"hidden": cfg.HiddenDim,
		"merge":  cfg.MergeMode,
		"act":    cfg.Activation,
	}).Info("pipeline ready")

	if interactiveFlag {
		ClassifyCLI(log, p, cfg)
		return
	}
	runDemo(log, p, cfg)
}

func buildPipeline(cfg params.ModelConfig) (*pipeline, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	act, err := layers.ActivationByName(cfg.Activation)
	if err != nil {
		return nil, err
	}
	emb, err := layers.NewTokenEmbedding(cfg.VocabSize, cfg.ModelDim, layers.GlorotUniform(rng))
	if err != nil {
		return nil, err
	}
	cell, err := layers.NewRecurrentCell(layers.CellConfig{
		HiddenDim:    cfg.HiddenDim,
		Activation:   act,
		ReturnStates: true,
		UseBias:      cfg.UseBias,
		Init:         layers.GlorotUniform(rng),
	})
	if err != nil {
		return nil, err
	}
	wrap, err := layers.NewBidirectional(cell, layers.MergeMode(cfg.MergeMode))
	if err != nil {
		return nil, err
	}

	p := &pipeline{emb: emb, wrap: wrap, stack: []layers.Layer{emb, wrap}}

	// Initialize bottom-up, threading the inferred width through the stack.
	width := 1 // ids are scalar per step
	for _, l := range p.stack {
		if err := l.Initialize(width); err != nil {
			return nil, err
		}
		if width, err = l.OutputWidth(width); err != nil {
			return nil, err
		}
	}

	glorot := layers.GlorotUniform(rng)
	p.W1 = glorot(cfg.HeadHidden, width)
	p.B1 = layers.Zeros(cfg.HeadHidden, 1)
	p.W2 = glorot(cfg.NumClasses, cfg.HeadHidden)
	p.B2 = layers.Zeros(cfg.NumClasses, 1)
	return p, nil
}

// classify runs the stack and the head, returning one probability column
// per sequence. With merge mode none only the forward half feeds the head.
func (p *pipeline) classify(ids []*mat.Dense) ([]*mat.Dense, error) {
	out := &layers.Output{Seq: ids}
	for _, l := range p.stack {
		var err error
		if out, err = l.Forward(out.Seq); err != nil {
			return nil, err
		}
	}
	probs := make([]*mat.Dense, len(out.Seq))
	for i, seq := range out.Seq {
		pooled := utils.RowMeans(seq)
		hidden := utils.AddBias(utils.ToDense(utils.Dot(p.W1, pooled)), p.B1)
		hidden = utils.ToDense(utils.Apply(func(_, _ int, v float64) float64 {
			return layers.ReLU(v)
		}, hidden))
		logits := utils.AddBias(utils.ToDense(utils.Dot(p.W2, hidden)), p.B2)
		probs[i] = utils.ColVectorSoftmax(logits)
	}
	return probs, nil
}

func runDemo(log *logrus.Logger, p *pipeline, cfg params.ModelConfig) {
	rng := rand.New(rand.NewSource(cfg.Seed + 1))
	ids := make([]*mat.Dense, cfg.BatchSize)
	for i := range ids {
		data := make([]float64, cfg.SeqLen)
		for t := range data {
			data[t] = float64(rng.Intn(cfg.VocabSize))
		}
		ids[i] = mat.NewDense(1, cfg.SeqLen, data)
	}

	log.WithFields(logrus.Fields{
		"batch":    cfg.BatchSize,
		"seq":      cfg.SeqLen,
		"emb_norm": mat.Norm(p.emb.Table, 2),
		"U_norm":   mat.Norm(p.wrap.Cell.U, 2),
		"W_norm":   mat.Norm(p.wrap.Cell.W, 2),
	}).Info("running forward pass on synthetic ids")

	t1 := time.Now()
	probs, err := p.classify(ids)
	if err != nil {
		log.WithError(err).Fatal("forward pass failed")
	}
	elapsed := time.Since(t1)

	for i, pr := range probs {
		col := mat.Col(nil, 0, pr)
		class := floats.MaxIdx(col)
		log.WithFields(logrus.Fields{
			"sequence":   i,
			"class":      class,
			"confidence": col[class],
		}).Info("prediction")
	}
	log.WithField("elapsed", elapsed).Info("forward pass complete")
}
