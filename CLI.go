package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/younglimpo/Deep-NLP/params"
	"github.com/younglimpo/Deep-NLP/utils"
)

// ClassifyCLI reads whitespace-separated token ids from stdin and runs
// each line through the pipeline as one sequence.
func ClassifyCLI(log *logrus.Logger, p *pipeline, cfg params.ModelConfig) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Token-id classifier. Enter ids like '12 7 430'; type 'exit' to quit.")
	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "exit" {
			break
		}
		if input == "" {
			continue
		}

		data, err := parseIDs(input, cfg.VocabSize)
		if err != nil {
			fmt.Println(err)
			continue
		}
		ids := mat.NewDense(1, len(data), data)
		probs, err := p.classify([]*mat.Dense{ids})
		if err != nil {
			log.WithError(err).Error("forward pass failed")
			continue
		}
		utils.PrintMatrix(probs[0], "class probabilities")
		col := mat.Col(nil, 0, probs[0])
		fmt.Printf("predicted class: %d\n", floats.MaxIdx(col))
	}
}

// parseIDs splits a line into token ids, rejecting anything outside the
// vocabulary.
func parseIDs(input string, vocabSize int) ([]float64, error) {
	fields := strings.Fields(input)
	data := make([]float64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil || id < 0 || id >= vocabSize {
			return nil, fmt.Errorf("bad token id %q (want 0..%d)", f, vocabSize-1)
		}
		data = append(data, float64(id))
	}
	return data, nil
}
