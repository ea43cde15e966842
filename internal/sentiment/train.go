// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package sentiment

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// TrainOptions controls offline training.
type TrainOptions struct {
	Fit          FitOptions
	Epochs       int
	LearningRate float64
	L2           float64 // regularisation strength
	HoldoutRatio float64 // fraction of examples kept out for evaluation
	Seed         uint64
}

// DefaultTrainOptions returns settings that converge on a few thousand reviews.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Fit:          DefaultFitOptions(),
		Epochs:       300,
		LearningRate: 2.0,
		L2:           1e-4,
		HoldoutRatio: 0.2,
		Seed:         42,
	}
}

// Report summarises a training run.
type Report struct {
	TrainSize     int     `json:"train_size"`
	TestSize      int     `json:"test_size"`
	Features      int     `json:"features"`
	Epochs        int     `json:"epochs"`
	FinalLoss     float64 `json:"final_loss"`
	TrainAccuracy float64 `json:"train_accuracy"`
	TestAccuracy  float64 `json:"test_accuracy"`
}

// Train fits a vectorizer and a logistic regression on labelled documents.
// labels[i] is true for a positive review. The split is deterministic for a
// given seed.
func Train(docs []string, labels []bool, opts TrainOptions) (*Model, error) {
	if len(docs) != len(labels) {
		return nil, fmt.Errorf("sentiment: %d documents but %d labels", len(docs), len(labels))
	}
	if len(docs) < 2 {
		return nil, fmt.Errorf("sentiment: need at least 2 documents, got %d", len(docs))
	}
	if opts.Epochs <= 0 || opts.LearningRate <= 0 {
		return nil, fmt.Errorf("sentiment: epochs and learning rate must be positive")
	}
	if opts.HoldoutRatio < 0 || opts.HoldoutRatio >= 1 {
		return nil, fmt.Errorf("sentiment: holdout ratio %v outside [0, 1)", opts.HoldoutRatio)
	}

	order := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)).Perm(len(docs)) //nolint:gosec // reproducible split
	testSize := int(float64(len(docs)) * opts.HoldoutRatio)
	testIdx, trainIdx := order[:testSize], order[testSize:]

	trainDocs := make([]string, len(trainIdx))
	for i, j := range trainIdx {
		trainDocs[i] = docs[j]
	}
	vec, err := FitVectorizer(trainDocs, opts.Fit)
	if err != nil {
		return nil, err
	}

	x := make([]SparseVector, len(docs))
	y := make([]float64, len(docs))
	for i, d := range docs {
		x[i] = vec.Transform(d)
		if labels[i] {
			y[i] = 1
		}
	}

	m := &Model{
		Version:    modelFormatVersion,
		Vectorizer: vec,
		Weights:    make([]float64, vec.Features()),
		Threshold:  DefaultThreshold,
	}

	grad := make([]float64, vec.Features())
	n := float64(len(trainIdx))
	var loss float64
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for i := range grad {
			grad[i] = 0
		}
		var gradBias float64
		loss = 0

		for _, j := range trainIdx {
			p := m.probability(x[j])
			diff := p - y[j]
			for k, idx := range x[j].Indices {
				grad[idx] += diff * x[j].Values[k]
			}
			gradBias += diff
			loss -= y[j]*math.Log(math.Max(p, 1e-12)) + (1-y[j])*math.Log(math.Max(1-p, 1e-12))
		}

		// grad = grad/n + l2*w
		floats.Scale(1/n, grad)
		floats.AddScaled(grad, opts.L2, m.Weights)
		floats.AddScaled(m.Weights, -opts.LearningRate, grad)
		m.Bias -= opts.LearningRate * gradBias / n

		loss = loss/n + 0.5*opts.L2*floats.Dot(m.Weights, m.Weights)
	}

	m.TrainedAt = time.Now().UTC()
	m.Report = &Report{
		TrainSize:     len(trainIdx),
		TestSize:      len(testIdx),
		Features:      vec.Features(),
		Epochs:        opts.Epochs,
		FinalLoss:     loss,
		TrainAccuracy: m.accuracy(x, y, trainIdx),
		TestAccuracy:  m.accuracy(x, y, testIdx),
	}
	return m, nil
}

func (m *Model) accuracy(x []SparseVector, y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	correct := 0
	for _, j := range idx {
		if m.result(m.probability(x[j])).Positive() == (y[j] == 1) {
			correct++
		}
	}
	return float64(correct) / float64(len(idx))
}
