// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

/*
Package sentiment scores movie review text as positive or negative.

The Classifier interface is the only thing callers depend on. The bundled
implementation is a TF-IDF vectorizer feeding a logistic regression, trained
offline by Train and stored as a JSON artifact.
*/
package sentiment

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Labels produced by the classifier.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
)

// DefaultThreshold is the probability at or above which text is positive.
const DefaultThreshold = 0.5

const modelFormatVersion = 1

// ErrEmptyText is returned when there is nothing to score.
var ErrEmptyText = errors.New("sentiment: empty text")

// Result is the classification of one piece of text.
type Result struct {
	Label      string  `json:"label"`
	Score      float64 `json:"score"` // P(positive)
	Confidence float64 `json:"confidence"`
}

// Positive reports whether the result is labelled positive.
func (r Result) Positive() bool {
	return r.Label == LabelPositive
}

// Classifier scores a piece of text.
type Classifier interface {
	Score(text string) (Result, error)
}

// Model is a logistic regression over TF-IDF features.
type Model struct {
	Version    int         `json:"version"`
	Vectorizer *Vectorizer `json:"vectorizer"`
	Weights    []float64   `json:"weights"`
	Bias       float64     `json:"bias"`
	Threshold  float64     `json:"threshold"`
	TrainedAt  time.Time   `json:"trained_at"`
	Report     *Report     `json:"report,omitempty"`
}

var _ Classifier = (*Model)(nil)

// Score returns sigmoid(w·x + b) as the probability of a positive review.
func (m *Model) Score(text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyText
	}
	p := m.probability(m.Vectorizer.Transform(text))
	return m.result(p), nil
}

func (m *Model) probability(x SparseVector) float64 {
	return sigmoid(x.Dot(m.Weights) + m.Bias)
}

func (m *Model) result(p float64) Result {
	threshold := m.Threshold
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	r := Result{Label: LabelNegative, Score: p, Confidence: 1 - p}
	if p >= threshold {
		r.Label = LabelPositive
		r.Confidence = p
	}
	return r
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// Load reads a model artifact written by Save.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sentiment model: %w", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode sentiment model %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("sentiment model %s: %w", path, err)
	}
	return &m, nil
}

func (m *Model) validate() error {
	if m.Version != modelFormatVersion {
		return fmt.Errorf("unsupported format version %d", m.Version)
	}
	if m.Vectorizer == nil {
		return fmt.Errorf("missing vectorizer")
	}
	if err := m.Vectorizer.validate(); err != nil {
		return err
	}
	if len(m.Weights) != m.Vectorizer.Features() {
		return fmt.Errorf("%d weights for %d features", len(m.Weights), m.Vectorizer.Features())
	}
	return nil
}

// Save writes the model atomically.
func (m *Model) Save(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode sentiment model: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sentiment-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write sentiment model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close sentiment model: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
