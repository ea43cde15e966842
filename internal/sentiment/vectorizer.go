// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package sentiment

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/perfectpitch/internal/textproc"
)

// Vectorizer turns text into L2-normalised TF-IDF vectors over a fixed
// vocabulary. IDF is smoothed: ln((1+n)/(1+df)) + 1.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Lowercase  bool           `json:"lowercase"`
	StopWords  bool           `json:"stop_words"`
	NgramMax   int            `json:"ngram_max"`
}

// SparseVector holds the non-zero entries of a document vector, sorted by index.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Dot returns the dot product with a dense weight vector.
func (v SparseVector) Dot(dense []float64) float64 {
	var sum float64
	for k, i := range v.Indices {
		sum += v.Values[k] * dense[i]
	}
	return sum
}

// FitOptions controls vocabulary construction.
type FitOptions struct {
	Lowercase   bool
	StopWords   bool
	NgramMax    int
	MinDF       int // minimum number of documents a term must appear in
	MaxFeatures int // 0 keeps every term
}

// DefaultFitOptions returns unigram, lowercase, stop-word filtered settings.
func DefaultFitOptions() FitOptions {
	return FitOptions{Lowercase: true, StopWords: true, NgramMax: 1, MinDF: 1}
}

// terms returns the analysed terms of text.
func (v *Vectorizer) terms(text string) []string {
	tokens := textproc.Tokenize(text, v.Lowercase)
	if v.StopWords {
		tokens = textproc.RemoveStopWords(tokens)
	}
	return textproc.Ngrams(tokens, v.NgramMax)
}

// FitVectorizer learns the vocabulary and IDF weights of docs.
func FitVectorizer(docs []string, opts FitOptions) (*Vectorizer, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("sentiment: no documents to fit")
	}
	if opts.NgramMax < 1 {
		opts.NgramMax = 1
	}
	if opts.MinDF < 1 {
		opts.MinDF = 1
	}

	v := &Vectorizer{Lowercase: opts.Lowercase, StopWords: opts.StopWords, NgramMax: opts.NgramMax}

	df := make(map[string]int)
	tf := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range v.terms(doc) {
			tf[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	kept := make([]string, 0, len(df))
	for term, n := range df {
		if n >= opts.MinDF {
			kept = append(kept, term)
		}
	}
	if opts.MaxFeatures > 0 && len(kept) > opts.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if tf[kept[i]] != tf[kept[j]] {
				return tf[kept[i]] > tf[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:opts.MaxFeatures]
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("sentiment: empty vocabulary")
	}
	sort.Strings(kept)

	n := float64(len(docs))
	v.Vocabulary = make(map[string]int, len(kept))
	v.IDF = make([]float64, len(kept))
	for i, term := range kept {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v, nil
}

// Features returns the vocabulary size.
func (v *Vectorizer) Features() int {
	return len(v.IDF)
}

// Transform returns the TF-IDF vector of text. Unknown terms are ignored.
func (v *Vectorizer) Transform(text string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range v.terms(text) {
		if i, ok := v.Vocabulary[term]; ok {
			counts[i]++
		}
	}

	vec := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for i := range counts {
		vec.Indices = append(vec.Indices, i)
	}
	sort.Ints(vec.Indices)
	for _, i := range vec.Indices {
		vec.Values = append(vec.Values, counts[i]*v.IDF[i])
	}

	if norm := floats.Norm(vec.Values, 2); norm > 0 {
		floats.Scale(1/norm, vec.Values)
	}
	return vec
}

// validate checks a decoded vectorizer for internal consistency.
func (v *Vectorizer) validate() error {
	if len(v.IDF) == 0 {
		return fmt.Errorf("vectorizer has no features")
	}
	if len(v.Vocabulary) != len(v.IDF) {
		return fmt.Errorf("vocabulary has %d terms but %d idf weights", len(v.Vocabulary), len(v.IDF))
	}
	for term, i := range v.Vocabulary {
		if i < 0 || i >= len(v.IDF) {
			return fmt.Errorf("term %q has index %d out of range", term, i)
		}
	}
	if v.NgramMax < 1 {
		v.NgramMax = 1
	}
	return nil
}
