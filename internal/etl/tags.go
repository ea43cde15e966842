// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package etl

import (
	"sort"
	"strings"

	"github.com/tomtom215/perfectpitch/internal/catalog"
	"github.com/tomtom215/perfectpitch/internal/textproc"
)

// DefaultMaxFeatures caps the bag-of-words vocabulary.
const DefaultMaxFeatures = 5000

// Tags returns the lowercase, stop-word-free tokens describing a movie:
// overview words plus genres, keywords, cast and director. Multi-word names
// are collapsed ("Sam Worthington" becomes "samworthington") so each person
// or genre counts as one term.
func Tags(m catalog.Movie) []string {
	var b strings.Builder
	b.WriteString(m.Overview)
	for _, list := range [][]string{m.Genres, m.Keywords, m.Cast, m.Crew} {
		for _, name := range list {
			b.WriteByte(' ')
			b.WriteString(collapse(name))
		}
	}
	return textproc.RemoveStopWords(textproc.Tokenize(b.String(), true))
}

func collapse(name string) string {
	return strings.Join(strings.Fields(name), "")
}

// Vocabulary maps terms to feature columns, in sorted term order.
type Vocabulary struct {
	Terms []string
	index map[string]int
}

// Index returns the column of term, or -1.
func (v *Vocabulary) Index(term string) int {
	if i, ok := v.index[term]; ok {
		return i
	}
	return -1
}

// Len returns the number of feature columns.
func (v *Vocabulary) Len() int {
	return len(v.Terms)
}

// Vectorize builds term-count vectors over the maxFeatures most frequent
// terms of the corpus. Ties in frequency are broken alphabetically.
// maxFeatures <= 0 keeps every term.
func Vectorize(docs [][]string, maxFeatures int) (*Vocabulary, [][]float64) {
	freq := make(map[string]int)
	for _, doc := range docs {
		for _, t := range doc {
			freq[t]++
		}
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if freq[terms[i]] != freq[terms[j]] {
				return freq[terms[i]] > freq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	vocab := &Vocabulary{Terms: terms, index: make(map[string]int, len(terms))}
	for i, t := range terms {
		vocab.index[t] = i
	}

	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		row := make([]float64, len(terms))
		for _, t := range doc {
			if j, ok := vocab.index[t]; ok {
				row[j]++
			}
		}
		vectors[i] = row
	}
	return vocab, vectors
}
