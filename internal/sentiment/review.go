// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package sentiment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tomtom215/perfectpitch/internal/metrics"
)

// SentenceScore is the classification of one sentence of a review.
type SentenceScore struct {
	Text   string `json:"text"`
	Result Result `json:"result"`
}

// ReviewScore holds per-sentence results and the result for the whole text.
type ReviewScore struct {
	Sentences []SentenceScore `json:"sentences"`
	Overall   Result          `json:"overall"`
}

// SplitSentences breaks text at sentence-ending punctuation followed by
// whitespace, and at line breaks. Punctuation stays with its sentence.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' || r == '\r' {
			flush()
			continue
		}
		b.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Absorb runs such as "?!" or "...".
		for i+1 < len(runes) && strings.ContainsRune(".!?", runes[i+1]) {
			i++
			b.WriteRune(runes[i])
		}
		if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
			flush()
		}
	}
	flush()
	return sentences
}

// ScoreReview scores every sentence of text and the text as a whole.
func ScoreReview(c Classifier, text string) (*ReviewScore, error) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil, ErrEmptyText
	}

	overall, err := c.Score(text)
	if err != nil {
		return nil, fmt.Errorf("score review: %w", err)
	}

	out := &ReviewScore{Sentences: make([]SentenceScore, 0, len(sentences)), Overall: overall}
	for _, s := range sentences {
		r, err := c.Score(s)
		if err != nil {
			return nil, fmt.Errorf("score sentence %q: %w", s, err)
		}
		out.Sentences = append(out.Sentences, SentenceScore{Text: s, Result: r})
	}
	metrics.SentimentPredictions.WithLabelValues(overall.Label).Inc()
	return out, nil
}
