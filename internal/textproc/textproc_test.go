// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package textproc

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		lowercase bool
		want      []string
	}{
		{"drops single chars", "A great film, I loved it!", true, []string{"great", "film", "loved", "it"}},
		{"keeps case", "Dark Knight", false, []string{"Dark", "Knight"}},
		{"unicode letters", "Amélie déçu", true, []string{"amélie", "déçu"}},
		{"empty", "", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Tokenize(tt.text, tt.lowercase); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRemoveStopWords(t *testing.T) {
	t.Parallel()

	got := RemoveStopWords([]string{"the", "film", "was", "The", "best"})
	if !reflect.DeepEqual(got, []string{"film", "best"}) {
		t.Errorf("RemoveStopWords() = %v", got)
	}
}

func TestNgrams(t *testing.T) {
	t.Parallel()

	got := Ngrams([]string{"not", "good", "film"}, 2)
	want := []string{"not", "good", "film", "not good", "good film"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ngrams() = %v, want %v", got, want)
	}
	if got := Ngrams([]string{"x"}, 1); len(got) != 1 {
		t.Errorf("unigrams should pass through, got %v", got)
	}
}
