// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

// Package reviews stores user-submitted movie reviews together with their
// sentiment scores.
package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/perfectpitch/internal/sentiment"
)

// ErrStoreClosed is returned by stores used after Close.
var ErrStoreClosed = errors.New("review store closed")

// Review is one scored review.
type Review struct {
	ID        string                    `json:"id" bson:"_id"`
	MovieID   int64                     `json:"movie_id" bson:"movie_id"`
	Text      string                    `json:"text" bson:"text"`
	Sentences []sentiment.SentenceScore `json:"sentences" bson:"sentences"`
	Overall   sentiment.Result          `json:"overall" bson:"overall"`
	CreatedAt time.Time                 `json:"created_at" bson:"created_at"`
}

// Summary aggregates the reviews of one movie.
type Summary struct {
	MovieID   int64   `json:"movie_id"`
	Count     int     `json:"count"`
	Positive  int     `json:"positive"`
	Negative  int     `json:"negative"`
	MeanScore float64 `json:"mean_score"`
}

// Add folds one review into the summary.
func (s *Summary) Add(r *Review) {
	s.MeanScore = (s.MeanScore*float64(s.Count) + r.Overall.Score) / float64(s.Count+1)
	s.Count++
	if r.Overall.Positive() {
		s.Positive++
	} else {
		s.Negative++
	}
}

// Store persists reviews. Implementations must be safe for concurrent use.
type Store interface {
	// Put stores a new review.
	Put(ctx context.Context, r *Review) error

	// List returns up to limit reviews of a movie, newest first.
	List(ctx context.Context, movieID int64, limit int) ([]Review, error)

	// Summary aggregates every review of a movie.
	Summary(ctx context.Context, movieID int64) (Summary, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and metrics.
	Name() string

	Close() error
}
