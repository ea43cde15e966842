// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package reviews

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/perfectpitch/internal/metrics"
	"github.com/tomtom215/perfectpitch/internal/sentiment"
	"github.com/tomtom215/perfectpitch/internal/validation"
)

var (
	// ErrMovieNotFound is returned when reviewing a movie outside the catalog.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrClassifierUnavailable is returned when no sentiment model is loaded.
	ErrClassifierUnavailable = errors.New("sentiment classifier unavailable")
)

// MovieLookup reports whether a movie exists.
type MovieLookup interface {
	HasMovie(id int64) bool
}

// SubmitInput is a review submission.
type SubmitInput struct {
	MovieID int64  `json:"movie_id" validate:"required,gt=0"`
	Text    string `json:"text" validate:"required,notblank"`
}

// ScoreInput is a request to score text without storing it.
type ScoreInput struct {
	Text string `json:"text" validate:"required,notblank"`
}

// Options configures the Service.
type Options struct {
	MaxTextLength int
	ListLimit     int
}

// Service scores and stores reviews.
type Service struct {
	store  Store
	movies MovieLookup
	opts   Options
	logger zerolog.Logger
	now    func() time.Time

	mu         sync.RWMutex
	classifier sentiment.Classifier
}

// NewService creates a review service. classifier may be nil until a model
// is loaded with SetClassifier.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(store Store, movies MovieLookup, classifier sentiment.Classifier, opts Options, logger zerolog.Logger) *Service {
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = 5000
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = 50
	}
	return &Service{
		store:      store,
		movies:     movies,
		classifier: classifier,
		opts:       opts,
		logger:     logger.With().Str("component", "reviews").Str("store", store.Name()).Logger(),
		now:        time.Now,
	}
}

// SetClassifier swaps the sentiment model.
func (s *Service) SetClassifier(c sentiment.Classifier) {
	s.mu.Lock()
	s.classifier = c
	s.mu.Unlock()
}

// ClassifierReady reports whether a model is loaded.
func (s *Service) ClassifierReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classifier != nil
}

// ListLimit returns the maximum page size of List.
func (s *Service) ListLimit() int {
	return s.opts.ListLimit
}

// Store returns the backing store.
func (s *Service) Store() Store {
	return s.store
}

func (s *Service) validateText(text string) error {
	if verr := validation.ValidateField("text", text, "maxrunes="+strconv.Itoa(s.opts.MaxTextLength)); verr != nil {
		return verr
	}
	return nil
}

func (s *Service) score(text string) (*sentiment.ReviewScore, error) {
	s.mu.RLock()
	c := s.classifier
	s.mu.RUnlock()
	if c == nil {
		return nil, ErrClassifierUnavailable
	}
	return sentiment.ScoreReview(c, text)
}

// Score scores text without persisting it.
func (s *Service) Score(_ context.Context, in ScoreInput) (*sentiment.ReviewScore, error) {
	if verr := validation.ValidateStruct(&in); verr != nil {
		return nil, verr
	}
	if err := s.validateText(in.Text); err != nil {
		return nil, err
	}
	return s.score(strings.TrimSpace(in.Text))
}

// Submit validates, scores and stores a review.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Review, error) {
	if verr := validation.ValidateStruct(&in); verr != nil {
		return nil, verr
	}
	if err := s.validateText(in.Text); err != nil {
		return nil, err
	}
	if s.movies != nil && !s.movies.HasMovie(in.MovieID) {
		return nil, fmt.Errorf("%w: id %d", ErrMovieNotFound, in.MovieID)
	}

	text := strings.TrimSpace(in.Text)
	scored, err := s.score(text)
	if err != nil {
		return nil, err
	}

	r := &Review{
		ID:        uuid.NewString(),
		MovieID:   in.MovieID,
		Text:      text,
		Sentences: scored.Sentences,
		Overall:   scored.Overall,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Put(ctx, r); err != nil {
		return nil, err
	}
	metrics.ReviewsStored.WithLabelValues(s.store.Name()).Inc()

	s.logger.Info().
		Str("review_id", r.ID).
		Int64("movie_id", r.MovieID).
		Str("label", r.Overall.Label).
		Float64("score", r.Overall.Score).
		Msg("review stored")
	return r, nil
}

// List returns the newest reviews of a movie. limit is clamped to the
// configured page size; zero selects it.
func (s *Service) List(ctx context.Context, movieID int64, limit int) ([]Review, error) {
	if s.movies != nil && !s.movies.HasMovie(movieID) {
		return nil, fmt.Errorf("%w: id %d", ErrMovieNotFound, movieID)
	}
	if limit <= 0 || limit > s.opts.ListLimit {
		limit = s.opts.ListLimit
	}
	return s.store.List(ctx, movieID, limit)
}

// Summary aggregates the reviews of a movie.
func (s *Service) Summary(ctx context.Context, movieID int64) (Summary, error) {
	if s.movies != nil && !s.movies.HasMovie(movieID) {
		return Summary{}, fmt.Errorf("%w: id %d", ErrMovieNotFound, movieID)
	}
	return s.store.Summary(ctx, movieID)
}
