// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/perfectpitch/internal/logging"
	"github.com/tomtom215/perfectpitch/internal/metrics"
	"github.com/tomtom215/perfectpitch/internal/recommend"
	"github.com/tomtom215/perfectpitch/internal/sentiment"
)

// SnapshotSetter receives freshly loaded catalog and similarity snapshots.
// Satisfied by *recommend.Engine.
type SnapshotSetter interface {
	SetSnapshot(s *recommend.Snapshot)
}

// ClassifierSetter receives freshly loaded sentiment classifiers.
// Satisfied by *reviews.Service.
type ClassifierSetter interface {
	SetClassifier(c sentiment.Classifier)
}

// ArtifactWatcherConfig holds configuration for the artifact watcher.
type ArtifactWatcherConfig struct {
	MoviesPath     string
	SimilarityPath string

	// SentimentPath is optional; empty disables sentiment reloads.
	SentimentPath string

	// Interval is how often file stamps are compared. Zero disables polling;
	// Serve then only waits for shutdown.
	Interval time.Duration
}

// fileStamp identifies one version of a file on disk.
type fileStamp struct {
	modTime time.Time
	size    int64
}

func statFile(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, nil
}

// ArtifactWatcherService reloads the recommendation snapshot and sentiment
// model when their files change on disk.
//
// A failed reload keeps the previously installed artifacts. The stamp of the
// failed version is still recorded, so a broken file is retried only after
// it changes again.
type ArtifactWatcherService struct {
	config     ArtifactWatcherConfig
	snapshots  SnapshotSetter
	classifier ClassifierSetter
	logger     zerolog.Logger
	name       string

	mu             sync.Mutex
	recommendStamp [2]fileStamp
	sentimentStamp fileStamp
}

// NewArtifactWatcherService creates a watcher. classifier may be nil when
// no sentiment model is configured.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewArtifactWatcherService(cfg ArtifactWatcherConfig, snapshots SnapshotSetter, classifier ClassifierSetter, logger zerolog.Logger) *ArtifactWatcherService {
	return &ArtifactWatcherService{
		config:     cfg,
		snapshots:  snapshots,
		classifier: classifier,
		logger:     logger.With().Str("service", "artifact-watcher").Logger(),
		name:       "artifact-watcher",
	}
}

// LoadNow loads every configured artifact unconditionally. The server calls
// it once before accepting traffic. A recommendation snapshot failure is
// returned; a sentiment model failure is only logged, since reviews can
// still be listed without a classifier.
func (s *ArtifactWatcherService) LoadNow() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadRecommend(); err != nil {
		return err
	}
	if s.sentimentEnabled() {
		if err := s.reloadSentiment(); err != nil {
			s.logger.Warn().Err(err).Str("path", s.config.SentimentPath).Msg("sentiment model not loaded")
		}
	}
	return nil
}

// Check reloads whichever artifacts changed since the last attempt and
// reports whether anything was reloaded successfully.
func (s *ArtifactWatcherService) Check() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		reloaded bool
		errs     []error
	)

	changed, err := s.recommendChanged()
	switch {
	case err != nil:
		errs = append(errs, err)
	case changed:
		if err := s.reloadRecommend(); err != nil {
			errs = append(errs, err)
		} else {
			reloaded = true
		}
	}

	if s.sentimentEnabled() {
		changed, err := s.sentimentChanged()
		switch {
		case err != nil:
			errs = append(errs, err)
		case changed:
			if err := s.reloadSentiment(); err != nil {
				errs = append(errs, err)
			} else {
				reloaded = true
			}
		}
	}

	return reloaded, errors.Join(errs...)
}

// Serve implements suture.Service.
func (s *ArtifactWatcherService) Serve(ctx context.Context) error {
	if s.config.Interval <= 0 {
		s.logger.Info().Msg("artifact hot reload disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().
		Dur("interval", s.config.Interval).
		Str("movies", s.config.MoviesPath).
		Str("similarity", s.config.SimilarityPath).
		Msg("artifact watcher starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("artifact watcher shutting down")
			return ctx.Err()

		case <-ticker.C:
			tick := logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())
			log := logging.FromContext(tick, s.logger)

			reloaded, err := s.Check()
			if err != nil {
				log.Warn().Err(err).Msg("artifact check failed")
			}
			if reloaded {
				log.Info().Msg("artifacts reloaded")
			}
		}
	}
}

// String returns the service name for logging.
func (s *ArtifactWatcherService) String() string {
	return s.name
}

func (s *ArtifactWatcherService) sentimentEnabled() bool {
	return s.classifier != nil && s.config.SentimentPath != ""
}

func (s *ArtifactWatcherService) recommendStamps() ([2]fileStamp, error) {
	movies, err := statFile(s.config.MoviesPath)
	if err != nil {
		return [2]fileStamp{}, fmt.Errorf("stat movies artifact: %w", err)
	}
	sim, err := statFile(s.config.SimilarityPath)
	if err != nil {
		return [2]fileStamp{}, fmt.Errorf("stat similarity artifact: %w", err)
	}
	return [2]fileStamp{movies, sim}, nil
}

func (s *ArtifactWatcherService) recommendChanged() (bool, error) {
	stamps, err := s.recommendStamps()
	if err != nil {
		return false, err
	}
	return stamps != s.recommendStamp, nil
}

func (s *ArtifactWatcherService) sentimentChanged() (bool, error) {
	stamp, err := statFile(s.config.SentimentPath)
	if err != nil {
		return false, fmt.Errorf("stat sentiment artifact: %w", err)
	}
	return stamp != s.sentimentStamp, nil
}

// reloadRecommend must be called with mu held.
func (s *ArtifactWatcherService) reloadRecommend() error {
	stamps, err := s.recommendStamps()
	if err != nil {
		metrics.RecordArtifactReload("recommend", err)
		return err
	}
	s.recommendStamp = stamps

	start := time.Now()
	snap, err := recommend.LoadSnapshot(s.config.MoviesPath, s.config.SimilarityPath)
	metrics.RecordArtifactReload("recommend", err)
	if err != nil {
		return err
	}
	s.snapshots.SetSnapshot(snap)

	s.logger.Info().
		Int("movies", snap.Catalog.Len()).
		Dur("duration", time.Since(start)).
		Msg("recommendation artifacts loaded")
	return nil
}

// reloadSentiment must be called with mu held.
func (s *ArtifactWatcherService) reloadSentiment() error {
	stamp, err := statFile(s.config.SentimentPath)
	if err != nil {
		metrics.RecordArtifactReload("sentiment", err)
		return fmt.Errorf("stat sentiment artifact: %w", err)
	}
	s.sentimentStamp = stamp

	model, err := sentiment.Load(s.config.SentimentPath)
	metrics.RecordArtifactReload("sentiment", err)
	if err != nil {
		return err
	}
	s.classifier.SetClassifier(model)

	s.logger.Info().Str("path", s.config.SentimentPath).Msg("sentiment model loaded")
	return nil
}
