// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ExpiringCache drops expired entries on demand.
// Satisfied by *recommend.Engine and *tmdb.CachedClient.
type ExpiringCache interface {
	CleanupExpired() int
}

// GarbageCollector reclaims on-disk space.
// Satisfied by *tmdb.BadgerCache and *reviews.BadgerStore.
type GarbageCollector interface {
	RunGC() error
}

// CacheJanitorConfig holds configuration for the cache janitor.
type CacheJanitorConfig struct {
	// Interval between sweeps. Default: 5m
	Interval time.Duration

	// GCEvery runs badger GC on every Nth sweep. Default: 6
	GCEvery int
}

// CacheJanitorService periodically evicts expired in-memory cache entries
// and runs badger value-log GC.
type CacheJanitorService struct {
	config     CacheJanitorConfig
	caches     map[string]ExpiringCache
	collectors map[string]GarbageCollector
	logger     zerolog.Logger
	name       string
	sweeps     int
}

// NewCacheJanitorService creates a janitor with no targets. Register them
// with AddCache and AddCollector before Serve.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(cfg CacheJanitorConfig, logger zerolog.Logger) *CacheJanitorService {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.GCEvery <= 0 {
		cfg.GCEvery = 6
	}
	return &CacheJanitorService{
		config:     cfg,
		caches:     make(map[string]ExpiringCache),
		collectors: make(map[string]GarbageCollector),
		logger:     logger.With().Str("service", "cache-janitor").Logger(),
		name:       "cache-janitor",
	}
}

// AddCache registers an in-memory cache under name.
func (s *CacheJanitorService) AddCache(name string, c ExpiringCache) *CacheJanitorService {
	s.caches[name] = c
	return s
}

// AddCollector registers a badger-backed store under name.
func (s *CacheJanitorService) AddCollector(name string, gc GarbageCollector) *CacheJanitorService {
	s.collectors[name] = gc
	return s
}

// Serve implements suture.Service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Int("caches", len(s.caches)).
		Int("collectors", len(s.collectors)).
		Msg("cache janitor starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cache janitor shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one cleanup pass and returns the number of evicted entries.
// Badger GC runs on every GCEvery-th sweep, counting from the first.
func (s *CacheJanitorService) Sweep(ctx context.Context) int {
	total := 0
	for name, c := range s.caches {
		if n := c.CleanupExpired(); n > 0 {
			s.logger.Debug().Str("cache", name).Int("evicted", n).Msg("expired entries removed")
			total += n
		}
	}

	if s.sweeps%s.config.GCEvery == 0 {
		for name, gc := range s.collectors {
			if ctx.Err() != nil {
				break
			}
			start := time.Now()
			if err := gc.RunGC(); err != nil {
				s.logger.Warn().Err(err).Str("store", name).Msg("value log GC failed")
				continue
			}
			s.logger.Debug().Str("store", name).Dur("duration", time.Since(start)).Msg("value log GC complete")
		}
	}
	s.sweeps++
	return total
}

// String returns the service name for logging.
func (s *CacheJanitorService) String() string {
	return s.name
}
