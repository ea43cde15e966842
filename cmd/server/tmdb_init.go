// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/perfectpitch/internal/config"
	"github.com/tomtom215/perfectpitch/internal/tmdb"
)

// tmdbComponents is the details client chain:
// HTTP client -> circuit breaker -> memory cache -> optional badger cache.
// Every field is nil when TMDB is disabled.
type tmdbComponents struct {
	breaker    *tmdb.CircuitBreakerClient
	cached     *tmdb.CachedClient
	persistent *tmdb.BadgerCache
	logger     zerolog.Logger
}

// initTMDB builds the details chain. A disabled integration is not an error;
// the engine then answers without enrichment.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initTMDB(cfg *config.Config, logger zerolog.Logger) (*tmdbComponents, error) {
	c := &tmdbComponents{logger: logger}
	if !cfg.TMDB.Enabled {
		logger.Info().Msg("TMDB enrichment disabled (no TMDB_API_KEY)")
		return c, nil
	}

	c.breaker = tmdb.NewCircuitBreakerClient(tmdb.NewClient(&cfg.TMDB))

	var persist tmdb.PersistentCache
	if cfg.Cache.PersistEnabled {
		bc, err := tmdb.OpenBadgerCache(cfg.Cache.PersistPath, cfg.Cache.PersistTTL)
		if err != nil {
			return nil, fmt.Errorf("open tmdb cache: %w", err)
		}
		c.persistent = bc
		persist = bc
	}

	c.cached = tmdb.NewCachedClient(c.breaker, cfg.Cache.MemoryCapacity, cfg.Cache.MemoryTTL, persist, logger)

	logger.Info().
		Str("base_url", cfg.TMDB.BaseURL).
		Float64("rate_limit", cfg.TMDB.RateLimit).
		Int("memory_capacity", cfg.Cache.MemoryCapacity).
		Bool("persist", c.persistent != nil).
		Msg("TMDB enrichment enabled")
	return c, nil
}

// Fetcher returns the outermost client, or nil when TMDB is disabled.
// The explicit nil keeps a nil *CachedClient out of the interface.
func (c *tmdbComponents) Fetcher() tmdb.Fetcher {
	if c.cached == nil {
		return nil
	}
	return c.cached
}

// Close releases the persistent cache. Safe to call more than once.
func (c *tmdbComponents) Close() {
	if c.persistent == nil {
		return
	}
	if err := c.persistent.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Error closing TMDB cache")
	}
	c.persistent = nil
}
