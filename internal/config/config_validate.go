// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateArtifacts(); err != nil {
		return err
	}

	if err := c.validateTMDB(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateReviews(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateArtifacts() error {
	if c.Artifacts.MoviesFile == "" {
		return fmt.Errorf("ARTIFACTS_MOVIES_FILE is required")
	}
	if c.Artifacts.SimilarityFile == "" {
		return fmt.Errorf("ARTIFACTS_SIMILARITY is required")
	}
	if c.Artifacts.WatchInterval < 0 {
		return fmt.Errorf("ARTIFACTS_WATCH_INTERVAL must not be negative")
	}
	return nil
}

// validateTMDB only checks the client settings when the integration is on.
func (c *Config) validateTMDB() error {
	if !c.TMDB.Enabled {
		return nil
	}
	if !strings.HasPrefix(c.TMDB.BaseURL, "http://") && !strings.HasPrefix(c.TMDB.BaseURL, "https://") {
		return fmt.Errorf("TMDB_BASE_URL must start with http:// or https://")
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive")
	}
	if c.TMDB.RateLimit <= 0 || c.TMDB.RateBurst < 1 {
		return fmt.Errorf("TMDB_RATE_LIMIT and TMDB_RATE_BURST must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxK < 1 {
		return fmt.Errorf("RECOMMEND_MAX_K must be at least 1")
	}
	if c.Recommend.DefaultK < 1 || c.Recommend.DefaultK > c.Recommend.MaxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be between 1 and %d", c.Recommend.MaxK)
	}
	if c.Recommend.EnrichConcurrency < 1 {
		return fmt.Errorf("RECOMMEND_ENRICH_CONCURRENCY must be at least 1")
	}
	return nil
}

// validReviewStores defines the allowed review store backends
var validReviewStores = map[string]bool{
	"badger": true,
	"mongo":  true,
	"memory": true,
}

func (c *Config) validateReviews() error {
	if !validReviewStores[c.Reviews.Store] {
		return fmt.Errorf("REVIEWS_STORE must be one of: badger, mongo, memory")
	}
	if c.Reviews.Store == "badger" && c.Reviews.BadgerPath == "" {
		return fmt.Errorf("REVIEWS_BADGER_PATH is required when REVIEWS_STORE=badger")
	}
	if c.Reviews.Store == "mongo" && c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required when REVIEWS_STORE=mongo")
	}
	if c.Reviews.MaxTextLength < 1 {
		return fmt.Errorf("REVIEWS_MAX_TEXT_LENGTH must be at least 1")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}
