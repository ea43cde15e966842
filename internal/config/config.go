// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package config

import "time"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Cache     CacheConfig     `koanf:"cache"`
	Recommend RecommendConfig `koanf:"recommend"`
	Reviews   ReviewsConfig   `koanf:"reviews"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// ArtifactsConfig locates the offline-built model artifacts.
type ArtifactsConfig struct {
	// Dir is the directory holding all artifacts. Relative file names below
	// are resolved against it.
	Dir            string        `koanf:"dir"`
	MoviesFile     string        `koanf:"movies_file"`
	SimilarityFile string        `koanf:"similarity_file"`
	SentimentFile  string        `koanf:"sentiment_file"`
	WatchInterval  time.Duration `koanf:"watch_interval"` // 0 disables hot reload
}

// TMDBConfig holds the metadata API client settings
type TMDBConfig struct {
	Enabled   bool          `koanf:"enabled"`
	BaseURL   string        `koanf:"base_url"`
	ImageURL  string        `koanf:"image_url"`
	APIKey    string        `koanf:"api_key"`
	Language  string        `koanf:"language"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"` // requests per second
	RateBurst int           `koanf:"rate_burst"`
}

// CacheConfig holds the TMDB details cache settings.
type CacheConfig struct {
	MemoryCapacity  int           `koanf:"memory_capacity"`
	MemoryTTL       time.Duration `koanf:"memory_ttl"`
	PersistEnabled  bool          `koanf:"persist_enabled"`
	PersistPath     string        `koanf:"persist_path"`
	PersistTTL      time.Duration `koanf:"persist_ttl"`
	JanitorInterval time.Duration `koanf:"janitor_interval"`
}

// RecommendConfig holds recommendation engine settings
type RecommendConfig struct {
	DefaultK          int           `koanf:"default_k"`
	MaxK              int           `koanf:"max_k"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	EnrichConcurrency int           `koanf:"enrich_concurrency"`
}

// ReviewsConfig selects and configures the review store backend.
type ReviewsConfig struct {
	// Store is one of: badger, mongo, memory.
	Store         string `koanf:"store"`
	BadgerPath    string `koanf:"badger_path"`
	MaxTextLength int    `koanf:"max_text_length"`
	ListLimit     int    `koanf:"list_limit"`
}

// MongoConfig holds MongoDB connection settings for the mongo review store.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	Collection     string        `koanf:"collection"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// SentimentEnabled reports whether a sentiment model artifact is configured.
func (c *Config) SentimentEnabled() bool {
	return c.Artifacts.SentimentFile != ""
}
