// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/perfectpitch/config.yaml",
	"/etc/perfectpitch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8501,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Artifacts: ArtifactsConfig{
			Dir:            "artifacts",
			MoviesFile:     "movies.json",
			SimilarityFile: "similarity.bin",
			SentimentFile:  "sentiment.json",
			WatchInterval:  time.Minute,
		},
		TMDB: TMDBConfig{
			Enabled:   true,
			BaseURL:   "https://api.themoviedb.org/3",
			ImageURL:  "https://image.tmdb.org/t/p/w500/",
			APIKey:    "",
			Language:  "en-US",
			Timeout:   10 * time.Second,
			RateLimit: 4, // TMDB allows roughly 40 requests per 10 seconds
			RateBurst: 10,
		},
		Cache: CacheConfig{
			MemoryCapacity:  5000,
			MemoryTTL:       time.Hour,
			PersistEnabled:  true,
			PersistPath:     "data/tmdb-cache",
			PersistTTL:      24 * time.Hour,
			JanitorInterval: 10 * time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultK:          5,
			MaxK:              20,
			CacheTTL:          5 * time.Minute,
			EnrichConcurrency: 5,
		},
		Reviews: ReviewsConfig{
			Store:         "badger",
			BadgerPath:    "data/reviews",
			MaxTextLength: 5000,
			ListLimit:     50,
		},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "perfectpitch",
			Collection:     "reviews",
			ConnectTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// A TMDB integration without a key can only fail; fall back to bare recommendations.
	if cfg.TMDB.APIKey == "" {
		cfg.TMDB.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Artifacts
	"artifacts_dir":            "artifacts.dir",
	"artifacts_movies_file":    "artifacts.movies_file",
	"artifacts_similarity":     "artifacts.similarity_file",
	"artifacts_sentiment":      "artifacts.sentiment_file",
	"artifacts_watch_interval": "artifacts.watch_interval",

	// TMDB
	"tmdb_enabled":    "tmdb.enabled",
	"tmdb_base_url":   "tmdb.base_url",
	"tmdb_image_url":  "tmdb.image_url",
	"tmdb_api_key":    "tmdb.api_key",
	"tmdb_language":   "tmdb.language",
	"tmdb_timeout":    "tmdb.timeout",
	"tmdb_rate_limit": "tmdb.rate_limit",
	"tmdb_rate_burst": "tmdb.rate_burst",

	// Details cache
	"cache_memory_capacity":  "cache.memory_capacity",
	"cache_memory_ttl":       "cache.memory_ttl",
	"cache_persist_enabled":  "cache.persist_enabled",
	"cache_persist_path":     "cache.persist_path",
	"cache_persist_ttl":      "cache.persist_ttl",
	"cache_janitor_interval": "cache.janitor_interval",

	// Recommendation engine
	"recommend_default_k":          "recommend.default_k",
	"recommend_max_k":              "recommend.max_k",
	"recommend_cache_ttl":          "recommend.cache_ttl",
	"recommend_enrich_concurrency": "recommend.enrich_concurrency",

	// Reviews
	"reviews_store":           "reviews.store",
	"reviews_badger_path":     "reviews.badger_path",
	"reviews_max_text_length": "reviews.max_text_length",
	"reviews_list_limit":      "reviews.list_limit",

	// MongoDB
	"mongo_uri":             "mongo.uri",
	"mongo_database":        "mongo.database",
	"mongo_collection":      "mongo.collection",
	"mongo_connect_timeout": "mongo.connect_timeout",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_KEY -> tmdb.api_key
//   - HTTP_PORT -> server.port
//   - REVIEWS_STORE -> reviews.store
//
// Unmapped variables are dropped so unrelated environment cannot pollute config.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// Path resolves an artifact file name against the artifacts directory.
// Absolute names and names with a directory component are returned unchanged.
func (a ArtifactsConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	return filepath.Join(a.Dir, name)
}
