// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/perfectpitch/internal/config"
	"github.com/tomtom215/perfectpitch/internal/supervisor/services"
)

func TestInitReviewStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		store    string
		wantName string
		wantErr  bool
		wantGC   bool
	}{
		{name: "memory", store: "memory", wantName: "memory"},
		{name: "badger", store: "badger", wantName: "badger", wantGC: true},
		{name: "unknown", store: "sqlite", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &config.Config{Reviews: config.ReviewsConfig{
				Store:      tt.store,
				BadgerPath: filepath.Join(t.TempDir(), "reviews"),
			}}

			store, err := initReviewStore(context.Background(), cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("initReviewStore() error = %v", err)
			}
			defer store.Close()

			if store.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", store.Name(), tt.wantName)
			}
			if _, ok := store.(services.GarbageCollector); ok != tt.wantGC {
				t.Errorf("GarbageCollector = %v, want %v", ok, tt.wantGC)
			}
		})
	}
}

func TestInitTMDB(t *testing.T) {
	t.Parallel()

	t.Run("disabled yields no fetcher", func(t *testing.T) {
		t.Parallel()
		c, err := initTMDB(&config.Config{}, zerolog.Nop())
		if err != nil {
			t.Fatalf("initTMDB() error = %v", err)
		}
		if c.Fetcher() != nil {
			t.Error("Fetcher() should be a nil interface when TMDB is disabled")
		}
		c.Close()
	})

	t.Run("enabled with persistent cache", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			TMDB: config.TMDBConfig{
				Enabled:   true,
				BaseURL:   "http://127.0.0.1:1",
				APIKey:    "test",
				Timeout:   time.Second,
				RateLimit: 10,
				RateBurst: 1,
			},
			Cache: config.CacheConfig{
				MemoryCapacity: 10,
				MemoryTTL:      time.Minute,
				PersistEnabled: true,
				PersistPath:    filepath.Join(t.TempDir(), "tmdb"),
				PersistTTL:     time.Hour,
			},
		}
		c, err := initTMDB(cfg, zerolog.Nop())
		if err != nil {
			t.Fatalf("initTMDB() error = %v", err)
		}
		defer c.Close()

		if c.Fetcher() == nil || c.breaker == nil || c.persistent == nil {
			t.Fatalf("incomplete chain: %+v", c)
		}
		if c.breaker.State() != "closed" {
			t.Errorf("breaker state = %q, want closed", c.breaker.State())
		}
	})
}
