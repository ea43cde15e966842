// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/perfectpitch/internal/config"
	"github.com/tomtom215/perfectpitch/internal/logging"
	"github.com/tomtom215/perfectpitch/internal/reviews"
)

// initReviewStore opens the configured review backend.
func initReviewStore(ctx context.Context, cfg *config.Config) (reviews.Store, error) {
	switch cfg.Reviews.Store {
	case "badger":
		store, err := reviews.OpenBadgerStore(cfg.Reviews.BadgerPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "mongo":
		store, err := reviews.OpenMongoStore(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		if cfg.IsProduction() {
			logging.Warn().Msg("Review store is 'memory'; reviews are lost on restart")
		}
		return reviews.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown review store %q", cfg.Reviews.Store)
	}
}
