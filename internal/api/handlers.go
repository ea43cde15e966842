// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package api

import (
	"time"

	"github.com/tomtom215/perfectpitch/internal/cache"
	"github.com/tomtom215/perfectpitch/internal/recommend"
	"github.com/tomtom215/perfectpitch/internal/reviews"
)

// DetailsCache exposes the statistics of the TMDB details cache.
type DetailsCache interface {
	Stats() cache.Stats
}

// BreakerState reports the TMDB circuit breaker state.
type BreakerState interface {
	State() string
}

// Handler serves the HTTP endpoints.
type Handler struct {
	engine  *recommend.Engine
	reviews *reviews.Service

	detailsCache DetailsCache
	breaker      BreakerState

	version        string
	requestTimeout time.Duration
	startTime      time.Time
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithDetailsCache reports TMDB cache statistics on /stats.
func WithDetailsCache(c DetailsCache) HandlerOption {
	return func(h *Handler) { h.detailsCache = c }
}

// WithBreaker reports the TMDB circuit breaker state on /stats.
func WithBreaker(b BreakerState) HandlerOption {
	return func(h *Handler) { h.breaker = b }
}

// WithVersion sets the version string reported by health endpoints.
func WithVersion(v string) HandlerOption {
	return func(h *Handler) { h.version = v }
}

// WithRequestTimeout bounds the work done for a single request.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) { h.requestTimeout = d }
}

// NewHandler creates the endpoint handlers.
func NewHandler(engine *recommend.Engine, reviewSvc *reviews.Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:         engine,
		reviews:        reviewSvc,
		version:        "dev",
		requestTimeout: 15 * time.Second,
		startTime:      time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
