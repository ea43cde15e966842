// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/perfectpitch/internal/cache"
	"github.com/tomtom215/perfectpitch/internal/recommend"
)

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Recommend      recommend.Stats `json:"recommend"`
	DetailsCache   *cache.Stats    `json:"details_cache,omitempty"`
	DetailsHitRate float64         `json:"details_cache_hit_rate,omitempty"`
	CircuitBreaker string          `json:"circuit_breaker,omitempty"`
	ReviewStore    string          `json:"review_store,omitempty"`
	SentimentReady bool            `json:"sentiment_ready"`
	UptimeSeconds  float64         `json:"uptime_seconds"`
}

// Stats reports catalog, recommendation and cache statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Recommend:     h.engine.Stats(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.detailsCache != nil {
		cs := h.detailsCache.Stats()
		resp.DetailsCache = &cs
		resp.DetailsHitRate = cs.HitRate()
	}
	if h.breaker != nil {
		resp.CircuitBreaker = h.breaker.State()
	}
	if h.reviews != nil {
		resp.ReviewStore = h.reviews.Store().Name()
		resp.SentimentReady = h.reviews.ClassifierReady()
	}
	NewResponseWriter(w, r).Success(resp)
}
