// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the body of the readiness probe.
type HealthStatus struct {
	Status          string     `json:"status"`
	Version         string     `json:"version"`
	ArtifactsLoaded bool       `json:"artifacts_loaded"`
	Movies          int        `json:"movies"`
	LoadedAt        *time.Time `json:"loaded_at,omitempty"`
	ReviewStore     string     `json:"review_store"`
	ReviewStoreOK   bool       `json:"review_store_ok"`
	SentimentReady  bool       `json:"sentiment_ready"`
	DetailsEnabled  bool       `json:"details_enabled"`
	Uptime          float64    `json:"uptime_seconds"`
}

// HealthLive returns 200 while the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":   true,
		"version": h.version,
		"uptime":  time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 200 when the artifacts are loaded and the review
// store answers a ping, 503 otherwise. A missing sentiment model only
// degrades the review endpoints, so it is reported but not required.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := HealthStatus{
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}
	if h.engine != nil {
		stats := h.engine.Stats()
		status.ArtifactsLoaded = h.engine.Ready()
		status.Movies = stats.Movies
		status.DetailsEnabled = stats.DetailsEnabled
		if !stats.LoadedAt.IsZero() {
			loaded := stats.LoadedAt
			status.LoadedAt = &loaded
		}
	}
	if h.reviews != nil {
		store := h.reviews.Store()
		status.ReviewStore = store.Name()
		status.SentimentReady = h.reviews.ClassifierReady()

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		status.ReviewStoreOK = store.Ping(ctx) == nil
		cancel()
	}

	status.Status = "ready"
	code := http.StatusOK
	if !status.ArtifactsLoaded || !status.ReviewStoreOK {
		status.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	if code == http.StatusOK {
		rw.Success(status)
		return
	}
	rw.ErrorWithDetails(code, ErrCodeServiceUnavailable, "Service is not ready", status)
}
