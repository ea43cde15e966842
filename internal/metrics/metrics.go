// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

// Package metrics declares the Prometheus collectors for the service.
// All collectors are registered on the default registry via promauto and
// exposed by promhttp at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Recommendation engine
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Time to produce a recommendation response, including enrichment",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"enriched"},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Recommendation responses served from cache",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Recommendation responses computed from the similarity matrix",
		},
	)

	RecommendDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_dropped_total",
			Help: "Recommendations dropped because their details could not be fetched",
		},
	)

	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	ArtifactReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_reloads_total",
			Help: "Artifact reload attempts by artifact and outcome",
		},
		[]string{"artifact", "outcome"}, // artifact: recommend, sentiment; outcome: success, failure
	)

	// TMDB client
	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_requests_total",
			Help: "Requests sent to the TMDB API by outcome",
		},
		[]string{"outcome"}, // success, not_found, error
	)

	TMDBRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tmdb_request_duration_seconds",
			Help:    "Latency of TMDB API requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	TMDBCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_cache_lookups_total",
			Help: "Movie details cache lookups by tier and result",
		},
		[]string{"tier", "result"}, // tier: memory, persistent; result: hit, miss
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current consecutive failure count",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Sentiment and reviews
	SentimentPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_predictions_total",
			Help: "Sentiment predictions by label",
		},
		[]string{"label"},
	)

	ReviewsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_stored_total",
			Help: "Reviews persisted by store backend",
		},
		[]string{"store"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records the latency of one engine call.
func RecordRecommendation(enriched, cached bool, duration time.Duration) {
	if cached {
		RecommendCacheHits.Inc()
	} else {
		RecommendCacheMisses.Inc()
	}
	label := "false"
	if enriched {
		label = "true"
	}
	RecommendDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordTMDBRequest records one TMDB round trip.
func RecordTMDBRequest(outcome string, duration time.Duration) {
	TMDBRequests.WithLabelValues(outcome).Inc()
	TMDBRequestDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a details cache lookup for the given tier.
func RecordCacheLookup(tier string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	TMDBCacheLookups.WithLabelValues(tier, result).Inc()
}

// RecordArtifactReload records one artifact reload attempt.
func RecordArtifactReload(artifact string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	ArtifactReloads.WithLabelValues(artifact, outcome).Inc()
}
