// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package recommend

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/perfectpitch/internal/catalog"
	"github.com/tomtom215/perfectpitch/internal/config"
	"github.com/tomtom215/perfectpitch/internal/similarity"
	"github.com/tomtom215/perfectpitch/internal/tmdb"
)

var (
	// ErrMovieNotFound is returned when the requested movie is not in the catalog.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrNotReady is returned before the first snapshot is loaded.
	ErrNotReady = errors.New("recommendation artifacts not loaded")

	// ErrInvalidRequest is returned for malformed requests.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrUpstream wraps metadata API failures surfaced by Details.
	ErrUpstream = errors.New("movie details unavailable")
)

// Options configures the engine.
type Options struct {
	// DefaultK is used when a request leaves K at zero.
	DefaultK int

	// MaxK caps K.
	MaxK int

	// CacheTTL is how long a response is reused. Zero disables caching.
	CacheTTL time.Duration

	// CacheCapacity bounds the number of cached responses.
	CacheCapacity int

	// EnrichConcurrency bounds concurrent TMDB lookups per request.
	EnrichConcurrency int
}

// DefaultOptions returns the settings used by the web UI: five results,
// enriched with at most five concurrent lookups.
func DefaultOptions() Options {
	return Options{
		DefaultK:          5,
		MaxK:              20,
		CacheTTL:          5 * time.Minute,
		CacheCapacity:     1000,
		EnrichConcurrency: 5,
	}
}

// OptionsFromConfig converts the recommend config section.
func OptionsFromConfig(cfg *config.RecommendConfig) Options {
	opts := DefaultOptions()
	opts.DefaultK = cfg.DefaultK
	opts.MaxK = cfg.MaxK
	opts.CacheTTL = cfg.CacheTTL
	opts.EnrichConcurrency = cfg.EnrichConcurrency
	return opts
}

// Request selects a movie and the shape of the answer.
// Exactly one of Title and MovieID must be set.
type Request struct {
	Title   string
	MovieID int64
	K       int
	Enrich  bool
}

// Recommendation is one similar movie.
type Recommendation struct {
	Movie             catalog.Movie `json:"movie"`
	Rank              int           `json:"rank"`
	Score             float64       `json:"score"`
	SimilarityPercent float64       `json:"similarity_percent"`
	Details           *tmdb.Details `json:"details,omitempty"`

	// PosterURL and TopGenres are card-ready copies of Details. A movie
	// without a poster gets the placeholder image.
	PosterURL string   `json:"poster_url,omitempty"`
	TopGenres []string `json:"top_genres,omitempty"`
}

// cardGenres is how many genres a recommendation card shows.
const cardGenres = 3

// SelectedMovie is the movie the user asked about: catalog fields plus
// TMDB details when available.
type SelectedMovie struct {
	catalog.Movie
	Details *tmdb.Details `json:"details,omitempty"`
}

// Response is the result of Recommend.
type Response struct {
	Selected        SelectedMovie    `json:"selected"`
	Recommendations []Recommendation `json:"recommendations"`
	K               int              `json:"k"`
	Enriched        bool             `json:"enriched"`
	Dropped         int              `json:"dropped"`
	Cached          bool             `json:"cached"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// Snapshot pairs a catalog with its similarity matrix.
type Snapshot struct {
	Catalog  *catalog.Catalog
	Matrix   *similarity.Matrix
	LoadedAt time.Time
}

// NewSnapshot checks that the matrix describes the catalog.
func NewSnapshot(cat *catalog.Catalog, m *similarity.Matrix) (*Snapshot, error) {
	if cat == nil || m == nil {
		return nil, fmt.Errorf("snapshot: catalog and matrix are required")
	}
	if cat.Len() != m.Size() {
		return nil, fmt.Errorf("snapshot: catalog has %d movies but matrix is %dx%d", cat.Len(), m.Size(), m.Size())
	}
	return &Snapshot{Catalog: cat, Matrix: m, LoadedAt: time.Now()}, nil
}

// Stats describes the engine state.
type Stats struct {
	Movies                  int       `json:"movies"`
	LoadedAt                time.Time `json:"loaded_at"`
	RecommendationsPerQuery int       `json:"recommendations_per_query"`
	MaxK                    int       `json:"max_k"`
	Requests                int64     `json:"requests"`
	Errors                  int64     `json:"errors"`
	CacheSize               int       `json:"cache_size"`
	CacheHits               int64     `json:"cache_hits"`
	CacheMisses             int64     `json:"cache_misses"`
	DetailsEnabled          bool      `json:"details_enabled"`
}

// similarityPercent converts a cosine score to a percentage with one decimal.
func similarityPercent(score float64) float64 {
	return math.Round(score*1000) / 10
}
