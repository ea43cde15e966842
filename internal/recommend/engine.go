// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/perfectpitch/internal/cache"
	"github.com/tomtom215/perfectpitch/internal/catalog"
	"github.com/tomtom215/perfectpitch/internal/metrics"
	"github.com/tomtom215/perfectpitch/internal/tmdb"
)

// Engine serves recommendations from the current snapshot.
// It is safe for concurrent use.
type Engine struct {
	opts    Options
	details tmdb.Fetcher
	logger  zerolog.Logger

	snapMu     sync.RWMutex
	snapshot   *Snapshot
	generation uint64

	cache *cache.LRU[cacheKey, *Response]

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// cacheKey includes the snapshot generation: a row index means a different
// movie after a reload.
type cacheKey struct {
	gen    uint64
	row    int
	k      int
	enrich bool
}

// NewEngine creates an engine. details may be nil, in which case requests
// are answered without enrichment and nothing is dropped.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(opts Options, details tmdb.Fetcher, logger zerolog.Logger) *Engine {
	def := DefaultOptions()
	if opts.DefaultK <= 0 {
		opts.DefaultK = def.DefaultK
	}
	if opts.MaxK < opts.DefaultK {
		opts.MaxK = max(def.MaxK, opts.DefaultK)
	}
	if opts.CacheCapacity <= 0 {
		opts.CacheCapacity = def.CacheCapacity
	}
	if opts.EnrichConcurrency <= 0 {
		opts.EnrichConcurrency = def.EnrichConcurrency
	}

	e := &Engine{
		opts:    opts,
		details: details,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}
	if opts.CacheTTL > 0 {
		e.cache = cache.NewLRU[cacheKey, *Response](opts.CacheCapacity, opts.CacheTTL)
	}
	return e
}

// SetSnapshot installs a new catalog and matrix and clears the response cache.
func (e *Engine) SetSnapshot(s *Snapshot) {
	e.snapMu.Lock()
	e.snapshot = s
	e.generation++
	e.snapMu.Unlock()

	if e.cache != nil {
		e.cache.Clear()
	}
	metrics.CatalogMovies.Set(float64(s.Catalog.Len()))
	e.logger.Info().Int("movies", s.Catalog.Len()).Msg("snapshot installed")
}

// Snapshot returns the current snapshot, or nil before the first load.
func (e *Engine) Snapshot() *Snapshot {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	return e.snapshot
}

func (e *Engine) snapshotGen() (*Snapshot, uint64) {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	return e.snapshot, e.generation
}

// Ready reports whether a snapshot is loaded.
func (e *Engine) Ready() bool {
	return e.Snapshot() != nil
}

// HasMovie reports whether the current catalog contains the TMDB ID.
func (e *Engine) HasMovie(id int64) bool {
	snap := e.Snapshot()
	if snap == nil {
		return false
	}
	_, _, err := snap.Catalog.ByID(id)
	return err == nil
}

// DetailsEnabled reports whether the engine can enrich results.
func (e *Engine) DetailsEnabled() bool {
	return e.details != nil
}

// Recommend returns the movies most similar to the requested one.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	snap, gen := e.snapshotGen()
	if snap == nil {
		e.errorCount.Add(1)
		return nil, ErrNotReady
	}

	req, err := e.prepareRequest(req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	selected, row, err := resolve(snap.Catalog, req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	enrich := req.Enrich && e.details != nil
	key := cacheKey{gen: gen, row: row, k: req.K, enrich: enrich}
	logger := e.logger.With().Str("title", selected.Title).Int("k", req.K).Bool("enrich", enrich).Logger()

	if resp := e.cachedResponse(key); resp != nil {
		metrics.RecordRecommendation(enrich, true, time.Since(start))
		logger.Debug().Msg("cache hit")
		return resp, nil
	}

	neighbors, err := snap.Matrix.TopK(row, req.K)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("top-k for row %d: %w", row, err)
	}

	resp := &Response{
		Selected:        SelectedMovie{Movie: selected},
		Recommendations: make([]Recommendation, 0, len(neighbors)),
		K:               req.K,
		Enriched:        enrich,
	}
	for _, nb := range neighbors {
		score := float64(nb.Score)
		resp.Recommendations = append(resp.Recommendations, Recommendation{
			Movie:             snap.Catalog.At(nb.Index),
			Score:             score,
			SimilarityPercent: similarityPercent(score),
		})
	}

	cacheable := true
	if enrich {
		cacheable, err = e.enrich(ctx, resp, logger)
		if err != nil {
			e.errorCount.Add(1)
			return nil, err
		}
	}
	for i := range resp.Recommendations {
		resp.Recommendations[i].Rank = i + 1
	}
	resp.GeneratedAt = time.Now()

	// A reload during enrichment makes resp stale; never cache it.
	if _, current := e.snapshotGen(); cacheable && e.cache != nil && current == gen {
		e.cache.Set(key, resp)
	}
	metrics.RecordRecommendation(enrich, false, time.Since(start))

	logger.Debug().
		Int("returned", len(resp.Recommendations)).
		Int("dropped", resp.Dropped).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")

	return resp, nil
}

// Similar returns the raw top-k neighbours of title without enrichment.
func (e *Engine) Similar(title string, k int) ([]Recommendation, error) {
	resp, err := e.Recommend(context.Background(), Request{Title: title, K: k})
	if err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

// Details returns the selected-movie view of one catalog movie: its catalog
// fields plus TMDB details. Unlike Recommend, a details failure is returned
// to the caller.
func (e *Engine) Details(ctx context.Context, movieID int64) (*SelectedMovie, error) {
	snap := e.Snapshot()
	if snap == nil {
		return nil, ErrNotReady
	}
	movie, _, err := snap.Catalog.ByID(movieID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrMovieNotFound, movieID)
	}

	sel := &SelectedMovie{Movie: movie}
	if e.details == nil {
		return sel, nil
	}
	d, err := e.details.GetMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("%w: movie %d: %w", ErrUpstream, movieID, err)
	}
	sel.Details = d
	return sel, nil
}

// Stats returns engine statistics.
func (e *Engine) Stats() Stats {
	s := Stats{
		RecommendationsPerQuery: e.opts.DefaultK,
		MaxK:                    e.opts.MaxK,
		Requests:                e.requestCount.Load(),
		Errors:                  e.errorCount.Load(),
		DetailsEnabled:          e.details != nil,
	}
	if snap := e.Snapshot(); snap != nil {
		s.Movies = snap.Catalog.Len()
		s.LoadedAt = snap.LoadedAt
	}
	if e.cache != nil {
		cs := e.cache.Stats()
		s.CacheSize = cs.Size
		s.CacheHits = cs.Hits
		s.CacheMisses = cs.Misses
	}
	return s
}

// CleanupExpired drops expired cached responses.
func (e *Engine) CleanupExpired() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.CleanupExpired()
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) (Request, error) {
	req.Title = strings.TrimSpace(req.Title)
	switch {
	case req.Title == "" && req.MovieID == 0:
		return req, fmt.Errorf("%w: title or movie id is required", ErrInvalidRequest)
	case req.Title != "" && req.MovieID != 0:
		return req, fmt.Errorf("%w: title and movie id are mutually exclusive", ErrInvalidRequest)
	case req.K < 0:
		return req, fmt.Errorf("%w: k must not be negative", ErrInvalidRequest)
	}
	if req.K == 0 {
		req.K = e.opts.DefaultK
	}
	if req.K > e.opts.MaxK {
		req.K = e.opts.MaxK
	}
	return req, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func resolve(cat *catalog.Catalog, req Request) (catalog.Movie, int, error) {
	if req.MovieID != 0 {
		m, row, err := cat.ByID(req.MovieID)
		if err != nil {
			return catalog.Movie{}, -1, fmt.Errorf("%w: id %d", ErrMovieNotFound, req.MovieID)
		}
		return m, row, nil
	}
	row, err := cat.Index(req.Title)
	if err != nil {
		return catalog.Movie{}, -1, fmt.Errorf("%w: %q", ErrMovieNotFound, req.Title)
	}
	return cat.At(row), row, nil
}

// cachedResponse returns a copy of a cached response marked as cached.
func (e *Engine) cachedResponse(key cacheKey) *Response {
	if e.cache == nil {
		return nil
	}
	resp, ok := e.cache.Get(key)
	if !ok {
		return nil
	}
	hit := *resp
	hit.Cached = true
	return &hit
}

// enrich fetches details for the selected movie and every recommendation,
// dropping recommendations whose lookup failed. It reports whether the
// response may be cached: transient failures make it uncacheable.
func (e *Engine) enrich(ctx context.Context, resp *Response, logger zerolog.Logger) (bool, error) {
	recs := resp.Recommendations
	details := make([]*tmdb.Details, len(recs))
	errs := make([]error, len(recs))
	var selectedErr error

	g := new(errgroup.Group)
	g.SetLimit(e.opts.EnrichConcurrency)

	g.Go(func() error {
		resp.Selected.Details, selectedErr = e.details.GetMovie(ctx, resp.Selected.ID)
		return nil
	})
	for i := range recs {
		g.Go(func() error {
			details[i], errs[i] = e.details.GetMovie(ctx, recs[i].Movie.ID)
			return nil
		})
	}
	_ = g.Wait() // workers record errors per slot and never fail the group

	if err := ctx.Err(); err != nil {
		return false, err
	}

	cacheable := true
	if selectedErr != nil {
		cacheable = cacheable && errors.Is(selectedErr, tmdb.ErrNotFound)
		logger.Warn().Err(selectedErr).Int64("movie_id", resp.Selected.ID).Msg("selected movie details unavailable")
	}

	kept := recs[:0]
	for i := range recs {
		if errs[i] != nil {
			resp.Dropped++
			metrics.RecommendDropped.Inc()
			cacheable = cacheable && errors.Is(errs[i], tmdb.ErrNotFound)
			logger.Debug().Err(errs[i]).Int64("movie_id", recs[i].Movie.ID).Msg("dropping recommendation without details")
			continue
		}
		rec := recs[i]
		rec.Details = details[i]
		rec.PosterURL = rec.Details.PosterOrPlaceholder()
		rec.TopGenres = rec.Details.TopGenres(cardGenres)
		kept = append(kept, rec)
	}
	resp.Recommendations = kept
	return cacheable, nil
}
