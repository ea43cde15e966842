// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

/*
Package tmdb fetches movie metadata from The Movie Database REST API.

The plain Client performs one rate-limited HTTP request per call.
CircuitBreakerClient and CachedClient wrap any Fetcher, so the usual stack is

	CachedClient -> CircuitBreakerClient -> Client

API Reference: https://developer.themoviedb.org/reference/movie-details
*/
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/perfectpitch/internal/config"
	"github.com/tomtom215/perfectpitch/internal/metrics"
)

var (
	// ErrNotFound is returned when TMDB has no movie with the requested ID.
	ErrNotFound = errors.New("tmdb: movie not found")

	// ErrUnauthorized is returned when the API key is rejected.
	ErrUnauthorized = errors.New("tmdb: invalid api key")
)

// maxErrorBody caps how much of an error response is kept for the message.
const maxErrorBody = 512

// Fetcher retrieves movie details by TMDB ID.
// Client, CircuitBreakerClient and CachedClient all implement it.
type Fetcher interface {
	GetMovie(ctx context.Context, id int64) (*Details, error)
}

// Ensure Client implements Fetcher
var _ Fetcher = (*Client)(nil)

// Client provides access to the TMDB REST API
type Client struct {
	baseURL    string
	imageURL   string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a TMDB API client from configuration.
// A non-positive rate limit disables client-side throttling.
func NewClient(cfg *config.TMDBConfig) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		imageURL: cfg.ImageURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// GetMovie retrieves the details of one movie.
//
// Missing fields are filled with display defaults: a nil poster, an "N/A"
// rating, a stock overview and an "Unknown" release date.
func (c *Client) GetMovie(ctx context.Context, id int64) (*Details, error) {
	if id <= 0 {
		return nil, fmt.Errorf("tmdb: invalid movie id %d", id)
	}

	start := time.Now()
	resp, err := c.doRequest(ctx, "/movie/"+strconv.FormatInt(id, 10))
	if err != nil {
		metrics.RecordTMDBRequest("error", time.Since(start))
		return nil, fmt.Errorf("tmdb movie %d request failed: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordTMDBRequest("not_found", time.Since(start))
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.RecordTMDBRequest("error", time.Since(start))
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.RecordTMDBRequest("error", time.Since(start))
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("tmdb movie %d returned status %d: %s", id, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var movie movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		metrics.RecordTMDBRequest("error", time.Since(start))
		return nil, fmt.Errorf("failed to decode tmdb movie %d: %w", id, err)
	}
	metrics.RecordTMDBRequest("success", time.Since(start))

	if movie.ID == 0 {
		movie.ID = id
	}
	return movie.toDetails(c.imageURL), nil
}

// doRequest waits for the rate limiter and performs an authenticated GET.
func (c *Client) doRequest(ctx context.Context, endpoint string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL, which carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = c.baseURL + endpoint
		}
		return nil, err
	}
	return resp, nil
}
