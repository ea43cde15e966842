// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/perfectpitch/internal/config"
)

const avatarResponse = `{
	"id": 19995,
	"title": "Avatar",
	"poster_path": "/kyeqWdyUXW608qlYkRqosgbbJyK.jpg",
	"vote_average": 7.2,
	"overview": "In the 22nd century, a paraplegic Marine is dispatched to the moon Pandora.",
	"release_date": "2009-12-15",
	"genres": [
		{"id": 28, "name": "Action"},
		{"id": 12, "name": "Adventure"},
		{"id": 14, "name": "Fantasy"},
		{"id": 878, "name": "Science Fiction"}
	]
}`

func testConfig(baseURL string) *config.TMDBConfig {
	return &config.TMDBConfig{
		Enabled:  true,
		BaseURL:  baseURL,
		ImageURL: "https://image.tmdb.org/t/p/w500/",
		APIKey:   "test-api-key",
		Language: "en-US",
		Timeout:  2 * time.Second,
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	c := NewClient(testConfig("https://api.themoviedb.org/3/"))
	if c.baseURL != "https://api.themoviedb.org/3" {
		t.Errorf("baseURL = %q, trailing slash should be trimmed", c.baseURL)
	}
	if c.httpClient.Timeout != 2*time.Second {
		t.Errorf("timeout = %v, want 2s", c.httpClient.Timeout)
	}
}

func TestClientGetMovie(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/19995" {
			t.Errorf("path = %q, want /movie/19995", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-api-key" {
			t.Errorf("api_key = %q", got)
		}
		if got := r.URL.Query().Get("language"); got != "en-US" {
			t.Errorf("language = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(avatarResponse))
	}))
	defer server.Close()

	d, err := NewClient(testConfig(server.URL)).GetMovie(context.Background(), 19995)
	if err != nil {
		t.Fatalf("GetMovie() error = %v", err)
	}

	if d.Poster == nil || *d.Poster != "https://image.tmdb.org/t/p/w500/kyeqWdyUXW608qlYkRqosgbbJyK.jpg" {
		t.Errorf("Poster = %v", d.Poster)
	}
	if d.Rating.String() != "7.2" {
		t.Errorf("Rating = %s, want 7.2", d.Rating)
	}
	if d.ReleaseDate != "2009-12-15" || d.ReleaseYear != "2009" {
		t.Errorf("ReleaseDate = %q, ReleaseYear = %q", d.ReleaseDate, d.ReleaseYear)
	}
	if len(d.Genres) != 4 || d.Genres[0] != "Action" {
		t.Errorf("Genres = %v", d.Genres)
	}
	if got := d.TopGenres(3); len(got) != 3 || got[2] != "Fantasy" {
		t.Errorf("TopGenres(3) = %v", got)
	}
}

func TestClientGetMovie_Defaults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 7, "title": "Sparse", "poster_path": null, "overview": "", "genres": []}`))
	}))
	defer server.Close()

	d, err := NewClient(testConfig(server.URL)).GetMovie(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetMovie() error = %v", err)
	}
	if d.Poster != nil {
		t.Errorf("Poster = %q, want nil", *d.Poster)
	}
	if d.PosterOrPlaceholder() != PlaceholderPosterURL {
		t.Errorf("PosterOrPlaceholder() = %q", d.PosterOrPlaceholder())
	}
	if d.Rating.Known || d.Rating.String() != RatingUnavailable {
		t.Errorf("Rating = %+v, want N/A", d.Rating)
	}
	if d.Overview != DefaultOverview {
		t.Errorf("Overview = %q", d.Overview)
	}
	if d.ReleaseDate != DefaultReleaseDate || d.ReleaseYear != "" {
		t.Errorf("ReleaseDate = %q, ReleaseYear = %q", d.ReleaseDate, d.ReleaseYear)
	}
}

func TestClientGetMovie_AcceptsAny2xx(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusOK, http.StatusNonAuthoritativeInfo} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(avatarResponse))
			}))
			defer server.Close()

			d, err := NewClient(testConfig(server.URL)).GetMovie(context.Background(), 19995)
			if err != nil {
				t.Fatalf("GetMovie() error = %v", err)
			}
			if d.Title != "Avatar" {
				t.Errorf("Title = %q, want Avatar", d.Title)
			}
		})
	}
}

func TestClientGetMovie_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"status_code":34}`, ErrNotFound},
		{"bad key", http.StatusUnauthorized, `{"status_code":7}`, ErrUnauthorized},
		{"server error", http.StatusInternalServerError, `oops`, nil},
		{"bad json", http.StatusOK, `{not json`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(testConfig(server.URL)).GetMovie(context.Background(), 1)
			if err == nil {
				t.Fatal("GetMovie() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientGetMovie_InvalidID(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(testConfig("http://127.0.0.1:1")).GetMovie(context.Background(), 0); err == nil {
		t.Error("GetMovie(0) should fail without a request")
	}
}

func TestClientGetMovie_ErrorHidesAPIKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // every request now fails to connect

	_, err := NewClient(testConfig(server.URL)).GetMovie(context.Background(), 1)
	if err == nil {
		t.Fatal("GetMovie() should fail against a closed server")
	}
	if strings.Contains(err.Error(), "test-api-key") {
		t.Errorf("error leaks the API key: %v", err)
	}
}

func TestClientGetMovie_RateLimited(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://127.0.0.1:1")
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	c := NewClient(cfg)
	c.limiter.Allow() // drain the single token

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.GetMovie(ctx, 1); err == nil || !strings.Contains(err.Error(), "rate limiter") {
		t.Errorf("GetMovie() error = %v, want rate limiter error", err)
	}
}

func TestRatingJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rating Rating
		want   string
	}{
		{"known", Rating{Value: 6.9, Known: true}, `6.9`},
		{"zero is still known", Rating{Value: 0, Known: true}, `0`},
		{"unknown", Rating{}, `"N/A"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data, err := json.Marshal(tt.rating)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}
			var back Rating
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatal(err)
			}
			if back != tt.rating {
				t.Errorf("round trip = %+v, want %+v", back, tt.rating)
			}
		})
	}
}
