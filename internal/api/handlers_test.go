// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/perfectpitch/internal/cache"
	"github.com/tomtom215/perfectpitch/internal/catalog"
	"github.com/tomtom215/perfectpitch/internal/recommend"
	"github.com/tomtom215/perfectpitch/internal/reviews"
	"github.com/tomtom215/perfectpitch/internal/sentiment"
	"github.com/tomtom215/perfectpitch/internal/similarity"
	"github.com/tomtom215/perfectpitch/internal/tmdb"
)

// ============================================================================
// Test fixtures
// ============================================================================

type mockDetails struct {
	mu       sync.Mutex
	failures map[int64]error
	calls    int
}

func (m *mockDetails) GetMovie(_ context.Context, id int64) (*tmdb.Details, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err, ok := m.failures[id]; ok {
		return nil, err
	}
	return &tmdb.Details{ID: id, Title: "tmdb", Rating: tmdb.Rating{Value: 7.5, Known: true}}, nil
}

type keywordClassifier struct{}

func (keywordClassifier) Score(text string) (sentiment.Result, error) {
	if strings.Contains(strings.ToLower(text), "good") {
		return sentiment.Result{Label: sentiment.LabelPositive, Score: 0.9, Confidence: 0.9}, nil
	}
	return sentiment.Result{Label: sentiment.LabelNegative, Score: 0.2, Confidence: 0.8}, nil
}

type failingStore struct {
	*reviews.MemoryStore
}

func (failingStore) Ping(context.Context) error { return errors.New("store down") }

type fixedCache struct{ stats cache.Stats }

func (f fixedCache) Stats() cache.Stats { return f.stats }

type fixedBreaker string

func (b fixedBreaker) State() string { return string(b) }

func testSnapshot(t *testing.T) *recommend.Snapshot {
	t.Helper()
	cat := catalog.New([]catalog.Movie{
		{ID: 10, Title: "Avatar"},
		{ID: 20, Title: "Aliens"},
		{ID: 30, Title: "Titanic"},
		{ID: 40, Title: "The Abyss"},
		{ID: 50, Title: "Up"},
	})
	m, err := similarity.New(5, []float32{
		1.000, 0.812, 0.400, 0.634, 0.050,
		0.812, 1.000, 0.100, 0.700, 0.020,
		0.400, 0.100, 1.000, 0.300, 0.010,
		0.634, 0.700, 0.300, 1.000, 0.030,
		0.050, 0.020, 0.010, 0.030, 1.000,
	})
	if err != nil {
		t.Fatal(err)
	}
	snap, err := recommend.NewSnapshot(cat, m)
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

type fixture struct {
	handler *Handler
	engine  *recommend.Engine
	reviews *reviews.Service
	details *mockDetails
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	details := &mockDetails{failures: map[int64]error{
		30: errors.New("upstream down"),
	}}
	engine := recommend.NewEngine(recommend.DefaultOptions(), details, zerolog.Nop())
	engine.SetSnapshot(testSnapshot(t))

	svc := reviews.NewService(reviews.NewMemoryStore(), engine, keywordClassifier{}, reviews.Options{}, zerolog.Nop())
	return &fixture{
		handler: NewHandler(engine, svc, WithVersion("test")),
		engine:  engine,
		reviews: svc,
		details: details,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

// withID adds a chi route context carrying the {id} URL parameter.
func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// ============================================================================
// Health and stats
// ============================================================================

func TestHealthLive(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.handler.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || !strings.Contains(string(env.Data), `"alive":true`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(t *testing.T) *Handler
		wantStatus int
	}{
		{
			name:       "ready",
			setup:      func(t *testing.T) *Handler { return newFixture(t).handler },
			wantStatus: http.StatusOK,
		},
		{
			name: "no artifacts",
			setup: func(t *testing.T) *Handler {
				engine := recommend.NewEngine(recommend.DefaultOptions(), nil, zerolog.Nop())
				svc := reviews.NewService(reviews.NewMemoryStore(), engine, nil, reviews.Options{}, zerolog.Nop())
				return NewHandler(engine, svc)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "store unreachable",
			setup: func(t *testing.T) *Handler {
				f := newFixture(t)
				svc := reviews.NewService(failingStore{reviews.NewMemoryStore()}, f.engine, keywordClassifier{}, reviews.Options{}, zerolog.Nop())
				return NewHandler(f.engine, svc)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			tt.setup(t).HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if tt.wantStatus != http.StatusOK && (env.Error == nil || env.Error.Code != ErrCodeServiceUnavailable) {
				t.Errorf("error = %+v", env.Error)
			}
		})
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	h := NewHandler(f.engine, f.reviews,
		WithDetailsCache(fixedCache{cache.Stats{Hits: 3, Misses: 1, Size: 4, Capacity: 10}}),
		WithBreaker(fixedBreaker("closed")),
	)

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats StatsResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Recommend.Movies != 5 || stats.Recommend.RecommendationsPerQuery != 5 {
		t.Errorf("recommend stats = %+v", stats.Recommend)
	}
	if stats.DetailsCache == nil || stats.DetailsHitRate != 0.75 {
		t.Errorf("details cache = %+v, hit rate %v", stats.DetailsCache, stats.DetailsHitRate)
	}
	if stats.CircuitBreaker != "closed" || stats.ReviewStore != "memory" || !stats.SentimentReady {
		t.Errorf("stats = %+v", stats)
	}
}

// ============================================================================
// Movies
// ============================================================================

func TestSearchMovies(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTitles []string
		wantTotal  int
	}{
		{"prefix before substring", "?q=a", http.StatusOK, []string{"Avatar", "Aliens", "Titanic", "The Abyss"}, 4},
		{"paginated", "?limit=2&offset=1", http.StatusOK, []string{"Aliens", "Titanic"}, 5},
		{"no match", "?q=zzz", http.StatusOK, []string{}, 0},
		{"bad limit", "?limit=abc", http.StatusBadRequest, nil, 0},
		{"limit too large", "?limit=1000", http.StatusBadRequest, nil, 0},
		{"negative offset", "?offset=-1", http.StatusBadRequest, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			f.handler.SearchMovies(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if tt.wantStatus != http.StatusOK {
				if env.Error == nil || env.Error.Code != ErrCodeValidation {
					t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
				}
				return
			}

			var movies []catalog.Movie
			if err := json.Unmarshal(env.Data, &movies); err != nil {
				t.Fatal(err)
			}
			got := make([]string, len(movies))
			for i, m := range movies {
				got[i] = m.Title
			}
			if strings.Join(got, ",") != strings.Join(tt.wantTitles, ",") {
				t.Errorf("titles = %v, want %v", got, tt.wantTitles)
			}
			if env.Meta.Pagination == nil || env.Meta.Pagination.Total != tt.wantTotal {
				t.Errorf("pagination = %+v, want total %d", env.Meta.Pagination, tt.wantTotal)
			}
		})
	}
}

func TestSearchMovies_NotReady(t *testing.T) {
	t.Parallel()

	h := NewHandler(recommend.NewEngine(recommend.DefaultOptions(), nil, zerolog.Nop()), nil)
	rec := httptest.NewRecorder()
	h.SearchMovies(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestGetMovie(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantCode   string
	}{
		{"found", "10", http.StatusOK, ""},
		{"unknown id", "999", http.StatusNotFound, ErrCodeNotFound},
		{"upstream failure", "30", http.StatusBadGateway, ErrCodeUpstream},
		{"not a number", "abc", http.StatusBadRequest, ErrCodeValidation},
		{"zero", "0", http.StatusBadRequest, ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			req := withID(httptest.NewRequest(http.MethodGet, "/api/v1/movies/"+tt.id, nil), tt.id)
			f.handler.GetMovie(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
				}
				return
			}
			var sel recommend.SelectedMovie
			if err := json.Unmarshal(env.Data, &sel); err != nil {
				t.Fatal(err)
			}
			if sel.Title != "Avatar" || sel.Details == nil || sel.Details.Rating.String() != "7.5" {
				t.Errorf("selected = %+v", sel)
			}
		})
	}
}

// ============================================================================
// Recommendations
// ============================================================================

func decodeRecommendation(t *testing.T, rec *httptest.ResponseRecorder) (*recommend.Response, envelope) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	var resp recommend.Response
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatal(err)
	}
	return &resp, env
}

func TestMovieRecommendations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.MovieRecommendations(rec, withID(httptest.NewRequest(http.MethodGet, "/api/v1/movies/10/recommendations?k=3", nil), "10"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}

	resp, _ := decodeRecommendation(t, rec)
	// Titanic (30) fails enrichment and is dropped.
	if len(resp.Recommendations) != 2 || resp.Dropped != 1 {
		t.Fatalf("recommendations = %+v, dropped %d", resp.Recommendations, resp.Dropped)
	}
	if resp.Recommendations[0].Movie.Title != "Aliens" || resp.Recommendations[0].SimilarityPercent != 81.2 {
		t.Errorf("first = %+v", resp.Recommendations[0])
	}

	rec = httptest.NewRecorder()
	f.handler.MovieRecommendations(rec, withID(httptest.NewRequest(http.MethodGet, "/api/v1/movies/10/recommendations?k=3&enrich=false", nil), "10"))
	resp, _ = decodeRecommendation(t, rec)
	if len(resp.Recommendations) != 3 || resp.Recommendations[0].Details != nil {
		t.Errorf("unenriched = %+v", resp.Recommendations)
	}
}

func TestMovieRecommendations_BadParams(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	for _, target := range []string{
		"/api/v1/movies/10/recommendations?k=x",
		"/api/v1/movies/10/recommendations?k=-1",
		"/api/v1/movies/10/recommendations?enrich=maybe",
	} {
		rec := httptest.NewRecorder()
		f.handler.MovieRecommendations(rec, withID(httptest.NewRequest(http.MethodGet, target, nil), "10"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	f.handler.MovieRecommendations(rec, withID(httptest.NewRequest(http.MethodGet, "/api/v1/movies/999/recommendations", nil), "999"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown movie: status = %d, want 404", rec.Code)
	}
}

func TestTitleRecommendations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handler.TitleRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?title=avatar&k=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}
	resp, env := decodeRecommendation(t, rec)
	if resp.Selected.Title != "Avatar" || resp.Selected.Details == nil {
		t.Errorf("selected = %+v", resp.Selected)
	}
	if resp.K != 2 || env.Meta.Cached {
		t.Errorf("k = %d, cached = %v", resp.K, env.Meta.Cached)
	}

	// Second identical request is served from the response cache.
	rec = httptest.NewRecorder()
	f.handler.TitleRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?title=avatar&k=2", nil))
	resp, env = decodeRecommendation(t, rec)
	if !resp.Cached || !env.Meta.Cached {
		t.Errorf("second response should be cached")
	}
}

func TestTitleRecommendations_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"missing title", "", http.StatusBadRequest},
		{"unknown title", "?title=Nope", http.StatusNotFound},
		{"title too long", "?title=" + strings.Repeat("x", 301), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			f.handler.TitleRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations"+tt.query, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

// ============================================================================
// Sentiment and reviews
// ============================================================================

func TestScoreSentiment(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"scored", `{"text": "Good acting. Dull story."}`, http.StatusOK, ""},
		{"blank", `{"text": "   "}`, http.StatusBadRequest, ErrCodeValidation},
		{"empty body", ``, http.StatusBadRequest, ErrCodeValidation},
		{"invalid json", `{"text":`, http.StatusBadRequest, ErrCodeValidation},
		{"unknown field", `{"text": "good", "extra": 1}`, http.StatusBadRequest, ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			f.handler.ScoreSentiment(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sentiment", strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
				}
				return
			}
			var score sentiment.ReviewScore
			if err := json.Unmarshal(env.Data, &score); err != nil {
				t.Fatal(err)
			}
			if len(score.Sentences) != 2 || !score.Sentences[0].Result.Positive() || score.Sentences[1].Result.Positive() {
				t.Errorf("score = %+v", score)
			}
		})
	}
}

func TestScoreSentiment_NoModel(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.reviews.SetClassifier(nil)

	rec := httptest.NewRecorder()
	f.handler.ScoreSentiment(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sentiment", strings.NewReader(`{"text": "good"}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestReviewLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	for _, text := range []string{"Good film.", "Bad pacing.", "Good cast. Good score."} {
		rec := httptest.NewRecorder()
		req := withID(httptest.NewRequest(http.MethodPost, "/api/v1/movies/10/reviews", strings.NewReader(`{"text": "`+text+`"}`)), "10")
		f.handler.SubmitReview(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("submit %q: status = %d; body %s", text, rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	f.handler.ListReviews(rec, withID(httptest.NewRequest(http.MethodGet, "/api/v1/movies/10/reviews?limit=2", nil), "10"))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []reviews.Review
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("list = %d reviews, want 2", len(list))
	}

	rec = httptest.NewRecorder()
	f.handler.ReviewSummary(rec, withID(httptest.NewRequest(http.MethodGet, "/api/v1/movies/10/reviews/summary", nil), "10"))
	var sum reviews.Summary
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Count != 3 || sum.Positive != 2 || sum.Negative != 1 {
		t.Errorf("summary = %+v", sum)
	}

	rec = httptest.NewRecorder()
	f.handler.ListReviews(rec, withID(httptest.NewRequest(http.MethodGet, "/api/v1/movies/20/reviews", nil), "20"))
	if body := string(decodeEnvelope(t, rec).Data); body != "[]" && body != "" {
		t.Errorf("empty list data = %s, want []", body)
	}
}

func TestSubmitReview_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{"unknown movie", "999", `{"text": "good"}`, http.StatusNotFound},
		{"bad id", "x", `{"text": "good"}`, http.StatusBadRequest},
		{"blank text", "10", `{"text": ""}`, http.StatusBadRequest},
		{"too long", "10", `{"text": "` + strings.Repeat("a", 5001) + `"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			req := withID(httptest.NewRequest(http.MethodPost, "/api/v1/movies/"+tt.id+"/reviews", strings.NewReader(tt.body)), tt.id)
			f.handler.SubmitReview(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	rec := httptest.NewRecorder()
	f.handler.ReviewSummary(rec, withID(httptest.NewRequest(http.MethodGet, "/api/v1/movies/999/reviews/summary", nil), "999"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("summary of unknown movie: status = %d, want 404", rec.Code)
	}
}
