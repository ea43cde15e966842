// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package tmdb

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/perfectpitch/internal/logging"
)

// mockFetcher counts calls and returns canned results.
type mockFetcher struct {
	calls   atomic.Int32
	err     error
	delay   time.Duration
	mu      sync.Mutex
	results map[int64]*Details
}

func (m *mockFetcher) GetMovie(ctx context.Context, id int64) (*Details, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.results[id]; ok {
		return d, nil
	}
	return &Details{ID: id, Title: "movie", Overview: DefaultOverview, ReleaseDate: DefaultReleaseDate}, nil
}

func TestCachedClient_MemoryTier(t *testing.T) {
	t.Parallel()

	next := &mockFetcher{}
	c := NewCachedClient(next, 10, time.Minute, nil, logging.NewTestLogger(nil))

	for i := 0; i < 3; i++ {
		if _, err := c.GetMovie(context.Background(), 42); err != nil {
			t.Fatalf("GetMovie() error = %v", err)
		}
	}
	if got := next.calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
	if s := c.Stats(); s.Hits != 2 || s.Misses != 1 {
		t.Errorf("stats = %+v, want 2 hits 1 miss", s)
	}
}

func TestCachedClient_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	next := &mockFetcher{err: errors.New("boom")}
	c := NewCachedClient(next, 10, time.Minute, nil, logging.NewTestLogger(nil))

	for i := 0; i < 2; i++ {
		if _, err := c.GetMovie(context.Background(), 1); err == nil {
			t.Fatal("GetMovie() should propagate the upstream error")
		}
	}
	if got := next.calls.Load(); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}
}

func TestCachedClient_SharesConcurrentFetch(t *testing.T) {
	t.Parallel()

	next := &mockFetcher{delay: 50 * time.Millisecond}
	c := NewCachedClient(next, 10, time.Minute, nil, logging.NewTestLogger(nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetMovie(context.Background(), 9); err != nil {
				t.Errorf("GetMovie() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := next.calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

// blockingFetcher holds every fetch until release is closed or the fetch
// context ends.
type blockingFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	once    sync.Once
	release chan struct{}
}

func (b *blockingFetcher) GetMovie(ctx context.Context, id int64) (*Details, error) {
	b.calls.Add(1)
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
		return &Details{ID: id, Title: "movie"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCachedClient_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	t.Parallel()

	next := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
	c := NewCachedClient(next, 10, time.Minute, nil, logging.NewTestLogger(nil))

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.GetMovie(ctxA, 7)
		errA <- err
	}()
	<-next.started

	type result struct {
		d   *Details
		err error
	}
	resB := make(chan result, 1)
	go func() {
		d, err := c.GetMovie(context.Background(), 7)
		resB <- result{d, err}
	}()
	time.Sleep(20 * time.Millisecond) // let the second caller join

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller error = %v, want context.Canceled", err)
	}
	close(next.release)

	select {
	case r := <-resB:
		if r.err != nil {
			t.Fatalf("waiting caller error = %v, want details", r.err)
		}
		if r.d.ID != 7 {
			t.Errorf("ID = %d, want 7", r.d.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waiting caller never returned")
	}
	if got := next.calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestCachedClient_PersistentTier(t *testing.T) {
	t.Parallel()

	store, err := OpenBadgerCache("", time.Hour)
	if err != nil {
		t.Fatalf("OpenBadgerCache() error = %v", err)
	}
	defer store.Close()

	poster := "https://image.tmdb.org/t/p/w500/a.jpg"
	next := &mockFetcher{results: map[int64]*Details{
		5: {ID: 5, Poster: &poster, Rating: Rating{Value: 8.1, Known: true}, Genres: []string{"Drama"}},
	}}

	first := NewCachedClient(next, 10, time.Minute, store, logging.NewTestLogger(nil))
	if _, err := first.GetMovie(context.Background(), 5); err != nil {
		t.Fatal(err)
	}

	// A fresh memory tier over the same store must not reach upstream.
	second := NewCachedClient(next, 10, time.Minute, store, logging.NewTestLogger(nil))
	d, err := second.GetMovie(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if got := next.calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
	if d.Poster == nil || *d.Poster != poster || d.Rating.String() != "8.1" {
		t.Errorf("persisted details = %+v", d)
	}
}

func TestBadgerCache(t *testing.T) {
	t.Parallel()

	store, err := OpenBadgerCache("", time.Hour)
	if err != nil {
		t.Fatalf("OpenBadgerCache() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, found, err := store.Get(ctx, 1); err != nil || found {
		t.Fatalf("Get(missing) = found %v, err %v", found, err)
	}

	want := &Details{ID: 1, Overview: "x", ReleaseDate: DefaultReleaseDate, Genres: []string{"Comedy"}}
	if err := store.Put(ctx, 1, want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, found, err := store.Get(ctx, 1)
	if err != nil || !found {
		t.Fatalf("Get() = found %v, err %v", found, err)
	}
	if got.Overview != "x" || got.Rating.Known || got.Genres[0] != "Comedy" {
		t.Errorf("Get() = %+v", got)
	}
	if err := store.RunGC(); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
}

// ============================================================================
// Circuit Breaker Tests
// ============================================================================

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	next := &mockFetcher{}
	cbc := newCircuitBreakerClient(next, "tmdb-test-open", time.Hour)
	ctx := context.Background()

	// 3 successes then 7 failures: the 10th request reaches a 70% failure rate.
	for i := 0; i < 3; i++ {
		if _, err := cbc.GetMovie(ctx, 1); err != nil {
			t.Fatal(err)
		}
	}
	next.err = errors.New("simulated API failure")
	for i := 0; i < 7; i++ {
		_, _ = cbc.GetMovie(ctx, 1)
	}

	if cbc.cb.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", cbc.cb.State())
	}
	if cbc.State() != "open" {
		t.Errorf("State() = %q", cbc.State())
	}

	calls := next.calls.Load()
	if _, err := cbc.GetMovie(ctx, 1); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if next.calls.Load() != calls {
		t.Error("open circuit must not reach upstream")
	}
}

func TestCircuitBreaker_NotFoundIsHealthy(t *testing.T) {
	t.Parallel()

	next := &mockFetcher{err: ErrNotFound}
	cbc := newCircuitBreakerClient(next, "tmdb-test-notfound", time.Hour)

	for i := 0; i < 20; i++ {
		if _, err := cbc.GetMovie(context.Background(), 1); !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	}
	if cbc.cb.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, not-found responses must not open the circuit", cbc.cb.State())
	}
}

func TestStateToString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
		{gobreaker.State(99), "unknown", -1},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%d) = %q, want %q", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%d) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
