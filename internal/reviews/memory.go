// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package reviews

import (
	"context"
	"sync"
)

// MemoryStore keeps reviews in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	byMovie map[int64][]Review // oldest first
	closed  bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byMovie: make(map[int64][]Review)}
}

func (m *MemoryStore) Put(_ context.Context, r *Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	m.byMovie[r.MovieID] = append(m.byMovie[r.MovieID], *r)
	return nil
}

func (m *MemoryStore) List(_ context.Context, movieID int64, limit int) ([]Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}

	all := m.byMovie[movieID]
	out := make([]Review, 0, min(len(all), max(limit, 0)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *MemoryStore) Summary(_ context.Context, movieID int64) (Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Summary{}, ErrStoreClosed
	}

	s := Summary{MovieID: movieID}
	for i := range m.byMovie[movieID] {
		s.Add(&m.byMovie[movieID][i])
	}
	return s, nil
}

func (m *MemoryStore) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrStoreClosed
	}
	return nil
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
