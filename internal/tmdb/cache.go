// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package tmdb

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/perfectpitch/internal/cache"
	"github.com/tomtom215/perfectpitch/internal/metrics"
)

// sharedFetchTimeout bounds a deduplicated fetch once it is detached from
// the caller that started it.
const sharedFetchTimeout = 30 * time.Second

// PersistentCache is the second cache tier behind the in-process LRU.
type PersistentCache interface {
	Get(ctx context.Context, id int64) (*Details, bool, error)
	Put(ctx context.Context, id int64, details *Details) error
}

// CachedClient serves details from memory, then the persistent tier, then
// the wrapped Fetcher. Concurrent misses for the same ID share one fetch.
// Errors are never cached.
type CachedClient struct {
	next    Fetcher
	memory  *cache.LRU[int64, *Details]
	persist PersistentCache
	group   singleflight.Group
	logger  zerolog.Logger
}

var _ Fetcher = (*CachedClient)(nil)

// NewCachedClient wraps next. persist may be nil.
func NewCachedClient(next Fetcher, capacity int, ttl time.Duration, persist PersistentCache, logger zerolog.Logger) *CachedClient {
	return &CachedClient{
		next:    next,
		memory:  cache.NewLRU[int64, *Details](capacity, ttl),
		persist: persist,
		logger:  logger,
	}
}

// GetMovie implements Fetcher.
func (c *CachedClient) GetMovie(ctx context.Context, id int64) (*Details, error) {
	if d, ok := c.memory.Get(id); ok {
		metrics.RecordCacheLookup("memory", true)
		return d, nil
	}
	metrics.RecordCacheLookup("memory", false)

	// The shared fetch outlives any one caller: cancelling the caller that
	// started it must not fail the others waiting on it.
	ch := c.group.DoChan(strconv.FormatInt(id, 10), func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return c.fetch(fctx, id)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Details), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *CachedClient) fetch(ctx context.Context, id int64) (*Details, error) {
	if c.persist != nil {
		d, found, err := c.persist.Get(ctx, id)
		if err != nil {
			c.logger.Warn().Err(err).Int64("movie_id", id).Msg("persistent cache read failed")
		}
		metrics.RecordCacheLookup("persistent", found)
		if found {
			c.memory.Set(id, d)
			return d, nil
		}
	}

	d, err := c.next.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	c.memory.Set(id, d)
	if c.persist != nil {
		if err := c.persist.Put(ctx, id, d); err != nil {
			c.logger.Warn().Err(err).Int64("movie_id", id).Msg("persistent cache write failed")
		}
	}
	return d, nil
}

// CleanupExpired drops expired in-memory entries and returns how many were removed.
func (c *CachedClient) CleanupExpired() int {
	return c.memory.CleanupExpired()
}

// Stats returns in-memory cache statistics.
func (c *CachedClient) Stats() cache.Stats {
	return c.memory.Stats()
}
