// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/perfectpitch/internal/logging"
)

const detailsKeyPrefix = "tmdb:movie:"

// BadgerCache persists movie details across restarts. Entries expire through
// badger's native TTL.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerCache opens (or creates) the cache at path. An empty path opens
// an in-memory database.
func OpenBadgerCache(path string, ttl time.Duration) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.NumCompactors = 2
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open details cache: %w", err)
	}

	logging.Info().Str("path", path).Dur("ttl", ttl).Msg("TMDB details cache opened")
	return &BadgerCache{db: db, ttl: ttl}, nil
}

func detailsKey(id int64) []byte {
	return []byte(detailsKeyPrefix + strconv.FormatInt(id, 10))
}

// Get returns cached details. found is false for missing or expired entries.
func (b *BadgerCache) Get(_ context.Context, id int64) (*Details, bool, error) {
	var details Details
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(detailsKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &details)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached details %d: %w", id, err)
	}
	return &details, true, nil
}

// Put stores details with the cache TTL.
func (b *BadgerCache) Put(_ context.Context, id int64, details *Details) error {
	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode details %d: %w", id, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(detailsKey(id), data)
		if b.ttl > 0 {
			e = e.WithTTL(b.ttl)
		}
		return txn.SetEntry(e)
	})
}

// RunGC reclaims value log space left by expired entries.
func (b *BadgerCache) RunGC() error {
	for {
		err := b.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Close flushes and closes the database.
func (b *BadgerCache) Close() error {
	return b.db.Close()
}
