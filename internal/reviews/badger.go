// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/perfectpitch/internal/logging"
)

// Key layout:
//
//	review:{movieID:%012d}:{maxInt64-createdNanos:%019d}:{id}  -> Review JSON
//	summary:{movieID:%012d}                                    -> Summary JSON
//
// The inverted timestamp makes a forward prefix scan return newest first.
const (
	reviewKeyPrefix  = "review:"
	summaryKeyPrefix = "summary:"

	maxConflictRetries = 5
)

// BadgerStore is the embedded review store.
type BadgerStore struct {
	db *badger.DB

	// writeMu serialises summary read-modify-write cycles within the process.
	writeMu sync.Mutex
}

var _ Store = (*BadgerStore)(nil)

// OpenBadgerStore opens (or creates) the store at path. An empty path opens
// an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.SyncWrites = true
	opts.NumCompactors = 2
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open review store: %w", err)
	}
	logging.Info().Str("path", path).Msg("Review store opened")
	return &BadgerStore{db: db}, nil
}

func movieReviewPrefix(movieID int64) []byte {
	return []byte(fmt.Sprintf("%s%012d:", reviewKeyPrefix, movieID))
}

func reviewKey(r *Review) []byte {
	inverted := math.MaxInt64 - r.CreatedAt.UnixNano()
	return []byte(fmt.Sprintf("%s%012d:%019d:%s", reviewKeyPrefix, r.MovieID, inverted, r.ID))
}

func summaryKey(movieID int64) []byte {
	return []byte(fmt.Sprintf("%s%012d", summaryKeyPrefix, movieID))
}

// Put stores the review and updates the movie summary in one transaction.
func (b *BadgerStore) Put(ctx context.Context, r *Review) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode review: %w", err)
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = b.db.Update(func(txn *badger.Txn) error {
			s, err := readSummary(txn, r.MovieID)
			if err != nil {
				return err
			}
			s.Add(r)
			sdata, err := json.Marshal(s)
			if err != nil {
				return fmt.Errorf("encode summary: %w", err)
			}
			if err := txn.Set(reviewKey(r), data); err != nil {
				return err
			}
			return txn.Set(summaryKey(r.MovieID), sdata)
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			return fmt.Errorf("put review %s: %w", r.ID, err)
		}
		return nil
	}
}

func readSummary(txn *badger.Txn, movieID int64) (Summary, error) {
	s := Summary{MovieID: movieID}
	item, err := txn.Get(summaryKey(movieID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &s)
	})
	return s, err
}

// List returns up to limit reviews, newest first.
func (b *BadgerStore) List(ctx context.Context, movieID int64, limit int) ([]Review, error) {
	out := make([]Review, 0, max(limit, 0))
	if limit <= 0 {
		return out, nil
	}

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = movieReviewPrefix(movieID)
		opts.PrefetchSize = min(limit, 100)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid() && len(out) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r Review
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("decode review %s: %w", it.Item().Key(), err)
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews for movie %d: %w", movieID, err)
	}
	return out, nil
}

// Summary reads the aggregate maintained by Put.
func (b *BadgerStore) Summary(_ context.Context, movieID int64) (Summary, error) {
	var s Summary
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		s, err = readSummary(txn, movieID)
		return err
	})
	if err != nil {
		return Summary{}, fmt.Errorf("summary for movie %d: %w", movieID, err)
	}
	return s, nil
}

// Ping reports an error once the database is closed.
func (b *BadgerStore) Ping(context.Context) error {
	if b.db.IsClosed() {
		return ErrStoreClosed
	}
	return nil
}

func (b *BadgerStore) Name() string { return "badger" }

// RunGC reclaims value log space.
func (b *BadgerStore) RunGC() error {
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

func (b *BadgerStore) Close() error {
	return b.db.Close()
}
