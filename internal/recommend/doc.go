// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

// Package recommend answers "movies like this one" queries.
//
// # Architecture
//
// Recommendations are a lookup, not a model evaluation. The offline builder
// writes a catalog and a dense cosine similarity matrix whose row i belongs
// to catalog movie i. At request time the engine:
//
//   - resolves the selected movie to its row (by title or TMDB ID)
//   - takes the top-k most similar rows, excluding the movie itself
//   - optionally enriches each result with TMDB details, fetched concurrently
//   - drops results whose details could not be fetched
//
// The catalog and matrix travel together as a Snapshot, which the artifact
// watcher replaces atomically when new artifacts land on disk.
//
// # Caching
//
// Responses are cached per (row, k, enrich) with a TTL. Swapping the
// snapshot clears the cache. Responses affected by transient TMDB failures
// are not cached.
//
// # Usage
//
//	engine := recommend.NewEngine(recommend.DefaultOptions(), detailsClient, logger)
//	engine.SetSnapshot(snapshot)
//	resp, err := engine.Recommend(ctx, recommend.Request{Title: "Avatar", Enrich: true})
package recommend
