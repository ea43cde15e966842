// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

// Package testinfra provides container helpers for integration tests.
//
// Everything in this package is behind the integration build tag and
// needs a reachable Docker daemon:
//
//	go test -tags integration ./internal/reviews/...
//
// # MongoDB Container
//
// MongoContainer starts a throwaway mongod for exercising the MongoDB
// review store against a real server:
//
//	func TestMongoStore(t *testing.T) {
//	    mongo := testinfra.StartMongo(ctx, t)
//	    store, err := reviews.OpenMongoStore(ctx, &config.MongoConfig{URI: mongo.URI, Database: "test"})
//	    // ...
//	}
//
// StartMongo skips the test when no Docker daemon answers and terminates
// the container in t.Cleanup.
package testinfra
