// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

/*
Command server runs the Perfect Pitch HTTP API.

The server answers "movies like this one" from precomputed artifacts, enriches
results with TMDB metadata, and scores user reviews for sentiment.

# Startup Order

 1. Configuration (koanf: defaults, optional YAML file, environment)
 2. Logging (zerolog)
 3. TMDB client chain: HTTP client, circuit breaker, two-tier cache
 4. Review store (badger, mongo or memory)
 5. Recommendation engine and review service
 6. Artifact load (catalog, similarity matrix, sentiment model)
 7. Supervisor tree: artifact watcher, cache janitor, HTTP server

The server refuses to start when the catalog or similarity matrix cannot be
loaded. A missing sentiment model only disables review scoring.

# Artifacts

Artifacts are produced offline:

	ppctl build-artifacts --movies tmdb_5000_movies.csv --credits tmdb_5000_credits.csv --out ./artifacts
	ppctl train-sentiment --data reviews.csv --out ./artifacts/sentiment.json

# Example Usage

	export TMDB_API_KEY=your-key
	export ARTIFACTS_DIR=./artifacts
	./server

Without TMDB_API_KEY the server still recommends, returning titles and
similarity scores without posters or ratings.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. In-flight requests drain for
HTTP_SHUTDOWN_TIMEOUT before the review store and TMDB cache are closed.
*/
package main
