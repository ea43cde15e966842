// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

/*
Package api provides the HTTP surface of Perfect Pitch.

Every endpoint answers with the same envelope:

	{
	    "success": true,
	    "data": { ... },
	    "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Failures set "success" to false and fill "error" with a machine-readable
code (NOT_FOUND, VALIDATION_ERROR, SERVICE_UNAVAILABLE, UPSTREAM_ERROR,
INTERNAL_ERROR) and a message.

# Routes

All routes live under /api/v1 except /metrics:

	GET  /health/live                    process is up
	GET  /health/ready                   artifacts loaded and review store reachable
	GET  /stats                          engine and cache statistics
	GET  /movies?q=&limit=&offset=       catalog search
	GET  /movies/{id}                    catalog movie plus TMDB details
	GET  /movies/{id}/recommendations    similar movies (k, enrich)
	GET  /recommendations?title=&k=      similar movies by exact title
	POST /sentiment                      score text without storing it
	POST /movies/{id}/reviews            submit a review
	GET  /movies/{id}/reviews            newest reviews first
	GET  /movies/{id}/reviews/summary    sentiment summary

# Middleware

The router uses chi with RealIP, Recoverer, request IDs, go-chi/cors,
go-chi/httprate per-IP limits, Prometheus instrumentation and security
headers. Health endpoints get a more permissive rate limit so probes are
never throttled by API traffic.
*/
package api
