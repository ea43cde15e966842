// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

/*
Package services provides suture.Service wrappers for long-running components.

# Available Services

HTTPServerService (api layer):
  - Wraps *http.Server, translating ListenAndServe into Serve(ctx)
  - Drains in-flight requests for a bounded time on shutdown

ArtifactWatcherService (data layer):
  - Loads the movie catalog, similarity matrix and sentiment model at startup
  - Polls file stamps (mtime and size) and hot-swaps changed artifacts
  - Keeps the last good artifacts when a reload fails

CacheJanitorService (maintenance layer):
  - Evicts expired recommendation and TMDB cache entries
  - Runs badger value-log GC on the review store and TMDB cache

# Error Handling

Serve returns ctx.Err() on shutdown. Failures inside a polling loop are
logged and retried on the next tick rather than returned, so a transient
filesystem error does not restart the service.
*/
package services
