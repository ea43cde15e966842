// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

/*
Package supervisor provides process supervision using suture v4.

Long-running services are arranged in a three-layer tree so that a crash in
one layer is restarted without disturbing the others:

	root ("perfectpitch")
	├── LayerData ("data-layer")
	│   └── ArtifactWatcherService
	├── LayerMaintenance ("maintenance-layer")
	│   └── CacheJanitorService
	└── LayerAPI ("api-layer")
	    └── HTTPServerService

Supervisor events (starts, failures, backoff) are logged through slog via
sutureslog. The server wires slog to zerolog with logging.NewSlogLogger.

# Usage

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.Add(supervisor.LayerData, services.NewArtifactWatcherService(watcherCfg, engine, reviewSvc, logger))
	tree.Add(supervisor.LayerMaintenance, services.NewCacheJanitorService(janitorCfg, logger).AddCache("recommendations", engine))
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

# Return values

A service's Serve return value decides what the supervisor does next:

	ctx.Err()              -> shutdown requested
	suture.ErrDoNotRestart -> finished for good
	anything else          -> restarted, counted as a failure

Services are removed through the layer they were added to; the root only
sees the layer supervisors.
*/
package supervisor
