// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/perfectpitch/internal/api"
	"github.com/tomtom215/perfectpitch/internal/config"
	"github.com/tomtom215/perfectpitch/internal/logging"
	"github.com/tomtom215/perfectpitch/internal/recommend"
	"github.com/tomtom215/perfectpitch/internal/reviews"
	"github.com/tomtom215/perfectpitch/internal/supervisor"
	"github.com/tomtom215/perfectpitch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential startup wiring
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("artifacts_dir", cfg.Artifacts.Dir).
		Str("review_store", cfg.Reviews.Store).
		Bool("tmdb_enabled", cfg.TMDB.Enabled).
		Msg("Starting Perfect Pitch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	details, err := initTMDB(cfg, logging.WithComponent("tmdb"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize TMDB client")
	}
	defer details.Close()

	store, err := initReviewStore(ctx, cfg)
	if err != nil {
		details.Close()
		logging.Fatal().Err(err).Msg("Failed to open review store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing review store")
		}
	}()
	logging.Info().Str("store", store.Name()).Msg("Review store ready")

	engine := recommend.NewEngine(
		recommend.OptionsFromConfig(&cfg.Recommend),
		details.Fetcher(),
		logging.Logger(),
	)
	reviewSvc := reviews.NewService(store, engine, nil, reviews.Options{
		MaxTextLength: cfg.Reviews.MaxTextLength,
		ListLimit:     cfg.Reviews.ListLimit,
	}, logging.Logger())

	watcherCfg := services.ArtifactWatcherConfig{
		MoviesPath:     cfg.Artifacts.Path(cfg.Artifacts.MoviesFile),
		SimilarityPath: cfg.Artifacts.Path(cfg.Artifacts.SimilarityFile),
		Interval:       cfg.Artifacts.WatchInterval,
	}
	if cfg.SentimentEnabled() {
		watcherCfg.SentimentPath = cfg.Artifacts.Path(cfg.Artifacts.SentimentFile)
	}
	watcher := services.NewArtifactWatcherService(watcherCfg, engine, reviewSvc, logging.Logger())
	if err := watcher.LoadNow(); err != nil {
		store.Close()
		details.Close()
		logging.Fatal().Err(err).
			Str("movies", watcherCfg.MoviesPath).
			Str("similarity", watcherCfg.SimilarityPath).
			Msg("Failed to load recommendation artifacts (run ppctl build-artifacts)")
	}
	if !reviewSvc.ClassifierReady() {
		logging.Warn().Msg("Sentiment model not loaded - review scoring disabled")
	}

	handlerOpts := []api.HandlerOption{
		api.WithVersion(version),
		api.WithRequestTimeout(cfg.Server.Timeout),
	}
	if details.cached != nil {
		handlerOpts = append(handlerOpts, api.WithDetailsCache(details.cached))
	}
	if details.breaker != nil {
		handlerOpts = append(handlerOpts, api.WithBreaker(details.breaker))
	}
	handler := api.NewHandler(engine, reviewSvc, handlerOpts...)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.IsProduction() && len(cfg.Security.CORSOrigins) == 1 && cfg.Security.CORSOrigins[0] == "*" {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS to restrict it")
	}
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFrom(&cfg.Security))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.Add(supervisor.LayerData, watcher)

	janitor := services.NewCacheJanitorService(services.CacheJanitorConfig{
		Interval: cfg.Cache.JanitorInterval,
	}, logging.Logger()).AddCache("recommendations", engine)
	if details.cached != nil {
		janitor.AddCache("tmdb", details.cached)
	}
	if details.persistent != nil {
		janitor.AddCollector("tmdb-cache", details.persistent)
	}
	if gc, ok := store.(services.GarbageCollector); ok {
		janitor.AddCollector("reviews", gc)
	}
	tree.Add(supervisor.LayerMaintenance, janitor)

	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	if err := waitForTree(ctx, errCh); err != nil {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Perfect Pitch stopped")
}

// waitForTree blocks until the supervisor tree has stopped. errCh yields
// exactly one value and is never closed. Cancellation errors are not
// reported.
func waitForTree(ctx context.Context, errCh <-chan error) error {
	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		err = <-errCh
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
