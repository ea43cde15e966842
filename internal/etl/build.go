// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package etl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/perfectpitch/internal/catalog"
	"github.com/tomtom215/perfectpitch/internal/similarity"
)

// Default artifact file names, matching the server's artifact config.
const (
	MoviesFile     = "movies.json"
	SimilarityFile = "similarity.bin"
)

// BuildOptions configures BuildArtifacts.
type BuildOptions struct {
	MoviesCSV   string
	CreditsCSV  string
	OutDir      string
	MaxFeatures int // 0 means DefaultMaxFeatures
	Workers     int // 0 means GOMAXPROCS
}

// BuildResult describes the artifacts that were written.
type BuildResult struct {
	Movies         int
	Features       int
	MoviesPath     string
	SimilarityPath string
	Duration       time.Duration
}

// BuildArtifacts runs the full pipeline and writes the catalog and the
// similarity matrix into opts.OutDir.
func BuildArtifacts(ctx context.Context, opts BuildOptions, logger zerolog.Logger) (*BuildResult, error) {
	start := time.Now()
	logger = logger.With().Str("component", "etl").Logger()

	if opts.MoviesCSV == "" || opts.CreditsCSV == "" {
		return nil, fmt.Errorf("movies and credits CSV paths are required")
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if opts.MaxFeatures == 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	raw, err := LoadTMDB5000(ctx, opts.MoviesCSV, opts.CreditsCSV)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("rows", len(raw)).Msg("Joined movie and credit rows")

	movies, err := ParseMovies(ctx, raw, opts.Workers)
	if err != nil {
		return nil, err
	}

	docs := make([][]string, len(movies))
	for i, m := range movies {
		docs[i] = Tags(m)
	}
	vocab, vectors := Vectorize(docs, opts.MaxFeatures)
	logger.Info().Int("features", vocab.Len()).Msg("Vectorized movie tags")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrix, err := similarity.Build(vectors)
	if err != nil {
		return nil, fmt.Errorf("build similarity: %w", err)
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	res := &BuildResult{
		Movies:         len(movies),
		Features:       vocab.Len(),
		MoviesPath:     filepath.Join(opts.OutDir, MoviesFile),
		SimilarityPath: filepath.Join(opts.OutDir, SimilarityFile),
	}
	if err := catalog.New(movies).Save(res.MoviesPath); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}
	if err := matrix.Save(res.SimilarityPath); err != nil {
		return nil, fmt.Errorf("save similarity: %w", err)
	}

	res.Duration = time.Since(start)
	logger.Info().
		Int("movies", res.Movies).
		Dur("duration", res.Duration).
		Str("out_dir", opts.OutDir).
		Msg("Artifacts written")
	return res, nil
}
