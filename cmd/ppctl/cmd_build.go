// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/perfectpitch/internal/etl"
	"github.com/tomtom215/perfectpitch/internal/logging"
)

func newBuildArtifactsCmd() *cobra.Command {
	var opts etl.BuildOptions

	cmd := &cobra.Command{
		Use:   "build-artifacts",
		Short: "Build the movie catalog and similarity matrix from the TMDB 5000 CSVs",
		Long: `Joins the TMDB 5000 movies and credits CSVs on title, derives a tag
document per movie (overview, genres, keywords, top cast, director), vectorizes
the tags by term count and writes:

  movies.json      the catalog, one entry per movie
  similarity.bin   the NxN cosine similarity matrix`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := etl.BuildArtifacts(cmd.Context(), opts, logging.WithComponent("ppctl"))
			if err != nil {
				return err
			}
			cmd.Printf("movies:     %d\n", res.Movies)
			cmd.Printf("features:   %d\n", res.Features)
			cmd.Printf("catalog:    %s\n", res.MoviesPath)
			cmd.Printf("similarity: %s\n", res.SimilarityPath)
			cmd.Printf("took:       %s\n", res.Duration.Round(time.Millisecond))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.MoviesCSV, "movies", "", "path to tmdb_5000_movies.csv")
	f.StringVar(&opts.CreditsCSV, "credits", "", "path to tmdb_5000_credits.csv")
	f.StringVar(&opts.OutDir, "out", "artifacts", "output directory")
	f.IntVar(&opts.MaxFeatures, "max-features", etl.DefaultMaxFeatures, "vocabulary size")
	f.IntVar(&opts.Workers, "workers", 0, "parallel parse workers (0 = GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("movies")
	_ = cmd.MarkFlagRequired("credits")
	return cmd
}
