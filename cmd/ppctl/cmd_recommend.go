// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/perfectpitch/internal/etl"
	"github.com/tomtom215/perfectpitch/internal/logging"
	"github.com/tomtom215/perfectpitch/internal/recommend"
)

func newRecommendCmd() *cobra.Command {
	var (
		dir string
		k   int
	)

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "List the movies most similar to a title, from local artifacts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := recommend.LoadSnapshot(
				filepath.Join(dir, etl.MoviesFile),
				filepath.Join(dir, etl.SimilarityFile),
			)
			if err != nil {
				return err
			}

			opts := recommend.DefaultOptions()
			opts.CacheTTL = 0
			engine := recommend.NewEngine(opts, nil, logging.WithComponent("ppctl"))
			engine.SetSnapshot(snap)

			recs, err := engine.Similar(strings.Join(args, " "), k)
			if err != nil {
				return err
			}
			for _, r := range recs {
				cmd.Printf("%d. %s (%.1f%%)\n", r.Rank, r.Movie.Title, r.SimilarityPercent)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "artifacts", "artifacts", "directory holding movies.json and similarity.bin")
	cmd.Flags().IntVarP(&k, "k", "k", 5, "number of recommendations")
	return cmd
}
