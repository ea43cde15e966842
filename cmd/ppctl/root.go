// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/perfectpitch/internal/logging"
)

// newRootCmd builds the command tree. Command output goes to out; logs go
// to stderr.
func newRootCmd(out io.Writer) *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:   "ppctl",
		Short: "Perfect Pitch artifact builder and offline query tool",
		Long: `ppctl builds the artifacts served by the Perfect Pitch server and
answers recommendation and sentiment queries against them without a server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := logging.DefaultConfig()
			cfg.Level = logLevel
			cfg.Format = logFormat
			cfg.Output = os.Stderr
			logging.Init(cfg)
			return nil
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	root.AddCommand(
		newBuildArtifactsCmd(),
		newTrainSentimentCmd(),
		newRecommendCmd(),
		newScoreCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ppctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Printf("ppctl %s\n", version)
			return nil
		},
	}
}
