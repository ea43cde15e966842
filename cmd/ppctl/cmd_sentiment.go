// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/perfectpitch/internal/logging"
	"github.com/tomtom215/perfectpitch/internal/sentiment"
)

func newTrainSentimentCmd() *cobra.Command {
	var (
		dataPath string
		outPath  string
		opts     = sentiment.DefaultTrainOptions()
	)

	cmd := &cobra.Command{
		Use:   "train-sentiment",
		Short: "Train the review sentiment model from a labelled CSV",
		Long: `Reads a two-column CSV of review text and label and fits a TF-IDF
logistic regression. Labels may be positive/negative, pos/neg or 1/0.
A header row is detected and skipped. The IMDB 50K reviews dataset
(review,sentiment) works as-is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(dataPath)
			if err != nil {
				return err
			}
			defer f.Close()

			docs, labels, err := readLabelledCSV(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", dataPath, err)
			}
			logging.Info().Int("examples", len(docs)).Msg("training sentiment model")

			model, err := sentiment.Train(docs, labels, opts)
			if err != nil {
				return err
			}
			if err := model.Save(outPath); err != nil {
				return err
			}

			report, err := json.MarshalIndent(model.Report, "", "  ")
			if err != nil {
				return err
			}
			cmd.Printf("%s\n", report)
			cmd.Printf("model written to %s\n", outPath)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dataPath, "data", "", "labelled CSV (text,label)")
	f.StringVar(&outPath, "out", "sentiment.json", "model output path")
	f.IntVar(&opts.Epochs, "epochs", opts.Epochs, "gradient descent epochs")
	f.Float64Var(&opts.LearningRate, "learning-rate", opts.LearningRate, "gradient descent step size")
	f.Float64Var(&opts.HoldoutRatio, "holdout", opts.HoldoutRatio, "fraction of examples held out for evaluation")
	f.Uint64Var(&opts.Seed, "seed", opts.Seed, "shuffle seed")
	f.IntVar(&opts.Fit.NgramMax, "ngram", opts.Fit.NgramMax, "largest n-gram")
	f.IntVar(&opts.Fit.MinDF, "min-df", opts.Fit.MinDF, "minimum document frequency")
	f.IntVar(&opts.Fit.MaxFeatures, "max-features", opts.Fit.MaxFeatures, "vocabulary cap (0 = unlimited)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

// parseLabel maps the label spellings found in common review datasets.
func parseLabel(s string) (positive, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "pos", "1", "true":
		return true, true
	case "negative", "neg", "0", "false":
		return false, true
	}
	return false, false
}

// readLabelledCSV reads text,label rows. An unparseable label on the first
// row marks a header; anywhere else it is an error.
func readLabelledCSV(r io.Reader) ([]string, []bool, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.ReuseRecord = true

	var (
		docs   []string
		labels []bool
	)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		label, ok := parseLabel(rec[1])
		if !ok {
			if line == 1 {
				continue
			}
			return nil, nil, fmt.Errorf("line %d: unknown label %q", line, rec[1])
		}
		docs = append(docs, rec[0])
		labels = append(labels, label)
	}
	if len(docs) == 0 {
		return nil, nil, errors.New("no labelled rows")
	}
	return docs, labels, nil
}

func newScoreCmd() *cobra.Command {
	var (
		modelPath string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "score <text>",
		Short: "Score review text sentence by sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := sentiment.Load(modelPath)
			if err != nil {
				return err
			}
			score, err := sentiment.ScoreReview(model, strings.Join(args, " "))
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(score, "", "  ")
				if err != nil {
					return err
				}
				cmd.Printf("%s\n", data)
				return nil
			}
			for _, s := range score.Sentences {
				cmd.Printf("%-8s %.2f  %s\n", s.Result.Label, s.Result.Score, s.Text)
			}
			cmd.Printf("overall: %s (%.2f)\n", score.Overall.Label, score.Overall.Score)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "artifacts/sentiment.json", "sentiment model path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}
