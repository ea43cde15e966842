// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/perfectpitch/internal/catalog"
	"github.com/tomtom215/perfectpitch/internal/etl"
	"github.com/tomtom215/perfectpitch/internal/sentiment"
	"github.com/tomtom215/perfectpitch/internal/similarity"
)

// run executes ppctl with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeArtifacts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	movies := []catalog.Movie{
		{ID: 19995, Title: "Avatar"},
		{ID: 679, Title: "Aliens"},
		{ID: 597, Title: "Titanic"},
	}
	m, err := similarity.New(3, []float32{
		1.0, 0.9, 0.2,
		0.9, 1.0, 0.1,
		0.2, 0.1, 1.0,
	})
	require.NoError(t, err)
	require.NoError(t, catalog.New(movies).Save(filepath.Join(dir, etl.MoviesFile)))
	require.NoError(t, m.Save(filepath.Join(dir, etl.SimilarityFile)))
	return dir
}

const reviewsCSV = `review,sentiment
"A wonderful, moving film with great acting.",positive
"Great fun from start to finish, loved it.",positive
"Brilliant and wonderful, a great story.",positive
"Boring and awful, a waste of time.",negative
"Terrible plot and awful acting.",negative
"Dull, boring and far too long.",negative
`

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ppctl "+version+"\n", out)
}

func TestRecommendCmd(t *testing.T) {
	dir := writeArtifacts(t)

	out, err := run(t, "recommend", "Avatar", "-k", "2", "--artifacts", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1. Aliens"), "got %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2. Titanic"), "got %q", lines[1])
}

func TestRecommendCmd_Errors(t *testing.T) {
	dir := writeArtifacts(t)

	_, err := run(t, "recommend", "Nonexistent Movie", "--artifacts", dir)
	assert.Error(t, err)

	_, err = run(t, "recommend", "Avatar", "--artifacts", t.TempDir())
	assert.Error(t, err, "missing artifacts should fail")

	_, err = run(t, "recommend")
	assert.Error(t, err, "title is required")
}

func TestTrainAndScore(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "reviews.csv")
	model := filepath.Join(dir, "sentiment.json")
	require.NoError(t, os.WriteFile(data, []byte(reviewsCSV), 0o600))

	out, err := run(t, "train-sentiment", "--data", data, "--out", model, "--holdout", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "model written to "+model)

	_, err = sentiment.Load(model)
	require.NoError(t, err)

	out, err = run(t, "score", "--model", model, "Wonderful acting.", "Awful plot.")
	require.NoError(t, err)
	assert.Contains(t, out, "overall:")

	out, err = run(t, "score", "--model", model, "--json", "A wonderful, great film.")
	require.NoError(t, err)

	var score sentiment.ReviewScore
	require.NoError(t, json.Unmarshal([]byte(out), &score))
	require.Len(t, score.Sentences, 1)
	assert.Equal(t, sentiment.LabelPositive, score.Overall.Label)
}

func TestTrainSentimentCmd_RequiresData(t *testing.T) {
	_, err := run(t, "train-sentiment")
	assert.Error(t, err)
}

func TestBuildArtifactsCmd_RequiresInputs(t *testing.T) {
	_, err := run(t, "build-artifacts", "--out", t.TempDir())
	assert.Error(t, err)
}

func TestReadLabelledCSV(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantDocs   int
		wantLabels []bool
		wantErr    bool
	}{
		{
			name:       "header skipped",
			input:      "review,sentiment\ngood,positive\nbad,negative\n",
			wantDocs:   2,
			wantLabels: []bool{true, false},
		},
		{
			name:       "no header, numeric labels",
			input:      "good,1\nbad,0\nfine,POS\n",
			wantDocs:   3,
			wantLabels: []bool{true, false, true},
		},
		{
			name:    "bad label after header",
			input:   "review,sentiment\ngood,maybe\n",
			wantErr: true,
		},
		{
			name:    "header only",
			input:   "review,sentiment\n",
			wantErr: true,
		},
		{
			name:    "wrong column count",
			input:   "good,positive,extra\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, labels, err := readLabelledCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, docs, tt.wantDocs)
			assert.Equal(t, tt.wantLabels, labels)
		})
	}
}
