// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

// Command ppctl builds Perfect Pitch artifacts and queries them offline.
//
//	ppctl build-artifacts --movies tmdb_5000_movies.csv --credits tmdb_5000_credits.csv --out ./artifacts
//	ppctl train-sentiment --data reviews.csv --out ./artifacts/sentiment.json
//	ppctl recommend "The Dark Knight" -k 5 --artifacts ./artifacts
//	ppctl score "Great acting. Terrible plot." --model ./artifacts/sentiment.json
package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
