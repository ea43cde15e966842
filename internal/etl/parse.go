// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package etl

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/perfectpitch/internal/catalog"
)

// CastLimit is how many billed cast members are kept per movie.
const CastLimit = 5

type namedEntry struct {
	Name string `json:"name"`
	Job  string `json:"job,omitempty"`
}

func decodeEntries(field string) []namedEntry {
	var entries []namedEntry
	if err := json.Unmarshal([]byte(field), &entries); err != nil {
		return nil
	}
	return entries
}

// Names returns the "name" of every object in a JSON list column.
// Malformed input yields an empty list.
func Names(field string) []string {
	return TopNames(field, -1)
}

// TopNames returns at most n names from a JSON list column; n < 0 means all.
func TopNames(field string, n int) []string {
	entries := decodeEntries(field)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if n >= 0 && len(out) == n {
			break
		}
		out = append(out, e.Name)
	}
	return out
}

// Director returns the first crew member whose job is Director.
func Director(field string) []string {
	for _, e := range decodeEntries(field) {
		if e.Job == "Director" {
			return []string{e.Name}
		}
	}
	return []string{}
}

// ParseMovie decodes the list columns of one raw row.
func ParseMovie(r RawMovie) catalog.Movie {
	return catalog.Movie{
		ID:                  r.ID,
		Title:               r.Title,
		Overview:            r.Overview,
		Genres:              Names(r.Genres),
		Keywords:            Names(r.Keywords),
		Cast:                TopNames(r.Cast, CastLimit),
		Crew:                Director(r.Crew),
		ProductionCompanies: Names(r.ProductionCompanies),
	}
}

// ParseMovies decodes all rows using up to workers goroutines. Output order
// matches input order.
func ParseMovies(ctx context.Context, rows []RawMovie, workers int) ([]catalog.Movie, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]catalog.Movie, len(rows))

	chunk := (len(rows) + workers - 1) / workers
	if chunk == 0 {
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if i%256 == 0 {
					if err := ctx.Err(); err != nil {
						return fmt.Errorf("parse movies: %w", err)
					}
				}
				out[i] = ParseMovie(rows[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
