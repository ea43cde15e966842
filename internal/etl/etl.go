// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

// Package etl builds the catalog and similarity artifacts from the TMDB 5000
// movie and credit CSV exports.
//
// The pipeline has four stages:
//
//  1. LoadTMDB5000 joins the two CSV files on title inside an in-memory
//     DuckDB and drops rows with missing columns.
//  2. ParseMovies decodes the JSON list columns into catalog movies.
//  3. Tags and Vectorize turn every movie into a bag-of-words count vector.
//  4. BuildArtifacts writes movies.json and similarity.bin.
package etl

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver registration
)

// RawMovie is one joined CSV row before the JSON list columns are decoded.
type RawMovie struct {
	ID                  int64
	Title               string
	Overview            string
	Genres              string
	Keywords            string
	Cast                string
	Crew                string
	ProductionCompanies string
}

// joinQuery selects the columns the catalog needs. The movies file carries
// its own "id" column, the credits file carries "movie_id"; the join keeps
// the credits id the way the dataset is usually merged. Rows follow the
// movies file so catalog indices are stable across rebuilds.
const joinQuery = `
WITH m AS (
  SELECT *, row_number() OVER () AS movies_row
  FROM read_csv_auto('%s', header = true, all_varchar = true)
), c AS (
  SELECT *, row_number() OVER () AS credits_row
  FROM read_csv_auto('%s', header = true, all_varchar = true)
)
SELECT c.movie_id, title, m.overview, m.genres, m.keywords, c."cast", c.crew, m.production_companies
FROM m
JOIN c USING (title)
WHERE c.movie_id IS NOT NULL
  AND title IS NOT NULL
  AND m.overview IS NOT NULL
  AND m.genres IS NOT NULL
  AND m.keywords IS NOT NULL
  AND c."cast" IS NOT NULL
  AND c.crew IS NOT NULL
  AND m.production_companies IS NOT NULL
ORDER BY m.movies_row, c.credits_row`

// LoadTMDB5000 reads and joins the movies and credits CSV exports.
// Rows come back in movies-file order.
func LoadTMDB5000(ctx context.Context, moviesCSV, creditsCSV string) ([]RawMovie, error) {
	conn, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer conn.Close()

	query := fmt.Sprintf(joinQuery, quoteLiteral(moviesCSV), quoteLiteral(creditsCSV))
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("join csv files: %w", err)
	}
	defer rows.Close()

	var out []RawMovie
	for rows.Next() {
		var (
			r  RawMovie
			id string
		)
		if err := rows.Scan(&id, &r.Title, &r.Overview, &r.Genres, &r.Keywords, &r.Cast, &r.Crew, &r.ProductionCompanies); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if r.ID, err = strconv.ParseInt(strings.TrimSpace(id), 10, 64); err != nil {
			continue
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable rows in %s and %s", moviesCSV, creditsCSV)
	}
	return out, nil
}

// quoteLiteral escapes a string for use inside a single-quoted SQL literal.
// Table function arguments cannot be bound as parameters.
func quoteLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
