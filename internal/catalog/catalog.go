// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

// Package catalog holds the movie list artifact. Row i of the similarity
// matrix describes Movies()[i], so the order of the catalog is significant
// and never changes after load.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned when a title or ID is not in the catalog.
var ErrNotFound = errors.New("movie not found in catalog")

// Movie is one catalog row as produced by the offline builder.
type Movie struct {
	ID                  int64    `json:"movie_id"`
	Title               string   `json:"title"`
	Overview            string   `json:"overview"`
	Genres              []string `json:"genres"`
	Keywords            []string `json:"keywords,omitempty"`
	Cast                []string `json:"cast"`
	Crew                []string `json:"crew"`
	ProductionCompanies []string `json:"production_companies"`
}

// Catalog is an immutable ordered movie list with title and ID indexes.
type Catalog struct {
	movies  []Movie
	byTitle map[string]int
	byFold  map[string]int
	byID    map[int64]int
}

// New builds a catalog over movies. The slice is owned by the catalog afterwards.
func New(movies []Movie) *Catalog {
	c := &Catalog{
		movies:  movies,
		byTitle: make(map[string]int, len(movies)),
		byFold:  make(map[string]int, len(movies)),
		byID:    make(map[int64]int, len(movies)),
	}
	for i, m := range movies {
		// First occurrence wins for duplicate titles and IDs.
		if _, ok := c.byTitle[m.Title]; !ok {
			c.byTitle[m.Title] = i
		}
		fold := strings.ToLower(strings.TrimSpace(m.Title))
		if _, ok := c.byFold[fold]; !ok {
			c.byFold[fold] = i
		}
		if _, ok := c.byID[m.ID]; !ok {
			c.byID[m.ID] = i
		}
	}
	return c
}

// Load reads a catalog artifact written by Save.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var movies []Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}
	return New(movies), nil
}

// Save writes the catalog atomically (temp file + rename).
func (c *Catalog) Save(path string) error {
	data, err := json.Marshal(c.movies)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".movies-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Len returns the number of movies.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// Movies returns the catalog rows. Callers must not modify the slice.
func (c *Catalog) Movies() []Movie {
	return c.movies
}

// At returns the movie at row i.
func (c *Catalog) At(i int) Movie {
	return c.movies[i]
}

// Index returns the row of title. An exact match is preferred, then a
// case-insensitive one.
func (c *Catalog) Index(title string) (int, error) {
	if i, ok := c.byTitle[title]; ok {
		return i, nil
	}
	if i, ok := c.byFold[strings.ToLower(strings.TrimSpace(title))]; ok {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrNotFound, title)
}

// ByID returns the movie with the given TMDB ID and its row.
func (c *Catalog) ByID(id int64) (Movie, int, error) {
	i, ok := c.byID[id]
	if !ok {
		return Movie{}, -1, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return c.movies[i], i, nil
}

// SearchResult is a page of catalog matches.
type SearchResult struct {
	Movies []Movie `json:"movies"`
	Total  int     `json:"total"`
}

// Search ranks titles that start with query before titles that merely
// contain it, keeping catalog order inside each group. An empty query pages
// through the whole catalog.
func (c *Catalog) Search(query string, limit, offset int) SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))

	type hit struct {
		row    int
		prefix bool
	}
	var hits []hit
	for i, m := range c.movies {
		t := strings.ToLower(m.Title)
		switch {
		case q == "" || strings.HasPrefix(t, q):
			hits = append(hits, hit{row: i, prefix: true})
		case strings.Contains(t, q):
			hits = append(hits, hit{row: i})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].prefix && !hits[b].prefix
	})

	res := SearchResult{Total: len(hits), Movies: []Movie{}}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(hits) {
		return res
	}
	end := len(hits)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	for _, h := range hits[offset:end] {
		res.Movies = append(res.Movies, c.movies[h.row])
	}
	return res
}
