// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package tmdb

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Display fallbacks used when TMDB omits a field.
const (
	RatingUnavailable    = "N/A"
	DefaultOverview      = "No description available."
	DefaultReleaseDate   = "Unknown"
	PlaceholderPosterURL = "https://via.placeholder.com/300x450?text=No+Poster"
)

// Details is the subset of TMDB movie metadata shown next to a recommendation.
type Details struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title,omitempty"`
	Poster      *string  `json:"poster"`
	Rating      Rating   `json:"rating"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"release_date"`
	ReleaseYear string   `json:"release_year,omitempty"`
	Genres      []string `json:"genres"`
}

// PosterOrPlaceholder returns the poster URL, or a placeholder image when the
// movie has none.
func (d *Details) PosterOrPlaceholder() string {
	if d == nil || d.Poster == nil {
		return PlaceholderPosterURL
	}
	return *d.Poster
}

// TopGenres returns at most n genre names.
func (d *Details) TopGenres(n int) []string {
	if d == nil || n <= 0 {
		return nil
	}
	if len(d.Genres) <= n {
		return d.Genres
	}
	return d.Genres[:n]
}

// Rating is a TMDB vote average. It encodes as a number when known and as
// "N/A" otherwise.
type Rating struct {
	Value float64
	Known bool
}

// String formats the rating with one decimal, or "N/A".
func (r Rating) String() string {
	if !r.Known {
		return RatingUnavailable
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

// MarshalJSON implements json.Marshaler.
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Known {
		return []byte(`"` + RatingUnavailable + `"`), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '"' || bytes.Equal(data, []byte("null")) {
		*r = Rating{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Rating{Value: v, Known: true}
	return nil
}

// movieResponse mirrors the fields read from GET /movie/{id}.
type movieResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	PosterPath  *string  `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
	Overview    *string  `json:"overview"`
	ReleaseDate *string  `json:"release_date"`
	Genres      []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// toDetails applies the display defaults. imageBase is the poster size prefix,
// e.g. https://image.tmdb.org/t/p/w500/.
func (m *movieResponse) toDetails(imageBase string) *Details {
	d := &Details{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    DefaultOverview,
		ReleaseDate: DefaultReleaseDate,
		Genres:      make([]string, 0, len(m.Genres)),
	}

	if m.PosterPath != nil && *m.PosterPath != "" {
		poster := strings.TrimSuffix(imageBase, "/") + "/" + strings.TrimPrefix(*m.PosterPath, "/")
		d.Poster = &poster
	}
	if m.VoteAverage != nil {
		d.Rating = Rating{Value: *m.VoteAverage, Known: true}
	}
	if m.Overview != nil && strings.TrimSpace(*m.Overview) != "" {
		d.Overview = *m.Overview
	}
	if m.ReleaseDate != nil && *m.ReleaseDate != "" {
		d.ReleaseDate = *m.ReleaseDate
		if len(d.ReleaseDate) >= 4 {
			d.ReleaseYear = d.ReleaseDate[:4]
		}
	}
	for _, g := range m.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	return d
}
