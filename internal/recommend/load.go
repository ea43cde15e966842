// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package recommend

import (
	"fmt"

	"github.com/tomtom215/perfectpitch/internal/catalog"
	"github.com/tomtom215/perfectpitch/internal/similarity"
)

// LoadSnapshot reads the catalog and similarity artifacts from disk.
func LoadSnapshot(moviesPath, similarityPath string) (*Snapshot, error) {
	cat, err := catalog.Load(moviesPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	m, err := similarity.Load(similarityPath)
	if err != nil {
		return nil, fmt.Errorf("load similarity matrix: %w", err)
	}
	return NewSnapshot(cat, m)
}
