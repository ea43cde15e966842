// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

// Package similarity stores the precomputed movie-to-movie cosine similarity
// matrix and answers top-k neighbour queries against it.
package similarity

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
)

// File format: magic, version, N, then N*N little-endian float32 in row-major order.
const (
	magic         = "PPSM"
	formatVersion = uint32(1)
	headerSize    = 12

	// maxSize guards allocation when reading a corrupt header.
	maxSize = 1 << 16
)

var (
	// ErrBadFormat is returned when a matrix file is not recognised.
	ErrBadFormat = errors.New("similarity: bad matrix file")

	// ErrOutOfRange is returned for row indexes outside the matrix.
	ErrOutOfRange = errors.New("similarity: row out of range")
)

// Matrix is a dense square similarity matrix.
type Matrix struct {
	n    int
	data []float32
}

// New wraps data as an n×n matrix. len(data) must be n*n.
func New(n int, data []float32) (*Matrix, error) {
	if n < 0 || len(data) != n*n {
		return nil, fmt.Errorf("similarity: %d values do not form a %dx%d matrix", len(data), n, n)
	}
	return &Matrix{n: n, data: data}, nil
}

// Size returns N.
func (m *Matrix) Size() int {
	return m.n
}

// At returns the similarity between rows i and j.
func (m *Matrix) At(i, j int) float32 {
	return m.data[i*m.n+j]
}

// Row returns the similarity row of movie i. The slice aliases the matrix.
func (m *Matrix) Row(i int) ([]float32, error) {
	if i < 0 || i >= m.n {
		return nil, fmt.Errorf("%w: %d (size %d)", ErrOutOfRange, i, m.n)
	}
	return m.data[i*m.n : (i+1)*m.n], nil
}

// Neighbor is one top-k result.
type Neighbor struct {
	Index int
	Score float32
}

// TopK returns the k rows most similar to row i, best first. Ties are broken
// by the lower index. Row i itself is never returned.
func (m *Matrix) TopK(i, k int) ([]Neighbor, error) {
	row, err := m.Row(i)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return []Neighbor{}, nil
	}

	candidates := make([]Neighbor, 0, m.n-1)
	for j, s := range row {
		if j == i || math.IsNaN(float64(s)) {
			continue
		}
		candidates = append(candidates, Neighbor{Index: j, Score: s})
	}

	slices.SortFunc(candidates, func(a, b Neighbor) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return a.Index - b.Index
		}
	})

	if k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// Write encodes the matrix to w.
func (m *Matrix) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, headerSize)
	copy(header, magic)
	binary.LittleEndian.PutUint32(header[4:], formatVersion)
	binary.LittleEndian.PutUint32(header[8:], uint32(m.n)) //nolint:gosec // n fits: built from catalog length
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, m.data); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	return bw.Flush()
}

// Read decodes a matrix written by Write.
func Read(r io.Reader) (*Matrix, error) {
	br := bufio.NewReader(r)

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("%w: short header: %v", ErrBadFormat, err)
	}
	if string(header[:4]) != magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadFormat, header[:4])
	}
	if v := binary.LittleEndian.Uint32(header[4:]); v != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadFormat, v)
	}
	n := int(binary.LittleEndian.Uint32(header[8:]))
	if n > maxSize {
		return nil, fmt.Errorf("%w: size %d exceeds %d", ErrBadFormat, n, maxSize)
	}

	data := make([]float32, n*n)
	if err := binary.Read(br, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("%w: values: %v", ErrBadFormat, err)
	}
	return &Matrix{n: n, data: data}, nil
}

// Load reads a matrix file from disk.
func Load(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open similarity matrix: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Save writes the matrix to path atomically.
func (m *Matrix) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".similarity-*.bin")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after successful rename

	if err := m.Write(tmp); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close matrix file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
