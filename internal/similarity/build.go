// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package similarity

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Build computes the cosine similarity matrix of the given feature vectors.
// Every row is L2-normalised and the Gram matrix X·Xᵀ is formed with a
// symmetric rank-k update. Zero vectors produce an all-zero row.
func Build(vectors [][]float64) (*Matrix, error) {
	n := len(vectors)
	if n == 0 {
		return nil, fmt.Errorf("similarity: no vectors")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("similarity: zero-length vectors")
	}

	x := mat.NewDense(n, dim, nil)
	row := make([]float64, dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("similarity: vector %d has %d features, want %d", i, len(v), dim)
		}
		copy(row, v)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		x.SetRow(i, row)
	}

	var gram mat.SymDense
	gram.SymOuterK(1, x)

	data := make([]float32, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s := float32(clamp(gram.At(i, j)))
			data[i*n+j] = s
			data[j*n+i] = s
		}
	}
	return &Matrix{n: n, data: data}, nil
}

// clamp removes floating point overshoot outside [-1, 1].
func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
