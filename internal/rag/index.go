package rag

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mwiater/wikirag/internal/util"
)

// ErrDimensionMismatch is returned when a query vector's width does not
// match the index. This is a programming contract violation, not a runtime
// condition: the embedder guarantees the width of everything it produces.
var ErrDimensionMismatch = errors.New("query dimension does not match index dimension")

// Neighbor is one k-NN result: a matrix row position and its squared
// Euclidean distance to the query.
type Neighbor struct {
	Row      int
	Distance float32
}

// FlatIndex is an exact, brute-force nearest-neighbor index over a fixed
// vector set. Build and query are both O(N·D), which is fine here: N is
// bounded by the per-document chunk budget, not a corpus. It is rebuilt for
// every retrieval call and holds no other state.
type FlatIndex struct {
	dims    int
	vectors [][]float32
}

// NewFlatIndex validates that every row has the given width and wraps the
// matrix. The matrix is not copied; callers must not mutate it while the
// index is in use.
func NewFlatIndex(dims int, vectors [][]float32) (*FlatIndex, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("index dimension must be positive, got %d", dims)
	}
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("row %d has dimension %d, want %d", i, len(v), dims)
		}
	}
	return &FlatIndex{dims: dims, vectors: vectors}, nil
}

// Len returns the number of indexed vectors.
func (ix *FlatIndex) Len() int {
	return len(ix.vectors)
}

// Search returns the k rows nearest to query by squared Euclidean distance,
// ascending, ties broken by ascending row position. k is clamped to the
// number of rows; an empty index yields an empty result. No normalization
// is applied, so vector magnitude affects ranking exactly as embedded.
func (ix *FlatIndex) Search(query []float32, k int) ([]Neighbor, error) {
	if len(query) != ix.dims {
		return nil, ErrDimensionMismatch
	}
	if len(ix.vectors) == 0 || k <= 0 {
		return nil, nil
	}

	neighbors := make([]Neighbor, len(ix.vectors))
	for row, vector := range ix.vectors {
		var dist float32
		for i := range query {
			d := query[i] - vector[i]
			dist += d * d
		}
		neighbors[row] = Neighbor{Row: row, Distance: dist}
	}

	// Stable sort on an already row-ordered slice gives the ascending-row
	// tie-break for free.
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	return neighbors[:util.Min(k, len(neighbors))], nil
}
