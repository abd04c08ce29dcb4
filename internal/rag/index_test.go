package rag

import (
	"errors"
	"testing"
)

func TestSearchExactMatchFirst(t *testing.T) {
	matrix := [][]float32{
		{0, 1},
		{1, 0},
		{0.5, 0.5},
	}
	index, err := NewFlatIndex(2, matrix)
	if err != nil {
		t.Fatalf("NewFlatIndex returned error: %v", err)
	}

	neighbors, err := index.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(neighbors) != 3 {
		t.Fatalf("expected 3 neighbors, got %d", len(neighbors))
	}
	if neighbors[0].Row != 1 || neighbors[0].Distance != 0 {
		t.Fatalf("expected row 1 first at distance 0, got row %d distance %f", neighbors[0].Row, neighbors[0].Distance)
	}
	for i := 1; i < len(neighbors); i++ {
		if neighbors[i].Distance < neighbors[i-1].Distance {
			t.Fatalf("distances not ascending: %v", neighbors)
		}
	}
}

func TestSearchTieBreakByRow(t *testing.T) {
	matrix := [][]float32{
		{0, 1},
		{1, 0},
		{0, 1}, // same distance as row 0
	}
	index, err := NewFlatIndex(2, matrix)
	if err != nil {
		t.Fatalf("NewFlatIndex returned error: %v", err)
	}

	neighbors, err := index.Search([]float32{0, 1}, 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if neighbors[0].Row != 0 || neighbors[1].Row != 2 {
		t.Fatalf("expected equal distances ordered by row (0 then 2), got %v", neighbors)
	}
}

func TestSearchClampsK(t *testing.T) {
	index, err := NewFlatIndex(2, [][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("NewFlatIndex returned error: %v", err)
	}

	neighbors, err := index.Search([]float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("expected k clamped to 2, got %d", len(neighbors))
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	index, err := NewFlatIndex(2, nil)
	if err != nil {
		t.Fatalf("NewFlatIndex returned error: %v", err)
	}
	if index.Len() != 0 {
		t.Fatalf("expected empty index")
	}

	neighbors, err := index.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("expected empty result, not error: %v", err)
	}
	if len(neighbors) != 0 {
		t.Fatalf("expected no neighbors, got %d", len(neighbors))
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	index, err := NewFlatIndex(2, [][]float32{{1, 0}})
	if err != nil {
		t.Fatalf("NewFlatIndex returned error: %v", err)
	}

	if _, err := index.Search([]float32{1, 0, 0}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestNewFlatIndexRejectsRaggedMatrix(t *testing.T) {
	if _, err := NewFlatIndex(2, [][]float32{{1, 0}, {1}}); err == nil {
		t.Fatalf("expected error for ragged matrix")
	}
	if _, err := NewFlatIndex(0, nil); err == nil {
		t.Fatalf("expected error for non-positive dimension")
	}
}

func TestSearchAllZeroRows(t *testing.T) {
	// Every embedding failed: the matrix is all zero rows. Search must still
	// return k positions without raising, all equally distant.
	matrix := [][]float32{{0, 0}, {0, 0}, {0, 0}}
	index, err := NewFlatIndex(2, matrix)
	if err != nil {
		t.Fatalf("NewFlatIndex returned error: %v", err)
	}

	neighbors, err := index.Search([]float32{3, 4}, 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(neighbors))
	}
	if neighbors[0].Row != 0 || neighbors[1].Row != 1 {
		t.Fatalf("expected row-order ties, got %v", neighbors)
	}
	if neighbors[0].Distance != 25 {
		t.Fatalf("expected squared distance 25, got %f", neighbors[0].Distance)
	}
}
