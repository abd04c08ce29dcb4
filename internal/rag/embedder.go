package rag

import (
	"context"
	"fmt"

	"github.com/mwiater/wikirag/internal/logging"
	"github.com/mwiater/wikirag/internal/providers"
)

// Embedder turns chunk sequences into positionally-aligned embedding
// matrices. Row i of the matrix always corresponds to chunk i: a chunk whose
// embedding call fails is represented by a zero vector rather than dropped,
// because dropping or reordering rows would silently corrupt every ranking
// computed downstream. A zero row is effectively never selected as relevant,
// which is the intended demotion for an unembeddable chunk.
type Embedder struct {
	provider providers.Embedder
	dims     int
}

// NewEmbedder wraps the given embedding capability. dims is the contract
// width of every produced vector.
func NewEmbedder(provider providers.Embedder, dims int) *Embedder {
	return &Embedder{provider: provider, dims: dims}
}

// Dimensions returns the vector width every row is guaranteed to have.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// EmbedChunks embeds each chunk in document order and returns exactly
// len(chunks) rows of the contract width. Per-item failures are absorbed:
// the failed position holds a zero vector and the batch continues. An empty
// input returns an empty matrix without calling the service.
func (e *Embedder) EmbedChunks(ctx context.Context, chunks []string) [][]float32 {
	matrix := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := e.provider.Embed(ctx, chunk)
		if err != nil {
			logging.LogEvent("embedding chunk %d/%d failed, substituting zero vector: %v", i+1, len(chunks), err)
			vector = nil
		} else if len(vector) != e.dims {
			logging.LogEvent("embedding chunk %d/%d returned %d dimensions, want %d; substituting zero vector", i+1, len(chunks), len(vector), e.dims)
			vector = nil
		}
		if vector == nil {
			vector = make([]float32, e.dims)
		}
		matrix = append(matrix, vector)
	}
	return matrix
}

// EmbedQuery embeds a single question text. Unlike EmbedChunks, a failure is
// returned to the caller: the retriever owns the fallback decision for the
// query path.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.provider.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vector) != e.dims {
		return nil, fmt.Errorf("embed query: service returned %d dimensions, want %d", len(vector), e.dims)
	}
	return vector, nil
}
