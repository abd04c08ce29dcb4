package rag

import (
	"context"
	"time"

	"github.com/mwiater/wikirag/internal/logging"
	"github.com/mwiater/wikirag/internal/util"
)

const defaultTopK = 3

// ScoredChunk is one retrieved chunk with its source row and distance.
// Distance is zero and meaningless when the result came from the
// document-order fallback.
type ScoredChunk struct {
	Text     string
	Row      int
	Distance float32
}

// Result is the outcome of one retrieval call, with telemetry for the
// preview command.
type Result struct {
	Chunks      []ScoredChunk
	Fallback    bool
	RetrievalMs int
}

// Texts returns just the chunk texts, in ranked order.
func (r Result) Texts() []string {
	texts := make([]string, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		texts = append(texts, c.Text)
	}
	return texts
}

// Retriever selects the chunks most relevant to a question. It holds no
// state across calls: each invocation embeds the question, builds a fresh
// flat index over the supplied matrix, and maps result rows back to chunk
// text. Any failure along that path degrades to the first chunks in
// document order rather than surfacing an error: a best-effort context
// always beats no context.
type Retriever struct {
	embedder *Embedder
	topK     int
}

// NewRetriever builds a retriever around the given embedder. topK values
// below one fall back to the default of 3.
func NewRetriever(embedder *Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Retriever{embedder: embedder, topK: topK}
}

// Retrieve returns the top-k most relevant chunk texts in ascending
// distance order.
func (r *Retriever) Retrieve(ctx context.Context, question string, chunks []string, matrix [][]float32) []string {
	return r.RetrieveRanked(ctx, question, chunks, matrix).Texts()
}

// RetrieveRanked is Retrieve with distances and telemetry attached.
func (r *Retriever) RetrieveRanked(ctx context.Context, question string, chunks []string, matrix [][]float32) Result {
	start := time.Now()

	if len(chunks) == 0 || len(matrix) == 0 {
		return Result{RetrievalMs: elapsedMs(start)}
	}

	query, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		logging.LogEvent("query embedding failed, falling back to document order: %v", err)
		return r.fallback(chunks, start)
	}

	index, err := NewFlatIndex(r.embedder.Dimensions(), matrix)
	if err != nil {
		logging.LogEvent("index build failed, falling back to document order: %v", err)
		return r.fallback(chunks, start)
	}

	neighbors, err := index.Search(query, r.topK)
	if err != nil {
		logging.LogEvent("index search failed, falling back to document order: %v", err)
		return r.fallback(chunks, start)
	}

	scored := make([]ScoredChunk, 0, len(neighbors))
	for _, n := range neighbors {
		// Rows always map 1:1 onto chunks; the bound check is defensive.
		if n.Row < 0 || n.Row >= len(chunks) {
			continue
		}
		scored = append(scored, ScoredChunk{Text: chunks[n.Row], Row: n.Row, Distance: n.Distance})
	}
	return Result{Chunks: scored, RetrievalMs: elapsedMs(start)}
}

func (r *Retriever) fallback(chunks []string, start time.Time) Result {
	k := util.Min(r.topK, len(chunks))
	scored := make([]ScoredChunk, 0, k)
	for i := 0; i < k; i++ {
		scored = append(scored, ScoredChunk{Text: chunks[i], Row: i})
	}
	return Result{Chunks: scored, Fallback: true, RetrievalMs: elapsedMs(start)}
}

func elapsedMs(start time.Time) int {
	return int(time.Since(start) / time.Millisecond)
}
