// internal/pipeline/session.go

// Package pipeline runs one question through the full answer path: fetch the
// article, chunk it, embed the chunks, retrieve the most relevant ones, and
// ask the chat model with the retrieved context. Collaborators are injected
// at construction; a Session holds no per-question state.
package pipeline

import (
	"context"
	"errors"

	"github.com/mwiater/wikirag/internal/logging"
	"github.com/mwiater/wikirag/internal/prompt"
	"github.com/mwiater/wikirag/internal/providers"
	"github.com/mwiater/wikirag/internal/rag"
	"github.com/mwiater/wikirag/internal/wiki"
)

// ErrNoContent means no usable document content exists for the question.
// Callers surface it as "no relevant content", not as a failure.
var ErrNoContent = errors.New("no relevant content found")

// Source supplies normalized article text for a topic string.
type Source interface {
	FetchTopic(ctx context.Context, topic string) (wiki.Document, error)
}

// StageFunc receives progress notices as the pipeline advances. May be nil.
type StageFunc func(format string, args ...any)

// RetrievedContext is everything the retrieval half produced for one
// question; it feeds both the prompt and the preview command.
type RetrievedContext struct {
	Topic      string
	ChunkCount int
	Retrieved  rag.Result
}

// Session wires the pipeline's collaborators together.
type Session struct {
	source    Source
	embedder  *rag.Embedder
	retriever *rag.Retriever
	chat      providers.ChatProvider
	chunkSize int
	maxChunks int
}

// New builds a session. chunkSize and maxChunks bound the chunker.
func New(source Source, embedder *rag.Embedder, retriever *rag.Retriever, chat providers.ChatProvider, chunkSize, maxChunks int) *Session {
	return &Session{
		source:    source,
		embedder:  embedder,
		retriever: retriever,
		chat:      chat,
		chunkSize: chunkSize,
		maxChunks: maxChunks,
	}
}

// Retrieve runs the retrieval half of the pipeline for one question.
func (s *Session) Retrieve(ctx context.Context, question string, onStage StageFunc) (RetrievedContext, error) {
	stage := func(format string, args ...any) {
		if onStage != nil {
			onStage(format, args...)
		}
	}

	stage("Searching Wikipedia for: %q", question)
	doc, err := s.source.FetchTopic(ctx, question)
	if err != nil {
		if !errors.Is(err, wiki.ErrNotFound) {
			logging.LogEvent("document fetch failed for %q: %v", question, err)
		}
		return RetrievedContext{}, ErrNoContent
	}

	chunks := rag.SplitChunks(doc.Text, s.chunkSize, s.maxChunks)
	if len(chunks) == 0 {
		return RetrievedContext{}, ErrNoContent
	}
	stage("Found %d chunks in %q", len(chunks), doc.Title)

	stage("Generating embeddings for article content...")
	matrix := s.embedder.EmbedChunks(ctx, chunks)

	stage("Finding most relevant content...")
	result := s.retriever.RetrieveRanked(ctx, question, chunks, matrix)
	if len(result.Chunks) == 0 {
		return RetrievedContext{}, ErrNoContent
	}

	return RetrievedContext{Topic: doc.Title, ChunkCount: len(chunks), Retrieved: result}, nil
}

// Answer runs the full pipeline and blocks until the model's reply is
// complete.
func (s *Session) Answer(ctx context.Context, question, style string, onStage StageFunc) (string, RetrievedContext, error) {
	retrieved, err := s.Retrieve(ctx, question, onStage)
	if err != nil {
		return "", RetrievedContext{}, err
	}

	messages := prompt.BuildMessages(retrieved.Retrieved.Texts(), question, style)
	reply, err := s.chat.Complete(ctx, messages)
	if err != nil {
		return "", retrieved, err
	}
	return reply, retrieved, nil
}

// AnswerStream runs the full pipeline, delivering the reply incrementally
// via callbacks.
func (s *Session) AnswerStream(ctx context.Context, question, style string, onStage StageFunc, callbacks providers.StreamCallbacks) (RetrievedContext, error) {
	retrieved, err := s.Retrieve(ctx, question, onStage)
	if err != nil {
		return RetrievedContext{}, err
	}

	messages := prompt.BuildMessages(retrieved.Retrieved.Texts(), question, style)
	if err := s.chat.Stream(ctx, messages, callbacks); err != nil {
		return retrieved, err
	}
	return retrieved, nil
}
