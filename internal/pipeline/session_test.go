package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mwiater/wikirag/internal/providers"
	"github.com/mwiater/wikirag/internal/rag"
	"github.com/mwiater/wikirag/internal/wiki"
)

type fakeSource struct {
	doc wiki.Document
	err error
}

func (f *fakeSource) FetchTopic(context.Context, string) (wiki.Document, error) {
	return f.doc, f.err
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return f.vector, f.err
}

type fakeChat struct {
	reply    string
	err      error
	messages []providers.ChatMessage
}

func (f *fakeChat) Complete(_ context.Context, messages []providers.ChatMessage) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

func (f *fakeChat) Stream(_ context.Context, messages []providers.ChatMessage, cb providers.StreamCallbacks) error {
	f.messages = messages
	if f.err != nil {
		return f.err
	}
	for _, part := range strings.SplitAfter(f.reply, " ") {
		if cb.OnChunk != nil {
			if err := cb.OnChunk(part); err != nil {
				return err
			}
		}
	}
	if cb.OnComplete != nil {
		return cb.OnComplete()
	}
	return nil
}

func (f *fakeChat) Close() error { return nil }

func newTestSession(source Source, embed providers.Embedder, chat providers.ChatProvider) *Session {
	embedder := rag.NewEmbedder(embed, 2)
	retriever := rag.NewRetriever(embedder, 2)
	return New(source, embedder, retriever, chat, 800, 10)
}

func TestAnswerHappyPath(t *testing.T) {
	source := &fakeSource{doc: wiki.Document{Title: "Go", Text: "Go is a language. It has gophers."}}
	chat := &fakeChat{reply: "Go is great."}
	session := newTestSession(source, &fakeEmbedder{vector: []float32{1, 0}}, chat)

	var stages []string
	reply, retrieved, err := session.Answer(context.Background(), "what is go?", "default", func(format string, args ...any) {
		stages = append(stages, format)
	})
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if reply != "Go is great." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if retrieved.Topic != "Go" {
		t.Fatalf("unexpected topic %q", retrieved.Topic)
	}
	if retrieved.ChunkCount != 1 {
		t.Fatalf("expected 1 chunk, got %d", retrieved.ChunkCount)
	}
	if len(stages) == 0 {
		t.Fatalf("expected stage notifications")
	}
	// The retrieved context must reach the prompt.
	last := chat.messages[len(chat.messages)-1]
	if !strings.Contains(last.Content, "Go is a language") {
		t.Fatalf("expected context in user message, got %q", last.Content)
	}
}

func TestRetrieveSourceNotFound(t *testing.T) {
	source := &fakeSource{err: wiki.ErrNotFound}
	session := newTestSession(source, &fakeEmbedder{vector: []float32{1, 0}}, &fakeChat{})

	if _, err := session.Retrieve(context.Background(), "xyzzy", nil); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestRetrieveSourceHardFailureIsAbsorbed(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	session := newTestSession(source, &fakeEmbedder{vector: []float32{1, 0}}, &fakeChat{})

	if _, err := session.Retrieve(context.Background(), "anything", nil); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent for source failure, got %v", err)
	}
}

func TestRetrieveEmptyDocument(t *testing.T) {
	source := &fakeSource{doc: wiki.Document{Title: "Blank", Text: "   "}}
	session := newTestSession(source, &fakeEmbedder{vector: []float32{1, 0}}, &fakeChat{})

	if _, err := session.Retrieve(context.Background(), "blank", nil); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent for empty document, got %v", err)
	}
}

func TestRetrieveDegradesWhenEmbeddingFails(t *testing.T) {
	source := &fakeSource{doc: wiki.Document{Title: "Go", Text: strings.Repeat("Go facts. ", 200)}}
	session := newTestSession(source, &fakeEmbedder{err: errors.New("gateway outage")}, &fakeChat{})

	retrieved, err := session.Retrieve(context.Background(), "what is go?", nil)
	if err != nil {
		t.Fatalf("expected degraded result, got error %v", err)
	}
	if !retrieved.Retrieved.Fallback {
		t.Fatalf("expected fallback retrieval when every embedding call fails")
	}
	if len(retrieved.Retrieved.Chunks) == 0 {
		t.Fatalf("expected fallback chunks")
	}
}

func TestAnswerPropagatesChatError(t *testing.T) {
	source := &fakeSource{doc: wiki.Document{Title: "Go", Text: "Go is a language."}}
	chat := &fakeChat{err: errors.New("model unavailable")}
	session := newTestSession(source, &fakeEmbedder{vector: []float32{1, 0}}, chat)

	if _, _, err := session.Answer(context.Background(), "q", "default", nil); err == nil {
		t.Fatalf("expected chat error to propagate")
	}
}

func TestAnswerStreamDeliversChunks(t *testing.T) {
	source := &fakeSource{doc: wiki.Document{Title: "Go", Text: "Go is a language."}}
	chat := &fakeChat{reply: "streamed reply"}
	session := newTestSession(source, &fakeEmbedder{vector: []float32{1, 0}}, chat)

	var got strings.Builder
	completed := false
	_, err := session.AnswerStream(context.Background(), "q", "default", nil, providers.StreamCallbacks{
		OnChunk:    func(content string) error { got.WriteString(content); return nil },
		OnComplete: func() error { completed = true; return nil },
	})
	if err != nil {
		t.Fatalf("AnswerStream returned error: %v", err)
	}
	if got.String() != "streamed reply" {
		t.Fatalf("unexpected streamed reply %q", got.String())
	}
	if !completed {
		t.Fatalf("expected completion callback")
	}
}
