// internal/providers/provider.go

// Package providers defines the capability interfaces the retrieval pipeline
// depends on. The core takes these as injected collaborators rather than
// reaching into process-wide state, so a test can substitute either one with
// a local fake.
package providers

import "context"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// Embedder produces a fixed-dimension vector representation for one text.
// Implementations return an error for any service failure; callers decide
// whether that failure is isolated (zero-fill) or triggers a fallback.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// StreamCallbacks defines the callback functions invoked during a streaming
// chat completion. OnChunk is called for each content delta received, and
// OnComplete is called once when the stream finishes.
type StreamCallbacks struct {
	OnChunk    func(content string) error
	OnComplete func() error
}

// ChatProvider is the interface a conversational model service must implement.
type ChatProvider interface {
	// Complete sends the messages and blocks until the full reply is available.
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
	// Stream sends the messages and delivers the reply incrementally.
	Stream(ctx context.Context, messages []ChatMessage, callbacks StreamCallbacks) error
	// Close cleans up any resources used by the provider.
	Close() error
}
