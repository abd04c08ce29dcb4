// internal/providers/gateway/provider.go

// Package gateway implements the providers interfaces against an
// OpenAI-compatible API gateway (Kong). The gateway authenticates with both
// a bearer token and an "apikey" header carrying the same credential.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mwiater/wikirag/internal/appconfig"
	"github.com/mwiater/wikirag/internal/providers"
)

// Provider talks to the chat and embedding endpoints of the gateway.
type Provider struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
	temperature    float32
}

// apikeyTransport adds the gateway's apikey header to every request.
type apikeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apikeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("apikey", t.key)
	return t.base.RoundTrip(cloned)
}

// New builds a gateway provider from the loaded configuration.
func New(cfg *appconfig.Config) (*Provider, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if strings.TrimSpace(cfg.GatewayToken) == "" {
		return nil, errors.New("KONG_API_TOKEN is not set; add it to your environment or .env file")
	}
	if strings.TrimSpace(cfg.GatewayBaseURL) == "" {
		return nil, errors.New("KONG_BASE_URL is not set; add it to your environment or .env file")
	}

	clientConfig := openai.DefaultConfig(cfg.GatewayToken)
	clientConfig.BaseURL = strings.TrimRight(cfg.GatewayBaseURL, "/")
	clientConfig.HTTPClient = &http.Client{
		Timeout: cfg.RequestTimeout(),
		Transport: &apikeyTransport{
			key:  cfg.GatewayToken,
			base: http.DefaultTransport,
		},
	}

	return &Provider{
		client:         openai.NewClientWithConfig(clientConfig),
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		temperature:    float32(cfg.Temperature),
	}, nil
}

// Embed requests one embedding vector for the given text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response contained no data")
	}
	return resp.Data[0].Embedding, nil
}

// Complete sends the conversation and returns the full assistant reply.
func (p *Provider) Complete(ctx context.Context, messages []providers.ChatMessage) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.chatModel,
		Messages:    toOpenAIMessages(messages),
		Temperature: p.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream sends the conversation and delivers the reply via callbacks.
func (p *Provider) Stream(ctx context.Context, messages []providers.ChatMessage, callbacks providers.StreamCallbacks) error {
	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       p.chatModel,
		Messages:    toOpenAIMessages(messages),
		Temperature: p.temperature,
	})
	if err != nil {
		return fmt.Errorf("chat completion stream failed: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("chat completion stream failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if callbacks.OnChunk != nil {
			if err := callbacks.OnChunk(resp.Choices[0].Delta.Content); err != nil {
				return err
			}
		}
	}

	if callbacks.OnComplete != nil {
		return callbacks.OnComplete()
	}
	return nil
}

// Close cleans up provider resources. The underlying HTTP client needs none.
func (p *Provider) Close() error { return nil }

func toOpenAIMessages(messages []providers.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
