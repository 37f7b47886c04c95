package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaClient generates with a locally served model through ollama's chat
// endpoint.
type OllamaClient struct {
	cli   *api.Client
	model string
}

// NewOllamaClient connects to baseURL, or to OLLAMA_HOST when baseURL is empty.
func NewOllamaClient(baseURL, model string) (*OllamaClient, error) {
	cli, err := newOllamaAPIClient(baseURL)
	if err != nil {
		return nil, err
	}
	return &OllamaClient{cli: cli, model: model}, nil
}

func newOllamaAPIClient(baseURL string) (*api.Client, error) {
	if baseURL == "" {
		return api.ClientFromEnvironment()
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url: %w", err)
	}
	return api.NewClient(u, http.DefaultClient), nil
}

func (c *OllamaClient) GetModel() string {
	return c.model
}

func (c *OllamaClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := defaultSettings(c.model).apply(opts)

	chat := make([]api.Message, 0, len(messages)+1)
	if settings.system != "" {
		chat = append(chat, api.Message{Role: "system", Content: settings.system})
	}
	for _, m := range messages {
		chat = append(chat, api.Message{Role: m.Role, Content: m.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:     settings.model,
		Messages:  chat,
		Stream:    &stream,
		KeepAlive: &api.Duration{Duration: 60 * time.Minute},
		Options: map[string]any{
			"temperature": settings.temperature,
			"num_predict": settings.maxTokens,
		},
	}

	var answer strings.Builder
	err := c.cli.Chat(ctx, req, func(resp api.ChatResponse) error {
		answer.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ollama chat: %w", err)
	}

	return callback(answer.String())
}
