package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// LLMClient is the generator stage: it turns a conversation into free text.
// Responses are delivered through callback, possibly in several chunks.
type LLMClient interface {
	GenerateInference(
		ctx context.Context,
		messages []Message,
		callback func(chunk string) error,
		opts ...LLMOption,
	) error

	GetModel() string
}

type LLMSettings struct {
	model       string  // model name
	temperature float64 // randomness (0.0 to 1.0)
	maxTokens   int     // maximum tokens to generate
	system      string  // system prompt
}

type LLMOption func(*LLMSettings)

func defaultSettings(model string) LLMSettings {
	return LLMSettings{
		model:       model,
		temperature: 0.7,
		maxTokens:   4096,
	}
}

func (s LLMSettings) apply(opts []LLMOption) LLMSettings {
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Common options for all LLM providers
func WithTemperature(temp float64) LLMOption {
	return func(s *LLMSettings) { s.temperature = temp }
}

func WithMaxTokens(tokens int) LLMOption {
	return func(s *LLMSettings) { s.maxTokens = tokens }
}

func WithSystemPrompt(prompt string) LLMOption {
	return func(s *LLMSettings) { s.system = prompt }
}

func WithLLMModel(model string) LLMOption {
	return func(s *LLMSettings) { s.model = model }
}

type Message struct {
	Role    string `json:"role"`    // "user", "assistant", "system"
	Content string `json:"content"` // the message content
}

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// NewClient builds the generator for a provider. API keys come from the
// environment (GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY); url
// overrides the provider endpoint when set.
func NewClient(provider, model, url string) (LLMClient, error) {
	switch strings.ToLower(provider) {
	case ProviderGroq:
		return newKeyedClient("GROQ_API_KEY", func(key string) LLMClient {
			return NewGroqClient(key, firstNonEmpty(url, groqURL), model)
		})
	case ProviderOpenAI:
		return newKeyedClient("OPENAI_API_KEY", func(key string) LLMClient {
			return NewGroqClient(key, firstNonEmpty(url, openAIURL), model)
		})
	case ProviderAnthropic:
		return newKeyedClient("ANTHROPIC_API_KEY", func(key string) LLMClient {
			return NewAnthropicClient(key, firstNonEmpty(url, anthropicURL), model)
		})
	case ProviderOllama:
		client, err := NewOllamaClient(url, model)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

func newKeyedClient(envKey string, build func(key string) LLMClient) (LLMClient, error) {
	key := os.Getenv(envKey)
	if key == "" {
		return nil, fmt.Errorf("%s environment variable is not set", envKey)
	}
	return build(key), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
