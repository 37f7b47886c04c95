package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "")
		_, err := NewClient(ProviderGroq, "llama-3.3-70b-versatile", "")
		assert.Error(t, err)
	})

	t.Run("groq", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "test-key")
		client, err := NewClient("GROQ", "llama-3.3-70b-versatile", "")
		require.NoError(t, err)
		assert.Equal(t, "llama-3.3-70b-versatile", client.GetModel())
		assert.Equal(t, groqURL, client.(*GroqClient).url)
	})

	t.Run("openai uses the chat completions client", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "test-key")
		client, err := NewClient(ProviderOpenAI, "gpt-4o-mini", "")
		require.NoError(t, err)
		assert.Equal(t, openAIURL, client.(*GroqClient).url)
	})

	t.Run("anthropic with url override", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "test-key")
		client, err := NewClient(ProviderAnthropic, "claude-3-5-haiku-latest", "http://proxy/v1/messages")
		require.NoError(t, err)
		assert.Equal(t, "http://proxy/v1/messages", client.(*AnthropicClient).url)
	})

	t.Run("ollama", func(t *testing.T) {
		client, err := NewClient(ProviderOllama, "llama3.2:3b", "http://localhost:11434")
		require.NoError(t, err)
		assert.Equal(t, "llama3.2:3b", client.GetModel())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewClient("mystery", "m", "")
		assert.Error(t, err)
	})
}

func TestGroqClientGenerateInference(t *testing.T) {
	// Create a mock server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var request groqRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "llama-3.3-70b-versatile", request.Model)
		assert.Equal(t, 0.2, request.Temperature)
		assert.Equal(t, 512, request.MaxTokens)

		// Mock response
		response := groqResponse{
			Choices: []groqChoice{
				{
					Message: groqMessage{
						Content: "Hello, this is a test response",
					},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewGroqClient("test-key", server.URL+"/openai/v1/chat/completions", "llama-3.3-70b-versatile")

	messages := []Message{
		{Role: "user", Content: "Hello"},
	}

	var result string
	err := client.GenerateInference(context.Background(), messages, func(chunk string) error {
		result = chunk
		return nil
	}, WithTemperature(0.2), WithMaxTokens(512))

	require.NoError(t, err)
	assert.Equal(t, "Hello, this is a test response", result)
}

func TestGroqClientWithSystemPrompt(t *testing.T) {
	// Create a mock server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request groqRequest
		err := json.NewDecoder(r.Body).Decode(&request)
		require.NoError(t, err)

		// Check that system message was added
		require.Len(t, request.Messages, 2)
		assert.Equal(t, "system", request.Messages[0].Role)
		assert.Equal(t, "You are a helpful assistant", request.Messages[0].Content)
		assert.Equal(t, "user", request.Messages[1].Role)
		assert.Equal(t, "Hello", request.Messages[1].Content)

		// Mock response
		response := groqResponse{
			Choices: []groqChoice{
				{
					Message: groqMessage{
						Content: "Hello! How can I help you?",
					},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewGroqClient("test-key", server.URL, "llama-3.3-70b-versatile")

	messages := []Message{
		{Role: "user", Content: "Hello"},
	}

	var result string
	err := client.GenerateInference(context.Background(), messages, func(chunk string) error {
		result = chunk
		return nil
	}, WithSystemPrompt("You are a helpful assistant"))

	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help you?", result)
}

func TestGroqClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, "status 500"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"bad json", http.StatusOK, `not json`, "unmarshaling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewGroqClient("test-key", server.URL, "m")
			err := client.GenerateInference(context.Background(), []Message{{Role: "user", Content: "hi"}}, func(string) error { return nil })
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
