package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ollama/ollama/api"
)

const DefaultEmbeddingModel = "nomic-embed-text"

// Embedder maps free text to a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type OllamaEmbedder struct {
	cli   *api.Client
	model string
}

func NewOllamaEmbedder(baseURL, model string) (*OllamaEmbedder, error) {
	cli, err := newOllamaAPIClient(baseURL)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OllamaEmbedder{cli: cli, model: model}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := &api.EmbeddingRequest{
		Model:     e.model,
		Prompt:    text,
		KeepAlive: &api.Duration{Duration: 60 * time.Minute}, // keep the model loaded between queries
	}
	resp, err := e.cli.Embeddings(ctx, req) // blocking, non-streaming
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}

	if len(resp.Embedding) == 0 {
		return nil, errors.New("ollama returned an empty embedding")
	}

	emb32 := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		emb32[i] = float32(v)
	}
	return emb32, nil
}
