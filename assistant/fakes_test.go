package assistant

import (
	"context"
	"sync"

	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/SaiNageswarS/shop-assist/llm"
	"github.com/SaiNageswarS/shop-assist/vectorindex"
)

type fakeEmbedder struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0}, nil
}

func (f *fakeEmbedder) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

type fakeIndex struct {
	hits  []vectorindex.Hit
	err   error
	lastK int
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, k int) ([]vectorindex.Hit, error) {
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	if len(f.hits) > k {
		return f.hits[:k], nil
	}
	return f.hits, nil
}

// testLLMClient replays scripted answers and records every conversation it
// was asked to continue.
type testLLMClient struct {
	mu       sync.Mutex
	answer   func(messages []llm.Message) (string, error)
	requests [][]llm.Message
}

func replying(text string) *testLLMClient {
	return &testLLMClient{answer: func([]llm.Message) (string, error) { return text, nil }}
}

func (c *testLLMClient) GenerateInference(_ context.Context, messages []llm.Message, callback func(chunk string) error, _ ...llm.LLMOption) error {
	c.mu.Lock()
	c.requests = append(c.requests, append([]llm.Message(nil), messages...))
	c.mu.Unlock()

	text, err := c.answer(messages)
	if err != nil {
		return err
	}
	// deliver in two chunks to exercise accumulation
	half := len(text) / 2
	if err := callback(text[:half]); err != nil {
		return err
	}
	return callback(text[half:])
}

func (c *testLLMClient) GetModel() string { return "test-model" }

func (c *testLLMClient) lastRequest() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.requests) == 0 {
		return nil
	}
	return c.requests[len(c.requests)-1]
}

func (c *testLLMClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func fashionHit(name, link string, score float64) vectorindex.Hit {
	p := catalog.NewFashionProduct(name, "$19.99", "https://img/"+name, link,
		catalog.FashionAttrs{Category: "Tops", Colors: "Blue, White"})
	return vectorindex.Hit{
		Item:  catalog.Item{ID: link, Domain: catalog.Fashion, Document: "Product: " + name, Product: p},
		Score: score,
	}
}
