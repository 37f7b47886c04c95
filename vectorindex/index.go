package vectorindex

import (
	"context"

	"github.com/SaiNageswarS/shop-assist/catalog"
)

// Hit is one retrieved catalog item with its similarity to the query.
type Hit struct {
	Item  catalog.Item
	Score float64
}

// Index is the retrieval stage. Search returns at most k hits, best first.
type Index interface {
	Search(ctx context.Context, vector []float32, k int) ([]Hit, error)
}

// Writer receives embedded items while an index is being built.
type Writer interface {
	Add(ctx context.Context, item catalog.Item, vector []float32) error
}
