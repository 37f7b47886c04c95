package vectorindex

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fashionItem(name string) catalog.Item {
	p := catalog.NewFashionProduct(name, "$10", "", "https://shop.example/"+name, catalog.FashionAttrs{Category: "Tops"})
	return catalog.Item{ID: p.ProductLink, Domain: catalog.Fashion, Document: name, Product: p}
}

func buildIndex(t *testing.T) *MemoryIndex {
	t.Helper()
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, fashionItem("east"), []float32{1, 0, 0}))
	require.NoError(t, idx.Add(ctx, fashionItem("north"), []float32{0, 1, 0}))
	require.NoError(t, idx.Add(ctx, fashionItem("northeast"), []float32{1, 1, 0}))
	require.NoError(t, idx.Add(ctx, fashionItem("zero"), []float32{0, 0, 0}))
	return idx
}

func names(hits []Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Item.Product.Name
	}
	return out
}

func TestMemoryIndexSearch(t *testing.T) {
	idx := buildIndex(t)

	hits, err := idx.Search(context.Background(), []float32{1, 0.1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"east", "northeast"}, names(hits))
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.InDelta(t, 0.995, hits[0].Score, 0.001)
}

func TestMemoryIndexSearchFewerItemsThanK(t *testing.T) {
	idx := buildIndex(t)

	hits, err := idx.Search(context.Background(), []float32{0, 1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 4)
	assert.Equal(t, "north", hits[0].Item.Product.Name)
	// zero vector has no direction and ranks last
	assert.Equal(t, "zero", hits[3].Item.Product.Name)
	assert.Equal(t, 0.0, hits[3].Score)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
}

func TestMemoryIndexTiesKeepCatalogOrder(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, idx.Add(ctx, fashionItem(name), []float32{1, 1}))
	}

	hits, err := idx.Search(ctx, []float32{1, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(hits))
}

func TestMemoryIndexKeepsBestOfMany(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	// item i points further from the query as i grows, except the last three
	for i := 0; i < 50; i++ {
		require.NoError(t, idx.Add(ctx, fashionItem(fmt.Sprintf("far-%02d", i)), []float32{1, float32(i + 1)}))
	}
	require.NoError(t, idx.Add(ctx, fashionItem("best"), []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, fashionItem("second"), []float32{1, 0.1}))
	require.NoError(t, idx.Add(ctx, fashionItem("third"), []float32{1, 0.2}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"best", "second", "third"}, names(hits))
}

func TestMemoryIndexEdgeCases(t *testing.T) {
	ctx := context.Background()

	hits, err := NewMemoryIndex().Search(ctx, []float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	idx := buildIndex(t)
	hits, err = idx.Search(ctx, []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = idx.Search(ctx, []float32{1, 0}, 3)
	assert.Error(t, err)

	err = idx.Add(ctx, fashionItem("short"), []float32{1})
	assert.Error(t, err)

	hits, err = idx.Search(ctx, []float32{0, 0, 0}, 2)
	require.NoError(t, err)
	for _, h := range hits {
		assert.Equal(t, 0.0, h.Score)
	}
}

func TestMemoryIndexSaveAndLoad(t *testing.T) {
	idx := buildIndex(t)
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, idx.Save(path))

	loaded, err := LoadMemoryIndex(path)
	require.NoError(t, err)
	assert.Equal(t, idx.Len(), loaded.Len())

	query := []float32{1, 0.1, 0}
	want, err := idx.Search(context.Background(), query, 3)
	require.NoError(t, err)
	got, err := loaded.Search(context.Background(), query, 3)
	require.NoError(t, err)
	assert.Equal(t, names(want), names(got))
	assert.Equal(t, "Tops", got[0].Item.Product.Fashion.Category)
	assert.Equal(t, catalog.Fashion, got[0].Item.Domain)
}

func TestLoadMemoryIndexMissingFile(t *testing.T) {
	_, err := LoadMemoryIndex(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
