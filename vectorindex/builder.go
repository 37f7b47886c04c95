package vectorindex

import (
	"context"
	"fmt"
	"sort"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/SaiNageswarS/shop-assist/llm"
	"go.uber.org/zap"
)

const logEvery = 100

// Builder embeds catalog items and writes them into an index.
type Builder struct {
	embedder llm.Embedder
	writer   Writer
}

func NewBuilder(embedder llm.Embedder, writer Writer) *Builder {
	return &Builder{embedder: embedder, writer: writer}
}

type embedded struct {
	pos    int
	item   catalog.Item
	vector []float32
	err    error
}

// Build embeds items in parallel and adds them in catalog order. Any failed
// embedding fails the build.
func (b *Builder) Build(ctx context.Context, items []catalog.Item) (int, error) {
	positions := make([]int, len(items))
	for i := range positions {
		positions[i] = i
	}

	linqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results, err := linq.Pipe2(
		linq.FromSlice(linqCtx, positions),

		linq.SelectPar(func(pos int) embedded {
			vec, err := b.embedder.Embed(linqCtx, items[pos].Document)
			return embedded{pos: pos, item: items[pos], vector: vec, err: err}
		}),

		linq.ToSlice[embedded](),
	)
	if err != nil {
		return 0, fmt.Errorf("embedding catalog: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].pos < results[j].pos })

	for i, r := range results {
		if r.err != nil {
			return i, fmt.Errorf("embedding %q: %w", r.item.ID, r.err)
		}
		if err := b.writer.Add(ctx, r.item, r.vector); err != nil {
			return i, err
		}
		if (i+1)%logEvery == 0 {
			logger.Info("Indexed catalog items", zap.Int("done", i+1), zap.Int("total", len(items)))
		}
	}

	return len(results), nil
}
