package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"
	"sync"

	"github.com/SaiNageswarS/go-collection-boot/ds"
	"github.com/SaiNageswarS/shop-assist/catalog"
)

type memoryEntry struct {
	Item   catalog.Item `json:"item"`
	Vector []float32    `json:"vector"`
	norm   float64
}

// MemoryIndex is an exact cosine-similarity index held in memory.
type MemoryIndex struct {
	mu         sync.RWMutex
	dimensions int
	entries    []memoryEntry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (m *MemoryIndex) Add(_ context.Context, item catalog.Item, vector []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dimensions == 0 {
		m.dimensions = len(vector)
	} else if len(vector) != m.dimensions {
		return fmt.Errorf("vector for %q has %d dimensions, index has %d", item.ID, len(vector), m.dimensions)
	}

	m.entries = append(m.entries, memoryEntry{Item: item, Vector: vector, norm: norm(vector)})
	return nil
}

func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryIndex) Search(ctx context.Context, vector []float32, k int) ([]Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if k <= 0 || len(m.entries) == 0 {
		return []Hit{}, nil
	}
	if len(vector) != m.dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index has %d", len(vector), m.dimensions)
	}

	qNorm := norm(vector)

	// weakest candidate on top; earlier entries win ties so results are stable
	h := ds.NewMinHeap(func(a, b scored) bool {
		if a.score != b.score {
			return a.score < b.score
		}
		return a.pos > b.pos
	})
	for i, e := range m.entries {
		if i%1024 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		h.Push(scored{pos: i, score: cosine(vector, qNorm, e.Vector, e.norm)})
		if h.Len() > k {
			h.Pop()
		}
	}

	ranked := h.ToSortedSlice()
	slices.Reverse(ranked) // best first

	out := make([]Hit, len(ranked))
	for i, s := range ranked {
		out[i] = Hit{Item: m.entries[s.pos].Item, Score: s.score}
	}
	return out, nil
}

type scored struct {
	pos   int
	score float64
}

type memoryIndexFile struct {
	Dimensions int           `json:"dimensions"`
	Entries    []memoryEntry `json:"entries"`
}

// Save writes the index as JSON so it can be built once and loaded by every
// process that serves queries.
func (m *MemoryIndex) Save(path string) error {
	m.mu.RLock()
	data, err := json.Marshal(memoryIndexFile{Dimensions: m.dimensions, Entries: m.entries})
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return os.Rename(tmp, path)
}

func LoadMemoryIndex(path string) (*MemoryIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	var file memoryIndexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding index %s: %w", path, err)
	}

	idx := &MemoryIndex{dimensions: file.Dimensions, entries: file.Entries}
	for i := range idx.entries {
		e := &idx.entries[i]
		if len(e.Vector) != idx.dimensions {
			return nil, fmt.Errorf("index %s: entry %q has %d dimensions, expected %d", path, e.Item.ID, len(e.Vector), idx.dimensions)
		}
		e.norm = norm(e.Vector)
	}
	return idx, nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine is 0 when either vector has zero length.
func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}
