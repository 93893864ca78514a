package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/ba0f3/menurag/internal/index"
	"github.com/ba0f3/menurag/internal/llm"
	"github.com/ba0f3/menurag/internal/menu"
)

// DefaultK is the number of matches returned when the caller does not ask
// for a specific count.
const DefaultK = 5

// Match is one retrieved menu item.
type Match struct {
	ID    int
	Item  menu.Item
	Score float64
}

// Searcher is the part of the vector index the retriever needs.
type Searcher interface {
	Search(query []float32, k int) ([]index.Hit, error)
}

// Retriever turns a query into the closest menu items.
type Retriever struct {
	items    []menu.Item
	embedder llm.Embedder
	index    Searcher
}

// New returns a Retriever. idx must have been built from items' vectors in
// the same order.
func New(items []menu.Item, embedder llm.Embedder, idx Searcher) *Retriever {
	return &Retriever{items: items, embedder: embedder, index: idx}
}

// Retrieve embeds query and returns up to k items, most similar first.
// k <= 0 selects DefaultK; k above the menu size is clamped by the index.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if k <= 0 {
		k = DefaultK
	}
	emb, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := r.index.Search(emb.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	out := make([]Match, 0, len(hits))
	for _, h := range hits {
		if h.ID < 0 || h.ID >= len(r.items) {
			return nil, fmt.Errorf("index returned unknown item %d", h.ID)
		}
		out = append(out, Match{ID: h.ID, Item: r.items[h.ID], Score: h.Score})
	}
	return out, nil
}

// Items extracts the menu items from matches, preserving order.
func Items(matches []Match) []menu.Item {
	out := make([]menu.Item, len(matches))
	for i, m := range matches {
		out[i] = m.Item
	}
	return out
}
