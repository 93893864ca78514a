package store

import (
	"context"
	"time"

	"github.com/ba0f3/menurag/internal/llm"
	"go.uber.org/zap"
)

// CachingEmbedder serves embeddings from the store and falls through to
// Inner on a miss. Cache read or write failures are logged and never fail
// the embedding call.
type CachingEmbedder struct {
	Store  *Store
	Inner  llm.Embedder
	Model  string
	Logger *zap.Logger

	Hits, Misses int
}

// NewCachingEmbedder wraps inner. model must identify the vector space so
// that switching models never returns stale vectors.
func NewCachingEmbedder(s *Store, inner llm.Embedder, model string, logger *zap.Logger) *CachingEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingEmbedder{Store: s, Inner: inner, Model: model, Logger: logger}
}

func (c *CachingEmbedder) Embed(ctx context.Context, text string) (*llm.EmbeddingResult, error) {
	vec, ok, err := c.Store.GetEmbedding(c.Model, text)
	if err != nil {
		c.Logger.Warn("embedding cache read failed", zap.String("model", c.Model), zap.Error(err))
	}
	if ok {
		c.Hits++
		return &llm.EmbeddingResult{Embedding: vec, Model: c.Model}, nil
	}

	c.Misses++
	res, err := c.Inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.Store.PutEmbedding(c.Model, text, res.Embedding, time.Now()); err != nil {
		c.Logger.Warn("embedding cache write failed", zap.String("model", c.Model), zap.Error(err))
	}
	return res, nil
}
