package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ba0f3/menurag/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetEmbedding(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.GetEmbedding("nomic", "Burger")
	require.NoError(t, err)
	assert.False(t, ok)

	want := []float32{0.25, -1.5, 3}
	require.NoError(t, s.PutEmbedding("nomic", "Burger", want, time.Now()))

	got, ok, err := s.GetEmbedding("nomic", "Burger")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok, err = s.GetEmbedding("other-model", "Burger")
	require.NoError(t, err)
	assert.False(t, ok, "cache entries are per model")

	assert.Error(t, s.PutEmbedding("nomic", "Empty", nil, time.Now()))
}

func TestClearEmbeddings(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	require.NoError(t, s.PutEmbedding("a", "x", []float32{1}, now))
	require.NoError(t, s.PutEmbedding("a", "y", []float32{1}, now))
	require.NoError(t, s.PutEmbedding("b", "x", []float32{1}, now))

	n, err := s.ClearEmbeddings("a")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = s.ClearEmbeddings("")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestBlobRoundTripRejectsBadLength(t *testing.T) {
	_, err := BlobToFloat32Slice([]byte{1, 2, 3})
	assert.Error(t, err)
}

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) (*llm.EmbeddingResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &llm.EmbeddingResult{Embedding: []float32{float32(len(text)), 1}, Model: "inner"}, nil
}

func TestCachingEmbedder(t *testing.T) {
	s := newTestStore(t)
	inner := &countingEmbedder{}
	c := NewCachingEmbedder(s, inner, "nomic", nil)
	ctx := context.Background()

	first, err := c.Embed(ctx, "Burger")
	require.NoError(t, err)
	second, err := c.Embed(ctx, "Burger")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.Embedding, second.Embedding)
	assert.Equal(t, 1, c.Hits)
	assert.Equal(t, 1, c.Misses)
}

func TestCachingEmbedderPropagatesErrors(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("model offline")
	c := NewCachingEmbedder(s, &countingEmbedder{err: boom}, "nomic", nil)

	_, err := c.Embed(context.Background(), "Burger")
	assert.ErrorIs(t, err, boom)

	_, ok, err := s.GetEmbedding("nomic", "Burger")
	require.NoError(t, err)
	assert.False(t, ok, "failed embeddings are not cached")
}
