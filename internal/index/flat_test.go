package index

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(hits []Hit) []int {
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.ID
	}
	return out
}

func TestFlatInnerProductOrder(t *testing.T) {
	f := NewFlat(false)
	require.NoError(t, f.Build([][]float32{
		{1, 0, 0},
		{0, 2, 0},
		{0, 0, 3},
		{1, 1, 0},
	}))
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, 3, f.Dim())

	hits, err := f.Search([]float32{0, 1, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, ids(hits))
	assert.InDelta(t, 3.0, hits[0].Score, 1e-4)
	assert.InDelta(t, 2.0, hits[1].Score, 1e-4)
}

func TestFlatNormalizeRanksByCosine(t *testing.T) {
	f := NewFlat(true)
	require.NoError(t, f.Build([][]float32{
		{10, 0},
		{1, 1},
	}))
	hits, err := f.Search([]float32{1, 1.1}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, ids(hits))
	assert.InDelta(t, 1.0, hits[0].Score, 1e-2)
}

func TestFlatTiesKeepBuildOrder(t *testing.T) {
	f := NewFlat(false)
	require.NoError(t, f.Build([][]float32{
		{0, 1},
		{1, 0},
		{1, 0},
		{1, 0},
	}))
	hits, err := f.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids(hits))
}

func TestFlatClampsK(t *testing.T) {
	f := NewFlat(false)
	require.NoError(t, f.Build([][]float32{{1, 0}, {0, 1}}))
	hits, err := f.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestFlatZeroQueryScoresZero(t *testing.T) {
	f := NewFlat(false)
	require.NoError(t, f.Build([][]float32{{1, 0}, {0, 1}}))
	hits, err := f.Search([]float32{0, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, ids(hits))
	for _, h := range hits {
		assert.Equal(t, 0.0, h.Score)
	}
}

func TestFlatErrors(t *testing.T) {
	f := NewFlat(false)
	_, err := f.Search([]float32{1}, 1)
	assert.True(t, errors.Is(err, ErrEmpty))

	assert.True(t, errors.Is(f.Build(nil), ErrEmpty))
	assert.Error(t, f.Build([][]float32{{}}))
	assert.True(t, errors.Is(f.Build([][]float32{{1, 2}, {1}}), ErrDimMismatch))

	require.NoError(t, f.Build([][]float32{{1, 2}}))
	_, err = f.Search([]float32{1, 2, 3}, 1)
	assert.True(t, errors.Is(err, ErrDimMismatch))
	_, err = f.Search([]float32{1, 2}, 0)
	assert.True(t, errors.Is(err, ErrInvalidK))
}

func TestNormalizeL2(t *testing.T) {
	v := NormalizeL2([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := []float32{0, 0}
	assert.Equal(t, zero, NormalizeL2(zero))
}

func TestFlatExactTiesKeepBuildOrder(t *testing.T) {
	f := NewFlat(false)
	require.NoError(t, f.Build([][]float32{
		{3, 4},
		{1, 0},
		{300, 400},
		{0.001, 0.002},
		{-1, 2},
	}))
	hits, err := f.Search([]float32{1, 1}, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1, 4, 3}, ids(hits))
	assert.Equal(t, 700.0, hits[0].Score)
	assert.Equal(t, 7.0, hits[1].Score)
	assert.Equal(t, 1.0, hits[2].Score)
	assert.Equal(t, 1.0, hits[3].Score)
}

func TestFlatScoresAreExactProducts(t *testing.T) {
	f := NewFlat(false)
	require.NoError(t, f.Build([][]float32{{0.5, -2, 8}, {1, 1, 1}}))
	hits, err := f.Search([]float32{2, 0.25, 0.125}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, ids(hits))
	assert.Equal(t, 2.375, hits[0].Score)
	assert.Equal(t, 1.5, hits[1].Score)
}
