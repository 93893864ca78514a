package index

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/vec/search"
)

var (
	// ErrInvalidK is returned when a search asks for fewer than one result.
	ErrInvalidK = errors.New("index: k must be at least 1")
	// ErrDimMismatch is returned when vector dimensions disagree.
	ErrDimMismatch = errors.New("index: vector dimension mismatch")
	// ErrEmpty is returned when searching an index built from no vectors.
	ErrEmpty = errors.New("index: empty")
)

// Hit is one search result. ID is the position of the vector passed to Build.
type Hit struct {
	ID    int
	Score float64
}

// Flat is an exact inner-product index. Every query scores every stored
// vector; it is read-only once built.
type Flat struct {
	normalize bool
	dim       int
	vecs      []search.Float32s
	mags      []float32
}

// NewFlat returns an empty index. With normalize set, stored and query
// vectors are scaled to unit length so inner product equals cosine similarity.
func NewFlat(normalize bool) *Flat {
	return &Flat{normalize: normalize}
}

// Build stores vectors. All vectors must share one non-zero dimension.
func (f *Flat) Build(vectors [][]float32) error {
	if len(vectors) == 0 {
		return ErrEmpty
	}
	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("index: vector 0 is empty")
	}
	vecs := make([]search.Float32s, len(vectors))
	mags := make([]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dims, want %d", ErrDimMismatch, i, len(v), dim)
		}
		if f.normalize {
			v = NormalizeL2(v)
		} else {
			v = append([]float32(nil), v...)
		}
		vecs[i] = search.Float32s(v)
		mags[i] = vecs[i].Magnitude()
	}
	f.dim, f.vecs, f.mags = dim, vecs, mags
	return nil
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return len(f.vecs) }

// Dim returns the vector dimension, or 0 before Build.
func (f *Flat) Dim() int { return f.dim }

// Search returns the k vectors with the highest inner product against query,
// best first. k larger than Len is clamped. Equal scores keep build order.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if len(f.vecs) == 0 {
		return nil, ErrEmpty
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d dims, index has %d", ErrDimMismatch, len(query), f.dim)
	}
	if f.normalize {
		query = NormalizeL2(query)
	}
	q := search.Float32s(query)
	qm := q.Magnitude()

	hits := make([]Hit, len(f.vecs))
	for i, v := range f.vecs {
		hits[i] = Hit{ID: i, Score: innerProduct(q, qm, v, f.mags[i])}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// innerProduct is q·v accumulated in float64 so that equal products compare
// equal and keep build order.
func innerProduct(q search.Float32s, qm float32, v search.Float32s, vm float32) float64 {
	if qm == 0 || vm == 0 {
		return 0
	}
	var sum float64
	for i := range q {
		sum += float64(q[i]) * float64(v[i])
	}
	return sum
}

// NormalizeL2 returns a copy of v scaled to unit L2 norm. A zero vector is
// returned unchanged.
func NormalizeL2(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	n := math.Sqrt(sum)
	if n == 0 {
		copy(out, v)
		return out
	}
	inv := float32(1.0 / n)
	for i := range v {
		out[i] = v[i] * inv
	}
	return out
}
