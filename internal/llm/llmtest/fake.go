// Package llmtest provides deterministic in-process stand-ins for the model
// backends, for tests and offline runs.
package llmtest

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/ba0f3/menurag/internal/llm"
)

// Embedder hashes lower-cased words into Dim buckets and L2-normalizes the
// counts. Identical texts always map to identical vectors.
type Embedder struct {
	Dim   int
	Err   error
	Calls int
}

func (e *Embedder) Embed(ctx context.Context, text string) (*llm.EmbeddingResult, error) {
	e.Calls++
	if e.Err != nil {
		return nil, e.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dim := e.Dim
	if dim <= 0 {
		dim = 256
	}
	vec := make([]float32, dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(dim)]++
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		inv := float32(1 / math.Sqrt(sum))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return &llm.EmbeddingResult{Embedding: vec, Model: "fake"}, nil
}

// Generator records prompts and answers with Reply, or echoes the prompt
// when Reply is empty.
type Generator struct {
	Reply   string
	Err     error
	Prompts []string
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	if g.Reply == "" {
		return prompt, nil
	}
	return g.Reply, nil
}
