package llm

import "context"

// EmbeddingResult is the vector produced for one input text.
type EmbeddingResult struct {
	Embedding []float32
	Model     string
}

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (*EmbeddingResult, error)
}

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLM is a backend able to do both.
type LLM interface {
	Embedder
	Generator
}
