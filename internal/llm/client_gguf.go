//go:build gguf

package llm

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ba0f3/menurag/internal/huggingface"
	llama "github.com/go-skynet/go-llama.cpp"
)

// ggufClient wraps go-llama.cpp. A client loaded for embeddings can also
// generate, but generation quality depends on the model.
type ggufClient struct {
	mu        sync.Mutex
	model     string
	maxTokens int
	llama     *llama.LLama
}

func newGGUFClient(model string, embeddings bool, maxTokens int) (LLM, error) {
	path, err := huggingface.ResolveModel(context.Background(), model)
	if err != nil {
		return nil, fmt.Errorf("resolve GGUF model: %w", err)
	}
	if fi, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model file not found: %s: %w", path, err)
	} else if fi.Size() == 0 {
		return nil, fmt.Errorf("model file is empty: %s", path)
	}
	opts := []llama.ModelOption{llama.SetContext(2048)}
	if embeddings {
		opts = append(opts, llama.EnableEmbeddings)
	}
	l, err := llama.New(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("load GGUF model from %s: %w (hint: use MENURAG_EMBED_BACKEND=api to use Ollama)", path, err)
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &ggufClient{model: model, maxTokens: maxTokens, llama: l}, nil
}

func (c *ggufClient) Embed(ctx context.Context, text string) (*EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	vec, err := c.llama.Embeddings(text)
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return &EmbeddingResult{Embedding: vec, Model: c.model}, nil
}

func (c *ggufClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.llama.Predict(prompt, llama.SetTokens(c.maxTokens))
}
