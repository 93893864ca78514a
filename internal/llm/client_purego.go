//go:build gguf

package llm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unsafe"

	"github.com/ba0f3/menurag/internal/huggingface"
	"github.com/ebitengine/purego"
)

// puregoEmbedder calls the llama_go shared library through purego (no CGO).
// It only embeds; generation goes through go-llama.cpp.
type puregoEmbedder struct {
	mu         sync.Mutex
	model      string
	modelPtr   unsafe.Pointer
	nDims      int
	freeFn     func(model unsafe.Pointer)
	embedFn    func(model unsafe.Pointer, text *byte, embedding *float32, maxDims int) int
	getErrorFn func() string
}

var (
	libPath     string
	libPathOnce sync.Once
)

var libNames = []string{"libllama_go.so", "llama_go.dll", "libllama_go.dylib"}

func findLibPath() string {
	libPathOnce.Do(func() {
		var candidates []string
		if env := os.Getenv("LLAMA_GO_LIB"); env != "" {
			candidates = append(candidates, env)
		}
		for _, name := range libNames {
			candidates = append(candidates, filepath.Join("llama-go", "build", name), name)
		}
		candidates = append(candidates, "/usr/lib/libllama_go.so", "/usr/local/lib/libllama_go.so")
		if exe, err := os.Executable(); err == nil {
			for _, name := range libNames {
				candidates = append(candidates, filepath.Join(filepath.Dir(exe), name))
			}
		}
		for _, cand := range candidates {
			if _, err := os.Stat(cand); err == nil {
				libPath = cand
				return
			}
		}
	})
	return libPath
}

func newPuregoClient(model string) (Embedder, error) {
	lp := findLibPath()
	if lp == "" {
		return nil, fmt.Errorf("llama_go shared library not found (set LLAMA_GO_LIB)")
	}
	lib, err := purego.Dlopen(lp, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s: %w", lp, err)
	}

	var loadFn func(path *byte, nCtx, nGpuLayers int) unsafe.Pointer
	c := &puregoEmbedder{model: model}
	purego.RegisterLibFunc(&loadFn, lib, "llama_go_load")
	purego.RegisterLibFunc(&c.freeFn, lib, "llama_go_free")
	purego.RegisterLibFunc(&c.embedFn, lib, "llama_go_embed")
	purego.RegisterLibFunc(&c.getErrorFn, lib, "llama_go_get_error")

	path, err := huggingface.ResolveModel(context.Background(), model)
	if err != nil {
		return nil, fmt.Errorf("resolve GGUF model: %w", err)
	}
	if fi, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model file not found: %s: %w", path, err)
	} else if fi.Size() == 0 {
		return nil, fmt.Errorf("model file is empty: %s", path)
	}

	c.modelPtr = loadFn(cString(path), 2048, 0)
	if c.modelPtr == nil {
		return nil, c.lastError("load model")
	}

	// Probe the output dimension once; every item vector must match it.
	var probe [4096]float32
	c.nDims = c.embedFn(c.modelPtr, cString("probe"), &probe[0], len(probe))
	if c.nDims <= 0 {
		c.freeFn(c.modelPtr)
		return nil, c.lastError("probe embedding dims")
	}
	return c, nil
}

func cString(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}

func (c *puregoEmbedder) lastError(op string) error {
	if msg := c.getErrorFn(); msg != "" {
		return fmt.Errorf("%s: %s", op, msg)
	}
	return fmt.Errorf("%s failed", op)
}

func (c *puregoEmbedder) Embed(ctx context.Context, text string) (*EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	embedding := make([]float32, c.nDims)
	n := c.embedFn(c.modelPtr, cString(text), &embedding[0], len(embedding))
	if n <= 0 {
		return nil, c.lastError("embed")
	}
	return &EmbeddingResult{Embedding: embedding[:n], Model: c.model}, nil
}

func (c *puregoEmbedder) Close() error {
	if c.modelPtr != nil {
		c.freeFn(c.modelPtr)
		c.modelPtr = nil
	}
	return nil
}
