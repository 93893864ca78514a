//go:build !gguf

package llm

import "fmt"

func newPuregoClient(model string) (Embedder, error) {
	return nil, fmt.Errorf("purego embedder not available: build with -tags gguf")
}
