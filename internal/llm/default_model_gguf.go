//go:build gguf

package llm

// DefaultEmbedModel returns the default embedding model for GGUF builds.
func DefaultEmbedModel() string {
	return "ggml-org/embeddinggemma-300M-GGUF:embeddinggemma-300M-Q8_0.gguf"
}

// DefaultGenerateModel returns the default generation model for GGUF builds.
// A small instruct model keeps CPU-only answers fast enough for a prompt loop.
func DefaultGenerateModel() string {
	return "bartowski/Llama-3.2-1B-Instruct-GGUF:Llama-3.2-1B-Instruct-Q4_K_M.gguf"
}

// GGUFEnabled reports whether this binary was built with -tags gguf.
func GGUFEnabled() bool {
	return true
}
