//go:build !gguf

package llm

// DefaultEmbedModel returns the default embedding model for API builds (Ollama/OpenAI).
func DefaultEmbedModel() string {
	return "nomic-embed-text"
}

// DefaultGenerateModel returns the default chat model for API builds.
func DefaultGenerateModel() string {
	return "llama3.2"
}

// GGUFEnabled reports whether this binary was built with -tags gguf.
func GGUFEnabled() bool {
	return false
}
