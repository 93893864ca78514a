package llm

import (
	"strings"
	"time"
)

// Backend names accepted in Options.Backend.
const (
	BackendAuto = ""
	BackendAPI  = "api"
	BackendGGUF = "gguf"
)

// Options carries the settings shared by every backend.
type Options struct {
	Backend   string
	BaseURL   string
	APIKey    string
	MaxTokens int
	Timeout   time.Duration
}

// isGGUFSpec returns true if model looks like a GGUF spec: local path ending in .gguf,
// "repo:file.gguf" (Hugging Face), or "org/repo/file.gguf".
func isGGUFSpec(model string) bool {
	model = strings.TrimSpace(model)
	if model == "" {
		return false
	}
	if strings.HasSuffix(model, ".gguf") {
		return true
	}
	if idx := strings.Index(model, ":"); idx >= 0 {
		file := model[idx+1:]
		return strings.TrimSpace(file) != "" && strings.HasSuffix(file, ".gguf")
	}
	return false
}

func useGGUF(model string, opts Options) bool {
	return opts.Backend == BackendGGUF || isGGUFSpec(model) || (GGUFEnabled() && opts.Backend != BackendAPI)
}

// NewEmbedClient returns an Embedder for model.
// GGUF is used when Backend is "gguf", the model is a GGUF spec, or the binary
// was built with -tags gguf (unless Backend is "api"). The purego loader is
// tried first, then go-llama.cpp. Otherwise the OpenAI-compatible API is used.
func NewEmbedClient(model string, opts Options) (Embedder, error) {
	if useGGUF(model, opts) {
		if client, err := newPuregoClient(model); err == nil {
			return client, nil
		}
		return newGGUFClient(model, true, opts.MaxTokens)
	}
	return NewOpenAIClient(opts.BaseURL, model, opts), nil
}

// NewGenerateClient returns a Generator for model, selecting the backend the
// same way as NewEmbedClient. GGUF generation always goes through go-llama.cpp.
func NewGenerateClient(model string, opts Options) (Generator, error) {
	if useGGUF(model, opts) {
		return newGGUFClient(model, false, opts.MaxTokens)
	}
	return NewOpenAIClient(opts.BaseURL, model, opts), nil
}
