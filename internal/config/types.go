package config

import "time"

// Config is the on-disk configuration. Zero values in the file leave the
// defaults in place.
type Config struct {
	Menu      string `yaml:"menu" validate:"required"`
	K         int    `yaml:"k" validate:"gte=1"`
	Normalize bool   `yaml:"normalize"`

	EmbedModel    string `yaml:"embed_model" validate:"required"`
	GenerateModel string `yaml:"generate_model" validate:"required"`
	Backend       string `yaml:"backend,omitempty" validate:"omitempty,oneof=api gguf"`
	BaseURL       string `yaml:"base_url" validate:"required"`
	APIKey        string `yaml:"api_key,omitempty"`

	MaxTokens int           `yaml:"max_tokens" validate:"gte=1"`
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig controls the embedding cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}
