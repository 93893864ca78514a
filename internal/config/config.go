package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ba0f3/menurag/internal/llm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMenu    = "menu.json"
	DefaultK       = 5
	DefaultTimeout = 60 * time.Second
)

var validate = validator.New()

func GetConfigDir() (string, error) {
	if dir := os.Getenv("MENURAG_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "menurag"), nil
}

func GetConfigFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		Menu:          DefaultMenu,
		K:             DefaultK,
		Normalize:     true,
		EmbedModel:    llm.DefaultEmbedModel(),
		GenerateModel: llm.DefaultGenerateModel(),
		BaseURL:       llm.DefaultBaseURL,
		MaxTokens:     llm.DefaultMaxTokens,
		Timeout:       DefaultTimeout,
		Cache:         CacheConfig{Enabled: true},
	}
}

// LoadDotEnv loads .env from the working directory, then from the config
// directory. Variables already set in the environment are never replaced.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	if dir, err := GetConfigDir(); err == nil {
		_ = godotenv.Load(filepath.Join(dir, ".env"))
	}
}

// LoadConfig reads path (the default config file when empty) over the
// defaults, then applies environment overrides. A missing file is not an
// error unless path was given explicitly.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := GetConfigFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the process environment.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.EmbedModel, "MENURAG_EMBED_MODEL")
	setFromEnv(&c.GenerateModel, "MENURAG_GENERATE_MODEL")
	setFromEnv(&c.Backend, "MENURAG_EMBED_BACKEND")
	setFromEnv(&c.BaseURL, "OLLAMA_HOST")
	setFromEnv(&c.APIKey, "OPENAI_API_KEY")
	setFromEnv(&c.Cache.Path, "MENURAG_CACHE_PATH")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("invalid config: %s fails %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("invalid config: %s fails %s", fe.Namespace(), fe.Tag())
	}
	return err
}

// LLMOptions returns the backend settings shared by the embed and generate
// clients.
func (c *Config) LLMOptions() llm.Options {
	return llm.Options{
		Backend:   c.Backend,
		BaseURL:   c.BaseURL,
		APIKey:    c.APIKey,
		MaxTokens: c.MaxTokens,
		Timeout:   c.Timeout,
	}
}

// SaveConfig writes cfg as YAML to path, or to the default config file when
// path is empty, creating parent directories. The API key is never written.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		if err := EnsureConfigDir(); err != nil {
			return err
		}
		p, err := GetConfigFilePath()
		if err != nil {
			return err
		}
		path = p
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out := *cfg
	out.APIKey = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
