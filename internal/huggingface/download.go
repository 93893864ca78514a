package huggingface

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRevision is the default branch to resolve files from.
const DefaultRevision = "main"

// ResolveURL returns the direct download URL for a file in a Hugging Face repo.
func ResolveURL(repo, revision, file string) string {
	if revision == "" {
		revision = DefaultRevision
	}
	return fmt.Sprintf("https://huggingface.co/%s/resolve/%s/%s", strings.TrimPrefix(repo, "https://huggingface.co/"), revision, file)
}

// ModelCacheDir returns where GGUF models are cached: MENURAG_MODEL_CACHE, or
// $XDG_CACHE_HOME/menurag/models.
func ModelCacheDir() (string, error) {
	if d := os.Getenv("MENURAG_MODEL_CACHE"); d != "" {
		return d, nil
	}
	cache := os.Getenv("XDG_CACHE_HOME")
	if cache == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cache = filepath.Join(home, ".cache")
	}
	return filepath.Join(cache, "menurag", "models"), nil
}

// LocalPath returns the path where a repo/file would be cached.
func LocalPath(repo, file string) (string, error) {
	base, err := ModelCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, strings.ReplaceAll(repo, "/", "_"), file), nil
}

// Download fetches url to destPath through a temporary file, so an
// interrupted download never leaves a truncated model behind.
func Download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "menurag/1.0")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: %s", url, resp.Status)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".part-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}

func fetchCached(ctx context.Context, repo, file string) (string, error) {
	dest, err := LocalPath(repo, file)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	url := ResolveURL(repo, DefaultRevision, file)
	if err := Download(ctx, url, dest); err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	return dest, nil
}

// ResolveModel resolves a model spec to a local GGUF path, downloading from
// Hugging Face if needed. spec can be:
//   - a local path to a .gguf file (returned as-is)
//   - "repo:file.gguf" (optionally prefixed with "hf:")
//   - "org/repo/file.gguf"
func ResolveModel(ctx context.Context, spec string) (string, error) {
	spec = strings.TrimSpace(spec)
	hf := strings.TrimPrefix(spec, "hf:")
	if idx := strings.Index(hf, ":"); idx >= 0 {
		repo, file := hf[:idx], hf[idx+1:]
		if repo != "" && file != "" && strings.HasSuffix(file, ".gguf") {
			return fetchCached(ctx, repo, file)
		}
	}
	if strings.HasSuffix(spec, ".gguf") && strings.Count(spec, "/") >= 2 && !filepath.IsAbs(spec) && !strings.HasPrefix(spec, ".") {
		last := strings.LastIndex(spec, "/")
		return fetchCached(ctx, spec[:last], spec[last+1:])
	}
	return spec, nil
}
