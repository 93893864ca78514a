package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t)

	var name string
	err := s.DB.QueryRow("SELECT name FROM sqlite_master WHERE name = ?", "embeddings").Scan(&name)
	if err != nil {
		t.Errorf("Table embeddings not found: %v", err)
	}
}

func TestGetDefaultDbPath(t *testing.T) {
	t.Setenv("MENURAG_CACHE_PATH", "/tmp/custom.sqlite")
	p, err := GetDefaultDbPath()
	if err != nil || p != "/tmp/custom.sqlite" {
		t.Fatalf("override ignored: %q %v", p, err)
	}

	dir := t.TempDir()
	t.Setenv("MENURAG_CACHE_PATH", "")
	t.Setenv("XDG_CACHE_HOME", dir)
	p, err = GetDefaultDbPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "menurag", "embeddings.sqlite"); p != want {
		t.Errorf("GetDefaultDbPath = %q, want %q", p, want)
	}
}

func TestGetStatus(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, text := range []string{"Burger", "Fries"} {
		if err := s.PutEmbedding("nomic", text, []float32{1, 2, 3}, now); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.PutEmbedding("gemma", "Burger", []float32{1, 2}, now); err != nil {
		t.Fatal(err)
	}

	st, err := s.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.VectorCount != 3 {
		t.Errorf("VectorCount = %d, want 3", st.VectorCount)
	}
	if len(st.Models) != 2 {
		t.Fatalf("Models = %+v", st.Models)
	}
	if st.Models[0].Model != "gemma" || st.Models[0].Dims != 2 || st.Models[0].Count != 1 {
		t.Errorf("unexpected gemma stats %+v", st.Models[0])
	}
	if st.Models[1].Model != "nomic" || st.Models[1].Count != 2 || st.Models[1].LastEmbedded != "2026-01-02T03:04:05Z" {
		t.Errorf("unexpected nomic stats %+v", st.Models[1])
	}
}
