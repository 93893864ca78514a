package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the on-disk embedding cache. It memoizes embedding calls only;
// the vector index itself is rebuilt in memory on every run.
type Store struct {
	DB     *sql.DB
	DBPath string
}

// GetDefaultDbPath returns MENURAG_CACHE_PATH, or
// $XDG_CACHE_HOME/menurag/embeddings.sqlite (creating the directory).
func GetDefaultDbPath() (string, error) {
	if path := os.Getenv("MENURAG_CACHE_PATH"); path != "" {
		return path, nil
	}
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(cacheDir, "menurag")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "embeddings.sqlite"), nil
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		var err error
		dbPath, err = GetDefaultDbPath()
		if err != nil {
			return nil, err
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{DB: db, DBPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Status summarizes the cache for the status command.
type Status struct {
	DBPath      string
	VectorCount int
	Models      []ModelStatus
}

// ModelStatus is per-model cache stats.
type ModelStatus struct {
	Model        string
	Count        int
	Dims         int
	LastEmbedded string
}

// GetStatus returns the cache path, total vector count and per-model stats.
func (s *Store) GetStatus() (*Status, error) {
	st := &Status{DBPath: s.DBPath}
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&st.VectorCount); err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(`
		SELECT model, COUNT(*), MAX(dims), MAX(embedded_at)
		FROM embeddings
		GROUP BY model
		ORDER BY model
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m ModelStatus
		var last sql.NullString
		if err := rows.Scan(&m.Model, &m.Count, &m.Dims, &last); err != nil {
			return nil, err
		}
		if last.Valid {
			m.LastEmbedded = last.String
		}
		st.Models = append(st.Models, m)
	}
	return st, rows.Err()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS embeddings (
			model TEXT NOT NULL,
			hash TEXT NOT NULL,
			dims INTEGER NOT NULL,
			embedding BLOB NOT NULL,
			embedded_at TEXT NOT NULL,
			PRIMARY KEY (model, hash)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_embeddings_model ON embeddings(model)`,
	}
	for _, query := range queries {
		if _, err := s.DB.Exec(query); err != nil {
			return fmt.Errorf("schema init failed: %w (query: %s)", err, query)
		}
	}
	return nil
}
