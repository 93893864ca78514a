package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"
)

// HashText returns the cache key for text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// GetEmbedding returns the cached vector for (model, text). ok is false on a miss.
func (s *Store) GetEmbedding(model, text string) (vec []float32, ok bool, err error) {
	var blob []byte
	var dims int
	err = s.DB.QueryRow(`SELECT dims, embedding FROM embeddings WHERE model = ? AND hash = ?`,
		model, HashText(text)).Scan(&dims, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	vec, err = BlobToFloat32Slice(blob)
	if err != nil {
		return nil, false, err
	}
	if len(vec) != dims {
		return nil, false, fmt.Errorf("cached embedding has %d dims, recorded %d", len(vec), dims)
	}
	return vec, true, nil
}

// PutEmbedding stores (or replaces) the vector for (model, text).
func (s *Store) PutEmbedding(model, text string, embedding []float32, embeddedAt time.Time) error {
	if len(embedding) == 0 {
		return fmt.Errorf("refusing to cache empty embedding")
	}
	_, err := s.DB.Exec(`
		INSERT OR REPLACE INTO embeddings (model, hash, dims, embedding, embedded_at)
		VALUES (?, ?, ?, ?, ?)
	`, model, HashText(text), len(embedding), Float32SliceToBlob(embedding), embeddedAt.UTC().Format(time.RFC3339))
	return err
}

// ClearEmbeddings deletes cached vectors for model, or all vectors when model
// is empty. It returns the number of rows removed.
func (s *Store) ClearEmbeddings(model string) (int64, error) {
	var res sql.Result
	var err error
	if model == "" {
		res, err = s.DB.Exec(`DELETE FROM embeddings`)
	} else {
		res, err = s.DB.Exec(`DELETE FROM embeddings WHERE model = ?`, model)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Float32SliceToBlob encodes f as little-endian IEEE 754 float32 values.
func Float32SliceToBlob(f []float32) []byte {
	b := make([]byte, 4*len(f))
	for i, v := range f {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// BlobToFloat32Slice decodes a BLOB written by Float32SliceToBlob.
func BlobToFloat32Slice(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}
