// Package store persists experiment result records on the local file
// system so that interrupted comparison sweeps can resume without
// re-running completed experiments.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	biorad "github.com/Gurinderjeet/biorad"
)

// FileStore writes one zstd-compressed JSON record per (seed, experiment
// id) key, named experiment_<seed>_<id>.json.zst. Records are written to
// a temporary file in the same directory and renamed into place, so a
// partially written record is never visible under the final name.
type FileStore struct {
	dir string
}

var _ biorad.Store = (*FileStore)(nil)

// NewFileStore creates the directory if needed and returns a store rooted
// there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(seed int64, experimentID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("experiment_%d_%s.json.zst", seed, experimentID))
}

// Exists reports whether a record is present for the key.
func (s *FileStore) Exists(seed int64, experimentID string) bool {
	_, err := os.Stat(s.path(seed, experimentID))
	return err == nil
}

// Read loads and decodes the record for the key.
func (s *FileStore) Read(seed int64, experimentID string) (*biorad.Result, error) {
	raw, err := os.ReadFile(s.path(seed, experimentID))
	if err != nil {
		return nil, fmt.Errorf("store: read record: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("store: init decoder: %w", err)
	}
	defer dec.Close()
	buf, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("store: decompress record: %w", err)
	}
	var rec biorad.Result
	if err := json.Unmarshal(buf, &rec); err != nil {
		return nil, fmt.Errorf("store: decode record: %w", err)
	}
	return &rec, nil
}

// Write encodes, compresses and atomically installs the record for the
// key.
func (s *FileStore) Write(seed int64, experimentID string, rec *biorad.Result) error {
	buf, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode record: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("store: init encoder: %w", err)
	}
	compressed := enc.EncodeAll(buf, nil)
	if err := enc.Close(); err != nil {
		return fmt.Errorf("store: close encoder: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "experiment-*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(seed, experimentID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: install record: %w", err)
	}
	return nil
}
