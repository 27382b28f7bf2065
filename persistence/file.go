package persistence

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore is the fallback tier: the raw snapshot JSON in a single file.
// Deliberately boring so a player can inspect or rescue it by hand.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path. Parent directories are
// created on first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Get() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading save file: %w", err)
	}
	return data, nil
}

func (f *FileStore) Put(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating save dir: %w", err)
	}
	// Write-then-rename so a crash mid-write never truncates the save.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing save file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing save file: %w", err)
	}
	return nil
}

func (f *FileStore) Delete() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting save file: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
