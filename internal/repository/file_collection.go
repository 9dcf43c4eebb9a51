package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileCollection keeps a snapshot in <dir>/<name>.json
type FileCollection[T any] struct {
	path string
	mu   sync.RWMutex
}

// NewFileCollection file-backed collection; the file is created on first Save
func NewFileCollection[T any](dir, name string) *FileCollection[T] {
	return &FileCollection[T]{path: filepath.Join(dir, name+".json")}
}

// GetAll a missing or empty file reads as an empty snapshot
func (c *FileCollection[T]) GetAll(_ context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	return items, nil
}

// Save writes to a temp file and renames it over the old one
func (c *FileCollection[T]) Save(_ context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}
