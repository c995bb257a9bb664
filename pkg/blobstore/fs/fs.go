package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tair/catalog-admin/pkg/blobstore"
)

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing files
}

// Backend stores blobs as files below a base directory
type Backend struct {
	mu      sync.RWMutex
	baseDir string
}

// New creates a filesystem backend, creating BaseDir if needed
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

func (b *Backend) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", &blobstore.StorageError{Backend: "fs", Key: key, Op: "resolve", Err: errors.New("invalid key")}
	}
	return filepath.Join(b.baseDir, clean), nil
}

// Put writes data to the file for key
func (b *Backend) Put(ctx context.Context, key string, data []byte, contentType string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return &blobstore.StorageError{Backend: "fs", Key: key, Op: "put", Err: err}
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return &blobstore.StorageError{Backend: "fs", Key: key, Op: "put", Err: err}
	}
	return nil
}

// Get reads the file for key
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, blobstore.ErrNotFound
	}
	if err != nil {
		return nil, &blobstore.StorageError{Backend: "fs", Key: key, Op: "get", Err: err}
	}
	return data, nil
}

// Delete removes the file for key. Missing files are ignored
func (b *Backend) Delete(ctx context.Context, key string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &blobstore.StorageError{Backend: "fs", Key: key, Op: "delete", Err: err}
	}
	return nil
}

// Exists reports whether the file for key is present
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	p, err := b.path(key)
	if err != nil {
		return false, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	_, err = os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &blobstore.StorageError{Backend: "fs", Key: key, Op: "stat", Err: err}
	}
	return true, nil
}
