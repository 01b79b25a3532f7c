// Package ingestion orchestrates the ranking pipeline: graph intake,
// the three-pass ranking run, and result storage.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StorageClient abstracts blob storage for graphs and ranking manifests.
type StorageClient interface {
	PutGraph(ctx context.Context, network, graphID string, data []byte) error
	GetGraph(ctx context.Context, network, graphID string) ([]byte, error)
	PutManifest(ctx context.Context, network, manifestID string, data []byte) error
	GetManifest(ctx context.Context, network, manifestID string) ([]byte, error)
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(network, kind, id string) string {
	return filepath.Join(s.BaseDir, network, kind, id+".json")
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PutGraph stores a graph blob.
func (s *LocalStorage) PutGraph(ctx context.Context, network, graphID string, data []byte) error {
	return s.put(s.path(network, "graphs", graphID), data)
}

// GetGraph retrieves a graph blob.
func (s *LocalStorage) GetGraph(ctx context.Context, network, graphID string) ([]byte, error) {
	return os.ReadFile(s.path(network, "graphs", graphID))
}

// PutManifest stores a ranking manifest blob.
func (s *LocalStorage) PutManifest(ctx context.Context, network, manifestID string, data []byte) error {
	return s.put(s.path(network, "manifests", manifestID), data)
}

// GetManifest retrieves a ranking manifest blob.
func (s *LocalStorage) GetManifest(ctx context.Context, network, manifestID string) ([]byte, error) {
	return os.ReadFile(s.path(network, "manifests", manifestID))
}
