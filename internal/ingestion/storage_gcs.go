package ingestion

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSStorage implements StorageClient using Google Cloud Storage.
type GCSStorage struct {
	client *gcs.Client
	bucket string
}

// NewGCSStorage creates a GCS-backed StorageClient.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSStorage(ctx context.Context, bucket string) (*GCSStorage, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (s *GCSStorage) key(network, kind, id string) string {
	return network + "/" + kind + "/" + id + ".json"
}

func (s *GCSStorage) put(ctx context.Context, key string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", key, err)
	}
	return nil
}

func (s *GCSStorage) get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSStorage) PutGraph(ctx context.Context, network, graphID string, data []byte) error {
	return s.put(ctx, s.key(network, "graphs", graphID), data)
}

func (s *GCSStorage) GetGraph(ctx context.Context, network, graphID string) ([]byte, error) {
	return s.get(ctx, s.key(network, "graphs", graphID))
}

func (s *GCSStorage) PutManifest(ctx context.Context, network, manifestID string, data []byte) error {
	return s.put(ctx, s.key(network, "manifests", manifestID), data)
}

func (s *GCSStorage) GetManifest(ctx context.Context, network, manifestID string) ([]byte, error) {
	return s.get(ctx, s.key(network, "manifests", manifestID))
}
