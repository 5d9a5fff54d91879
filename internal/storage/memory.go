package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/nkiryanov/videohub/internal/models"
)

// MemoryStorage keeps objects in memory. For tests and local runs without MinIO
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Returned by Store if set
	FailStore error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (s *MemoryStorage) Store(ctx context.Context, key string, r io.Reader, size int64, contentType string) (models.Asset, error) {
	if s.FailStore != nil {
		return models.Asset{}, s.FailStore
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return models.Asset{}, fmt.Errorf("failed to read object: %w", err)
	}
	if buf.Len() == 0 {
		return models.Asset{}, ErrEmptyObject
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = buf.Bytes()

	return models.Asset{URL: "memory://" + key, StorageID: key}, nil
}

func (s *MemoryStorage) Remove(ctx context.Context, storageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, storageID)
	return nil
}

// Has reports whether object stored
func (s *MemoryStorage) Has(storageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.objects[storageID]
	return ok
}

// Len returns number of stored objects
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.objects)
}
