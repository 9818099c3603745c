package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

type memoryBlob struct {
	data        []byte
	contentType string
}

// MemoryStore keeps blobs in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]memoryBlob)}
}

func (s *MemoryStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = memoryBlob{data: cp, contentType: contentType}
	return nil
}

func (s *MemoryStore) Open(_ context.Context, key string) (*Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return &Blob{
		Body:        io.NopCloser(bytes.NewReader(b.data)),
		ContentType: b.contentType,
		Size:        int64(len(b.data)),
	}, nil
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[key]
	return ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, key)
	return nil
}

// Len reports how many blobs are held
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
