package storage

import (
	"context"
	"strings"
	"sync"
)

// Object is a stored blob with its content type
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStore keeps objects in process memory.
// Used when no S3 endpoint is configured and in tests.
type MemoryObjectStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]Object
}

var _ ObjectStore = (*MemoryObjectStore)(nil)

// NewMemoryObjectStore creates an empty store; URLs are rooted at baseURL
func NewMemoryObjectStore(baseURL string) *MemoryObjectStore {
	if baseURL == "" {
		baseURL = "/media"
	}
	return &MemoryObjectStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

// Put stores a copy of data
func (s *MemoryObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.objects[key] = Object{Data: buf, ContentType: contentType}
	s.mu.Unlock()
	return s.URL(key), nil
}

// Get returns the stored object or ErrObjectNotFound
func (s *MemoryObjectStore) Get(key string) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return Object{}, ErrObjectNotFound
	}
	return obj, nil
}

// Delete removes the object; missing keys are ignored
func (s *MemoryObjectStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// URL returns the address the object is served from
func (s *MemoryObjectStore) URL(key string) string {
	return s.baseURL + "/" + key
}

// Len returns the number of stored objects
func (s *MemoryObjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
