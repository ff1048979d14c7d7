package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	settingsapp "github.com/billmaster/backend/internal/application/settings"
)

// StubObjectStorage keeps uploaded objects in memory.
// Use it for development when no S3-compatible backend is configured.
type StubObjectStorage struct {
	// BaseURL prefixes returned object URLs
	// Defaults to "https://storage.example.com" if not set
	BaseURL string

	mu      sync.RWMutex
	objects map[string]StoredObject
}

// StoredObject is an object held by StubObjectStorage
type StoredObject struct {
	ContentType string
	Data        []byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string]StoredObject),
	}
}

var _ settingsapp.ObjectStorage = (*StubObjectStorage)(nil)

// PutObject stores a copy of data and returns its URL
func (s *StubObjectStorage) PutObject(ctx context.Context, storageKey, contentType string, data []byte) (string, error) {
	if storageKey == "" {
		return "", errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = make(map[string]StoredObject)
	}
	s.objects[storageKey] = StoredObject{
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + storageKey, nil
}

// Object returns a stored object
func (s *StubObjectStorage) Object(storageKey string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	return obj, ok
}

// DeleteObject removes an object; missing keys are not an error
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}
