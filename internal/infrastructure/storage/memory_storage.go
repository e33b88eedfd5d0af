package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	projectapp "github.com/bizledger/backend/internal/application/project"
	reportapp "github.com/bizledger/backend/internal/application/report"
)

var (
	_ projectapp.ObjectStorageService = (*MemoryObjectStorage)(nil)
	_ reportapp.ReportStorage         = (*MemoryObjectStorage)(nil)
)

// MemoryObjectStorage keeps objects in process memory and hands out URLs
// under BaseURL. It stands in for S3 when storage is disabled.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	contentType string
	body        []byte
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/storage"
	}
	return &MemoryObjectStorage{
		BaseURL: baseURL,
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

// GenerateUploadURL returns a fake upload URL for storageKey
func (s *MemoryObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return s.signedURL("upload", storageKey, expiresIn)
}

// GenerateDownloadURL returns a fake download URL for storageKey
func (s *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return s.signedURL("download", storageKey, expiresIn)
}

// PutObject stores a copy of body
func (s *MemoryObjectStorage) PutObject(_ context.Context, storageKey, contentType string, body []byte) error {
	if storageKey == "" {
		return errEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = memoryObject{contentType: contentType, body: append([]byte(nil), body...)}
	return nil
}

// DeleteObject removes the object if present
func (s *MemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// Object returns a stored body and its content type
func (s *MemoryObjectStorage) Object(storageKey string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	return obj.body, obj.contentType, ok
}

func (s *MemoryObjectStorage) signedURL(action, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	expiresAt := s.now().Add(expiresIn)
	q := url.Values{"expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return s.BaseURL + "/" + action + "/" + storageKey + "?" + q.Encode(), expiresAt, nil
}
