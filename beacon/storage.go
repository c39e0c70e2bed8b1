// api/beacon/storage.go
package beacon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Storage is the small key-value port behind beacon state (session ID, visit
// counters). Keeping it an interface makes the beacon testable without
// touching the filesystem.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MemoryStorage is an in-process Storage, used in tests and for callers that
// don't want persistence (each run gets a fresh session).
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// FileStorage persists keys to a single JSON file so the session ID survives
// restarts, mirroring browser localStorage semantics.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

func NewFileStorage(path string) (*FileStorage, error) {
	s := &FileStorage{path: path, values: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read beacon storage: %w", err)
	}
	if err := json.Unmarshal(raw, &s.values); err != nil {
		// A corrupt file is not worth failing over; start fresh.
		s.values = make(map[string]string)
	}
	return s, nil
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value

	raw, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("failed to encode beacon storage: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write beacon storage: %w", err)
	}
	return nil
}
