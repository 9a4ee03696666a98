package session

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"derisk/app/models"
)

// FileStore keeps the session hint in a small json file, the headless
// counterpart of the browser's local storage keys.
type FileStore struct {
	Path string

	mu sync.Mutex
}

func (s *FileStore) Get() (*models.PersistedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read a session file")
	}

	persisted := new(models.PersistedSession)
	if err := json.Unmarshal(data, persisted); err != nil {
		// a corrupted hint is worthless, drop it
		_ = os.Remove(s.Path)
		return nil, nil
	}
	return persisted, nil
}

func (s *FileStore) Set(session *models.PersistedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "failed to marshal a session")
	}
	return errors.Wrap(os.WriteFile(s.Path, data, 0o600), "failed to write a session file")
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove a session file")
	}
	return nil
}

// MemoryStore is a SessionStore double for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.Mutex
	session *models.PersistedSession
}

func (s *MemoryStore) Get() (*models.PersistedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

func (s *MemoryStore) Set(session *models.PersistedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
