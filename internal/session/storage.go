package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Storage is the persistence capability the store depends on. Load returns
// (nil, nil) when nothing has been persisted yet.
type Storage interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// FileStorage keeps the session as a JSON file. Writes are atomic
// (tmp + rename) with 0600 permissions since the file holds a credential.
type FileStorage struct {
	path string
}

// NewFileStorage returns storage rooted at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the backing file path.
func (f *FileStorage) Path() string { return f.path }

func (f *FileStorage) Load() (*Session, error) {
	if f.path == "" {
		return nil, errors.New("session file path not set")
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (f *FileStorage) Save(s *Session) error {
	if f.path == "" {
		return errors.New("session file path not set")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStorage) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStorage is an in-memory Storage for tests.
type MemoryStorage struct {
	mu    sync.Mutex
	saved *Session
}

// NewMemoryStorage returns empty in-memory storage.
func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (m *MemoryStorage) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return nil, nil
	}
	s := *m.saved
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return &s, nil
}

func (m *MemoryStorage) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	if copied.User != nil {
		u := *copied.User
		copied.User = &u
	}
	m.saved = &copied
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = nil
	return nil
}
