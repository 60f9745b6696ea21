package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hourglass/internal/model"
)

// Fixed keys for the persisted session, matching what browser builds of the
// app kept in local storage.
const (
	tokenKey = "hourglass_token"
	userKey  = "hourglass_user"
)

// CredentialStore persists the bearer token and user profile between runs.
type CredentialStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Session holds the authenticated identity with an explicit lifecycle:
// loaded from the credential store at construction, established on login,
// torn down on logout or any 401.
type Session struct {
	mu    sync.Mutex
	store CredentialStore
	token string
	user  *model.Profile
}

func NewSession(store CredentialStore) *Session {
	s := &Session{store: store}
	if token, ok := store.Get(tokenKey); ok {
		s.token = token
	}
	if raw, ok := store.Get(userKey); ok {
		var p model.Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			s.user = &p
		}
	}
	return s
}

func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// CurrentUser returns the signed-in profile, if any.
func (s *Session) CurrentUser() (model.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.Profile{}, false
	}
	return *s.user, true
}

func (s *Session) establish(token string, user model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user

	if err := s.store.Set(tokenKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.store.Set(userKey, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// Clear wipes both the in-memory and the persisted session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	_ = s.store.Delete(tokenKey)
	_ = s.store.Delete(userKey)
}

// FileStore keeps one file per key under a directory, the desktop analogue
// of the browser's local storage.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create credential dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Get(key string) (string, bool) {
	b, err := os.ReadFile(filepath.Join(f.dir, key))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (f *FileStore) Set(key, value string) error {
	return os.WriteFile(filepath.Join(f.dir, key), []byte(value), 0o600)
}

func (f *FileStore) Delete(key string) error {
	err := os.Remove(filepath.Join(f.dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemStore is an in-process CredentialStore for tests.
type MemStore struct {
	mu   sync.Mutex
	vals map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{vals: make(map[string]string)}
}

func (m *MemStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	return v, ok
}

func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
	return nil
}

func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, key)
	return nil
}
