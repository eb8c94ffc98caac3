package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// TokenStore persists the access token between runs.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	Clear() error
}

type credentials struct {
	Token string `yaml:"token"`
}

// FileTokenStore keeps the token in a YAML file readable only by the user.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

// NewFileTokenStore stores credentials at dir/credentials.yaml.
func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{path: filepath.Join(dir, "credentials.yaml")}
}

// Token returns the stored token, or "" when none is stored.
func (s *FileTokenStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read credentials: %w", err)
	}
	var c credentials
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return "", fmt.Errorf("parse credentials: %w", err)
	}
	return c.Token, nil
}

// SetToken replaces the stored token.
func (s *FileTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := yaml.Marshal(credentials{Token: token})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// Clear removes the stored token.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore keeps the token in memory.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// Token returns the token.
func (s *MemoryTokenStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// SetToken sets the token.
func (s *MemoryTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear forgets the token.
func (s *MemoryTokenStore) Clear() error {
	return s.SetToken("")
}
