// Package credstore holds the local credential store backends. The Redis
// and Mongo backends live next to their connection helpers under db/.
package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

const (
	appDir   = "crm-console"
	fileName = "credentials.json"
)

// DefaultPath returns <user config dir>/crm-console/credentials.json,
// honouring XDG_CONFIG_HOME on Unix.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("credstore: resolve config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// FileStore persists credentials as a small JSON document on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store writing to path. An empty path falls back
// to DefaultPath.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileStore{path: path}, nil
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Save(_ context.Context, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("credstore: create dir: %w", err)
	}
	buf, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("credstore: encode: %w", err)
	}

	// Write-then-rename so a crash never leaves a half-written file.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("credstore: create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credstore: chmod: %w", err)
	}
	if _, err := tmp.Write(buf); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("credstore: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("credstore: rename: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context) (*domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credstore: read: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(buf, &creds); err != nil {
		return nil, fmt.Errorf("credstore: decode %s: %w", s.path, err)
	}
	if creds.AccessToken == "" {
		return nil, nil
	}
	return &creds, nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credstore: remove: %w", err)
	}
	return nil
}

// Ping checks that the credential directory can be created.
func (s *FileStore) Ping(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("credstore: %w", err)
	}
	return nil
}
