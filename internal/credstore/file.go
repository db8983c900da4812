package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	appDir   = "voting-system"
	fileName = Key + ".json"
)

// FileStore persists the credential as a small JSON envelope on disk.
// The file is the cross-process slot: any process on the machine can
// read it, and a Watcher on its path observes writes made elsewhere.
type FileStore struct {
	path string
	bus  *Bus
}

// DefaultPath returns the conventional slot location under the user
// config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// NewFileStore creates a file-backed store at path. An empty path uses
// DefaultPath. A nil bus uses the process-wide Changes bus.
func NewFileStore(path string, bus *Bus) (*FileStore, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	if bus == nil {
		bus = Changes
	}
	return &FileStore{path: path, bus: bus}, nil
}

// Path returns the slot's file path; a Watcher on it sees every write.
func (s *FileStore) Path() string {
	return s.path
}

// Set writes the token with the given TTL and publishes the change.
// The write is atomic (temp file plus rename) so concurrent readers
// never observe a torn envelope; the last writer wins.
func (s *FileStore) Set(token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(envelope{
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credential dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileName+".*")
	if err != nil {
		return fmt.Errorf("failed to stage credential: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to restrict credential perms: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to stage credential: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to stage credential: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	s.bus.Publish()
	return nil
}

// Get returns the live token. Missing, unreadable and expired
// envelopes are all reported as ErrNoCredential.
func (s *FileStore) Get() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNoCredential
		}
		return "", fmt.Errorf("failed to read credential: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Token == "" {
		return "", ErrNoCredential
	}
	if env.expired(time.Now()) {
		return "", ErrNoCredential
	}
	return env.Token, nil
}

// Remove deletes the slot. Removing an already-empty slot succeeds and
// publishes nothing new beyond the file disappearing (cross-process
// observers see the deletion through their Watcher).
func (s *FileStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	return nil
}
