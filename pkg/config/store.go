package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const fileHeader = "# broca agent configuration\n"

// FileStore persists a Config as YAML.
type FileStore struct {
	path     string
	cfg      Config
	mu       sync.RWMutex
	modified bool
}

// NewFileStore creates a store for path and loads it if it exists.
// Fields absent from the file keep their defaults.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("config: empty config path")
	}
	store := &FileStore{path: path, cfg: Default()}
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return store, nil
}

// Load reads the file. A missing file leaves the defaults in place.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.cfg = Default()
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}
	s.cfg = cfg.withDefaults()
	s.modified = false
	return nil
}

// Save writes the configuration atomically.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.modified = false
	return nil
}

// Config returns a copy of the current configuration.
func (s *FileStore) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set replaces the configuration after validating it.
func (s *FileStore) Set(cfg Config) error {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.modified = true
	return nil
}

// IsModified returns true if the store has unsaved changes.
func (s *FileStore) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}
