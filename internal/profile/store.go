package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the capital profile as a JSON document on disk. Writes
// go to a temporary file first and are committed with an atomic rename.
type Store struct {
	mu   sync.RWMutex
	path string
}

// NewStore creates a store rooted at path, creating the parent directory
// when needed.
func NewStore(path string) *Store {
	if path == "" {
		path = "profile.json"
	}
	if dir := filepath.Dir(path); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Exists reports whether a profile document is present on disk.
func (s *Store) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes the profile atomically.
func (s *Store) Save(p *CapitalProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p == nil {
		return fmt.Errorf("cannot save nil profile")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary profile file: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to commit profile file: %w", err)
	}
	return nil
}

// Load reads and validates the profile. A missing file returns
// (nil, nil): the advisor then starts unconfigured rather than failing.
func (s *Store) Load() (*CapitalProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var p CapitalProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if p.Balances == nil {
		p.Balances = make(map[string]float64)
	}
	if p.Exchanges == nil {
		p.Exchanges = make(map[string]bool)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile on disk: %w", err)
	}
	return &p, nil
}
