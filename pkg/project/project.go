// Package project manages the per-project key/value configuration store
// persisted at .dx/config.json.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ConfigPath is the store location relative to the project root.
const ConfigPath = ".dx/config.json"

var (
	// ErrExists is returned by Set when the key is already present.
	ErrExists = errors.New("config key already exists")
	// ErrMissing is returned by Update when the key is absent.
	ErrMissing = errors.New("config key not found")
)

// Store reads and writes the project configuration file.
type Store struct {
	dir string
}

// NewStore returns a store rooted at the given project directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the absolute path of the config file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, filepath.FromSlash(ConfigPath))
}

// Entry is one configuration key/value pair.
type Entry struct {
	Key   string
	Value string
}

// List returns all entries sorted by key. A missing store reads as empty.
func (s *Store) List() ([]Entry, error) {
	values, err := s.load()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(values))
	for k, v := range values {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Get returns the value for key. ok is false when the key is absent.
func (s *Store) Get(key string) (string, bool, error) {
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set writes a new key. Setting a key that already exists is refused with
// ErrExists; use Update to change an existing value.
func (s *Store) Set(key, value string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; ok {
		return fmt.Errorf("%w: %s", ErrExists, key)
	}
	values[key] = value
	return s.save(values)
}

// Update rewrites the value of an existing key. Updating an absent key is
// refused with ErrMissing.
func (s *Store) Update(key, value string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return fmt.Errorf("%w: %s", ErrMissing, key)
	}
	values[key] = value
	return s.save(values)
}

// Delete removes key from the store. It reports whether the key existed;
// deleting an absent key is not an error.
func (s *Store) Delete(key string) (bool, error) {
	values, err := s.load()
	if err != nil {
		return false, err
	}
	if _, ok := values[key]; !ok {
		return false, nil
	}
	delete(values, key)
	return true, s.save(values)
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigPath, err)
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	path := s.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
