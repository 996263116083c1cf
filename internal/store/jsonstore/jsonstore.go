package jsonstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/techtrack/internal/store"
)

// JSON-backed key/value storage. One file per key, human-readable, portable.
// No locking; fine for a local single-user CLI.

const fileExt = ".json"

// Store keeps each key in <Dir>/<key>.json.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir. An empty dir means the working directory.
func New(dir string) (Store, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Store{}, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}
	return Store{Dir: dir}, nil
}

// Path is the file a key is stored in.
func (s Store) Path(key string) string {
	return filepath.Join(s.Dir, key+fileExt)
}

func (s Store) Get(key string) ([]byte, error) {
	b, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return b, nil
}

func (s Store) Set(key string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.Path(key), data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s Store) Remove(key string) error {
	if err := os.Remove(s.Path(key)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store.ErrNotFound
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
