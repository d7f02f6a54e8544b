// Package filestore gives the file handlers access to one directory on disk.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrNotFound is returned when the requested file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidPath is returned for names that are empty or leave the root.
	ErrInvalidPath = errors.New("invalid file path")
)

// Store reads and writes files by slash-separated name relative to a root.
type Store interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// DirStore is a Store backed by a directory.
type DirStore struct {
	root string
}

// NewDirStore returns a store rooted at dir, creating it when missing.
func NewDirStore(dir string) (*DirStore, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve file root %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create file root %s: %w", abs, err)
	}
	return &DirStore{root: abs}, nil
}

// Root returns the absolute directory the store serves.
func (s *DirStore) Root() string {
	return s.root
}

// resolve maps name onto the root. Names that are absolute or climb out
// of the root are rejected.
func (s *DirStore) resolve(name string) (string, error) {
	local := filepath.FromSlash(name)
	if name == "" || !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return filepath.Join(s.root, local), nil
}

// Read returns the contents of name.
func (s *DirStore) Read(name string) ([]byte, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Write creates or truncates name and stores data in it. Parent
// directories are not created.
func (s *DirStore) Write(name string, data []byte) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
