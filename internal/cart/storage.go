package cart

import (
	"errors"
	"os"
	"path/filepath"
)

// Storage is the client-local durable key-value store backing the cart
// and the saved customer profile. Values are JSON blobs; a missing key
// is not an error.
type Storage interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// FileStorage keeps one file per key under a directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStorage) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *FileStorage) Save(key string, data []byte) error {
	return os.WriteFile(s.path(key), data, 0o644)
}

func (s *FileStorage) Delete(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemStorage is an in-memory Storage for tests.
type MemStorage struct {
	values map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{values: make(map[string][]byte)}
}

func (s *MemStorage) Load(key string) ([]byte, bool, error) {
	data, ok := s.values[key]
	return data, ok, nil
}

func (s *MemStorage) Save(key string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.values[key] = cp
	return nil
}

func (s *MemStorage) Delete(key string) error {
	delete(s.values, key)
	return nil
}
