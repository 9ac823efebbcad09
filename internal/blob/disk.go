package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps blobs as flat files under a single directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// clean rejects keys that would escape the blob directory.
func (s *DiskStore) clean(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" || filename != filepath.Base(filename) {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, filename), nil
}

func (s *DiskStore) Save(filename string, r io.Reader) (int64, error) {
	path, err := s.clean(filename)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("blob save: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		return 0, fmt.Errorf("blob save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("blob save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("blob save: %w", err)
	}
	return n, nil
}

func (s *DiskStore) Path(filename string) (string, error) {
	path, err := s.clean(filename)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("blob stat: %w", err)
	}
	return path, nil
}

func (s *DiskStore) Remove(filename string) error {
	path, err := s.clean(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("blob remove: %w", err)
	}
	return nil
}
