package blob

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func newDiskStore(t *testing.T) *DiskStore {
	t.Helper()
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	return s
}

func TestDiskStore_SaveAndPath(t *testing.T) {
	s := newDiskStore(t)

	n, err := s.Save("abc123", strings.NewReader("fake video bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != int64(len("fake video bytes")) {
		t.Fatalf("expected %d bytes written, got %d", len("fake video bytes"), n)
	}

	path, err := s.Path("abc123")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "fake video bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestDiskStore_SaveReplacesExisting(t *testing.T) {
	s := newDiskStore(t)

	if _, err := s.Save("abc123", strings.NewReader("old")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Save("abc123", strings.NewReader("new")); err != nil {
		t.Fatalf("save: %v", err)
	}

	path, _ := s.Path("abc123")
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Fatalf("expected replacement, got %q", data)
	}
}

func TestDiskStore_PathUnknown(t *testing.T) {
	s := newDiskStore(t)
	if _, err := s.Path("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	s := newDiskStore(t)
	if _, err := s.Path("../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for traversal key, got %v", err)
	}
	if _, err := s.Save("a/b", strings.NewReader("x")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for nested key, got %v", err)
	}
}

func TestDiskStore_Remove(t *testing.T) {
	s := newDiskStore(t)

	if _, err := s.Save("abc123", strings.NewReader("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Remove("abc123"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Path("abc123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	if err := s.Remove("abc123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double remove, got %v", err)
	}
}
