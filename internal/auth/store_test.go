package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetAndToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewStore(path)

	if got := s.Token(); got != "" {
		t.Errorf("Token() before Set = %q, want empty", got)
	}
	if err := s.Set("abc123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := s.Token(); got != "abc123" {
		t.Errorf("Token() = %q, want abc123", got)
	}
}

func TestTokenLoadsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("persisted\n"), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path)
	if got := s.Token(); got != "persisted" {
		t.Errorf("Token() = %q, want persisted", got)
	}
}

func TestSetPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewStore(path)
	if err := s.Set("abc123"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewStore(path)
	if err := s.Set("abc123"); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := s.Token(); got != "" {
		t.Errorf("Token() after Clear = %q, want empty", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("token file still exists after Clear")
	}
}

func TestClearMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "token"))
	if err := s.Clear(); err != nil {
		t.Errorf("Clear() on missing file error = %v", err)
	}
}
