package session

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.chatterm.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatterm")
}

// Dir returns the session-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "sessions", name)
}

// TokenPath returns the bearer token file path for a session.
func TokenPath(name string) string {
	return filepath.Join(Dir(name), "token")
}

// StubDBPath returns the stub backend's database path for a session.
func StubDBPath(name string) string {
	return filepath.Join(Dir(name), "stub.db")
}

// LogDir returns the log directory for a session.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// TUILogPath returns the TUI log file path.
func TUILogPath(name string) string {
	return filepath.Join(LogDir(name), "chattui.log")
}

// StubLogPath returns the stub daemon log file path.
func StubLogPath(name string) string {
	return filepath.Join(LogDir(name), "chatstubd.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the session directory tree with proper permissions.
func EnsureDir(name string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
