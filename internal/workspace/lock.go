package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// InitLock is a boolean persisted as the existence of a file.
type InitLock struct {
	path string
	now  func() time.Time
}

// NewInitLock returns the lock stored at path.
func NewInitLock(path string) *InitLock {
	return &InitLock{path: path, now: time.Now}
}

// Path returns the lock file location.
func (l *InitLock) Path() string {
	return l.path
}

// Exists reports whether initialization has completed.
func (l *InitLock) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Set records that initialization has completed. The file content is the
// completion time, for humans only; nothing reads it back.
func (l *InitLock) Set() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	stamp := l.now().UTC().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(l.path, []byte(stamp), 0o644); err != nil {
		return fmt.Errorf("write init lock: %w", err)
	}
	return nil
}

// Clear removes the lock. Clearing an absent lock is not an error.
func (l *InitLock) Clear() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove init lock: %w", err)
	}
	return nil
}
