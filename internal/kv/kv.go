// Package kv provides the persistent key-value store backing the app's
// catalog and preferences. Values are opaque byte slices owned by the caller.
package kv

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Get when the key has never been set or has
// been deleted.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistent key-value collaborator.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// DefaultDir returns XDG_STATE_HOME/noveltts or ~/.local/state/noveltts.
func DefaultDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "noveltts")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "noveltts")
}
