// Package state persists the current/previous account record and reconciles
// it against the live credential's identity.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/logger"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
)

// File persists a SessionState record as JSON.
type File struct {
	path string
}

// NewFile creates a state file handle at the given path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the persisted state. A missing or unreadable file yields an
// empty state; loading is best-effort.
func (f *File) Load() models.SessionState {
	var st models.SessionState
	data, err := os.ReadFile(f.path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("state file unreadable, starting fresh", "path", f.path, "error", err)
		return models.SessionState{}
	}
	return st
}

// Save writes the state atomically: temp file in the same directory, then
// rename. A crash mid-write never leaves a half-written record.
func (f *File) Save(st models.SessionState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("ensure state dir: %w", err)
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp state: %w", err)
	}
	return nil
}
