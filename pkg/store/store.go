// Package store manages the saved credential files and the live credential.
//
// Saved credentials live under a data directory as <name>.auth.json and are
// treated as opaque blobs: the store copies them whole, reading only the
// identity token out of them to guard against overwriting one account's
// credential with another's.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/identity"
)

const authSuffix = ".auth.json"

// ErrIdentityMismatch is returned when saving the live credential over an
// existing saved account that belongs to a different identity.
var ErrIdentityMismatch = errors.New("current credential belongs to a different account")

// ErrNotFound is returned when a named saved account does not exist.
var ErrNotFound = errors.New("no saved account with that name")

// Store reads and writes named credential files under a data directory.
type Store struct {
	dataDir  string
	authFile string
}

// New creates a Store over the given data directory and live credential path.
func New(dataDir, authFile string) *Store {
	return &Store{dataDir: dataDir, authFile: authFile}
}

// EnsureDirs creates the data directory if needed.
func (s *Store) EnsureDirs() error {
	return os.MkdirAll(s.dataDir, 0o750)
}

// Path returns the file path for a saved account name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dataDir, name+authSuffix)
}

// LiveAuthPath returns the path of the live credential file.
func (s *Store) LiveAuthPath() string {
	return s.authFile
}

// LiveAuthExists reports whether a live credential is present.
func (s *Store) LiveAuthExists() bool {
	info, err := os.Stat(s.authFile)
	return err == nil && !info.IsDir()
}

// Exists reports whether a saved account with the given name is present.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// List returns the names of all saved accounts in sorted order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), authSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), authSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// MatchByIdentity returns the name of the saved account whose credential
// carries the given identity token, or "" if none matches. Names are checked
// in sorted order so the result is deterministic.
func (s *Store) MatchByIdentity(id string) string {
	if id == "" {
		return ""
	}
	names, err := s.List()
	if err != nil {
		return ""
	}
	for _, name := range names {
		if identity.FromFile(s.Path(name)) == id {
			return name
		}
	}
	return ""
}

// SaveCurrent copies the live credential into the data directory under the
// given name. If a saved credential already exists under that name and both
// sides carry identities that differ, the save is refused; the live
// credential belongs to someone else and overwriting would lose an account.
func (s *Store) SaveCurrent(name string) error {
	if err := s.EnsureDirs(); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	dest := s.Path(name)
	if s.Exists(name) {
		liveID := identity.FromFile(s.authFile)
		destID := identity.FromFile(dest)
		if liveID != "" && destID != "" && liveID != destID {
			return fmt.Errorf("refusing to overwrite %q: %w", name, ErrIdentityMismatch)
		}
	}

	return copyFile(s.authFile, dest)
}

// Activate copies a saved credential over the live credential file.
func (s *Store) Activate(name string) error {
	src := s.Path(name)
	if !s.Exists(name) {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err := os.MkdirAll(filepath.Dir(s.authFile), 0o750); err != nil {
		return fmt.Errorf("ensure auth dir: %w", err)
	}
	return copyFile(src, s.authFile)
}

// ClearLive removes the live credential file, preparing for a fresh login.
func (s *Store) ClearLive() error {
	if err := os.Remove(s.authFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear live credential: %w", err)
	}
	return nil
}

// copyFile copies src to dst atomically: write to a temp file in the target
// directory, then rename over the destination.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}

	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
