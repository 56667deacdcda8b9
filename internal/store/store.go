// Package store implements the session store: folder-based layout under
// ~/.config/hypr-sessions/, legacy-layout migration, name validation, and
// per-target advisory locking. It is the only shared mutable resource in
// the system (spec.md §5).
package store

import (
	"os"
	"path/filepath"

	"github.com/grovetools/hypr-sessions/internal/config"
	grovelogging "github.com/grovetools/core/logging"
)

var ulog = grovelogging.NewUnifiedLogger("hypr-sessions.store")

// Store owns the resolved paths for one invocation. It is constructed
// fresh per process — no package-level singleton holds store state.
type Store struct {
	Paths config.Paths
}

// New resolves the store paths and runs the one-time legacy migration
// before returning. Migration is idempotent (spec.md §4.1).
func New() (*Store, error) {
	paths, err := config.ResolvePaths()
	if err != nil {
		return nil, Wrap(KindIOFailure, err, "resolving home directory")
	}
	s := &Store{Paths: paths}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// EnsureDirs creates active/ and archived/ under the root if missing.
// Unlike Validator checks, this action intentionally creates directories —
// it is the "ensure exists" half of the pure-compute / explicit-ensure
// split called for in spec.md §9.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.Paths.Root, s.Paths.Active, s.Paths.Archived} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Wrap(KindIOFailure, err, "creating %s", dir)
		}
	}
	return nil
}

// SessionEntry describes one directory found under active/ or archived/.
type SessionEntry struct {
	Name    string
	ModTime int64
}

// ListActive returns the names of all active session directories.
func (s *Store) ListActive() ([]string, error) {
	return s.listDir(s.Paths.Active)
}

// ListArchived returns the names of all archived session directories.
func (s *Store) ListArchived() ([]string, error) {
	return s.listDir(s.Paths.Archived)
}

func (s *Store) listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, Wrap(KindIOFailure, err, "listing %s", dir)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if name := e.Name(); name != "" && name[0] == '.' {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// SessionJSONPath returns the path to session.json inside an active
// session directory.
func (s *Store) SessionJSONPath(name string) string {
	return filepath.Join(s.Paths.Active, name, "session.json")
}
