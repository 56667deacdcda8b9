package store

import (
	"os"
	"path/filepath"
)

// migrate implements the idempotent migration protocol from spec.md §4.1:
// create the root and both subtrees if absent, then relocate any legacy
// flat-layout session directory (one that contains a session.json
// directly under root) into active/.
func (s *Store) migrate() error {
	if _, err := os.Stat(s.Paths.Root); os.IsNotExist(err) {
		if err := s.EnsureDirs(); err != nil {
			return err
		}
		return nil
	} else if err != nil {
		return Wrap(KindIOFailure, err, "checking store root")
	}

	if err := s.EnsureDirs(); err != nil {
		return err
	}

	entries, err := os.ReadDir(s.Paths.Root)
	if err != nil {
		return Wrap(KindIOFailure, err, "reading store root")
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if name == "active" || name == "archived" {
			continue
		}

		legacyPath := filepath.Join(s.Paths.Root, name)
		sessionJSON := filepath.Join(legacyPath, "session.json")
		if _, err := os.Stat(sessionJSON); err != nil {
			// Not a legacy session directory; leave it alone.
			continue
		}

		target := filepath.Join(s.Paths.Active, name)
		if _, err := os.Stat(target); err == nil {
			// Already migrated under active/ by a prior (interrupted) run.
			ulog.Info("Legacy session already migrated").Field("name", name).Emit()
			continue
		}

		if err := os.Rename(legacyPath, target); err != nil {
			return Wrap(KindIOFailure, err, "migrating legacy session %q", name)
		}
		ulog.Info("Migrated legacy session layout").Field("name", name).Emit()
	}

	return nil
}
