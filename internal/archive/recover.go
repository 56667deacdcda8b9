package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/grovetools/hypr-sessions/internal/result"
	"github.com/grovetools/hypr-sessions/internal/store"
)

// recoveryMarkerPath returns the path of the marker file that records an
// in-progress recovery of name, per spec.md §3:
// active/.recovery-in-progress-<name>.tmp. Keeping it alongside active/,
// independent of the moved directory, means it survives regardless of
// how far the move got before a crash.
func recoveryMarkerPath(activeDir, name string) string {
	return filepath.Join(activeDir, ".recovery-in-progress-"+name+".tmp")
}

// Recoverer restores an archived session back to active, metadata-first,
// with a recovery marker protecting against a crash mid-move (spec.md
// §4.13).
type Recoverer struct {
	Store *store.Store
}

// NewRecoverer wires a Recoverer.
func NewRecoverer(st *store.Store) *Recoverer {
	return &Recoverer{Store: st}
}

// Recover moves archivedName from archived/ back to active/, under
// targetName if given, or the original name recorded in its archive
// metadata otherwise (falling back to "recovered-session" if neither is
// usable), per spec.md §4.13.
func (rc *Recoverer) Recover(archivedName, targetName string) *result.Result {
	res := result.New("recover")

	if err := rc.Store.EnsureExistsArchived(archivedName); err != nil {
		return res.Errorf("%v", err)
	}

	sourceDir := filepath.Join(rc.Store.Paths.Archived, archivedName)
	name, warning := resolveTargetName(sourceDir, archivedName, targetName)
	if warning != "" {
		res.Warnf("%s", warning)
	}

	if err := store.ValidateSessionName(name); err != nil {
		return res.Errorf("invalid target session name: %v", err)
	}
	if err := rc.Store.EnsureAbsentActive(name); err != nil {
		return res.Errorf("%v", err)
	}

	lock, err := store.AcquireLock(rc.Store.Paths.Archived, ".lock-"+archivedName)
	if err != nil {
		return res.Errorf("%v", err)
	}
	defer lock.Release()

	destDir := filepath.Join(rc.Store.Paths.Active, name)
	fileCount, _ := countFiles(sourceDir)

	marker := model.RecoveryMarker{
		TargetName:        name,
		ArchivedDir:       archivedName,
		RecoveryTimestamp: time.Now().Format(time.RFC3339),
		RecoveryVersion:   model.RecoveryVersion,
		FileCount:         fileCount,
	}
	markerBytes, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return res.Errorf("encoding recovery marker: %v", err)
	}
	if err := os.MkdirAll(rc.Store.Paths.Active, 0o755); err != nil {
		return res.Errorf("preparing active directory: %v", err)
	}
	markerPath := recoveryMarkerPath(rc.Store.Paths.Active, name)
	if err := os.WriteFile(markerPath, markerBytes, 0o644); err != nil {
		return res.Errorf("writing recovery marker: %v", err)
	}

	if err := moveDirectory(sourceDir, destDir); err != nil {
		os.Remove(markerPath)
		return res.Errorf("moving session out of archive: %v", err)
	}

	if err := os.Remove(filepath.Join(destDir, ".archive-metadata.json")); err != nil && !os.IsNotExist(err) {
		res.Warnf("recovered but failed to clean up archive metadata: %v", err)
	}
	if err := os.Remove(markerPath); err != nil {
		res.Warnf("recovered but failed to clean up recovery marker: %v", err)
	}

	res.Successf("recovered %q as active session %q", archivedName, name)
	return res.SetData(map[string]interface{}{
		"archived_name": archivedName,
		"name":          name,
	})
}

// resolveTargetName prefers an explicit targetName, then the
// original_name recorded in the archive's metadata file, then the name
// prefix split from archivedName, then "recovered-session" as a last
// resort (spec.md §9). When metadata is present but unreadable or
// unusable, it returns a non-empty warning describing the degradation
// (spec.md §8 scenario S4) instead of silently falling through.
func resolveTargetName(sourceDir, archivedName, targetName string) (name string, warning string) {
	if targetName != "" {
		return targetName, ""
	}

	metadataPath := filepath.Join(sourceDir, ".archive-metadata.json")
	data, err := os.ReadFile(metadataPath)
	switch {
	case err != nil:
		// No metadata file at all is the ordinary "archive predates
		// metadata" case, not a corruption — no warning.
	default:
		var meta model.ArchiveMetadata
		if unmarshalErr := json.Unmarshal(data, &meta); unmarshalErr != nil {
			warning = fmt.Sprintf("archive metadata for %q is corrupt, falling back to name derived from the archived directory: %v", archivedName, unmarshalErr)
		} else if meta.OriginalName == "" {
			warning = fmt.Sprintf("archive metadata for %q has no original_name, falling back to name derived from the archived directory", archivedName)
		} else if validateErr := store.ValidateSessionName(meta.OriginalName); validateErr != nil {
			warning = fmt.Sprintf("archive metadata for %q names an invalid session name %q, falling back to name derived from the archived directory: %v", archivedName, meta.OriginalName, validateErr)
		} else {
			return meta.OriginalName, ""
		}
	}

	if prefix, _, ok := store.SplitArchivedName(archivedName); ok && store.ValidateSessionName(prefix) == nil {
		return prefix, warning
	}
	return "recovered-session", warning
}
