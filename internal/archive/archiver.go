// Package archive implements the archive ("delete"), bounded-cleanup,
// and metadata-first recovery protocols (spec.md §4.12–§4.14).
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/hypr-sessions/internal/config"
	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/grovetools/hypr-sessions/internal/result"
	"github.com/grovetools/hypr-sessions/internal/store"
	grovelogging "github.com/grovetools/core/logging"
)

var ulog = grovelogging.NewUnifiedLogger("hypr-sessions.archive")

const timestampLayout = "20060102-150405"

// Archiver moves active sessions into the archive, metadata-first, and
// runs bounded cleanup afterward. The CLI verb is "delete"; the Result's
// Operation field is "archive", reflecting what actually happens
// (spec.md §9).
type Archiver struct {
	Store  *store.Store
	Config config.Config
}

// NewArchiver wires an Archiver.
func NewArchiver(st *store.Store, cfg config.Config) *Archiver {
	return &Archiver{Store: st, Config: cfg}
}

// Archive runs the protocol in spec.md §4.12: validate, compose a unique
// archived name, write metadata before moving, move the directory in one
// operation, and run cleanup if enabled.
func (a *Archiver) Archive(name string) *result.Result {
	res := result.New("archive")

	if !a.Config.ArchiveEnabled {
		return res.Errorf("archiving is disabled")
	}
	if err := store.ValidateSessionName(name); err != nil {
		return res.Errorf("invalid session name: %v", err)
	}
	if err := a.Store.EnsureExistsActive(name); err != nil {
		return res.Errorf("%v", err)
	}

	lock, err := store.AcquireLock(a.Store.Paths.Active, ".lock-"+name)
	if err != nil {
		return res.Errorf("%v", err)
	}
	defer lock.Release()

	sourceDir := filepath.Join(a.Store.Paths.Active, name)
	archivedName, timestamp := a.uniqueArchivedName(name)
	destDir := filepath.Join(a.Store.Paths.Archived, archivedName)

	fileCount, err := countFiles(sourceDir)
	if err != nil {
		return res.Errorf("counting session files: %v", err)
	}

	metadata := model.ArchiveMetadata{
		OriginalName:     name,
		ArchivedName:     archivedName,
		ArchiveTimestamp: timestamp,
		FileCount:        fileCount,
		ArchiveVersion:   model.ArchiveVersion,
	}
	metadataPath := filepath.Join(sourceDir, ".archive-metadata.json")
	metaBytes, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return res.Errorf("encoding archive metadata: %v", err)
	}
	if err := os.WriteFile(metadataPath, metaBytes, 0o644); err != nil {
		return res.Errorf("writing archive metadata: %v", err)
	}

	if err := os.MkdirAll(a.Store.Paths.Archived, 0o755); err != nil {
		os.Remove(metadataPath)
		return res.Errorf("preparing archive directory: %v", err)
	}

	if err := moveDirectory(sourceDir, destDir); err != nil {
		os.Remove(metadataPath)
		return res.Errorf("moving session to archive: %v", err)
	}

	ulog.Info("Archived session").
		Field("original_name", name).
		Field("archived_name", archivedName).
		Emit()
	res.Successf("archived %q as %q", name, archivedName)
	res.SetData(map[string]interface{}{
		"original_name": name,
		"archived_name": archivedName,
	})

	if a.Config.ArchiveAutoCleanup {
		a.runCleanup(res)
	}

	return res
}

// uniqueArchivedName composes {name}-YYYYMMDD-HHMMSS, disambiguating a
// same-second collision with a deterministic "-N" counter suffix first,
// falling back to a uuid suffix only if that counter space is somehow
// exhausted (spec.md §9 Open Question, decided in DESIGN.md).
func (a *Archiver) uniqueArchivedName(name string) (archivedName string, timestamp string) {
	timestamp = time.Now().Format(timestampLayout)
	base := name + "-" + timestamp
	if !a.archivedExists(base) {
		return base, timestamp
	}
	for n := 1; n <= 100; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !a.archivedExists(candidate) {
			return candidate, timestamp
		}
	}
	return base + "-" + uuid.NewString(), timestamp
}

func (a *Archiver) archivedExists(name string) bool {
	_, err := os.Stat(filepath.Join(a.Store.Paths.Archived, name))
	return err == nil
}

func countFiles(dir string) (int, error) {
	count := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
		}
		return nil
	})
	return count, err
}

// moveDirectory renames src to dst, falling back to a recursive
// copy-then-delete when the two paths are on different filesystems
// (EXDEV) — an Open Question in spec.md §9, decided here for simplicity
// and because a single hypr-sessions root is rarely split across mounts.
func moveDirectory(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}
	if err := copyDirectory(src, dst); err != nil {
		os.RemoveAll(dst)
		return err
	}
	return os.RemoveAll(src)
}

func copyDirectory(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode())
	})
}
