// Package health implements the interrupted-operation detection and
// aggregate health check described in spec.md §4.14: directory
// accessibility, configuration bounds, and recovery markers left behind
// by a crashed or killed recover operation.
package health

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/hypr-sessions/internal/config"
	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/grovetools/hypr-sessions/internal/result"
	"github.com/grovetools/hypr-sessions/internal/store"
)

const markerPrefix = ".recovery-in-progress-"
const markerSuffix = ".tmp"

// InterruptedRecovery pairs a marker's filesystem location with the
// marker payload it describes.
type InterruptedRecovery struct {
	MarkerPath string               `json:"marker_path"`
	Marker     model.RecoveryMarker `json:"marker"`
}

// Checker runs health diagnostics against one store.
type Checker struct {
	Store *store.Store
}

// NewChecker wires a Checker.
func NewChecker(st *store.Store) *Checker {
	return &Checker{Store: st}
}

// ListInterruptedRecoveries scans active/ for leftover recovery marker
// files, each signaling a recover operation that did not complete.
func (c *Checker) ListInterruptedRecoveries() ([]InterruptedRecovery, error) {
	entries, err := os.ReadDir(c.Store.Paths.Active)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, store.Wrap(store.KindIOFailure, err, "listing %s", c.Store.Paths.Active)
	}

	var found []InterruptedRecovery
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, markerPrefix) || !strings.HasSuffix(name, markerSuffix) {
			continue
		}
		path := filepath.Join(c.Store.Paths.Active, name)
		marker, err := MarkerInfo(path)
		if err != nil {
			found = append(found, InterruptedRecovery{MarkerPath: path})
			continue
		}
		found = append(found, InterruptedRecovery{MarkerPath: path, Marker: *marker})
	}
	return found, nil
}

// MarkerInfo reads and parses a recovery marker file.
func MarkerInfo(path string) (*model.RecoveryMarker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, store.Wrap(store.KindIOFailure, err, "reading marker %s", path)
	}
	var marker model.RecoveryMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		return nil, store.Wrap(store.KindCorrupt, err, "parsing marker %s", path)
	}
	return &marker, nil
}

// CleanupInterruptedRecovery removes a stale marker file. The archived
// session it names is left untouched — whether the move completed or
// not, the archived copy (if still present) and the active copy (if the
// move landed) are both valid states; only the marker itself is garbage
// once an operator has confirmed which.
func (c *Checker) CleanupInterruptedRecovery(markerPath string) error {
	if err := os.Remove(markerPath); err != nil && !os.IsNotExist(err) {
		return store.Wrap(store.KindIOFailure, err, "removing marker %s", markerPath)
	}
	return nil
}

// checkDirAccessible verifies dir exists and is both readable and
// writable, per spec.md §4.14. A bare os.Stat only proves the inode is
// there; it misses the common case of a directory owned by another user
// or mounted read-only, where the later save/archive/recover operations
// that actually write into it would fail. It probes by creating, reading
// back and removing a throwaway file.
func checkDirAccessible(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%q exists but is not a directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".health-check-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	path := probe.Name()
	probe.Close()
	defer os.Remove(path)

	if _, err := os.ReadFile(path); err != nil {
		return fmt.Errorf("not readable: %w", err)
	}
	return nil
}

// Check runs the aggregate health check: directory accessibility,
// config bounds, and interrupted recoveries.
func (c *Checker) Check(cfg config.Config, warnings []config.Warning) *result.Result {
	res := result.New("health")

	dirIssues := 0
	for _, label := range []string{"root", "active", "archived"} {
		dir := map[string]string{
			"root":     c.Store.Paths.Root,
			"active":   c.Store.Paths.Active,
			"archived": c.Store.Paths.Archived,
		}[label]
		if err := checkDirAccessible(dir); err != nil {
			res.Warnf("%s directory %q is not accessible: %v", label, dir, err)
			dirIssues++
		}
	}

	for _, w := range warnings {
		res.Warnf("configuration: ignoring %s=%q: %s", w.Variable, w.Value, w.Reason)
	}

	interrupted, err := c.ListInterruptedRecoveries()
	if err != nil {
		res.Warnf("could not scan for interrupted recoveries: %v", err)
	}
	markerPaths := make([]string, 0, len(interrupted))
	for _, ir := range interrupted {
		res.Warnf("interrupted recovery found: %s", ir.MarkerPath)
		markerPaths = append(markerPaths, ir.MarkerPath)
	}

	cleanupLockPath := filepath.Join(c.Store.Paths.Archived, ".archive-cleanup.lock")
	cleanupLockHeld := false
	if _, err := os.Stat(cleanupLockPath); err == nil {
		cleanupLockHeld = true
	}

	if dirIssues == 0 && len(interrupted) == 0 {
		res.Successf("store is healthy")
	} else {
		res.Successf("store checked, %d issue(s) reported as warnings", dirIssues+len(interrupted))
	}

	return res.SetData(map[string]interface{}{
		"directories_ok":       dirIssues == 0,
		"interrupted_recovery": markerPaths,
		"cleanup_lock_held":    cleanupLockHeld,
		"archive_enabled":      cfg.ArchiveEnabled,
		"archive_max_sessions": cfg.ArchiveMaxSessions,
	})
}
