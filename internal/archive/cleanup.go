package archive

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/grovetools/hypr-sessions/internal/result"
	"github.com/grovetools/hypr-sessions/internal/store"
)

// cleanupLockName is the advisory lock guarding archive-wide cleanup so
// two concurrent archive operations don't both prune the same surplus
// (spec.md §4.12.1).
const cleanupLockName = ".archive-cleanup.lock"

// archivedEntry is one archived directory considered for cleanup, carrying
// the archive_timestamp (primary sort key) and directory mtime (tiebreak)
// read from its metadata.
type archivedEntry struct {
	name      string
	timestamp time.Time
	modTime   int64
}

// runCleanup enforces ArchiveMaxSessions by removing the oldest archived
// sessions first, ordered by archive_timestamp with mtime and name as
// tiebreaks (spec.md §4.12.1). It never fails the caller's Result; lock
// conflicts and per-entry errors degrade to warnings, matching "skip with
// a warning rather than block". Entries whose metadata is missing or
// unreadable are excluded from this pass entirely and are never deleted
// by it; no other code path in this package deletes them either.
func (a *Archiver) runCleanup(res *result.Result) {
	lock, err := store.TryAcquireLock(a.Store.Paths.Archived, cleanupLockName)
	if err != nil {
		res.Warnf("cleanup skipped: %v", err)
		return
	}
	if lock == nil {
		res.Warnf("cleanup skipped: another cleanup is already in progress")
		return
	}
	defer lock.Release()

	entries, err := a.Store.ListArchived()
	if err != nil {
		res.Warnf("cleanup skipped: listing archived sessions: %v", err)
		return
	}
	if len(entries) <= a.Config.ArchiveMaxSessions {
		return
	}

	dated := make([]archivedEntry, 0, len(entries))
	for _, name := range entries {
		dir := filepath.Join(a.Store.Paths.Archived, name)
		info, err := os.Stat(dir)
		if err != nil {
			res.Warnf("cleanup: skipping %q, could not stat: %v", name, err)
			continue
		}

		meta, err := readArchiveMetadata(dir)
		if err != nil {
			res.Warnf("cleanup: excluding %q from this pass, metadata unreadable: %v", name, err)
			continue
		}
		ts, err := time.Parse(timestampLayout, meta.ArchiveTimestamp)
		if err != nil {
			res.Warnf("cleanup: excluding %q from this pass, archive_timestamp unparsable: %v", name, err)
			continue
		}

		dated = append(dated, archivedEntry{name: name, timestamp: ts, modTime: info.ModTime().Unix()})
	}

	sort.Slice(dated, func(i, j int) bool {
		if !dated[i].timestamp.Equal(dated[j].timestamp) {
			return dated[i].timestamp.Before(dated[j].timestamp)
		}
		if dated[i].modTime != dated[j].modTime {
			return dated[i].modTime < dated[j].modTime
		}
		return dated[i].name < dated[j].name
	})

	surplus := len(entries) - a.Config.ArchiveMaxSessions
	if surplus > len(dated) {
		surplus = len(dated)
	}
	if surplus <= 0 {
		return
	}

	removed := 0
	for i := 0; i < surplus; i++ {
		target := filepath.Join(a.Store.Paths.Archived, dated[i].name)
		if err := os.RemoveAll(target); err != nil {
			res.Warnf("cleanup: failed to remove %q: %v", dated[i].name, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		res.Successf("cleanup removed %d surplus archived session(s)", removed)
	}
}

func readArchiveMetadata(dir string) (*model.ArchiveMetadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, ".archive-metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta model.ArchiveMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// isCrossDevice reports whether err is the EXDEV errno that os.Rename
// returns when src and dst are not on the same filesystem.
func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		if errno, ok := linkErr.Err.(syscall.Errno); ok {
			return errno == syscall.EXDEV
		}
	}
	return false
}
