package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/grovetools/hypr-sessions/internal/result"
	"github.com/grovetools/hypr-sessions/internal/store"
)

// ActiveSummary describes one active session directory for listing.
type ActiveSummary struct {
	Name        string `json:"name"`
	WindowCount int    `json:"window_count"`
	ModTime     int64  `json:"modified_at"`
}

// ArchivedSummary describes one archived session directory for listing,
// enriched with its metadata when present.
type ArchivedSummary struct {
	ArchivedName     string `json:"archived_name"`
	OriginalName     string `json:"original_name,omitempty"`
	ArchiveTimestamp string `json:"archive_timestamp,omitempty"`
	FileCount        int    `json:"file_count,omitempty"`
}

// Lister enumerates active and archived sessions.
type Lister struct {
	Store *store.Store
}

// NewLister wires a Lister.
func NewLister(st *store.Store) *Lister {
	return &Lister{Store: st}
}

// Scope selects which half of the store List reports on.
type Scope int

const (
	// ScopeActive lists only active sessions (the default).
	ScopeActive Scope = iota
	// ScopeArchived lists only archived sessions.
	ScopeArchived
	// ScopeAll lists both.
	ScopeAll
)

// List returns a Result describing sessions in scope, sorted by name.
func (l *Lister) List(scope Scope) *result.Result {
	res := result.New("list")

	data := map[string]interface{}{}
	activeCount, archivedCount := 0, 0

	if scope == ScopeActive || scope == ScopeAll {
		activeNames, err := l.Store.ListActive()
		if err != nil {
			return res.Errorf("listing active sessions: %v", err)
		}
		sort.Strings(activeNames)
		active := make([]ActiveSummary, 0, len(activeNames))
		for _, name := range activeNames {
			active = append(active, l.summarizeActive(name))
		}
		data["active"] = active
		activeCount = len(active)
	}

	if scope == ScopeArchived || scope == ScopeAll {
		archivedNames, err := l.Store.ListArchived()
		if err != nil {
			return res.Errorf("listing archived sessions: %v", err)
		}
		sort.Strings(archivedNames)
		archived := make([]ArchivedSummary, 0, len(archivedNames))
		for _, name := range archivedNames {
			archived = append(archived, l.summarizeArchived(name))
		}
		data["archived"] = archived
		archivedCount = len(archived)
	}

	switch scope {
	case ScopeActive:
		res.Successf("found %d active session(s)", activeCount)
	case ScopeArchived:
		res.Successf("found %d archived session(s)", archivedCount)
	default:
		res.Successf("found %d active and %d archived session(s)", activeCount, archivedCount)
	}
	return res.SetData(data)
}

func (l *Lister) summarizeActive(name string) ActiveSummary {
	summary := ActiveSummary{Name: name}
	dir := filepath.Join(l.Store.Paths.Active, name)
	if info, err := os.Stat(dir); err == nil {
		summary.ModTime = info.ModTime().Unix()
	}
	data, err := os.ReadFile(l.Store.SessionJSONPath(name))
	if err != nil {
		return summary
	}
	var sess model.Session
	if json.Unmarshal(data, &sess) == nil {
		summary.WindowCount = len(sess.Windows)
	}
	return summary
}

func (l *Lister) summarizeArchived(archivedName string) ArchivedSummary {
	summary := ArchivedSummary{ArchivedName: archivedName}
	data, err := os.ReadFile(filepath.Join(l.Store.Paths.Archived, archivedName, ".archive-metadata.json"))
	if err != nil {
		return summary
	}
	var meta model.ArchiveMetadata
	if json.Unmarshal(data, &meta) == nil {
		summary.OriginalName = meta.OriginalName
		summary.ArchiveTimestamp = meta.ArchiveTimestamp
		summary.FileCount = meta.FileCount
	}
	return summary
}
