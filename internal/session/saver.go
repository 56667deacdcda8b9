// Package session orchestrates the capture and restore pipelines
// (spec.md §4.10–§4.11): enumerating windows, dispatching per-application
// handlers, detecting groups, and writing/loading the session directory.
package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/grovetools/hypr-sessions/internal/capture"
	"github.com/grovetools/hypr-sessions/internal/compositor"
	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/grovetools/hypr-sessions/internal/process"
	"github.com/grovetools/hypr-sessions/internal/result"
	"github.com/grovetools/hypr-sessions/internal/store"
	grovelogging "github.com/grovetools/core/logging"
)

var ulog = grovelogging.NewUnifiedLogger("hypr-sessions.session")

// Saver captures the active workspace into a named session directory.
type Saver struct {
	Store     *store.Store
	Client    *compositor.Client
	Registry  *capture.Registry
}

// NewSaver wires a Saver from its collaborators.
func NewSaver(st *store.Store, client *compositor.Client) *Saver {
	return &Saver{
		Store:    st,
		Client:   client,
		Registry: capture.NewRegistry(process.NewIntrospector()),
	}
}

// Save runs the full capture orchestration for name and returns a Result
// describing the outcome (spec.md §4.10). Individual window capture
// failures degrade to warnings; the whole operation only fails fast on
// validation, lock conflicts, compositor failure, or write failure.
func (sv *Saver) Save(ctx context.Context, name string) *result.Result {
	res := result.New("save")

	if err := store.ValidateSessionName(name); err != nil {
		return res.Errorf("invalid session name: %v", err)
	}

	if err := sv.Store.EnsureDirs(); err != nil {
		return res.Errorf("preparing store directories: %v", err)
	}

	sessionDir := filepath.Join(sv.Store.Paths.Active, name)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return res.Errorf("creating session directory: %v", err)
	}

	tmpMarker := filepath.Join(sessionDir, "session.json.tmp")
	exclusiveFile, err := os.OpenFile(tmpMarker, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return res.Errorf("a save for %q is already in progress", name)
		}
		return res.Errorf("acquiring save lock for %q: %v", name, err)
	}
	defer func() {
		exclusiveFile.Close()
		os.Remove(tmpMarker)
	}()

	windows, err := sv.Client.QueryActiveWorkspaceWindows(ctx)
	if err != nil {
		return res.Errorf("querying compositor: %v", err)
	}

	sessionData := model.Session{Workspace: activeWorkspaceOf(windows)}

	for _, win := range windows {
		handler := sv.Registry.For(win.Class)
		rec, capErr := handler.Capture(ctx, win, sessionDir)
		if capErr != nil {
			res.Warnf("partial capture for window %q (class %s): %v", win.Title, win.Class, capErr)
		}
		if rec == nil {
			rec = &model.WindowRecord{
				Class:    win.Class,
				Title:    win.Title,
				PID:      win.PID,
				Position: model.Position{X: win.Position.X, Y: win.Position.Y},
				Size:     model.Size{Width: win.Size.Width, Height: win.Size.Height},
			}
		}
		rec.LaunchCommand = capture.BuildLaunchCommand(*rec)
		sessionData.Windows = append(sessionData.Windows, *rec)
	}

	sessionData.Groups = detectGroups(windows)
	for _, g := range sessionData.Groups {
		for _, idx := range g.Indices {
			sessionData.Windows[idx].GroupID = g.ID
		}
	}

	data, err := json.MarshalIndent(sessionData, "", "  ")
	if err != nil {
		return res.Errorf("encoding session: %v", err)
	}

	if err := writeAtomic(sv.Store.SessionJSONPath(name), data); err != nil {
		return res.Errorf("writing session.json: %v", err)
	}

	ulog.Info("Saved session").
		Field("name", name).
		Field("window_count", len(sessionData.Windows)).
		Field("group_count", len(sessionData.Groups)).
		Emit()

	res.Successf("saved session %q with %d windows", name, len(sessionData.Windows))
	return res.SetData(map[string]interface{}{
		"name":         name,
		"window_count": len(sessionData.Windows),
		"group_count":  len(sessionData.Groups),
	})
}

// activeWorkspaceOf returns the workspace ID common to the captured
// windows, or 0 if there are none.
func activeWorkspaceOf(windows []compositor.Window) int {
	if len(windows) == 0 {
		return 0
	}
	return windows[0].Workspace.ID
}

// detectGroups partitions windows sharing mutual Grouped membership into
// Group records of window-record indices, preserving session order.
func detectGroups(windows []compositor.Window) []model.Group {
	addressToIndex := make(map[string]int, len(windows))
	for i, w := range windows {
		addressToIndex[w.Address] = i
	}

	visited := make(map[string]bool)
	var groups []model.Group

	for _, w := range windows {
		if len(w.Grouped) == 0 || visited[w.Address] {
			continue
		}
		members := append([]string{w.Address}, w.Grouped...)
		var indices []int
		for _, addr := range members {
			if idx, ok := addressToIndex[addr]; ok && !visited[addr] {
				indices = append(indices, idx)
				visited[addr] = true
			}
		}
		if len(indices) < 2 {
			continue
		}
		sort.Ints(indices)
		groups = append(groups, model.Group{ID: w.Address, Indices: indices})
	}
	return groups
}

// writeAtomic writes data to path via a temp file in the same directory
// followed by rename, so a write failure never leaves a half-written
// session.json (spec.md §4.10).
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
