package capture

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/hypr-sessions/internal/compositor"
	"github.com/grovetools/hypr-sessions/internal/model"
	grovelogging "github.com/grovetools/core/logging"
)

var ulogBrowser = grovelogging.NewUnifiedLogger("hypr-sessions.capture.browser")

// browserClasses maps supported browser window classes to their
// browser_type label.
var browserClasses = map[string]string{
	"firefox":      "firefox",
	"chromium":     "chromium",
	"google-chrome": "chrome",
}

// tabSnapshotPattern is the filename glob the extension writes into
// Downloads.
const tabSnapshotPattern = "hypr-session-tabs-*.json"

// shortcutMods and shortcutKey are the key combination dispatched to the
// browser extension to request a tab snapshot.
const shortcutMods = "CTRL ALT"
const shortcutKey = "S"

// browserCaptureTimeout bounds how long we wait for the extension to
// write its snapshot file, on the order of several seconds (spec.md §4.8).
const browserCaptureTimeout = 5 * time.Second

// tabSnapshot is the on-disk schema written by the browser extension.
type tabSnapshot struct {
	BrowserType string             `json:"browser_type"`
	WindowID    string             `json:"window_id"`
	Tabs        []model.BrowserTab `json:"tabs"`
}

// BrowserHandler triggers the browser extension via a keyboard shortcut
// and consumes the JSON tab snapshot it writes to Downloads.
type BrowserHandler struct {
	client *compositor.Client
}

// NewBrowserHandler returns a BrowserHandler with its own compositor
// client (dispatch is stateless and cheap to re-create).
func NewBrowserHandler() *BrowserHandler {
	return &BrowserHandler{client: compositor.NewClient()}
}

// Matches reports whether class is a supported browser.
func (b *BrowserHandler) Matches(class string) bool {
	_, ok := browserClasses[class]
	return ok
}

// Capture snapshots Downloads, dispatches the capture shortcut to this
// specific window (without changing focus), and waits for a matching new
// file. On any failure the window record is still returned without a
// browser session, and the caller surfaces a warning.
func (b *BrowserHandler) Capture(ctx context.Context, win compositor.Window, sessionDir string) (*model.WindowRecord, error) {
	rec := &model.WindowRecord{
		Class:    win.Class,
		Title:    win.Title,
		PID:      win.PID,
		Position: model.Position{X: win.Position.X, Y: win.Position.Y},
		Size:     model.Size{Width: win.Size.Width, Height: win.Size.Height},
	}

	downloads, err := downloadsDir()
	if err != nil {
		return rec, err
	}

	triggerTime := time.Now()
	before, err := existingSnapshots(downloads)
	if err != nil {
		return rec, err
	}

	if err := b.client.DispatchSendShortcut(ctx, shortcutMods, shortcutKey, win.Address); err != nil {
		return rec, err
	}

	path, err := waitForNewSnapshot(downloads, before, triggerTime, browserCaptureTimeout)
	if err != nil {
		return rec, err
	}
	if path == "" {
		return rec, errNoSnapshot
	}

	snap, err := parseSnapshot(path)
	if err != nil {
		return rec, err
	}

	if err := os.Remove(path); err != nil {
		ulogBrowser.Info("Failed to delete consumed tab snapshot").
			Field("path", path).
			Field("error", err.Error()).
			Emit()
	}

	rec.BrowserSession = &model.BrowserSession{
		BrowserType:   snap.BrowserType,
		CaptureMethod: model.KeyboardShortcut,
		TabCount:      len(snap.Tabs),
		WindowID:      snap.WindowID,
		Tabs:          snap.Tabs,
	}
	return rec, nil
}

var errNoSnapshot = &snapshotError{"no tab snapshot appeared before the capture deadline"}

type snapshotError struct{ msg string }

func (e *snapshotError) Error() string { return e.msg }

func downloadsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Downloads"), nil
}

func existingSnapshots(dir string) (map[string]bool, error) {
	matches, err := filepath.Glob(filepath.Join(dir, tabSnapshotPattern))
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(matches))
	for _, m := range matches {
		set[m] = true
	}
	return set, nil
}

// waitForNewSnapshot watches dir for a file matching the extension's
// pattern whose mtime is newer than triggerTime — restricting consumption
// this way, per spec.md §9, is the minimum needed to avoid racing a
// concurrent save's own trigger.
func waitForNewSnapshot(dir string, before map[string]bool, triggerTime time.Time, timeout time.Duration) (string, error) {
	if path := findNewSnapshot(dir, before, triggerTime); path != "" {
		return path, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return pollForNewSnapshot(dir, before, triggerTime, timeout), nil
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return pollForNewSnapshot(dir, before, triggerTime, timeout), nil
	}

	deadline := time.After(timeout)
	for {
		select {
		case <-watcher.Events:
			if path := findNewSnapshot(dir, before, triggerTime); path != "" {
				return path, nil
			}
		case <-watcher.Errors:
			continue
		case <-deadline:
			return findNewSnapshot(dir, before, triggerTime), nil
		}
	}
}

func pollForNewSnapshot(dir string, before map[string]bool, triggerTime time.Time, timeout time.Duration) string {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if path := findNewSnapshot(dir, before, triggerTime); path != "" {
			return path
		}
		time.Sleep(150 * time.Millisecond)
	}
	return findNewSnapshot(dir, before, triggerTime)
}

func findNewSnapshot(dir string, before map[string]bool, triggerTime time.Time) string {
	matches, err := filepath.Glob(filepath.Join(dir, tabSnapshotPattern))
	if err != nil {
		return ""
	}
	for _, m := range matches {
		if before[m] {
			continue
		}
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if info.ModTime().After(triggerTime) {
			return m
		}
	}
	return ""
}

func parseSnapshot(path string) (*tabSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap tabSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
