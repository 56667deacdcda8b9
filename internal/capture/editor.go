package capture

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/hypr-sessions/internal/compositor"
	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/grovetools/hypr-sessions/internal/process"
	grovelogging "github.com/grovetools/core/logging"
)

var ulogEditor = grovelogging.NewUnifiedLogger("hypr-sessions.capture.editor")

// editorClass is the window class identifying the Neovide editor.
const editorClass = "neovide"

// socketWaitTimeout bounds the nvim remote-IPC round trip; bounded in the
// order of 10 seconds so the pipeline never blocks indefinitely (spec.md §4.7).
const socketWaitTimeout = 10 * time.Second

// sessionFileWaitTimeout bounds how long we wait for the requested
// session file to appear, on the order of 3 seconds (spec.md §4.7).
const sessionFileWaitTimeout = 3 * time.Second

// EditorHandler captures a Neovide window's working directory and,
// opportunistically, a Neovim session file via the nvim remote-control
// socket.
type EditorHandler struct {
	introspector *process.Introspector
}

// NewEditorHandler returns an EditorHandler.
func NewEditorHandler() *EditorHandler {
	return &EditorHandler{introspector: process.NewIntrospector()}
}

// Matches reports whether class is the Neovide editor identifier.
func (e *EditorHandler) Matches(class string) bool {
	return class == editorClass
}

// Capture tries, in priority order: discover a control socket for the
// pid, request a session-file write over it, and wait for the file to
// appear. On any failure it still records the working directory alone.
func (e *EditorHandler) Capture(ctx context.Context, win compositor.Window, sessionDir string) (*model.WindowRecord, error) {
	rec := &model.WindowRecord{
		Class:    win.Class,
		Title:    win.Title,
		PID:      win.PID,
		Position: model.Position{X: win.Position.X, Y: win.Position.Y},
		Size:     model.Size{Width: win.Size.Width, Height: win.Size.Height},
	}

	wd := e.introspector.WorkingDirectory(int32(win.PID))
	rec.WorkingDirectory = wd

	socket := e.discoverSocket(win.PID)
	if socket == "" {
		rec.NeovideSession = &model.NeovideSession{WorkingDirectory: wd}
		return rec, nil
	}

	sessionFile := "neovide-session-" + strconv.Itoa(win.PID) + ".vim"
	sessionPath := filepath.Join(sessionDir, sessionFile)

	if err := e.requestWriteSession(socket, sessionPath); err != nil {
		ulogEditor.Info("Neovide remote write-session request failed").
			Field("pid", win.PID).
			Field("error", err.Error()).
			Emit()
		rec.NeovideSession = &model.NeovideSession{WorkingDirectory: wd}
		return rec, nil
	}

	if e.waitForFile(sessionPath, sessionFileWaitTimeout) {
		rec.NeovideSession = &model.NeovideSession{WorkingDirectory: wd, SessionFile: sessionFile}
	} else {
		ulogEditor.Info("Timed out waiting for Neovide session file").
			Field("pid", win.PID).
			Field("path", sessionPath).
			Emit()
		rec.NeovideSession = &model.NeovideSession{WorkingDirectory: wd}
	}

	return rec, nil
}

// discoverSocket looks in $XDG_RUNTIME_DIR (the system temp directory when
// unset) for an nvim control socket named after the pid or one of its
// direct children. Failing that, it returns the first socket matching
// nvim.* in that directory, which need not belong to this editor instance.
func (e *EditorHandler) discoverSocket(pid int) string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = filepath.Join(os.TempDir())
	}

	candidates := []string{
		filepath.Join(runtimeDir, "nvim."+strconv.Itoa(pid)+".0"),
	}

	pids := append([]int32{int32(pid)}, e.introspector.Children(int32(pid))...)
	for _, p := range pids {
		candidates = append(candidates,
			filepath.Join(runtimeDir, "nvim."+strconv.Itoa(int(p))+".0"),
			filepath.Join(runtimeDir, "nvim", strconv.Itoa(int(p)), "0"),
		)
	}

	matches, _ := filepath.Glob(filepath.Join(runtimeDir, "nvim.*"))
	candidates = append(candidates, matches...)

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.Mode()&os.ModeSocket != 0 {
			return c
		}
	}
	return ""
}

// requestWriteSession asks the nvim instance listening on socket to write
// its session to path, using the nvim binary itself as an RPC client
// (equivalent to `nvim --server <socket> --remote-send`).
func (e *EditorHandler) requestWriteSession(socket, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), socketWaitTimeout)
	defer cancel()

	cmd := quotedSessionCommand(path)
	c := exec.CommandContext(ctx, "nvim", "--server", socket, "--remote-send", cmd)
	return c.Run()
}

func quotedSessionCommand(path string) string {
	return ":mksession! " + path + "\r"
}

// waitForFile blocks until path exists or timeout elapses, using fsnotify
// to watch the parent directory rather than busy-polling.
func (e *EditorHandler) waitForFile(path string, timeout time.Duration) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return e.pollForFile(path, timeout)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return e.pollForFile(path, timeout)
	}

	deadline := time.After(timeout)
	for {
		select {
		case event := <-watcher.Events:
			if event.Name == path {
				if _, err := os.Stat(path); err == nil {
					return true
				}
			}
		case <-watcher.Errors:
			continue
		case <-deadline:
			_, err := os.Stat(path)
			return err == nil
		}
	}
}

func (e *EditorHandler) pollForFile(path string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	_, err := os.Stat(path)
	return err == nil
}
