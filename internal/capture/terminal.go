package capture

import (
	"context"

	"github.com/grovetools/hypr-sessions/internal/compositor"
	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/grovetools/hypr-sessions/internal/process"
)

// terminalClasses is the supported set of terminal emulator window
// classes. Extensible: add entries here as more emulators are supported
// (spec.md §4.6).
var terminalClasses = map[string]bool{
	"kitty": true,
}

// TerminalHandler captures a terminal's working directory and, if the
// shell has an interesting foreground descendant, its running program.
type TerminalHandler struct {
	introspector *process.Introspector
}

// NewTerminalHandler returns a TerminalHandler backed by introspector.
func NewTerminalHandler(introspector *process.Introspector) *TerminalHandler {
	return &TerminalHandler{introspector: introspector}
}

// Matches reports whether class is a supported terminal emulator.
func (t *TerminalHandler) Matches(class string) bool {
	return terminalClasses[class]
}

// Capture takes the terminal PID's first direct child as its shell (the
// terminal PID itself when it has no children), records that process's
// working directory, and if it has a non-shell descendant, records it as
// the running program. Nested shells below that first child are not
// searched for a deeper shell.
func (t *TerminalHandler) Capture(ctx context.Context, win compositor.Window, sessionDir string) (*model.WindowRecord, error) {
	rec := &model.WindowRecord{
		Class:    win.Class,
		Title:    win.Title,
		PID:      win.PID,
		Position: model.Position{X: win.Position.X, Y: win.Position.Y},
		Size:     model.Size{Width: win.Size.Width, Height: win.Size.Height},
	}

	shellPID := t.findShellChild(win.PID)
	if shellPID == 0 {
		shellPID = int32(win.PID)
	}

	rec.WorkingDirectory = t.introspector.WorkingDirectory(shellPID)

	if rp := t.introspector.RunningProgramFor(shellPID); rp != nil {
		rec.RunningProgram = &model.RunningProgram{
			Name:         rp.Name,
			Args:         rp.Args,
			FullCommand:  rp.FullCommand,
			ShellCommand: rp.ShellCommand,
		}
	}

	return rec, nil
}

// findShellChild returns the first direct child of the terminal PID,
// which is conventionally the login shell hosted inside it. Returns 0 if
// the terminal PID has no children (already disappeared, or the terminal
// itself is the shell).
func (t *TerminalHandler) findShellChild(terminalPID int) int32 {
	kids := t.introspector.Children(int32(terminalPID))
	if len(kids) == 0 {
		return 0
	}
	return kids[0]
}
