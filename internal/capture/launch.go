package capture

import (
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/grovetools/hypr-sessions/internal/model"
)

// classToExecutable maps known application classes to their canonical
// executable name; unknown classes fall back to the class string itself
// (spec.md §4.9).
var classToExecutable = map[string]string{
	"kitty":         "kitty",
	"neovide":       "neovide",
	"firefox":       "firefox",
	"chromium":      "chromium",
	"google-chrome": "google-chrome-stable",
}

// BuildLaunchCommand is a pure function from a WindowRecord to the shell
// command string the restorer will dispatch via `hyprctl dispatch exec`.
// It never invokes a shell itself; all paths and URLs are shell-quoted.
func BuildLaunchCommand(rec model.WindowRecord) string {
	executable := classToExecutable[rec.Class]
	if executable == "" {
		executable = rec.Class
	}

	switch {
	case rec.BrowserSession != nil && len(rec.BrowserSession.Tabs) > 0:
		return buildBrowserCommand(executable, rec.BrowserSession)
	case rec.NeovideSession != nil:
		return buildEditorCommand(executable, rec.NeovideSession)
	case terminalClasses[rec.Class]:
		return buildTerminalCommand(executable, rec)
	default:
		return executable
	}
}

// buildTerminalCommand wraps the foreground program (if any) in a shell
// that keeps the terminal open after the program exits, per spec.md §4.9:
// a direct program P becomes `sh -c 'P; exec $SHELL'`, a shell command C
// becomes `sh -c 'trap ... INT; C; exec $SHELL'`. The wrapper script is
// passed through shellescape.Quote, so single quotes inside it appear as
// '"'"' in the returned string.
func buildTerminalCommand(executable string, rec model.WindowRecord) string {
	var inner string
	switch {
	case rec.RunningProgram != nil && rec.RunningProgram.ShellCommand != "":
		inner = "trap 'echo Program interrupted' INT; " + rec.RunningProgram.ShellCommand + "; exec $SHELL"
	case rec.RunningProgram != nil && rec.RunningProgram.FullCommand != "":
		inner = rec.RunningProgram.FullCommand + "; exec $SHELL"
	default:
		return terminalBareCommand(executable, rec.WorkingDirectory)
	}

	shWrapped := "sh -c " + shellescape.Quote(inner)
	args := []string{executable}
	if rec.WorkingDirectory != "" {
		args = append(args, "-d", shellescape.Quote(rec.WorkingDirectory))
	}
	args = append(args, "-e", shWrapped)
	return strings.Join(args, " ")
}

func terminalBareCommand(executable, workingDirectory string) string {
	if workingDirectory == "" {
		return executable
	}
	return executable + " -d " + shellescape.Quote(workingDirectory)
}

// buildEditorCommand opens a written session file when one exists,
// otherwise falls back to opening the working directory.
func buildEditorCommand(executable string, nv *model.NeovideSession) string {
	if nv.SessionFile != "" {
		return executable + " -- -S " + shellescape.Quote(nv.SessionFile)
	}
	if nv.WorkingDirectory != "" {
		return executable + " " + shellescape.Quote(nv.WorkingDirectory)
	}
	return executable
}

// buildBrowserCommand launches the browser binary with each captured tab
// URL, shell-quoted, as a separate argument.
func buildBrowserCommand(executable string, bs *model.BrowserSession) string {
	args := []string{executable}
	for _, tab := range bs.Tabs {
		args = append(args, shellescape.Quote(tab.URL))
	}
	return strings.Join(args, " ")
}
