// Package model defines the on-disk data model for a captured session
// (spec.md §3): windows, groups, and the per-application sub-payloads
// attached to each window record.
package model

// Position is a window's on-screen location. Informational only — the
// restorer never attempts pixel-exact placement (spec.md §1 Non-goals).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window's dimensions. Informational only.
type Size struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// RunningProgram is the foreground command inside a terminal, distinct
// from the terminal's own shell. Absent when the foreground is only a
// shell.
type RunningProgram struct {
	Name         string   `json:"name"`
	Args         []string `json:"args"`
	FullCommand  string   `json:"full_command"`
	ShellCommand string   `json:"shell_command,omitempty"`
}

// NeovideSession captures an editor's working directory and, when a
// remote write-session request succeeded, the relative path of the
// written session file.
type NeovideSession struct {
	WorkingDirectory string `json:"working_directory"`
	SessionFile      string `json:"session_file,omitempty"`
}

// BrowserTab is one captured tab.
type BrowserTab struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Active   bool   `json:"active"`
	Pinned   bool   `json:"pinned"`
	Index    int    `json:"index"`
	WindowID string `json:"windowId"`
	Entries  []string `json:"entries,omitempty"`
}

// CaptureMethod enumerates how a BrowserSession was captured. Only
// keyboard_shortcut is implemented.
type CaptureMethod string

// KeyboardShortcut is the sole supported browser capture method.
const KeyboardShortcut CaptureMethod = "keyboard_shortcut"

// BrowserSession is the tab snapshot captured from a browser window.
type BrowserSession struct {
	BrowserType   string        `json:"browser_type"`
	CaptureMethod CaptureMethod `json:"capture_method"`
	TabCount      int           `json:"tab_count"`
	WindowID      string        `json:"window_id"`
	Tabs          []BrowserTab  `json:"tabs"`
}

// WindowRecord is one captured window, always produced even when its
// application-specific capture degrades (spec.md §4.10).
type WindowRecord struct {
	Class           string          `json:"class"`
	Title           string          `json:"title"`
	PID             int             `json:"pid"`
	Position        Position        `json:"position"`
	Size            Size            `json:"size"`
	LaunchCommand   string          `json:"launch_command"`
	WorkingDirectory string         `json:"working_directory,omitempty"`
	RunningProgram  *RunningProgram `json:"running_program,omitempty"`
	NeovideSession  *NeovideSession `json:"neovide_session,omitempty"`
	BrowserSession  *BrowserSession `json:"browser_session,omitempty"`
	GroupID         string          `json:"group_id,omitempty"`
}

// Group is an ordered set of window-record indices that must be launched
// together as a Hyprland group.
type Group struct {
	ID      string `json:"id"`
	Indices []int  `json:"indices"`
}

// Session is the full persisted capture of a workspace: windows in
// compositor enumeration order, their group memberships, and the
// workspace number they were captured from.
type Session struct {
	Windows   []WindowRecord `json:"windows"`
	Groups    []Group        `json:"groups"`
	Workspace int            `json:"workspace"`
}
