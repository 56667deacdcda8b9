package capture

import (
	"testing"

	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildLaunchCommandGenericClass(t *testing.T) {
	rec := model.WindowRecord{Class: "firefox"}
	assert.Equal(t, "firefox", BuildLaunchCommand(rec))
}

func TestBuildLaunchCommandTerminalBare(t *testing.T) {
	rec := model.WindowRecord{Class: "kitty", WorkingDirectory: "/home/user/project"}
	got := BuildLaunchCommand(rec)
	assert.Equal(t, "kitty -d /home/user/project", got)
}

func TestBuildLaunchCommandTerminalWithRunningProgram(t *testing.T) {
	rec := model.WindowRecord{
		Class:            "kitty",
		WorkingDirectory: "/home/user/project",
		RunningProgram:   &model.RunningProgram{Name: "vim", FullCommand: "vim main.go"},
	}
	got := BuildLaunchCommand(rec)
	assert.Contains(t, got, "kitty -d /home/user/project -e sh -c")
	assert.Contains(t, got, "vim main.go; exec $SHELL")
}

func TestBuildLaunchCommandTerminalWithShellCommand(t *testing.T) {
	rec := model.WindowRecord{
		Class:          "kitty",
		RunningProgram: &model.RunningProgram{Name: "npm", FullCommand: "npm run dev", ShellCommand: "npm run dev"},
	}
	got := BuildLaunchCommand(rec)
	assert.Contains(t, got, `sh -c 'trap '"'"'echo Program interrupted'"'"' INT; npm run dev; exec $SHELL'`)
}

func TestBuildLaunchCommandEditorWithSessionFile(t *testing.T) {
	rec := model.WindowRecord{
		Class:          "neovide",
		NeovideSession: &model.NeovideSession{WorkingDirectory: "/proj", SessionFile: "neovide-session-123.vim"},
	}
	got := BuildLaunchCommand(rec)
	assert.Equal(t, "neovide -- -S neovide-session-123.vim", got)
}

func TestBuildLaunchCommandEditorWithoutSessionFile(t *testing.T) {
	rec := model.WindowRecord{
		Class:          "neovide",
		NeovideSession: &model.NeovideSession{WorkingDirectory: "/proj"},
	}
	got := BuildLaunchCommand(rec)
	assert.Equal(t, "neovide /proj", got)
}

func TestBuildLaunchCommandBrowserTabs(t *testing.T) {
	rec := model.WindowRecord{
		Class: "firefox",
		BrowserSession: &model.BrowserSession{
			Tabs: []model.BrowserTab{
				{URL: "https://example.com"},
			},
		},
	}
	got := BuildLaunchCommand(rec)
	assert.Equal(t, "firefox https://example.com", got)
}

func TestBuildLaunchCommandBrowserMultipleTabs(t *testing.T) {
	rec := model.WindowRecord{
		Class: "firefox",
		BrowserSession: &model.BrowserSession{
			Tabs: []model.BrowserTab{
				{URL: "https://a.example.com"},
				{URL: "https://b.example.com"},
			},
		},
	}
	got := BuildLaunchCommand(rec)
	assert.Contains(t, got, "https://a.example.com")
	assert.Contains(t, got, "https://b.example.com")
}
