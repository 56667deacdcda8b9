package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withHOME points $HOME (and the Windows USERPROFILE gopsutil/os.UserHomeDir
// also consults) at a fresh temp dir so config.yaml discovery is isolated
// per test rather than touching the real user config.
func withHOME(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	return home
}

func writeConfigYAML(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".config", "hypr-sessions")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.ArchiveEnabled)
	assert.Equal(t, 20, cfg.ArchiveMaxSessions)
	assert.True(t, cfg.ArchiveAutoCleanup)
	assert.Equal(t, OldestFirst, cfg.ArchiveCleanupStrategy)
	assert.InDelta(t, 0.4, cfg.DelayBetweenInstructions, 0.0001)
}

func TestLoadValidOverrides(t *testing.T) {
	withHOME(t)
	t.Setenv("ARCHIVE_ENABLED", "false")
	t.Setenv("ARCHIVE_MAX_SESSIONS", "5")
	t.Setenv("ARCHIVE_AUTO_CLEANUP", "false")
	t.Setenv("DELAY_BETWEEN_INSTRUCTIONS", "1.5")

	cfg, warnings := Load()
	assert.Empty(t, warnings)
	assert.False(t, cfg.ArchiveEnabled)
	assert.Equal(t, 5, cfg.ArchiveMaxSessions)
	assert.False(t, cfg.ArchiveAutoCleanup)
	assert.InDelta(t, 1.5, cfg.DelayBetweenInstructions, 0.0001)
}

func TestLoadOutOfRangeFallsBackToDefault(t *testing.T) {
	withHOME(t)
	t.Setenv("ARCHIVE_MAX_SESSIONS", "5000")
	t.Setenv("DELAY_BETWEEN_INSTRUCTIONS", "-1")

	cfg, warnings := Load()
	assert.Len(t, warnings, 2)
	assert.Equal(t, 20, cfg.ArchiveMaxSessions)
	assert.InDelta(t, 0.4, cfg.DelayBetweenInstructions, 0.0001)
}

func TestLoadUnparsableFallsBackToDefault(t *testing.T) {
	withHOME(t)
	t.Setenv("ARCHIVE_ENABLED", "not-a-bool")
	t.Setenv("ARCHIVE_MAX_SESSIONS", "not-an-int")

	cfg, warnings := Load()
	assert.Len(t, warnings, 2)
	assert.True(t, cfg.ArchiveEnabled)
	assert.Equal(t, 20, cfg.ArchiveMaxSessions)
}

func TestResolvePathsRespectsRootOverride(t *testing.T) {
	t.Setenv("HYPR_SESSIONS_ROOT", "/tmp/hypr-sessions-test-root")

	paths, err := ResolvePaths()
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/hypr-sessions-test-root", paths.Root)
	assert.Equal(t, "/tmp/hypr-sessions-test-root/active", paths.Active)
	assert.Equal(t, "/tmp/hypr-sessions-test-root/archived", paths.Archived)
}

func TestLoadWithNoConfigFileUsesDefaults(t *testing.T) {
	withHOME(t)

	cfg, warnings := Load()
	assert.Empty(t, warnings)
	assert.Equal(t, Default(), cfg)
}

func TestLoadAppliesYAMLOverrides(t *testing.T) {
	home := withHOME(t)
	writeConfigYAML(t, home, `
archive_enabled: false
archive_max_sessions: 7
archive_auto_cleanup: false
archive_cleanup_strategy: oldest_first
delay_between_instructions: 2.5
`)

	cfg, warnings := Load()
	assert.Empty(t, warnings)
	assert.False(t, cfg.ArchiveEnabled)
	assert.Equal(t, 7, cfg.ArchiveMaxSessions)
	assert.False(t, cfg.ArchiveAutoCleanup)
	assert.InDelta(t, 2.5, cfg.DelayBetweenInstructions, 0.0001)
}

func TestLoadEnvOverridesWinOverYAML(t *testing.T) {
	home := withHOME(t)
	writeConfigYAML(t, home, "archive_max_sessions: 7\n")
	t.Setenv("ARCHIVE_MAX_SESSIONS", "3")

	cfg, warnings := Load()
	assert.Empty(t, warnings)
	assert.Equal(t, 3, cfg.ArchiveMaxSessions)
}

func TestLoadYAMLOutOfRangeFallsBackToDefault(t *testing.T) {
	home := withHOME(t)
	writeConfigYAML(t, home, "archive_max_sessions: 5000\n")

	cfg, warnings := Load()
	assert.Len(t, warnings, 1)
	assert.Equal(t, 20, cfg.ArchiveMaxSessions)
}

func TestLoadUnparsableYAMLFallsBackToDefaultWithWarning(t *testing.T) {
	home := withHOME(t)
	writeConfigYAML(t, home, "archive_max_sessions: [this, is, not, an, int]\n")

	cfg, warnings := Load()
	assert.Len(t, warnings, 1)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLMissingFileIsNotAWarning(t *testing.T) {
	withHOME(t)

	_, warnings := loadYAMLOverrides(configFilePath())
	assert.Empty(t, warnings)
}
