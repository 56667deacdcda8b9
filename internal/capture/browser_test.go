package capture

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserHandlerMatches(t *testing.T) {
	b := NewBrowserHandler()
	assert.True(t, b.Matches("firefox"))
	assert.True(t, b.Matches("chromium"))
	assert.False(t, b.Matches("kitty"))
}

func TestExistingSnapshotsListsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hypr-session-tabs-1.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte("{}"), 0o644))

	set, err := existingSnapshots(dir)
	require.NoError(t, err)
	assert.Len(t, set, 1)
	assert.True(t, set[filepath.Join(dir, "hypr-session-tabs-1.json")])
}

func TestFindNewSnapshotSkipsPreExisting(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "hypr-session-tabs-old.json")
	require.NoError(t, os.WriteFile(old, []byte("{}"), 0o644))

	before := map[string]bool{old: true}
	triggerTime := time.Now()

	found := findNewSnapshot(dir, before, triggerTime)
	assert.Empty(t, found)
}

func TestFindNewSnapshotDetectsFreshFile(t *testing.T) {
	dir := t.TempDir()
	triggerTime := time.Now()
	time.Sleep(10 * time.Millisecond)

	fresh := filepath.Join(dir, "hypr-session-tabs-new.json")
	require.NoError(t, os.WriteFile(fresh, []byte("{}"), 0o644))

	found := findNewSnapshot(dir, map[string]bool{}, triggerTime)
	assert.Equal(t, fresh, found)
}

func TestParseSnapshotDecodesTabs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap.json")
	content := `{"browser_type":"firefox","window_id":"w1","tabs":[{"url":"https://example.com"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	snap, err := parseSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, "firefox", snap.BrowserType)
	require.Len(t, snap.Tabs, 1)
	assert.Equal(t, "https://example.com", snap.Tabs[0].URL)
}

func TestParseSnapshotMissingFileErrors(t *testing.T) {
	_, err := parseSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
