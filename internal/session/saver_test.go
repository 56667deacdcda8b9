package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/hypr-sessions/internal/compositor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveWorkspaceOfEmpty(t *testing.T) {
	assert.Equal(t, 0, activeWorkspaceOf(nil))
}

func TestActiveWorkspaceOfUsesFirstWindow(t *testing.T) {
	windows := []compositor.Window{
		{Address: "0x1", Workspace: compositor.WorkspaceRef{ID: 3}},
		{Address: "0x2", Workspace: compositor.WorkspaceRef{ID: 3}},
	}
	assert.Equal(t, 3, activeWorkspaceOf(windows))
}

func TestDetectGroupsPairsMutualMembership(t *testing.T) {
	windows := []compositor.Window{
		{Address: "0x1", Grouped: []string{"0x2"}},
		{Address: "0x2", Grouped: []string{"0x1"}},
		{Address: "0x3"},
	}
	groups := detectGroups(windows)
	require.Len(t, groups, 1)
	assert.ElementsMatch(t, []int{0, 1}, groups[0].Indices)
}

func TestDetectGroupsIgnoresSingletons(t *testing.T) {
	windows := []compositor.Window{
		{Address: "0x1"},
		{Address: "0x2"},
	}
	groups := detectGroups(windows)
	assert.Empty(t, groups)
}

func TestDetectGroupsHandlesDanglingReference(t *testing.T) {
	windows := []compositor.Window{
		{Address: "0x1", Grouped: []string{"0xmissing"}},
	}
	groups := detectGroups(windows)
	assert.Empty(t, groups)
}

func TestWriteAtomicCreatesFileWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	require.NoError(t, writeAtomic(path, []byte(`{"ok":true}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestWriteAtomicOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`old`), 0o644))
	require.NoError(t, writeAtomic(path, []byte(`new`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteAtomicLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	require.NoError(t, writeAtomic(path, []byte(`{}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}
