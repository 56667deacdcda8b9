package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchivedSession(t *testing.T, archivedDir string, meta *model.ArchiveMetadata) {
	t.Helper()
	require.NoError(t, os.MkdirAll(archivedDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(archivedDir, "session.json"), []byte(`{}`), 0o644))
	if meta != nil {
		data, err := json.Marshal(meta)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(archivedDir, ".archive-metadata.json"), data, 0o644))
	}
}

func TestRecoverRestoresUsingMetadataOriginalName(t *testing.T) {
	st := newTestStore(t)
	archivedName := "work-20250101-000000"
	writeArchivedSession(t, filepath.Join(st.Paths.Archived, archivedName), &model.ArchiveMetadata{
		OriginalName: "work", ArchivedName: archivedName, ArchiveTimestamp: "20250101-000000", FileCount: 1,
	})

	rc := NewRecoverer(st)
	res := rc.Recover(archivedName, "")
	require.True(t, res.Success)

	assert.DirExists(t, filepath.Join(st.Paths.Active, "work"))
	assert.NoDirExists(t, filepath.Join(st.Paths.Archived, archivedName))
	assert.NoFileExists(t, filepath.Join(st.Paths.Active, "work", ".archive-metadata.json"))
}

func TestRecoverWithExplicitTargetName(t *testing.T) {
	st := newTestStore(t)
	archivedName := "work-20250101-000000"
	writeArchivedSession(t, filepath.Join(st.Paths.Archived, archivedName), &model.ArchiveMetadata{
		OriginalName: "work", ArchivedName: archivedName,
	})

	rc := NewRecoverer(st)
	res := rc.Recover(archivedName, "renamed")
	require.True(t, res.Success)
	assert.DirExists(t, filepath.Join(st.Paths.Active, "renamed"))
}

func TestRecoverFallsBackToPrefixWithoutMetadata(t *testing.T) {
	st := newTestStore(t)
	archivedName := "work-20250101-000000"
	writeArchivedSession(t, filepath.Join(st.Paths.Archived, archivedName), nil)

	rc := NewRecoverer(st)
	res := rc.Recover(archivedName, "")
	require.True(t, res.Success)
	assert.DirExists(t, filepath.Join(st.Paths.Active, "work"))
}

func TestRecoverRejectsPathTraversalArgument(t *testing.T) {
	st := newTestStore(t)
	rc := NewRecoverer(st)
	res := rc.Recover("../../../etc-passwd-20250101-000000", "")
	assert.False(t, res.Success)
}

func TestRecoverFailsWhenTargetAlreadyActive(t *testing.T) {
	st := newTestStore(t)
	archivedName := "work-20250101-000000"
	writeArchivedSession(t, filepath.Join(st.Paths.Archived, archivedName), &model.ArchiveMetadata{OriginalName: "work"})
	writeActiveSession(t, st, "work")

	rc := NewRecoverer(st)
	res := rc.Recover(archivedName, "")
	assert.False(t, res.Success)
}

func TestResolveTargetNamePrefersExplicitArg(t *testing.T) {
	dir := t.TempDir()
	name, warning := resolveTargetName(dir, "work-20250101-000000", "explicit")
	assert.Equal(t, "explicit", name)
	assert.Empty(t, warning)
}

func TestResolveTargetNameFallsBackToSplitPrefix(t *testing.T) {
	dir := t.TempDir()
	name, warning := resolveTargetName(dir, "work-20250101-000000", "")
	assert.Equal(t, "work", name)
	assert.Empty(t, warning)
}

func TestResolveTargetNameFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	name, warning := resolveTargetName(dir, "not-a-timestamped-name", "")
	assert.Equal(t, "recovered-session", name)
	assert.Empty(t, warning)
}

func TestResolveTargetNameWarnsOnCorruptMetadata(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".archive-metadata.json"), []byte(`["not","an","object"]`), 0o644))

	name, warning := resolveTargetName(dir, "work-20250101-000000", "")
	assert.Equal(t, "work", name)
	assert.NotEmpty(t, warning)
}

func TestRecoverSurfacesWarningOnCorruptMetadata(t *testing.T) {
	st := newTestStore(t)
	archivedName := "work-20250101-000000"
	dir := filepath.Join(st.Paths.Archived, archivedName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".archive-metadata.json"), []byte(`["not","an","object"]`), 0o644))

	rc := NewRecoverer(st)
	res := rc.Recover(archivedName, "")
	require.True(t, res.Success)
	assert.Equal(t, 1, res.Sum.WarningCount)
	assert.DirExists(t, filepath.Join(st.Paths.Active, "work"))
}
