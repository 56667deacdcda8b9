package compositor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeHyprctl(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake hyprctl script requires a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "hyprctl")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestQueryActiveWorkspaceWindowsFiltersToActiveWorkspace(t *testing.T) {
	script := `
case "$2" in
  activeworkspace) echo '{"id":2,"name":"2"}' ;;
  clients) echo '[{"address":"0x1","class":"kitty","workspace":{"id":2,"name":"2"}},{"address":"0x2","class":"firefox","workspace":{"id":3,"name":"3"}}]' ;;
esac
`
	c := &Client{Binary: fakeHyprctl(t, script)}
	windows, err := c.QueryActiveWorkspaceWindows(context.Background())
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "kitty", windows[0].Class)
}

func TestGetActiveWindowReturnsNilOnNull(t *testing.T) {
	c := &Client{Binary: fakeHyprctl(t, `echo 'null'`)}
	w, err := c.GetActiveWindow(context.Background())
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestGetActiveWindowParsesWindow(t *testing.T) {
	c := &Client{Binary: fakeHyprctl(t, `echo '{"address":"0x1","class":"kitty"}'`)}
	w, err := c.GetActiveWindow(context.Background())
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, "kitty", w.Class)
}

func TestRunWrapsNonZeroExitAsCompositorError(t *testing.T) {
	c := &Client{Binary: fakeHyprctl(t, `echo 'boom' 1>&2; exit 1`)}
	_, err := c.GetActiveWindow(context.Background())
	require.Error(t, err)
	var cerr *ErrCompositor
	assert.ErrorAs(t, err, &cerr)
}

func TestDispatchExecInvokesDispatch(t *testing.T) {
	c := &Client{Binary: fakeHyprctl(t, `exit 0`)}
	err := c.DispatchExec(context.Background(), "kitty")
	assert.NoError(t, err)
}
