package compositor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	grovelogging "github.com/grovetools/core/logging"
)

var ulog = grovelogging.NewUnifiedLogger("hypr-sessions.compositor")

// ErrCompositor wraps any hyprctl invocation failure: non-zero exit,
// timeout, or unparsable output. Partial reads are treated as failure,
// never as a silent empty result (spec.md §4.4).
type ErrCompositor struct {
	Op  string
	Err error
}

func (e *ErrCompositor) Error() string { return fmt.Sprintf("compositor %s: %v", e.Op, e.Err) }
func (e *ErrCompositor) Unwrap() error { return e.Err }

const dispatchTimeout = 3 * time.Second

// Client issues one-shot hyprctl requests and dispatches actions.
type Client struct {
	// Binary is the hyprctl executable name, overridable for testing.
	Binary string
}

// NewClient returns a Client configured to invoke the system hyprctl.
func NewClient() *Client {
	return &Client{Binary: "hyprctl"}
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &ErrCompositor{Op: fmt.Sprintf("%v", args), Err: fmt.Errorf("%w: %s", err, stderr.String())}
	}
	return stdout.Bytes(), nil
}

// activeWorkspaceID queries the currently focused workspace's ID via
// activeworkspace, which answers even when no window is focused (an empty
// workspace can still be active).
func (c *Client) activeWorkspaceID(ctx context.Context) (int, error) {
	out, err := c.run(ctx, "-j", "activeworkspace")
	if err != nil {
		return 0, err
	}
	var ws struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(out, &ws); err != nil {
		return 0, &ErrCompositor{Op: "activeworkspace", Err: fmt.Errorf("unparsable output: %w", err)}
	}
	return ws.ID, nil
}

// QueryActiveWorkspaceWindows returns, in the compositor's own enumeration
// order, every window on the currently focused workspace only — windows
// reported for other workspaces are filtered out client-side even if
// hyprctl's own output would include them (spec.md §4.4).
func (c *Client) QueryActiveWorkspaceWindows(ctx context.Context) ([]Window, error) {
	activeID, err := c.activeWorkspaceID(ctx)
	if err != nil {
		return nil, err
	}

	out, err := c.run(ctx, "-j", "clients")
	if err != nil {
		return nil, err
	}
	var all []Window
	if err := json.Unmarshal(out, &all); err != nil {
		return nil, &ErrCompositor{Op: "clients", Err: fmt.Errorf("unparsable output: %w", err)}
	}

	var onActive []Window
	for _, w := range all {
		if w.Workspace.ID == activeID {
			onActive = append(onActive, w)
		}
	}
	ulog.Info("Queried active workspace windows").
		Field("workspace_id", activeID).
		Field("window_count", len(onActive)).
		Emit()
	return onActive, nil
}

// GetActiveWindow returns the currently focused window, or nil if none.
func (c *Client) GetActiveWindow(ctx context.Context) (*Window, error) {
	out, err := c.run(ctx, "-j", "activewindow")
	if err != nil {
		return nil, err
	}
	if len(out) == 0 || string(out) == "null\n" || string(out) == "{}" {
		return nil, nil
	}
	var w Window
	if err := json.Unmarshal(out, &w); err != nil {
		return nil, &ErrCompositor{Op: "activewindow", Err: fmt.Errorf("unparsable output: %w", err)}
	}
	if w.Address == "" {
		return nil, nil
	}
	return &w, nil
}

// DispatchExec runs `hyprctl dispatch exec <command>`.
func (c *Client) DispatchExec(ctx context.Context, command string) error {
	_, err := c.run(ctx, "dispatch", "exec", command)
	return err
}

// DispatchToggleGroup toggles the focused window into/out of a group.
func (c *Client) DispatchToggleGroup(ctx context.Context) error {
	_, err := c.run(ctx, "dispatch", "togglegroup")
	return err
}

// DispatchLockActiveGroup locks the active group against further inserts.
func (c *Client) DispatchLockActiveGroup(ctx context.Context) error {
	_, err := c.run(ctx, "dispatch", "lockactivegroup")
	return err
}

// DispatchSendShortcut sends a key combination to a specific window
// address without changing focus.
func (c *Client) DispatchSendShortcut(ctx context.Context, mods, key, windowAddress string) error {
	target := fmt.Sprintf("%s,%s,address:%s", mods, key, windowAddress)
	_, err := c.run(ctx, "dispatch", "sendshortcut", target)
	return err
}
