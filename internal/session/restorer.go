package session

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/grovetools/hypr-sessions/internal/compositor"
	"github.com/grovetools/hypr-sessions/internal/model"
	"github.com/grovetools/hypr-sessions/internal/result"
	"github.com/grovetools/hypr-sessions/internal/store"
)

// Restorer launches a saved session's windows back onto the active
// workspace, pacing dispatches to satisfy compositor timing (spec.md §4.11).
type Restorer struct {
	Store  *store.Store
	Client *compositor.Client
	Delay  time.Duration
}

// NewRestorer wires a Restorer. delaySeconds is the configured
// delay_between_instructions tunable.
func NewRestorer(st *store.Store, client *compositor.Client, delaySeconds float64) *Restorer {
	return &Restorer{
		Store:  st,
		Client: client,
		Delay:  time.Duration(delaySeconds * float64(time.Second)),
	}
}

// Restore loads name's session.json and replays its launch sequence:
// ungrouped windows first, then each group as leader, togglegroup,
// members, lockactivegroup, in session order (spec.md §4.11, §5).
func (rs *Restorer) Restore(ctx context.Context, name string) *result.Result {
	res := result.New("restore")

	if err := store.ValidateSessionName(name); err != nil {
		return res.Errorf("invalid session name: %v", err)
	}
	if err := rs.Store.EnsureExistsActive(name); err != nil {
		return res.Errorf("%v", err)
	}

	data, err := os.ReadFile(rs.Store.SessionJSONPath(name))
	if err != nil {
		return res.Errorf("reading session.json: %v", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return res.Errorf("session.json is corrupt: %v", err)
	}

	ungroupedIndices, groupIndices := partition(sess)

	launched := 0
	for i, idx := range ungroupedIndices {
		if ctx.Err() != nil {
			return res.Errorf("restore cancelled")
		}
		win := sess.Windows[idx]
		if err := rs.Client.DispatchExec(ctx, win.LaunchCommand); err != nil {
			res.Warnf("failed to launch window %q: %v", win.Title, err)
		} else {
			launched++
		}
		if i < len(ungroupedIndices)-1 || len(groupIndices) > 0 {
			rs.sleep(ctx)
		}
	}

	for gi, group := range sess.Groups {
		indices := groupIndices[group.ID]
		if len(indices) == 0 {
			continue
		}
		if err := rs.launchGroup(ctx, sess, indices, res); err != nil {
			res.Errorf("group %q sequencing failed, degrading to ungrouped launches: %v", group.ID, err)
			for _, idx := range indices {
				win := sess.Windows[idx]
				if dErr := rs.Client.DispatchExec(ctx, win.LaunchCommand); dErr != nil {
					res.Warnf("failed to launch window %q: %v", win.Title, dErr)
				} else {
					launched++
				}
				rs.sleep(ctx)
			}
			continue
		}
		launched += len(indices)
		if gi < len(sess.Groups)-1 {
			rs.sleep(ctx)
		}
	}

	res.Successf("restored %d/%d windows for session %q", launched, len(sess.Windows), name)
	return res.SetData(map[string]interface{}{
		"name":          name,
		"launched":      launched,
		"total_windows": len(sess.Windows),
	})
}

// launchGroup dispatches the leader, togglegroup, each remaining member
// with the configured delay, then lockactivegroup. Focus changes are
// never dispatched explicitly — natural focus avoids unintended
// workspace switches (spec.md §4.11).
func (rs *Restorer) launchGroup(ctx context.Context, sess model.Session, indices []int, res *result.Result) error {
	leader := sess.Windows[indices[0]]
	if err := rs.Client.DispatchExec(ctx, leader.LaunchCommand); err != nil {
		return err
	}
	rs.sleep(ctx)

	if err := rs.Client.DispatchToggleGroup(ctx); err != nil {
		return err
	}
	rs.sleep(ctx)

	for _, idx := range indices[1:] {
		member := sess.Windows[idx]
		if err := rs.Client.DispatchExec(ctx, member.LaunchCommand); err != nil {
			res.Warnf("failed to launch group member %q: %v", member.Title, err)
		}
		rs.sleep(ctx)
	}

	return rs.Client.DispatchLockActiveGroup(ctx)
}

func (rs *Restorer) sleep(ctx context.Context) {
	if rs.Delay <= 0 {
		return
	}
	select {
	case <-time.After(rs.Delay):
	case <-ctx.Done():
	}
}

// partition splits a session's window indices into ungrouped (in session
// order) and grouped-by-group-id, preserving each list's session order.
func partition(sess model.Session) (ungrouped []int, byGroup map[string][]int) {
	grouped := make(map[int]bool)
	byGroup = make(map[string][]int)
	for _, g := range sess.Groups {
		indices := append([]int(nil), g.Indices...)
		sort.Ints(indices)
		byGroup[g.ID] = indices
		for _, idx := range indices {
			grouped[idx] = true
		}
	}
	for i := range sess.Windows {
		if !grouped[i] {
			ungrouped = append(ungrouped, i)
		}
	}
	return ungrouped, byGroup
}
