package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/grovetools/hypr-sessions/internal/compositor"
	"github.com/grovetools/hypr-sessions/internal/config"
	"github.com/grovetools/hypr-sessions/internal/result"
	"github.com/grovetools/hypr-sessions/internal/store"
	grovelogging "github.com/grovetools/core/logging"
)

// withJSONOutput redirects logging to stderr for the duration of a
// command whose stdout must stay machine-readable (spec.md §6), matching
// the teacher's established --json convention.
func withJSONOutput(jsonOutput bool) {
	if jsonOutput {
		grovelogging.SetGlobalOutput(os.Stderr)
	}
}

// debugEnabled is set by each command's --debug flag. It only broadens
// what emitResult prints locally; it does not reach into the external
// logging package's own verbosity, which each subcommand's ulog calls
// already route through.
var debugEnabled bool

// openStore resolves config and opens the session store, migrating any
// legacy layout along the way.
func openStore() (*store.Store, config.Config, error) {
	cfg, warnings := config.Load()
	st, err := store.New()
	if err != nil {
		return nil, cfg, err
	}
	for _, w := range warnings {
		ulogBootstrap.Info("Ignoring out-of-range configuration override").
			Field("variable", w.Variable).
			Field("value", w.Value).
			Field("reason", w.Reason).
			Emit()
	}
	return st, cfg, nil
}

var ulogBootstrap = grovelogging.NewUnifiedLogger("hypr-sessions.cmd")

func newCompositorClient() *compositor.Client {
	return compositor.NewClient()
}

// emitResult writes a Result as JSON to stdout when jsonOutput is set, or
// a concise human-readable summary otherwise. It returns a non-nil error
// when Result itself reports failure or cannot be encoded as JSON, so
// cobra's RunE surfaces a non-zero exit code.
func emitResult(res *result.Result, jsonOutput bool) error {
	if jsonOutput {
		data, err := res.JSON()
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
	} else {
		fmt.Fprintln(os.Stdout, res.Summarize())
		for _, m := range res.Messages {
			fmt.Fprintf(os.Stdout, "  [%s] %s\n", m.Status, m.Message)
		}
		if debugEnabled && res.Data != nil {
			data, err := json.MarshalIndent(res.Data, "", "  ")
			if err == nil {
				fmt.Fprintf(os.Stdout, "data: %s\n", data)
			}
		}
	}
	if !res.Success {
		return fmt.Errorf("%s failed", res.Operation)
	}
	return nil
}
