package cmd

import (
	"context"

	"github.com/grovetools/hypr-sessions/internal/session"
	"github.com/spf13/cobra"
)

func newRestoreCmd() *cobra.Command {
	var jsonOutput, debug bool

	cmd := &cobra.Command{
		Use:   "restore <name>",
		Short: "Launch the windows recorded in a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withJSONOutput(jsonOutput)
			debugEnabled = debug

			st, cfg, err := openStore()
			if err != nil {
				return err
			}

			restorer := session.NewRestorer(st, newCompositorClient(), cfg.DelayBetweenInstructions)
			res := restorer.Restore(context.Background(), args[0])
			return emitResult(res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include extra detail in non-JSON output")
	return cmd
}
