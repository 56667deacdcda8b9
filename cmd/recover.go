package cmd

import (
	"github.com/grovetools/hypr-sessions/internal/archive"
	"github.com/spf13/cobra"
)

func newRecoverCmd() *cobra.Command {
	var jsonOutput, debug bool

	cmd := &cobra.Command{
		Use:   "recover <archived-name> [<new-name>]",
		Short: "Restore an archived session back to active",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			withJSONOutput(jsonOutput)
			debugEnabled = debug

			st, _, err := openStore()
			if err != nil {
				return err
			}

			var targetName string
			if len(args) == 2 {
				targetName = args[1]
			}

			recoverer := archive.NewRecoverer(st)
			res := recoverer.Recover(args[0], targetName)
			return emitResult(res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include extra detail in non-JSON output")
	return cmd
}
