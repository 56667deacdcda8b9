package cmd

import (
	"github.com/grovetools/hypr-sessions/internal/archive"
	"github.com/spf13/cobra"
)

// newDeleteCmd is the "delete" verb users invoke; the implementation
// always archives rather than destroys (spec.md §4.12, §9).
func newDeleteCmd() *cobra.Command {
	var jsonOutput, debug bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Archive an active session (never destroys it outright)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withJSONOutput(jsonOutput)
			debugEnabled = debug

			st, cfg, err := openStore()
			if err != nil {
				return err
			}

			archiver := archive.NewArchiver(st, cfg)
			res := archiver.Archive(args[0])
			return emitResult(res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include extra detail in non-JSON output")
	return cmd
}
