package cmd

import (
	"context"

	"github.com/grovetools/hypr-sessions/internal/session"
	"github.com/spf13/cobra"
)

func newSaveCmd() *cobra.Command {
	var jsonOutput, debug bool

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Capture the active workspace's windows into a named session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withJSONOutput(jsonOutput)
			debugEnabled = debug

			st, _, err := openStore()
			if err != nil {
				return err
			}

			saver := session.NewSaver(st, newCompositorClient())
			res := saver.Save(context.Background(), args[0])
			return emitResult(res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include extra detail in non-JSON output")
	return cmd
}
