package cmd

import (
	"github.com/grovetools/hypr-sessions/internal/config"
	"github.com/grovetools/hypr-sessions/internal/health"
	"github.com/grovetools/hypr-sessions/internal/result"
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check store directory accessibility, configuration, and interrupted recoveries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			withJSONOutput(jsonOutput)

			st, cfg, err := openStore()
			if err != nil {
				return err
			}
			_, warnings := config.Load()

			checker := health.NewChecker(st)
			res := checker.Check(cfg, warnings)
			return emitResult(res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.AddCommand(newHealthCleanupCmd())
	return cmd
}

func newHealthCleanupCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "cleanup-interrupted-recovery <marker-path>",
		Short: "Remove a stale recovery marker left by an interrupted recover",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withJSONOutput(jsonOutput)

			st, _, err := openStore()
			if err != nil {
				return err
			}
			checker := health.NewChecker(st)
			res := result.New("cleanup-interrupted-recovery")
			if err := checker.CleanupInterruptedRecovery(args[0]); err != nil {
				res.Errorf("%v", err)
			} else {
				res.Successf("removed marker %s", args[0])
			}
			return emitResult(res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
