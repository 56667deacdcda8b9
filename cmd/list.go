package cmd

import (
	"github.com/grovetools/hypr-sessions/internal/archive"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var jsonOutput, showArchived, showAll bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions (active by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			withJSONOutput(jsonOutput)

			st, _, err := openStore()
			if err != nil {
				return err
			}

			scope := archive.ScopeActive
			switch {
			case showAll:
				scope = archive.ScopeAll
			case showArchived:
				scope = archive.ScopeArchived
			}

			lister := archive.NewLister(st)
			res := lister.List(scope)
			return emitResult(res, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&showArchived, "archived", false, "List archived sessions instead of active")
	cmd.Flags().BoolVar(&showAll, "all", false, "List both active and archived sessions")
	return cmd
}
