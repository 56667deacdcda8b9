// Package cmd wires the hypr-sessions CLI: save, restore, list, delete,
// recover, and health, each built on a shared store/compositor/config
// bootstrap (spec.md §6).
package cmd

import (
	"github.com/grovetools/core/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for hypr-sessions.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"hypr-sessions",
		"Capture and restore Hyprland workspace sessions",
	)

	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newRestoreCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newRecoverCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
