// ABOUTME: CLI command for showing a user's current state.
// ABOUTME: Prints phase, program, adherence, and safety flags.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show current phase and program",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := svc.Status(currentUser())
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		printState(st)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
