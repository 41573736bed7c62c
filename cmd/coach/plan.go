// ABOUTME: CLI command for showing a week's sessions.
// ABOUTME: Shows the upcoming week, or regenerates a recorded week from its seeds.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	planMinimum bool
	planJSON    bool
)

var planCmd = &cobra.Command{
	Use:     "plan [week]",
	Aliases: []string{"p"},
	Short:   "Show a week's sessions",
	Long: `Show the sessions for the upcoming week, or for a recorded week.

Sessions are generated from a seed built from the user, the week, and the
session slot, so a recorded week always shows the same exercises.

Each session also has a minimum viable version: half the volume, for weeks
when the full session will not happen.

EXAMPLES:

  coach plan              # This week's sessions
  coach plan 3            # Week 3's sessions
  coach plan --minimum    # This week's minimum viable sessions`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		week := 0
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("week must be a positive number, got %q", args[0])
			}
			week = n
		}

		plan, err := svc.Plan(currentUser(), week)
		if err != nil {
			return fmt.Errorf("failed to build plan: %w", err)
		}

		sessions := plan.Sessions
		if planMinimum {
			sessions = plan.MinimumViableSessions
		}

		if planJSON {
			data, err := json.MarshalIndent(sessions, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		printSessions(sessions)
		return nil
	},
}

func init() {
	planCmd.Flags().BoolVar(&planMinimum, "minimum", false, "show the minimum viable sessions")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print sessions as JSON")
	rootCmd.AddCommand(planCmd)
}
