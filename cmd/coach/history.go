// ABOUTME: CLI command for listing recorded weeks.
// ABOUTME: One line per week with completion, decision, and next program.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist", "ls"},
	Short:   "List recorded weeks",
	Long: `List recorded weeks, oldest first.

OUTPUT FORMAT:

  WEEK  START       PHASE       DONE  DECISION    REASON

EXAMPLES:

  coach history          # Every week
  coach history -n 4     # The latest four weeks`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snaps, err := svc.History(currentUser(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if len(snaps) == 0 {
			fmt.Println("No weeks recorded yet.")
			return nil
		}

		for _, s := range snaps {
			fmt.Printf("%s %s %s %s %s %s\n",
				padRight(fmt.Sprintf("%d", s.Week), 4),
				faint.Sprint(s.WeekStart),
				padRight(string(s.Phase.Name), 11),
				padRight(fmt.Sprintf("%d/%d", s.Completion.Raw, s.Completion.Planned), 5),
				decisionColor(s.Decision.Type).Sprint(padRight(string(s.Decision.Type), 10)),
				faint.Sprint(truncate(s.Decision.Reason, 40)))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "only the latest N weeks")
	rootCmd.AddCommand(historyCmd)
}
