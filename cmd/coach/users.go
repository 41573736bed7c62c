// ABOUTME: CLI commands for listing and deleting coached users.
// ABOUTME: Deleting removes the user's state and every recorded week.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var usersForce bool

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List coached users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := svc.Users()
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No users yet. Run 'coach init' to start.")
			return nil
		}

		for _, u := range users {
			st, err := svc.Status(u)
			if err != nil {
				fmt.Println(u)
				continue
			}
			fmt.Printf("%s %s %s\n",
				padRight(u, 16),
				padRight(fmt.Sprintf("week %d", st.WeekNumber), 9),
				faint.Sprint(st.Phase))
		}
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:     "delete <user>",
	Aliases: []string{"rm"},
	Short:   "Delete a user and their history",
	Long: `Delete a user's state and every recorded week.

CAUTION:

  This permanently deletes the user. There is no undo.
  Export first if you might want the history back:

    coach export json -u <user> -o backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user := args[0]

		if !usersForce {
			fmt.Printf("Delete %s and all recorded weeks? [y/N]: ", user)
			response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Canceled.")
				return nil
			}
		}

		if err := repo.DeleteUser(user); err != nil {
			return fmt.Errorf("failed to delete %s: %w", user, err)
		}

		color.Yellow("✗ Deleted %s", user)
		return nil
	},
}

func init() {
	usersDeleteCmd.Flags().BoolVarP(&usersForce, "force", "f", false, "skip confirmation prompt")
	usersCmd.AddCommand(usersDeleteCmd)
	rootCmd.AddCommand(usersCmd)
}
