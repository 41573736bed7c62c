// ABOUTME: CLI command for starting a new user.
// ABOUTME: Creates the onboarding state with template, style, and equipment preferences.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/coach/internal/models"
)

var (
	initStart     string
	initTemplate  string
	initStyle     string
	initEquipment []string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Start coaching a new user",
	Long: `Start coaching a new user in the onboarding phase.

Onboarding holds a light three-session program for the first weeks, then
moves on to building.

TEMPLATES:

  full_body     every session trains the whole body (default)
  upper_lower   alternate upper and lower body days
  push_pull     alternate pushing and pulling days

STYLES:

  balanced         strength plus some cardio (default)
  strength_focus   more strength slots
  cardio_focus     more cardio

EQUIPMENT:

  dumbbell, kettlebell, band, bench, pullup_bar (bodyweight is always available)

EXAMPLES:

  coach init
  coach init --start 2025-01-06 --template upper_lower
  coach init -u ada --equipment dumbbell,bench --style strength_focus`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := models.ParsePreferences(initTemplate, initStyle, initEquipment)
		if err != nil {
			return err
		}

		start := today()
		if initStart != "" {
			if start, err = parseDate(initStart); err != nil {
				return err
			}
		}

		st, err := svc.Init(currentUser(), start, prefs)
		if err != nil {
			return fmt.Errorf("failed to start coaching: %w", err)
		}

		color.Green("✓ Started coaching %s", st.UserID)
		fmt.Printf("  Week 1 starts %s\n", st.StartDate.Format(models.WeekStartLayout))
		fmt.Printf("  Program: %s\n", st.Program)
		faint.Println("\nRun 'coach plan' to see this week's sessions.")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initStart, "start", "", "first week start date (YYYY-MM-DD), defaults to today")
	initCmd.Flags().StringVar(&initTemplate, "template", "", "strength template")
	initCmd.Flags().StringVar(&initStyle, "style", "", "session style")
	initCmd.Flags().StringSliceVar(&initEquipment, "equipment", nil, "available equipment (comma separated)")
	rootCmd.AddCommand(initCmd)
}
