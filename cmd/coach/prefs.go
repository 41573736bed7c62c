// ABOUTME: CLI command for changing session preferences.
// ABOUTME: Template, style, and equipment apply from the upcoming week on.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/coach/internal/models"
)

var (
	prefsTemplate  string
	prefsStyle     string
	prefsEquipment []string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Change template, style, and equipment",
	Long: `Change the session template, style, and available equipment.

Omitted flags keep their defaults (full_body, balanced, bodyweight only), so
pass everything you want to keep.

EXAMPLES:

  coach prefs --template push_pull --equipment dumbbell,band`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := models.ParsePreferences(prefsTemplate, prefsStyle, prefsEquipment)
		if err != nil {
			return err
		}

		user := currentUser()
		if err := svc.SetPreferences(cmd.Context(), user, prefs); err != nil {
			return fmt.Errorf("failed to set preferences: %w", err)
		}

		color.Green("✓ Preferences for %s: %s, %s", user, prefs.Template, prefs.Style)
		return nil
	},
}

func init() {
	prefsCmd.Flags().StringVar(&prefsTemplate, "template", "", "strength template")
	prefsCmd.Flags().StringVar(&prefsStyle, "style", "", "session style")
	prefsCmd.Flags().StringSliceVar(&prefsEquipment, "equipment", nil, "available equipment (comma separated)")
	rootCmd.AddCommand(prefsCmd)
}
