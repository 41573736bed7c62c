// ABOUTME: CLI command for recording a finished week.
// ABOUTME: Builds the weekly input from flags, runs the cycle, and prints the snapshot.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harperreed/coach/internal/models"
)

var (
	weekSleep     string
	weekStress    string
	weekReadiness string
	weekEnergy    string
	weekEating    string
	weekPain      []string
	weekInjury    bool
	weekJSON      bool
)

var weekCmd = &cobra.Command{
	Use:     "week <sessions>",
	Aliases: []string{"w", "checkin"},
	Short:   "Record a finished week",
	Long: `Record how the week went and get next week's program.

<sessions> is how many sessions you finished. The check-in flags are
optional but sleep, stress, and readiness go together, as do energy and
eating.

CHECK-IN:

  --sleep       poor, fair, good, great
  --stress      low, moderate, high, overwhelming
  --readiness   strong, good, okay, drag

ENERGY:

  --energy      low, moderate, high
  --eating      enough, uncertain, likely_insufficient

SAFETY:

  --pain knee   repeat for each area that hurt
  --injury      an injury is currently active

EXAMPLES:

  coach week 3
  coach week 2 --sleep fair --stress high --readiness okay
  coach week 1 --energy low --eating likely_insufficient
  coach week 0 --injury`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := buildWeeklyInput(args[0])
		if err != nil {
			return err
		}

		snap, err := svc.RecordWeek(cmd.Context(), currentUser(), in)
		if err != nil {
			return fmt.Errorf("failed to record week: %w", err)
		}

		if weekJSON {
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		printSnapshot(snap)
		return nil
	},
}

func buildWeeklyInput(sessions string) (models.WeeklyInput, error) {
	n, err := strconv.Atoi(sessions)
	if err != nil || n < 0 {
		return models.WeeklyInput{}, fmt.Errorf("sessions must be a non-negative number, got %q", sessions)
	}

	checkIn, err := models.ParseCheckIn(weekSleep, weekStress, weekReadiness)
	if err != nil {
		return models.WeeklyInput{}, err
	}
	energy, err := models.ParseEnergyCheck(weekEnergy, weekEating)
	if err != nil {
		return models.WeeklyInput{}, err
	}

	return models.WeeklyInput{
		RawSessions:  n,
		CheckIn:      checkIn,
		EnergyCheck:  energy,
		PainFlags:    weekPain,
		ActiveInjury: weekInjury,
	}, nil
}

func init() {
	weekCmd.Flags().StringVar(&weekSleep, "sleep", "", "sleep quality")
	weekCmd.Flags().StringVar(&weekStress, "stress", "", "stress level")
	weekCmd.Flags().StringVar(&weekReadiness, "readiness", "", "readiness to train")
	weekCmd.Flags().StringVar(&weekEnergy, "energy", "", "energy level")
	weekCmd.Flags().StringVar(&weekEating, "eating", "", "eating sufficiency")
	weekCmd.Flags().StringArrayVar(&weekPain, "pain", nil, "area that hurt (repeatable)")
	weekCmd.Flags().BoolVar(&weekInjury, "injury", false, "an injury is active")
	weekCmd.Flags().BoolVar(&weekJSON, "json", false, "print the snapshot as JSON")
	rootCmd.AddCommand(weekCmd)
}
