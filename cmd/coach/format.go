// ABOUTME: Terminal rendering for snapshots, states, and sessions.
// ABOUTME: Shared by the week, status, plan, and history commands.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/harperreed/coach/internal/models"
)

var (
	faint = color.New(color.Faint)
	bold  = color.New(color.Bold)
)

func decisionColor(d models.Decision) *color.Color {
	switch d {
	case models.DecisionProgress:
		return color.New(color.FgGreen, color.Bold)
	case models.DecisionScaleBack:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}

func printSnapshot(s *models.WeeklySnapshot) {
	bold.Printf("Week %d", s.Week)
	faint.Printf("  %s  %s phase, week %d\n", s.WeekStart, s.Phase.Name, s.Phase.WeekInPhase)
	fmt.Println()

	fmt.Printf("  Completed   %d of %d sessions", s.Completion.Raw, s.Completion.Planned)
	if s.Completion.Extra > 0 {
		faint.Printf(" (+%d extra)", s.Completion.Extra)
	}
	fmt.Println()
	fmt.Printf("  Adherence   %.0f%%\n", s.State.Adherence*100)
	fmt.Printf("  Fatigue     %.2f  energy %s\n", s.State.FatigueScore, s.State.EnergyContext)
	fmt.Println()

	fmt.Printf("  Decision    %s  %s\n", decisionColor(s.Decision.Type).Sprint(s.Decision.Type), faint.Sprint(s.Decision.Reason))
	fmt.Printf("  %s\n", s.Decision.Message)
	fmt.Println()

	if s.ProgramChange.Occurred {
		fmt.Printf("  Change      %s\n", s.ProgramChange.Description)
	} else {
		fmt.Printf("  Change      %s\n", faint.Sprint(s.ProgramChange.Description))
	}
	fmt.Printf("  Next week   %s\n", s.NextWeekProgram)

	if len(s.SafetyNotes) > 0 {
		fmt.Println()
		for _, note := range s.SafetyNotes {
			color.Yellow("  ! %s", note)
		}
	}
}

func printState(st *models.TrainingState) {
	bold.Println(st.UserID)
	fmt.Printf("  Week        %d (starts %s)\n", st.WeekNumber, st.WeekStart(st.WeekNumber).Format(models.WeekStartLayout))
	fmt.Printf("  Phase       %s, week %d\n", st.Phase, st.WeekInPhase)
	fmt.Printf("  Program     %s\n", st.Program)
	fmt.Printf("  Adherence   %.0f%%  (7d %d, 14d %d, 30d %d)\n", st.AdherenceRate*100, st.Rolling7, st.Rolling14, st.Rolling30)
	fmt.Printf("  Fatigue     %.2f  energy %s\n", st.FatigueScore, st.EnergyContext)
	fmt.Printf("  Template    %s, %s", st.Preferences.Template, st.Preferences.Style)
	if len(st.Preferences.Equipment) > 0 {
		eq := make([]string, len(st.Preferences.Equipment))
		for i, e := range st.Preferences.Equipment {
			eq[i] = string(e)
		}
		faint.Printf("  [%s]", strings.Join(eq, ", "))
	}
	fmt.Println()

	if st.ActiveInjury {
		color.Red("  ! Active injury reported")
	}
	if len(st.CurrentPainFlags) > 0 {
		color.Yellow("  ! Pain: %s", strings.Join(st.CurrentPainFlags, ", "))
	}
}

func printSessions(sessions []models.Session) {
	for _, s := range sessions {
		bold.Printf("%s", s.Title)
		faint.Printf("  %d min, %s\n", s.DurationMinutes, s.Intensity)
		for _, w := range s.WarmUp {
			faint.Printf("    warm-up  %s\n", exerciseLine(w))
		}
		for _, e := range s.Exercises {
			line := exerciseLine(e)
			if e.Fallback {
				line += faint.Sprint(" *")
			}
			fmt.Printf("    %s\n", line)
		}
		fmt.Println()
	}
}

func exerciseLine(e models.PlannedExercise) string {
	name := padRight(e.Name, 28)
	switch {
	case e.Minutes > 0:
		return fmt.Sprintf("%s %d min", name, e.Minutes)
	case e.Sets > 0:
		return fmt.Sprintf("%s %d × %s", name, e.Sets, e.Reps)
	default:
		return e.Name
	}
}

// parseDate accepts YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.WeekStartLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// today returns the current UTC date at midnight.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
