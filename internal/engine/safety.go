// ABOUTME: Safety notes attached to each weekly snapshot.
// ABOUTME: Derived from injury, pain, fatigue, energy, and inactivity state.
package engine

import (
	"fmt"
	"strings"

	"github.com/harperreed/coach/internal/decision"
	"github.com/harperreed/coach/internal/models"
)

// SafetyNotes returns the notes for a state after its signals are recorded.
func SafetyNotes(s *models.TrainingState) []string {
	notes := []string{}

	if s.ActiveInjury {
		notes = append(notes, "Active injury reported: stop any movement that aggravates it and check in with a healthcare professional.")
	}
	if len(s.CurrentPainFlags) > 0 {
		notes = append(notes, fmt.Sprintf("Pain reported (%s): skip or modify any exercise that causes pain.",
			strings.Join(s.CurrentPainFlags, ", ")))
	}

	switch {
	case s.FatigueScore >= decision.HighFatigue:
		notes = append(notes, "Fatigue is high: prioritize sleep and keep every session easy.")
	case s.FatigueScore >= decision.ElevatedFatigue:
		notes = append(notes, "Fatigue is elevated: keep effort conservative this week.")
	}

	switch s.EnergyContext {
	case models.EnergyDepleted:
		notes = append(notes, "Energy looks depleted and fueling may be falling short. Consider talking to a nutrition professional.")
	case models.EnergyLow:
		notes = append(notes, "Energy has been low: focus on rest and regular meals.")
	}

	if s.ConsecutiveInactiveWeeks >= 2 {
		notes = append(notes, fmt.Sprintf("No sessions for %d weeks: ease back in and stop if anything feels off.",
			s.ConsecutiveInactiveWeeks))
	}
	return notes
}
