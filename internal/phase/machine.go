// ABOUTME: Four-state phase machine driven by the finalized weekly decision.
// ABOUTME: Applies phase templates on transition, clamped by the program constraints.
package phase

import (
	"fmt"

	"github.com/harperreed/coach/internal/models"
)

// Template is the session count and duration a phase starts with.
type Template struct {
	SessionsPerWeek int
	DurationMinutes int
}

// Templates maps every phase to its starting template.
var Templates = map[models.Phase]Template{
	models.PhaseOnboarding:  {SessionsPerWeek: 3, DurationMinutes: 20},
	models.PhaseBuilding:    {SessionsPerWeek: 3, DurationMinutes: 30},
	models.PhaseMaintaining: {SessionsPerWeek: 3, DurationMinutes: 25},
	models.PhaseRecovering:  {SessionsPerWeek: 2, DurationMinutes: 15},
}

// Gate thresholds.
const (
	OnboardingWeeks       = 3
	OnboardingAdherence   = 0.6
	BuildingWeeks         = 4
	RecoveringWeeks       = 2
	RecoveringAdherence   = 0.5
	MaintainingWeeks      = 4
	MaintainingAdherence  = 0.75
	LowAdherence          = 0.4
	RecoveryFatigueCutoff = 5.0
)

// Input is what the machine reads from the cycle.
type Input struct {
	Phase       models.Phase
	WeekInPhase int
	Adherence   float64
	Fatigue     float64
	Decision    models.Decision
	// Program is the post-mutation program.
	Program     models.ProgramConfig
	Constraints models.ProgramConstraints
}

// InputFrom reads the phase inputs from a state whose program is already mutated.
func InputFrom(s *models.TrainingState, d models.Decision) Input {
	return Input{
		Phase:       s.Phase,
		WeekInPhase: s.WeekInPhase,
		Adherence:   s.AdherenceRate,
		Fatigue:     s.FatigueScore,
		Decision:    d,
		Program:     s.Program,
		Constraints: s.Constraints,
	}
}

// Outcome is the result of one transition step.
type Outcome struct {
	From            models.Phase
	To              models.Phase
	Changed         bool
	WeekInPhase     int
	Program         models.ProgramConfig
	TemplateApplied bool
}

// Transition decides next week's phase and phase-week counter.
func Transition(in Input) (Outcome, error) {
	if !in.Phase.Valid() {
		return Outcome{}, fmt.Errorf("transition: unknown phase %q", in.Phase)
	}
	if !in.Decision.Valid() {
		return Outcome{}, fmt.Errorf("transition: unknown decision %q", in.Decision)
	}

	to := next(in)
	out := Outcome{From: in.Phase, To: to, Program: in.Program}

	// A scale-back always restarts recovery, even from within recovering.
	if to != in.Phase || in.Decision == models.DecisionScaleBack {
		out.Changed = to != in.Phase
		out.WeekInPhase = 1
		out.Program = ApplyTemplate(in.Program, Templates[to], in.Constraints)
		out.TemplateApplied = true
		return out, nil
	}

	out.WeekInPhase = in.WeekInPhase + 1
	return out, nil
}

func next(in Input) models.Phase {
	if in.Decision == models.DecisionScaleBack {
		return models.PhaseRecovering
	}

	switch in.Phase {
	case models.PhaseOnboarding:
		if in.WeekInPhase >= OnboardingWeeks && in.Adherence >= OnboardingAdherence {
			return models.PhaseBuilding
		}
	case models.PhaseBuilding:
		if in.WeekInPhase >= BuildingWeeks && in.Adherence >= LowAdherence && in.Adherence < MaintainingAdherence {
			return models.PhaseMaintaining
		}
	case models.PhaseRecovering:
		if in.WeekInPhase >= RecoveringWeeks && in.Adherence >= RecoveringAdherence && in.Fatigue < RecoveryFatigueCutoff {
			return models.PhaseMaintaining
		}
	case models.PhaseMaintaining:
		if in.WeekInPhase >= MaintainingWeeks && in.Adherence >= MaintainingAdherence && in.Fatigue < RecoveryFatigueCutoff {
			return models.PhaseBuilding
		}
	}
	return in.Phase
}

// ApplyTemplate sets sessions and duration from the template without exceeding any ceiling.
func ApplyTemplate(p models.ProgramConfig, t Template, c models.ProgramConstraints) models.ProgramConfig {
	out := p
	out.SessionsPerWeek = clamp(min(t.SessionsPerWeek, c.MaxSessionsPerWeek), models.MinSessionsPerWeek, models.MaxSessionsPerWeek)
	out.DurationMinutes = clamp(min(t.DurationMinutes, c.MaxDurationMinutes), models.MinDurationMinutes, models.MaxDurationMinutes)
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
