// ABOUTME: WeeklySnapshot is the canonical, serializable record of one weekly cycle.
// ABOUTME: Its field names and enumerations are the compatibility boundary for clients.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WeekStartLayout is the ISO date layout used for week_start.
const WeekStartLayout = "2006-01-02"

// PhaseContext is the phase the week was evaluated in.
type PhaseContext struct {
	Name        Phase `json:"name" yaml:"name"`
	WeekInPhase int   `json:"week_in_phase" yaml:"week_in_phase"`
}

// StateSnapshot captures the derived modulators for the week.
type StateSnapshot struct {
	FatigueScore  float64       `json:"fatigue_score" yaml:"fatigue_score"`
	EnergyContext EnergyContext `json:"energy_context" yaml:"energy_context"`
	Adherence     float64       `json:"adherence" yaml:"adherence"`
	PainFlags     []string      `json:"pain_flags" yaml:"pain_flags"`
	ActiveInjury  bool          `json:"active_injury" yaml:"active_injury"`
}

// Completion is the week's completed-vs-target block.
type Completion struct {
	Raw               int     `json:"raw" yaml:"raw"`
	Planned           int     `json:"planned" yaml:"planned"`
	Extra             int     `json:"extra" yaml:"extra"`
	AdherenceThisWeek float64 `json:"adherence_this_week" yaml:"adherence_this_week"`
}

// DecisionBlock is the evaluator's verdict for the week.
type DecisionBlock struct {
	Type    Decision `json:"type" yaml:"type"`
	Reason  string   `json:"reason" yaml:"reason"`
	Message string   `json:"message" yaml:"message"`
	Tone    Tone     `json:"tone" yaml:"tone"`
}

// ProgramChange describes what the mutator and phase machine did to the program.
type ProgramChange struct {
	Occurred    bool        `json:"occurred" yaml:"occurred"`
	Description string      `json:"description" yaml:"description"`
	Cause       ChangeCause `json:"cause" yaml:"cause"`
}

// WeeklySnapshot is the self-contained output of one weekly cycle.
type WeeklySnapshot struct {
	ID                    uuid.UUID     `json:"id" yaml:"id"`
	UserID                string        `json:"user_id" yaml:"user_id"`
	Week                  int           `json:"week" yaml:"week"`
	WeekStart             string        `json:"week_start" yaml:"week_start"`
	Phase                 PhaseContext  `json:"phase" yaml:"phase"`
	State                 StateSnapshot `json:"state" yaml:"state"`
	Program               ProgramConfig `json:"program" yaml:"program"`
	Preferences           Preferences   `json:"preferences" yaml:"preferences"`
	Sessions              []Session     `json:"sessions" yaml:"sessions"`
	MinimumViableSessions []Session     `json:"minimum_viable_sessions" yaml:"minimum_viable_sessions"`
	Completion            Completion    `json:"completion" yaml:"completion"`
	Decision              DecisionBlock `json:"decision" yaml:"decision"`
	ProgramChange         ProgramChange `json:"program_change" yaml:"program_change"`
	SafetyNotes           []string      `json:"safety_notes" yaml:"safety_notes"`
	NextWeekProgram       ProgramConfig `json:"next_week_program" yaml:"next_week_program"`
	CreatedAt             time.Time     `json:"created_at" yaml:"created_at"`
}
