// ABOUTME: TrainingState is the long-lived per-user record mutated every weekly cycle.
// ABOUTME: Holds phase, program, constraints, rolling completion history, and recovery counters.
package models

import (
	"time"
)

// Trailing windows retained by the state.
const (
	FatigueWindow   = 2
	EnergyWindow    = 4
	PainReportLimit = 2
)

// Preferences select the session template, style, and available equipment.
type Preferences struct {
	Template  StrengthTemplate `json:"template" yaml:"template"`
	Style     SessionStyle     `json:"style" yaml:"style"`
	Equipment []Equipment      `json:"equipment,omitempty" yaml:"equipment,omitempty"`
}

// DefaultPreferences returns full-body, balanced, bodyweight-only preferences.
func DefaultPreferences() Preferences {
	return Preferences{Template: TemplateFullBody, Style: StyleBalanced}
}

// ParsePreferences builds preferences from strings. Empty template or style
// fall back to the defaults.
func ParsePreferences(template, style string, equipment []string) (Preferences, error) {
	p := DefaultPreferences()
	var err error
	if template != "" {
		if p.Template, err = ParseStrengthTemplate(template); err != nil {
			return Preferences{}, err
		}
	}
	if style != "" {
		if p.Style, err = ParseSessionStyle(style); err != nil {
			return Preferences{}, err
		}
	}
	for _, raw := range equipment {
		e, err := ParseEquipment(raw)
		if err != nil {
			return Preferences{}, err
		}
		if !contains(p.Equipment, e) {
			p.Equipment = append(p.Equipment, e)
		}
	}
	return p, nil
}

// TrainingState is one user's coaching state.
type TrainingState struct {
	UserID      string      `json:"user_id"`
	StartDate   time.Time   `json:"start_date"`
	WeekNumber  int         `json:"week_number"`
	Phase       Phase       `json:"phase"`
	WeekInPhase int         `json:"week_in_phase"`
	Preferences Preferences `json:"preferences"`

	Program     ProgramConfig      `json:"program"`
	Constraints ProgramConstraints `json:"constraints"`

	// SessionHistory has one entry per completed cycle, oldest first.
	SessionHistory []int `json:"session_history"`
	Rolling7       int   `json:"rolling_7"`
	Rolling14      int   `json:"rolling_14"`
	Rolling30      int   `json:"rolling_30"`

	AdherenceRate                float64 `json:"adherence_rate"`
	ConsecutiveLowAdherenceWeeks int     `json:"consecutive_low_adherence_weeks"`
	ConsecutiveInactiveWeeks     int     `json:"consecutive_inactive_weeks"`

	FatigueScore  float64         `json:"fatigue_score"`
	EnergyContext EnergyContext   `json:"energy_context"`
	CheckIns      []WeeklyCheckIn `json:"check_ins,omitempty"`
	EnergyChecks  []EnergyCheck   `json:"energy_checks,omitempty"`

	CurrentPainFlags         []string `json:"current_pain_flags,omitempty"`
	RecentPainReports        []string `json:"recent_pain_reports,omitempty"`
	ActiveInjury             bool     `json:"active_injury"`
	PainHistory              bool     `json:"pain_history"`
	ConsecutivePainFreeWeeks int      `json:"consecutive_pain_free_weeks"`

	// WeeksSinceScaleBack is nil until the first scale-back.
	WeeksSinceScaleBack    *int `json:"weeks_since_scale_back,omitempty"`
	ConsecutiveStableWeeks int  `json:"consecutive_stable_weeks"`
	WeeksAtLevel           int  `json:"weeks_at_level"`

	RecentExercises []string `json:"recent_exercises,omitempty"`

	TotalRawSessions     int `json:"total_raw_sessions"`
	TotalPlannedSessions int `json:"total_planned_sessions"`
}

// NewTrainingState creates the onboarding state for a new user.
func NewTrainingState(userID string, start time.Time) *TrainingState {
	return &TrainingState{
		UserID:        userID,
		StartDate:     start,
		WeekNumber:    1,
		Phase:         PhaseOnboarding,
		WeekInPhase:   1,
		Preferences:   DefaultPreferences(),
		Program:       DefaultProgram(),
		Constraints:   OpenConstraints(),
		EnergyContext: EnergyNormal,
	}
}

// WeekStart returns the ISO start date of the given week number.
func (s *TrainingState) WeekStart(week int) time.Time {
	return s.StartDate.AddDate(0, 0, 7*(week-1))
}

// Clone returns a deep copy of the state.
func (s *TrainingState) Clone() *TrainingState {
	c := *s
	c.Preferences.Equipment = cloneSlice(s.Preferences.Equipment)
	c.SessionHistory = cloneSlice(s.SessionHistory)
	c.CheckIns = cloneSlice(s.CheckIns)
	c.EnergyChecks = cloneSlice(s.EnergyChecks)
	c.CurrentPainFlags = cloneSlice(s.CurrentPainFlags)
	c.RecentPainReports = cloneSlice(s.RecentPainReports)
	c.RecentExercises = cloneSlice(s.RecentExercises)
	if s.WeeksSinceScaleBack != nil {
		v := *s.WeeksSinceScaleBack
		c.WeeksSinceScaleBack = &v
	}
	return &c
}

// HasPainFlags reports whether the current week carries any pain report.
func (s *TrainingState) HasPainFlags() bool {
	return len(s.CurrentPainFlags) > 0
}

// CurrentTarget is the weekly session target of the current program.
func (s *TrainingState) CurrentTarget() int {
	return s.Program.SessionsPerWeek
}

// Tail returns the last n elements of xs.
func Tail[T any](xs []T, n int) []T {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

func cloneSlice[T any](xs []T) []T {
	if xs == nil {
		return nil
	}
	out := make([]T, len(xs))
	copy(out, xs)
	return out
}
