// ABOUTME: Stateless decision evaluator mapping a TrainingState to progress, maintain, or scale_back.
// ABOUTME: Rules run in strict priority order; the first match wins.
package decision

import (
	"github.com/harperreed/coach/internal/models"
)

// Rule thresholds.
const (
	LowAdherence           = 0.4
	StableAdherence        = 0.75
	HighFatigue            = 7.0
	ElevatedFatigue        = 5.0
	LowAdherenceWeeks      = 2
	RequiredStableWeeks    = 2
	RequiredPainFreeWeeks  = 2
	MinWeeksSinceScaleBack = 2
	MinWeeksAtLevel        = 2

	DefaultInactivityDays = 21
)

// Thresholds are the configurable parts of the rule table.
type Thresholds struct {
	// InactivityDays of no completed sessions trigger a scale-back.
	InactivityDays int `json:"inactivity_days"`
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{InactivityDays: DefaultInactivityDays}
}

// Result is the evaluator's verdict.
type Result struct {
	Decision models.Decision
	Reason   string
	Message  string
	Tone     models.Tone
	Rule     RuleID
}

// StableWeek reports whether a week meets the adherence, fatigue, and energy thresholds together.
func StableWeek(adherence, fatigue float64, energy models.EnergyContext) bool {
	return adherence >= StableAdherence &&
		fatigue < ElevatedFatigue &&
		(energy == models.EnergyNormal || energy == models.EnergyHigh)
}

// Evaluate applies the rule table to s. It never mutates s.
func Evaluate(s *models.TrainingState, th Thresholds) Result {
	if rule, ok := scaleBackRule(s, th); ok {
		return ResultFor(rule)
	}
	if rule, ok := maintainRule(s); ok {
		return ResultFor(rule)
	}
	return ResultFor(progressionRule(s))
}

func inactiveDays(s *models.TrainingState) int {
	return s.ConsecutiveInactiveWeeks * 7
}

func scaleBackRule(s *models.TrainingState, th Thresholds) (RuleID, bool) {
	inactivityDays := th.InactivityDays
	if inactivityDays <= 0 {
		inactivityDays = DefaultInactivityDays
	}

	switch {
	case s.ActiveInjury:
		return RuleInjury, true
	case len(s.CurrentPainFlags) >= 2:
		return RuleMultiplePain, true
	case s.FatigueScore >= HighFatigue:
		return RuleHighFatigue, true
	case s.EnergyContext == models.EnergyDepleted:
		return RuleEnergyDepleted, true
	// Inactive weeks are judged by the inactivity gates below, not by adherence.
	case s.ConsecutiveLowAdherenceWeeks >= LowAdherenceWeeks && s.ConsecutiveInactiveWeeks == 0:
		return RuleLowAdherence, true
	case s.ConsecutiveInactiveWeeks > 0 && inactiveDays(s) >= inactivityDays:
		return RuleInactivity, true
	}
	return "", false
}

func maintainRule(s *models.TrainingState) (RuleID, bool) {
	switch {
	case s.ConsecutiveInactiveWeeks > 0:
		return RuleShortInactivity, true
	case s.Phase == models.PhaseOnboarding:
		return RuleOnboarding, true
	case s.HasPainFlags():
		return RulePainReported, true
	case s.PainHistory && s.ConsecutivePainFreeWeeks < RequiredPainFreeWeeks:
		return RulePainRecovery, true
	case s.WeeksSinceScaleBack != nil && *s.WeeksSinceScaleBack < MinWeeksSinceScaleBack:
		return RulePostScaleBack, true
	case s.AdherenceRate >= LowAdherence && s.AdherenceRate < StableAdherence:
		return RuleModerateAdherence, true
	case s.FatigueScore >= ElevatedFatigue && s.FatigueScore < HighFatigue:
		return RuleElevatedFatigue, true
	case s.EnergyContext == models.EnergyLow:
		return RuleLowEnergy, true
	case min(s.WeekInPhase, s.WeeksAtLevel) < MinWeeksAtLevel:
		return RuleSettlingIn, true
	}
	return "", false
}

func progressionRule(s *models.TrainingState) RuleID {
	switch {
	case s.ConsecutiveStableWeeks >= RequiredStableWeeks &&
		s.WeekInPhase >= 2 &&
		!s.HasPainFlags() &&
		s.ConsecutivePainFreeWeeks >= RequiredPainFreeWeeks:
		return RuleReadyToProgress
	case s.ConsecutiveStableWeeks == 1:
		return RuleOneMoreWeek
	}
	return RuleSteady
}
