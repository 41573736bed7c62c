// ABOUTME: Tests for the decision evaluator's rule precedence.
// ABOUTME: Each gate is exercised against an otherwise progression-ready state.
package decision

import (
	"testing"
	"time"

	"github.com/harperreed/coach/internal/models"
)

// readyState passes every gate and would progress.
func readyState() *models.TrainingState {
	s := models.NewTrainingState("u1", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))
	s.Phase = models.PhaseBuilding
	s.WeekInPhase = 3
	s.WeeksAtLevel = 3
	s.AdherenceRate = 1
	s.FatigueScore = 1
	s.EnergyContext = models.EnergyNormal
	s.ConsecutiveStableWeeks = 2
	s.ConsecutivePainFreeWeeks = 4
	return s
}

func intPtr(i int) *int { return &i }

func TestEvaluateRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(s *models.TrainingState)
		want     models.Decision
		wantRule RuleID
	}{
		{"ready", func(s *models.TrainingState) {}, models.DecisionProgress, RuleReadyToProgress},
		{"active injury", func(s *models.TrainingState) { s.ActiveInjury = true }, models.DecisionScaleBack, RuleInjury},
		{"two pain reports", func(s *models.TrainingState) { s.CurrentPainFlags = []string{"knee", "back"} }, models.DecisionScaleBack, RuleMultiplePain},
		{"fatigue 7", func(s *models.TrainingState) { s.FatigueScore = 7 }, models.DecisionScaleBack, RuleHighFatigue},
		{"depleted", func(s *models.TrainingState) { s.EnergyContext = models.EnergyDepleted }, models.DecisionScaleBack, RuleEnergyDepleted},
		{"low adherence two weeks", func(s *models.TrainingState) {
			s.AdherenceRate = 0.3
			s.ConsecutiveLowAdherenceWeeks = 2
		}, models.DecisionScaleBack, RuleLowAdherence},
		{"inactive three weeks", func(s *models.TrainingState) {
			s.ConsecutiveInactiveWeeks = 3
			s.ConsecutiveLowAdherenceWeeks = 3
			s.AdherenceRate = 0
		}, models.DecisionScaleBack, RuleInactivity},
		{"inactive one week", func(s *models.TrainingState) {
			s.ConsecutiveInactiveWeeks = 1
			s.ConsecutiveLowAdherenceWeeks = 2
		}, models.DecisionMaintain, RuleShortInactivity},
		{"inactive two weeks", func(s *models.TrainingState) { s.ConsecutiveInactiveWeeks = 2 }, models.DecisionMaintain, RuleShortInactivity},
		{"onboarding", func(s *models.TrainingState) { s.Phase = models.PhaseOnboarding }, models.DecisionMaintain, RuleOnboarding},
		{"single pain report", func(s *models.TrainingState) {
			s.CurrentPainFlags = []string{"knee"}
			s.PainHistory = true
			s.ConsecutivePainFreeWeeks = 0
		}, models.DecisionMaintain, RulePainReported},
		{"pain history recovering", func(s *models.TrainingState) {
			s.PainHistory = true
			s.ConsecutivePainFreeWeeks = 1
		}, models.DecisionMaintain, RulePainRecovery},
		{"just scaled back", func(s *models.TrainingState) { s.WeeksSinceScaleBack = intPtr(1) }, models.DecisionMaintain, RulePostScaleBack},
		{"moderate adherence", func(s *models.TrainingState) { s.AdherenceRate = 0.5 }, models.DecisionMaintain, RuleModerateAdherence},
		{"elevated fatigue", func(s *models.TrainingState) { s.FatigueScore = 5 }, models.DecisionMaintain, RuleElevatedFatigue},
		{"low energy", func(s *models.TrainingState) { s.EnergyContext = models.EnergyLow }, models.DecisionMaintain, RuleLowEnergy},
		{"new phase", func(s *models.TrainingState) { s.WeekInPhase = 1 }, models.DecisionMaintain, RuleSettlingIn},
		{"new level", func(s *models.TrainingState) { s.WeeksAtLevel = 1 }, models.DecisionMaintain, RuleSettlingIn},
		{"one stable week", func(s *models.TrainingState) { s.ConsecutiveStableWeeks = 1 }, models.DecisionMaintain, RuleOneMoreWeek},
		{"no stable weeks", func(s *models.TrainingState) { s.ConsecutiveStableWeeks = 0 }, models.DecisionMaintain, RuleSteady},
		{"scaled back long ago", func(s *models.TrainingState) { s.WeeksSinceScaleBack = intPtr(5) }, models.DecisionProgress, RuleReadyToProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := readyState()
			tt.mutate(s)

			got := Evaluate(s, DefaultThresholds())
			if got.Decision != tt.want {
				t.Errorf("Decision = %s, want %s (rule %s)", got.Decision, tt.want, got.Rule)
			}
			if got.Rule != tt.wantRule {
				t.Errorf("Rule = %s, want %s", got.Rule, tt.wantRule)
			}
		})
	}
}

func TestInjuryOutranksLowAdherence(t *testing.T) {
	s := readyState()
	s.ActiveInjury = true
	s.AdherenceRate = 0.2
	s.ConsecutiveLowAdherenceWeeks = 2

	got := Evaluate(s, DefaultThresholds())
	if got.Decision != models.DecisionScaleBack || got.Rule != RuleInjury {
		t.Errorf("got %s/%s, want scale_back/injury", got.Decision, got.Rule)
	}
	if got.Reason != table[RuleInjury].reason {
		t.Errorf("Reason = %q, want the injury reason", got.Reason)
	}
}

func TestInactivityThresholdIsConfigurable(t *testing.T) {
	s := readyState()
	s.ConsecutiveInactiveWeeks = 2

	if got := Evaluate(s, Thresholds{InactivityDays: 14}); got.Rule != RuleInactivity {
		t.Errorf("with 14-day threshold got %s, want inactivity", got.Rule)
	}
	if got := Evaluate(s, Thresholds{}); got.Rule != RuleShortInactivity {
		t.Errorf("zero threshold should fall back to the default, got %s", got.Rule)
	}
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	s := readyState()
	before := s.Clone()
	Evaluate(s, DefaultThresholds())

	if s.ConsecutiveStableWeeks != before.ConsecutiveStableWeeks || s.Program != before.Program || s.Phase != before.Phase {
		t.Error("Evaluate mutated the state")
	}
}

func TestStableWeek(t *testing.T) {
	tests := []struct {
		adherence, fatigue float64
		energy             models.EnergyContext
		want               bool
	}{
		{0.75, 4.5, models.EnergyNormal, true},
		{1, 0, models.EnergyHigh, true},
		{0.74, 0, models.EnergyNormal, false},
		{1, 5, models.EnergyNormal, false},
		{1, 0, models.EnergyLow, false},
		{1, 0, models.EnergyDepleted, false},
	}
	for _, tt := range tests {
		if got := StableWeek(tt.adherence, tt.fatigue, tt.energy); got != tt.want {
			t.Errorf("StableWeek(%v, %v, %s) = %v, want %v", tt.adherence, tt.fatigue, tt.energy, got, tt.want)
		}
	}
}

func TestEveryRuleHasTableEntry(t *testing.T) {
	rules := []RuleID{
		RuleInjury, RuleMultiplePain, RuleHighFatigue, RuleEnergyDepleted, RuleLowAdherence,
		RuleInactivity, RuleShortInactivity, RuleOnboarding, RulePainReported, RulePainRecovery,
		RulePostScaleBack, RuleModerateAdherence, RuleElevatedFatigue, RuleLowEnergy, RuleSettlingIn,
		RuleOneMoreWeek, RuleReadyToProgress, RuleAtTrueCeiling, RuleBlocked, RuleSteady,
	}
	for _, r := range rules {
		res := ResultFor(r)
		if res.Reason == "" || res.Message == "" || res.Tone == "" || !res.Decision.Valid() {
			t.Errorf("rule %s has an incomplete entry: %+v", r, res)
		}
	}
	if len(rules) != len(table) {
		t.Errorf("table has %d entries, test lists %d rules", len(table), len(rules))
	}
}
