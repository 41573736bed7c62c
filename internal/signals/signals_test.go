// ABOUTME: Tests for the fatigue scorer, energy classifier, and adherence clamp.
// ABOUTME: Table-driven checks of every category mapping and window boundary.
package signals

import (
	"errors"
	"testing"

	"github.com/harperreed/coach/internal/models"
)

func checkIn(s models.SleepQuality, st models.StressLevel, r models.Readiness) models.WeeklyCheckIn {
	return models.WeeklyCheckIn{Sleep: s, Stress: st, Readiness: r}
}

func TestFatigueScore(t *testing.T) {
	tests := []struct {
		name     string
		checkIns []models.WeeklyCheckIn
		want     float64
	}{
		{
			name: "no check-ins",
			want: 0,
		},
		{
			name:     "single great week",
			checkIns: []models.WeeklyCheckIn{checkIn(models.SleepGreat, models.StressLow, models.ReadinessStrong)},
			want:     0,
		},
		{
			name:     "single worst week",
			checkIns: []models.WeeklyCheckIn{checkIn(models.SleepPoor, models.StressOverwhelming, models.ReadinessDrag)},
			want:     10,
		},
		{
			name: "average of two",
			checkIns: []models.WeeklyCheckIn{
				checkIn(models.SleepGood, models.StressLow, models.ReadinessGood),  // 1
				checkIn(models.SleepFair, models.StressHigh, models.ReadinessOkay), // 6
			},
			want: 3.5,
		},
		{
			name: "only last two count",
			checkIns: []models.WeeklyCheckIn{
				checkIn(models.SleepPoor, models.StressOverwhelming, models.ReadinessDrag),
				checkIn(models.SleepGreat, models.StressLow, models.ReadinessStrong),
				checkIn(models.SleepGood, models.StressModerate, models.ReadinessGood),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FatigueScore(tt.checkIns)
			if err != nil {
				t.Fatalf("FatigueScore unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FatigueScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFatigueScoreUnknownCategory(t *testing.T) {
	_, err := FatigueScore([]models.WeeklyCheckIn{{Sleep: "restless", Stress: models.StressLow, Readiness: models.ReadinessGood}})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestPenaltyTables(t *testing.T) {
	sleep := map[models.SleepQuality]int{models.SleepPoor: 4, models.SleepFair: 2, models.SleepGood: 1, models.SleepGreat: 0}
	for _, s := range models.AllSleepQualities {
		got, err := SleepPenalty(s)
		if err != nil || got != sleep[s] {
			t.Errorf("SleepPenalty(%s) = %d, %v", s, got, err)
		}
	}

	stress := map[models.StressLevel]int{models.StressLow: 0, models.StressModerate: 1, models.StressHigh: 3, models.StressOverwhelming: 4}
	for _, s := range models.AllStressLevels {
		got, err := StressPenalty(s)
		if err != nil || got != stress[s] {
			t.Errorf("StressPenalty(%s) = %d, %v", s, got, err)
		}
	}

	readiness := map[models.Readiness]int{models.ReadinessStrong: 0, models.ReadinessGood: 0, models.ReadinessOkay: 1, models.ReadinessDrag: 2}
	for _, r := range models.AllReadiness {
		got, err := ReadinessPenalty(r)
		if err != nil || got != readiness[r] {
			t.Errorf("ReadinessPenalty(%s) = %d, %v", r, got, err)
		}
	}
}

func energy(l models.EnergyLevel, e models.EatingSufficiency) models.EnergyCheck {
	return models.EnergyCheck{Level: l, Eating: e}
}

func TestClassifyEnergy(t *testing.T) {
	low, mod, high := models.EnergyLevelLow, models.EnergyLevelModerate, models.EnergyLevelHigh
	enough, unsure, under := models.EatingEnough, models.EatingUncertain, models.EatingLikelyInsufficient

	tests := []struct {
		name   string
		checks []models.EnergyCheck
		want   models.EnergyContext
	}{
		{"no data", nil, models.EnergyNormal},
		{"depleted", []models.EnergyCheck{energy(low, unsure), energy(mod, enough), energy(low, under)}, models.EnergyDepleted},
		{"low but fed", []models.EnergyCheck{energy(low, enough), energy(low, enough), energy(low, unsure), energy(high, enough)}, models.EnergyLow},
		{"high", []models.EnergyCheck{energy(high, enough), energy(high, enough), energy(high, unsure)}, models.EnergyHigh},
		{"mixed", []models.EnergyCheck{energy(high, enough), energy(low, enough), energy(mod, enough), energy(high, enough)}, models.EnergyNormal},
		{
			name: "old depletion falls out of window",
			checks: []models.EnergyCheck{
				energy(low, under), energy(low, under),
				energy(mod, enough), energy(mod, enough), energy(high, enough), energy(mod, enough),
			},
			want: models.EnergyNormal,
		},
		{"depleted beats low", []models.EnergyCheck{energy(low, under), energy(low, under), energy(low, enough)}, models.EnergyDepleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyEnergy(tt.checks)
			if err != nil {
				t.Fatalf("ClassifyEnergy unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ClassifyEnergy = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyEnergyUnknownCategory(t *testing.T) {
	if _, err := ClassifyEnergy([]models.EnergyCheck{{Level: "buzzing", Eating: models.EatingEnough}}); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
	if _, err := ClassifyEnergy([]models.EnergyCheck{{Level: models.EnergyLevelLow, Eating: "feast"}}); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestClampedAdherence(t *testing.T) {
	tests := []struct {
		name                     string
		completed, target, weeks int
		want                     float64
	}{
		{"perfect", 6, 3, 2, 1},
		{"over-completion capped", 10, 3, 2, 1},
		{"half", 3, 3, 2, 0.5},
		{"first week", 2, 4, 1, 0.5},
		{"zero target", 3, 0, 2, 0},
		{"none", 0, 3, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampedAdherence(tt.completed, tt.target, tt.weeks); got != tt.want {
				t.Errorf("ClampedAdherence = %v, want %v", got, tt.want)
			}
		})
	}
}
