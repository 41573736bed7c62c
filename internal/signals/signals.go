// ABOUTME: Signal aggregators that turn raw check-ins into derived modulators.
// ABOUTME: Fatigue score (0-10), energy context, and clamped two-week adherence.
package signals

import (
	"errors"
	"fmt"

	"github.com/harperreed/coach/internal/models"
)

// ErrUnknownCategory is returned when a check-in carries a value outside its enumeration.
var ErrUnknownCategory = errors.New("signals: unknown check-in category")

// MaxFatigue is the upper clamp of the fatigue score.
const MaxFatigue = 10.0

// SleepPenalty maps a sleep category to its fatigue contribution.
func SleepPenalty(s models.SleepQuality) (int, error) {
	switch s {
	case models.SleepPoor:
		return 4, nil
	case models.SleepFair:
		return 2, nil
	case models.SleepGood:
		return 1, nil
	case models.SleepGreat:
		return 0, nil
	}
	return 0, fmt.Errorf("%w: sleep %q", ErrUnknownCategory, s)
}

// StressPenalty maps a stress category to its fatigue contribution.
func StressPenalty(s models.StressLevel) (int, error) {
	switch s {
	case models.StressLow:
		return 0, nil
	case models.StressModerate:
		return 1, nil
	case models.StressHigh:
		return 3, nil
	case models.StressOverwhelming:
		return 4, nil
	}
	return 0, fmt.Errorf("%w: stress %q", ErrUnknownCategory, s)
}

// ReadinessPenalty maps a readiness category to its fatigue contribution.
func ReadinessPenalty(r models.Readiness) (int, error) {
	switch r {
	case models.ReadinessStrong, models.ReadinessGood:
		return 0, nil
	case models.ReadinessOkay:
		return 1, nil
	case models.ReadinessDrag:
		return 2, nil
	}
	return 0, fmt.Errorf("%w: readiness %q", ErrUnknownCategory, r)
}

// CheckInPenalty is the summed penalty of a single check-in.
func CheckInPenalty(c models.WeeklyCheckIn) (int, error) {
	sleep, err := SleepPenalty(c.Sleep)
	if err != nil {
		return 0, err
	}
	stress, err := StressPenalty(c.Stress)
	if err != nil {
		return 0, err
	}
	readiness, err := ReadinessPenalty(c.Readiness)
	if err != nil {
		return 0, err
	}
	return sleep + stress + readiness, nil
}

// FatigueScore averages the penalties of the last two check-ins, clamped to [0, 10].
// No check-ins means no evidence of fatigue, so the score is 0.
func FatigueScore(checkIns []models.WeeklyCheckIn) (float64, error) {
	window := models.Tail(checkIns, models.FatigueWindow)
	if len(window) == 0 {
		return 0, nil
	}

	total := 0
	for _, c := range window {
		p, err := CheckInPenalty(c)
		if err != nil {
			return 0, fmt.Errorf("score fatigue: %w", err)
		}
		total += p
	}

	score := float64(total) / float64(len(window))
	if score > MaxFatigue {
		score = MaxFatigue
	}
	return score, nil
}

// ClassifyEnergy reads the last four energy checks.
//
// Depleted wins when at least two checks pair low energy with uncertain or
// likely-insufficient eating; otherwise three low readings mean low and three
// high readings mean high.
func ClassifyEnergy(checks []models.EnergyCheck) (models.EnergyContext, error) {
	window := models.Tail(checks, models.EnergyWindow)
	if len(window) == 0 {
		return models.EnergyNormal, nil
	}

	var low, high, underfueled int
	for _, c := range window {
		switch c.Level {
		case models.EnergyLevelLow:
			low++
		case models.EnergyLevelHigh:
			high++
		case models.EnergyLevelModerate:
		default:
			return "", fmt.Errorf("classify energy: %w: level %q", ErrUnknownCategory, c.Level)
		}

		switch c.Eating {
		case models.EatingEnough:
		case models.EatingUncertain, models.EatingLikelyInsufficient:
			if c.Level == models.EnergyLevelLow {
				underfueled++
			}
		default:
			return "", fmt.Errorf("classify energy: %w: eating %q", ErrUnknownCategory, c.Eating)
		}
	}

	switch {
	case underfueled >= 2:
		return models.EnergyDepleted, nil
	case low >= 3:
		return models.EnergyLow, nil
	case high >= 3:
		return models.EnergyHigh, nil
	default:
		return models.EnergyNormal, nil
	}
}

// ClampedAdherence divides completed sessions in the trailing window by the
// window's target, capping completions at the target first so that
// over-completion cannot push adherence above 1.
func ClampedAdherence(completed, weeklyTarget, weeks int) float64 {
	if weeklyTarget <= 0 || weeks <= 0 {
		return 0
	}
	capacity := weeklyTarget * weeks
	if completed > capacity {
		completed = capacity
	}
	if completed < 0 {
		completed = 0
	}
	return float64(completed) / float64(capacity)
}

// WeeklyAdherence is the single-week completion ratio capped at 1.
func WeeklyAdherence(raw, target int) float64 {
	return ClampedAdherence(raw, target, 1)
}
