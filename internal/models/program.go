// ABOUTME: ProgramConfig, ProgramConstraints, and per-tier limits.
// ABOUTME: Defines the default, recovery, and unconstrained program values.
package models

import "fmt"

// Absolute program bounds.
const (
	MinSessionsPerWeek = 2
	MaxSessionsPerWeek = 4
	MinDurationMinutes = 15
	MaxDurationMinutes = 60
	BaselineVolume     = 1.0
)

// VolumeLadder is the ascending sequence of allowed volume multipliers.
var VolumeLadder = []float64{1.0, 1.1, 1.2}

// TierLimits are the duration and volume bounds attached to an intensity tier.
type TierLimits struct {
	BaselineDuration int
	MaxDuration      int
	VolumeMin        float64
	VolumeCap        float64
}

// Tiers maps every intensity to its limits.
var Tiers = map[Intensity]TierLimits{
	IntensityLight:       {BaselineDuration: 20, MaxDuration: 30, VolumeMin: 1.0, VolumeCap: 1.2},
	IntensityModerate:    {BaselineDuration: 30, MaxDuration: 45, VolumeMin: 1.0, VolumeCap: 1.1},
	IntensityChallenging: {BaselineDuration: 45, MaxDuration: 60, VolumeMin: 1.0, VolumeCap: 1.0},
}

// ProgramConfig is what is currently prescribed.
type ProgramConfig struct {
	SessionsPerWeek  int       `json:"sessions_per_week" yaml:"sessions_per_week"`
	Intensity        Intensity `json:"intensity" yaml:"intensity"`
	DurationMinutes  int       `json:"duration_minutes" yaml:"duration_minutes"`
	VolumeMultiplier float64   `json:"volume_multiplier" yaml:"volume_multiplier"`
}

// String renders the program on one line.
func (p ProgramConfig) String() string {
	return fmt.Sprintf("%d×/week, %s, %d min, volume ×%.1f",
		p.SessionsPerWeek, p.Intensity, p.DurationMinutes, p.VolumeMultiplier)
}

// DefaultProgram is prescribed at onboarding.
func DefaultProgram() ProgramConfig {
	return ProgramConfig{
		SessionsPerWeek:  3,
		Intensity:        IntensityLight,
		DurationMinutes:  20,
		VolumeMultiplier: BaselineVolume,
	}
}

// RecoveryProgram is the fixed configuration installed by a scale-back.
func RecoveryProgram() ProgramConfig {
	return ProgramConfig{
		SessionsPerWeek:  MinSessionsPerWeek,
		Intensity:        IntensityLight,
		DurationMinutes:  MinDurationMinutes,
		VolumeMultiplier: BaselineVolume,
	}
}

// ProgramConstraints are ceilings for each ProgramConfig field.
type ProgramConstraints struct {
	MaxSessionsPerWeek  int       `json:"max_sessions_per_week" yaml:"max_sessions_per_week"`
	MaxIntensity        Intensity `json:"max_intensity" yaml:"max_intensity"`
	MaxDurationMinutes  int       `json:"max_duration_minutes" yaml:"max_duration_minutes"`
	MaxVolumeMultiplier float64   `json:"max_volume_multiplier" yaml:"max_volume_multiplier"`
}

// OpenConstraints returns ceilings that restrict nothing.
func OpenConstraints() ProgramConstraints {
	return ProgramConstraints{
		MaxSessionsPerWeek:  MaxSessionsPerWeek,
		MaxIntensity:        IntensityChallenging,
		MaxDurationMinutes:  MaxDurationMinutes,
		MaxVolumeMultiplier: VolumeLadder[len(VolumeLadder)-1],
	}
}

// ConstraintsFrom pins every ceiling to exactly the given program.
func ConstraintsFrom(p ProgramConfig) ProgramConstraints {
	return ProgramConstraints{
		MaxSessionsPerWeek:  p.SessionsPerWeek,
		MaxIntensity:        p.Intensity,
		MaxDurationMinutes:  p.DurationMinutes,
		MaxVolumeMultiplier: p.VolumeMultiplier,
	}
}

// Relax returns the per-field maximum of the ceilings and the achieved program.
func (c ProgramConstraints) Relax(p ProgramConfig) ProgramConstraints {
	out := c
	if p.SessionsPerWeek > out.MaxSessionsPerWeek {
		out.MaxSessionsPerWeek = p.SessionsPerWeek
	}
	out.MaxIntensity = MaxIntensity(out.MaxIntensity, p.Intensity)
	if p.DurationMinutes > out.MaxDurationMinutes {
		out.MaxDurationMinutes = p.DurationMinutes
	}
	if p.VolumeMultiplier > out.MaxVolumeMultiplier {
		out.MaxVolumeMultiplier = p.VolumeMultiplier
	}
	return out
}

// Allows reports whether every field of p is within the ceilings.
func (c ProgramConstraints) Allows(p ProgramConfig) bool {
	return p.SessionsPerWeek <= c.MaxSessionsPerWeek &&
		p.Intensity.Rank() <= c.MaxIntensity.Rank() &&
		p.DurationMinutes <= c.MaxDurationMinutes &&
		p.VolumeMultiplier <= c.MaxVolumeMultiplier+volumeEpsilon
}

const volumeEpsilon = 1e-9

// NearestLadderIndex returns the index of the ladder value closest to v.
// Ties resolve to the lower rung.
func NearestLadderIndex(v float64) int {
	best := 0
	for i, rung := range VolumeLadder {
		if abs(rung-v) < abs(VolumeLadder[best]-v)-volumeEpsilon {
			best = i
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
