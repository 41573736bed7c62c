// ABOUTME: Program mutator applying a weekly decision to ProgramConfig and ProgramConstraints.
// ABOUTME: Implements the progression ladder, scale-back reset, and the constraint ratchet.
package program

import (
	"errors"
	"fmt"

	"github.com/harperreed/coach/internal/models"
)

// ErrUnknownDecision is returned for a decision outside the closed enumeration.
var ErrUnknownDecision = errors.New("program: unknown decision")

// ErrInvalidProgram is returned when the incoming program has no tier limits.
var ErrInvalidProgram = errors.New("program: invalid program")

// DefaultReearnWeeks is how long after a scale-back blocked ceilings start loosening.
const DefaultReearnWeeks = 3

// DurationNotch is how far a re-earned duration ceiling moves per step.
const DurationNotch = 10

const volumeEpsilon = 1e-9

// Context carries the counters the mutator reads but never writes.
type Context struct {
	// WeeksSinceScaleBack is nil when the user has never scaled back.
	WeeksSinceScaleBack *int
	ReearnWeeks         int
}

// Mutation describes the effect of one decision on the program.
type Mutation struct {
	Old            models.ProgramConfig
	New            models.ProgramConfig
	OldConstraints models.ProgramConstraints
	NewConstraints models.ProgramConstraints
	Cause          models.ChangeCause
	Changed        bool
	Description    string
	// Reset is set when an intensity step reset volume and duration.
	Reset bool
	// Reearned is set when ceilings were loosened after a long enough recovery.
	Reearned bool
}

// Blocked reports whether a progress decision could not be applied.
func (m Mutation) Blocked() bool {
	return m.Cause == models.CauseAtTrueCeiling || m.Cause == models.CauseBlockedByConstraints
}

// Apply returns the mutation a decision produces. Inputs are never modified.
func Apply(d models.Decision, p models.ProgramConfig, c models.ProgramConstraints, ctx Context) (Mutation, error) {
	if _, ok := models.Tiers[p.Intensity]; !ok {
		return Mutation{}, fmt.Errorf("apply %s: %w: intensity %q", d, ErrInvalidProgram, p.Intensity)
	}

	m := Mutation{
		Old:            p,
		New:            p,
		OldConstraints: c,
		NewConstraints: c,
		Cause:          models.CauseNone,
	}

	switch d {
	case models.DecisionMaintain:
		m.Description = "No change"
	case models.DecisionScaleBack:
		scaleBack(&m)
	case models.DecisionProgress:
		progress(&m, ctx)
	default:
		return Mutation{}, fmt.Errorf("apply: %w: %q", ErrUnknownDecision, d)
	}

	m.Changed = m.New != m.Old
	return m, nil
}

func scaleBack(m *Mutation) {
	m.New = models.RecoveryProgram()
	m.NewConstraints = models.ConstraintsFrom(m.New)
	m.Cause = models.CauseScaleBackReset
	m.Description = fmt.Sprintf("Reset to recovery program (%s)", m.New)
}

func progress(m *Mutation, ctx Context) {
	if next, cause, ok := step(m.Old, m.OldConstraints); ok {
		finishStep(m, next, cause, m.OldConstraints)
		return
	}

	if !atTrueCeiling(m.Old) && canReearn(ctx) {
		loosened := Loosen(m.OldConstraints)
		if next, cause, ok := step(m.Old, loosened); ok {
			m.Reearned = true
			finishStep(m, next, cause, loosened)
			return
		}
	}

	if atTrueCeiling(m.Old) {
		m.Cause = models.CauseAtTrueCeiling
		m.Description = "Already at the top of the program"
		return
	}
	m.Cause = models.CauseBlockedByConstraints
	m.Description = describeBlocked(m.Old, m.OldConstraints)
}

func finishStep(m *Mutation, next models.ProgramConfig, cause models.ChangeCause, ceilings models.ProgramConstraints) {
	m.New = next
	m.Cause = cause
	m.Reset = cause == models.CauseIntensityProgression
	m.NewConstraints = ceilings.Relax(next)
	m.Description = describeStep(m.Old, next, cause)
}

func canReearn(ctx Context) bool {
	weeks := ctx.ReearnWeeks
	if weeks <= 0 {
		weeks = DefaultReearnWeeks
	}
	return ctx.WeeksSinceScaleBack != nil && *ctx.WeeksSinceScaleBack >= weeks
}

// step walks the progression ladder once against the given ceilings.
func step(p models.ProgramConfig, c models.ProgramConstraints) (models.ProgramConfig, models.ChangeCause, bool) {
	tier := models.Tiers[p.Intensity]
	next := p

	if p.DurationMinutes < tier.BaselineDuration && p.DurationMinutes < c.MaxDurationMinutes {
		next.DurationMinutes = min(tier.BaselineDuration, c.MaxDurationMinutes)
		return next, models.CauseDurationProgression, true
	}

	volumeCap := min(tier.VolumeCap, c.MaxVolumeMultiplier)
	if p.VolumeMultiplier < volumeCap-volumeEpsilon {
		idx := models.NearestLadderIndex(p.VolumeMultiplier)
		if idx+1 < len(models.VolumeLadder) && models.VolumeLadder[idx+1] <= volumeCap+volumeEpsilon {
			next.VolumeMultiplier = models.VolumeLadder[idx+1]
			return next, models.CauseVolumeProgression, true
		}
	}

	if harder, ok := p.Intensity.Next(); ok && harder.Rank() <= c.MaxIntensity.Rank() {
		next.Intensity = harder
		next.VolumeMultiplier = models.BaselineVolume
		next.DurationMinutes = min(models.Tiers[harder].BaselineDuration, c.MaxDurationMinutes)
		return next, models.CauseIntensityProgression, true
	}

	return p, "", false
}

func atTrueCeiling(p models.ProgramConfig) bool {
	if _, harder := p.Intensity.Next(); harder {
		return false
	}
	tier := models.Tiers[p.Intensity]
	return p.DurationMinutes >= tier.MaxDuration && p.VolumeMultiplier <= tier.VolumeMin+volumeEpsilon
}

// Loosen moves every ceiling one notch toward OpenConstraints.
func Loosen(c models.ProgramConstraints) models.ProgramConstraints {
	open := models.OpenConstraints()
	out := c

	out.MaxSessionsPerWeek = min(c.MaxSessionsPerWeek+1, open.MaxSessionsPerWeek)
	if harder, ok := c.MaxIntensity.Next(); ok {
		out.MaxIntensity = harder
	}
	out.MaxDurationMinutes = min(c.MaxDurationMinutes+DurationNotch, open.MaxDurationMinutes)

	idx := models.NearestLadderIndex(c.MaxVolumeMultiplier)
	if idx+1 < len(models.VolumeLadder) {
		out.MaxVolumeMultiplier = models.VolumeLadder[idx+1]
	}
	if out.MaxVolumeMultiplier > open.MaxVolumeMultiplier {
		out.MaxVolumeMultiplier = open.MaxVolumeMultiplier
	}
	return out
}

func describeStep(old, next models.ProgramConfig, cause models.ChangeCause) string {
	switch cause {
	case models.CauseDurationProgression:
		return fmt.Sprintf("Session duration %d → %d min", old.DurationMinutes, next.DurationMinutes)
	case models.CauseVolumeProgression:
		return fmt.Sprintf("Volume ×%.1f → ×%.1f", old.VolumeMultiplier, next.VolumeMultiplier)
	case models.CauseIntensityProgression:
		return fmt.Sprintf("Intensity %s → %s (volume reset to ×%.1f, duration %d min)",
			old.Intensity, next.Intensity, next.VolumeMultiplier, next.DurationMinutes)
	}
	return string(cause)
}

// describeBlocked names the ceiling that stopped the next ladder step. When no
// step exists even without ceilings, nothing is blamed.
func describeBlocked(p models.ProgramConfig, c models.ProgramConstraints) string {
	_, cause, ok := step(p, models.OpenConstraints())
	if !ok {
		return "No further progression step at this level"
	}
	switch cause {
	case models.CauseDurationProgression:
		return fmt.Sprintf("Progression held by duration limit (%d min)", c.MaxDurationMinutes)
	case models.CauseVolumeProgression:
		return fmt.Sprintf("Progression held by volume limit (×%.1f)", c.MaxVolumeMultiplier)
	case models.CauseIntensityProgression:
		return fmt.Sprintf("Progression held by intensity limit (%s)", c.MaxIntensity)
	}
	return "No further progression step at this level"
}
