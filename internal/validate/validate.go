// ABOUTME: Read-only post-condition checks over an assembled weekly snapshot and over whole runs.
// ABOUTME: Every failure is fatal and carries the offending week and a diagnostic snapshot.
package validate

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/coach/internal/models"
)

// Error classes. Both are fatal; callers must not persist the cycle that produced them.
var (
	ErrInvariantViolation = errors.New("invariant violation")
	ErrCountMismatch      = errors.New("count mismatch")
)

// InvariantError reports a failed check.
type InvariantError struct {
	Week     int
	Check    string
	Detail   string
	Snapshot *models.WeeklySnapshot
	kind     error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("week %d: %s: %s: %s", e.Week, e.kind, e.Check, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	return e.kind
}

const volumeEpsilon = 1e-9

type checker struct {
	s *models.WeeklySnapshot
}

func (c checker) fail(kind error, check, format string, args ...any) error {
	week := 0
	if c.s != nil {
		week = c.s.Week
	}
	return &InvariantError{
		Week:     week,
		Check:    check,
		Detail:   fmt.Sprintf(format, args...),
		Snapshot: c.s,
		kind:     kind,
	}
}

// Snapshot checks one weekly snapshot. It returns the first failure.
func Snapshot(s *models.WeeklySnapshot) error {
	c := checker{s: s}
	if s == nil {
		return c.fail(ErrInvariantViolation, "snapshot", "nil snapshot")
	}

	checks := []func() error{
		c.identity,
		c.state,
		func() error { return c.program("program", s.Program) },
		func() error { return c.program("next_week_program", s.NextWeekProgram) },
		c.completion,
		c.sessions,
		c.decision,
		c.programChange,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c checker) identity() error {
	s := c.s
	if s.Week < 1 {
		return c.fail(ErrInvariantViolation, "week", "week number %d < 1", s.Week)
	}
	if _, err := time.Parse(models.WeekStartLayout, s.WeekStart); err != nil {
		return c.fail(ErrInvariantViolation, "week_start", "%q is not an ISO date", s.WeekStart)
	}
	if !s.Phase.Name.Valid() {
		return c.fail(ErrInvariantViolation, "phase", "unknown phase %q", s.Phase.Name)
	}
	if s.Phase.WeekInPhase < 1 {
		return c.fail(ErrInvariantViolation, "phase", "week_in_phase %d < 1", s.Phase.WeekInPhase)
	}
	return nil
}

func (c checker) state() error {
	st := c.s.State
	if st.Adherence < 0 || st.Adherence > 1 {
		return c.fail(ErrInvariantViolation, "adherence", "%v outside [0,1]", st.Adherence)
	}
	if st.FatigueScore < 0 || st.FatigueScore > 10 {
		return c.fail(ErrInvariantViolation, "fatigue", "%v outside [0,10]", st.FatigueScore)
	}
	if !st.EnergyContext.Valid() {
		return c.fail(ErrInvariantViolation, "energy_context", "unknown energy context %q", st.EnergyContext)
	}
	return nil
}

func (c checker) program(field string, p models.ProgramConfig) error {
	if !p.Intensity.Valid() {
		return c.fail(ErrInvariantViolation, field, "unknown intensity %q", p.Intensity)
	}
	if p.SessionsPerWeek < models.MinSessionsPerWeek || p.SessionsPerWeek > models.MaxSessionsPerWeek {
		return c.fail(ErrInvariantViolation, field, "sessions_per_week %d outside [%d,%d]",
			p.SessionsPerWeek, models.MinSessionsPerWeek, models.MaxSessionsPerWeek)
	}
	if p.DurationMinutes < models.MinDurationMinutes || p.DurationMinutes > models.MaxDurationMinutes {
		return c.fail(ErrInvariantViolation, field, "duration %d outside [%d,%d]",
			p.DurationMinutes, models.MinDurationMinutes, models.MaxDurationMinutes)
	}
	tier := models.Tiers[p.Intensity]
	if p.VolumeMultiplier < tier.VolumeMin-volumeEpsilon || p.VolumeMultiplier > tier.VolumeCap+volumeEpsilon {
		return c.fail(ErrInvariantViolation, field, "volume ×%v outside %s bounds [%v,%v]",
			p.VolumeMultiplier, p.Intensity, tier.VolumeMin, tier.VolumeCap)
	}
	return nil
}

func (c checker) completion() error {
	comp := c.s.Completion
	target := c.s.Program.SessionsPerWeek
	if comp.Raw < 0 {
		return c.fail(ErrInvariantViolation, "completion", "raw %d < 0", comp.Raw)
	}
	if comp.Planned > target {
		return c.fail(ErrCountMismatch, "completion", "planned %d exceeds target %d", comp.Planned, target)
	}
	if want := min(comp.Raw, target); comp.Planned != want {
		return c.fail(ErrCountMismatch, "completion", "planned %d, want min(raw, target) = %d", comp.Planned, want)
	}
	if want := max(0, comp.Raw-target); comp.Extra != want {
		return c.fail(ErrCountMismatch, "completion", "extra %d, want max(0, raw-target) = %d", comp.Extra, want)
	}
	if comp.AdherenceThisWeek < 0 || comp.AdherenceThisWeek > 1 {
		return c.fail(ErrInvariantViolation, "completion", "adherence_this_week %v outside [0,1]", comp.AdherenceThisWeek)
	}
	return nil
}

func (c checker) sessions() error {
	s := c.s
	target := s.Program.SessionsPerWeek
	if len(s.Sessions) != target {
		return c.fail(ErrCountMismatch, "sessions", "generated %d sessions, target %d", len(s.Sessions), target)
	}
	if len(s.MinimumViableSessions) != target {
		return c.fail(ErrCountMismatch, "minimum_viable_sessions", "generated %d sessions, target %d",
			len(s.MinimumViableSessions), target)
	}

	for _, sess := range s.Sessions {
		if sess.MinimumViable {
			return c.fail(ErrInvariantViolation, "sessions", "session %d flagged minimum-viable", sess.Index)
		}
		if sess.Intensity != s.Program.Intensity || sess.DurationMinutes != s.Program.DurationMinutes {
			return c.fail(ErrInvariantViolation, "sessions", "session %d does not match the program", sess.Index)
		}
	}
	for _, sess := range s.MinimumViableSessions {
		if !sess.MinimumViable {
			return c.fail(ErrInvariantViolation, "minimum_viable_sessions", "session %d not flagged minimum-viable", sess.Index)
		}
		if sess.DurationMinutes <= 0 || sess.DurationMinutes > s.Program.DurationMinutes {
			return c.fail(ErrInvariantViolation, "minimum_viable_sessions", "session %d duration %d outside (0,%d]",
				sess.Index, sess.DurationMinutes, s.Program.DurationMinutes)
		}
	}
	return nil
}

func (c checker) decision() error {
	d := c.s.Decision
	if !d.Type.Valid() {
		return c.fail(ErrInvariantViolation, "decision", "unknown decision %q", d.Type)
	}
	if d.Reason == "" || d.Message == "" || d.Tone == "" {
		return c.fail(ErrInvariantViolation, "decision", "incomplete decision block %+v", d)
	}
	if d.Type == models.DecisionScaleBack && c.s.NextWeekProgram != models.RecoveryProgram() {
		return c.fail(ErrInvariantViolation, "decision", "scale_back left next week at %s", c.s.NextWeekProgram)
	}
	return nil
}

func (c checker) programChange() error {
	pc := c.s.ProgramChange
	if !pc.Cause.Valid() {
		return c.fail(ErrInvariantViolation, "program_change", "unknown cause %q", pc.Cause)
	}
	changed := c.s.Program != c.s.NextWeekProgram
	if pc.Occurred != changed {
		return c.fail(ErrInvariantViolation, "program_change", "occurred=%v but program changed=%v", pc.Occurred, changed)
	}
	return nil
}

// RunTotals are the running grand totals kept alongside a multi-week run.
type RunTotals struct {
	RawSessions     int
	PlannedSessions int
}

// Tally counts decisions by type.
func Tally(snapshots []*models.WeeklySnapshot) map[models.Decision]int {
	out := make(map[models.Decision]int, len(models.AllDecisions))
	for _, s := range snapshots {
		out[s.Decision.Type]++
	}
	return out
}

// Run checks every snapshot, week contiguity, summed totals, and the decision tally.
func Run(snapshots []*models.WeeklySnapshot, totals RunTotals) error {
	var raw, planned int
	for i, s := range snapshots {
		if err := Snapshot(s); err != nil {
			return err
		}
		if i > 0 && s.Week != snapshots[i-1].Week+1 {
			return checker{s: s}.fail(ErrInvariantViolation, "contiguity", "week %d follows week %d", s.Week, snapshots[i-1].Week)
		}
		raw += s.Completion.Raw
		planned += s.Completion.Planned
	}

	last := checker{}
	if n := len(snapshots); n > 0 {
		last.s = snapshots[n-1]
	}
	if raw != totals.RawSessions {
		return last.fail(ErrCountMismatch, "totals", "summed raw %d, running total %d", raw, totals.RawSessions)
	}
	if planned != totals.PlannedSessions {
		return last.fail(ErrCountMismatch, "totals", "summed planned %d, running total %d", planned, totals.PlannedSessions)
	}

	sum := 0
	for d, n := range Tally(snapshots) {
		if !d.Valid() {
			return last.fail(ErrInvariantViolation, "tally", "unknown decision %q", d)
		}
		sum += n
	}
	if sum != len(snapshots) {
		return last.fail(ErrCountMismatch, "tally", "decision tally %d, weeks %d", sum, len(snapshots))
	}
	return nil
}
