// ABOUTME: Weekly cycle orchestration: signals, decision, mutation, phase, sessions, validation.
// ABOUTME: Works on a cloned candidate state and commits it only after the snapshot validates.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/harperreed/coach/internal/decision"
	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/phase"
	"github.com/harperreed/coach/internal/program"
	"github.com/harperreed/coach/internal/session"
	"github.com/harperreed/coach/internal/signals"
	"github.com/harperreed/coach/internal/validate"
)

// ErrInvalidInput is returned for weekly input the engine cannot process.
var ErrInvalidInput = errors.New("engine: invalid input")

// Rolling windows expressed in weeks of history.
const (
	adherenceWindowWeeks = 2
	rolling30Weeks       = 4
)

// Options tune an Engine.
type Options struct {
	Thresholds  decision.Thresholds
	ReearnWeeks int
	Logger      log.FieldLogger
	Now         func() time.Time
	NewID       func() uuid.UUID
}

// Engine runs weekly cycles. It keeps no per-user state and is safe for concurrent use
// as long as each TrainingState is advanced by one caller at a time.
type Engine struct {
	gen         *session.Generator
	thresholds  decision.Thresholds
	reearnWeeks int
	log         log.FieldLogger
	now         func() time.Time
	newID       func() uuid.UUID
}

// New builds an engine around a session generator.
func New(gen *session.Generator, opts Options) *Engine {
	e := &Engine{
		gen:         gen,
		thresholds:  opts.Thresholds,
		reearnWeeks: opts.ReearnWeeks,
		log:         opts.Logger,
		now:         opts.Now,
		newID:       opts.NewID,
	}
	if e.thresholds.InactivityDays <= 0 {
		e.thresholds = decision.DefaultThresholds()
	}
	if e.reearnWeeks <= 0 {
		e.reearnWeeks = program.DefaultReearnWeeks
	}
	if e.log == nil {
		e.log = log.StandardLogger()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.New
	}
	return e
}

// NewDefault builds an engine over the embedded exercise library.
func NewDefault(opts Options) (*Engine, error) {
	lib, err := session.DefaultLibrary()
	if err != nil {
		return nil, fmt.Errorf("load default library: %w", err)
	}
	return New(session.NewGenerator(lib), opts), nil
}

// Generator returns the engine's session generator.
func (e *Engine) Generator() *session.Generator {
	return e.gen
}

// Advance runs one weekly cycle for state. On success state is replaced by the
// next week's state and the validated snapshot is returned. On any error state
// is left untouched.
func (e *Engine) Advance(state *models.TrainingState, in models.WeeklyInput) (*models.WeeklySnapshot, error) {
	if state == nil {
		return nil, fmt.Errorf("advance: %w: nil state", ErrInvalidInput)
	}
	if in.RawSessions < 0 {
		return nil, fmt.Errorf("advance week %d: %w: raw sessions %d", state.WeekNumber, ErrInvalidInput, in.RawSessions)
	}

	c := state.Clone()
	week := c.WeekNumber
	used := c.Program
	evaluatedIn := models.PhaseContext{Name: c.Phase, WeekInPhase: c.WeekInPhase}
	recent := c.RecentExercises

	completion := recordCompletion(c, in.RawSessions)
	if err := recordSignals(c, in); err != nil {
		return nil, fmt.Errorf("advance week %d: %w", week, err)
	}
	recordPain(c, in)
	notes := SafetyNotes(c)

	c.WeeksAtLevel++
	if c.WeeksSinceScaleBack != nil {
		*c.WeeksSinceScaleBack++
	}
	if decision.StableWeek(c.AdherenceRate, c.FatigueScore, c.EnergyContext) {
		c.ConsecutiveStableWeeks++
	} else {
		c.ConsecutiveStableWeeks = 0
	}

	result := decision.Evaluate(c, e.thresholds)
	mutation, err := program.Apply(result.Decision, c.Program, c.Constraints, program.Context{
		WeeksSinceScaleBack: c.WeeksSinceScaleBack,
		ReearnWeeks:         e.reearnWeeks,
	})
	if err != nil {
		return nil, fmt.Errorf("advance week %d: %w", week, err)
	}
	result = finalize(result, mutation)

	c.Program = mutation.New
	c.Constraints = mutation.NewConstraints
	if result.Decision == models.DecisionScaleBack {
		resetAfterScaleBack(c)
	}

	outcome, err := phase.Transition(phase.InputFrom(c, result.Decision))
	if err != nil {
		return nil, fmt.Errorf("advance week %d: %w", week, err)
	}
	c.Phase = outcome.To
	c.WeekInPhase = outcome.WeekInPhase
	c.Program = outcome.Program
	if c.Program != used {
		c.WeeksAtLevel = 0
	}

	generated, err := e.gen.GenerateWeek(session.WeekRequest{
		UserID:      c.UserID,
		Week:        week,
		Program:     used,
		Preferences: c.Preferences,
		Recent:      recent,
	})
	if err != nil {
		return nil, fmt.Errorf("advance week %d: generate sessions: %w", week, err)
	}
	c.RecentExercises = exerciseIDs(generated.Sessions)

	weekStart := in.WeekStart
	if weekStart.IsZero() {
		weekStart = state.WeekStart(week)
	}

	snap := &models.WeeklySnapshot{
		ID:        e.newID(),
		UserID:    c.UserID,
		Week:      week,
		WeekStart: weekStart.Format(models.WeekStartLayout),
		Phase:     evaluatedIn,
		State: models.StateSnapshot{
			FatigueScore:  c.FatigueScore,
			EnergyContext: c.EnergyContext,
			Adherence:     c.AdherenceRate,
			PainFlags:     nonNil(c.CurrentPainFlags),
			ActiveInjury:  c.ActiveInjury,
		},
		Program:               used,
		Preferences:           c.Preferences,
		Sessions:              generated.Sessions,
		MinimumViableSessions: generated.MinimumViableSessions,
		Completion:            completion,
		Decision:              result.Block(),
		ProgramChange:         describeChange(used, c.Program, mutation, outcome),
		SafetyNotes:           notes,
		NextWeekProgram:       c.Program,
		CreatedAt:             e.now().UTC(),
	}

	if err := validate.Snapshot(snap); err != nil {
		e.log.WithFields(log.Fields{
			"user": c.UserID,
			"week": week,
		}).WithError(err).Error("weekly snapshot failed validation")
		return nil, fmt.Errorf("advance week %d: %w", week, err)
	}

	c.WeekNumber++
	*state = *c

	e.log.WithFields(log.Fields{
		"user":     c.UserID,
		"week":     week,
		"decision": result.Decision,
		"rule":     result.Rule,
		"phase":    c.Phase,
		"program":  c.Program.String(),
	}).Debug("advanced week")

	return snap, nil
}

// recordCompletion updates history, rolling sums, adherence, and totals.
func recordCompletion(c *models.TrainingState, raw int) models.Completion {
	target := c.Program.SessionsPerWeek
	planned := min(raw, target)

	c.SessionHistory = append(c.SessionHistory, raw)
	c.Rolling7 = raw
	c.Rolling14 = sum(models.Tail(c.SessionHistory, adherenceWindowWeeks))
	c.Rolling30 = sum(models.Tail(c.SessionHistory, rolling30Weeks))
	c.TotalRawSessions += raw
	c.TotalPlannedSessions += planned

	window := min(adherenceWindowWeeks, len(c.SessionHistory))
	c.AdherenceRate = signals.ClampedAdherence(c.Rolling14, target, window)
	if c.AdherenceRate < decision.LowAdherence {
		c.ConsecutiveLowAdherenceWeeks++
	} else {
		c.ConsecutiveLowAdherenceWeeks = 0
	}
	if raw == 0 {
		c.ConsecutiveInactiveWeeks++
	} else {
		c.ConsecutiveInactiveWeeks = 0
	}

	return models.Completion{
		Raw:               raw,
		Planned:           planned,
		Extra:             max(0, raw-target),
		AdherenceThisWeek: signals.WeeklyAdherence(raw, target),
	}
}

func recordSignals(c *models.TrainingState, in models.WeeklyInput) error {
	if in.CheckIn != nil {
		c.CheckIns = models.Tail(append(c.CheckIns, *in.CheckIn), models.FatigueWindow)
	}
	if in.EnergyCheck != nil {
		c.EnergyChecks = models.Tail(append(c.EnergyChecks, *in.EnergyCheck), models.EnergyWindow)
	}

	fatigue, err := signals.FatigueScore(c.CheckIns)
	if err != nil {
		return err
	}
	energy, err := signals.ClassifyEnergy(c.EnergyChecks)
	if err != nil {
		return err
	}
	c.FatigueScore = fatigue
	c.EnergyContext = energy
	return nil
}

func recordPain(c *models.TrainingState, in models.WeeklyInput) {
	flags := in.NonEmptyPainFlags()
	c.CurrentPainFlags = flags
	c.ActiveInjury = in.ActiveInjury

	if len(flags) > 0 {
		c.RecentPainReports = models.Tail(append(c.RecentPainReports, flags...), models.PainReportLimit)
	}
	if len(flags) > 0 || in.ActiveInjury {
		c.PainHistory = true
		c.ConsecutivePainFreeWeeks = 0
		return
	}
	c.ConsecutivePainFreeWeeks++
}

// finalize turns a progress decision the mutator could not apply into maintain.
func finalize(r decision.Result, m program.Mutation) decision.Result {
	if r.Decision != models.DecisionProgress {
		return r
	}
	switch m.Cause {
	case models.CauseAtTrueCeiling:
		return decision.ResultFor(decision.RuleAtTrueCeiling)
	case models.CauseBlockedByConstraints:
		return decision.ResultFor(decision.RuleBlocked)
	}
	return r
}

func resetAfterScaleBack(c *models.TrainingState) {
	zero := 0
	c.WeeksSinceScaleBack = &zero
	c.ConsecutiveStableWeeks = 0
	c.ConsecutivePainFreeWeeks = 0
	c.ConsecutiveLowAdherenceWeeks = 0
	c.ConsecutiveInactiveWeeks = 0
}

func describeChange(used, next models.ProgramConfig, m program.Mutation, o phase.Outcome) models.ProgramChange {
	pc := models.ProgramChange{
		Occurred:    used != next,
		Cause:       m.Cause,
		Description: m.Description,
	}

	templateChanged := o.TemplateApplied && o.Program != m.New
	if !templateChanged {
		return pc
	}

	note := fmt.Sprintf("%s template: %d×/week, %d min", o.To, o.Program.SessionsPerWeek, o.Program.DurationMinutes)
	if o.Changed {
		note = fmt.Sprintf("Phase %s → %s, %s", o.From, o.To, note)
	}
	if pc.Cause == models.CauseNone {
		pc.Cause = models.CausePhaseTemplate
		pc.Description = note
	} else {
		pc.Description += "; " + note
	}
	return pc
}

func exerciseIDs(sessions []models.Session) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range sessions {
		for _, id := range s.ExerciseIDs() {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
