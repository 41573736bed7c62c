// ABOUTME: Deterministic session generator producing standard and minimum-viable sessions.
// ABOUTME: Resolves movement slots from template and style, then picks exercises with fallback pools.
package session

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/harperreed/coach/internal/models"
)

// MinimumViableVolume replaces the program's volume multiplier in minimum-viable sessions.
const MinimumViableVolume = 0.5

// ErrInvalidRequest is returned for requests outside the closed enumerations.
var ErrInvalidRequest = errors.New("session: invalid request")

// Request fully determines one generated session.
type Request struct {
	Program       models.ProgramConfig
	Template      models.StrengthTemplate
	Style         models.SessionStyle
	Index         int
	MinimumViable bool
	// Recent holds exercise ids used last week.
	Recent    []string
	Equipment []models.Equipment
	Seed      string
}

// WeekRequest describes every session of one week.
type WeekRequest struct {
	UserID      string
	Week        int
	Program     models.ProgramConfig
	Preferences models.Preferences
	Recent      []string
}

// Week is the generated content of one week.
type Week struct {
	Sessions              []models.Session
	MinimumViableSessions []models.Session
}

// Generator builds sessions from a library. It holds no mutable state.
type Generator struct {
	lib       *Library
	newSource func(seed string) Source
}

// NewGenerator returns a generator using the LCG source.
func NewGenerator(lib *Library) *Generator {
	return &Generator{
		lib:       lib,
		newSource: func(seed string) Source { return NewLCG(seed) },
	}
}

// WithSource returns a copy of g that draws from sources built by fn.
func (g *Generator) WithSource(fn func(seed string) Source) *Generator {
	return &Generator{lib: g.lib, newSource: fn}
}

// GenerateWeek builds sessions_per_week standard and minimum-viable sessions.
func (g *Generator) GenerateWeek(req WeekRequest) (Week, error) {
	n := req.Program.SessionsPerWeek
	w := Week{
		Sessions:              make([]models.Session, 0, n),
		MinimumViableSessions: make([]models.Session, 0, n),
	}

	for i := 1; i <= n; i++ {
		base := Request{
			Program:   req.Program,
			Template:  req.Preferences.Template,
			Style:     req.Preferences.Style,
			Index:     i,
			Recent:    req.Recent,
			Equipment: req.Preferences.Equipment,
		}

		std := base
		std.Seed = Seed(req.UserID, req.Week, StandardSlot(i))
		s, err := g.Generate(std)
		if err != nil {
			return Week{}, err
		}
		w.Sessions = append(w.Sessions, s)

		mv := base
		mv.MinimumViable = true
		mv.Seed = Seed(req.UserID, req.Week, MinimumSlot(i))
		s, err = g.Generate(mv)
		if err != nil {
			return Week{}, err
		}
		w.MinimumViableSessions = append(w.MinimumViableSessions, s)
	}
	return w, nil
}

// Generate builds one session. Identical requests yield identical sessions.
func (g *Generator) Generate(req Request) (models.Session, error) {
	if err := validateRequest(req); err != nil {
		return models.Session{}, err
	}

	rng := g.newSource(req.Seed)
	multiplier := req.Program.VolumeMultiplier
	duration := req.Program.DurationMinutes
	if req.MinimumViable {
		multiplier = MinimumViableVolume
		duration = MinimumViableMinutes(duration)
	}

	s := models.Session{
		Index:           req.Index,
		Title:           title(req),
		WarmUp:          g.warmUp(req.Equipment),
		DurationMinutes: duration,
		Intensity:       req.Program.Intensity,
		MinimumViable:   req.MinimumViable,
		Seed:            req.Seed,
	}

	used := map[string]bool{}
	pick := picker{
		used:      used,
		recent:    req.Recent,
		equipment: req.Equipment,
		rng:       rng,
	}

	pool := g.lib.Strength(req.Program.Intensity)
	for _, slot := range Slots(req.Template, req.Style, req.Program.Intensity, req.Index, req.MinimumViable) {
		e, fallback, ok := pick.strength(slot, pool)
		if !ok {
			continue
		}
		s.Exercises = append(s.Exercises, models.PlannedExercise{
			ExerciseID: e.ID,
			Name:       e.Name,
			Pattern:    e.Pattern,
			Slot:       slot,
			Sets:       ScaleSets(e.BaseSets, multiplier),
			Reps:       e.BaseReps,
			Fallback:   fallback,
		})
	}

	cardio := g.lib.Cardio(req.Program.Intensity)
	for i := 0; i < CardioCount(req.Style); i++ {
		e, fallback, ok := pick.cardio(cardio)
		if !ok {
			break
		}
		minutes := e.CardioMinutes
		if req.MinimumViable {
			minutes = MinimumViableMinutes(minutes)
		}
		s.Exercises = append(s.Exercises, models.PlannedExercise{
			ExerciseID: e.ID,
			Name:       e.Name,
			Pattern:    e.Pattern,
			Slot:       models.PatternCardio,
			Minutes:    minutes,
			Fallback:   fallback,
		})
	}

	return s, nil
}

func validateRequest(req Request) error {
	if _, ok := models.Tiers[req.Program.Intensity]; !ok {
		return fmt.Errorf("generate: %w: intensity %q", ErrInvalidRequest, req.Program.Intensity)
	}
	if _, err := models.ParseStrengthTemplate(string(req.Template)); err != nil {
		return fmt.Errorf("generate: %w: %v", ErrInvalidRequest, err)
	}
	if _, err := models.ParseSessionStyle(string(req.Style)); err != nil {
		return fmt.Errorf("generate: %w: %v", ErrInvalidRequest, err)
	}
	if req.Seed == "" {
		return fmt.Errorf("generate: %w: empty seed", ErrInvalidRequest)
	}
	return nil
}

func (g *Generator) warmUp(equipment []models.Equipment) []models.PlannedExercise {
	var out []models.PlannedExercise
	for _, e := range g.lib.WarmUps() {
		if !e.UsableWith(equipment) {
			continue
		}
		out = append(out, models.PlannedExercise{
			ExerciseID: e.ID,
			Name:       e.Name,
			Pattern:    e.Pattern,
			Slot:       models.PatternWarmUp,
			Minutes:    e.CardioMinutes,
		})
	}
	return out
}

// ScaleSets rounds base×multiplier to the nearest integer with a floor of 1.
func ScaleSets(base int, multiplier float64) int {
	return max(1, int(math.Round(float64(base)*multiplier)))
}

// MinimumViableMinutes is 60% of the standard minutes, rounded up.
func MinimumViableMinutes(standard int) int {
	return (standard*6 + 9) / 10
}

// CardioCount is the number of cardio blocks per session.
func CardioCount(style models.SessionStyle) int {
	if style == models.StyleCardioFocus {
		return 2
	}
	return 1
}

// Slots resolves the ordered movement slots of a session.
func Slots(t models.StrengthTemplate, style models.SessionStyle, i models.Intensity, index int, minimumViable bool) []models.MovementPattern {
	var slots []models.MovementPattern
	switch t {
	case models.TemplateUpperLower:
		if index%2 == 1 {
			slots = []models.MovementPattern{models.PatternPush, models.PatternPull, models.PatternPush, models.PatternPull, models.PatternCore}
		} else {
			slots = []models.MovementPattern{models.PatternSquat, models.PatternHinge, models.PatternLunge, models.PatternCore}
		}
	case models.TemplatePushPull:
		if index%2 == 1 {
			slots = []models.MovementPattern{models.PatternPush, models.PatternSquat, models.PatternPush, models.PatternCore}
		} else {
			slots = []models.MovementPattern{models.PatternPull, models.PatternHinge, models.PatternPull, models.PatternCarry}
		}
	default:
		slots = []models.MovementPattern{models.PatternSquat, models.PatternPush, models.PatternHinge, models.PatternPull, models.PatternCore}
	}

	switch style {
	case models.StyleStrengthFocus:
		slots = append(slots, slots[0])
	case models.StyleCardioFocus:
		slots = slots[:len(slots)-1]
	}

	switch i {
	case models.IntensityLight:
		slots = slots[:min(len(slots), 4)]
	case models.IntensityChallenging:
		if slices.Contains(slots, models.PatternCarry) {
			slots = append(slots, models.PatternLunge)
		} else {
			slots = append(slots, models.PatternCarry)
		}
	}

	if minimumViable {
		slots = slots[:min(len(slots), 3)]
	}
	return slots
}

func title(req Request) string {
	var name string
	switch req.Template {
	case models.TemplateUpperLower:
		name = "Lower body"
		if req.Index%2 == 1 {
			name = "Upper body"
		}
	case models.TemplatePushPull:
		name = "Pull"
		if req.Index%2 == 1 {
			name = "Push"
		}
	default:
		name = "Full body"
	}
	if req.MinimumViable {
		return fmt.Sprintf("%s %d (minimum)", name, req.Index)
	}
	return fmt.Sprintf("%s %d", name, req.Index)
}

type picker struct {
	used      map[string]bool
	recent    []string
	equipment []models.Equipment
	rng       Source
}

// strength picks one exercise for slot from the tier's pool. The first
// non-empty set wins: strict, then recent allowed, then any pattern, then
// anything unused in the tier regardless of equipment.
func (p picker) strength(slot models.MovementPattern, pool []models.Exercise) (models.Exercise, bool, bool) {
	tiers := [][]models.Exercise{
		p.candidates(pool, func(e models.Exercise) bool {
			return e.Pattern == slot && e.UsableWith(p.equipment) && !p.isRecent(e.ID)
		}),
		p.candidates(pool, func(e models.Exercise) bool {
			return e.Pattern == slot && e.UsableWith(p.equipment)
		}),
		p.candidates(pool, func(e models.Exercise) bool {
			return e.UsableWith(p.equipment)
		}),
		p.candidates(pool, func(models.Exercise) bool { return true }),
	}
	return p.choose(tiers)
}

func (p picker) cardio(pool []models.Exercise) (models.Exercise, bool, bool) {
	tiers := [][]models.Exercise{
		p.candidates(pool, func(e models.Exercise) bool {
			return e.UsableWith(p.equipment) && !p.isRecent(e.ID)
		}),
		p.candidates(pool, func(e models.Exercise) bool {
			return e.UsableWith(p.equipment)
		}),
		p.candidates(pool, func(models.Exercise) bool { return true }),
	}
	return p.choose(tiers)
}

func (p picker) choose(tiers [][]models.Exercise) (models.Exercise, bool, bool) {
	for n, candidates := range tiers {
		if len(candidates) == 0 {
			continue
		}
		e := candidates[p.rng.Intn(len(candidates))]
		p.used[e.ID] = true
		return e, n > 0, true
	}
	return models.Exercise{}, false, false
}

func (p picker) candidates(pool []models.Exercise, keep func(models.Exercise) bool) []models.Exercise {
	var out []models.Exercise
	for _, e := range pool {
		if !p.used[e.ID] && keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (p picker) isRecent(id string) bool {
	return slices.Contains(p.recent, id)
}
