// ABOUTME: Exercise reference entries and generated Session artifacts.
// ABOUTME: Sessions are immutable per-week output; exercises carry pattern and equipment tags.
package models

// Exercise is an entry in the exercise reference library.
type Exercise struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	Pattern       MovementPattern `json:"pattern" yaml:"pattern"`
	Equipment     []Equipment     `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	Tiers         []Intensity     `json:"tiers" yaml:"tiers"`
	BaseSets      int             `json:"base_sets,omitempty" yaml:"base_sets,omitempty"`
	BaseReps      string          `json:"base_reps,omitempty" yaml:"base_reps,omitempty"`
	CardioMinutes int             `json:"cardio_minutes,omitempty" yaml:"cardio_minutes,omitempty"`
}

// IsCardio reports whether the exercise belongs to the cardio pool.
func (e Exercise) IsCardio() bool {
	return e.Pattern == PatternCardio
}

// SuitsTier reports whether the exercise is listed for the intensity tier.
func (e Exercise) SuitsTier(i Intensity) bool {
	return contains(e.Tiers, i)
}

// UsableWith reports whether every piece of equipment the exercise needs is available.
func (e Exercise) UsableWith(available []Equipment) bool {
	for _, need := range e.Equipment {
		if !contains(available, need) {
			return false
		}
	}
	return true
}

// PlannedExercise is one exercise placed in a session.
type PlannedExercise struct {
	ExerciseID string          `json:"exercise_id" yaml:"exercise_id"`
	Name       string          `json:"name" yaml:"name"`
	Pattern    MovementPattern `json:"pattern" yaml:"pattern"`
	Slot       MovementPattern `json:"slot" yaml:"slot"`
	Sets       int             `json:"sets,omitempty" yaml:"sets,omitempty"`
	Reps       string          `json:"reps,omitempty" yaml:"reps,omitempty"`
	Minutes    int             `json:"minutes,omitempty" yaml:"minutes,omitempty"`
	// Fallback is set when the strict selection pool was empty.
	Fallback bool `json:"fallback" yaml:"fallback"`
}

// Session groups an ordered exercise list for one training day.
type Session struct {
	Index           int               `json:"index" yaml:"index"`
	Title           string            `json:"title" yaml:"title"`
	WarmUp          []PlannedExercise `json:"warm_up" yaml:"warm_up"`
	Exercises       []PlannedExercise `json:"exercises" yaml:"exercises"`
	DurationMinutes int               `json:"duration_minutes" yaml:"duration_minutes"`
	Intensity       Intensity         `json:"intensity" yaml:"intensity"`
	MinimumViable   bool              `json:"minimum_viable" yaml:"minimum_viable"`
	Seed            string            `json:"seed" yaml:"seed"`
}

// ExerciseIDs returns the IDs of the main (non warm-up) exercises in order.
func (s Session) ExerciseIDs() []string {
	ids := make([]string, 0, len(s.Exercises))
	for _, e := range s.Exercises {
		ids = append(ids, e.ExerciseID)
	}
	return ids
}

// FallbackCount returns how many placements used a degraded pool.
func (s Session) FallbackCount() int {
	n := 0
	for _, e := range s.Exercises {
		if e.Fallback {
			n++
		}
	}
	return n
}
