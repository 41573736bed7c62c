// ABOUTME: Exercise reference library loaded from YAML.
// ABOUTME: Ships an embedded default library and validates every entry on load.
package session

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/coach/internal/models"
)

//go:embed library.yaml
var defaultLibrary []byte

// ErrInvalidLibrary is returned when a library file fails validation.
var ErrInvalidLibrary = errors.New("session: invalid exercise library")

// Library is an ordered set of exercises.
type Library struct {
	Exercises []models.Exercise `yaml:"exercises"`
	byID      map[string]models.Exercise
}

// DefaultLibrary parses the embedded library.
func DefaultLibrary() (*Library, error) {
	return ParseLibrary(defaultLibrary)
}

// LoadLibrary reads and parses a library file.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}
	return ParseLibrary(data)
}

// ParseLibrary decodes and validates YAML library content.
func ParseLibrary(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse library: %w", err)
	}
	if err := lib.validate(); err != nil {
		return nil, err
	}
	return &lib, nil
}

func (l *Library) validate() error {
	if len(l.Exercises) == 0 {
		return fmt.Errorf("%w: no exercises", ErrInvalidLibrary)
	}

	l.byID = make(map[string]models.Exercise, len(l.Exercises))
	for i, e := range l.Exercises {
		if e.ID == "" {
			return fmt.Errorf("%w: exercise %d has no id", ErrInvalidLibrary, i)
		}
		if _, dup := l.byID[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidLibrary, e.ID)
		}
		if _, err := models.ParseMovementPattern(string(e.Pattern)); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidLibrary, e.ID, err)
		}
		if len(e.Tiers) == 0 {
			return fmt.Errorf("%w: %s: no tiers", ErrInvalidLibrary, e.ID)
		}
		for _, tier := range e.Tiers {
			if !tier.Valid() {
				return fmt.Errorf("%w: %s: unknown tier %q", ErrInvalidLibrary, e.ID, tier)
			}
		}
		for _, eq := range e.Equipment {
			if _, err := models.ParseEquipment(string(eq)); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidLibrary, e.ID, err)
			}
		}
		switch e.Pattern {
		case models.PatternCardio, models.PatternWarmUp:
			if e.CardioMinutes <= 0 {
				return fmt.Errorf("%w: %s: timed exercise needs cardio_minutes", ErrInvalidLibrary, e.ID)
			}
		default:
			if e.BaseSets <= 0 {
				return fmt.Errorf("%w: %s: strength exercise needs base_sets", ErrInvalidLibrary, e.ID)
			}
		}
		l.byID[e.ID] = e
	}
	return nil
}

// Get returns the exercise with the given id.
func (l *Library) Get(id string) (models.Exercise, bool) {
	e, ok := l.byID[id]
	return e, ok
}

// WarmUps returns the warm-up exercises in library order.
func (l *Library) WarmUps() []models.Exercise {
	return l.filter(func(e models.Exercise) bool { return e.Pattern == models.PatternWarmUp })
}

// Strength returns strength exercises suited to the tier, in library order.
func (l *Library) Strength(tier models.Intensity) []models.Exercise {
	return l.filter(func(e models.Exercise) bool {
		return !e.IsCardio() && e.Pattern != models.PatternWarmUp && e.SuitsTier(tier)
	})
}

// Cardio returns cardio exercises suited to the tier, in library order.
func (l *Library) Cardio(tier models.Intensity) []models.Exercise {
	return l.filter(func(e models.Exercise) bool { return e.IsCardio() && e.SuitsTier(tier) })
}

func (l *Library) filter(keep func(models.Exercise) bool) []models.Exercise {
	var out []models.Exercise
	for _, e := range l.Exercises {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
