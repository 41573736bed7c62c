// ABOUTME: Service wires the engine to a Repository and a per-user Locker.
// ABOUTME: One weekly cycle per user at a time: lock, load, advance, save atomically, unlock.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/harperreed/coach/internal/lock"
	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/session"
	"github.com/harperreed/coach/internal/storage"
)

// ErrUnknownWeek is returned by Plan for a week that is neither recorded nor upcoming.
var ErrUnknownWeek = errors.New("engine: unknown week")

// Service runs weekly cycles against stored state.
type Service struct {
	engine *Engine
	repo   storage.Repository
	locker lock.Locker
	log    log.FieldLogger
}

// NewService builds a service. A nil locker serializes within this process only.
func NewService(e *Engine, repo storage.Repository, locker lock.Locker) *Service {
	if locker == nil {
		locker = lock.NewLocal()
	}
	return &Service{engine: e, repo: repo, locker: locker, log: e.log}
}

// Init creates the onboarding state for a new user.
func (s *Service) Init(userID string, start time.Time, prefs models.Preferences) (*models.TrainingState, error) {
	if userID == "" {
		return nil, fmt.Errorf("init: %w: empty user id", ErrInvalidInput)
	}
	if err := ValidatePreferences(prefs); err != nil {
		return nil, fmt.Errorf("init %s: %w", userID, err)
	}

	state := models.NewTrainingState(userID, start)
	state.Preferences = prefs
	if err := s.repo.CreateState(state); err != nil {
		return nil, fmt.Errorf("init %s: %w", userID, err)
	}

	s.log.WithField("user", userID).Info("created training state")
	return state, nil
}

// Status returns a user's current state.
func (s *Service) Status(userID string) (*models.TrainingState, error) {
	return s.repo.GetState(userID)
}

// Users lists every user with a stored state.
func (s *Service) Users() ([]string, error) {
	return s.repo.ListUsers()
}

// History returns a user's snapshots oldest first, limited to the latest weeks when limit > 0.
func (s *Service) History(userID string, limit int) ([]*models.WeeklySnapshot, error) {
	return s.repo.ListSnapshots(userID, limit)
}

// RecordWeek runs one weekly cycle for userID and stores the result. Concurrent
// calls for the same user are serialized; a failed cycle stores nothing.
func (s *Service) RecordWeek(ctx context.Context, userID string, in models.WeeklyInput) (snap *models.WeeklySnapshot, err error) {
	if err := s.locker.Lock(ctx, userID); err != nil {
		return nil, fmt.Errorf("record week for %s: %w", userID, err)
	}
	defer func() {
		err = multierr.Append(err, s.locker.Unlock(context.WithoutCancel(ctx), userID))
	}()

	state, err := s.repo.GetState(userID)
	if err != nil {
		return nil, fmt.Errorf("record week for %s: %w", userID, err)
	}

	snap, err = s.engine.Advance(state, in)
	if err != nil {
		return nil, fmt.Errorf("record week for %s: %w", userID, err)
	}

	if err := s.repo.SaveWeek(state, snap); err != nil {
		return nil, fmt.Errorf("record week for %s: %w", userID, err)
	}
	return snap, nil
}

// SetPreferences replaces a user's template, style, and equipment from next week on.
func (s *Service) SetPreferences(ctx context.Context, userID string, prefs models.Preferences) (err error) {
	if err := ValidatePreferences(prefs); err != nil {
		return fmt.Errorf("set preferences for %s: %w", userID, err)
	}
	if err := s.locker.Lock(ctx, userID); err != nil {
		return fmt.Errorf("set preferences for %s: %w", userID, err)
	}
	defer func() {
		err = multierr.Append(err, s.locker.Unlock(context.WithoutCancel(ctx), userID))
	}()

	state, err := s.repo.GetState(userID)
	if err != nil {
		return fmt.Errorf("set preferences for %s: %w", userID, err)
	}
	state.Preferences = prefs
	return s.repo.SaveState(state)
}

// Plan generates a week's sessions. Week 0 or the user's current week gives the
// upcoming plan; a recorded week is regenerated from its stored program,
// preferences, and seeds.
func (s *Service) Plan(userID string, week int) (session.Week, error) {
	state, err := s.repo.GetState(userID)
	if err != nil {
		return session.Week{}, fmt.Errorf("plan for %s: %w", userID, err)
	}

	if week == 0 || week == state.WeekNumber {
		return s.engine.Generator().GenerateWeek(session.WeekRequest{
			UserID:      userID,
			Week:        state.WeekNumber,
			Program:     state.Program,
			Preferences: state.Preferences,
			Recent:      state.RecentExercises,
		})
	}
	if week < 1 || week > state.WeekNumber {
		return session.Week{}, fmt.Errorf("plan for %s: %w: %d", userID, ErrUnknownWeek, week)
	}

	snap, err := s.repo.GetSnapshot(userID, week)
	if err != nil {
		return session.Week{}, fmt.Errorf("plan for %s: %w", userID, err)
	}
	var recent []string
	if week > 1 {
		prev, err := s.repo.GetSnapshot(userID, week-1)
		if err != nil {
			return session.Week{}, fmt.Errorf("plan for %s: %w", userID, err)
		}
		recent = exerciseIDs(prev.Sessions)
	}

	// Weeks stored before snapshots carried preferences fall back to the current ones.
	prefs := snap.Preferences
	if prefs.Template == "" {
		prefs = state.Preferences
	}

	return s.engine.Generator().GenerateWeek(session.WeekRequest{
		UserID:      userID,
		Week:        week,
		Program:     snap.Program,
		Preferences: prefs,
		Recent:      recent,
	})
}

// Close releases the repository and, when it holds resources, the locker.
func (s *Service) Close() error {
	err := s.repo.Close()
	if c, ok := s.locker.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// ValidatePreferences checks template, style, and equipment against their enumerations.
func ValidatePreferences(p models.Preferences) error {
	if _, err := models.ParseStrengthTemplate(string(p.Template)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := models.ParseSessionStyle(string(p.Style)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, e := range p.Equipment {
		if _, err := models.ParseEquipment(string(e)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return nil
}
