// ABOUTME: Repository interface for coaching state and weekly snapshot storage.
// ABOUTME: Defines the contract shared by the SQLite, Postgres, and Charm backends.
package storage

import (
	"errors"
	"time"

	"github.com/harperreed/coach/internal/models"
)

var (
	// ErrNotFound is returned when a user or week has no stored record.
	ErrNotFound = errors.New("not found")
	// ErrStateExists is returned by CreateState for a user that already has a state.
	ErrStateExists = errors.New("state already exists")
	// ErrWeekExists is returned when a snapshot for the same user and week is already stored.
	ErrWeekExists = errors.New("week already recorded")
)

// Repository defines the storage interface for coaching data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// State operations
	CreateState(s *models.TrainingState) error
	GetState(userID string) (*models.TrainingState, error)
	SaveState(s *models.TrainingState) error

	// SaveWeek stores the advanced state and the week's snapshot atomically.
	SaveWeek(s *models.TrainingState, snap *models.WeeklySnapshot) error

	// Snapshot operations
	GetSnapshot(userID string, week int) (*models.WeeklySnapshot, error)
	// ListSnapshots returns snapshots oldest first. A positive limit keeps only the latest weeks.
	ListSnapshots(userID string, limit int) ([]*models.WeeklySnapshot, error)

	ListUsers() ([]string, error)
	DeleteUser(userID string) error

	// Export/Import
	GetAllData(userID string) (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}

// ExportData represents the full export format for one user.
type ExportData struct {
	Version    string                   `json:"version" yaml:"version"`
	ExportedAt time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool       string                   `json:"tool" yaml:"tool"`
	State      *models.TrainingState    `json:"state" yaml:"state"`
	Snapshots  []*models.WeeklySnapshot `json:"snapshots" yaml:"snapshots"`
}

// NewExportData wraps a state and its history in the export envelope.
func NewExportData(s *models.TrainingState, snaps []*models.WeeklySnapshot) *ExportData {
	if snaps == nil {
		snaps = []*models.WeeklySnapshot{}
	}
	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "coach",
		State:      s,
		Snapshots:  snaps,
	}
}

