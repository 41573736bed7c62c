// ABOUTME: TrainingState and WeeklySnapshot operations for SQLite storage.
// ABOUTME: States and snapshots are stored as JSON documents keyed by user and week.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/harperreed/coach/internal/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// CreateState stores the state of a new user.
func (d *DB) CreateState(s *models.TrainingState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("create state: marshal: %w", err)
	}

	result, err := d.db.Exec(`
		INSERT INTO states (user_id, week_number, phase, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING
	`, s.UserID, s.WeekNumber, string(s.Phase), string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create state: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("create state %s: %w", s.UserID, ErrStateExists)
	}
	return nil
}

// GetState retrieves a user's state.
func (d *DB) GetState(userID string) (*models.TrainingState, error) {
	var data string
	err := d.db.QueryRow("SELECT data FROM states WHERE user_id = ?", userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("state %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	var s models.TrainingState
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("get state: unmarshal: %w", err)
	}
	return &s, nil
}

// SaveState overwrites an existing user's state.
func (d *DB) SaveState(s *models.TrainingState) error {
	return updateState(d.db, s)
}

// SaveWeek stores the advanced state and the week's snapshot in one transaction.
func (d *DB) SaveWeek(s *models.TrainingState, snap *models.WeeklySnapshot) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save week: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := updateState(tx, s); err != nil {
		return fmt.Errorf("save week %d: %w", snap.Week, err)
	}
	if err := insertSnapshot(tx, snap); err != nil {
		return fmt.Errorf("save week %d: %w", snap.Week, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save week %d: commit: %w", snap.Week, err)
	}
	return nil
}

func updateState(e execer, s *models.TrainingState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("save state: marshal: %w", err)
	}

	result, err := e.Exec(`
		UPDATE states SET week_number = ?, phase = ?, data = ?, updated_at = ?
		WHERE user_id = ?
	`, s.WeekNumber, string(s.Phase), string(data), time.Now().UTC().Format(time.RFC3339), s.UserID)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("state %s: %w", s.UserID, ErrNotFound)
	}
	return nil
}

func insertSnapshot(e execer, snap *models.WeeklySnapshot) error {
	var n int
	if err := e.QueryRow("SELECT COUNT(*) FROM snapshots WHERE user_id = ? AND week = ?",
		snap.UserID, snap.Week).Scan(&n); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("snapshot %s week %d: %w", snap.UserID, snap.Week, ErrWeekExists)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("insert snapshot: marshal: %w", err)
	}

	_, err = e.Exec(`
		INSERT INTO snapshots (id, user_id, week, decision, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID.String(), snap.UserID, snap.Week, string(snap.Decision.Type), string(data),
		snap.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves one week of a user's history.
func (d *DB) GetSnapshot(userID string, week int) (*models.WeeklySnapshot, error) {
	var data string
	err := d.db.QueryRow("SELECT data FROM snapshots WHERE user_id = ? AND week = ?", userID, week).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s week %d: %w", userID, week, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return decodeSnapshot(data)
}

// ListSnapshots retrieves a user's snapshots oldest first.
func (d *DB) ListSnapshots(userID string, limit int) ([]*models.WeeklySnapshot, error) {
	query := "SELECT data FROM snapshots WHERE user_id = ? ORDER BY week DESC"
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*models.WeeklySnapshot
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap, err := decodeSnapshot(data)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	slices.Reverse(snaps)
	return snaps, nil
}

// ListUsers returns every user id with a stored state.
func (d *DB) ListUsers() ([]string, error) {
	rows, err := d.db.Query("SELECT user_id FROM states ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// DeleteUser removes a user's state and history.
func (d *DB) DeleteUser(userID string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("delete user: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM snapshots WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	result, err := tx.Exec("DELETE FROM states WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete user %s: %w", userID, ErrNotFound)
	}
	return tx.Commit()
}

// GetAllData retrieves a user's state and full history for export.
func (d *DB) GetAllData(userID string) (*ExportData, error) {
	s, err := d.GetState(userID)
	if err != nil {
		return nil, err
	}
	snaps, err := d.ListSnapshots(userID, 0)
	if err != nil {
		return nil, err
	}
	return NewExportData(s, snaps), nil
}

// ImportData restores a user from an export file.
func (d *DB) ImportData(data *ExportData) error {
	if data.State == nil {
		return fmt.Errorf("import: missing state")
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("import: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	raw, err := json.Marshal(data.State)
	if err != nil {
		return fmt.Errorf("import state: marshal: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO states (user_id, week_number, phase, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, data.State.UserID, data.State.WeekNumber, string(data.State.Phase), string(raw),
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("import state: %w", err)
	}

	for _, snap := range data.Snapshots {
		if err := insertSnapshot(tx, snap); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("import: commit: %w", err)
	}
	return nil
}

func decodeSnapshot(data string) (*models.WeeklySnapshot, error) {
	var snap models.WeeklySnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
