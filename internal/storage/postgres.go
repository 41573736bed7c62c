// ABOUTME: Postgres-backed Repository using a pgx connection pool.
// ABOUTME: Same tables as the SQLite backend with JSONB documents.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harperreed/coach/internal/models"
)

const pgTimeout = 10 * time.Second

const pgSchema = `
	CREATE TABLE IF NOT EXISTS coach_states (
		user_id TEXT PRIMARY KEY,
		week_number INTEGER NOT NULL,
		phase TEXT NOT NULL,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS coach_snapshots (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES coach_states(user_id) ON DELETE CASCADE,
		week INTEGER NOT NULL,
		decision TEXT NOT NULL,
		data JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, week)
	);

	CREATE INDEX IF NOT EXISTS idx_coach_snapshots_user_week ON coach_snapshots(user_id, week DESC);
`

// PostgresStore is a Repository backed by Postgres.
type PostgresStore struct {
	db *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the schema if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.Exec(ctx, pgSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), pgTimeout)
}

// CreateState stores the state of a new user.
func (p *PostgresStore) CreateState(s *models.TrainingState) error {
	ctx, cancel := p.ctx()
	defer cancel()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("create state: marshal: %w", err)
	}

	tag, err := p.db.Exec(ctx, `
		INSERT INTO coach_states (user_id, week_number, phase, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`,
		s.UserID, s.WeekNumber, string(s.Phase), data,
	)
	if err != nil {
		return fmt.Errorf("create state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("create state %s: %w", s.UserID, ErrStateExists)
	}
	return nil
}

// GetState retrieves a user's state.
func (p *PostgresStore) GetState(userID string) (*models.TrainingState, error) {
	ctx, cancel := p.ctx()
	defer cancel()

	var data []byte
	err := p.db.QueryRow(ctx, `SELECT data FROM coach_states WHERE user_id = $1`, userID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("state %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	var s models.TrainingState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("get state: unmarshal: %w", err)
	}
	return &s, nil
}

// SaveState overwrites an existing user's state.
func (p *PostgresStore) SaveState(s *models.TrainingState) error {
	ctx, cancel := p.ctx()
	defer cancel()

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save state: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := pgUpdateState(ctx, tx, s); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SaveWeek stores the advanced state and the week's snapshot in one transaction.
func (p *PostgresStore) SaveWeek(s *models.TrainingState, snap *models.WeeklySnapshot) error {
	ctx, cancel := p.ctx()
	defer cancel()

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save week: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := pgUpdateState(ctx, tx, s); err != nil {
		return fmt.Errorf("save week %d: %w", snap.Week, err)
	}
	if err := pgInsertSnapshot(ctx, tx, snap); err != nil {
		return fmt.Errorf("save week %d: %w", snap.Week, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("save week %d: commit: %w", snap.Week, err)
	}
	return nil
}

func pgUpdateState(ctx context.Context, tx pgx.Tx, s *models.TrainingState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("save state: marshal: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE coach_states SET week_number = $1, phase = $2, data = $3, updated_at = now()
		WHERE user_id = $4`,
		s.WeekNumber, string(s.Phase), data, s.UserID,
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("state %s: %w", s.UserID, ErrNotFound)
	}
	return nil
}

func pgInsertSnapshot(ctx context.Context, tx pgx.Tx, snap *models.WeeklySnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("insert snapshot: marshal: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO coach_snapshots (id, user_id, week, decision, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, week) DO NOTHING`,
		snap.ID, snap.UserID, snap.Week, string(snap.Decision.Type), data, snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("snapshot %s week %d: %w", snap.UserID, snap.Week, ErrWeekExists)
	}
	return nil
}

// GetSnapshot retrieves one week of a user's history.
func (p *PostgresStore) GetSnapshot(userID string, week int) (*models.WeeklySnapshot, error) {
	ctx, cancel := p.ctx()
	defer cancel()

	var data []byte
	err := p.db.QueryRow(ctx,
		`SELECT data FROM coach_snapshots WHERE user_id = $1 AND week = $2`, userID, week,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s week %d: %w", userID, week, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap models.WeeklySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// ListSnapshots retrieves a user's snapshots oldest first.
func (p *PostgresStore) ListSnapshots(userID string, limit int) ([]*models.WeeklySnapshot, error) {
	ctx, cancel := p.ctx()
	defer cancel()

	query := `SELECT data FROM coach_snapshots WHERE user_id = $1 ORDER BY week DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*models.WeeklySnapshot
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		var snap models.WeeklySnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		snaps = append(snaps, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	slices.Reverse(snaps)
	return snaps, nil
}

// ListUsers returns every user id with a stored state.
func (p *PostgresStore) ListUsers() ([]string, error) {
	ctx, cancel := p.ctx()
	defer cancel()

	rows, err := p.db.Query(ctx, `SELECT user_id FROM coach_states ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user's state and history.
func (p *PostgresStore) DeleteUser(userID string) error {
	ctx, cancel := p.ctx()
	defer cancel()

	tag, err := p.db.Exec(ctx, `DELETE FROM coach_states WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete user %s: %w", userID, ErrNotFound)
	}
	return nil
}

// GetAllData retrieves a user's state and full history for export.
func (p *PostgresStore) GetAllData(userID string) (*ExportData, error) {
	s, err := p.GetState(userID)
	if err != nil {
		return nil, err
	}
	snaps, err := p.ListSnapshots(userID, 0)
	if err != nil {
		return nil, err
	}
	return NewExportData(s, snaps), nil
}

// ImportData restores a user from an export file.
func (p *PostgresStore) ImportData(data *ExportData) error {
	if data.State == nil {
		return fmt.Errorf("import: missing state")
	}
	if err := p.CreateState(data.State); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	ctx, cancel := p.ctx()
	defer cancel()

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("import: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, snap := range data.Snapshots {
		if err := pgInsertSnapshot(ctx, tx, snap); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// Close closes the connection pool.
func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}
