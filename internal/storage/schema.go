// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One state row per user and one snapshot row per user and week.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS states (
		user_id TEXT PRIMARY KEY,
		week_number INTEGER NOT NULL,
		phase TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		week INTEGER NOT NULL,
		decision TEXT NOT NULL,
		data TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (user_id, week),
		FOREIGN KEY (user_id) REFERENCES states(user_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_user_week ON snapshots(user_id, week DESC);
	CREATE INDEX IF NOT EXISTS idx_snapshots_decision ON snapshots(decision);
	`

	_, err := d.db.Exec(schema)
	return err
}
