// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for sleep entries, exercise entries, and goals.
package storage

// initSchema creates or updates the database schema.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sleep_entries (
		user TEXT NOT NULL,
		date TEXT NOT NULL,
		hours_slept REAL NOT NULL,
		quality INTEGER NOT NULL,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user, date)
	);

	CREATE TABLE IF NOT EXISTS exercise_entries (
		id TEXT PRIMARY KEY,
		user TEXT NOT NULL,
		date TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		duration_minutes REAL NOT NULL,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS goals (
		user TEXT PRIMARY KEY,
		target_hours REAL NOT NULL,
		target_quality REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sleep_user_date ON sleep_entries(user, date);
	CREATE INDEX IF NOT EXISTS idx_exercise_user ON exercise_entries(user, date);
	`

	_, err := s.db.Exec(schema)
	return err
}
