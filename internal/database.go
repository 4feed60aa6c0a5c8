package internal

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens (or creates) the SQLite database backing the
// conversation store. Writes are serialized by SQLite itself; the busy
// timeout covers the brief lock contention that WAL mode can still produce.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "open", Err: err}
	}

	return db, nil
}

// Migrate creates the storage schema if it does not exist yet. It is
// idempotent and meant to run once at process start, before any Store
// method is called.
func Migrate(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS conversations (
		thread_id  TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS checkpoints (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		thread_id  TEXT NOT NULL,
		created_at TEXT NOT NULL,
		messages   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_checkpoints_thread ON checkpoints(thread_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return &StorageError{Op: "migrate", Err: err}
	}
	return nil
}

// timeLayout is RFC 3339 with a fixed-width fractional second. RFC3339Nano
// trims trailing zeros, which breaks lexicographic comparison of stored
// text ("...00.2Z" sorts after "...00.25Z"); the fixed width keeps SQL
// MIN/MAX over created_at chronologically correct.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
