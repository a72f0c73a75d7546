package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Store is the persistence gateway: durable per-user storage for
// projects, sessions, settings and the single active timer, with
// change notification (see notify.go).
type Store struct {
	db   *sql.DB
	subs *hub
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, subs: newHub()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		name        TEXT NOT NULL,
		color       TEXT NOT NULL DEFAULT '#6C63FF',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		UNIQUE(user_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id);

	CREATE TABLE IF NOT EXISTS sessions (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		project_id    TEXT NOT NULL,
		project_name  TEXT NOT NULL,
		color         TEXT NOT NULL DEFAULT '#6C63FF',
		start_time    INTEGER NOT NULL,
		end_time      INTEGER NOT NULL,
		duration      INTEGER NOT NULL DEFAULT 0,
		notes         TEXT NOT NULL DEFAULT '',
		tags          TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_end  ON sessions(user_id, end_time);

	CREATE TABLE IF NOT EXISTS settings (
		user_id        TEXT PRIMARY KEY,
		timer_duration INTEGER NOT NULL DEFAULT 25,
		dark_mode      INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS active_timers (
		user_id          TEXT PRIMARY KEY,
		mode             TEXT NOT NULL,
		is_active        INTEGER NOT NULL DEFAULT 1,
		start_time       INTEGER NOT NULL,
		paused_at        INTEGER,
		paused_duration  INTEGER NOT NULL DEFAULT 0,
		initial_duration INTEGER,
		project_id       TEXT NOT NULL DEFAULT '',
		project_name     TEXT NOT NULL DEFAULT '',
		notes            TEXT NOT NULL DEFAULT '',
		tags             TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/shadfocus/shadfocus.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "shadfocus", "shadfocus.db"), nil
}
