package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a local SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Both slots live in a single row so they are written and removed atomically.
const slotID = 1

// NewSQLite creates a new SQLite-backed store at the given path.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("storage: ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("storage: initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS session_slots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		user_json BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Save persists the token and user payload, replacing any previous values.
func (s *SQLiteStore) Save(ctx context.Context, token string, user []byte) error {
	query := `
		INSERT INTO session_slots (id, token, user_json, updated_at)
		VALUES (?, ?, ?, strftime('%s','now'))
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_json = excluded.user_json,
			updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, slotID, token, user); err != nil {
		return fmt.Errorf("storage: save session: %w", err)
	}
	return nil
}

// Load returns the persisted token and user payload, or ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context) (string, []byte, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT token, user_json FROM session_slots WHERE id = ?`, slotID)

	var token string
	var user []byte
	if err := row.Scan(&token, &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("storage: load session: %w", err)
	}
	return token, user, nil
}

// Clear removes both slots.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM session_slots WHERE id = ?`, slotID); err != nil {
		return fmt.Errorf("storage: clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
