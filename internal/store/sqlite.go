package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/conduitlabs/conduit/internal/domain"
)

// SQLiteStore implements SessionStore using SQLite. Turns and context are
// stored as JSON columns; the session row is the unit of persistence.
type SQLiteStore struct {
	db *sql.DB
}

var _ SessionStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL DEFAULT '',
			turns TEXT NOT NULL,
			context TEXT,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Save overwrites or creates the session row and stamps UpdatedAt.
func (s *SQLiteStore) Save(ctx context.Context, conv *domain.Conversation) error {
	conv.UpdatedAt = time.Now()

	turns, err := json.Marshal(conv.Turns)
	if err != nil {
		return fmt.Errorf("failed to marshal turns: %w", err)
	}
	contextJSON, err := json.Marshal(conv.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, turns, context, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			user_id = excluded.user_id,
			turns = excluded.turns,
			context = excluded.context,
			updated_at = excluded.updated_at`,
		conv.SessionID, conv.UserID, string(turns), string(contextJSON), conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to save session: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Load returns the conversation for a session, or nil when absent.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, turns, context, updated_at FROM sessions WHERE session_id = ?`,
		sessionID)

	var conv domain.Conversation
	var turns, contextJSON string
	err := row.Scan(&conv.SessionID, &conv.UserID, &turns, &contextJSON, &conv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load session: %v", domain.ErrStoreUnavailable, err)
	}

	if err := json.Unmarshal([]byte(turns), &conv.Turns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal turns: %w", err)
	}
	if contextJSON != "" {
		if err := json.Unmarshal([]byte(contextJSON), &conv.Context); err != nil {
			return nil, fmt.Errorf("failed to unmarshal context: %w", err)
		}
	}
	return &conv, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("%w: failed to delete session: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// List returns session identifiers ordered by most recent activity.
func (s *SQLiteStore) List(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT session_id FROM sessions ORDER BY updated_at DESC`
	args := []any{}
	if userID != "" {
		query = `SELECT session_id FROM sessions WHERE user_id = ? ORDER BY updated_at DESC`
		args = append(args, userID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list sessions: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PurgeOlderThan deletes sessions not updated within maxAge.
func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to purge sessions: %v", domain.ErrStoreUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
