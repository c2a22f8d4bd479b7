package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite database, one row per channel
// with the session encoded as JSON.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, &StorageError{Op: "open", Entity: "store", Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Entity: "store", Err: err}
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Entity: "store", Err: fmt.Errorf("init schema: %w", err)}
	}

	log.Debug().Str("component", "storage").Str("path", path).Msg("sqlite store opened")
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		channel_id TEXT PRIMARY KEY,
		id         TEXT NOT NULL,
		saved_at   INTEGER NOT NULL,
		payload    TEXT NOT NULL
	)`)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSession(ctx context.Context, session *Session) error {
	if err := session.normalize(); err != nil {
		return &StorageError{Op: "save", Entity: "session", Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "save", Entity: "session", ID: session.ChannelID, Err: err}
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM sessions WHERE channel_id = ?`, session.ChannelID).Scan(&existingID)
	switch {
	case err == nil:
		session.ID = existingID
	case errors.Is(err, sql.ErrNoRows):
		if session.ID == "" {
			session.ID = newSessionID()
		}
	default:
		return &StorageError{Op: "save", Entity: "session", ID: session.ChannelID, Err: err}
	}
	session.SavedAt = time.Now().UTC()

	if err := upsert(ctx, tx, session); err != nil {
		return &StorageError{Op: "save", Entity: "session", ID: session.ChannelID, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "save", Entity: "session", ID: session.ChannelID, Err: err}
	}
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, channelID string) (*Session, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM sessions WHERE channel_id = ?`, channelID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &StorageError{Op: "read", Entity: "session", ID: channelID, Err: ErrNotFound}
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Entity: "session", ID: channelID, Err: err}
	}
	return decodeSession(channelID, payload)
}

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT channel_id, payload FROM sessions ORDER BY saved_at DESC, channel_id ASC`)
	if err != nil {
		return nil, &StorageError{Op: "list", Entity: "session", Err: err}
	}
	defer rows.Close()

	sessions := []*Session{}
	for rows.Next() {
		var channelID, payload string
		if err := rows.Scan(&channelID, &payload); err != nil {
			return nil, &StorageError{Op: "list", Entity: "session", Err: err}
		}
		session, err := decodeSession(channelID, payload)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Entity: "session", Err: err}
	}
	return sessions, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, channelID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE channel_id = ?`, channelID)
	if err != nil {
		return &StorageError{Op: "delete", Entity: "session", ID: channelID, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &StorageError{Op: "delete", Entity: "session", ID: channelID, Err: ErrNotFound}
	}
	return nil
}

func (s *SQLiteStore) ImportSessions(ctx context.Context, sessions []*Session) (int, error) {
	for _, session := range sessions {
		if err := validateImport(session); err != nil {
			return 0, &StorageError{Op: "import", Entity: "session", Err: err}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &StorageError{Op: "import", Entity: "session", Err: err}
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, session := range sessions {
		cp := clone(session)
		if cp.SavedAt.IsZero() {
			cp.SavedAt = now
		}
		if err := upsert(ctx, tx, cp); err != nil {
			return 0, &StorageError{Op: "import", Entity: "session", ID: cp.ChannelID, Err: err}
		}
	}

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&total); err != nil {
		return 0, &StorageError{Op: "import", Entity: "session", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return 0, &StorageError{Op: "import", Entity: "session", Err: err}
	}
	return total, nil
}

func upsert(ctx context.Context, tx *sql.Tx, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (channel_id, id, saved_at, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(channel_id) DO UPDATE SET id = excluded.id, saved_at = excluded.saved_at, payload = excluded.payload`,
		session.ChannelID, session.ID, session.SavedAt.UnixNano(), string(payload),
	)
	return err
}

func decodeSession(channelID, payload string) (*Session, error) {
	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, &StorageError{Op: "read", Entity: "session", ID: channelID, Err: ErrStorageCorrupt}
	}
	return &session, nil
}
