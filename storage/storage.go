// Package storage persists saved analysis sessions.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the requested session was not found.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidInput indicates invalid or malformed input was provided.
	ErrInvalidInput = errors.New("storage: invalid input")
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
	// ErrUnknownDriver indicates Open was given an unsupported driver name.
	ErrUnknownDriver = errors.New("storage: unknown driver")
)

// StorageError wraps storage errors with operation and entity context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s %s: %v\n", storErr.Op, storErr.Entity, storErr.ID, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("save", "read", "delete", "import", ...).
	Op string
	// Entity is the entity type ("session", "store", "file").
	Entity string
	// ID is the entity ID if applicable.
	ID string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("storage: %s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

// Store keeps one session per channel.
// Implementations must be safe for concurrent use.
type Store interface {
	// SaveSession inserts or replaces the session of s.ChannelID. A replaced
	// session keeps its ID. SavedAt is set to the current time.
	SaveSession(ctx context.Context, s *Session) error
	// GetSession returns the session saved for a channel.
	GetSession(ctx context.Context, channelID string) (*Session, error)
	// ListSessions returns every session, most recently saved first.
	ListSessions(ctx context.Context) ([]*Session, error)
	// DeleteSession removes the session of a channel.
	DeleteSession(ctx context.Context, channelID string) error
	// ImportSessions merges sessions into the store; an imported session
	// replaces a stored one for the same channel. It returns the number of
	// sessions in the store afterwards.
	ImportSessions(ctx context.Context, sessions []*Session) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

// Open creates the store for driver ("json" or "sqlite") at path.
func Open(driver, path string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "json":
		return NewJSONStore(path)
	case "sqlite", "sqlite3":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
