package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const schemaVersion = "1.0"

// lockTimeout bounds how long NewJSONStore waits for another process.
var lockTimeout = 5 * time.Second

// JSONStore implements Store using a single JSON file.
type JSONStore struct {
	path string
	lock *FileLock
	data *storeData
	mu   sync.RWMutex
}

// storeData is the top-level JSON structure.
type storeData struct {
	Version   string              `json:"version"`
	UpdatedAt time.Time           `json:"updated_at"`
	Sessions  map[string]*Session `json:"sessions"` // channel_id -> session
}

// NewJSONStore creates a new JSON file store at the given path.
// If the file exists, it is loaded; otherwise an empty store is created.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{
		path: path,
		lock: NewFileLock(path),
	}

	if err := s.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil {
		s.lock.Unlock()
		return nil, err
	}

	log.Debug().Str("component", "storage").Str("path", path).Int("sessions", len(s.data.Sessions)).Msg("json store opened")
	return s, nil
}

// load reads the JSON file into memory. Creates empty data if file doesn't exist.
func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.data = newStoreData()
			// Save immediately to catch permission errors early
			return s.save()
		}
		return &StorageError{Op: "read", Entity: "store", Err: err}
	}

	s.data = &storeData{}
	if err := json.Unmarshal(data, s.data); err != nil {
		return &StorageError{Op: "read", Entity: "store", Err: ErrStorageCorrupt}
	}
	if s.data.Sessions == nil {
		s.data.Sessions = make(map[string]*Session)
	}
	return nil
}

// save persists the data to disk atomically.
func (s *JSONStore) save() error {
	s.data.UpdatedAt = time.Now()

	writer, err := NewAtomicWriter(s.path)
	if err != nil {
		return &StorageError{Op: "write", Entity: "store", Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", Entity: "store", Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "write", Entity: "store", Err: err}
	}
	return nil
}

// Close releases resources held by the store.
func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Unlock()
}

func newStoreData() *storeData {
	return &storeData{
		Version:   schemaVersion,
		UpdatedAt: time.Now(),
		Sessions:  make(map[string]*Session),
	}
}

func (s *JSONStore) SaveSession(ctx context.Context, session *Session) error {
	if err := session.normalize(); err != nil {
		return &StorageError{Op: "save", Entity: "session", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.data.Sessions[session.ChannelID]

	stored := clone(session)
	if existed {
		stored.ID = previous.ID
	} else if stored.ID == "" {
		stored.ID = newSessionID()
	}
	stored.SavedAt = time.Now().UTC()

	s.data.Sessions[stored.ChannelID] = stored
	if err := s.save(); err != nil {
		s.restore(map[string]*Session{stored.ChannelID: previous})
		return err
	}

	session.ID = stored.ID
	session.SavedAt = stored.SavedAt
	return nil
}

func (s *JSONStore) GetSession(ctx context.Context, channelID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data.Sessions[channelID]
	if !ok {
		return nil, &StorageError{Op: "read", Entity: "session", ID: channelID, Err: ErrNotFound}
	}
	return clone(session), nil
}

func (s *JSONStore) ListSessions(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*Session, 0, len(s.data.Sessions))
	for _, session := range s.data.Sessions {
		sessions = append(sessions, clone(session))
	}
	sortNewestFirst(sessions)
	return sessions, nil
}

func (s *JSONStore) DeleteSession(ctx context.Context, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.data.Sessions[channelID]
	if !ok {
		return &StorageError{Op: "delete", Entity: "session", ID: channelID, Err: ErrNotFound}
	}
	delete(s.data.Sessions, channelID)
	if err := s.save(); err != nil {
		s.restore(map[string]*Session{channelID: previous})
		return err
	}
	return nil
}

func (s *JSONStore) ImportSessions(ctx context.Context, sessions []*Session) (int, error) {
	for _, session := range sessions {
		if err := validateImport(session); err != nil {
			return 0, &StorageError{Op: "import", Entity: "session", Err: err}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := make(map[string]*Session, len(sessions))
	now := time.Now().UTC()
	for _, session := range sessions {
		if _, seen := previous[session.ChannelID]; !seen {
			previous[session.ChannelID] = s.data.Sessions[session.ChannelID]
		}
		cp := clone(session)
		if cp.SavedAt.IsZero() {
			cp.SavedAt = now
		}
		s.data.Sessions[cp.ChannelID] = cp
	}

	if err := s.save(); err != nil {
		s.restore(previous)
		return 0, err
	}
	return len(s.data.Sessions), nil
}

// restore puts back the given entries after a failed save. A nil entry
// means the channel had no session before.
func (s *JSONStore) restore(previous map[string]*Session) {
	for channelID, session := range previous {
		if session == nil {
			delete(s.data.Sessions, channelID)
			continue
		}
		s.data.Sessions[channelID] = session
	}
}

// sortNewestFirst orders by SavedAt descending, then by channel ID.
func sortNewestFirst(sessions []*Session) {
	slices.SortFunc(sessions, func(a, b *Session) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ChannelID, b.ChannelID)
	})
}
