package storage

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"ytdash/llm"
	"ytdash/youtube"
)

// Session is a saved channel analysis: the channel, the videos loaded so
// far, the cursor to continue from and the brainstorming conversation.
type Session struct {
	// ID is the session's unique identifier (UUID).
	ID string `json:"id"`
	// ChannelID is the YouTube channel ID; at most one session exists per channel.
	ChannelID string `json:"channel_id"`
	// SavedAt is when the session was last saved.
	SavedAt    time.Time       `json:"saved_at"`
	Channel    youtube.Channel `json:"channel"`
	Videos     []youtube.Video `json:"videos"`
	NextCursor string          `json:"next_cursor,omitempty"`
	Messages   []llm.Message   `json:"messages,omitempty"`
}

// normalize fills ChannelID from Channel and checks the required fields.
func (s *Session) normalize() error {
	if s == nil {
		return ErrInvalidInput
	}
	if s.ChannelID == "" {
		s.ChannelID = s.Channel.ID
	}
	if s.ChannelID == "" {
		return ErrInvalidInput
	}
	if s.Videos == nil {
		s.Videos = []youtube.Video{}
	}
	return nil
}

// validateImport checks an imported session: it must carry an ID, a
// channel ID and a video list.
func validateImport(s *Session) error {
	if s == nil || s.ID == "" || s.Videos == nil {
		return ErrInvalidInput
	}
	if s.ChannelID == "" {
		s.ChannelID = s.Channel.ID
	}
	if s.ChannelID == "" {
		return ErrInvalidInput
	}
	return nil
}

func newSessionID() string {
	return uuid.NewString()
}

// clone copies a session deeply enough that the copy shares no slices with s.
func clone(s *Session) *Session {
	cp := *s
	cp.Videos = slices.Clone(s.Videos)
	cp.Messages = slices.Clone(s.Messages)
	return &cp
}
