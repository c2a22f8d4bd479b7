// Package dashboard ties channel fetching, keyword statistics, the AI
// assistant and the session library into the analysis workflow.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"ytdash/keywords"
	"ytdash/llm"
	"ytdash/storage"
	"ytdash/youtube"
)

// TopKeywords is the number of keywords the brainstorming opener mentions.
const TopKeywords = 10

var (
	// ErrNoVideos is returned when saving a result that holds no videos.
	ErrNoVideos = errors.New("dashboard: no videos to save")
	// ErrNoAssistant is returned by AI operations when no provider is configured.
	ErrNoAssistant = errors.New("dashboard: no AI assistant configured")
)

// VideoSource resolves channels and pages through their uploads.
// *youtube.Client implements it.
type VideoSource interface {
	ResolveChannel(ctx context.Context, keys, channelURL string) (*youtube.Channel, error)
	FetchPage(ctx context.Context, keys, playlistID, cursor string) (*youtube.Page, error)
}

// Result is one channel's analysis as shown on the dashboard.
type Result struct {
	Channel    youtube.Channel  `json:"channel"`
	Videos     []youtube.Video  `json:"videos"`
	NextCursor string           `json:"next_cursor,omitempty"`
	Keywords   []keywords.Count `json:"keywords"`
	Hashtags   []keywords.Count `json:"hashtags"`
	Messages   []llm.Message    `json:"messages"`
}

// HasMore reports whether another page of videos can be loaded.
func (r *Result) HasMore() bool {
	return r.NextCursor != ""
}

func (r *Result) refreshStats() {
	r.Keywords = keywords.Counts(r.Videos)
	r.Hashtags = keywords.Hashtags(r.Videos)
}

// Analyzer runs the dashboard operations.
type Analyzer struct {
	YouTube VideoSource
	// YouTubeKeys is the raw Data API key list.
	YouTubeKeys string
	// Assistant may be nil when no AI keys are configured.
	Assistant *llm.Assistant
	// Store may be nil when sessions are not used.
	Store storage.Store
}

// Analyze resolves channelURL, loads its first page of uploads and derives
// keyword statistics and the brainstorming opener.
func (a *Analyzer) Analyze(ctx context.Context, channelURL string) (*Result, error) {
	channel, err := a.YouTube.ResolveChannel(ctx, a.YouTubeKeys, channelURL)
	if err != nil {
		return nil, err
	}

	page, err := a.YouTube.FetchPage(ctx, a.YouTubeKeys, channel.UploadsPlaylistID, "")
	if err != nil {
		return nil, err
	}

	r := &Result{
		Channel:    *channel,
		Videos:     page.Videos,
		NextCursor: page.NextCursor,
	}
	r.refreshStats()
	r.Messages = opener(r)

	log.Info().
		Str("component", "dashboard").
		Str("channel_id", channel.ID).
		Int("videos", len(r.Videos)).
		Bool("has_more", r.HasMore()).
		Msg("channel analyzed")
	return r, nil
}

// LoadMore appends the next page of videos to r. It does nothing when r has
// no more pages. The brainstorming conversation is left untouched.
func (a *Analyzer) LoadMore(ctx context.Context, r *Result) error {
	if !r.HasMore() {
		return nil
	}

	page, err := a.YouTube.FetchPage(ctx, a.YouTubeKeys, r.Channel.UploadsPlaylistID, r.NextCursor)
	if err != nil {
		return err
	}

	r.Videos = append(r.Videos, page.Videos...)
	r.NextCursor = page.NextCursor
	r.refreshStats()
	return nil
}

// Summarize asks the assistant for a short summary of video and stores it
// on the video.
func (a *Analyzer) Summarize(ctx context.Context, video *youtube.Video) error {
	if a.Assistant == nil {
		return fmt.Errorf("summarize %s: %w", video.ID, ErrNoAssistant)
	}
	summary, err := a.Assistant.Summarize(ctx, video.Snippet.Title, video.Snippet.Description)
	if err != nil {
		return err
	}
	video.Summary = summary
	return nil
}

// Chat continues the brainstorming conversation of r with question and
// records both turns.
func (a *Analyzer) Chat(ctx context.Context, r *Result, question string) (string, error) {
	if a.Assistant == nil {
		return "", ErrNoAssistant
	}
	history := append(append([]llm.Message{}, r.Messages...), llm.Message{Role: llm.RoleUser, Content: question})

	reply, err := a.Assistant.Chat(ctx, history)
	if err != nil {
		return "", err
	}
	r.Messages = append(history, llm.Message{Role: llm.RoleModel, Content: reply})
	return reply, nil
}

// Compete runs the competitive analysis over the videos of sessions.
// An empty instructions selects DefaultInstructions.
func (a *Analyzer) Compete(ctx context.Context, sessions []*storage.Session, instructions string) (string, error) {
	if a.Assistant == nil {
		return "", ErrNoAssistant
	}
	if instructions == "" {
		instructions = DefaultInstructions
	}
	csv, err := CompetitiveCSV(sessions)
	if err != nil {
		return "", err
	}
	return a.Assistant.CompetitiveAnalysis(ctx, csv, instructions)
}

// SaveSession stores r in the session library, replacing any session of the
// same channel.
func (a *Analyzer) SaveSession(ctx context.Context, r *Result) (*storage.Session, error) {
	if len(r.Videos) == 0 {
		return nil, ErrNoVideos
	}
	s := &storage.Session{
		ChannelID:  r.Channel.ID,
		Channel:    r.Channel,
		Videos:     r.Videos,
		NextCursor: r.NextCursor,
		Messages:   r.Messages,
	}
	if err := a.Store.SaveSession(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenSession loads a saved session back into a Result. Sessions saved
// without a conversation get a fresh opener.
func (a *Analyzer) OpenSession(ctx context.Context, channelID string) (*Result, error) {
	s, err := a.Store.GetSession(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return FromSession(s), nil
}

// FromSession converts a saved session to a Result.
func FromSession(s *storage.Session) *Result {
	r := &Result{
		Channel:    s.Channel,
		Videos:     s.Videos,
		NextCursor: s.NextCursor,
		Messages:   s.Messages,
	}
	r.refreshStats()
	if len(r.Messages) == 0 {
		r.Messages = opener(r)
	}
	return r
}

func opener(r *Result) []llm.Message {
	msgs := llm.Opener(r.Channel.Title, keywords.Top(r.Keywords, TopKeywords))
	if msgs == nil {
		return []llm.Message{}
	}
	return msgs
}
