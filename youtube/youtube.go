// Package youtube resolves YouTube channels and pages through their uploads
// using the YouTube Data API v3.
//
// Every call takes the raw API key string (newline or comma separated) and
// runs through the keyring, so a rejected or exhausted key falls through to
// the next one.
package youtube

import (
	"errors"
	"strconv"
)

// Sentinel errors for channel resolution and listing.
var (
	ErrInvalidURL      = errors.New("youtube: invalid channel URL")
	ErrChannelNotFound = errors.New("youtube: channel not found")
	ErrNoUploads       = errors.New("youtube: channel has no uploads playlist")
)

// Channel is the normalised metadata of a YouTube channel.
type Channel struct {
	// ID is the canonical channel ID (e.g., "UCuAXFkgsw1L7xaCfnd5JJOw").
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// CustomURL is the channel handle or legacy custom URL, if any.
	CustomURL   string `json:"custom_url,omitempty"`
	PublishedAt string `json:"published_at"`
	Thumbnail   string `json:"thumbnail"`
	// UploadsPlaylistID is the playlist every public upload is added to.
	UploadsPlaylistID string `json:"uploads_playlist_id"`
	Country           string `json:"country,omitempty"`
	SubscriberCount   uint64 `json:"subscriber_count"`
	VideoCount        uint64 `json:"video_count"`
}

// URL returns the canonical YouTube URL of the channel.
func (c Channel) URL() string {
	return "https://www.youtube.com/channel/" + c.ID
}

// Video is a video resource with statistics and content details always set.
type Video struct {
	ID             string         `json:"id"`
	Snippet        Snippet        `json:"snippet"`
	Statistics     Statistics     `json:"statistics"`
	ContentDetails ContentDetails `json:"content_details"`
	// Summary is an AI generated summary, filled in on request.
	Summary string `json:"ai_summary,omitempty"`
}

// Snippet holds the descriptive fields of a video.
type Snippet struct {
	PublishedAt  string `json:"published_at"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channel_title,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
}

// Statistics holds view, like and comment counts as decimal strings.
type Statistics struct {
	ViewCount    string `json:"view_count"`
	LikeCount    string `json:"like_count"`
	CommentCount string `json:"comment_count"`
}

// ContentDetails holds the ISO 8601 duration of a video.
type ContentDetails struct {
	Duration string `json:"duration"`
}

// Defaults substituted when the API omits a part for a video.
var (
	DefaultStatistics     = Statistics{ViewCount: "0", LikeCount: "0", CommentCount: "0"}
	DefaultContentDetails = ContentDetails{Duration: "PT0S"}
)

// URL returns the watch URL of the video.
func (v Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// Views returns the view count, or 0 if it does not parse.
func (v Video) Views() uint64 {
	n, _ := strconv.ParseUint(v.Statistics.ViewCount, 10, 64)
	return n
}

// Likes returns the like count, or 0 if it does not parse.
func (v Video) Likes() uint64 {
	n, _ := strconv.ParseUint(v.Statistics.LikeCount, 10, 64)
	return n
}

// Page is one page of a channel's uploads.
type Page struct {
	Videos []Video `json:"videos"`
	// NextCursor is the page token for the following page, empty on the last page.
	NextCursor string `json:"next_cursor,omitempty"`
}

// HasMore reports whether another page can be fetched.
func (p *Page) HasMore() bool {
	return p.NextCursor != ""
}

// ResolveError wraps resolution and listing errors with the failing operation.
// Use errors.As() to extract this error type:
//
//	var resolveErr *youtube.ResolveError
//	if errors.As(err, &resolveErr) {
//		fmt.Printf("%s %s failed: %v\n", resolveErr.Op, resolveErr.Input, resolveErr.Err)
//	}
type ResolveError struct {
	// Op is the operation that failed ("resolve" or "list").
	Op string
	// Input is the channel URL or playlist ID involved.
	Input string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the resolve error.
func (e *ResolveError) Error() string {
	return "youtube: " + e.Op + " " + e.Input + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *ResolveError) Unwrap() error { return e.Err }
