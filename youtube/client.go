package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	ythttp "ytdash/http"
	"ytdash/internal/keyring"
	"ytdash/internal/metrics"
)

const (
	// PageSize is the number of playlist entries requested per page.
	PageSize = 50

	// validationChannelID is a stable public channel used to check keys.
	validationChannelID = "UC_x5XG1OV2P6uZZ5FSM9Ttw"

	defaultCacheSize = 256
	defaultCacheTTL  = 6 * time.Hour
)

// Options configures a Client.
type Options struct {
	// HTTPClient is used for every request. Defaults to ythttp.New(nil).
	HTTPClient *http.Client
	// Endpoint overrides the Data API base URL (e.g., a test server).
	Endpoint string
	// CacheSize bounds the identifier to channel ID cache. Default: 256.
	CacheSize int
	// CacheTTL is how long a resolved channel ID is reused. Default: 6h.
	CacheTTL time.Duration
}

// Client talks to the YouTube Data API v3 with rotating API keys.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoint   string
	cache      *expirable.LRU[string, string]
	group      singleflight.Group
}

// NewClient creates a Data API client.
func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = ythttp.New(nil)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}

	return &Client{
		httpClient: opts.HTTPClient,
		endpoint:   opts.Endpoint,
		cache:      expirable.NewLRU[string, string](opts.CacheSize, nil, opts.CacheTTL),
	}
}

var executor = keyring.Executor{Service: "youtube", Classify: ythttp.FailureKind}

// ResolveChannel turns a channel URL into its channel record.
//
// The URL is parsed before any key is used, so a malformed URL returns
// ErrInvalidURL without a network call. Handles, custom and legacy names
// are resolved through search.list; identifiers starting with UC or HC
// are used as channel IDs directly.
func (c *Client) ResolveChannel(ctx context.Context, keys, channelURL string) (*Channel, error) {
	id, err := ParseChannelURL(channelURL)
	if err != nil {
		return nil, err
	}

	ch, err := keyring.Do(ctx, executor, keys, func(ctx context.Context, key string) (*Channel, error) {
		svc, err := c.service(ctx, key)
		if err != nil {
			return nil, err
		}
		channelID, err := c.lookupChannelID(ctx, svc, key, id)
		if err != nil {
			return nil, err
		}
		return fetchChannel(ctx, svc, channelID)
	})
	if err != nil {
		return nil, &ResolveError{Op: "resolve", Input: channelURL, Err: err}
	}

	log.Debug().
		Str("component", "youtube").
		Str("identifier", id.Value).
		Str("channel_id", ch.ID).
		Msg("channel resolved")
	return ch, nil
}

// FetchPage returns one page of up to PageSize videos from a playlist.
// An empty cursor fetches the first page. A playlist with no further
// entries yields an empty page and an empty cursor.
func (c *Client) FetchPage(ctx context.Context, keys, playlistID, cursor string) (*Page, error) {
	page, err := keyring.Do(ctx, executor, keys, func(ctx context.Context, key string) (*Page, error) {
		svc, err := c.service(ctx, key)
		if err != nil {
			return nil, err
		}
		return fetchPage(ctx, svc, playlistID, cursor)
	})
	if err != nil {
		return nil, &ResolveError{Op: "list", Input: playlistID, Err: err}
	}
	return page, nil
}

// ValidateKeys reports whether at least one key in keys can read a public
// channel. It returns false for an empty key set.
func (c *Client) ValidateKeys(ctx context.Context, keys string) bool {
	_, err := keyring.Do(ctx, executor, keys, func(ctx context.Context, key string) (struct{}, error) {
		svc, err := c.service(ctx, key)
		if err != nil {
			return struct{}{}, err
		}
		_, err = svc.Channels.List([]string{"snippet"}).Id(validationChannelID).Context(ctx).Do()
		return struct{}{}, convertError(err)
	})
	return err == nil
}

func (c *Client) service(ctx context.Context, key string) (*ytapi.Service, error) {
	opts := []option.ClientOption{option.WithHTTPClient(ythttp.WithAPIKey(c.httpClient, key))}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	svc, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return svc, nil
}

// lookupChannelID maps an identifier to a channel ID, searching when needed.
// Search results are cached; concurrent lookups with the same key share one
// call. The shared call outlives a canceled caller so the others still get
// its result.
func (c *Client) lookupChannelID(ctx context.Context, svc *ytapi.Service, key string, id Identifier) (string, error) {
	if id.IsChannelID() {
		return id.Value, nil
	}

	if channelID, ok := c.cache.Get(id.Value); ok {
		metrics.ResolveCache.WithLabelValues("hit").Inc()
		return channelID, nil
	}
	metrics.ResolveCache.WithLabelValues("miss").Inc()

	ch := c.group.DoChan(key+"\x00"+id.Value, func() (any, error) {
		resp, err := svc.Search.List([]string{"id"}).
			Q(id.Value).
			Type("channel").
			MaxResults(1).
			Context(context.WithoutCancel(ctx)).
			Do()
		if err != nil {
			return "", convertError(err)
		}
		if len(resp.Items) == 0 || resp.Items[0].Id == nil || resp.Items[0].Id.ChannelId == "" {
			return "", ErrChannelNotFound
		}

		channelID := resp.Items[0].Id.ChannelId
		c.cache.Add(id.Value, channelID)
		return channelID, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func fetchChannel(ctx context.Context, svc *ytapi.Service, channelID string) (*Channel, error) {
	resp, err := svc.Channels.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, convertError(err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	item := resp.Items[0]
	if item.ContentDetails == nil || item.ContentDetails.RelatedPlaylists == nil ||
		item.ContentDetails.RelatedPlaylists.Uploads == "" {
		return nil, ErrNoUploads
	}

	ch := &Channel{
		ID:                item.Id,
		UploadsPlaylistID: item.ContentDetails.RelatedPlaylists.Uploads,
	}
	if s := item.Snippet; s != nil {
		ch.Title = s.Title
		ch.Description = s.Description
		ch.CustomURL = s.CustomUrl
		ch.PublishedAt = s.PublishedAt
		ch.Country = s.Country
		ch.Thumbnail = thumbnailURL(s.Thumbnails)
	}
	if st := item.Statistics; st != nil {
		ch.SubscriberCount = st.SubscriberCount
		ch.VideoCount = st.VideoCount
	}
	return ch, nil
}

func fetchPage(ctx context.Context, svc *ytapi.Service, playlistID, cursor string) (*Page, error) {
	call := svc.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(PageSize).
		Context(ctx)
	if cursor != "" {
		call = call.PageToken(cursor)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, convertError(err)
	}
	if len(resp.Items) == 0 {
		return &Page{Videos: []Video{}}, nil
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet != nil && item.Snippet.ResourceId != nil && item.Snippet.ResourceId.VideoId != "" {
			ids = append(ids, item.Snippet.ResourceId.VideoId)
		}
	}
	if len(ids) == 0 {
		return &Page{Videos: []Video{}, NextCursor: resp.NextPageToken}, nil
	}

	vresp, err := svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, convertError(err)
	}

	byID := make(map[string]*ytapi.Video, len(vresp.Items))
	for _, v := range vresp.Items {
		byID[v.Id] = v
	}

	// Playlist order; entries the videos call did not return (private or
	// deleted uploads) are skipped.
	videos := make([]Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			videos = append(videos, normalizeVideo(v))
		}
	}

	return &Page{Videos: videos, NextCursor: resp.NextPageToken}, nil
}

// normalizeVideo converts an API video, substituting DefaultStatistics and
// DefaultContentDetails for missing parts.
func normalizeVideo(v *ytapi.Video) Video {
	out := Video{
		ID:             v.Id,
		Statistics:     DefaultStatistics,
		ContentDetails: DefaultContentDetails,
	}
	if s := v.Snippet; s != nil {
		out.Snippet = Snippet{
			PublishedAt:  s.PublishedAt,
			Title:        s.Title,
			Description:  s.Description,
			ChannelTitle: s.ChannelTitle,
			Thumbnail:    thumbnailURL(s.Thumbnails),
		}
	}
	if st := v.Statistics; st != nil {
		out.Statistics = Statistics{
			ViewCount:    strconv.FormatUint(st.ViewCount, 10),
			LikeCount:    strconv.FormatUint(st.LikeCount, 10),
			CommentCount: strconv.FormatUint(st.CommentCount, 10),
		}
	}
	if cd := v.ContentDetails; cd != nil && cd.Duration != "" {
		out.ContentDetails = ContentDetails{Duration: cd.Duration}
	}
	return out
}

func thumbnailURL(t *ytapi.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*ytapi.Thumbnail{t.Default, t.Medium, t.High} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// convertError turns a googleapi error into an *ythttp.APIError carrying
// the upstream message and first reason.
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	apiErr := &ythttp.APIError{
		Service:    "youtube",
		StatusCode: gerr.Code,
		Message:    gerr.Message,
	}
	if len(gerr.Errors) > 0 {
		apiErr.Reason = gerr.Errors[0].Reason
		if apiErr.Message == "" {
			apiErr.Message = gerr.Errors[0].Message
		}
	}
	return apiErr
}
