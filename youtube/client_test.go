package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ythttp "ytdash/http"
	"ytdash/internal/keyring"
)

// fakeDataAPI serves the four Data API endpoints the client uses.
// Keys listed in rejected get a 403 quotaExceeded on every call.
type fakeDataAPI struct {
	mu       sync.Mutex
	calls    map[string]int
	keys     []string
	rejected map[string]bool

	search map[string]string // q -> channel ID
	// When searchGate is set, search requests announce themselves on
	// searchStarted and block until the gate is closed.
	searchStarted chan struct{}
	searchGate    chan struct{}
	channels      map[string]string // channel ID -> item JSON
	pages         map[string]string // pageToken -> playlistItems JSON
	videos        map[string]string // video ID -> item JSON
}

func newFakeDataAPI() *fakeDataAPI {
	return &fakeDataAPI{
		calls:    make(map[string]int),
		rejected: map[string]bool{"badkey": true},
		search:   map[string]string{"@test": "UCtest"},
		channels: map[string]string{
			"UCtest": `{"id":"UCtest","snippet":{"title":"Test Channel","description":"Cooking tips","customUrl":"@test",` +
				`"publishedAt":"2020-01-01T00:00:00Z","country":"VN","thumbnails":{"default":{"url":"https://img/ch.jpg"}}},` +
				`"contentDetails":{"relatedPlaylists":{"uploads":"UUtest"}},` +
				`"statistics":{"subscriberCount":"1200","videoCount":"3"}}`,
			"UCnouploads": `{"id":"UCnouploads","snippet":{"title":"Empty"},"contentDetails":{"relatedPlaylists":{}}}`,
		},
		pages: map[string]string{
			"": `{"nextPageToken":"CURSOR2","items":[` +
				`{"snippet":{"resourceId":{"videoId":"v1"}}},` +
				`{"snippet":{"resourceId":{"videoId":"v2"}}}]}`,
			"CURSOR2": `{"items":[{"snippet":{"resourceId":{"videoId":"v3"}}}]}`,
		},
		videos: map[string]string{
			"v1": `{"id":"v1","snippet":{"title":"First","publishedAt":"2024-01-01T00:00:00Z"}}`,
			"v2": `{"id":"v2","snippet":{"title":"Second","publishedAt":"2024-01-02T00:00:00Z"},` +
				`"statistics":{"viewCount":"1500","likeCount":"20","commentCount":"3"},"contentDetails":{"duration":"PT4M13S"}}`,
			"v3": `{"id":"v3","snippet":{"title":"Third"},"statistics":{"viewCount":"7"},"contentDetails":{"duration":"PT1H2S"}}`,
		},
	}
}

func (f *fakeDataAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	endpoint := strings.TrimPrefix(r.URL.Path, "/youtube/v3/")
	key := q.Get("key")

	f.mu.Lock()
	f.calls[endpoint]++
	f.keys = append(f.keys, key)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if key == "" || f.rejected[key] {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"The request cannot be completed because you have exceeded your quota.",`+
			`"errors":[{"reason":"quotaExceeded","domain":"youtube.quota"}]}}`)
		return
	}

	switch endpoint {
	case "search":
		if f.searchGate != nil {
			f.searchStarted <- struct{}{}
			<-f.searchGate
		}
		if id, ok := f.search[q.Get("q")]; ok {
			fmt.Fprintf(w, `{"items":[{"id":{"kind":"youtube#channel","channelId":%q}}]}`, id)
			return
		}
		fmt.Fprint(w, `{"items":[]}`)
	case "channels":
		if item, ok := f.channels[q.Get("id")]; ok {
			fmt.Fprintf(w, `{"items":[%s]}`, item)
			return
		}
		fmt.Fprint(w, `{"items":[]}`)
	case "playlistItems":
		if q.Get("playlistId") != "UUtest" {
			fmt.Fprint(w, `{"items":[]}`)
			return
		}
		fmt.Fprint(w, f.pages[q.Get("pageToken")])
	case "videos":
		// Reverse order, so callers must restore playlist order.
		ids := strings.Split(q.Get("id"), ",")
		var items []string
		for i := len(ids) - 1; i >= 0; i-- {
			if item, ok := f.videos[ids[i]]; ok {
				items = append(items, item)
			}
		}
		fmt.Fprintf(w, `{"items":[%s]}`, strings.Join(items, ","))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeDataAPI) callCount(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func (f *fakeDataAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func newTestClient(t *testing.T) (*Client, *fakeDataAPI) {
	t.Helper()
	fake := newFakeDataAPI()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := NewClient(Options{
		HTTPClient: ythttp.New(nil),
		Endpoint:   srv.URL + "/",
	})
	return client, fake
}

func TestResolveChannel_Handle(t *testing.T) {
	client, fake := newTestClient(t)

	ch, err := client.ResolveChannel(context.Background(), "goodkey", "https://www.youtube.com/@test")
	require.NoError(t, err)

	assert.Equal(t, "UCtest", ch.ID)
	assert.Equal(t, "Test Channel", ch.Title)
	assert.Equal(t, "Cooking tips", ch.Description)
	assert.Equal(t, "@test", ch.CustomURL)
	assert.Equal(t, "2020-01-01T00:00:00Z", ch.PublishedAt)
	assert.Equal(t, "https://img/ch.jpg", ch.Thumbnail)
	assert.Equal(t, "UUtest", ch.UploadsPlaylistID)
	assert.Equal(t, "VN", ch.Country)
	assert.Equal(t, uint64(1200), ch.SubscriberCount)
	assert.Equal(t, uint64(3), ch.VideoCount)

	assert.Equal(t, 1, fake.callCount("search"))
	assert.Equal(t, 1, fake.callCount("channels"))
}

func TestResolveChannel_ChannelIDSkipsSearch(t *testing.T) {
	client, fake := newTestClient(t)

	ch, err := client.ResolveChannel(context.Background(), "goodkey", "https://www.youtube.com/channel/UCtest")
	require.NoError(t, err)

	assert.Equal(t, "UCtest", ch.ID)
	assert.Equal(t, 0, fake.callCount("search"), "a UC identifier must not be searched")
}

func TestResolveChannel_BadKeyFallsThroughToGoodKey(t *testing.T) {
	client, fake := newTestClient(t)

	ch, err := client.ResolveChannel(context.Background(), "badkey,goodkey", "https://youtube.com/@test")
	require.NoError(t, err)
	assert.Equal(t, "UCtest", ch.ID)
	assert.Equal(t, "Test Channel", ch.Title)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.NotEmpty(t, fake.keys)
	assert.Equal(t, "badkey", fake.keys[0], "keys must be tried in order")
}

func TestResolveChannel_InvalidURLMakesNoCall(t *testing.T) {
	client, fake := newTestClient(t)

	_, err := client.ResolveChannel(context.Background(), "goodkey", "https://example.com/not-youtube")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, 0, fake.totalCalls())
}

func TestResolveChannel_NotFound(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ResolveChannel(context.Background(), "goodkey", "https://www.youtube.com/@nobody")
	assert.ErrorIs(t, err, ErrChannelNotFound)

	var exhausted *keyring.ExhaustedError
	assert.ErrorAs(t, err, &exhausted)

	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.Equal(t, "resolve", resolveErr.Op)
}

func TestResolveChannel_UnknownChannelID(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ResolveChannel(context.Background(), "goodkey", "https://www.youtube.com/channel/UCmissing")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestResolveChannel_NoUploads(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ResolveChannel(context.Background(), "goodkey", "https://www.youtube.com/channel/UCnouploads")
	assert.ErrorIs(t, err, ErrNoUploads)
}

func TestResolveChannel_AllKeysFail(t *testing.T) {
	client, fake := newTestClient(t)
	fake.rejected["otherbad"] = true

	_, err := client.ResolveChannel(context.Background(), "badkey\notherbad", "https://www.youtube.com/@test")
	require.Error(t, err)

	var exhausted *keyring.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 2, exhausted.Attempts)

	var apiErr *ythttp.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "quotaExceeded", apiErr.Reason)
	assert.True(t, ythttp.IsQuotaExceeded(err))
	assert.Contains(t, err.Error(), "exceeded your quota")
}

func TestResolveChannel_NoCredentials(t *testing.T) {
	client, fake := newTestClient(t)

	_, err := client.ResolveChannel(context.Background(), " , \n", "https://www.youtube.com/@test")
	assert.ErrorIs(t, err, keyring.ErrNoCredentials)
	assert.Equal(t, 0, fake.totalCalls())
}

func TestResolveChannel_CachesSearch(t *testing.T) {
	client, fake := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.ResolveChannel(ctx, "goodkey", "https://www.youtube.com/@test")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, fake.callCount("search"))
	assert.Equal(t, 3, fake.callCount("channels"))
}

func TestResolveChannel_CanceledCallerDoesNotFailSharedSearch(t *testing.T) {
	client, fake := newTestClient(t)
	fake.searchStarted = make(chan struct{}, 1)
	fake.searchGate = make(chan struct{})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.ResolveChannel(first, "goodkey", "https://www.youtube.com/@test")
		firstErr <- err
	}()
	<-fake.searchStarted

	type result struct {
		ch  *Channel
		err error
	}
	second := make(chan result, 1)
	go func() {
		ch, err := client.ResolveChannel(context.Background(), "goodkey", "https://www.youtube.com/@test")
		second <- result{ch, err}
	}()
	// Let the second caller join the in-flight search.
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(fake.searchGate)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "UCtest", res.ch.ID)
	assert.Equal(t, 1, fake.callCount("search"), "both callers should share one search")
}

func TestFetchPage(t *testing.T) {
	client, _ := newTestClient(t)

	page, err := client.FetchPage(context.Background(), "goodkey", "UUtest", "")
	require.NoError(t, err)

	require.Len(t, page.Videos, 2)
	assert.Equal(t, "v1", page.Videos[0].ID, "videos must keep playlist order")
	assert.Equal(t, "v2", page.Videos[1].ID)
	assert.Equal(t, "CURSOR2", page.NextCursor)
	assert.True(t, page.HasMore())

	second := page.Videos[1]
	assert.Equal(t, "Second", second.Snippet.Title)
	assert.Equal(t, Statistics{ViewCount: "1500", LikeCount: "20", CommentCount: "3"}, second.Statistics)
	assert.Equal(t, "PT4M13S", second.ContentDetails.Duration)
	assert.Equal(t, uint64(1500), second.Views())
	assert.Equal(t, uint64(20), second.Likes())
}

func TestFetchPage_MissingPartsGetDefaults(t *testing.T) {
	client, _ := newTestClient(t)

	page, err := client.FetchPage(context.Background(), "goodkey", "UUtest", "")
	require.NoError(t, err)

	first := page.Videos[0]
	assert.Equal(t, Statistics{ViewCount: "0", LikeCount: "0", CommentCount: "0"}, first.Statistics)
	assert.Equal(t, "PT0S", first.ContentDetails.Duration)
}

func TestFetchPage_LastPage(t *testing.T) {
	client, _ := newTestClient(t)

	page, err := client.FetchPage(context.Background(), "goodkey", "UUtest", "CURSOR2")
	require.NoError(t, err)

	require.Len(t, page.Videos, 1)
	assert.Equal(t, "v3", page.Videos[0].ID)
	assert.Equal(t, "7", page.Videos[0].Statistics.ViewCount)
	assert.Equal(t, "0", page.Videos[0].Statistics.LikeCount)
	assert.Empty(t, page.NextCursor)
	assert.False(t, page.HasMore())
}

func TestFetchPage_EmptyPlaylist(t *testing.T) {
	client, fake := newTestClient(t)

	page, err := client.FetchPage(context.Background(), "goodkey", "UUempty", "")
	require.NoError(t, err)

	assert.Empty(t, page.Videos)
	assert.Empty(t, page.NextCursor)
	assert.Equal(t, 0, fake.callCount("videos"), "no videos call for an empty page")
}

func TestFetchPage_SameCursorSameVideos(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	a, err := client.FetchPage(ctx, "goodkey", "UUtest", "")
	require.NoError(t, err)
	b, err := client.FetchPage(ctx, "goodkey", "UUtest", "")
	require.NoError(t, err)

	assert.Equal(t, videoIDs(a.Videos), videoIDs(b.Videos))
}

func TestFetchPage_BadKeyFallsThrough(t *testing.T) {
	client, _ := newTestClient(t)

	page, err := client.FetchPage(context.Background(), "badkey,goodkey", "UUtest", "")
	require.NoError(t, err)
	assert.Len(t, page.Videos, 2)
}

func TestValidateKeys(t *testing.T) {
	client, fake := newTestClient(t)
	ctx := context.Background()

	assert.True(t, client.ValidateKeys(ctx, "badkey,goodkey"))
	assert.False(t, client.ValidateKeys(ctx, "badkey"))
	assert.False(t, client.ValidateKeys(ctx, ""))
	assert.Equal(t, 3, fake.callCount("channels"))
}

func TestConvertError(t *testing.T) {
	plain := errors.New("dial tcp: connection refused")
	assert.Same(t, plain, convertError(plain))
	assert.NoError(t, convertError(nil))
}

func videoIDs(videos []Video) []string {
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	return ids
}
