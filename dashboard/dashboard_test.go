package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytdash/llm"
	"ytdash/storage"
	"ytdash/youtube"
)

type fakeSource struct {
	channel  *youtube.Channel
	pages    map[string]*youtube.Page
	err      error
	fetches  []string
	lastKeys string
}

func (f *fakeSource) ResolveChannel(ctx context.Context, keys, channelURL string) (*youtube.Channel, error) {
	f.lastKeys = keys
	if f.err != nil {
		return nil, f.err
	}
	ch := *f.channel
	return &ch, nil
}

func (f *fakeSource) FetchPage(ctx context.Context, keys, playlistID, cursor string) (*youtube.Page, error) {
	f.fetches = append(f.fetches, cursor)
	page, ok := f.pages[cursor]
	if !ok {
		return nil, errors.New("unexpected cursor " + cursor)
	}
	return page, nil
}

type echoProvider struct {
	histories [][]llm.Message
}

func (p *echoProvider) Name() string { return "fake" }

func (p *echoProvider) Generate(ctx context.Context, key, model string, history []llm.Message) (string, error) {
	p.histories = append(p.histories, history)
	return "reply to: " + history[len(history)-1].Content, nil
}

func (p *echoProvider) Validate(ctx context.Context, key string) error { return nil }

func video(id, title string) youtube.Video {
	return youtube.Video{
		ID:             id,
		Snippet:        youtube.Snippet{Title: title, PublishedAt: "2025-01-02T03:04:05Z"},
		Statistics:     youtube.Statistics{ViewCount: "100", LikeCount: "7", CommentCount: "1"},
		ContentDetails: youtube.ContentDetails{Duration: "PT4M"},
	}
}

func newSource() *fakeSource {
	return &fakeSource{
		channel: &youtube.Channel{ID: "UCcook", Title: "Bếp Nhà", UploadsPlaylistID: "UUcook"},
		pages: map[string]*youtube.Page{
			"": {
				Videos: []youtube.Video{
					video("v1", "Mẹo nấu ăn ngon #bep"),
					video("v2", "Mẹo nấu ăn nhanh"),
				},
				NextCursor: "P2",
			},
			"P2": {
				Videos: []youtube.Video{video("v3", "Canh chua mẹo nấu ăn")},
			},
		},
	}
}

func TestAnalyze(t *testing.T) {
	src := newSource()
	a := &Analyzer{YouTube: src, YouTubeKeys: "k1,k2"}

	r, err := a.Analyze(context.Background(), "https://www.youtube.com/@bepnha")
	require.NoError(t, err)

	assert.Equal(t, "k1,k2", src.lastKeys)
	assert.Equal(t, "UCcook", r.Channel.ID)
	assert.Len(t, r.Videos, 2)
	assert.True(t, r.HasMore())
	require.NotEmpty(t, r.Keywords)
	assert.Equal(t, "mẹo", r.Keywords[0].Phrase)

	require.Len(t, r.Messages, 1)
	assert.Equal(t, llm.RoleModel, r.Messages[0].Role)
	assert.Contains(t, r.Messages[0].Content, "Bếp Nhà")
	assert.Contains(t, r.Messages[0].Content, "mẹo")
}

func TestAnalyze_NoKeywordsNoOpener(t *testing.T) {
	src := newSource()
	src.pages[""] = &youtube.Page{Videos: []youtube.Video{video("v1", "unique title")}}
	a := &Analyzer{YouTube: src}

	r, err := a.Analyze(context.Background(), "https://www.youtube.com/@bepnha")
	require.NoError(t, err)
	assert.Empty(t, r.Keywords)
	assert.NotNil(t, r.Messages)
	assert.Empty(t, r.Messages)
	assert.False(t, r.HasMore())
}

func TestAnalyze_ResolveError(t *testing.T) {
	src := newSource()
	src.err = youtube.ErrChannelNotFound
	a := &Analyzer{YouTube: src}

	_, err := a.Analyze(context.Background(), "https://www.youtube.com/@missing")
	assert.ErrorIs(t, err, youtube.ErrChannelNotFound)
	assert.Empty(t, src.fetches, "no page fetch after a failed resolve")
}

func TestLoadMore(t *testing.T) {
	src := newSource()
	a := &Analyzer{YouTube: src}
	ctx := context.Background()

	r, err := a.Analyze(ctx, "https://www.youtube.com/@bepnha")
	require.NoError(t, err)
	opener := r.Messages

	require.NoError(t, a.LoadMore(ctx, r))
	assert.Len(t, r.Videos, 3)
	assert.Equal(t, "v3", r.Videos[2].ID)
	assert.False(t, r.HasMore())
	assert.Equal(t, 3, r.Keywords[0].Count, "keywords refreshed over all videos")
	assert.Equal(t, opener, r.Messages)

	// Exhausted results make no further calls.
	require.NoError(t, a.LoadMore(ctx, r))
	assert.Equal(t, []string{"", "P2"}, src.fetches)
}

func TestChat(t *testing.T) {
	provider := &echoProvider{}
	a := &Analyzer{
		YouTube:   newSource(),
		Assistant: llm.NewAssistant(provider, "key", ""),
	}
	ctx := context.Background()

	r, err := a.Analyze(ctx, "https://www.youtube.com/@bepnha")
	require.NoError(t, err)

	reply, err := a.Chat(ctx, r, "5 ý tưởng video?")
	require.NoError(t, err)
	assert.Equal(t, "reply to: 5 ý tưởng video?", reply)

	require.Len(t, r.Messages, 3)
	assert.Equal(t, llm.RoleUser, r.Messages[1].Role)
	assert.Equal(t, llm.RoleModel, r.Messages[2].Role)
	require.Len(t, provider.histories, 1)
	assert.Len(t, provider.histories[0], 2, "opener plus question sent to provider")
}

func TestAIWithoutAssistant(t *testing.T) {
	a := &Analyzer{YouTube: newSource()}
	ctx := context.Background()

	_, err := a.Chat(ctx, &Result{}, "hi")
	assert.ErrorIs(t, err, ErrNoAssistant)

	v := video("v1", "t")
	assert.ErrorIs(t, a.Summarize(ctx, &v), ErrNoAssistant)

	_, err = a.Compete(ctx, nil, "")
	assert.ErrorIs(t, err, ErrNoAssistant)
}

func TestSummarize(t *testing.T) {
	a := &Analyzer{Assistant: llm.NewAssistant(&echoProvider{}, "key", "")}
	v := video("v1", "Canh chua")

	require.NoError(t, a.Summarize(context.Background(), &v))
	assert.Contains(t, v.Summary, "Canh chua")
}

func TestCompete(t *testing.T) {
	provider := &echoProvider{}
	a := &Analyzer{Assistant: llm.NewAssistant(provider, "key", "")}
	sessions := []*storage.Session{{
		Channel: youtube.Channel{Title: "Bếp Nhà"},
		Videos:  []youtube.Video{video("v1", "Canh chua")},
	}}

	_, err := a.Compete(context.Background(), sessions, "")
	require.NoError(t, err)

	prompt := provider.histories[0][0].Content
	assert.Contains(t, prompt, "YouTube Channel Competitive Analysis")
	assert.Contains(t, prompt, "Bếp Nhà,Canh chua,2025-01-02T03:04:05Z,100,7,PT4M")
}

func TestSaveAndOpenSession(t *testing.T) {
	store, err := storage.NewJSONStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)
	defer store.Close()

	a := &Analyzer{YouTube: newSource(), Store: store}
	ctx := context.Background()

	r, err := a.Analyze(ctx, "https://www.youtube.com/@bepnha")
	require.NoError(t, err)

	saved, err := a.SaveSession(ctx, r)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "UCcook", saved.ChannelID)

	opened, err := a.OpenSession(ctx, "UCcook")
	require.NoError(t, err)
	assert.Equal(t, r.Channel, opened.Channel)
	assert.Equal(t, r.NextCursor, opened.NextCursor)
	assert.Equal(t, r.Messages, opened.Messages)
	assert.Equal(t, r.Keywords, opened.Keywords)

	_, err = a.OpenSession(ctx, "UCother")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveSession_NoVideos(t *testing.T) {
	a := &Analyzer{}
	_, err := a.SaveSession(context.Background(), &Result{Channel: youtube.Channel{ID: "UCx"}})
	assert.ErrorIs(t, err, ErrNoVideos)
}

func TestFromSession_RegeneratesOpener(t *testing.T) {
	s := &storage.Session{
		Channel: youtube.Channel{ID: "UCcook", Title: "Bếp Nhà"},
		Videos: []youtube.Video{
			video("v1", "Mẹo nấu ăn"),
			video("v2", "Mẹo nấu ăn"),
		},
	}

	r := FromSession(s)
	require.Len(t, r.Messages, 1)
	assert.True(t, strings.Contains(r.Messages[0].Content, "mẹo nấu ăn"))

	s.Messages = []llm.Message{{Role: llm.RoleUser, Content: "kept"}}
	r = FromSession(s)
	assert.Equal(t, s.Messages, r.Messages)
}
