package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ytdash/dashboard"
	"ytdash/keywords"
	"ytdash/llm"
	"ytdash/storage"
	"ytdash/youtube"
)

const maxBodyBytes = 32 << 20

type urlRequest struct {
	URL string `json:"url"`
}

type videosRequest struct {
	Videos []youtube.Video `json:"videos"`
}

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

type queueRequest struct {
	Text     string   `json:"text"`
	Existing []string `json:"existing"`
	Done     []string `json:"done"`
}

type competeRequest struct {
	// ChannelIDs selects saved sessions; empty means all of them.
	ChannelIDs   []string `json:"channel_ids"`
	Instructions string   `json:"instructions"`
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	return nil
}

// POST /api/channel {url}
func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	channel, err := s.analyzer.YouTube.ResolveChannel(r.Context(), s.analyzer.YouTubeKeys, req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, channel)
}

// GET /api/playlists/{id}/videos?cursor=
func (s *Server) handlePlaylistVideos(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")
	cursor := r.URL.Query().Get("cursor")

	page, err := s.analyzer.YouTube.FetchPage(r.Context(), s.analyzer.YouTubeKeys, playlistID, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// POST /api/analyze {url}
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// POST /api/keywords {videos}
func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	var req videosRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, keywords.Counts(req.Videos))
}

// POST /api/hashtags {videos}
func (s *Server) handleHashtags(w http.ResponseWriter, r *http.Request) {
	var req videosRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, keywords.Hashtags(req.Videos))
}

// POST /api/chat {messages}
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if s.analyzer.Assistant == nil {
		writeError(w, dashboard.ErrNoAssistant)
		return
	}

	reply, err := s.analyzer.Assistant.Chat(r.Context(), req.Messages)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, llm.Message{Role: llm.RoleModel, Content: reply})
}

// POST /api/summarize {video}
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var video youtube.Video
	if err := decode(r, &video); err != nil {
		writeError(w, err)
		return
	}

	if err := s.analyzer.Summarize(r.Context(), &video); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if s.rates != nil {
		resp["rate_limits"] = s.rates.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/queue {text, existing, done}
func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	var req queueRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	queue := dashboard.Enqueue(req.Existing, req.Text)
	for _, u := range req.Done {
		queue = dashboard.Dequeue(queue, u)
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"added": dashboard.ParseQueue(req.Text, req.Existing),
		"queue": queue,
	})
}

// GET /api/keys/validate
func (s *Server) handleValidateKeys(w http.ResponseWriter, r *http.Request) {
	resp := map[string]bool{"youtube": false, "ai": false}
	if s.validator != nil {
		resp["youtube"] = s.validator.ValidateKeys(r.Context(), s.analyzer.YouTubeKeys)
	}
	if s.analyzer.Assistant != nil {
		resp["ai"] = s.analyzer.Assistant.ValidateKeys(r.Context())
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/compete {channel_ids, instructions}
func (s *Server) handleCompete(w http.ResponseWriter, r *http.Request) {
	var req competeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var sessions []*storage.Session
	if len(req.ChannelIDs) == 0 {
		all, err := s.analyzer.Store.ListSessions(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		sessions = all
	}
	for _, id := range req.ChannelIDs {
		session, err := s.analyzer.Store.GetSession(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		sessions = append(sessions, session)
	}

	report, err := s.analyzer.Compete(r.Context(), sessions, req.Instructions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"report": report})
}

// GET /api/sessions
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.analyzer.Store.ListSessions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// POST /api/sessions {result}
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var result dashboard.Result
	if err := decode(r, &result); err != nil {
		writeError(w, err)
		return
	}

	session, err := s.analyzer.SaveSession(r.Context(), &result)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// GET /api/sessions/{channelID}
func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	result, err := s.analyzer.OpenSession(r.Context(), chi.URLParam(r, "channelID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DELETE /api/sessions/{channelID}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.analyzer.Store.DeleteSession(r.Context(), chi.URLParam(r, "channelID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/sessions/import [sessions]
func (s *Server) handleImportSessions(w http.ResponseWriter, r *http.Request) {
	var sessions []*storage.Session
	if err := decode(r, &sessions); err != nil {
		writeError(w, err)
		return
	}

	total, err := s.analyzer.Store.ImportSessions(r.Context(), sessions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(sessions), "total": total})
}
