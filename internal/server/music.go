package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"maree/internal/models"
	"maree/internal/services"
	"maree/internal/shared"
)

// RequestLog records successful playlist appends locally. Logging failures
// never fail the guest's request.
type RequestLog interface {
	Create(ctx context.Context, req *models.SongRequest) error
}

// MusicHandler proxies catalog search and playlist appends for the song
// request page.
type MusicHandler struct {
	catalog  services.Catalog
	playlist services.Playlist
	requests RequestLog
	logger   *log.Logger
}

// NewMusicHandler creates the music endpoint group. requests may be nil to
// disable the local song request log.
func NewMusicHandler(catalog services.Catalog, playlist services.Playlist, requests RequestLog, logger *log.Logger) *MusicHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MusicHandler{catalog: catalog, playlist: playlist, requests: requests, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *MusicHandler) Routes() []string {
	return []string{"/api/music/search", "/api/music/requests"}
}

func (h *MusicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/music/search" && r.Method == http.MethodGet:
		h.search(w, r)
	case r.URL.Path == "/api/music/requests" && r.Method == http.MethodPost:
		h.add(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// search forwards the query to the catalog proxy. An empty query is answered
// with an empty list, mirroring the debounced search box's initial state.
func (h *MusicHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	tracks, err := h.catalog.SearchTracks(r.Context(), query)
	if err != nil {
		h.logger.Error("catalog search failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.Track{"tracks": tracks})
}

// add appends a track to the shared playlist and logs the request.
func (h *MusicHandler) add(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TrackURI  string `json:"trackUri"`
		TrackName string `json:"trackName"`
		Artist    string `json:"artist"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", shared.ErrValidation))
		return
	}

	snapshot, err := h.playlist.AddTrack(r.Context(), payload.TrackURI)
	if err != nil {
		h.logger.Error("playlist append failed", "uri", payload.TrackURI, "error", err)
		writeError(w, err)
		return
	}

	if h.requests != nil {
		req := &models.SongRequest{
			TrackURI:  payload.TrackURI,
			TrackName: payload.TrackName,
			Artist:    payload.Artist,
		}
		if err := h.requests.Create(r.Context(), req); err != nil {
			h.logger.Warn("song request log failed", "uri", payload.TrackURI, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"snapshotId": snapshot,
	})
}

var _ Handler = (*MusicHandler)(nil)
