package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"maree/internal/models"
	"maree/internal/shared"
	"maree/internal/tasks"
)

// RSVPHandler serves the two halves of the RSVP wizard: household search and
// roster submission.
type RSVPHandler struct {
	engine *tasks.RSVPEngine
	logger *log.Logger
}

// NewRSVPHandler creates the RSVP endpoint group.
func NewRSVPHandler(engine *tasks.RSVPEngine, logger *log.Logger) *RSVPHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RSVPHandler{engine: engine, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *RSVPHandler) Routes() []string {
	return []string{"/api/rsvp/search", "/api/rsvp"}
}

func (h *RSVPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/api/rsvp/search":
		h.search(w, r)
	case "/api/rsvp":
		h.submit(w, r)
	default:
		http.NotFound(w, r)
	}
}

// search resolves the household for a typed name.
func (h *RSVPHandler) search(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", shared.ErrValidation))
		return
	}

	household, err := h.engine.Search(r.Context(), payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, household)
}

// submit stores one response per roster member.
func (h *RSVPHandler) submit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Transport string               `json:"transport"`
		Guests    []models.RosterEntry `json:"guests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", shared.ErrValidation))
		return
	}

	if err := h.engine.Submit(r.Context(), payload.Guests, payload.Transport); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

var _ Handler = (*RSVPHandler)(nil)
