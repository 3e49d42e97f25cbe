package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"maree/internal/shared"
)

// SessionStore keeps the tokens issued by the passphrase gate in memory.
//
// Sessions die with the process on purpose: the gate only needs to hold for
// one browsing session, there is nothing to persist.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]time.Time
	now      func() time.Time
}

// NewSessionStore creates a store issuing tokens valid for ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Issue creates a new session token.
func (s *SessionStore) Issue() string {
	token := shared.GenerateID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = s.now().Add(s.ttl)

	return token
}

// Validate checks a token and drops it once expired.
func (s *SessionStore) Validate(token string) error {
	if token == "" {
		return fmt.Errorf("%w: missing session token", shared.ErrUnauthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return fmt.Errorf("%w: unknown session token", shared.ErrUnauthorized)
	}
	if s.now().After(expiry) {
		delete(s.sessions, token)
		return shared.ErrSessionExpired
	}

	return nil
}

// TTL returns the configured session lifetime.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// SessionHandler implements the passphrase gate: the shared passphrase from
// the paper invitation buys a short-lived session token.
type SessionHandler struct {
	passphrase string
	store      *SessionStore
	logger     *log.Logger
}

// NewSessionHandler creates the gate handler.
func NewSessionHandler(passphrase string, store *SessionStore, logger *log.Logger) *SessionHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SessionHandler{passphrase: passphrase, store: store, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *SessionHandler) Routes() []string {
	return []string{"/api/session"}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", shared.ErrValidation))
		return
	}

	if subtle.ConstantTimeCompare([]byte(payload.Passphrase), []byte(h.passphrase)) != 1 {
		h.logger.Warn("gate rejected", "remote", r.RemoteAddr)
		writeError(w, fmt.Errorf("%w: wrong passphrase", shared.ErrUnauthorized))
		return
	}

	token := h.store.Issue()
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"expiresIn": int(h.store.TTL().Seconds()),
	})
}

// RequireSession gates an endpoint behind a valid bearer token from the
// passphrase gate.
func RequireSession(store *SessionStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if err := store.Validate(token); err != nil {
				writeError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

var _ Handler = (*SessionHandler)(nil)
