package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"maree/internal/shared"
)

func testLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func TestSessionStore(t *testing.T) {
	t.Run("issued tokens validate", func(t *testing.T) {
		store := NewSessionStore(time.Hour)
		token := store.Issue()

		if err := store.Validate(token); err != nil {
			t.Fatalf("expected fresh token to validate, got %v", err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		store := NewSessionStore(time.Hour)
		if err := store.Validate(""); !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		store := NewSessionStore(time.Hour)
		if err := store.Validate("not-issued"); !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("expired token is dropped", func(t *testing.T) {
		store := NewSessionStore(time.Hour)
		token := store.Issue()

		store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		if err := store.Validate(token); !errors.Is(err, shared.ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}

		// A second check sees the token as gone, not merely expired.
		if err := store.Validate(token); !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized after drop, got %v", err)
		}
	})
}

func TestSessionHandler(t *testing.T) {
	newGate := func() (*SessionHandler, *SessionStore) {
		store := NewSessionStore(30 * time.Minute)
		return NewSessionHandler("la-maree-2026", store, testLogger()), store
	}

	t.Run("correct passphrase buys a token", func(t *testing.T) {
		handler, store := newGate()

		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"passphrase": "la-maree-2026"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		token, _ := body["token"].(string)
		if token == "" {
			t.Fatal("expected a session token in the response")
		}
		if err := store.Validate(token); err != nil {
			t.Errorf("expected issued token to validate, got %v", err)
		}
		if expires, _ := body["expiresIn"].(float64); int(expires) != 1800 {
			t.Errorf("expected expiresIn 1800, got %v", body["expiresIn"])
		}
	})

	t.Run("wrong passphrase is rejected", func(t *testing.T) {
		handler, _ := newGate()

		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"passphrase": "guess"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		handler, _ := newGate()

		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		handler, _ := newGate()

		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestRequireSession(t *testing.T) {
	store := NewSessionStore(time.Hour)
	token := store.Issue()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gated := RequireSession(store)(next)

	t.Run("valid bearer token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/rsvp", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		gated.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/rsvp", nil)
		rec := httptest.NewRecorder()
		gated.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("preflight bypasses the gate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/rsvp", nil)
		rec := httptest.NewRecorder()
		gated.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected preflight to pass through, got %d", rec.Code)
		}
	})
}
