package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"maree/internal/shared"
)

// AuthResult carries the outcome of the one-shot authorization flow used to
// obtain the playlist refresh token.
type AuthResult struct {
	Token *oauth2.Token
	err   error
}

func (a *AuthResult) Error() error {
	return a.err
}

// OAuthHandler serves the Spotify authorization callback during setup.
// Implements the Handler interface for registration with a Router.
type OAuthHandler struct {
	config      *oauth2.Config
	state       string
	resultChan  chan AuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewOAuthHandler creates a callback handler for the given OAuth2 config and
// state token. The state token should be random for CSRF protection.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:     config,
		state:      state,
		resultChan: make(chan AuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP validates the state parameter, exchanges the authorization code
// for tokens and sends the result through the result channel.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle the callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		err := fmt.Errorf("%w: state mismatch", shared.ErrUpstreamAuth)
		h.Send(AuthResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		err := fmt.Errorf("%w: authorization failed: %s - %s", shared.ErrUpstreamAuth, errParam, errDesc)
		h.Send(AuthResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(context.Background(), code)
	if err != nil {
		h.Send(AuthResult{err: fmt.Errorf("%w: token exchange failed: %v", shared.ErrUpstreamAuth, err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(AuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Spotify Connected</title>
    <style>
        body { font-family: Georgia, "Times New Roman", serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #faf7f2; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Spotify Connected</h1>
        <p>The wedding playlist is linked. You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send delivers the authorization result through the channel (only once).
func (h *OAuthHandler) Send(result AuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel that receives exactly one authorization result
// before being closed.
func (h *OAuthHandler) Result() <-chan AuthResult {
	return h.resultChan
}

var _ Handler = (*OAuthHandler)(nil)
