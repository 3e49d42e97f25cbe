package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"maree/internal/shared"
)

// expiryMargin is subtracted from a token's lifetime so a token is refreshed
// before it can expire mid-request.
const expiryMargin = 60 * time.Second

// TokenSource caches one access token and refreshes it synchronously once
// `now >= expiry - margin`.
//
// The mutex is held across the refresh, so concurrent callers waiting on an
// expired token share a single outstanding exchange. A failed exchange leaves
// the cached token untouched.
//
// Two independent instances exist in the application: the app-scoped catalog
// credential (client-credentials grant) and the user-scoped playlist
// credential (refresh-token grant). They must never share a cache — the
// playlist token acts on the couple's account.
type TokenSource struct {
	mu     sync.Mutex
	fetch  func(ctx context.Context) (*oauth2.Token, error)
	token  *oauth2.Token
	margin time.Duration
	now    func() time.Time
}

// NewTokenSource wraps a fetch function with the caching contract above.
func NewTokenSource(fetch func(ctx context.Context) (*oauth2.Token, error)) *TokenSource {
	return &TokenSource{fetch: fetch, margin: expiryMargin, now: time.Now}
}

// Token returns the cached access token while it is still valid, otherwise
// exchanges the configured credential for a fresh one.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid() {
		return s.token.AccessToken, nil
	}

	token, err := s.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpstreamAuth, err)
	}
	if token == nil || token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", shared.ErrUpstreamAuth)
	}

	s.token = token
	return s.token.AccessToken, nil
}

// Reset drops the cached token, forcing the next call to exchange again.
func (s *TokenSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
}

// valid reports whether the cached token can be reused. Callers hold s.mu.
func (s *TokenSource) valid() bool {
	if s.token == nil || s.token.AccessToken == "" {
		return false
	}
	if s.token.Expiry.IsZero() {
		return true
	}
	return s.now().Before(s.token.Expiry.Add(-s.margin))
}

// NewClientCredentialsSource builds the app-scoped token source backed by the
// client-credentials grant.
func NewClientCredentialsSource(clientID, clientSecret, tokenURL string, client *http.Client) *TokenSource {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return NewTokenSource(func(ctx context.Context) (*oauth2.Token, error) {
		return conf.Token(withHTTPClient(ctx, client))
	})
}

// NewRefreshTokenSource builds the user-scoped token source backed by the
// refresh-token grant for the couple's account.
func NewRefreshTokenSource(clientID, clientSecret, refreshToken, tokenURL string, client *http.Client) *TokenSource {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return NewTokenSource(func(ctx context.Context) (*oauth2.Token, error) {
		// A fresh oauth2 source per fetch forces an actual exchange; reuse
		// caching lives in TokenSource, with our own expiry margin.
		src := conf.TokenSource(withHTTPClient(ctx, client), &oauth2.Token{RefreshToken: refreshToken})
		return src.Token()
	})
}

// withHTTPClient routes oauth2's exchanges through the service's HTTP client,
// picking up its timeout.
func withHTTPClient(ctx context.Context, client *http.Client) context.Context {
	if client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}
