package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
	"maree/internal/shared"
)

// spotifyTestServer fakes the token endpoint and the two API endpoints the
// service talks to, counting hits per endpoint.
type spotifyTestServer struct {
	*httptest.Server
	tokenExchanges int
	searches       int
	appends        int
	lastAuth       string
	lastAppendBody map[string][]string
	searchStatus   int
}

func newSpotifyTestServer(t *testing.T) *spotifyTestServer {
	t.Helper()

	ts := &spotifyTestServer{searchStatus: http.StatusOK}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		ts.tokenExchanges++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token": "token-%d", "token_type": "Bearer", "expires_in": 3600}`, ts.tokenExchanges)
	})

	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		ts.searches++
		ts.lastAuth = r.Header.Get("Authorization")

		if ts.searchStatus != http.StatusOK {
			w.WriteHeader(ts.searchStatus)
			fmt.Fprint(w, `{"error": {"message": "upstream broke"}}`)
			return
		}

		if got := r.URL.Query().Get("type"); got != "track" {
			t.Errorf("expected type=track, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("expected limit=10, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"tracks": {
				"items": [
					{
						"id": "track1",
						"name": "Nessun Dorma",
						"artists": [{"name": "Luciano Pavarotti"}, {"name": "Orchestra"}],
						"album": {
							"name": "Turandot",
							"images": [
								{"url": "https://img/large", "height": 640, "width": 640},
								{"url": "https://img/medium", "height": 300, "width": 300},
								{"url": "https://img/small", "height": 64, "width": 64}
							]
						},
						"uri": "spotify:track:track1"
					},
					{
						"id": "track2",
						"name": "Volare",
						"artists": [{"name": "Domenico Modugno"}],
						"album": {
							"name": "Singles",
							"images": [{"url": "https://img/only", "height": 640, "width": 640}]
						},
						"uri": "spotify:track:track2"
					}
				]
			}
		}`)
	})

	mux.HandleFunc("/v1/playlists/wedding123/tracks", func(w http.ResponseWriter, r *http.Request) {
		ts.appends++
		ts.lastAuth = r.Header.Get("Authorization")

		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&ts.lastAppendBody); err != nil {
			t.Errorf("failed to decode append body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"snapshot_id": "snap-%d"}`, ts.appends)
	})

	ts.Server = httptest.NewServer(mux)
	return ts
}

// newTestService builds a SpotifyService pointed at the fake server.
func newTestService(ts *spotifyTestServer, playlistID string) *SpotifyService {
	client := ts.Client()
	tokenURL := ts.URL + "/api/token"

	return &SpotifyService{
		baseURL:    ts.URL + "/v1",
		httpClient: client,
		catalog:    NewClientCredentialsSource("client-id", "client-secret", tokenURL, client),
		playlist:   NewRefreshTokenSource("client-id", "client-secret", "refresh-abc", tokenURL, client),
		playlistID: playlistID,
		oauthConf:  &oauth2.Config{ClientID: "client-id"},
	}
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("requires client credentials", func(t *testing.T) {
		_, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "only-id"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("builds with full credentials", func(t *testing.T) {
		svc, err := NewSpotifyService(shared.SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://127.0.0.1:3000/callback",
			PlaylistID:   "wedding123",
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		authURL := svc.AuthURL("state123")
		if !strings.Contains(authURL, "state=state123") {
			t.Errorf("expected state in auth URL, got %s", authURL)
		}
		if !strings.Contains(authURL, "access_type=offline") {
			t.Errorf("expected offline access in auth URL, got %s", authURL)
		}
	})
}

func TestSpotifyService_SearchTracks(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query short-circuits without network", func(t *testing.T) {
		ts := newSpotifyTestServer(t)
		defer ts.Close()
		svc := newTestService(ts, "wedding123")

		tracks, err := svc.SearchTracks(ctx, "   ")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected empty result, got %d tracks", len(tracks))
		}
		if ts.tokenExchanges != 0 || ts.searches != 0 {
			t.Errorf("expected no upstream calls, got %d exchanges and %d searches", ts.tokenExchanges, ts.searches)
		}
	})

	t.Run("maps results to the simplified shape", func(t *testing.T) {
		ts := newSpotifyTestServer(t)
		defer ts.Close()
		svc := newTestService(ts, "wedding123")

		tracks, err := svc.SearchTracks(ctx, "nessun dorma")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}

		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}

		first := tracks[0]
		if first.Artist != "Luciano Pavarotti, Orchestra" {
			t.Errorf("expected joined artists, got %q", first.Artist)
		}
		if first.Image != "https://img/small" {
			t.Errorf("expected the small image variant, got %q", first.Image)
		}
		if first.URI != "spotify:track:track1" {
			t.Errorf("unexpected URI %q", first.URI)
		}

		if tracks[1].Image != "https://img/only" {
			t.Errorf("expected fallback to first image, got %q", tracks[1].Image)
		}
	})

	t.Run("reuses one app token across searches", func(t *testing.T) {
		ts := newSpotifyTestServer(t)
		defer ts.Close()
		svc := newTestService(ts, "wedding123")

		for i := 0; i < 3; i++ {
			if _, err := svc.SearchTracks(ctx, "volare"); err != nil {
				t.Fatalf("search %d failed: %v", i+1, err)
			}
		}

		if ts.tokenExchanges != 1 {
			t.Errorf("expected 1 token exchange for 3 searches, got %d", ts.tokenExchanges)
		}
		if ts.searches != 3 {
			t.Errorf("expected 3 searches, got %d", ts.searches)
		}
		if ts.lastAuth != "Bearer token-1" {
			t.Errorf("expected the cached bearer token, got %q", ts.lastAuth)
		}
	})

	t.Run("maps upstream failures to ErrUpstream", func(t *testing.T) {
		ts := newSpotifyTestServer(t)
		defer ts.Close()
		ts.searchStatus = http.StatusTooManyRequests
		svc := newTestService(ts, "wedding123")

		_, err := svc.SearchTracks(ctx, "volare")
		if !errors.Is(err, shared.ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
	})
}

func TestSpotifyService_AddTrack(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a track URI", func(t *testing.T) {
		ts := newSpotifyTestServer(t)
		defer ts.Close()
		svc := newTestService(ts, "wedding123")

		_, err := svc.AddTrack(ctx, "")
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if ts.tokenExchanges != 0 {
			t.Errorf("expected no exchange for invalid input, got %d", ts.tokenExchanges)
		}
	})

	t.Run("requires a configured playlist", func(t *testing.T) {
		ts := newSpotifyTestServer(t)
		defer ts.Close()
		svc := newTestService(ts, "")

		_, err := svc.AddTrack(ctx, "spotify:track:track1")
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("appends on every call with one user token", func(t *testing.T) {
		ts := newSpotifyTestServer(t)
		defer ts.Close()
		svc := newTestService(ts, "wedding123")

		snap1, err := svc.AddTrack(ctx, "spotify:track:track1")
		if err != nil {
			t.Fatalf("first append failed: %v", err)
		}
		snap2, err := svc.AddTrack(ctx, "spotify:track:track1")
		if err != nil {
			t.Fatalf("second append failed: %v", err)
		}

		if snap1 != "snap-1" || snap2 != "snap-2" {
			t.Errorf("expected distinct snapshots, got %q and %q", snap1, snap2)
		}
		if ts.appends != 2 {
			t.Errorf("expected 2 appends, got %d", ts.appends)
		}
		if ts.tokenExchanges != 1 {
			t.Errorf("expected 1 token exchange for 2 appends, got %d", ts.tokenExchanges)
		}

		uris := ts.lastAppendBody["uris"]
		if len(uris) != 1 || uris[0] != "spotify:track:track1" {
			t.Errorf("unexpected append body: %v", ts.lastAppendBody)
		}
	})
}
