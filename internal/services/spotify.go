// Spotify implementation of the [Catalog] and [Playlist] proxies.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"maree/internal/models"
	"maree/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// searchLimit bounds a single catalog search request.
	searchLimit = 10

	// upstreamTimeout applies to token exchanges and API calls alike.
	upstreamTimeout = 10 * time.Second
)

// spotifyImage represents an image variant on an album.
type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

// spotifyTrack represents a track in a catalog search response.
type spotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
	Album   spotifyAlbum    `json:"album"`
	URI     string          `json:"uri"`
}

type searchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

type snapshotResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// SpotifyService implements [Catalog] and [Playlist] against the Spotify Web
// API, holding one token cache per credential flow.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
	catalog    *TokenSource
	playlist   *TokenSource
	playlistID string
	oauthConf  *oauth2.Config
}

// NewSpotifyService creates a Spotify service from the configured credentials.
//
// The catalog cache is always usable; the playlist cache only works once a
// refresh token was obtained with `maree spotify auth`.
func NewSpotifyService(cfg shared.SpotifyConfig) (*SpotifyService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	client := &http.Client{Timeout: upstreamTimeout}

	return &SpotifyService{
		baseURL:    spotifyBaseURL,
		httpClient: client,
		catalog:    NewClientCredentialsSource(cfg.ClientID, cfg.ClientSecret, spotifyTokenURL, client),
		playlist:   NewRefreshTokenSource(cfg.ClientID, cfg.ClientSecret, cfg.RefreshToken, spotifyTokenURL, client),
		playlistID: cfg.PlaylistID,
		oauthConf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"playlist-modify-public", "playlist-modify-private"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
	}, nil
}

// OAuthConfig exposes the authorization-code config used by the CLI
// bootstrap flow that obtains the playlist refresh token.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.oauthConf
}

// AuthURL returns the user authorization URL for the bootstrap flow.
func (s *SpotifyService) AuthURL(state string) string {
	return s.oauthConf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// SearchTracks searches the catalog and maps results to the simplified shape
// served to the music page. Upstream relevance order is preserved.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Track{}, nil
	}

	token, err := s.catalog.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&type=track&limit=%d", s.baseURL, url.QueryEscape(query), searchLimit)

	var result searchResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, token, nil, &result); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(result.Tracks.Items))
	for _, item := range result.Tracks.Items {
		tracks = append(tracks, simplifyTrack(item))
	}

	return tracks, nil
}

// AddTrack appends a track URI to the configured shared playlist and returns
// the upstream snapshot id.
//
// Deliberately not idempotent: a second call with the same URI appends the
// track again, matching the playlist endpoint's semantics.
func (s *SpotifyService) AddTrack(ctx context.Context, trackURI string) (string, error) {
	if strings.TrimSpace(trackURI) == "" {
		return "", fmt.Errorf("%w: track URI is required", shared.ErrValidation)
	}
	if s.playlistID == "" {
		return "", fmt.Errorf("%w: spotify playlist_id is not configured", shared.ErrMissingConfig)
	}

	token, err := s.playlist.Token(ctx)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/playlists/%s/tracks", s.baseURL, url.PathEscape(s.playlistID))
	body := map[string]any{"uris": []string{trackURI}}

	var result snapshotResponse
	if err := s.doRequest(ctx, http.MethodPost, endpoint, token, body, &result); err != nil {
		return "", err
	}

	return result.SnapshotID, nil
}

// doRequest performs an authenticated HTTP request against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint, token string, body, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		details, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", shared.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(details)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// simplifyTrack flattens a catalog track for the music page: artists joined
// with ", ", the third image variant (Spotify's smallest) preferred with the
// first as fallback.
func simplifyTrack(t spotifyTrack) models.Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}

	image := ""
	if len(t.Album.Images) > 2 {
		image = t.Album.Images[2].URL
	} else if len(t.Album.Images) > 0 {
		image = t.Album.Images[0].URL
	}

	return models.Track{
		ID:     t.ID,
		Name:   t.Name,
		Artist: strings.Join(names, ", "),
		Album:  t.Album.Name,
		Image:  image,
		URI:    t.URI,
	}
}

var (
	_ Catalog  = (*SpotifyService)(nil)
	_ Playlist = (*SpotifyService)(nil)
)
