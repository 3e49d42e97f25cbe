package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"maree/internal/server"
	"maree/internal/services"
	"maree/internal/shared"
)

// SpotifyAuth links the couple's Spotify account to the wedding playlist.
//
// Starts a local HTTP server, opens the browser for authorization, exchanges
// the code for tokens and persists the refresh token in the config file.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	config := r.reloadConfig(cmd)

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in %s", shared.ErrMissingCredentials, configPath)
	}

	spotify, err := services.NewSpotifyService(config.Credentials.Spotify)
	if err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	token, err := r.doOAuth(config, spotify)
	if err != nil {
		return err
	}

	if token.RefreshToken == "" {
		return fmt.Errorf("%w: no refresh token in authorization response", shared.ErrUpstreamAuth)
	}

	config.Credentials.Spotify.RefreshToken = token.RefreshToken
	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	r.config = config
	r.spotify = spotify

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Refresh token saved to %s\n\n", configPath)
	r.writePlain("You can now use: maree spotify add <track-uri>\n")

	return nil
}

// SpotifySearch searches the catalog, exercising the app token grant.
func (r *Runner) SpotifySearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify credentials not configured", shared.ErrMissingCredentials)
	}

	r.logger.Infof("searching catalog for %q", query)

	tracks, err := r.spotify.SearchTracks(ctx, query)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	for i, t := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, t.Artist, t.Name)
		if t.Album != "" {
			r.writePlain("   Album: %s\n", t.Album)
		}
		r.writePlain("   URI: %s\n", t.URI)
	}

	return nil
}

// SpotifyAdd appends a track to the wedding playlist, exercising the
// refresh token grant.
func (r *Runner) SpotifyAdd(ctx context.Context, cmd *cli.Command) error {
	trackURI := cmd.StringArg("uri")

	if trackURI == "" {
		return fmt.Errorf("%w: a track URI is required", shared.ErrMissingArgument)
	}
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify credentials not configured", shared.ErrMissingCredentials)
	}

	r.logger.Infof("adding %v to the playlist", trackURI)

	snapshot, err := r.spotify.AddTrack(ctx, trackURI)
	if err != nil {
		return err
	}

	r.writePlain("✓ Track added to playlist (snapshot %s)\n", snapshot)
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(config *shared.Config, spotify *services.SpotifyService) (*oauth2.Token, error) {
	state := shared.GenerateID()

	authURL := spotify.AuthURL(state)
	oauthHandler := server.NewOAuthHandler(spotify.OAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Addr:    config.Server.Addr(),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.AuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrUpstreamAuth)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
