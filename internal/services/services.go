// package services implements the server-side Spotify proxies.
//
// The browser never sees Spotify credentials or tokens; it calls our API and
// the services here hold the credentials, cache the short-lived access tokens
// and forward catalog searches and playlist appends.
package services

import (
	"context"

	"maree/internal/models"
)

// Catalog searches the external music catalog for tracks.
type Catalog interface {
	// SearchTracks returns simplified results in the catalog's relevance
	// order. An empty query yields an empty list without a network call.
	SearchTracks(ctx context.Context, query string) ([]models.Track, error)
}

// Playlist appends tracks to the shared wedding playlist.
type Playlist interface {
	// AddTrack appends the track URI and returns the upstream snapshot id.
	// Calling it twice appends the track twice; dedup is the client's job.
	AddTrack(ctx context.Context, trackURI string) (string, error)
}
