package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"maree/internal/models"
	"maree/internal/shared"
)

// RequestRepository logs tracks appended to the shared playlist.
//
// This is an append-only audit trail for the couple; the playlist on Spotify
// stays the source of truth and duplicates are allowed here exactly as they
// are allowed there.
type RequestRepository struct {
	db *sql.DB
}

// NewRequestRepository creates a new RequestRepository with the given database connection
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create appends a song request log row.
func (r *RequestRepository) Create(ctx context.Context, req *models.SongRequest) error {
	if req == nil || req.TrackURI == "" {
		return fmt.Errorf("%w: request requires a track URI", shared.ErrValidation)
	}

	req.RequestedAt = now().UTC()

	query := `
		INSERT INTO song_requests (track_uri, track_name, artist, requested_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		req.TrackURI, nullString(req.TrackName), nullString(req.Artist), req.RequestedAt)
	if err != nil {
		return fmt.Errorf("failed to insert song request: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		req.ID = id
	}

	return nil
}

// List returns all song requests, newest first.
func (r *RequestRepository) List(ctx context.Context) ([]models.SongRequest, error) {
	query := `
		SELECT id, track_uri, track_name, artist, requested_at
		FROM song_requests
		ORDER BY requested_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query song requests: %w", err)
	}
	defer rows.Close()

	var requests []models.SongRequest
	for rows.Next() {
		var (
			req          models.SongRequest
			name, artist sql.NullString
		)
		if err := rows.Scan(&req.ID, &req.TrackURI, &name, &artist, &req.RequestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan song request: %w", err)
		}
		req.TrackName = stringValue(name)
		req.Artist = stringValue(artist)
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return requests, nil
}
