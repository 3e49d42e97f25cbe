package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"maree/internal/models"
	"maree/internal/shared"
)

// ResponseRepository stores one RSVP response row per guest.
//
// Upsert is the only write path; the UNIQUE constraint on guest_id plus the
// ON CONFLICT clause make resubmission replace the prior row in place.
type ResponseRepository struct {
	db *sql.DB
}

// NewResponseRepository creates a new ResponseRepository with the given database connection
func NewResponseRepository(db *sql.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Upsert inserts or replaces the response row keyed by guest id.
// The submission timestamp is set here, not by the caller.
func (r *ResponseRepository) Upsert(ctx context.Context, resp *models.GuestResponse) error {
	if resp == nil || resp.GuestID == 0 {
		return fmt.Errorf("%w: response requires a guest id", shared.ErrValidation)
	}

	resp.SubmittedAt = now().UTC()

	query := `
		INSERT INTO guest_responses (
			guest_id, is_attending, dietary_notes, transport_method,
			has_plus_one, plus_one_name, plus_one_dietary_notes, submitted_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(guest_id) DO UPDATE SET
			is_attending = excluded.is_attending,
			dietary_notes = excluded.dietary_notes,
			transport_method = excluded.transport_method,
			has_plus_one = excluded.has_plus_one,
			plus_one_name = excluded.plus_one_name,
			plus_one_dietary_notes = excluded.plus_one_dietary_notes,
			submitted_at = excluded.submitted_at
	`

	_, err := r.db.ExecContext(ctx, query,
		resp.GuestID,
		resp.IsAttending,
		nullString(resp.DietaryNotes),
		nullString(resp.TransportMethod),
		resp.HasPlusOne,
		nullString(resp.PlusOneName),
		nullString(resp.PlusOneDietaryNotes),
		resp.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert response for guest %d: %w", resp.GuestID, err)
	}

	return nil
}

// GetByGuestID retrieves the response row for a guest, if any.
func (r *ResponseRepository) GetByGuestID(ctx context.Context, guestID int64) (*models.GuestResponse, error) {
	query := `
		SELECT id, guest_id, is_attending, dietary_notes, transport_method,
		       has_plus_one, plus_one_name, plus_one_dietary_notes, submitted_at
		FROM guest_responses
		WHERE guest_id = ?
	`

	resp, err := scanResponse(r.db.QueryRowContext(ctx, query, guestID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no response for guest %d", shared.ErrNotFound, guestID)
	}
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// List returns every response ordered by guest id ascending.
func (r *ResponseRepository) List(ctx context.Context) ([]models.GuestResponse, error) {
	query := `
		SELECT id, guest_id, is_attending, dietary_notes, transport_method,
		       has_plus_one, plus_one_name, plus_one_dietary_notes, submitted_at
		FROM guest_responses
		ORDER BY guest_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var responses []models.GuestResponse
	for rows.Next() {
		var (
			resp                                models.GuestResponse
			dietary, transport, poName, poNotes sql.NullString
		)
		if err := rows.Scan(&resp.ID, &resp.GuestID, &resp.IsAttending, &dietary, &transport,
			&resp.HasPlusOne, &poName, &poNotes, &resp.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		resp.DietaryNotes = stringValue(dietary)
		resp.TransportMethod = stringValue(transport)
		resp.PlusOneName = stringValue(poName)
		resp.PlusOneDietaryNotes = stringValue(poNotes)
		responses = append(responses, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return responses, nil
}

// Count returns attending and total response counts.
func (r *ResponseRepository) Count(ctx context.Context) (attending, total int, err error) {
	query := `
		SELECT COALESCE(SUM(is_attending), 0), COUNT(*)
		FROM guest_responses
	`
	if err := r.db.QueryRowContext(ctx, query).Scan(&attending, &total); err != nil {
		return 0, 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return attending, total, nil
}

// scanResponse scans a single [sql.Row] into a [models.GuestResponse]
func scanResponse(row *sql.Row) (*models.GuestResponse, error) {
	var (
		resp                                models.GuestResponse
		dietary, transport, poName, poNotes sql.NullString
	)

	err := row.Scan(&resp.ID, &resp.GuestID, &resp.IsAttending, &dietary, &transport,
		&resp.HasPlusOne, &poName, &poNotes, &resp.SubmittedAt)
	if err != nil {
		return nil, err
	}

	resp.DietaryNotes = stringValue(dietary)
	resp.TransportMethod = stringValue(transport)
	resp.PlusOneName = stringValue(poName)
	resp.PlusOneDietaryNotes = stringValue(poNotes)
	return &resp, nil
}
