package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"maree/internal/models"
	"maree/internal/shared"
)

// GuestRepository reads the pre-seeded guest directory.
//
// The only write path is Import, used by the seeding CLI before the site goes
// live; the HTTP layer never mutates guests.
type GuestRepository struct {
	db *sql.DB
}

// NewGuestRepository creates a new GuestRepository with the given database connection
func NewGuestRepository(db *sql.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// SearchByName finds guests whose name contains the fragment,
// case-insensitively, ordered by id ascending.
func (r *GuestRepository) SearchByName(ctx context.Context, fragment string) ([]models.Guest, error) {
	query := `
		SELECT id, name, group_name, created_at
		FROM guests
		WHERE name LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to query guests: %w", err)
	}
	defer rows.Close()

	return scanGuests(rows)
}

// ListByGroup returns every guest sharing the given group name, ordered by id
// ascending. This is the household roster.
func (r *GuestRepository) ListByGroup(ctx context.Context, group string) ([]models.Guest, error) {
	query := `
		SELECT id, name, group_name, created_at
		FROM guests
		WHERE group_name = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, group)
	if err != nil {
		return nil, fmt.Errorf("failed to query group: %w", err)
	}
	defer rows.Close()

	return scanGuests(rows)
}

// Get retrieves a guest by id.
func (r *GuestRepository) Get(ctx context.Context, id int64) (*models.Guest, error) {
	query := `
		SELECT id, name, group_name, created_at
		FROM guests
		WHERE id = ?
	`

	var g models.Guest
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.GroupName, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: guest %d", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan guest: %w", err)
	}

	return &g, nil
}

// List returns the whole directory ordered by group then id.
func (r *GuestRepository) List(ctx context.Context) ([]models.Guest, error) {
	query := `
		SELECT id, name, group_name, created_at
		FROM guests
		ORDER BY group_name ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query guests: %w", err)
	}
	defer rows.Close()

	return scanGuests(rows)
}

// Import inserts directory guests inside one transaction. Existing ids are
// replaced so re-running an import is safe.
func (r *GuestRepository) Import(ctx context.Context, guests []models.Guest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO guests (id, name, group_name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, group_name = excluded.group_name
	`

	for _, g := range guests {
		if g.Name == "" || g.GroupName == "" {
			return fmt.Errorf("%w: guest requires a name and a group name", shared.ErrValidation)
		}
		if _, err := tx.ExecContext(ctx, query, g.ID, g.Name, g.GroupName, now().UTC()); err != nil {
			return fmt.Errorf("failed to insert guest %q: %w", g.Name, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of guests in the directory.
func (r *GuestRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM guests").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count guests: %w", err)
	}
	return count, nil
}

// scanGuests drains rows into guest values.
func scanGuests(rows *sql.Rows) ([]models.Guest, error) {
	var guests []models.Guest
	for rows.Next() {
		var g models.Guest
		if err := rows.Scan(&g.ID, &g.Name, &g.GroupName, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return guests, nil
}
