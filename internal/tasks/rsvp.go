// package tasks implements the guest-facing RSVP flow.
//
// The core abstraction is RSVPEngine, which resolves a household from a name
// fragment and submits one response per household member. It talks to the
// stores through narrow interfaces so HTTP handlers and tests share one code
// path.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"maree/internal/models"
	"maree/internal/shared"
)

// GuestDirectory is the read side of the guest store used by the engine.
type GuestDirectory interface {
	SearchByName(ctx context.Context, fragment string) ([]models.Guest, error)
	ListByGroup(ctx context.Context, group string) ([]models.Guest, error)
}

// ResponseStore is the write side: insert-or-replace keyed by guest id.
type ResponseStore interface {
	Upsert(ctx context.Context, resp *models.GuestResponse) error
}

// RSVPEngine implements the search → form → submit wizard's server half.
type RSVPEngine struct {
	guests    GuestDirectory
	responses ResponseStore
	logger    *log.Logger
}

// NewRSVPEngine creates an engine over the given stores.
func NewRSVPEngine(guests GuestDirectory, responses ResponseStore, logger *log.Logger) *RSVPEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RSVPEngine{guests: guests, responses: responses, logger: logger}
}

// Search resolves a household from a free-text name fragment.
//
// The fragment must contain at least first and last name (two tokens); this
// is checked before any store access. The group of the first directory match
// is taken as authoritative and the full roster of that group is returned in
// guest id order, every entry initialized to the default editable state.
func (e *RSVPEngine) Search(ctx context.Context, fragment string) (*models.Household, error) {
	if len(strings.Fields(fragment)) < 2 {
		return nil, fmt.Errorf("%w: enter first and last name", shared.ErrValidation)
	}

	matches, err := e.guests.SearchByName(ctx, strings.TrimSpace(fragment))
	if err != nil {
		return nil, fmt.Errorf("directory search failed: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no guest found", shared.ErrNotFound)
	}

	// When the fragment matches guests across distinct groups, the first
	// match wins. Known limitation carried over from the site's launch
	// behavior; disambiguation needs a product decision first.
	group := matches[0].GroupName

	roster, err := e.guests.ListByGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("roster lookup failed: %w", err)
	}

	entries := make([]models.RosterEntry, 0, len(roster))
	for _, g := range roster {
		entries = append(entries, models.NewRosterEntry(g))
	}

	e.logger.Info("household resolved", "group", group, "members", len(entries))

	return &models.Household{Group: group, Entries: entries}, nil
}

// Submit validates the edited roster and upserts one response per member.
//
// All validation happens before the first write. The writes themselves run
// sequentially with collected errors: a mid-roster failure leaves the prefix
// committed, which is safe because every row write is idempotent and a full
// resubmission rewrites the same values.
func (e *RSVPEngine) Submit(ctx context.Context, entries []models.RosterEntry, transport string) error {
	if err := validateRoster(entries, transport); err != nil {
		return err
	}

	var errs []error
	for _, entry := range entries {
		resp := buildResponse(entry, transport)
		if err := e.responses.Upsert(ctx, resp); err != nil {
			e.logger.Error("response upsert failed", "guest_id", entry.GuestID, "error", err)
			errs = append(errs, fmt.Errorf("guest %d: %w", entry.GuestID, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	e.logger.Info("responses submitted", "guests", len(entries), "transport", transport)
	return nil
}

// validateRoster enforces the submission invariants.
func validateRoster(entries []models.RosterEntry, transport string) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty roster", shared.ErrValidation)
	}

	anyAttending := false
	for _, entry := range entries {
		if entry.GuestID == 0 {
			return fmt.Errorf("%w: roster entry without guest id", shared.ErrValidation)
		}
		if entry.IsAttending {
			anyAttending = true
		}

		if entry.HasPlusOne {
			// Plus-ones exist on single-guest invites only.
			if len(entries) != 1 {
				return fmt.Errorf("%w: plus-one is only available on single-guest invitations", shared.ErrValidation)
			}
			if strings.TrimSpace(entry.PlusOneName) == "" {
				return fmt.Errorf("%w: plus-one name is required", shared.ErrValidation)
			}
		}
	}

	if anyAttending {
		if transport == "" {
			return fmt.Errorf("%w: transport choice is required", shared.ErrValidation)
		}
		if !models.ValidTransport(transport) {
			return fmt.Errorf("%w: unknown transport method %q", shared.ErrValidation, transport)
		}
	}

	return nil
}

// buildResponse maps an edited roster entry onto the stored row. Transport is
// only kept for attending guests, plus-one fields only for attending guests
// who flagged one.
func buildResponse(entry models.RosterEntry, transport string) *models.GuestResponse {
	resp := &models.GuestResponse{
		GuestID:     entry.GuestID,
		IsAttending: entry.IsAttending,
	}

	if !entry.IsAttending {
		return resp
	}

	resp.DietaryNotes = strings.TrimSpace(entry.DietaryNotes)
	resp.TransportMethod = transport

	if entry.HasPlusOne {
		resp.HasPlusOne = true
		resp.PlusOneName = strings.TrimSpace(entry.PlusOneName)
		resp.PlusOneDietaryNotes = strings.TrimSpace(entry.PlusOneDietaryNotes)
	}

	return resp
}
