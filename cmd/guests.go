package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"maree/internal/models"
	"maree/internal/shared"
)

// GuestsImport loads the guest directory from a CSV or JSON file.
//
// CSV rows are "id,name,group" with an optional header line. JSON files hold
// an array of guest objects. Re-running an import replaces existing ids.
func (r *Runner) GuestsImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to a guest file is required", shared.ErrMissingArgument)
	}

	guests, err := readGuestFile(path)
	if err != nil {
		return err
	}
	if len(guests) == 0 {
		return fmt.Errorf("%w: no guests found in %s", shared.ErrInvalidArgument, path)
	}

	db, repo, _, _, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repo.Import(ctx, guests); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("guest directory imported", "file", path, "imported", len(guests), "total", total)
	r.writePlain("✓ Imported %d guests (%d total in directory)\n", len(guests), total)
	return nil
}

// GuestsList prints the guest directory grouped by household.
func (r *Runner) GuestsList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	db, repo, _, _, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	guests, err := repo.List(ctx)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(guests, pretty)
	}

	r.writePlain("Found %d guests:\n\n", len(guests))
	group := ""
	for _, g := range guests {
		if g.GroupName != group {
			group = g.GroupName
			r.writePlain("%s\n", group)
		}
		r.writePlain("  %d. %s\n", g.ID, g.Name)
	}

	return nil
}

func readGuestFile(path string) ([]models.Guest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guest file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var guests []models.Guest
		if err := json.Unmarshal(data, &guests); err != nil {
			return nil, fmt.Errorf("%w: invalid guest JSON: %v", shared.ErrInvalidArgument, err)
		}
		return guests, nil
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = 3
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid guest CSV: %v", shared.ErrInvalidArgument, err)
	}

	var guests []models.Guest
	for i, record := range records {
		id, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			// Allow a header line
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("%w: row %d has a non-numeric id %q", shared.ErrInvalidArgument, i+1, record[0])
		}
		guests = append(guests, models.Guest{
			ID:        id,
			Name:      strings.TrimSpace(record[1]),
			GroupName: strings.TrimSpace(record[2]),
		})
	}

	return guests, nil
}
