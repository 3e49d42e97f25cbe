package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"maree/internal/formatter"
	"maree/internal/models"
	"maree/internal/shared"
)

// RSVPList prints the collected responses alongside the guest directory.
func (r *Runner) RSVPList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	export, cleanup, err := r.buildExport(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if useJSON {
		return r.writeJSON(export, pretty)
	}

	data, err := formatter.ExportToText(export)
	if err != nil {
		return err
	}
	return r.writePlain("%s", string(data))
}

// RSVPExport writes the collected responses to a file.
func (r *Runner) RSVPExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	export, cleanup, err := r.buildExport(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Responses exported to %s\n", result.GuestsFile)
		r.writePlain("✓ Summary written to %s\n", result.SummaryFile)
	case "markdown", "md":
		file, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Responses exported to %s\n", file)
	case "text", "txt":
		file, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Responses exported to %s\n", file)
	default:
		return fmt.Errorf("%w: unknown format %q (csv, markdown, text)", shared.ErrInvalidArgument, format)
	}

	r.logger.Info("rsvp export complete", "format", format, "responded", export.Responded(), "seats", export.Attending())
	return nil
}

// buildExport snapshots the directory and response table. The cleanup
// function closes the database handle backing the snapshot.
func (r *Runner) buildExport(ctx context.Context) (*models.RSVPExport, func() error, error) {
	db, guests, responses, _, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}

	directory, err := guests.List(ctx)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	submitted, err := responses.List(ctx)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	byGuest := make(map[int64]*models.GuestResponse, len(submitted))
	for i := range submitted {
		byGuest[submitted[i].GuestID] = &submitted[i]
	}

	records := make([]models.ResponseRecord, 0, len(directory))
	for _, g := range directory {
		records = append(records, models.ResponseRecord{Guest: g, Response: byGuest[g.ID]})
	}

	export := &models.RSVPExport{
		Title:       "Elena & Dario RSVP",
		GeneratedAt: time.Now(),
		Records:     records,
	}
	return export, db.Close, nil
}
