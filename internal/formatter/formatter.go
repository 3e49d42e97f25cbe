// package formatter exports the collected RSVP data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"maree/internal/models"
	"maree/internal/shared"
)

// ExportToCSV converts an RSVPExport to CSV with one row per guest.
//
// Guests who have not responded yet get a row with an empty Responded column.
func ExportToCSV(export *models.RSVPExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Group", "Attending", "Dietary", "Transport", "Plus One", "Plus One Dietary", "Submitted"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range export.Records {
		record := []string{
			strconv.FormatInt(rec.Guest.ID, 10),
			rec.Guest.Name,
			rec.Guest.GroupName,
			"", "", "", "", "", "",
		}
		if r := rec.Response; r != nil {
			record[3] = strconv.FormatBool(r.IsAttending)
			record[4] = r.DietaryNotes
			record[5] = r.TransportMethod
			if r.HasPlusOne {
				record[6] = r.PlusOneName
				record[7] = r.PlusOneDietaryNotes
			}
			record[8] = r.SubmittedAt.Format(time.RFC3339)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an RSVPExport to a Markdown report grouped by
// household.
func ExportToMarkdown(export *models.RSVPExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Title))
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n", export.GeneratedAt.Format("2006-01-02 15:04")))
	buf.WriteString(fmt.Sprintf("**Invited**: %d\n", len(export.Records)))
	buf.WriteString(fmt.Sprintf("**Responded**: %d\n", export.Responded()))
	buf.WriteString(fmt.Sprintf("**Seats**: %d\n\n", export.Attending()))

	group := ""
	for _, rec := range export.Records {
		if rec.Guest.GroupName != group {
			group = rec.Guest.GroupName
			buf.WriteString(fmt.Sprintf("## %s\n\n", group))
		}
		buf.WriteString(fmt.Sprintf("- %s: %s\n", rec.Guest.Name, describeResponse(rec.Response)))
		if r := rec.Response; r != nil && r.HasPlusOne {
			buf.WriteString(fmt.Sprintf("  - plus one: %s%s\n", r.PlusOneName, notesSuffix(r.PlusOneDietaryNotes)))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts an RSVPExport to a plain text summary.
func ExportToText(export *models.RSVPExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", export.Title))
	buf.WriteString(fmt.Sprintf("Invited: %d, responded: %d, seats: %d\n\n", len(export.Records), export.Responded(), export.Attending()))

	for i, rec := range export.Records {
		buf.WriteString(fmt.Sprintf("%d. %s (%s): %s\n", i+1, rec.Guest.Name, rec.Guest.GroupName, describeResponse(rec.Response)))
	}

	return buf.Bytes(), nil
}

func describeResponse(r *models.GuestResponse) string {
	switch {
	case r == nil:
		return "no response"
	case !r.IsAttending:
		return "not attending" + notesSuffix(r.DietaryNotes)
	case r.TransportMethod != "":
		return fmt.Sprintf("attending by %s%s", r.TransportMethod, notesSuffix(r.DietaryNotes))
	default:
		return "attending" + notesSuffix(r.DietaryNotes)
	}
}

func notesSuffix(notes string) string {
	if notes == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", notes)
}

// ToSummaryJSON generates an indented JSON representation of the export.
func ToSummaryJSON(export *models.RSVPExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	GuestsFile  string
	SummaryFile string
}

// WriteCSVExport writes the export as {base}_guests.csv plus a
// {base}_summary.json with the full snapshot.
//
// The base filename defaults to "rsvp".
func WriteCSVExport(export *models.RSVPExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "rsvp"
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	guestsFile := baseFilepath + "_guests.csv"
	if err := os.WriteFile(guestsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := ToSummaryJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		GuestsFile:  guestsFile,
		SummaryFile: summaryFile,
	}, nil
}

// WriteMarkdownExport writes the export as a Markdown report.
//
// The filename defaults to "rsvp.md".
func WriteMarkdownExport(export *models.RSVPExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = "rsvp.md"
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes the export as a plain text summary.
//
// The filename defaults to "rsvp.txt".
func WriteTextExport(export *models.RSVPExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = "rsvp.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
