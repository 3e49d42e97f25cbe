package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"maree/internal/models"
	mocks "maree/internal/testing"
)

func sampleExport() *models.RSVPExport {
	submitted := time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)

	return &models.RSVPExport{
		Title:       "Elena & Dario RSVP",
		GeneratedAt: time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC),
		Records: []models.ResponseRecord{
			{
				Guest: models.Guest{ID: 1, Name: "Mario Rossi", GroupName: "Famiglia Rossi"},
				Response: &models.GuestResponse{
					GuestID:         1,
					IsAttending:     true,
					DietaryNotes:    "vegetarian",
					TransportMethod: models.TransportTrain,
					SubmittedAt:     submitted,
				},
			},
			{
				Guest: models.Guest{ID: 2, Name: "Lucia Rossi", GroupName: "Famiglia Rossi"},
				Response: &models.GuestResponse{
					GuestID:     2,
					IsAttending: false,
					SubmittedAt: submitted,
				},
			},
			{
				Guest: models.Guest{ID: 3, Name: "Anna Bianchi", GroupName: "Anna Bianchi"},
				Response: &models.GuestResponse{
					GuestID:             3,
					IsAttending:         true,
					TransportMethod:     models.TransportCar,
					HasPlusOne:          true,
					PlusOneName:         "Paolo Verdi",
					PlusOneDietaryNotes: "no shellfish",
					SubmittedAt:         submitted,
				},
			},
			{
				Guest: models.Guest{ID: 4, Name: "Franco Neri", GroupName: "Franco Neri"},
			},
		},
	}
}

func TestRSVPExportCounts(t *testing.T) {
	export := sampleExport()

	if got := export.Responded(); got != 3 {
		t.Errorf("expected 3 responded, got %d", got)
	}
	// Two attending guests plus Anna's plus-one.
	if got := export.Attending(); got != 3 {
		t.Errorf("expected 3 seats, got %d", got)
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleExport())
	if err != nil {
		t.Fatalf("failed to export CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("generated CSV does not parse: %v", err)
	}

	if len(records) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d", len(records))
	}

	if records[0][0] != "ID" || records[0][1] != "Name" {
		t.Errorf("unexpected header: %v", records[0])
	}

	mario := records[1]
	if mario[1] != "Mario Rossi" || mario[3] != "true" || mario[5] != "train" {
		t.Errorf("unexpected row for Mario: %v", mario)
	}

	anna := records[3]
	if anna[6] != "Paolo Verdi" || anna[7] != "no shellfish" {
		t.Errorf("expected plus-one columns for Anna, got %v", anna)
	}

	franco := records[4]
	if franco[3] != "" || franco[8] != "" {
		t.Errorf("expected empty response columns for Franco, got %v", franco)
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleExport())
	if err != nil {
		t.Fatalf("failed to export Markdown: %v", err)
	}
	md := string(data)

	if !strings.HasPrefix(md, "# Elena & Dario RSVP") {
		t.Errorf("expected title heading, got %q", md[:40])
	}
	if !strings.Contains(md, "## Famiglia Rossi") {
		t.Error("expected a household heading")
	}
	if !strings.Contains(md, "- Mario Rossi: attending by train (vegetarian)") {
		t.Errorf("expected Mario's line, got:\n%s", md)
	}
	if !strings.Contains(md, "plus one: Paolo Verdi (no shellfish)") {
		t.Errorf("expected plus-one line, got:\n%s", md)
	}
	if !strings.Contains(md, "- Franco Neri: no response") {
		t.Errorf("expected pending line, got:\n%s", md)
	}
	if !strings.Contains(md, "**Seats**: 3") {
		t.Errorf("expected seat count, got:\n%s", md)
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleExport())
	if err != nil {
		t.Fatalf("failed to export text: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "Invited: 4, responded: 3, seats: 3") {
		t.Errorf("expected summary line, got:\n%s", text)
	}
	if !strings.Contains(text, "2. Lucia Rossi (Famiglia Rossi): not attending") {
		t.Errorf("expected Lucia's line, got:\n%s", text)
	}
}

func TestWriteExports(t *testing.T) {
	t.Run("CSV with summary", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "rsvp")

		result, err := WriteCSVExport(sampleExport(), base)
		if err != nil {
			t.Fatalf("failed to write CSV export: %v", err)
		}

		mocks.AssertFileExists(t, result.GuestsFile)
		mocks.AssertFileExists(t, result.SummaryFile)

		summary := mocks.MustReadFile(t, result.SummaryFile)
		if !strings.Contains(summary, "Famiglia Rossi") {
			t.Error("expected summary JSON to carry the records")
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.md")

		file, err := WriteMarkdownExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("failed to write Markdown export: %v", err)
		}
		if file != path {
			t.Errorf("expected %s, got %s", path, file)
		}
		mocks.AssertFileExists(t, file)
	})

	t.Run("Text with default name", func(t *testing.T) {
		tmpDir := t.TempDir()
		wd := mocks.MustGetwd(t)
		mocks.MustChdir(t, tmpDir)
		defer mocks.MustChdir(t, wd)

		file, err := WriteTextExport(sampleExport(), "")
		if err != nil {
			t.Fatalf("failed to write text export: %v", err)
		}
		if file != "rsvp.txt" {
			t.Errorf("expected default filename rsvp.txt, got %s", file)
		}
		mocks.AssertFileExists(t, file)
	})
}
