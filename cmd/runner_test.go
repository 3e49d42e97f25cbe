package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"maree/internal/shared"
	mocks "maree/internal/testing"
)

func TestNewRunner(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.config == nil {
			t.Error("expected a default config")
		}
		if runner.config.Database.Path != "./maree.db" {
			t.Errorf("unexpected default database path %s", runner.config.Database.Path)
		}
		if runner.logger == nil {
			t.Error("expected a default logger")
		}
		if runner.output != os.Stdout {
			t.Error("expected output to default to stdout")
		}
	})

	t.Run("Provided options", func(t *testing.T) {
		var buf bytes.Buffer
		config := shared.DefaultConfig()
		config.Site.Passphrase = "amalfi"

		runner := NewRunner(RunnerOpts{Config: config, Output: &buf})

		if runner.config.Site.Passphrase != "amalfi" {
			t.Error("expected the provided config to be used")
		}
		if runner.output != &buf {
			t.Error("expected the provided output to be used")
		}
	})
}

func TestRegister(t *testing.T) {
	runner := NewRunner(RunnerOpts{})
	commands := runner.register()

	if len(commands) != 7 {
		t.Fatalf("expected 7 commands, got %d", len(commands))
	}

	names := make(map[string]bool)
	for _, cmd := range commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"setup", "serve", "guests", "rsvp", "songs", "spotify", "admin"} {
		if !names[want] {
			t.Errorf("expected a %s command", want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	payload := map[string]string{"city": "Positano"}

	t.Run("Compact", func(t *testing.T) {
		var buf bytes.Buffer
		runner := NewRunner(RunnerOpts{Output: &buf})

		if err := runner.writeJSON(payload, false); err != nil {
			t.Fatalf("failed to write JSON: %v", err)
		}
		if got := buf.String(); got != "{\"city\":\"Positano\"}\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("Pretty", func(t *testing.T) {
		var buf bytes.Buffer
		runner := NewRunner(RunnerOpts{Output: &buf})

		if err := runner.writeJSON(payload, true); err != nil {
			t.Fatalf("failed to write JSON: %v", err)
		}
		if !strings.Contains(buf.String(), "  \"city\": \"Positano\"") {
			t.Errorf("expected indented output, got %q", buf.String())
		}
	})

	t.Run("Unmarshalable value", func(t *testing.T) {
		var buf bytes.Buffer
		runner := NewRunner(RunnerOpts{Output: &buf})

		if err := runner.writeJSON(make(chan int), false); err == nil {
			t.Error("expected an error for an unmarshalable value")
		}
	})

	t.Run("Failing writer", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &mocks.FWriter{}})

		if err := runner.writeJSON(payload, false); err == nil {
			t.Error("expected an error from a failing writer")
		}
	})
}

func TestWritePlain(t *testing.T) {
	var buf bytes.Buffer
	runner := NewRunner(RunnerOpts{Output: &buf})

	if err := runner.writePlain("hello %s\n", "world"); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if buf.String() != "hello world\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	if err := runner.writePlain("x", "extra"); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	runner.output = &mocks.FWriter{}
	if err := runner.writePlain("boom"); err == nil {
		t.Error("expected an error from a failing writer")
	}
}

func TestReadGuestFile(t *testing.T) {
	writeFile := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		return path
	}

	t.Run("CSV without header", func(t *testing.T) {
		path := writeFile(t, "guests.csv", "1,Mario Rossi,Famiglia Rossi\n2,Lucia Rossi,Famiglia Rossi\n")

		guests, err := readGuestFile(path)
		if err != nil {
			t.Fatalf("failed to read guest file: %v", err)
		}
		if len(guests) != 2 {
			t.Fatalf("expected 2 guests, got %d", len(guests))
		}
		if guests[0].ID != 1 || guests[0].Name != "Mario Rossi" || guests[0].GroupName != "Famiglia Rossi" {
			t.Errorf("unexpected first guest %+v", guests[0])
		}
	})

	t.Run("CSV with header", func(t *testing.T) {
		path := writeFile(t, "guests.csv", "id,name,group\n3,Anna Bianchi,Anna Bianchi\n")

		guests, err := readGuestFile(path)
		if err != nil {
			t.Fatalf("failed to read guest file: %v", err)
		}
		if len(guests) != 1 || guests[0].ID != 3 {
			t.Errorf("expected the header to be skipped, got %+v", guests)
		}
	})

	t.Run("CSV trims whitespace", func(t *testing.T) {
		path := writeFile(t, "guests.csv", " 4 , Franco Neri , Franco Neri \n")

		guests, err := readGuestFile(path)
		if err != nil {
			t.Fatalf("failed to read guest file: %v", err)
		}
		if guests[0].Name != "Franco Neri" {
			t.Errorf("expected trimmed name, got %q", guests[0].Name)
		}
	})

	t.Run("CSV bad id past the header", func(t *testing.T) {
		path := writeFile(t, "guests.csv", "1,Mario Rossi,Famiglia Rossi\nx,Lucia Rossi,Famiglia Rossi\n")

		_, err := readGuestFile(path)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("CSV wrong column count", func(t *testing.T) {
		path := writeFile(t, "guests.csv", "1,Mario Rossi\n")

		_, err := readGuestFile(path)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		path := writeFile(t, "guests.json", `[{"id":5,"name":"Giulia Moretti","groupName":"Famiglia Moretti"}]`)

		guests, err := readGuestFile(path)
		if err != nil {
			t.Fatalf("failed to read guest file: %v", err)
		}
		if len(guests) != 1 || guests[0].Name != "Giulia Moretti" {
			t.Errorf("unexpected guests %+v", guests)
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		path := writeFile(t, "guests.json", "{")

		_, err := readGuestFile(path)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		if _, err := readGuestFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})
}
