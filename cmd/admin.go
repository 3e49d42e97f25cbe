package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"maree/internal/shared"
	"maree/internal/ui"
)

// Admin launches the interactive dashboard for reviewing RSVPs and song
// requests.
func (r *Runner) Admin(ctx context.Context, cmd *cli.Command) error {
	db, guests, responses, requests, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/maree-admin.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, guests, responses, requests)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return model.Err()
}
