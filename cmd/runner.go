package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"maree/internal/repositories"
	"maree/internal/services"
	"maree/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	spotify *services.SpotifyService
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Spotify *services.SpotifyService
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		spotify: opts.Spotify,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, guestsCommand, rsvpCommand, songsCommand, spotifyCommand, adminCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used by the admin TUI to redirect logs
// away from the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// reloadConfig loads the config file named by the command's --config flag,
// falling back to the runner's current config when the file is absent.
func (r *Runner) reloadConfig(cmd *cli.Command) *shared.Config {
	configPath := cmd.String("config")
	if configPath == "" {
		return r.config
	}
	if _, err := os.Stat(configPath); err != nil {
		return r.config
	}
	config, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, using current", "path", configPath, "error", err)
		return r.config
	}
	r.config = config
	return config
}

// openDatabase opens the configured SQLite database and returns it with the
// repositories bound to it. The caller closes the handle.
func (r *Runner) openDatabase() (*sql.DB, *repositories.GuestRepository, *repositories.ResponseRepository, *repositories.RequestRepository, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	return db,
		repositories.NewGuestRepository(db),
		repositories.NewResponseRepository(db),
		repositories.NewRequestRepository(db),
		nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
