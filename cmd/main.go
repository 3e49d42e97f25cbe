package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
	"maree/internal/services"
	"maree/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotify *services.SpotifyService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify); err == nil {
			spotify = svc
		} else {
			logger.Warn("spotify service unavailable", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotify,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "maree",
		Usage:    "Backend for Elena & Dario's wedding invitation site",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
