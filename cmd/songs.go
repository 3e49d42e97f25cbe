package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// SongsList prints the song requests guests added to the wedding playlist.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	db, _, _, requests, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	songs, err := requests.List(ctx)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(songs, pretty)
	}

	r.writePlain("Found %d song requests:\n\n", len(songs))
	for i, s := range songs {
		r.writePlain("%d. %s\n", i+1, s.Display())
		r.writePlain("   Requested: %s\n", s.RequestedAt.Format("2006-01-02 15:04"))
	}

	return nil
}
