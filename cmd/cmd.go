// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// setupCommand initializes the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file, database and schema",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// serveCommand starts the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the invitation site API",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}

// guestsCommand manages the guest directory.
func guestsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "guests",
		Usage: "Manage the guest directory",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import guests from a CSV or JSON file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.GuestsImport,
			},
			{
				Name:   "list",
				Usage:  "List invited guests grouped by household",
				Flags:  append([]cli.Flag{configFlag()}, outputFlags()...),
				Action: r.GuestsList,
			},
		},
	}
}

// rsvpCommand reviews and exports collected responses.
func rsvpCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rsvp",
		Usage: "Review collected responses",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Print a summary of responses",
				Flags:  append([]cli.Flag{configFlag()}, outputFlags()...),
				Action: r.RSVPList,
			},
			{
				Name:  "export",
				Usage: "Export responses to a file",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.RSVPExport,
			},
		},
	}
}

// songsCommand reviews the song request log.
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Review song requests",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List requested songs, newest first",
				Flags:  append([]cli.Flag{configFlag()}, outputFlags()...),
				Action: r.SongsList,
			},
		},
	}
}

// spotifyCommand handles Spotify operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "auth",
				Usage:  "Link the couple's account with OAuth2 and save the refresh token",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SpotifyAuth,
			},
			{
				Name:  "search",
				Usage: "Search the catalog for a track",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  append([]cli.Flag{configFlag()}, outputFlags()...),
				Action: r.SpotifySearch,
			},
			{
				Name:  "add",
				Usage: "Append a track to the wedding playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "uri"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.SpotifyAdd,
			},
		},
	}
}

// adminCommand launches the interactive dashboard.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "admin",
		Aliases: []string{"dashboard", "ui"},
		Usage:   "Launch the interactive RSVP dashboard",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.Admin,
	}
}
