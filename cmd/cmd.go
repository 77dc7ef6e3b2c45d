// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistCommand, videoCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// setupCommand handles config and database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database and migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles Google account operations.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Google authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in with Google via the browser OAuth flow",
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and remove the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the stored session and its expiry",
				Action: r.AuthStatus,
			},
		},
	}
}

// playlistCommand handles playlist operations.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your playlists",
				Flags: append(serviceFlags(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				),
				Action: r.PlaylistList,
			},
			{
				Name:  "create",
				Usage: "Create a new private playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags:  serviceFlags(),
				Action: r.PlaylistCreate,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist",
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to rename",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "New playlist title",
						Required: true,
					},
				),
				Action: r.PlaylistRename,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist and all its entries",
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to delete",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				),
				Action: r.PlaylistDelete,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to csv, markdown or text",
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to export",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown or text",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file or directory path",
					},
				),
				Action: r.PlaylistExport,
			},
		},
	}
}

// videoCommand handles playlist entry operations.
func videoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "video",
		Aliases: []string{"v"},
		Usage:   "Video operations within playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the videos of a playlist",
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "playlist-id",
						Usage:    "Playlist ID to list",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Only show videos whose title or description match",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort order: title or date",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				),
				Action: r.VideoList,
			},
			{
				Name:  "move",
				Usage: "Move a video from one playlist to another",
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Source playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Target playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "video",
						Usage:    "Video ID to move",
						Required: true,
					},
				),
				Action: r.VideoMove,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the two pane organizer.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive two pane playlist organizer",
		Flags:   serviceFlags(),
		Action:  r.TUI,
	}
}

// serviceFlags are shared by every command that talks to a playlist service.
func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:  "mock",
			Usage: "Use the in-memory mock service instead of YouTube",
		},
	}
}
