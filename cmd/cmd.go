// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/mixup/internal/shared"
	"github.com/urfave/cli/v3"
)

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file (.toml, .yaml)",
			Value:   shared.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error); overrides the config",
		},
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "cached-auth",
			Aliases: []string{"ca"},
			Usage:   "Path to the cached access token (default from config)",
		},
		&cli.StringFlag{
			Name:    "client-id",
			Aliases: []string{"ci"},
			Usage:   "Mixcloud OAuth client id (default from config)",
		},
		&cli.StringFlag{
			Name:    "client-secret",
			Aliases: []string{"cs"},
			Usage:   "Mixcloud OAuth client secret (default from config)",
		},
	}
}

// uploadCommand runs the full transcode, edit and upload flow
func uploadCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "recordings-dir",
			Aliases: []string{"d"},
			Usage:   "Directory containing Mixxx recordings (default from config)",
		},
		&cli.StringFlag{
			Name:    "recording",
			Aliases: []string{"r"},
			Usage:   "Recording name (a .wav and .cue pair); defaults to the latest",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Where to keep the transcoded mp3; defaults to a temporary directory",
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Name of the uploaded mix",
		},
		&cli.StringFlag{
			Name:    "artwork",
			Aliases: []string{"a"},
			Usage:   "Path to the cover image",
		},
		&cli.StringFlag{
			Name:    "tags",
			Aliases: []string{"t"},
			Usage:   "Comma-separated tags",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Description of the mix",
		},
		&cli.StringFlag{
			Name:    "preset",
			Aliases: []string{"p"},
			Usage:   "Preset from the config (overridden by --name, --artwork, --tags and --description)",
		},
		&cli.BoolFlag{
			Name:    "noninteractive",
			Aliases: []string{"y"},
			Usage:   "Upload the tracklist as-is without prompts or the editor",
		},
		&cli.StringFlag{
			Name:    "access-token",
			Aliases: []string{"at"},
			Usage:   "Mixcloud access token; skips browser authentication",
		},
		&cli.DurationFlag{
			Name:  "trim",
			Usage: "Cut the recording (and tracklist) at this offset, e.g. 1h30m",
		},
		&cli.DurationFlag{
			Name:  "fade-in",
			Usage: "Fade in over this duration",
		},
		&cli.DurationFlag{
			Name:  "fade-out",
			Usage: "Fade out over this duration before the end",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Transcode even if the output already exists",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Stop before uploading",
		},
		&cli.StringFlag{
			Name:  "export",
			Usage: "Also write the final tracklist here (.csv, .md or .txt)",
		},
	}

	return &cli.Command{
		Name:   "upload",
		Usage:  "Transcode a recording, review its tracklist and upload it to Mixcloud",
		Flags:  append(flags, credentialFlags()...),
		Action: r.Upload,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Mixcloud authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize in the browser and cache the access token",
				Flags: append(credentialFlags(),
					&cli.BoolFlag{
						Name:  "save-config",
						Usage: "Also store the access token in the config file",
					},
				),
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show which account the stored token belongs to",
				Flags:  credentialFlags()[:1],
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Delete the cached access token",
				Flags:  credentialFlags()[:1],
				Action: r.AuthLogout,
			},
		},
	}
}

// tracklistCommand inspects and edits tracklists
func tracklistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracklist",
		Aliases: []string{"tl"},
		Usage:   "Inspect and edit tracklists",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print a cue sheet or tabular tracklist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: append([]cli.Flag{
					&cli.DurationFlag{
						Name:  "trim",
						Usage: "Drop tracks starting at or after this offset",
					},
					&cli.BoolFlag{
						Name:  "tabular",
						Usage: "Print in the editable tabular format",
					},
				}, jsonFlags()...),
				Action: r.TracklistShow,
			},
			{
				Name:  "edit",
				Usage: "Edit a tracklist in $EDITOR and write it out in tabular form",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the result here instead of stdout",
					},
				},
				Action: r.TracklistEdit,
			},
			{
				Name:  "export",
				Usage: "Export a tracklist as CSV, Markdown or plain text",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "csv, markdown or text (default from the output extension)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the export here instead of stdout",
					},
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Mix name used as the heading",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Description shown above the tracklist",
					},
					&cli.StringFlag{
						Name:    "artwork",
						Aliases: []string{"a"},
						Usage:   "Cover image referenced by the Markdown export",
					},
					&cli.DurationFlag{
						Name:  "trim",
						Usage: "Drop tracks starting at or after this offset",
					},
				},
				Action: r.TracklistExport,
			},
		},
	}
}

// recordingsCommand lists local recordings
func recordingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recordings",
		Aliases: []string{"rec"},
		Usage:   "Local Mixxx recordings",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List complete recordings, newest first",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "recordings-dir",
						Aliases: []string{"d"},
						Usage:   "Directory containing Mixxx recordings (default from config)",
					},
				}, jsonFlags()...),
				Action: r.RecordingsList,
			},
		},
	}
}

// historyCommand shows past uploads
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show past uploads",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of uploads to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:    "recording",
				Aliases: []string{"r"},
				Usage:   "Only uploads of this recording",
			},
		}, jsonFlags()...),
		Action: r.History,
	}
}

// setupCommand creates the config file and database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the upload history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "client-id",
				Usage: "Store this Mixcloud client id in the config",
			},
			&cli.StringFlag{
				Name:  "client-secret",
				Usage: "Store this Mixcloud client secret in the config",
			},
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Revert the most recent history database migration instead of migrating up",
			},
		},
		Action: r.Setup,
	}
}
