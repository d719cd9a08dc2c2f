// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func musicDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "music-dir",
		Aliases: []string{"music_dir", "d"},
		Usage:   "Music directory (overrides library.music_dir)",
	}
}

func phaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "sync-library",
			Aliases: []string{"sync_library"},
			Usage:   "Upload new tracks and delete uploads that are no longer in the music directory",
		},
		&cli.BoolFlag{
			Name:    "sync-playlists",
			Aliases: []string{"sync_playlists"},
			Usage:   "Create, delete and fill one playlist per tag",
		},
	}
}

// syncCommand plans and applies a sync run
func syncCommand(r *Runner) *cli.Command {
	flags := append(phaseFlags(),
		&cli.BoolFlag{
			Name:  "confirm",
			Usage: "Ask before applying plans with deletions (default from sync.confirm)",
		},
		&cli.BoolFlag{
			Name:  "noconfirm",
			Usage: "Apply without asking",
		},
		&cli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "Review and apply the plan in a terminal UI",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Run log path (overrides logging.file)",
		},
		musicDirFlag(),
		configFlag(),
	)

	return &cli.Command{
		Name:   "sync",
		Usage:  "Mirror the music directory to YouTube Music uploads and tag playlists",
		Flags:  flags,
		Action: r.Sync,
	}
}

// planCommand prints the sync plan without applying it
func planCommand(r *Runner) *cli.Command {
	flags := append(phaseFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, markdown or csv",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the plan to a file instead of stdout",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Run log path (overrides logging.file)",
		},
		musicDirFlag(),
		configFlag(),
	)

	return &cli.Command{
		Name:    "plan",
		Aliases: []string{"diff"},
		Usage:   "Show the operations a sync would perform (both phases unless one is selected)",
		Flags:   flags,
		Action:  r.Plan,
	}
}

// scanCommand prints the local view
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "List local tracks and their tags",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
			musicDirFlag(),
			configFlag(),
		},
		Action: r.Scan,
	}
}

// remoteCommand prints the remote view
func remoteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "remote",
		Usage: "List uploads and managed playlists on YouTube Music",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
			configFlag(),
		},
		Action: r.Remote,
	}
}

// setupCommand handles configuration and credential setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a default config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt", "ytmusic"},
				Usage:   "Create the YouTube Music headers file from a browser cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path for the headers file (default: credentials.youtube.headers_path)",
					},
				},
				Action: r.SetupYouTube,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Upload headers_auth.json to the proxy /auth/upload endpoint",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state (calls /health)",
				Action: r.AuthStatus,
			},
		},
	}
}

// apiCommand handles direct (proxy) API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the YouTube Music proxy",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the proxy, prints JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Print compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
