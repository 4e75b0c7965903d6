// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotctl/internal/formatter"
	"github.com/desertthunder/spotctl/internal/player"
	"github.com/desertthunder/spotctl/internal/voice"
)

// serveCommand runs the HTTP front end
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server (web UI, playback routes, voice endpoint)",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Override server.port",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles authorization with Spotify
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorization commands",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize spotctl with Spotify through the browser",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening it",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the callback",
						Value: defaultLoginTimeout,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "status",
				Usage: "Show stored token status",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// playerCommand dispatches playback commands directly
func playerCommand(r *Runner) *cli.Command {
	commands := make([]*cli.Command, 0, len(player.Commands))
	for _, c := range player.Commands {
		commands = append(commands, &cli.Command{
			Name:   c.String(),
			Usage:  "Send " + c.String() + " to the active device",
			Action: r.Player,
		})
	}

	return &cli.Command{
		Name:     "player",
		Aliases:  []string{"p"},
		Usage:    "Playback control",
		Flags:    []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
		Commands: commands,
	}
}

// voiceCommand forwards transcripts to a running server
func voiceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "voice",
		Usage:     "Forward transcripts (one per line on stdin, or the arguments) to the voice endpoint",
		ArgsUsage: "[phrase...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "Base URL of a running spotctl server",
				Value: voice.DefaultServerURL,
			},
		},
		Action: r.Voice,
	}
}

// historyCommand lists recorded dispatches
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded commands, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of entries to return",
				Value:   20,
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Only show commands from web, voice or cli",
			},
			&cli.StringFlag{
				Name:  "command",
				Usage: "Only show one command",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, csv, markdown, json)",
				Value:   string(formatter.FormatText),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON (same as --format json)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		},
		Action: r.History,
	}
}

// remoteCommand opens the terminal remote
func remoteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "remote",
		Usage:  "Interactive terminal remote",
		Action: r.Remote,
	}
}

// setupCommand creates the config file and history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing, then initialize the history database and run migrations",
		Action: r.Setup,
	}
}
