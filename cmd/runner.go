package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotctl/internal/auth"
	"github.com/desertthunder/spotctl/internal/credentials"
	"github.com/desertthunder/spotctl/internal/player"
	"github.com/desertthunder/spotctl/internal/repositories"
	"github.com/desertthunder/spotctl/internal/services"
	"github.com/desertthunder/spotctl/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	httpClient  *http.Client
	logger      *log.Logger
	input       io.Reader
	output      io.Writer
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is resolved from the --config flag before any command runs.
type RunnerOpts struct {
	Config      *shared.Config
	HTTPClient  *http.Client
	Logger      *log.Logger
	Input       io.Reader
	Output      io.Writer
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		input:       opts.Input,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
	}
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "spotctl",
		Usage:   "Control Spotify playback from the web, the terminal, or your voice",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Before:   r.configure,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, playerCommand, voiceCommand, historyCommand, remoteCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure applies the global flags. A Config passed to [NewRunner] is kept unless --config is set.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := log.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, fmt.Errorf("%w: --log-level: %v", shared.ErrInvalidArgument, err)
	}
	shared.SetLogLevel(r.logger, level)

	if r.config != nil && !cmd.IsSet("config") {
		return ctx, nil
	}

	config, err := shared.ResolveConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	r.config = config

	return ctx, nil
}

// store opens the configured credential store.
func (r *Runner) store() (credentials.Store, error) {
	switch r.config.Storage.Backend {
	case shared.StorageKeyring:
		return credentials.NewKeyringStore(credentials.KeyringService, r.config.Storage.KeyringUser)
	case shared.StorageFile, "":
		return credentials.NewFileStore(r.config.Storage.Path)
	}
	return nil, fmt.Errorf("%w: unknown storage backend %q", shared.ErrInvalidConfig, r.config.Storage.Backend)
}

func (r *Runner) manager() (*auth.Manager, error) {
	store, err := r.store()
	if err != nil {
		return nil, err
	}

	return auth.NewManager(r.config.Credentials.Spotify, store,
		auth.WithHTTPClient(r.httpClient),
		auth.WithLogger(shared.WithLogger(r.logger, "component", "auth")),
	)
}

// history opens the history database. Both return values are nil when history is disabled.
func (r *Runner) history() (*sql.DB, *repositories.HistoryRepository, error) {
	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		return nil, nil, nil
	}
	return db, repositories.NewHistoryRepository(db), nil
}

// session is the set of collaborators shared by the server, player, and remote commands.
type session struct {
	manager  *auth.Manager
	playback *services.PlaybackService
	history  *repositories.HistoryRepository
	db       *sql.DB
}

// Close releases the history database, if one is open.
func (s *session) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// session validates the config and wires token manager, dispatcher, and history together.
func (r *Runner) session() (*session, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	manager, err := r.manager()
	if err != nil {
		return nil, err
	}

	db, repo, err := r.history()
	if err != nil {
		return nil, err
	}

	// A nil *HistoryRepository must not reach the service as a non-nil Recorder.
	var recorder repositories.Recorder
	if repo != nil {
		recorder = repo
	} else {
		r.logger.Debug("command history disabled")
	}

	dispatcher := player.NewDispatcher(r.config.Player.BaseURL, r.httpClient)

	return &session{
		manager:  manager,
		playback: services.NewPlaybackService(manager, dispatcher, recorder, shared.WithLogger(r.logger, "component", "playback")),
		history:  repo,
		db:       db,
	}, nil
}

// close releases s, logging any failure.
func (r *Runner) close(s *session) {
	if err := s.Close(); err != nil {
		r.logger.Warn("failed to close history database", "error", err)
	}
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
