package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotctl/internal/server"
	"github.com/desertthunder/spotctl/internal/shared"
)

// Serve runs the HTTP front end until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if cmd.IsSet("port") {
		r.config.Server.Port = cmd.Int("port")
	}

	s, err := r.session()
	if err != nil {
		return err
	}
	defer r.close(s)

	cfg := r.config.Server
	logger := shared.WithLogger(r.logger, "component", "server")

	handlers := server.NewHandlers(s.manager, s.playback, logger)
	router := server.NewRouter(handlers, server.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Limiter:        server.NewRateLimiter(cfg.RequestsPerMinute, cfg.Burst),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.NewServer(router, logger).Run(ctx, cfg.Address(), cfg.ShutdownTimeout)
}
