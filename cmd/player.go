package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/player"
	"github.com/desertthunder/spotctl/internal/services"
	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/desertthunder/spotctl/internal/ui"
)

// Player dispatches the command named by the invoked subcommand.
func (r *Runner) Player(ctx context.Context, cmd *cli.Command) error {
	command, err := player.ParseCommand(cmd.Name)
	if err != nil {
		return err
	}

	s, err := r.session()
	if err != nil {
		return err
	}
	defer r.close(s)

	ack, err := s.playback.Control(ctx, command, models.SourceCLI)
	if err != nil {
		if services.NeedsAuthorization(err) {
			return fmt.Errorf("%w (run 'spotctl auth login'): %v", shared.ErrNotAuthenticated, err)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(ack, false)
	}
	return r.writePlain("✓ %s (%d)\n", ack.Command, ack.Status)
}

// Remote opens the interactive terminal remote.
func (r *Runner) Remote(ctx context.Context, cmd *cli.Command) error {
	s, err := r.session()
	if err != nil {
		return err
	}
	defer r.close(s)

	var history ui.HistoryLister
	if s.history != nil {
		history = s.history
	}

	return ui.Run(ctx, s.playback, history)
}
