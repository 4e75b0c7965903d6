package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotctl/internal/formatter"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
)

// History lists recorded commands, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		format = formatter.FormatJSON
	}

	criteria := map[string]any{}
	if source := cmd.String("source"); source != "" {
		if !models.Source(source).Valid() {
			return fmt.Errorf("%w: unknown source %q", shared.ErrInvalidArgument, source)
		}
		criteria["source"] = models.Source(source)
	}
	if command := cmd.String("command"); command != "" {
		criteria["command"] = command
	}

	db, repo, err := r.history()
	if err != nil {
		return err
	}
	if repo == nil {
		return fmt.Errorf("%w: history is disabled (database.path is empty)", shared.ErrMissingConfig)
	}
	defer db.Close()

	entries, err := repo.List(ctx, cmd.Int("limit"), criteria)
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if cmd.IsSet("format") || cmd.Bool("json") {
			path, err = formatter.WriteExport(entries, path, format)
		} else {
			path, err = formatter.WriteExport(entries, path, "")
		}
		if err != nil {
			return err
		}
		r.logger.Info("history exported", "path", path, "entries", len(entries))
		return nil
	}

	data, err := formatter.Render(format, entries)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}
