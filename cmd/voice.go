package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/desertthunder/spotctl/internal/voice"
)

// Voice forwards the arguments as one phrase, or every stdin line until EOF, to a running server.
func (r *Runner) Voice(ctx context.Context, cmd *cli.Command) error {
	forwarder := voice.NewForwarder(cmd.String("server"), r.httpClient, shared.WithLogger(r.logger, "component", "voice"))

	if cmd.Args().Present() {
		reply, err := forwarder.Forward(ctx, strings.Join(cmd.Args().Slice(), " "))
		if err != nil {
			return err
		}
		if !reply.OK() {
			reason := reply.Error
			if reason == "" {
				reason = reply.Message
			}
			return fmt.Errorf("%w: %d %s", shared.ErrAPIRequest, reply.StatusCode, reason)
		}
		return r.writePlain("✓ %s\n", reply.Command)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("forwarding transcripts from stdin", "server", cmd.String("server"))
	return forwarder.Run(ctx, r.input)
}
