package services

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/player"
	"github.com/desertthunder/spotctl/internal/repositories"
)

// PlaybackService runs playback commands on behalf of a front end.
type PlaybackService struct {
	tokens  TokenSource
	player  Executor
	history *repositories.LogRecorder
	logger  *log.Logger
}

// NewPlaybackService creates a PlaybackService. history may be nil to disable recording.
func NewPlaybackService(tokens TokenSource, executor Executor, history repositories.Recorder, logger *log.Logger) *PlaybackService {
	if logger == nil {
		logger = log.Default()
	}

	return &PlaybackService{
		tokens:  tokens,
		player:  executor,
		history: repositories.NewLogRecorder(history, logger),
		logger:  logger,
	}
}

// Control dispatches cmd and records the outcome under source.
func (s *PlaybackService) Control(ctx context.Context, cmd player.Command, source models.Source) (player.Ack, error) {
	ack, err := s.control(ctx, cmd)
	s.record(ctx, string(cmd), source, ack, err)
	return ack, err
}

// Voice resolves transcribed text to a command and dispatches it.
func (s *PlaybackService) Voice(ctx context.Context, text string) (player.Ack, error) {
	cmd, err := player.Resolve(text)
	if err != nil {
		s.record(ctx, text, models.SourceVoice, player.Ack{}, err)
		return player.Ack{}, err
	}

	s.logger.Debug("resolved voice command", "text", text, "command", cmd)
	return s.Control(ctx, cmd, models.SourceVoice)
}

func (s *PlaybackService) control(ctx context.Context, cmd player.Command) (player.Ack, error) {
	if !cmd.Valid() {
		return player.Ack{}, &player.DispatchError{Kind: player.UnknownCommand, Command: string(cmd)}
	}

	token, err := s.tokens.EnsureValidToken(ctx)
	if err != nil {
		return player.Ack{}, err
	}

	return s.player.Execute(ctx, cmd, token)
}

func (s *PlaybackService) record(ctx context.Context, command string, source models.Source, ack player.Ack, err error) {
	status := ack.Status
	if err != nil {
		status = StatusCode(err)
		s.logger.Warn("playback command failed", "command", command, "source", source, "status", status, "error", err)
	} else {
		s.logger.Info("playback command accepted", "command", command, "source", source, "status", status)
	}

	if command == "" {
		command = "(empty)"
	}
	s.history.Record(ctx, models.NewHistoryEntry(command, source, status, err))
}
