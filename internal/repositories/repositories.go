package repositories

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spotctl/internal/models"
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 20

// Recorder stores dispatch outcomes.
type Recorder interface {
	Record(ctx context.Context, entry *models.HistoryEntry) error
}

// LogRecorder wraps a [Recorder] so that failures are logged instead of returned.
//
// A nil Recorder is allowed and records nothing, which is how history is disabled.
type LogRecorder struct {
	recorder Recorder
	logger   *log.Logger
}

// NewLogRecorder creates a LogRecorder. recorder may be nil.
func NewLogRecorder(recorder Recorder, logger *log.Logger) *LogRecorder {
	if logger == nil {
		logger = log.Default()
	}
	return &LogRecorder{recorder: recorder, logger: logger}
}

// Record stores entry, logging any failure.
func (l *LogRecorder) Record(ctx context.Context, entry *models.HistoryEntry) error {
	if l == nil || l.recorder == nil {
		return nil
	}
	if err := l.recorder.Record(ctx, entry); err != nil {
		l.logger.Warn("failed to record command history", "command", entry.Command, "error", err)
	}
	return nil
}

// Enabled reports whether entries are persisted.
func (l *LogRecorder) Enabled() bool {
	return l != nil && l.recorder != nil
}

func limitOrDefault(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("invalid limit %d", limit)
	case limit == 0:
		return DefaultListLimit, nil
	default:
		return limit, nil
	}
}
