package shared

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestLogger(t *testing.T) {
	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "component=test") {
			t.Errorf("expected child logger fields in output, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.WarnLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}
	})

	t.Run("Slog writes through the same logger", func(t *testing.T) {
		var buf bytes.Buffer
		Slog(NewLogger(&buf)).Info("via slog", "key", "value")

		if !strings.Contains(buf.String(), "via slog") || !strings.Contains(buf.String(), "key=value") {
			t.Errorf("expected slog record in output, got %q", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("GenerateID() = %q, not a uuid: %v", id, err)
	}
	if id == GenerateID() {
		t.Error("expected unique ids")
	}
}

func TestErrors(t *testing.T) {
	t.Run("Wrapped Sentinels Match Only Themselves", func(t *testing.T) {
		sentinels := []error{
			ErrMissingConfig, ErrInvalidConfig,
			ErrMissingCredentials, ErrAuthFailed, ErrNotAuthenticated, ErrTimeout,
			ErrAPIRequest, ErrServiceUnavailable,
			ErrMissingArgument, ErrInvalidArgument,
		}

		for i, sentinel := range sentinels {
			wrapped := fmt.Errorf("%w: detail", sentinel)
			for j, other := range sentinels {
				if got := errors.Is(wrapped, other); got != (i == j) {
					t.Errorf("errors.Is(%q, %q) = %v", wrapped, other, got)
				}
			}
		}
	})

	t.Run("Authorization Errors Name Spotify", func(t *testing.T) {
		for _, err := range []error{ErrMissingCredentials, ErrAuthFailed, ErrNotAuthenticated, ErrTimeout} {
			if !strings.HasPrefix(err.Error(), "spotify: ") {
				t.Errorf("expected spotify prefix, got %q", err)
			}
		}
	})
}
