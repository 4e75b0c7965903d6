package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/desertthunder/spotctl/internal/auth"
	"github.com/desertthunder/spotctl/internal/player"
	"github.com/desertthunder/spotctl/internal/shared"
)

// TokenSource yields a valid access token.
type TokenSource interface {
	EnsureValidToken(ctx context.Context) (string, error)
}

// Executor dispatches a command with an access token.
type Executor interface {
	Execute(ctx context.Context, cmd player.Command, accessToken string) (player.Ack, error)
}

// StatusCode returns the HTTP status describing err. A nil error is 200.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		if authErr.Kind == auth.Network {
			return http.StatusBadGateway
		}
		return http.StatusUnauthorized
	}

	var dispatchErr *player.DispatchError
	if errors.As(err, &dispatchErr) {
		if dispatchErr.Kind == player.Rejected && dispatchErr.Status != 0 {
			return dispatchErr.Status
		}
		return http.StatusBadRequest
	}

	if errors.Is(err, shared.ErrAPIRequest) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// NeedsAuthorization reports whether err can only be resolved by the user authorizing again.
func NeedsAuthorization(err error) bool {
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind != auth.Network
	}

	var dispatchErr *player.DispatchError
	if errors.As(err, &dispatchErr) {
		return dispatchErr.Kind == player.Rejected && dispatchErr.Status == http.StatusUnauthorized
	}

	return false
}

// Reason returns the human-readable failure message shown to callers.
func Reason(err error) string {
	var dispatchErr *player.DispatchError
	if errors.As(err, &dispatchErr) && dispatchErr.Reason != "" {
		return dispatchErr.Reason
	}
	return err.Error()
}
