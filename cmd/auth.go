package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotctl/internal/auth"
	"github.com/desertthunder/spotctl/internal/server"
	"github.com/desertthunder/spotctl/internal/shared"
)

const defaultLoginTimeout = 5 * time.Minute

// AuthLogin runs the authorization code flow with a temporary callback listener on the redirect URI.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	manager, err := r.manager()
	if err != nil {
		return err
	}

	redirect, err := url.Parse(manager.RedirectURL())
	if err != nil || redirect.Host == "" {
		return fmt.Errorf("%w: redirect_uri %q", shared.ErrInvalidConfig, manager.RedirectURL())
	}

	state := shared.GenerateID()
	handler := server.NewOAuthHandler(manager, state, redirect.Path)

	router := server.NewBasicRouter()
	router.Use(server.Recovery(r.logger))
	router.Handler(handler)

	srv := server.NewServer(router, r.logger)
	errCh, err := srv.Start(ctx, redirect.Host)
	if err != nil {
		return fmt.Errorf("failed to start callback listener: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("callback listener shutdown failed", "error", err)
		}
	}()

	authURL := manager.AuthCodeURL(state)
	r.logger.Debug("waiting for authorization callback", "address", srv.Addr(), "path", redirect.Path)

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL to authorize spotctl:\n%s\n", authURL)
	} else if err := r.openBrowser(authURL); err != nil {
		r.logger.Warn("could not open browser", "error", err)
		r.writePlain("Open this URL to authorize spotctl:\n%s\n", authURL)
	}

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = defaultLoginTimeout
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		return r.writePlain("✓ Authorization successful\nToken expires: %s\n", result.Record.Expiry().Local().Format(time.DateTime))
	case err := <-errCh:
		return fmt.Errorf("callback listener failed: %w", err)
	case <-time.After(timeout):
		return fmt.Errorf("%w: no authorization callback within %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AuthStatus reports whether credentials are stored, without printing token values.
//
// Only the credential store is read, so client credentials need not be configured.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	status, err := auth.ReadStatus(ctx, store, time.Now())
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	return r.writeStatus(status)
}

func (r *Runner) writeStatus(status auth.Status) error {
	if !status.Authenticated {
		r.writePlain("Authentication: ✗ Not authenticated\n")
		return r.writePlain("Run 'spotctl auth login' to authorize\n")
	}

	r.writePlain("Authentication: ✓ Authenticated\n")
	r.writePlain("Expires: %s\n", status.ExpiresAt.Local().Format(time.DateTime))
	if status.NeedsRefresh {
		return r.writePlain("Refresh: due on the next command\n")
	}
	return r.writePlain("Refresh: not needed\n")
}
