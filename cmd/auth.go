package main

import (
	"context"
	"errors"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/session"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

// AuthLogin runs the browser OAuth flow and persists the resulting session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	manager, err := r.sessionManager()
	if err != nil {
		return err
	}

	manager.Restore(ctx)
	if state, sess := manager.GetSession(); state == session.StateAuthenticated {
		r.writePlain("Already signed in as %s\n", sess.Email())
		r.writePlain("Run 'ytorg auth logout' first to switch accounts\n")
		return nil
	}

	r.logger.Info("starting Google sign in, a browser window will open")

	loginCtx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	sess, err := manager.SignInWithOAuth(loginCtx)
	if err != nil {
		if errors.Is(err, shared.ErrMissingCredentials) {
			r.writePlain("✗ Missing Google OAuth credentials\n")
			r.writePlain("Add client_id and client_secret under [credentials.google] in config.toml\n")
		}
		return err
	}

	return r.writePlain("✓ Signed in as %s\n", sess.Email())
}

// AuthLogout removes the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	manager, err := r.sessionManager()
	if err != nil {
		return err
	}

	manager.Restore(ctx)
	if err := manager.SignOut(ctx); err != nil {
		return err
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthStatus shows the stored session and its expiry.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	manager, err := r.sessionManager()
	if err != nil {
		return err
	}

	manager.Restore(ctx)
	state, sess := manager.GetSession()

	r.writePlainHeader("Authentication")

	if state != session.StateAuthenticated {
		r.writePlain("Status: ✗ Not signed in\n")
		r.writePlain("Run 'ytorg auth login' to sign in with Google\n")
		return nil
	}

	r.writePlain("Status: ✓ Signed in\n")
	r.writePlain("Account: %s\n", sess.Email())
	if expiry := sess.Expiry(); !expiry.IsZero() {
		r.writePlain("Token expires: %s\n", expiry.Format(time.RFC1123))
	}
	return nil
}
