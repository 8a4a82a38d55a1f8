package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/guildadmin/internal/client/api"
)

// StartStatusWatcher re-checks the session every interval until ctx is done.
// Anonymous sessions are skipped: there is nothing to verify.
func (a *App) StartStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.isLoggedIn() {
				a.checkStatus(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}

// checkStatus runs one session check and records whether the backend was
// reachable.
func (a *App) checkStatus(ctx context.Context) {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	err := a.session.CheckAuthStatus(ctx)
	switch {
	case errors.Is(err, api.ErrUnavailable):
		a.setMode(ModeOffline)
	case err != nil:
		a.setMode(ModeOnline)
		a.logger.Warn(ctx, "session check failed", "error", err)
	default:
		a.setMode(ModeOnline)
	}
}
