package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if !a.session.IsAuthenticated() {
		return ""
	}
	u, err := a.session.User(context.Background())
	if err != nil || u == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", u.Username, u.Role)
}

// Root restores a stored session, starts the refresh watcher when an interval
// is configured, and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to sessionkit CLI (type 'help' for commands)\n")

	if u, err := a.session.CurrentUser(ctx); err != nil {
		a.logger.Warn(ctx, "restore session", "error", err)
	} else if u != nil {
		a.printf("Restored session for %s\n", u.Username)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.config.RefreshInterval > 0 {
		go a.StartTokenRefreshWatcher(ctx, a.config.RefreshInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
