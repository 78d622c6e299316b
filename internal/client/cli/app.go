package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/agentfree/sessionkit/internal/client/config"
	"github.com/agentfree/sessionkit/internal/client/services"
	"github.com/agentfree/sessionkit/internal/common"
	"github.com/agentfree/sessionkit/internal/logging"
)

type App struct {
	config     *config.Config
	session    services.SessionService
	issuer     services.TokenIssuer
	logger     logging.Logger
	closeStore func() error
	reader     *bufio.Reader
	out        io.Writer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, closeStore, err := openStore(ctx, c)
	if err != nil {
		logger.Error(ctx, "error initializing store", "backend", c.StoreBackend, "error", err)
		return nil, err
	}

	a := &App{
		config:     c,
		issuer:     newIssuer(c),
		logger:     logger.With("module", "cli"),
		closeStore: closeStore,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithTokenIssuer(a.issuer),
		services.WithEventHandler(a.onEvent),
	}
	if c.SimulateLatency {
		opts = append(opts, services.WithLatency(services.DefaultLatency))
	}
	if c.UsersFile != "" {
		roster, err := services.LoadRoster(c.UsersFile, time.Now())
		if err != nil {
			_ = closeStore()
			return nil, err
		}
		opts = append(opts, services.WithRoster(roster))
	}

	a.session = services.NewSessionService(store, opts...)
	return a, nil
}

func newIssuer(c *config.Config) services.TokenIssuer {
	if c.TokenMode == config.TokenJWT {
		return services.NewJWTIssuer([]byte(c.JWTSecret), c.TokenTTL)
	}
	return services.OpaqueIssuer{}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.closeStore(); err != nil {
			a.logger.Warn(ctx, "close store", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) onEvent(e services.Event) {
	ctx := context.Background()
	switch e.Type {
	case services.EventError:
		a.logger.Debug(ctx, "session event", "type", e.Type, "op", e.Op, "error", e.Err)
	default:
		a.logger.Debug(ctx, "session event", "type", e.Type)
	}
}

// StartTokenRefreshWatcher refreshes the session token every interval while
// a session is active. It returns when ctx is done.
func (a *App) StartTokenRefreshWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !a.session.IsAuthenticated() {
				continue
			}

			rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			_, err := a.session.RefreshToken(rctx)
			cancel()

			switch {
			case err == nil:
			case errors.Is(err, common.ErrNoToken), errors.Is(err, context.Canceled):
				// logged out or shutting down in between
			default:
				a.logger.Warn(ctx, "token refresh failed", "error", err)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
