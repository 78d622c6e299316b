package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/agentfree/sessionkit/internal/buildinfo"
	"github.com/agentfree/sessionkit/internal/logging"
	"github.com/agentfree/sessionkit/internal/smoke"
	"github.com/agentfree/sessionkit/internal/smoke/config"
	"golang.org/x/term"
)

// The exit code is always 0: check failures are reported, not fatal.
func main() {

	buildinfo.PrintBuildData(os.Stderr)

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, slog.LevelInfo, cfg.JSONLogs)

	runner := smoke.NewRunner(cfg.BaseURL, os.Stdout,
		smoke.WithTimeout(cfg.Timeout),
		smoke.WithFrontendURL(cfg.FrontendURL),
		smoke.WithLogger(logger),
		smoke.WithColor(term.IsTerminal(int(os.Stdout.Fd()))),
		smoke.WithGRPCHealth(cfg.GRPCHealthAddr, nil),
	)
	runner.Run(context.Background())
}
