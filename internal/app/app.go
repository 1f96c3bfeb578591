// Package app wires the application together: configuration, logging,
// database, tool registry, and tracing. Both the serve and mcp commands
// build the same App and differ only in the transport they attach.
package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pipedesk/assist/internal/config"
	"github.com/pipedesk/assist/internal/log"
	"github.com/pipedesk/assist/internal/reasoning"
	"github.com/pipedesk/assist/internal/tools"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Pool           *pgxpool.Pool
	Registry       *tools.Registry
	ReasoningStore *reasoning.Store

	// tracingShutdown flushes pending spans; nil when tracing is disabled.
	tracingShutdown func(context.Context) error
}

// Close gracefully shuts down all resources.
func (a *App) Close(ctx context.Context) error {
	a.Logger.Info("shutting down application")

	var err error
	if a.tracingShutdown != nil {
		err = a.tracingShutdown(ctx)
	}

	if a.Pool != nil {
		a.Pool.Close()
		a.Logger.Info("database pool closed")
	}

	return err
}

// parseLogLevel maps the config value onto a slog level. Unknown values
// were already rejected by config validation; default to info anyway.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
