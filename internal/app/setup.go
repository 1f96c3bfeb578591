package app

import (
	"context"
	"fmt"

	"github.com/pipedesk/assist/internal/config"
	"github.com/pipedesk/assist/internal/crm/postgres"
	"github.com/pipedesk/assist/internal/database"
	"github.com/pipedesk/assist/internal/log"
	"github.com/pipedesk/assist/internal/observability"
	"github.com/pipedesk/assist/internal/reasoning"
	"github.com/pipedesk/assist/internal/tools"
)

// Setup builds the full application: it runs pending migrations, opens the
// database pool, constructs the domain stores, and registers every tool.
// On failure, resources acquired so far are released before returning.
func Setup(ctx context.Context, cfg *config.Config) (_ *App, retErr error) {
	logger := log.New(log.Config{
		Level: parseLogLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	var tracingShutdown func(context.Context) error
	if cfg.Tracing.Enabled {
		shutdown, err := observability.Setup(ctx, observability.Config{
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.Tracing.ServiceName,
			Environment: cfg.Tracing.Environment,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("setting up tracing: %w", err)
		}
		tracingShutdown = shutdown
	}
	defer func() {
		if retErr != nil && tracingShutdown != nil {
			_ = tracingShutdown(ctx)
		}
	}()

	if err := database.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	pool, err := database.Open(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if retErr != nil {
			pool.Close()
		}
	}()

	store := postgres.New(pool, logger.With("component", "crm"))
	reasoningStore := reasoning.New(pool, logger.With("component", "reasoning"))

	registry := tools.NewRegistry(logger.With("component", "registry"))
	tools.RegisterAll(registry, store.Services(), reasoningStore, logger.With("component", "tools"))

	logger.Info("application ready",
		"tools", registry.Count(),
		"database", cfg.PostgresDBName,
	)

	return &App{
		Config:          cfg,
		Logger:          logger,
		Pool:            pool,
		Registry:        registry,
		ReasoningStore:  reasoningStore,
		tracingShutdown: tracingShutdown,
	}, nil
}
