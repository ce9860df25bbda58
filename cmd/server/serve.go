package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sebasr/greet-service/internal/config"
	"github.com/sebasr/greet-service/internal/database"
	"github.com/sebasr/greet-service/internal/greeting"
	"github.com/sebasr/greet-service/internal/logging"
	"github.com/sebasr/greet-service/internal/repository"
	"github.com/sebasr/greet-service/internal/server"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(cfg.Log)

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing database")
		}
	}()

	logger.Info().Str("driver", db.Driver).Msg("connected to database")

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			return err
		}
		logger.Info().Msg("database schema is up to date")
	}

	if cfg.Server.Version == "" || version != "dev" {
		cfg.Server.Version = version
	}

	deps := &server.Dependencies{
		Config:   cfg,
		Greeter:  greeting.NewService(),
		UserRepo: repository.NewSQLUserRepository(db),
		DB:       db,
		Logger:   logger,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.New(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return serve(ctx, srv, cfg.Server, logger)
}

// serve runs srv until ctx is cancelled or SIGINT/SIGTERM arrives,
// then shuts it down within cfg.ShutdownTimeout
func serve(ctx context.Context, srv *http.Server, cfg config.ServerConfig, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
