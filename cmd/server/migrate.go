package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sebasr/greet-service/internal/config"
	"github.com/sebasr/greet-service/internal/database"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(*configPath, func(db *database.DB) error {
					if err := db.Migrate(); err != nil {
						return err
					}
					return printVersion(cmd, db)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(*configPath, func(db *database.DB) error {
					if err := db.MigrateDown(); err != nil {
						return err
					}
					return printVersion(cmd, db)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(*configPath, func(db *database.DB) error {
					return printVersion(cmd, db)
				})
			},
		},
	)

	return cmd
}

func withDatabase(configPath string, fn func(db *database.DB) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return fn(db)
}

func printVersion(cmd *cobra.Command, db *database.DB) error {
	version, dirty, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d (dirty: %t)\n", version, dirty)
	return nil
}
