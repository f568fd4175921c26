package main

import (
	"fmt"

	"sales-management/internal/config"
	"sales-management/internal/database"
	"sales-management/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Sales management back end",
	Long: `api serves the sales management REST API and carries the
maintenance commands that go with it: schema migrations and fixture seeding.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration, builds the logger and opens the database
func bootstrap() (*config.Config, *zap.Logger, database.Service, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	return cfg, log, db, nil
}
