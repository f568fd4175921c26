package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sales-management/internal/database"
	"sales-management/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}

		log.Info("Starting sales management API",
			zap.String("env", cfg.Server.Env),
			zap.String("port", cfg.Server.Port),
		)
		log.Info("Database health check", zap.Any("health", db.Health()))

		if !skipMigrations {
			if err := database.RunMigrations(db.DB(), log); err != nil {
				_ = db.Close()
				return err
			}
		}

		srv := server.NewServer(cfg, log, db)

		done := make(chan bool, 1)
		go gracefulShutdown(srv, log, done)

		log.Info("Server listening", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
			_ = srv.Close()
			return err
		}

		<-done
		log.Info("Graceful shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	rootCmd.AddCommand(serveCmd)
}

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// in-flight requests get 30 seconds
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}
