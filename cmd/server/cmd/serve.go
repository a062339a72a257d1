package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventboard/server/internal/api"
	"github.com/eventboard/server/internal/config"
	"github.com/eventboard/server/internal/domain/users"
	"github.com/eventboard/server/internal/metrics"
	"github.com/eventboard/server/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Server flags (override config/env)
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the event board HTTP server",
	Long: `Start the event board HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables
- Open the configured storage backend (STORAGE_DRIVER=json|sqlite)
- Bootstrap an admin user if ADMIN_EMAIL/ADMIN_PASSWORD are set
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  server serve --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("driver", cfg.Storage.Driver).Msg("starting event board server")

	metrics.Init(Version, GitCommit, BuildDate)

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bootstrapAdminUser(ctx, cfg, store, logger); err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}
	cancel()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(cfg, logger, store, Version, GitCommit, BuildDate),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	shutdown(server, logger)
	return nil
}

func bootstrapAdminUser(ctx context.Context, cfg config.Config, store storage.Store, logger zerolog.Logger) error {
	bootstrap := cfg.AdminBootstrap
	if bootstrap.Email == "" || bootstrap.Password == "" {
		logger.Warn().Msg("admin bootstrap env vars not set; skipping")
		return nil
	}

	service := users.NewService(store.Users(), logger)
	if _, err := service.Bootstrap(ctx, bootstrap.Email, bootstrap.Password); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}

func shutdown(server *http.Server, logger zerolog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
