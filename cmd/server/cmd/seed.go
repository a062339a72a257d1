package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/eventboard/server/internal/config"
	"github.com/eventboard/server/internal/domain/users"
	"github.com/eventboard/server/internal/storage"
	"github.com/spf13/cobra"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin account",
	Long: `Create the initial admin account in the configured storage backend.

Registration through the API always yields regular users; admin accounts
only exist through seeding or the ADMIN_EMAIL/ADMIN_PASSWORD bootstrap at
startup. Seeding an email that already exists is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "email", "", "admin email (default: ADMIN_EMAIL env)")
	seedCmd.Flags().StringVar(&seedAdminPassword, "password", "", "admin password (default: ADMIN_PASSWORD env)")
}

func runSeed() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if seedAdminEmail != "" {
		cfg.AdminBootstrap.Email = seedAdminEmail
	}
	if seedAdminPassword != "" {
		cfg.AdminBootstrap.Password = seedAdminPassword
	}
	if cfg.AdminBootstrap.Email == "" || cfg.AdminBootstrap.Password == "" {
		return fmt.Errorf("admin email and password are required (flags or ADMIN_EMAIL/ADMIN_PASSWORD)")
	}

	logger := config.NewLogger(cfg.Logging)

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	service := users.NewService(store.Users(), logger)
	user, err := service.Bootstrap(ctx, cfg.AdminBootstrap.Email, cfg.AdminBootstrap.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	logger.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("admin account ready")
	return nil
}
