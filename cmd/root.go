package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"studio-backend/config"
	"studio-backend/utils"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "Booking backend for a hair and barber studio.",
	Long: `studio serves the booking API used by the studio's admin panel and
public landing page, and carries the maintenance commands around it.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newCreateAdminCommand())
	rootCmd.AddCommand(newResetAppointmentsCommand())
}

// bootstrap loads configuration, installs the logger and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}

	slog.SetDefault(config.NewLogger(cfg))
	utils.ConfigureAuth(cfg.JWTSecret, cfg.JWTExpiryHours, cfg.BcryptCost)

	db, err := config.ConnectDB(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return cfg, db, nil
}
