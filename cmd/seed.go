package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"studio-backend/models"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert studio settings, services, categories, portfolio and message templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			if err := models.Seed(db); err != nil {
				return fmt.Errorf("failed to seed database: %w", err)
			}
			slog.Info("database seeded")
			return nil
		},
	}
}
