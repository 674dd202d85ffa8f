package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"studio-backend/models"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			slog.Info("migrations executed successfully")
			return nil
		},
	}
}
