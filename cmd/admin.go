package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"studio-backend/models"
)

func newCreateAdminCommand() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user who can log into the panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 6 {
				return errors.New("password must be at least 6 characters")
			}
			_, db, err := bootstrap()
			if err != nil {
				return err
			}

			email = strings.ToLower(strings.TrimSpace(email))
			var count int64
			if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("user %s already exists", email)
			}

			user := models.User{Name: name, Email: email, Password: password, Active: true}
			if err := db.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			slog.Info("admin user created", slog.String("id", user.ID.String()), slog.String("email", user.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Admin", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
