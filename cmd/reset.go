package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"studio-backend/models"
)

func newResetAppointmentsCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset-appointments",
		Short: "Delete every appointment, its service links and notification logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to delete appointments without --yes")
			}
			_, db, err := bootstrap()
			if err != nil {
				return err
			}

			var removed int64
			err = db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
					Delete(&models.NotificationLog{}).Error; err != nil {
					return err
				}
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
					Delete(&models.AppointmentService{}).Error; err != nil {
					return err
				}
				result := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Appointment{})
				removed = result.RowsAffected
				return result.Error
			})
			if err != nil {
				return err
			}
			slog.Info("appointments reset", slog.Int64("deleted", removed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm the deletion")
	return cmd
}
