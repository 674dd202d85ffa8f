package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"studio-backend/config"
	"studio-backend/models"
	"studio-backend/routes"
	"studio-backend/services"
	"studio-backend/utils"
)

func newServeCommand() *cobra.Command {
	var (
		migrate         bool
		shutdownTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			if migrate {
				if err := models.AutoMigrate(db); err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
			}
			return serve(cfg, db, shutdownTimeout)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "run schema migrations before serving")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "maximum time to wait for graceful shutdown")

	return cmd
}

func newNotifier(cfg *config.Config, db *gorm.DB) services.Notifier {
	var senders []services.Sender
	if cfg.Twilio.Enabled() {
		senders = append(senders, services.NewTwilioSender(
			cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber, cfg.Twilio.WhatsAppNumber))
	}
	if cfg.SMTP.Enabled() {
		senders = append(senders, services.NewMailSender(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From))
	}
	if len(senders) == 0 {
		slog.Info("no notification channel configured; client messages disabled")
		return services.NopNotifier{}
	}
	return services.NewNotificationService(db, cfg.Location(), senders...)
}

func newEventPublisher(cfg *config.Config) services.EventPublisher {
	if cfg.RabbitMQURL == "" {
		return services.NopPublisher{}
	}
	return services.NewAMQPPublisher(cfg.RabbitMQURL)
}

func serve(cfg *config.Config, db *gorm.DB, shutdownTimeout time.Duration) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	loc := cfg.Location()
	notifier := newNotifier(cfg, db)
	booking := services.NewBookingService(db,
		services.WithLocation(loc),
		services.WithNotifier(notifier),
		services.WithEventPublisher(newEventPublisher(cfg)),
		services.WithOverlapCheck(cfg.BookingPreventOverlap),
	)

	reminders := services.NewReminderScheduler(db, notifier, loc)
	if cfg.ReminderCron != "" {
		if err := reminders.Start(cfg.ReminderCron); err != nil {
			return err
		}
		defer reminders.Stop()
	}

	var cache *utils.ResponseCache
	if rdb := config.NewRedisClient(cfg); rdb != nil {
		defer rdb.Close()
		cache = utils.NewResponseCache(rdb, cfg.CacheTTL)
	}

	r := routes.SetupRouter(routes.Deps{
		Booking:     booking,
		Reminders:   reminders,
		Cache:       cache,
		CORSOrigins: cfg.CORSOrigins,
		Location:    loc,
	})
	if cfg.IsDevelopment() {
		for _, route := range r.Routes() {
			slog.Debug("route", slog.String("method", route.Method), slog.String("path", route.Path))
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	booking.Wait()
	return nil
}
