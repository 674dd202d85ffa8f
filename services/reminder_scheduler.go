package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"studio-backend/models"
	"studio-backend/utils"
)

// ReminderScheduler sends the reminder template to clients with a PENDING
// appointment on the next studio day.
type ReminderScheduler struct {
	db       *gorm.DB
	notifier Notifier
	loc      *time.Location
	cron     *cron.Cron
	now      func() time.Time
}

func NewReminderScheduler(db *gorm.DB, notifier Notifier, loc *time.Location) *ReminderScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderScheduler{
		db:       db,
		notifier: notifier,
		loc:      loc,
		cron:     cron.New(cron.WithLocation(loc)),
		now:      time.Now,
	}
}

// Start registers the daily job on schedule (standard 5-field cron) and starts it.
func (s *ReminderScheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.SendDailyReminders(ctx); err != nil {
			slog.Error("daily reminders failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	slog.Info("reminder scheduler started", slog.String("schedule", schedule))
	return nil
}

// Stop halts the scheduler and waits for a running job.
func (s *ReminderScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// SendDailyReminders notifies every PENDING appointment of tomorrow that has
// not yet received a successful reminder. It returns how many were sent.
func (s *ReminderScheduler) SendDailyReminders(ctx context.Context) (int, error) {
	tomorrow := utils.BeginningOfDay(s.now().In(s.loc)).AddDate(0, 0, 1)
	day := DayRange(tomorrow, s.loc)

	var appts []models.Appointment
	err := withRelations(s.db.WithContext(ctx)).
		Where("date >= ? AND date <= ? AND status = ?", day.From.UTC(), day.To.UTC(), models.StatusPending).
		Where("id NOT IN (?)", s.db.Model(&models.NotificationLog{}).
			Select("appointment_id").
			Where("kind = ? AND status = ?", models.TemplateReminder, notificationSent)).
		Order("date ASC").
		Find(&appts).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range appts {
		if err := s.notifier.Notify(ctx, models.TemplateReminder, &appts[i]); err != nil {
			slog.Warn("reminder failed", slog.String("appointment", appts[i].ID.String()), slog.Any("error", err))
			continue
		}
		sent++
	}
	slog.Info("daily reminders processed", slog.Int("due", len(appts)), slog.Int("sent", sent))
	return sent, nil
}
