package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studio-backend/models"
	"studio-backend/utils"
)

var (
	appointmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_appointments_created_total",
		Help: "Appointments created through the booking API.",
	})
	appointmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_appointment_status_transitions_total",
		Help: "Appointment status changes by target status.",
	}, []string{"status"})
)

// BookingRequest is a parsed appointment creation request.
type BookingRequest struct {
	Date       time.Time
	ClientID   uuid.UUID
	ServiceIDs []uuid.UUID
	Notes      *string
}

func (r BookingRequest) validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}
	if r.ClientID == uuid.Nil {
		return fmt.Errorf("%w: clientId is required", ErrInvalidRequest)
	}
	if len(r.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidRequest)
	}
	seen := make(map[uuid.UUID]struct{}, len(r.ServiceIDs))
	for _, id := range r.ServiceIDs {
		if id == uuid.Nil {
			return fmt.Errorf("%w: empty service id", ErrInvalidRequest)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: service %s listed twice", ErrInvalidRequest, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// StatusUpdate carries the optional fields of an appointment update.
type StatusUpdate struct {
	Status *models.AppointmentStatus
	Notes  *string
}

// Range bounds an appointment listing on the start date. Nil ends are open.
type Range struct {
	From *time.Time
	To   *time.Time
}

// DayRange covers the whole calendar day of day in loc, both ends inclusive.
func DayRange(day time.Time, loc *time.Location) Range {
	d := day.In(loc)
	from := utils.BeginningOfDay(d)
	to := utils.EndOfDay(d)
	return Range{From: &from, To: &to}
}

type DashboardStats struct {
	TotalAppointments int64           `json:"totalAppointments"`
	TotalClients      int64           `json:"totalClients"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AppointmentsToday int64           `json:"appointmentsToday"`
}

// MarshalJSON writes totalRevenue as a bare JSON number.
func (s DashboardStats) MarshalJSON() ([]byte, error) {
	type plain DashboardStats
	return json.Marshal(struct {
		plain
		TotalRevenue json.RawMessage `json:"totalRevenue"`
	}{plain(s), json.RawMessage(s.TotalRevenue.String())})
}

// Totals sums durations and prices of the selected services.
func Totals(services []models.Service) (minutes int, price decimal.Decimal) {
	price = decimal.Zero
	for _, s := range services {
		minutes += s.DurationMin
		price = price.Add(s.Price)
	}
	return minutes, price
}

type BookingService struct {
	db             *gorm.DB
	loc            *time.Location
	notifier       Notifier
	events         EventPublisher
	preventOverlap bool

	wg sync.WaitGroup
}

type BookingOption func(*BookingService)

func WithNotifier(n Notifier) BookingOption {
	return func(s *BookingService) { s.notifier = n }
}

func WithEventPublisher(p EventPublisher) BookingOption {
	return func(s *BookingService) { s.events = p }
}

// WithOverlapCheck rejects bookings whose window intersects a non-cancelled
// appointment. Off by default: concurrent bookings of one slot both succeed.
func WithOverlapCheck(enabled bool) BookingOption {
	return func(s *BookingService) { s.preventOverlap = enabled }
}

func WithLocation(loc *time.Location) BookingOption {
	return func(s *BookingService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewBookingService(db *gorm.DB, opts ...BookingOption) *BookingService {
	s := &BookingService{
		db:       db,
		loc:      time.UTC,
		notifier: NopNotifier{},
		events:   NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BookingService) Location() *time.Location {
	return s.loc
}

// Wait blocks until post-commit notifications and events have finished.
func (s *BookingService) Wait() {
	s.wg.Wait()
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Client", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") })
}

// Create books an appointment: it resolves the client and every service in
// one transaction, derives the end time and total price from the services and
// stores the appointment with its service links. Either everything is written
// or nothing is.
func (s *BookingService) Create(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var appt models.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, "id = ?", req.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: client %s", ErrNotFound, req.ClientID)
			}
			return err
		}

		var services []models.Service
		if err := tx.Where("id IN ? AND active = ?", req.ServiceIDs, true).
			Find(&services).Error; err != nil {
			return err
		}
		if len(services) != len(req.ServiceIDs) {
			return fmt.Errorf("%w: one or more services were not found", ErrNotFound)
		}

		minutes, price := Totals(services)
		start := req.Date.UTC()
		end := start.Add(time.Duration(minutes) * time.Minute)

		if s.preventOverlap {
			var clashes int64
			if err := tx.Model(&models.Appointment{}).
				Where("status <> ? AND date < ? AND end_date > ?", models.StatusCancelled, end, start).
				Count(&clashes).Error; err != nil {
				return err
			}
			if clashes > 0 {
				return ErrSlotTaken
			}
		}

		appt = models.Appointment{
			Date:       start,
			EndDate:    end,
			Status:     models.StatusPending,
			TotalPrice: price,
			Notes:      req.Notes,
			ClientID:   client.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&appt).Error; err != nil {
			return err
		}

		links := make([]models.AppointmentService, 0, len(services))
		for _, svc := range services {
			links = append(links, models.AppointmentService{AppointmentID: appt.ID, ServiceID: svc.ID})
		}
		return tx.Omit(clause.Associations).Create(&links).Error
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, appt.ID)
	if err != nil {
		return nil, err
	}

	appointmentsCreated.Inc()
	s.afterCommit(EventAppointmentCreated, created, models.TemplateConfirmation)
	return created, nil
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := withRelations(s.db.WithContext(ctx)).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &appt, nil
}

// List returns appointments whose start falls in r, earliest first.
func (s *BookingService) List(ctx context.Context, r Range) ([]models.Appointment, error) {
	q := withRelations(s.db.WithContext(ctx))
	if r.From != nil {
		q = q.Where("date >= ?", r.From.UTC())
	}
	if r.To != nil {
		q = q.Where("date <= ?", r.To.UTC())
	}

	appts := []models.Appointment{}
	if err := q.Order("date ASC").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// UpdateStatus applies the new status and/or notes unconditionally.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (*models.Appointment, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, *upd.Status)
	}

	var previous models.AppointmentStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appt models.Appointment
		if err := tx.First(&appt, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: appointment %s", ErrNotFound, id)
			}
			return err
		}
		previous = appt.Status

		changes := map[string]interface{}{}
		if upd.Status != nil {
			changes["status"] = *upd.Status
		}
		if upd.Notes != nil {
			changes["notes"] = *upd.Notes
		}
		if len(changes) == 0 {
			return nil
		}
		return tx.Model(&appt).Updates(changes).Error
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated.Status != previous {
		appointmentTransitions.WithLabelValues(string(updated.Status)).Inc()
		s.afterCommit(EventAppointmentStatusChanged, updated, "")
	}
	return updated, nil
}

// Delete removes the appointment and its service links.
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	var appt models.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&appt, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: appointment %s", ErrNotFound, id)
			}
			return err
		}
		if err := tx.Where("appointment_id = ?", id).Delete(&models.AppointmentService{}).Error; err != nil {
			return err
		}
		return tx.Delete(&appt).Error
	})
	if err != nil {
		return err
	}
	s.afterCommit(EventAppointmentDeleted, &appt, "")
	return nil
}

// Stats aggregates the dashboard counters. Revenue only counts COMPLETED
// appointments; the daily counter skips CANCELLED ones.
func (s *BookingService) Stats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{TotalRevenue: decimal.Zero}

	if err := db.Model(&models.Appointment{}).Count(&stats.TotalAppointments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Client{}).Count(&stats.TotalClients).Error; err != nil {
		return nil, err
	}

	var revenue struct {
		Total decimal.Decimal
	}
	if err := db.Model(&models.Appointment{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("status = ?", models.StatusCompleted).
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.Total

	today := DayRange(now, s.loc)
	if err := db.Model(&models.Appointment{}).
		Where("date >= ? AND date <= ? AND status <> ?", today.From.UTC(), today.To.UTC(), models.StatusCancelled).
		Count(&stats.AppointmentsToday).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// afterCommit publishes the event and, when kind is set, notifies the client.
// Failures are logged only; the booking itself already succeeded.
func (s *BookingService) afterCommit(eventType string, appt *models.Appointment, kind string) {
	event := NewAppointmentEvent(eventType, appt)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.events.Publish(ctx, event); err != nil {
			slog.Warn("publish appointment event failed",
				slog.String("type", eventType), slog.String("appointment", appt.ID.String()), slog.Any("error", err))
		}
		if kind == "" {
			return
		}
		if err := s.notifier.Notify(ctx, kind, appt); err != nil {
			slog.Warn("appointment notification failed",
				slog.String("kind", kind), slog.String("appointment", appt.ID.String()), slog.Any("error", err))
		}
	}()
}
