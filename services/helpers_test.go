package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"studio-backend/config"
	"studio-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studio.db")
	db, err := config.ConnectDB(config.DatabaseConfig{
		Driver:       "sqlite",
		URL:          path + "?_busy_timeout=5000",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedClient(t *testing.T, db *gorm.DB, name, phone string) models.Client {
	t.Helper()
	c := models.Client{Name: name, Phone: phone}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

func seedService(t *testing.T, db *gorm.DB, name, price string, minutes int) models.Service {
	t.Helper()
	s := models.Service{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		DurationMin: minutes,
		Active:      true,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create service: %v", err)
	}
	return s
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []AppointmentEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e AppointmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (n *recordingNotifier) Notify(_ context.Context, kind string, _ *models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	return nil
}

type fakeSender struct {
	mu      sync.Mutex
	channel string
	err     error
	bodies  []string
}

func (s *fakeSender) Channel(*models.Client) string { return s.channel }

func (s *fakeSender) Send(_ context.Context, _ *models.Client, _, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, body)
	return s.err
}
