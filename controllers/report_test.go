package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studio-backend/config"
	"studio-backend/models"
	"studio-backend/services"
)

func TestCalculateGrowthPercentage(t *testing.T) {
	tests := []struct {
		current, previous string
		want              float64
	}{
		{"240", "60", 300},
		{"50", "100", -50},
		{"0", "0", 0},
		{"10", "0", 100},
		{"100", "300", -66.67},
	}
	for _, tt := range tests {
		got := calculateGrowthPercentage(decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.previous))
		if got != tt.want {
			t.Errorf("growth(%s, %s) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestReportController_GetReportAnalytics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := config.ConnectDB(config.DatabaseConfig{
		Driver:       "sqlite",
		URL:          filepath.Join(t.TempDir(), "studio.db"),
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ana := models.Client{Name: "Ana", Phone: "+5519990000001"}
	bia := models.Client{Name: "Bia", Phone: "+5519990000002"}
	cut := models.Service{Name: "Corte", Price: decimal.NewFromInt(90), DurationMin: 45, Active: true}
	beard := models.Service{Name: "Barba", Price: decimal.NewFromInt(60), DurationMin: 30, Active: true}
	for _, rec := range []interface{}{&ana, &bia, &cut, &beard} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	booking := services.NewBookingService(db)
	ctx := context.Background()
	book := func(client models.Client, date time.Time, status models.AppointmentStatus, ids ...uuid.UUID) {
		t.Helper()
		appt, err := booking.Create(ctx, services.BookingRequest{Date: date, ClientID: client.ID, ServiceIDs: ids})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if status != models.StatusPending {
			if _, err := booking.UpdateStatus(ctx, appt.ID, services.StatusUpdate{Status: &status}); err != nil {
				t.Fatalf("UpdateStatus failed: %v", err)
			}
		}
	}
	book(ana, time.Date(2026, 2, 3, 15, 0, 0, 0, time.UTC), models.StatusCompleted, cut.ID, beard.ID)
	book(bia, time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC), models.StatusCompleted, cut.ID)
	book(ana, time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC), models.StatusCompleted, beard.ID)
	book(bia, time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC), models.StatusPending, beard.ID)
	book(bia, time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC), models.StatusCancelled, cut.ID)
	booking.Wait()

	rc := &ReportController{
		Loc: time.UTC,
		Now: func() time.Time { return time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC) },
	}
	r := gin.New()
	r.GET("/reports", rc.GetReportAnalytics)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var got AnalyticsSummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	money := func(name string, d decimal.Decimal, want int64) {
		t.Helper()
		if !d.Equal(decimal.NewFromInt(want)) {
			t.Errorf("%s = %s, want %d", name, d, want)
		}
	}
	money("currentMonthRevenue", got.CurrentMonthRevenue, 240)
	money("currentQuarterRevenue", got.CurrentQuarterRevenue, 300)
	money("currentYearRevenue", got.CurrentYearRevenue, 300)
	if got.MonthGrowth != 300 || got.QuarterGrowth != 100 || got.YearGrowth != 100 {
		t.Errorf("growth = %v/%v/%v, want 300/100/100", got.MonthGrowth, got.QuarterGrowth, got.YearGrowth)
	}

	var serviceNames, clientNames []string
	for _, s := range got.TopServices {
		serviceNames = append(serviceNames, s.Name)
	}
	for _, c := range got.TopClients {
		clientNames = append(clientNames, c.Name)
	}
	if diff := cmp.Diff([]string{"Corte", "Barba"}, serviceNames); diff != "" {
		t.Errorf("top services (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Ana", "Bia"}, clientNames); diff != "" {
		t.Errorf("top clients (-want +got):\n%s", diff)
	}
	if got.TopServices[0].Count != 2 {
		t.Errorf("Corte count = %d, want 2", got.TopServices[0].Count)
	}
	money("Ana spent", got.TopClients[0].Spent, 150)

	if got.QuickStats.TotalClients != 2 || got.QuickStats.CompletedAppointments != 3 {
		t.Errorf("quick stats = %+v", got.QuickStats)
	}
	money("avgTicket", got.QuickStats.AvgTicket, 100)
	if got.QuickStats.AvgMonthlyVisits != 1.5 {
		t.Errorf("avgMonthlyVisits = %v, want 1.5", got.QuickStats.AvgMonthlyVisits)
	}
}
