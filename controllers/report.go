// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"studio-backend/config"
	"studio-backend/models"
)

// ReportController computes revenue analytics over COMPLETED appointments.
type ReportController struct {
	Loc *time.Location
	Now func() time.Time
}

type AnalyticsSummary struct {
	CurrentMonthRevenue   decimal.Decimal  `json:"currentMonthRevenue"`
	MonthGrowth           float64          `json:"monthGrowth"`
	CurrentQuarterRevenue decimal.Decimal  `json:"currentQuarterRevenue"`
	QuarterGrowth         float64          `json:"quarterGrowth"`
	CurrentYearRevenue    decimal.Decimal  `json:"currentYearRevenue"`
	YearGrowth            float64          `json:"yearGrowth"`
	TopServices           []ServiceSummary `json:"topServices"`
	TopClients            []ClientSummary  `json:"topClients"`
	QuickStats            QuickStatistics  `json:"quickStats"`
}

type ServiceSummary struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ClientSummary struct {
	Name   string          `json:"name"`
	Visits int             `json:"visits"`
	Spent  decimal.Decimal `json:"spent"`
}

type QuickStatistics struct {
	TotalClients          int             `json:"totalClients"`
	CompletedAppointments int             `json:"completedAppointments"`
	AvgMonthlyVisits      float64         `json:"avgMonthlyVisits"`
	AvgTicket             decimal.Decimal `json:"avgTicket"`
}

func (rc *ReportController) location() *time.Location {
	if rc.Loc != nil {
		return rc.Loc
	}
	return time.UTC
}

func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	now := time.Now()
	if rc.Now != nil {
		now = rc.Now()
	}
	now = now.In(rc.location())

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	quarterStart := rc.getQuarterStart(now)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	periods := []struct {
		start, end time.Time
	}{
		{firstOfMonth, firstOfMonth.AddDate(0, 1, 0)},
		{firstOfMonth.AddDate(0, -1, 0), firstOfMonth},
		{quarterStart, quarterStart.AddDate(0, 3, 0)},
		{quarterStart.AddDate(0, -3, 0), quarterStart},
		{yearStart, yearStart.AddDate(1, 0, 0)},
		{yearStart.AddDate(-1, 0, 0), yearStart},
	}
	revenue := make([]decimal.Decimal, len(periods))
	for i, p := range periods {
		total, err := rc.getRevenue(p.start, p.end)
		if err != nil {
			respondInternalError(c, err, "Failed to get revenue")
			return
		}
		revenue[i] = total
	}

	topServices, err := rc.getTopServices(firstOfMonth, firstOfMonth.AddDate(0, 1, 0), 4)
	if err != nil {
		respondInternalError(c, err, "Failed to get top services")
		return
	}
	topClients, err := rc.getTopClients(firstOfMonth, firstOfMonth.AddDate(0, 1, 0), 4)
	if err != nil {
		respondInternalError(c, err, "Failed to get top clients")
		return
	}
	quickStats, err := rc.getQuickStatistics()
	if err != nil {
		respondInternalError(c, err, "Failed to get quick statistics")
		return
	}

	c.JSON(http.StatusOK, AnalyticsSummary{
		CurrentMonthRevenue:   revenue[0],
		MonthGrowth:           calculateGrowthPercentage(revenue[0], revenue[1]),
		CurrentQuarterRevenue: revenue[2],
		QuarterGrowth:         calculateGrowthPercentage(revenue[2], revenue[3]),
		CurrentYearRevenue:    revenue[4],
		YearGrowth:            calculateGrowthPercentage(revenue[4], revenue[5]),
		TopServices:           topServices,
		TopClients:            topClients,
		QuickStats:            quickStats,
	})
}

// getRevenue sums COMPLETED appointments starting in [start, end).
func (rc *ReportController) getRevenue(start, end time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := config.DB.Model(&models.Appointment{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("status = ? AND date >= ? AND date < ?", models.StatusCompleted, start.UTC(), end.UTC()).
		Scan(&row).Error
	return row.Total, err
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func calculateGrowthPercentage(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	growth, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return growth
}

// getTopServices ranks services by bookings. Revenue uses the current catalog
// price because appointments only snapshot the total.
func (rc *ReportController) getTopServices(start, end time.Time, limit int) ([]ServiceSummary, error) {
	services := []ServiceSummary{}
	err := config.DB.Table("appointment_services").
		Select("services.name AS name, COUNT(*) AS count, COALESCE(SUM(services.price), 0) AS revenue").
		Joins("JOIN appointments ON appointments.id = appointment_services.appointment_id").
		Joins("JOIN services ON services.id = appointment_services.service_id").
		Where("appointments.status = ? AND appointments.date >= ? AND appointments.date < ?",
			models.StatusCompleted, start.UTC(), end.UTC()).
		Group("services.name").
		Order("count DESC, revenue DESC").
		Limit(limit).
		Scan(&services).Error
	return services, err
}

func (rc *ReportController) getTopClients(start, end time.Time, limit int) ([]ClientSummary, error) {
	clients := []ClientSummary{}
	err := config.DB.Table("appointments").
		Select("clients.name AS name, COUNT(appointments.id) AS visits, COALESCE(SUM(appointments.total_price), 0) AS spent").
		Joins("JOIN clients ON clients.id = appointments.client_id").
		Where("appointments.status = ? AND appointments.date >= ? AND appointments.date < ?",
			models.StatusCompleted, start.UTC(), end.UTC()).
		Group("clients.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&clients).Error
	return clients, err
}

func (rc *ReportController) getQuickStatistics() (QuickStatistics, error) {
	stats := QuickStatistics{AvgTicket: decimal.Zero}

	var totalClients int64
	if err := config.DB.Model(&models.Client{}).Count(&totalClients).Error; err != nil {
		return stats, err
	}
	stats.TotalClients = int(totalClients)

	var completed []models.Appointment
	if err := config.DB.Select("date", "total_price").
		Where("status = ?", models.StatusCompleted).
		Find(&completed).Error; err != nil {
		return stats, err
	}
	stats.CompletedAppointments = len(completed)
	if len(completed) == 0 {
		return stats, nil
	}

	total := decimal.Zero
	months := make(map[string]struct{})
	for _, a := range completed {
		total = total.Add(a.TotalPrice)
		months[a.Date.In(rc.location()).Format("2006-01")] = struct{}{}
	}
	stats.AvgTicket = total.Div(decimal.NewFromInt(int64(len(completed)))).Round(2)
	stats.AvgMonthlyVisits = float64(len(completed)) / float64(len(months))
	return stats, nil
}
