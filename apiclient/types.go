package apiclient

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Customer is a studio client as returned by the API.
type Customer struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

type Service struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	DurationMin int             `json:"durationMin"`
	Active      bool            `json:"active"`
}

type Appointment struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	EndDate    time.Time       `json:"endDate"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Notes      *string         `json:"notes"`
	ClientID   string          `json:"clientId"`
	Client     *Customer       `json:"client,omitempty"`
	Services   []Service       `json:"services"`
}

type CreateAppointmentRequest struct {
	Date       time.Time `json:"date"`
	ClientID   string    `json:"clientId"`
	ServiceIDs []string  `json:"serviceIds"`
	Notes      *string   `json:"notes,omitempty"`
}

type UpdateAppointmentRequest struct {
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

type DashboardStats struct {
	TotalAppointments int64           `json:"totalAppointments"`
	TotalClients      int64           `json:"totalClients"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AppointmentsToday int64           `json:"appointmentsToday"`
}

// Range filters ListAppointments. Set Date for one day, or StartDate and
// EndDate for a span. A YYYY-MM-DD bound covers its whole day, an RFC 3339
// bound is exact. StartDate/EndDate win over Date. The zero Range lists everything.
type Range struct {
	Date      string `url:"date,omitempty"`
	StartDate string `url:"startDate,omitempty"`
	EndDate   string `url:"endDate,omitempty"`
}

const dayLayout = "2006-01-02"

func Day(t time.Time) Range {
	return Range{Date: t.Format(dayLayout)}
}

func Between(start, end time.Time) Range {
	return Range{StartDate: start.Format(dayLayout), EndDate: end.Format(dayLayout)}
}

func StringPtr(s string) *string { return &s }
