package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment stores the booked window and the price snapshot taken when it
// was created. EndDate and TotalPrice are never recomputed from the catalog.
type Appointment struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Date       time.Time         `gorm:"not null;index" json:"date"`
	EndDate    time.Time         `gorm:"not null" json:"endDate"`
	Status     AppointmentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	TotalPrice decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	Notes      *string           `gorm:"type:text" json:"notes"`

	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	Client   *Client   `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"client,omitempty"`
	Services []Service `gorm:"many2many:appointment_services" json:"services"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	return
}

// AppointmentService is the join row between an appointment and one of its
// services. It has no identity of its own and is only reachable through
// Appointment.Services.
type AppointmentService struct {
	AppointmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServiceID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt     time.Time

	Appointment *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Service     *Service     `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
