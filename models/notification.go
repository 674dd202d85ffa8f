package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TemplateConfirmation = "confirmation"
	TemplateReminder     = "reminder"
)

// DefaultTemplates is used when no active template of a kind is stored.
var DefaultTemplates = map[string]string{
	TemplateConfirmation: "Olá [ClientName], seu horário de [Services] está confirmado para [Date] às [Time].",
	TemplateReminder:     "Olá [ClientName], lembrete: você tem [Services] amanhã, [Date] às [Time].",
}

// MessageTemplate holds the text sent to clients. Placeholders:
// [ClientName], [Date], [Time], [Services].
type MessageTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"kind"`
	Message  string    `gorm:"type:text;not null" json:"message"`
	IsActive bool      `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NotificationLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointmentId"`
	ClientID      uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	Kind          string    `gorm:"type:varchar(20)" json:"kind"`    // confirmation, reminder
	Channel       string    `gorm:"type:varchar(20)" json:"channel"` // sms, whatsapp, email
	Message       string    `gorm:"type:text" json:"message"`
	Status        string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage  string    `gorm:"type:text" json:"errorMessage"`
	SentAt        time.Time `json:"sentAt"`
}

func (t *MessageTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}
