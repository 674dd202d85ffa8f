package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudioSettings is a single row holding the public contact details.
type StudioSettings struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	WhatsApp     string    `gorm:"column:whatsapp" json:"whatsapp"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	OpeningHours string    `gorm:"type:text" json:"openingHours"`
	InstagramURL string    `json:"instagramUrl"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *StudioSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
