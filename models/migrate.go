package models

import "gorm.io/gorm"

// Setup registers the explicit join model behind Appointment.Services. It must
// run on every fresh *gorm.DB before appointments are read or written.
func Setup(db *gorm.DB) error {
	return db.SetupJoinTable(&Appointment{}, "Services", &AppointmentService{})
}

func AutoMigrate(db *gorm.DB) error {
	if err := Setup(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		&User{},
		&Client{},
		&Service{},
		&Appointment{},
		&AppointmentService{},
		&StudioSettings{},
		&Category{},
		&PortfolioItem{},
		&MessageTemplate{},
		&NotificationLog{},
	)
}
