package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

// Seed fills an empty database with the studio's initial catalog. Each table
// is only seeded while it is empty, so running it twice is harmless.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(&StudioSettings{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			settings := StudioSettings{
				Name:         "Júnior Lima Hair Artist",
				Email:        "juniorlimahair@gmail.com",
				Phone:        "19 99268-7759",
				WhatsApp:     "19 99268-7759",
				Address:      "Rua Lotário Novaes, 273 – Taquaral",
				City:         "Campinas – SP, 13076-150",
				OpeningHours: "Segunda-feira: Fechado\nTerça-feira: 12:00–18:00\nQuarta-feira: 12:00–18:00\nQuinta-feira: 10:00–18:00\nSexta-feira: 10:00–18:00\nSábado: 10:00–18:00\nDomingo: Fechado",
				InstagramURL: "https://www.instagram.com/juniorlimah",
			}
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&Service{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			services := []Service{
				{
					Name:        "Corte de Cabelo",
					Description: strPtr("Corte personalizado com visagismo e finalização."),
					Price:       decimal.NewFromInt(90),
					DurationMin: 45,
					Active:      true,
				},
				{
					Name:        "Barba Terapia",
					Description: strPtr("Modelagem de barba com toalha quente e hidratação."),
					Price:       decimal.NewFromInt(60),
					DurationMin: 30,
					Active:      true,
				},
				{
					Name:        "Combo Júnior Lima",
					Description: strPtr("Experiência completa: Corte + Barba + Sobrancelha."),
					Price:       decimal.NewFromInt(140),
					DurationMin: 90,
					Active:      true,
				},
			}
			if err := tx.Create(&services).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&Category{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			categories := []Category{
				{Name: "Corte", Order: 1, Active: true},
				{Name: "Barba", Order: 2, Active: true},
				{Name: "Visagismo", Order: 3, Active: true},
			}
			if err := tx.Create(&categories).Error; err != nil {
				return err
			}

			items := []PortfolioItem{
				{
					Title:      "Corte Degradê Moderno",
					CategoryID: categories[0].ID,
					ImageURL:   "https://images.unsplash.com/photo-1622286342621-4bd786c2447c?auto=format&fit=crop&q=80&w=800",
					Order:      1,
					Active:     true,
				},
				{
					Title:      "Barba Modelada",
					CategoryID: categories[1].ID,
					ImageURL:   "https://images.unsplash.com/photo-1595152772835-219674b2a8a6?auto=format&fit=crop&q=80&w=800",
					Order:      2,
					Active:     true,
				},
				{
					Title:      "Visagismo Completo",
					CategoryID: categories[2].ID,
					ImageURL:   "https://images.unsplash.com/photo-1605497788044-5a32c7078486?auto=format&fit=crop&q=80&w=800",
					Order:      3,
					Active:     true,
				},
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&MessageTemplate{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			templates := []MessageTemplate{
				{Kind: TemplateConfirmation, Message: DefaultTemplates[TemplateConfirmation], IsActive: true},
				{Kind: TemplateReminder, Message: DefaultTemplates[TemplateReminder], IsActive: true},
			}
			if err := tx.Create(&templates).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
