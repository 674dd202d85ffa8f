package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"studio-backend/config"
	"studio-backend/models"
	"studio-backend/utils"
)

type UpdateStudioInput struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone"`
	WhatsApp     *string `json:"whatsapp"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	OpeningHours *string `json:"openingHours"`
	InstagramURL *string `json:"instagramUrl"`
}

// GetStudio returns the single settings row, or an empty object before the
// studio has been configured.
func (cc *CatalogController) GetStudio(c *gin.Context) {
	var settings models.StudioSettings
	err := config.DB.Order("created_at ASC").First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	if err != nil {
		respondInternalError(c, err, "Failed to retrieve studio settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateStudio creates the settings row on first use.
func (cc *CatalogController) UpdateStudio(c *gin.Context) {
	var input UpdateStudioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var settings models.StudioSettings
	err := config.DB.Order("created_at ASC").First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, err, "Database error")
		return
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&settings.Name, input.Name)
	apply(&settings.Email, input.Email)
	apply(&settings.Phone, input.Phone)
	apply(&settings.WhatsApp, input.WhatsApp)
	apply(&settings.Address, input.Address)
	apply(&settings.City, input.City)
	apply(&settings.OpeningHours, input.OpeningHours)
	apply(&settings.InstagramURL, input.InstagramURL)

	if err := config.DB.Save(&settings).Error; err != nil {
		respondInternalError(c, err, "Failed to update studio settings")
		return
	}

	cc.invalidate(c, "/studio")
	c.JSON(http.StatusOK, settings)
}
