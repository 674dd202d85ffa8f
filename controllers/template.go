// controllers/template.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"studio-backend/config"
	"studio-backend/models"
	"studio-backend/services"
	"studio-backend/utils"
)

type CreateTemplateInput struct {
	Kind    string `json:"kind" binding:"required,oneof=confirmation reminder"`
	Message string `json:"message" binding:"required"`
}

type UpdateTemplateInput struct {
	Message  *string `json:"message"`
	IsActive *bool   `json:"isActive"`
}

func GetTemplates(c *gin.Context) {
	templates := []models.MessageTemplate{}
	if err := config.DB.Order("kind ASC").Find(&templates).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

// CreateTemplate allows one template per kind.
func CreateTemplate(c *gin.Context) {
	var input CreateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.MessageTemplate
	if err := config.DB.Where("kind = ?", input.Kind).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Template for this kind already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, err, "Database error")
		return
	}

	template := models.MessageTemplate{
		Kind:     input.Kind,
		Message:  input.Message,
		IsActive: true,
	}
	if err := config.DB.Create(&template).Error; err != nil {
		respondInternalError(c, err, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

func UpdateTemplate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var template models.MessageTemplate
	if err := config.DB.First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			respondInternalError(c, err, "Database error")
		}
		return
	}

	if input.Message != nil {
		template.Message = *input.Message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&template).Error; err != nil {
		respondInternalError(c, err, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}

func DeleteTemplate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := config.DB.Delete(&models.MessageTemplate{}, "id = ?", id)
	if result.Error != nil {
		respondInternalError(c, result.Error, "Failed to delete template")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		return
	}

	c.Status(http.StatusNoContent)
}

type ReminderController struct {
	Scheduler *services.ReminderScheduler
}

// RunReminders sends tomorrow's reminders now instead of waiting for the schedule.
func (rc *ReminderController) RunReminders(c *gin.Context) {
	sent, err := rc.Scheduler.SendDailyReminders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

// GetNotificationLogs lists delivery attempts, newest first. ?appointmentId= narrows the list.
func GetNotificationLogs(c *gin.Context) {
	query := config.DB.Order("sent_at DESC").Limit(200)
	if id := c.Query("appointmentId"); id != "" {
		query = query.Where("appointment_id = ?", id)
	}

	logs := []models.NotificationLog{}
	if err := query.Find(&logs).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve notification logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}
