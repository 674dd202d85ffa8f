package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"studio-backend/config"
	"studio-backend/models"
	"studio-backend/utils"
)

type CreateClientInput struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone" binding:"required"`
	Email *string `json:"email" binding:"omitempty,email"`
	Notes *string `json:"notes"`
}

type UpdateClientInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email" binding:"omitempty,email"`
	Notes *string `json:"notes"`
}

func phoneRegion() string {
	if config.App != nil && config.App.PhoneRegion != "" {
		return config.App.PhoneRegion
	}
	return "BR"
}

// GetClients lists clients by name. ?search= filters on name or phone.
func GetClients(c *gin.Context) {
	query := config.DB.Order("name ASC")
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		if digits := utils.DigitsOnly(search); digits != "" {
			query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+digits+"%")
		} else {
			query = query.Where("LOWER(name) LIKE ?", like)
		}
	}

	clients := []models.Client{}
	if err := query.Find(&clients).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient returns the client with its appointment history, newest first.
func GetClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			respondInternalError(c, err, "Database error")
		}
		return
	}

	appointments := []models.Appointment{}
	if err := config.DB.Preload("Services").
		Where("client_id = ?", client.ID).
		Order("date DESC").
		Find(&appointments).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           client.ID,
		"name":         client.Name,
		"phone":        client.Phone,
		"email":        client.Email,
		"notes":        client.Notes,
		"createdAt":    client.CreatedAt,
		"updatedAt":    client.UpdatedAt,
		"appointments": appointments,
	})
}

// CreateClient registers a client keyed by the E.164 form of the phone.
// A previously deleted client with the same phone is restored.
func CreateClient(c *gin.Context) {
	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	phone, err := utils.NormalizePhone(input.Phone, phoneRegion())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var existing models.Client
	err = config.DB.Unscoped().Where("phone = ?", phone).First(&existing).Error
	switch {
	case err == nil && !existing.DeletedAt.Valid:
		utils.RespondWithError(c, http.StatusConflict, "Client with this phone number already exists")
		return
	case err == nil:
		updates := map[string]interface{}{
			"name":       strings.TrimSpace(input.Name),
			"email":      input.Email,
			"notes":      input.Notes,
			"deleted_at": nil,
		}
		if err := config.DB.Unscoped().Model(&existing).Updates(updates).Error; err != nil {
			respondInternalError(c, err, "Failed to restore client")
			return
		}
		if err := config.DB.First(&existing, "id = ?", existing.ID).Error; err != nil {
			respondInternalError(c, err, "Database error")
			return
		}
		c.JSON(http.StatusCreated, existing)
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		respondInternalError(c, err, "Database error")
		return
	}

	client := models.Client{
		Name:  strings.TrimSpace(input.Name),
		Phone: phone,
		Email: input.Email,
		Notes: input.Notes,
	}
	if err := config.DB.Create(&client).Error; err != nil {
		if isUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusConflict, "Client with this phone number already exists")
			return
		}
		respondInternalError(c, err, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

func UpdateClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			respondInternalError(c, err, "Database error")
		}
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		phone, err := utils.NormalizePhone(*input.Phone, phoneRegion())
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		if phone != client.Phone {
			var count int64
			if err := config.DB.Unscoped().Model(&models.Client{}).
				Where("phone = ? AND id <> ?", phone, client.ID).
				Count(&count).Error; err != nil {
				respondInternalError(c, err, "Database error")
				return
			}
			if count > 0 {
				utils.RespondWithError(c, http.StatusConflict, "Client with this phone number already exists")
				return
			}
		}
		updates["phone"] = phone
	}
	if input.Email != nil {
		updates["email"] = input.Email
	}
	if input.Notes != nil {
		updates["notes"] = input.Notes
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&client).Updates(updates).Error; err != nil {
			respondInternalError(c, err, "Failed to update client")
			return
		}
	}
	if err := config.DB.First(&client, "id = ?", id).Error; err != nil {
		respondInternalError(c, err, "Database error")
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient soft-deletes the client so existing appointments keep their reference.
func DeleteClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := config.DB.Delete(&models.Client{}, "id = ?", id)
	if result.Error != nil {
		respondInternalError(c, result.Error, "Failed to delete client")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}

	c.Status(http.StatusNoContent)
}
