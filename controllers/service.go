// controllers/service.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"studio-backend/config"
	"studio-backend/models"
	"studio-backend/utils"
)

// CatalogController serves the public catalog (services, categories,
// portfolio, studio settings) and its admin writes. Every write drops the
// cached public responses it affects.
type CatalogController struct {
	Cache *utils.ResponseCache
}

func (cc *CatalogController) invalidate(c *gin.Context, prefixes ...string) {
	cc.Cache.Invalidate(c.Request.Context(), prefixes...)
}

type CreateServiceInput struct {
	Name        string           `json:"name" binding:"required"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	DurationMin int              `json:"durationMin" binding:"required,min=1"`
	ImageURL    *string          `json:"imageUrl"`
}

type UpdateServiceInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	DurationMin *int             `json:"durationMin" binding:"omitempty,min=1"`
	Active      *bool            `json:"active"`
	ImageURL    *string          `json:"imageUrl"`
}

// GetServices lists the active services by name.
func (cc *CatalogController) GetServices(c *gin.Context) {
	services := []models.Service{}
	if err := config.DB.Where("active = ?", true).Order("name ASC").Find(&services).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve services")
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetAllServices includes retired services.
func (cc *CatalogController) GetAllServices(c *gin.Context) {
	services := []models.Service{}
	if err := config.DB.Order("name ASC").Find(&services).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve services")
		return
	}
	c.JSON(http.StatusOK, services)
}

func (cc *CatalogController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	service := models.Service{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price.Round(2),
		DurationMin: input.DurationMin,
		Active:      true,
		ImageURL:    input.ImageURL,
	}
	if err := config.DB.Create(&service).Error; err != nil {
		respondInternalError(c, err, "Failed to create service")
		return
	}

	cc.invalidate(c, "/services")
	c.JSON(http.StatusCreated, service)
}

func (cc *CatalogController) UpdateService(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			respondInternalError(c, err, "Database error")
		}
		return
	}

	if input.Name != nil {
		service.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		service.Description = input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Price cannot be negative")
			return
		}
		service.Price = input.Price.Round(2)
	}
	if input.DurationMin != nil {
		service.DurationMin = *input.DurationMin
	}
	if input.Active != nil {
		service.Active = *input.Active
	}
	if input.ImageURL != nil {
		service.ImageURL = input.ImageURL
	}

	if err := config.DB.Save(&service).Error; err != nil {
		respondInternalError(c, err, "Failed to update service")
		return
	}

	cc.invalidate(c, "/services")
	c.JSON(http.StatusOK, service)
}

// DeleteService retires the service. Past appointments keep referencing it.
func (cc *CatalogController) DeleteService(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := config.DB.Model(&models.Service{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		respondInternalError(c, result.Error, "Failed to delete service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	cc.invalidate(c, "/services")
	c.Status(http.StatusNoContent)
}
