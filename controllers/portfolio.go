package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studio-backend/config"
	"studio-backend/models"
	"studio-backend/utils"
)

type CreatePortfolioItemInput struct {
	Title       string  `json:"title" binding:"required"`
	CategoryID  string  `json:"categoryId" binding:"required"`
	ImageURL    string  `json:"imageUrl" binding:"required"`
	Description *string `json:"description"`
	Order       int     `json:"order"`
}

type UpdatePortfolioItemInput struct {
	Title       *string `json:"title"`
	CategoryID  *string `json:"categoryId"`
	ImageURL    *string `json:"imageUrl"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	Active      *bool   `json:"active"`
}

// Highlight is one "story" on the landing page: an active category and its
// active items in display order.
type Highlight struct {
	models.Category
	Items []models.PortfolioItem `json:"items"`
}

func (cc *CatalogController) GetPortfolio(c *gin.Context) {
	items := []models.PortfolioItem{}
	if err := config.DB.Preload("Category").
		Where("active = ?", true).
		Order("sort_order ASC").
		Find(&items).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve portfolio")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (cc *CatalogController) GetAllPortfolio(c *gin.Context) {
	items := []models.PortfolioItem{}
	if err := config.DB.Preload("Category").Order("sort_order ASC").Find(&items).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve portfolio")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetHighlights groups active items under their active categories. Categories
// without items are left out.
func (cc *CatalogController) GetHighlights(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Where("active = ?", true).Order("sort_order ASC").Find(&categories).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve categories")
		return
	}

	var items []models.PortfolioItem
	if err := config.DB.Where("active = ?", true).Order("sort_order ASC").Find(&items).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve portfolio")
		return
	}

	byCategory := make(map[uuid.UUID][]models.PortfolioItem)
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}

	highlights := []Highlight{}
	for _, cat := range categories {
		if group := byCategory[cat.ID]; len(group) > 0 {
			highlights = append(highlights, Highlight{Category: cat, Items: group})
		}
	}
	c.JSON(http.StatusOK, highlights)
}

func (cc *CatalogController) categoryExists(id uuid.UUID) (bool, error) {
	var count int64
	err := config.DB.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (cc *CatalogController) CreatePortfolioItem(c *gin.Context) {
	var input CreatePortfolioItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	categoryID, err := uuid.Parse(input.CategoryID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}
	exists, err := cc.categoryExists(categoryID)
	if err != nil {
		respondInternalError(c, err, "Database error")
		return
	}
	if !exists {
		utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		return
	}

	item := models.PortfolioItem{
		Title:       strings.TrimSpace(input.Title),
		CategoryID:  categoryID,
		ImageURL:    input.ImageURL,
		Description: input.Description,
		Order:       input.Order,
		Active:      true,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		respondInternalError(c, err, "Failed to create portfolio item")
		return
	}

	cc.invalidate(c, "/portfolio")
	c.JSON(http.StatusCreated, item)
}

func (cc *CatalogController) UpdatePortfolioItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdatePortfolioItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var item models.PortfolioItem
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Portfolio item not found")
		} else {
			respondInternalError(c, err, "Database error")
		}
		return
	}

	if input.CategoryID != nil {
		categoryID, err := uuid.Parse(*input.CategoryID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
			return
		}
		exists, err := cc.categoryExists(categoryID)
		if err != nil {
			respondInternalError(c, err, "Database error")
			return
		}
		if !exists {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
			return
		}
		item.CategoryID = categoryID
	}
	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.ImageURL != nil {
		item.ImageURL = *input.ImageURL
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Order != nil {
		item.Order = *input.Order
	}
	if input.Active != nil {
		item.Active = *input.Active
	}

	if err := config.DB.Omit("Category").Save(&item).Error; err != nil {
		respondInternalError(c, err, "Failed to update portfolio item")
		return
	}

	cc.invalidate(c, "/portfolio")
	c.JSON(http.StatusOK, item)
}

func (cc *CatalogController) DeletePortfolioItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := config.DB.Delete(&models.PortfolioItem{}, "id = ?", id)
	if result.Error != nil {
		respondInternalError(c, result.Error, "Failed to delete portfolio item")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Portfolio item not found")
		return
	}

	cc.invalidate(c, "/portfolio")
	c.Status(http.StatusNoContent)
}
