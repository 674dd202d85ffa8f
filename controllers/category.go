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

const defaultCategoryOrder = 5

type CreateCategoryInput struct {
	Name          string  `json:"name" binding:"required"`
	Order         *int    `json:"order"`
	CoverImageURL *string `json:"coverImageUrl"`
}

type UpdateCategoryInput struct {
	Name          *string `json:"name"`
	Order         *int    `json:"order"`
	Active        *bool   `json:"active"`
	CoverImageURL *string `json:"coverImageUrl"`
}

type ReorderInput struct {
	Items []struct {
		ID    string `json:"id" binding:"required"`
		Order int    `json:"order"`
	} `json:"items" binding:"required,dive"`
}

func (cc *CatalogController) GetCategories(c *gin.Context) {
	categories := []models.Category{}
	if err := config.DB.Where("active = ?", true).Order("sort_order ASC").Find(&categories).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (cc *CatalogController) GetAllCategories(c *gin.Context) {
	categories := []models.Category{}
	if err := config.DB.Order("sort_order ASC").Find(&categories).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	category := models.Category{
		Name:          strings.TrimSpace(input.Name),
		Order:         defaultCategoryOrder,
		Active:        true,
		CoverImageURL: input.CoverImageURL,
	}
	if input.Order != nil {
		category.Order = *input.Order
	}
	if err := config.DB.Create(&category).Error; err != nil {
		respondInternalError(c, err, "Failed to create category")
		return
	}

	cc.invalidate(c, "/categories", "/portfolio")
	c.JSON(http.StatusCreated, category)
}

func (cc *CatalogController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var category models.Category
	if err := config.DB.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			respondInternalError(c, err, "Database error")
		}
		return
	}

	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Order != nil {
		category.Order = *input.Order
	}
	if input.Active != nil {
		category.Active = *input.Active
	}
	// An omitted or null cover clears it.
	category.CoverImageURL = input.CoverImageURL

	if err := config.DB.Save(&category).Error; err != nil {
		respondInternalError(c, err, "Failed to update category")
		return
	}

	cc.invalidate(c, "/categories", "/portfolio")
	c.JSON(http.StatusOK, category)
}

// ReorderCategories applies every {id, order} pair or none of them.
func (cc *CatalogController) ReorderCategories(c *gin.Context) {
	var input ReorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range input.Items {
			id, err := uuid.Parse(item.ID)
			if err != nil {
				return gorm.ErrRecordNotFound
			}
			result := tx.Model(&models.Category{}).Where("id = ?", id).Update("sort_order", item.Order)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			respondInternalError(c, err, "Failed to reorder categories")
		}
		return
	}

	cc.invalidate(c, "/categories", "/portfolio")
	c.Status(http.StatusOK)
}

// DeleteCategory refuses while portfolio items still point at the category.
func (cc *CatalogController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var items int64
	if err := config.DB.Model(&models.PortfolioItem{}).Where("category_id = ?", id).Count(&items).Error; err != nil {
		respondInternalError(c, err, "Database error")
		return
	}
	if items > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Category still has portfolio items")
		return
	}

	result := config.DB.Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		respondInternalError(c, result.Error, "Failed to delete category")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		return
	}

	cc.invalidate(c, "/categories", "/portfolio")
	c.Status(http.StatusNoContent)
}
