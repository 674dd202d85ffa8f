package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"studio-backend/config"
	"studio-backend/models"
	"studio-backend/utils"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userResponse(user models.User) gin.H {
	return gin.H{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"active": user.Active,
	}
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			respondInternalError(c, err, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.Active {
		utils.RespondWithError(c, http.StatusForbidden, "User is inactive")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Email)
	if err != nil {
		respondInternalError(c, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

func Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

// VerifyActiveUser rejects tokens whose user was removed or deactivated
// after the token was issued.
func VerifyActiveUser(ctx context.Context, userID string) error {
	var user models.User
	if err := config.DB.WithContext(ctx).Select("id", "active").First(&user, "id = ?", userID).Error; err != nil {
		return errors.New("User not found")
	}
	if !user.Active {
		return errors.New("User is inactive")
	}
	return nil
}
