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

const minPasswordLength = 6

type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type CreateUserInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func emailTaken(email string, exclude ...interface{}) (bool, error) {
	query := config.DB.Model(&models.User{}).Where("email = ?", email)
	if len(exclude) > 0 {
		query = query.Where("id <> ?", exclude[0])
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		taken, err := emailTaken(email, user.ID)
		if err != nil {
			respondInternalError(c, err, "Database error")
			return
		}
		if taken {
			utils.RespondWithError(c, http.StatusConflict, "Email already registered")
			return
		}
		updates["email"] = email
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
			respondInternalError(c, err, "Failed to update profile")
			return
		}
	}

	c.JSON(http.StatusOK, userResponse(user))
}

func ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if len(input.NewPassword) < minPasswordLength {
		utils.RespondWithError(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}
	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		respondInternalError(c, err, "Failed to hash password")
		return
	}
	if err := config.DB.Model(&user).Update("password", hashed).Error; err != nil {
		respondInternalError(c, err, "Failed to update password")
		return
	}

	c.Status(http.StatusNoContent)
}

func GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("name ASC").Find(&users).Error; err != nil {
		respondInternalError(c, err, "Failed to retrieve users")
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

func CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if len(input.Password) < minPasswordLength {
		utils.RespondWithError(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	taken, err := emailTaken(email)
	if err != nil {
		respondInternalError(c, err, "Database error")
		return
	}
	if taken {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	}

	// Password is hashed in BeforeCreate.
	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: input.Password,
		Active:   true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusConflict, "Email already registered")
			return
		}
		respondInternalError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, userResponse(user))
}

// ToggleUserActive flips the active flag of another user.
func ToggleUserActive(c *gin.Context) {
	currentID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if id == currentID {
		utils.RespondWithError(c, http.StatusBadRequest, "You cannot deactivate your own account")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "User not found")
		} else {
			respondInternalError(c, err, "Database error")
		}
		return
	}

	if err := config.DB.Model(&user).Update("active", !user.Active).Error; err != nil {
		respondInternalError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}
