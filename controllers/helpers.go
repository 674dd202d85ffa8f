package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studio-backend/services"
	"studio-backend/utils"
)

// respondServiceError maps service sentinel errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		utils.RespondWithError(c, http.StatusBadRequest, msg)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, msg)
	case errors.Is(err, services.ErrSlotTaken), errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, msg)
	default:
		respondInternalError(c, err, "Internal server error")
	}
}

// respondInternalError logs err and answers 500 with msg only.
func respondInternalError(c *gin.Context, err error, msg string) {
	slog.Error("request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.String("response", msg),
		slog.Any("error", err))
	utils.RespondWithError(c, http.StatusInternalServerError, msg)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID format")
		return uuid.Nil, false
	}
	return id, true
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
