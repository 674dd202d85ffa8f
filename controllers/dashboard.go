package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studio-backend/services"
)

type DashboardController struct {
	Booking *services.BookingService
	Now     func() time.Time
}

// GetDashboardStats returns the four headline counters of the admin dashboard.
func (dc *DashboardController) GetDashboardStats(c *gin.Context) {
	now := time.Now
	if dc.Now != nil {
		now = dc.Now
	}
	stats, err := dc.Booking.Stats(c.Request.Context(), now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
