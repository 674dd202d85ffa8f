package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studio-backend/models"
	"studio-backend/services"
	"studio-backend/utils"
)

type AppointmentController struct {
	Booking *services.BookingService
}

type CreateAppointmentInput struct {
	Date       string   `json:"date" binding:"required"`
	ClientID   string   `json:"clientId" binding:"required"`
	ServiceIDs []string `json:"serviceIds" binding:"required,min=1"`
	Notes      *string  `json:"notes"`
}

type UpdateAppointmentInput struct {
	Status *models.AppointmentStatus `json:"status"`
	Notes  *string                   `json:"notes"`
}

// ListAppointments filters on ?startDate=&endDate= when either is given, else
// on ?date=YYYY-MM-DD for a single day. Timestamps bound the range exactly; a
// bare date covers its whole day. Without filters it lists everything.
func (ac *AppointmentController) ListAppointments(c *gin.Context) {
	loc := ac.Booking.Location()
	var r services.Range

	start, end := c.Query("startDate"), c.Query("endDate")
	switch {
	case start != "" || end != "":
		if start != "" {
			from, err := utils.ParseRangeBound(start, loc, false)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid startDate")
				return
			}
			r.From = &from
		}
		if end != "" {
			to, err := utils.ParseRangeBound(end, loc, true)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid endDate")
				return
			}
			r.To = &to
		}
	case c.Query("date") != "":
		day, err := utils.ParseDay(c.Query("date"), loc)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date")
			return
		}
		r = services.DayRange(day, loc)
	}

	appts, err := ac.Booking.List(c.Request.Context(), r)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	appt, err := ac.Booking.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date, err := utils.ParseTimestamp(input.Date, ac.Booking.Location())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date")
		return
	}
	clientID, err := uuid.Parse(input.ClientID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}
	serviceIDs := make([]uuid.UUID, 0, len(input.ServiceIDs))
	for _, raw := range input.ServiceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
			return
		}
		serviceIDs = append(serviceIDs, id)
	}

	appt, err := ac.Booking.Create(c.Request.Context(), services.BookingRequest{
		Date:       date,
		ClientID:   clientID,
		ServiceIDs: serviceIDs,
		Notes:      input.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (ac *AppointmentController) UpdateAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ac.Booking.UpdateStatus(c.Request.Context(), id, services.StatusUpdate{
		Status: input.Status,
		Notes:  input.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ac.Booking.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
