package handlers

import (
	"net/http"

	"astraguru/models"
	"astraguru/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ListGurusHandler returns the bookable gurus.
func (hb *HandlerBundle) ListGurusHandler(c *gin.Context) {
	userID := currentUserID(c)
	gurus, err := hb.Gurus.ListGurus(c.Request.Context())
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "gurus": gurus})
}

// StartFlowHandler opens a new booking flow.
func (hb *HandlerBundle) StartFlowHandler(c *gin.Context) {
	userID := currentUserID(c)
	flow, err := hb.Booking.StartFlow(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flow": flow})
}

type selectGuruRequest struct {
	GuruID string `json:"guruId" binding:"required"`
}

// SelectGuruHandler pins the guru and returns their consultation types.
func (hb *HandlerBundle) SelectGuruHandler(c *gin.Context) {
	userID := currentUserID(c)
	flowID := c.Param("flowID")

	var req selectGuruRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid guru selection", err.Error())
		return
	}

	flow, types, err := hb.Booking.SelectGuru(c.Request.Context(), flowID, req.GuruID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flow": flow, "consultationTypes": types})
}

type selectConsultationRequest struct {
	ConsultationTypeID string `json:"consultationTypeId" binding:"required"`
}

// SelectConsultationHandler pins the consultation type.
func (hb *HandlerBundle) SelectConsultationHandler(c *gin.Context) {
	userID := currentUserID(c)
	flowID := c.Param("flowID")

	var req selectConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid consultation selection", err.Error())
		return
	}

	flow, err := hb.Booking.SelectConsultation(c.Request.Context(), flowID, req.ConsultationTypeID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flow": flow})
}

type selectDateRequest struct {
	Date string `json:"date" binding:"required"`
}

// SelectDateHandler pins the date and returns the guru's open slots.
func (hb *HandlerBundle) SelectDateHandler(c *gin.Context) {
	userID := currentUserID(c)
	flowID := c.Param("flowID")

	var req selectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date selection", err.Error())
		return
	}

	flow, slots, err := hb.Booking.SelectDate(c.Request.Context(), flowID, req.Date)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flow": flow, "slots": slots})
}

// SelectSlotHandler pins a slot after the local duration-fit check.
func (hb *HandlerBundle) SelectSlotHandler(c *gin.Context) {
	userID := currentUserID(c)
	flowID := c.Param("flowID")

	var slot models.TimeSlot
	if err := c.ShouldBindJSON(&slot); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid slot selection", err.Error())
		return
	}
	if err := validate.Struct(slot); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid slot selection", err.Error())
		return
	}

	flow, err := hb.Booking.SelectSlot(c.Request.Context(), flowID, slot)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flow": flow})
}

// ConfirmBookingHandler submits the booking.
func (hb *HandlerBundle) ConfirmBookingHandler(c *gin.Context) {
	userID := currentUserID(c)
	flowID := c.Param("flowID")

	booking, err := hb.Booking.Confirm(c.Request.Context(), flowID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBookingHandler cancels a confirmed booking.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	userID := currentUserID(c)
	bookingID := c.Param("bookingID")

	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid cancellation payload", err.Error())
		return
	}

	refunded, err := hb.Booking.Cancel(c.Request.Context(), userID, bookingID, req.Reason)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "creditsRefunded": refunded})
}

// BookingHistoryHandler returns the locally journaled bookings.
func (hb *HandlerBundle) BookingHistoryHandler(c *gin.Context) {
	userID := currentUserID(c)
	bookings, err := hb.Journal.ListBookings(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}
