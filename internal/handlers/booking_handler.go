package handlers

import (
	"net/http"

	"github.com/campushub/eventreg/internal/ledger"
	"github.com/campushub/eventreg/internal/models"
	"github.com/gin-gonic/gin"
)

func CreateBooking(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		booking, err := l.CreateBooking(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Booking confirmed successfully"))
	}
}

func ListConfirmedBookings(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := l.ListConfirmedBookings(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.CountedResponse(bookings, len(bookings)))
	}
}

func GetBooking(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := pathID(c)
		if id == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("booking ID is required"))
			return
		}

		booking, err := l.GetBooking(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, ""))
	}
}

func UpdateBooking(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := pathID(c)
		if id == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("booking ID is required"))
			return
		}

		var req models.UpdateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		booking, err := l.UpdateBooking(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking updated successfully"))
	}
}

func CancelBooking(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := pathID(c)
		if id == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("booking ID is required"))
			return
		}

		booking, err := l.CancelBooking(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking cancelled successfully"))
	}
}
