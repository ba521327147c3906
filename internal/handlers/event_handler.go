package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/campushub/eventreg/internal/ledger"
	"github.com/campushub/eventreg/internal/models"
	"github.com/gin-gonic/gin"
)

// statusFor maps ledger errors onto HTTP statuses per the error taxonomy:
// unknown ids are 404, business-rule and validation failures are 400,
// anything else is an unexpected persistence failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrEventNotFound), errors.Is(err, models.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrEventNotActive),
		errors.Is(err, models.ErrEventFull),
		errors.Is(err, models.ErrDuplicateBooking),
		errors.Is(err, models.ErrBookingNotActive):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the envelope for a failed ledger call. Unexpected
// failures are logged and, in release mode, returned without internals.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message := err.Error()
		if gin.Mode() == gin.ReleaseMode {
			message = "internal server error"
		}
		c.JSON(status, models.ErrorResponse(message))
		return
	}
	c.JSON(status, models.ErrorResponse(err.Error()))
}

func pathID(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("id"))
	return strings.Trim(id, "\"'")
}

func CreateEvent(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := l.CreateEvent(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(event, "Event created successfully"))
	}
}

func ListActiveEvents(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := l.ListActiveEvents(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.CountedResponse(events, len(events)))
	}
}

func GetEvent(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := pathID(c)
		if id == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("event ID is required"))
			return
		}

		event, err := l.GetEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func UpdateEvent(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := pathID(c)
		if id == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("event ID is required"))
			return
		}

		var req models.UpdateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := l.UpdateEvent(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event updated successfully"))
	}
}

func CancelEvent(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := pathID(c)
		if id == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("event ID is required"))
			return
		}

		event, err := l.CancelEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event cancelled successfully"))
	}
}
