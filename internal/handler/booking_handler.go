package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/appointment-api/internal/models"
	"github.com/noah-isme/appointment-api/internal/service"
	appErrors "github.com/noah-isme/appointment-api/pkg/errors"
	"github.com/noah-isme/appointment-api/pkg/response"
)

type bookingService interface {
	Book(ctx context.Context, req service.BookSlotRequest) (*models.Meeting, error)
}

// BookingHandler wires slot booking to HTTP routes.
type BookingHandler struct {
	bookings bookingService
}

// NewBookingHandler constructs a new BookingHandler.
func NewBookingHandler(bookings bookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Book godoc
// @Summary Book a slot
// @Description Books a slot of an appointment type, re-validating availability at booking time
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body service.BookSlotRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Book(c *gin.Context) {
	var req service.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}
	meeting, err := h.bookings.Book(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, meeting)
}
