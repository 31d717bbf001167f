package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/appointment-api/internal/models"
	"github.com/noah-isme/appointment-api/pkg/response"
)

type slotGridService interface {
	Slots(ctx context.Context, typeID, timezone, staffID string) ([]models.CalendarMonth, error)
}

// SlotHandler exposes the computed availability grid.
type SlotHandler struct {
	slots slotGridService
}

// NewSlotHandler constructs a new SlotHandler.
func NewSlotHandler(slots slotGridService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// Grid godoc
// @Summary Get available slots
// @Description Returns the month-by-month availability grid of an appointment type rendered in the requested timezone
// @Tags Slots
// @Produce json
// @Param id path string true "Appointment type ID"
// @Param timezone query string false "IANA timezone for display (defaults to the type's own timezone)"
// @Param staff_id query string false "Restrict availability to one staff member"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointment-types/{id}/slots [get]
func (h *SlotHandler) Grid(c *gin.Context) {
	months, err := h.slots.Slots(c.Request.Context(), c.Param("id"), c.Query("timezone"), c.Query("staff_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, months, nil)
}
