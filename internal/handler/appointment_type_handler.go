package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/appointment-api/internal/models"
	"github.com/noah-isme/appointment-api/internal/service"
	appErrors "github.com/noah-isme/appointment-api/pkg/errors"
	"github.com/noah-isme/appointment-api/pkg/response"
)

// AppointmentTypeHandler wires appointment type configuration to HTTP routes.
type AppointmentTypeHandler struct {
	types *service.AppointmentTypeService
}

// NewAppointmentTypeHandler constructs a new AppointmentTypeHandler.
func NewAppointmentTypeHandler(types *service.AppointmentTypeService) *AppointmentTypeHandler {
	return &AppointmentTypeHandler{types: types}
}

// List godoc
// @Summary List appointment types
// @Tags Appointment Types
// @Produce json
// @Param category query string false "Filter by category (website, custom, work_hours)"
// @Param active query bool false "Filter by active status"
// @Param staff_id query string false "Filter by declared staff member"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /appointment-types [get]
func (h *AppointmentTypeHandler) List(c *gin.Context) {
	filter := models.AppointmentTypeFilter{
		StaffID: c.Query("staff_id"),
	}
	if category := c.Query("category"); category != "" {
		val := models.AppointmentCategory(category)
		filter.Category = &val
	}
	if active := c.Query("active"); active != "" {
		switch strings.ToLower(active) {
		case "true":
			val := true
			filter.Active = &val
		case "false":
			val := false
			filter.Active = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	types, pagination, err := h.types.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, pagination)
}

// Get godoc
// @Summary Get appointment type detail
// @Tags Appointment Types
// @Produce json
// @Param id path string true "Appointment type ID"
// @Success 200 {object} response.Envelope
// @Router /appointment-types/{id} [get]
func (h *AppointmentTypeHandler) Get(c *gin.Context) {
	at, err := h.types.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, at, nil)
}

// Create godoc
// @Summary Create appointment type
// @Tags Appointment Types
// @Accept json
// @Produce json
// @Param payload body service.CreateAppointmentTypeRequest true "Appointment type payload"
// @Success 201 {object} response.Envelope
// @Router /appointment-types [post]
func (h *AppointmentTypeHandler) Create(c *gin.Context) {
	var req service.CreateAppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid appointment type payload"))
		return
	}
	at, err := h.types.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, at)
}

// Update godoc
// @Summary Update appointment type
// @Tags Appointment Types
// @Accept json
// @Produce json
// @Param id path string true "Appointment type ID"
// @Param payload body service.UpdateAppointmentTypeRequest true "Appointment type payload"
// @Success 200 {object} response.Envelope
// @Router /appointment-types/{id} [put]
func (h *AppointmentTypeHandler) Update(c *gin.Context) {
	var req service.UpdateAppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid appointment type payload"))
		return
	}
	at, err := h.types.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, at, nil)
}

// Delete godoc
// @Summary Delete appointment type
// @Tags Appointment Types
// @Param id path string true "Appointment type ID"
// @Success 204
// @Router /appointment-types/{id} [delete]
func (h *AppointmentTypeHandler) Delete(c *gin.Context) {
	if err := h.types.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateCustom godoc
// @Summary Create custom appointment type
// @Description Creates a custom appointment type from hand-picked slots for one staff member
// @Tags Appointment Types
// @Accept json
// @Produce json
// @Param payload body service.CreateCustomRequest true "Custom appointment payload"
// @Success 201 {object} response.Envelope
// @Router /appointment-types/custom [post]
func (h *AppointmentTypeHandler) CreateCustom(c *gin.Context) {
	var req service.CreateCustomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid custom appointment payload"))
		return
	}
	if req.StaffID == "" {
		if claims := claimsFromContext(c); claims != nil {
			req.StaffID = claims.StaffID
		}
	}
	at, err := h.types.CreateCustom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, at)
}

// SearchCreateWorkHours godoc
// @Summary Get or create a work hours appointment type
// @Description Returns the staff member's work hours appointment type, creating it on first use
// @Tags Appointment Types
// @Accept json
// @Produce json
// @Param payload body object{staff_id=string} false "Staff member (defaults to the caller)"
// @Success 200 {object} response.Envelope
// @Router /appointment-types/work-hours [post]
func (h *AppointmentTypeHandler) SearchCreateWorkHours(c *gin.Context) {
	var payload struct {
		StaffID string `json:"staff_id"`
	}
	// Body is optional: staff defaults to the authenticated caller.
	_ = c.ShouldBindJSON(&payload)
	if payload.StaffID == "" {
		if claims := claimsFromContext(c); claims != nil {
			payload.StaffID = claims.StaffID
		}
	}
	if payload.StaffID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "staff_id is required"))
		return
	}
	at, err := h.types.SearchCreateWorkHours(c.Request.Context(), payload.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, at, nil)
}
