package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/appointment-api/internal/models"
	appErrors "github.com/noah-isme/appointment-api/pkg/errors"
	"github.com/noah-isme/appointment-api/pkg/response"
)

type slotServiceMock struct {
	resp         []models.CalendarMonth
	err          error
	lastTypeID   string
	lastTimezone string
	lastStaffID  string
}

func (m *slotServiceMock) Slots(ctx context.Context, typeID, timezone, staffID string) ([]models.CalendarMonth, error) {
	m.lastTypeID = typeID
	m.lastTimezone = timezone
	m.lastStaffID = staffID
	return m.resp, m.err
}

func TestSlotHandlerGrid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &slotServiceMock{
		resp: []models.CalendarMonth{{Index: 0, Label: "September 2026", Weeks: []models.CalendarWeek{
			make(models.CalendarWeek, 7),
		}}},
	}
	handler := NewSlotHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/appointment-types/apt-1/slots?timezone=Australia/Perth&staff_id=staff-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "apt-1"}}

	handler.Grid(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "apt-1", mockSvc.lastTypeID)
	assert.Equal(t, "Australia/Perth", mockSvc.lastTimezone)
	assert.Equal(t, "staff-1", mockSvc.lastStaffID)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
	assert.Contains(t, w.Body.String(), "September 2026")
}

func TestSlotHandlerGridUnknownType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSlotHandler(&slotServiceMock{err: appErrors.ErrNotFound})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/appointment-types/missing/slots", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Grid(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSlotHandlerGridEmptyAvailability(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &slotServiceMock{resp: []models.CalendarMonth{}}
	handler := NewSlotHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/appointment-types/apt-1/slots", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "apt-1"}}

	handler.Grid(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", mockSvc.lastTimezone)
}
