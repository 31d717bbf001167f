package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/appointment-api/internal/models"
	"github.com/noah-isme/appointment-api/internal/service"
	appErrors "github.com/noah-isme/appointment-api/pkg/errors"
)

type bookingServiceMock struct {
	resp    *models.Meeting
	err     error
	lastReq service.BookSlotRequest
	called  bool
}

func (m *bookingServiceMock) Book(ctx context.Context, req service.BookSlotRequest) (*models.Meeting, error) {
	m.called = true
	m.lastReq = req
	return m.resp, m.err
}

func TestBookingHandlerBook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{
		resp: &models.Meeting{ID: "m1", StaffID: "staff-1"},
	}
	handler := NewBookingHandler(mockSvc)

	payload, _ := json.Marshal(service.BookSlotRequest{
		AppointmentTypeID: "apt-1",
		CustomerName:      "Jane Visitor",
		CustomerEmail:     "jane@example.com",
		StartAt:           time.Date(2026, 9, 7, 7, 0, 0, 0, time.UTC),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Book(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.called)
	assert.Equal(t, "apt-1", mockSvc.lastReq.AppointmentTypeID)
	assert.Contains(t, w.Body.String(), `"id":"m1"`)
}

func TestBookingHandlerBookInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &bookingServiceMock{}
	handler := NewBookingHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(`{"appointment_type_id":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Book(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.called)
}

func TestBookingHandlerBookSlotTaken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(&bookingServiceMock{err: appErrors.ErrSlotUnavailable})

	payload, _ := json.Marshal(service.BookSlotRequest{
		AppointmentTypeID: "apt-1",
		CustomerName:      "Jane Visitor",
		CustomerEmail:     "jane@example.com",
		StartAt:           time.Date(2026, 9, 7, 7, 0, 0, 0, time.UTC),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Book(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SLOT_UNAVAILABLE")
}
