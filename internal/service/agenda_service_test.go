package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/appointment-api/internal/models"
)

type fakeMeetingLister struct {
	meetings []models.Meeting
}

func (f *fakeMeetingLister) ListForStaff(ctx context.Context, staffID string, from, to time.Time) ([]models.Meeting, error) {
	return f.meetings, nil
}

func newAgendaService(meetings []models.Meeting) *AgendaService {
	staff := &mockStaffReader{items: map[string]*models.StaffMember{
		"staff-1": {ID: "staff-1", FullName: "Alice Martin", Email: "alice@example.com", Timezone: "Europe/Brussels", Active: true},
	}}
	typeID := "apt-1"
	types := &fakeTypeRepo{types: map[string]*models.AppointmentType{
		typeID: {ID: typeID, Name: "Consultation"},
	}}
	svc := NewAgendaService(staff, &fakeMeetingLister{meetings: meetings}, types, 30, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestAgendaExportCSV(t *testing.T) {
	typeID := "apt-1"
	svc := newAgendaService([]models.Meeting{
		{
			ID:                "m1",
			AppointmentTypeID: &typeID,
			StaffID:           "staff-1",
			CustomerName:      "Jane Visitor",
			CustomerEmail:     "jane@example.com",
			StartAt:           time.Date(2026, 9, 7, 7, 0, 0, 0, time.UTC),
			EndAt:             time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC),
		},
	})

	result, err := svc.Export(context.Background(), "staff-1", AgendaCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "agenda_alice_martin_"))

	body := string(result.Payload)
	assert.Contains(t, body, "Jane Visitor")
	assert.Contains(t, body, "Consultation")
	// 07:00 UTC rendered in the staff member's Brussels timezone.
	assert.Contains(t, body, "09:00 - 10:00")
}

func TestAgendaExportPDF(t *testing.T) {
	svc := newAgendaService(nil)

	result, err := svc.Export(context.Background(), "staff-1", AgendaPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.Payload)
}

func TestAgendaExportUnknownFormat(t *testing.T) {
	svc := newAgendaService(nil)

	_, err := svc.Export(context.Background(), "staff-1", AgendaFormat("xml"))
	require.Error(t, err)
}

func TestAgendaExportUnknownStaff(t *testing.T) {
	svc := newAgendaService(nil)

	_, err := svc.Export(context.Background(), "missing", AgendaCSV)
	require.Error(t, err)
}
