package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/appointment-api/internal/models"
)

type mockStaffRepo struct {
	items map[string]*models.StaffMember
	hours map[string][]models.WorkingHours
}

func (m *mockStaffRepo) FindByID(ctx context.Context, id string) (*models.StaffMember, error) {
	if staff, ok := m.items[id]; ok {
		cp := *staff
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStaffRepo) List(ctx context.Context, filter models.StaffFilter) ([]models.StaffMember, int, error) {
	out := make([]models.StaffMember, 0, len(m.items))
	for _, staff := range m.items {
		out = append(out, *staff)
	}
	return out, len(out), nil
}

func (m *mockStaffRepo) Create(ctx context.Context, staff *models.StaffMember) error {
	if m.items == nil {
		m.items = make(map[string]*models.StaffMember)
	}
	if staff.ID == "" {
		staff.ID = "generated"
	}
	cp := *staff
	m.items[staff.ID] = &cp
	return nil
}

func (m *mockStaffRepo) Update(ctx context.Context, staff *models.StaffMember) error {
	cp := *staff
	m.items[staff.ID] = &cp
	return nil
}

func (m *mockStaffRepo) SetWorkingHours(ctx context.Context, staffID string, hours []models.WorkingHours) error {
	if m.hours == nil {
		m.hours = make(map[string][]models.WorkingHours)
	}
	m.hours[staffID] = hours
	return nil
}

func (m *mockStaffRepo) ListByStaff(ctx context.Context, staffID string) ([]models.WorkingHours, error) {
	return m.hours[staffID], nil
}

func TestStaffCreate(t *testing.T) {
	repo := &mockStaffRepo{}
	svc := NewStaffService(repo, repo, nil, validator.New(), zap.NewNop())

	staff, err := svc.Create(context.Background(), CreateStaffRequest{
		FullName: "Alice Martin",
		Email:    "alice@example.com",
		Timezone: "Europe/Brussels",
	})
	require.NoError(t, err)
	assert.True(t, staff.Active)
	assert.Len(t, repo.items, 1)
}

func TestStaffCreateUnknownTimezone(t *testing.T) {
	repo := &mockStaffRepo{}
	svc := NewStaffService(repo, repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStaffRequest{
		FullName: "Alice Martin",
		Email:    "alice@example.com",
		Timezone: "Nowhere/Here",
	})
	require.Error(t, err)
}

func TestStaffSetWorkingHours(t *testing.T) {
	repo := &mockStaffRepo{items: map[string]*models.StaffMember{
		"staff-1": {ID: "staff-1", FullName: "Alice Martin", Email: "alice@example.com", Timezone: "Europe/Brussels", Active: true},
	}}
	svc := NewStaffService(repo, repo, nil, validator.New(), zap.NewNop())

	hours, err := svc.SetWorkingHours(context.Background(), "staff-1", []WorkingHoursRequest{
		{Weekday: 2, StartHour: 13, EndHour: 17},
		{Weekday: 1, StartHour: 8.5, EndHour: 12},
	})
	require.NoError(t, err)
	require.Len(t, hours, 2)
	// Rows come back sorted by weekday then start hour.
	assert.Equal(t, 1, hours[0].Weekday)
	assert.Equal(t, 8.5, hours[0].StartHour)
	assert.Equal(t, 2, hours[1].Weekday)
	assert.Len(t, repo.hours["staff-1"], 2)
}

func TestStaffSetWorkingHoursRejectsInvertedRange(t *testing.T) {
	repo := &mockStaffRepo{items: map[string]*models.StaffMember{
		"staff-1": {ID: "staff-1", FullName: "Alice Martin", Email: "alice@example.com", Timezone: "Europe/Brussels", Active: true},
	}}
	svc := NewStaffService(repo, repo, nil, validator.New(), zap.NewNop())

	_, err := svc.SetWorkingHours(context.Background(), "staff-1", []WorkingHoursRequest{
		{Weekday: 1, StartHour: 12, EndHour: 8},
	})
	require.Error(t, err)
}

func TestStaffSetWorkingHoursUnknownStaff(t *testing.T) {
	repo := &mockStaffRepo{}
	svc := NewStaffService(repo, repo, nil, validator.New(), zap.NewNop())

	_, err := svc.SetWorkingHours(context.Background(), "missing", nil)
	require.Error(t, err)
}
