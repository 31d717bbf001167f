package models

import (
	"time"
)

// AppointmentCategory classifies how an appointment type is offered.
type AppointmentCategory string

const (
	// CategoryWebsite types are publicly bookable and may carry any number of staff members.
	CategoryWebsite AppointmentCategory = "website"
	// CategoryCustom types carry hand-picked unique slots and exactly one staff member.
	CategoryCustom AppointmentCategory = "custom"
	// CategoryWorkHours types mirror a single staff member's working hours over the whole week.
	CategoryWorkHours AppointmentCategory = "work_hours"
)

// AppointmentType is the configuration entity driving slot generation.
// Duration and MinScheduleHours are fractional hours; MaxScheduleDays bounds
// the scheduling horizon. Timezone is the home timezone in which recurring
// slot templates are defined.
type AppointmentType struct {
	ID               string              `db:"id" json:"id"`
	Name             string              `db:"name" json:"name"`
	Category         AppointmentCategory `db:"category" json:"category"`
	Duration         float64             `db:"duration_hours" json:"duration_hours"`
	MinScheduleHours float64             `db:"min_schedule_hours" json:"min_schedule_hours"`
	MaxScheduleDays  int                 `db:"max_schedule_days" json:"max_schedule_days"`
	Timezone         string              `db:"timezone" json:"timezone"`
	Active           bool                `db:"active" json:"active"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updated_at"`

	// Loaded alongside the row, not columns of appointment_types.
	Templates []SlotTemplate `db:"-" json:"slot_templates,omitempty"`
	StaffIDs  []string       `db:"-" json:"staff_ids,omitempty"`
}

// Location resolves the home timezone.
func (t *AppointmentType) Location() (*time.Location, error) {
	return time.LoadLocation(t.Timezone)
}

// HasStaff reports whether the given staff member is declared on the type.
func (t *AppointmentType) HasStaff(staffID string) bool {
	for _, id := range t.StaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}

// AppointmentTypeFilter narrows listing of appointment types.
type AppointmentTypeFilter struct {
	Category *AppointmentCategory
	Active   *bool
	StaffID  string
	Page     int
	PageSize int
}
