package models

import (
	"time"
)

// SlotTemplateType distinguishes weekly recurring templates from one-off ones.
type SlotTemplateType string

const (
	SlotRecurring SlotTemplateType = "recurring"
	SlotUnique    SlotTemplateType = "unique"
)

// SlotTemplate is a configured availability window on an appointment type.
//
// Recurring templates use Weekday (ISO, 1=Monday..7=Sunday) with fractional
// start/end hours in the type's home timezone. Unique templates use absolute
// UTC start/end datetimes and may be flagged all-day.
type SlotTemplate struct {
	ID                string           `db:"id" json:"id"`
	AppointmentTypeID string           `db:"appointment_type_id" json:"appointment_type_id"`
	Type              SlotTemplateType `db:"slot_type" json:"slot_type"`
	Weekday           int              `db:"weekday" json:"weekday,omitempty"`
	StartHour         float64          `db:"start_hour" json:"start_hour,omitempty"`
	EndHour           float64          `db:"end_hour" json:"end_hour,omitempty"`
	StartAt           *time.Time       `db:"start_at" json:"start_at,omitempty"`
	EndAt             *time.Time       `db:"end_at" json:"end_at,omitempty"`
	AllDay            bool             `db:"all_day" json:"all_day"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
}

// CandidateSlot is an ephemeral potential meeting interval produced by slot
// expansion. It carries the interval in three reference frames: the type's
// home timezone, the visitor's requested timezone, and UTC. StaffID is filled
// in by availability resolution; an empty StaffID means no staff member was
// free and the slot is dropped at rendering.
type CandidateSlot struct {
	Template SlotTemplate

	HomeStart    time.Time
	HomeEnd      time.Time
	DisplayStart time.Time
	DisplayEnd   time.Time
	UTCStart     time.Time
	UTCEnd       time.Time

	StaffID string
}
