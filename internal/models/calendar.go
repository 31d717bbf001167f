package models

import "time"

// SlotOption is one bookable entry on a calendar day. Hours is the rendered
// time label ("09:00", "09:00 - 10:30" for custom types, or "All day");
// Duration is in hours.
type SlotOption struct {
	StaffID  string    `json:"staff_id"`
	Datetime time.Time `json:"datetime"`
	Hours    string    `json:"hours"`
	Duration float64   `json:"duration"`
}

// CalendarDay is one cell of the rendered month grid.
type CalendarDay struct {
	Date    time.Time    `json:"date"`
	Muted   bool         `json:"muted"`
	Weekend bool         `json:"weekend"`
	Today   bool         `json:"today"`
	Slots   []SlotOption `json:"slots"`
}

// CalendarWeek is a fixed run of seven days, Monday first.
type CalendarWeek []CalendarDay

// CalendarMonth is one month of the availability grid, weeks padded with
// muted adjacent-month days.
type CalendarMonth struct {
	Index int            `json:"id"`
	Label string         `json:"month"`
	Weeks []CalendarWeek `json:"weeks"`
}
