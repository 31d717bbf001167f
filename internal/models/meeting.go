package models

import "time"

// Meeting is a booked appointment occupying a staff member's calendar.
// StartAt and EndAt are stored in UTC.
type Meeting struct {
	ID                string    `db:"id" json:"id"`
	AppointmentTypeID *string   `db:"appointment_type_id" json:"appointment_type_id,omitempty"`
	StaffID           string    `db:"staff_id" json:"staff_id"`
	CustomerName      string    `db:"customer_name" json:"customer_name"`
	CustomerEmail     string    `db:"customer_email" json:"customer_email"`
	StartAt           time.Time `db:"start_at" json:"start_at"`
	EndAt             time.Time `db:"end_at" json:"end_at"`
	AllDay            bool      `db:"all_day" json:"all_day"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
