package models

import "time"

// StaffMember is a bookable person with declared weekly working hours.
type StaffMember struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Timezone  string    `db:"timezone" json:"timezone"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WorkingHours is one weekly attendance row for a staff member: a fractional
// hour range on an ISO weekday (1=Monday..7=Sunday), in the staff member's
// own timezone.
type WorkingHours struct {
	ID        string    `db:"id" json:"id"`
	StaffID   string    `db:"staff_id" json:"staff_id"`
	Weekday   int       `db:"weekday" json:"weekday"`
	StartHour float64   `db:"start_hour" json:"start_hour"`
	EndHour   float64   `db:"end_hour" json:"end_hour"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StaffFilter narrows staff listing.
type StaffFilter struct {
	Active   *bool
	Search   string
	Page     int
	PageSize int
}
