package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/appointment-api/internal/models"
)

// MeetingRepository persists booked meetings and answers conflict queries
// against a staff member's calendar.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository constructs the repository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

const meetingColumns = "id, appointment_type_id, staff_id, customer_name, customer_email, start_at, end_at, all_day, created_at"

// HasConflict reports whether any booked meeting of the staff member overlaps
// [start, end). Intervals are half-open, so back-to-back meetings do not conflict.
func (r *MeetingRepository) HasConflict(ctx context.Context, staffID string, start, end time.Time) (bool, error) {
	const query = `SELECT EXISTS (
SELECT 1 FROM meetings WHERE staff_id = $1 AND start_at < $3 AND end_at > $2)`
	var conflict bool
	if err := r.db.GetContext(ctx, &conflict, query, staffID, start, end); err != nil {
		return false, fmt.Errorf("conflict check for staff %s: %w", staffID, err)
	}
	return conflict, nil
}

// ListForStaff returns the staff member's meetings overlapping the window,
// ordered by start time.
func (r *MeetingRepository) ListForStaff(ctx context.Context, staffID string, from, to time.Time) ([]models.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings
WHERE staff_id = $1 AND start_at < $3 AND end_at > $2 ORDER BY start_at ASC`, meetingColumns)
	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, staffID, from, to); err != nil {
		return nil, fmt.Errorf("list meetings for staff %s: %w", staffID, err)
	}
	return meetings, nil
}

// Create inserts a meeting.
func (r *MeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = time.Now().UTC()
	}
	const insert = `INSERT INTO meetings (id, appointment_type_id, staff_id, customer_name, customer_email, start_at, end_at, all_day, created_at)
VALUES (:id, :appointment_type_id, :staff_id, :customer_name, :customer_email, :start_at, :end_at, :all_day, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, insert, meeting); err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

// Delete cancels a meeting.
func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM meetings WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete meeting %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
