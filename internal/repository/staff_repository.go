package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/appointment-api/internal/models"
)

// StaffRepository persists staff members and their weekly working hours.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a staff repository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = "id, full_name, email, timezone, active, created_at, updated_at"

// FindByID fetches a staff member.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.StaffMember, error) {
	query := fmt.Sprintf("SELECT %s FROM staff_members WHERE id = $1", staffColumns)
	var staff models.StaffMember
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find staff member %s: %w", id, err)
	}
	return &staff, nil
}

// List returns staff members matching the filter.
func (r *StaffRepository) List(ctx context.Context, filter models.StaffFilter) ([]models.StaffMember, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM staff_members WHERE %s ORDER BY full_name ASC LIMIT %d OFFSET %d",
		staffColumns, whereClause, size, offset)
	var staff []models.StaffMember
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list staff members: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM staff_members WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count staff members: %w", err)
	}
	return staff, total, nil
}

// Create inserts a staff member.
func (r *StaffRepository) Create(ctx context.Context, staff *models.StaffMember) error {
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	const insert = `INSERT INTO staff_members (id, full_name, email, timezone, active, created_at, updated_at)
VALUES (:id, :full_name, :email, :timezone, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, insert, staff); err != nil {
		return fmt.Errorf("insert staff member: %w", err)
	}
	return nil
}

// Update rewrites a staff member row.
func (r *StaffRepository) Update(ctx context.Context, staff *models.StaffMember) error {
	staff.UpdatedAt = time.Now().UTC()
	const update = `UPDATE staff_members SET full_name = :full_name, email = :email, timezone = :timezone,
active = :active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, update, staff)
	if err != nil {
		return fmt.Errorf("update staff member %s: %w", staff.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetWorkingHours replaces the weekly working-hour rows of a staff member.
func (r *StaffRepository) SetWorkingHours(ctx context.Context, staffID string, hours []models.WorkingHours) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set working hours: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM working_hours WHERE staff_id = $1", staffID); err != nil {
		return fmt.Errorf("clear working hours for %s: %w", staffID, err)
	}
	const insert = `INSERT INTO working_hours (id, staff_id, weekday, start_hour, end_hour, created_at)
VALUES (:id, :staff_id, :weekday, :start_hour, :end_hour, :created_at)`
	for i := range hours {
		row := &hours[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		row.StaffID = staffID
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("insert working hours row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set working hours: %w", err)
	}
	return nil
}
