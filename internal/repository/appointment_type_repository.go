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

// AppointmentTypeRepository persists appointment types together with their
// slot templates and staff links.
type AppointmentTypeRepository struct {
	db *sqlx.DB
}

// NewAppointmentTypeRepository constructs the repository.
func NewAppointmentTypeRepository(db *sqlx.DB) *AppointmentTypeRepository {
	return &AppointmentTypeRepository{db: db}
}

const appointmentTypeColumns = "id, name, category, duration_hours, min_schedule_hours, max_schedule_days, timezone, active, created_at, updated_at"

// FindByID loads an appointment type with its templates and staff ids.
func (r *AppointmentTypeRepository) FindByID(ctx context.Context, id string) (*models.AppointmentType, error) {
	query := fmt.Sprintf("SELECT %s FROM appointment_types WHERE id = $1", appointmentTypeColumns)
	var at models.AppointmentType
	if err := r.db.GetContext(ctx, &at, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find appointment type %s: %w", id, err)
	}
	templates, err := r.listTemplates(ctx, id)
	if err != nil {
		return nil, err
	}
	at.Templates = templates
	staffIDs, err := r.listStaffIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	at.StaffIDs = staffIDs
	return &at, nil
}

// List returns appointment types matching the filter.
func (r *AppointmentTypeRepository) List(ctx context.Context, filter models.AppointmentTypeFilter) ([]models.AppointmentType, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Category != nil {
		where = append(where, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, *filter.Category)
	}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.StaffID != "" {
		where = append(where, fmt.Sprintf("id IN (SELECT appointment_type_id FROM appointment_type_staff WHERE staff_id = $%d)", len(args)+1))
		args = append(args, filter.StaffID)
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

	query := fmt.Sprintf("SELECT %s FROM appointment_types WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d",
		appointmentTypeColumns, whereClause, size, offset)
	var types []models.AppointmentType
	if err := r.db.SelectContext(ctx, &types, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appointment types: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM appointment_types WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count appointment types: %w", err)
	}
	return types, total, nil
}

// Create inserts a type with its templates and staff links in one transaction.
func (r *AppointmentTypeRepository) Create(ctx context.Context, at *models.AppointmentType) error {
	if at.ID == "" {
		at.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	at.CreatedAt = now
	at.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create appointment type: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insert = `INSERT INTO appointment_types (id, name, category, duration_hours, min_schedule_hours, max_schedule_days, timezone, active, created_at, updated_at)
VALUES (:id, :name, :category, :duration_hours, :min_schedule_hours, :max_schedule_days, :timezone, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insert, at); err != nil {
		return fmt.Errorf("insert appointment type: %w", err)
	}
	if err := r.insertTemplates(ctx, tx, at.ID, at.Templates); err != nil {
		return err
	}
	if err := r.insertStaffLinks(ctx, tx, at.ID, at.StaffIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create appointment type: %w", err)
	}
	return nil
}

// Update rewrites the type row, its templates and staff links.
func (r *AppointmentTypeRepository) Update(ctx context.Context, at *models.AppointmentType) error {
	at.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update appointment type: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const update = `UPDATE appointment_types SET name = :name, category = :category, duration_hours = :duration_hours,
min_schedule_hours = :min_schedule_hours, max_schedule_days = :max_schedule_days, timezone = :timezone,
active = :active, updated_at = :updated_at WHERE id = :id`
	res, err := tx.NamedExecContext(ctx, update, at)
	if err != nil {
		return fmt.Errorf("update appointment type %s: %w", at.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM slot_templates WHERE appointment_type_id = $1", at.ID); err != nil {
		return fmt.Errorf("clear slot templates for %s: %w", at.ID, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM appointment_type_staff WHERE appointment_type_id = $1", at.ID); err != nil {
		return fmt.Errorf("clear staff links for %s: %w", at.ID, err)
	}
	if err := r.insertTemplates(ctx, tx, at.ID, at.Templates); err != nil {
		return err
	}
	if err := r.insertStaffLinks(ctx, tx, at.ID, at.StaffIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update appointment type: %w", err)
	}
	return nil
}

// Delete removes an appointment type. Templates and staff links cascade in the schema.
func (r *AppointmentTypeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM appointment_types WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete appointment type %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindWorkHoursByStaff returns the work_hours type owned by the staff member, if any.
func (r *AppointmentTypeRepository) FindWorkHoursByStaff(ctx context.Context, staffID string) (*models.AppointmentType, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointment_types
WHERE category = 'work_hours' AND id IN (SELECT appointment_type_id FROM appointment_type_staff WHERE staff_id = $1)
LIMIT 1`, appointmentTypeColumns)
	var at models.AppointmentType
	if err := r.db.GetContext(ctx, &at, query, staffID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find work hours type for staff %s: %w", staffID, err)
	}
	return r.FindByID(ctx, at.ID)
}

func (r *AppointmentTypeRepository) listTemplates(ctx context.Context, typeID string) ([]models.SlotTemplate, error) {
	const query = `SELECT id, appointment_type_id, slot_type, weekday, start_hour, end_hour, start_at, end_at, all_day, created_at
FROM slot_templates WHERE appointment_type_id = $1 ORDER BY weekday ASC, start_hour ASC, start_at ASC NULLS LAST`
	var templates []models.SlotTemplate
	if err := r.db.SelectContext(ctx, &templates, query, typeID); err != nil {
		return nil, fmt.Errorf("list slot templates for %s: %w", typeID, err)
	}
	return templates, nil
}

func (r *AppointmentTypeRepository) listStaffIDs(ctx context.Context, typeID string) ([]string, error) {
	const query = "SELECT staff_id FROM appointment_type_staff WHERE appointment_type_id = $1 ORDER BY staff_id ASC"
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, typeID); err != nil {
		return nil, fmt.Errorf("list staff for %s: %w", typeID, err)
	}
	return ids, nil
}

func (r *AppointmentTypeRepository) insertTemplates(ctx context.Context, tx *sqlx.Tx, typeID string, templates []models.SlotTemplate) error {
	const insert = `INSERT INTO slot_templates (id, appointment_type_id, slot_type, weekday, start_hour, end_hour, start_at, end_at, all_day, created_at)
VALUES (:id, :appointment_type_id, :slot_type, :weekday, :start_hour, :end_hour, :start_at, :end_at, :all_day, :created_at)`
	for i := range templates {
		tpl := &templates[i]
		if tpl.ID == "" {
			tpl.ID = uuid.NewString()
		}
		tpl.AppointmentTypeID = typeID
		if tpl.CreatedAt.IsZero() {
			tpl.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.NamedExecContext(ctx, insert, tpl); err != nil {
			return fmt.Errorf("insert slot template: %w", err)
		}
	}
	return nil
}

func (r *AppointmentTypeRepository) insertStaffLinks(ctx context.Context, tx *sqlx.Tx, typeID string, staffIDs []string) error {
	const insert = "INSERT INTO appointment_type_staff (appointment_type_id, staff_id) VALUES ($1, $2)"
	for _, staffID := range staffIDs {
		if _, err := tx.ExecContext(ctx, insert, typeID, staffID); err != nil {
			return fmt.Errorf("link staff %s: %w", staffID, err)
		}
	}
	return nil
}
