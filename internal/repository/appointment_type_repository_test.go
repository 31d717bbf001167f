package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/appointment-api/internal/models"
)

func newAppointmentTypeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func appointmentTypeMockRow(id, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "category", "duration_hours", "min_schedule_hours", "max_schedule_days", "timezone", "active", "created_at", "updated_at"}).
		AddRow(id, name, "website", 1.0, 1.0, 15, "Europe/Brussels", true, now, now)
}

func expectTypeChildren(mock sqlmock.Sqlmock, typeID string) {
	templateRows := sqlmock.NewRows([]string{"id", "appointment_type_id", "slot_type", "weekday", "start_hour", "end_hour", "start_at", "end_at", "all_day", "created_at"}).
		AddRow("tpl1", typeID, "recurring", 1, 9.0, 12.0, nil, nil, false, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, appointment_type_id, slot_type, weekday, start_hour, end_hour, start_at, end_at, all_day, created_at")).
		WithArgs(typeID).
		WillReturnRows(templateRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT staff_id FROM appointment_type_staff WHERE appointment_type_id = $1")).
		WithArgs(typeID).
		WillReturnRows(sqlmock.NewRows([]string{"staff_id"}).AddRow("staff-1"))
}

func TestAppointmentTypeRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newAppointmentTypeRepoMock(t)
	defer cleanup()
	repo := NewAppointmentTypeRepository(db)

	mock.ExpectQuery("SELECT .* FROM appointment_types WHERE id =").
		WithArgs("apt-1").
		WillReturnRows(appointmentTypeMockRow("apt-1", "Consultation"))
	expectTypeChildren(mock, "apt-1")

	at, err := repo.FindByID(context.Background(), "apt-1")
	require.NoError(t, err)
	assert.Equal(t, "Consultation", at.Name)
	require.Len(t, at.Templates, 1)
	assert.Equal(t, models.SlotRecurring, at.Templates[0].Type)
	assert.Equal(t, []string{"staff-1"}, at.StaffIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentTypeRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newAppointmentTypeRepoMock(t)
	defer cleanup()
	repo := NewAppointmentTypeRepository(db)

	mock.ExpectQuery("SELECT .* FROM appointment_types WHERE id =").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentTypeRepositoryList(t *testing.T) {
	db, mock, cleanup := newAppointmentTypeRepoMock(t)
	defer cleanup()
	repo := NewAppointmentTypeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, category, duration_hours, min_schedule_hours, max_schedule_days, timezone, active, created_at, updated_at FROM appointment_types WHERE 1=1 AND category = $1 ORDER BY name ASC LIMIT 50 OFFSET 0")).
		WithArgs("website").
		WillReturnRows(appointmentTypeMockRow("apt-1", "Consultation"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM appointment_types WHERE 1=1 AND category = $1")).
		WithArgs("website").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	category := models.CategoryWebsite
	types, total, err := repo.List(context.Background(), models.AppointmentTypeFilter{Category: &category})
	require.NoError(t, err)
	assert.Len(t, types, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentTypeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAppointmentTypeRepoMock(t)
	defer cleanup()
	repo := NewAppointmentTypeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO appointment_types").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO slot_templates").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO appointment_type_staff").
		WithArgs(sqlmock.AnyArg(), "staff-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	at := &models.AppointmentType{
		Name:            "Consultation",
		Category:        models.CategoryWebsite,
		Duration:        1.0,
		MaxScheduleDays: 15,
		Timezone:        "Europe/Brussels",
		Active:          true,
		Templates:       []models.SlotTemplate{{Type: models.SlotRecurring, Weekday: 1, StartHour: 9, EndHour: 12}},
		StaffIDs:        []string{"staff-1"},
	}
	require.NoError(t, repo.Create(context.Background(), at))
	assert.NotEmpty(t, at.ID)
	assert.Equal(t, at.ID, at.Templates[0].AppointmentTypeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentTypeRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newAppointmentTypeRepoMock(t)
	defer cleanup()
	repo := NewAppointmentTypeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE appointment_types SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.AppointmentType{ID: "missing", Name: "X", Category: models.CategoryWebsite, Timezone: "UTC"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentTypeRepositoryFindWorkHoursByStaff(t *testing.T) {
	db, mock, cleanup := newAppointmentTypeRepoMock(t)
	defer cleanup()
	repo := NewAppointmentTypeRepository(db)

	mock.ExpectQuery("SELECT .* FROM appointment_types\nWHERE category = 'work_hours'").
		WithArgs("staff-1").
		WillReturnRows(appointmentTypeMockRow("apt-wh", "Work hours"))
	mock.ExpectQuery("SELECT .* FROM appointment_types WHERE id =").
		WithArgs("apt-wh").
		WillReturnRows(appointmentTypeMockRow("apt-wh", "Work hours"))
	expectTypeChildren(mock, "apt-wh")

	at, err := repo.FindWorkHoursByStaff(context.Background(), "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "apt-wh", at.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentTypeRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newAppointmentTypeRepoMock(t)
	defer cleanup()
	repo := NewAppointmentTypeRepository(db)

	mock.ExpectExec("DELETE FROM appointment_types").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
