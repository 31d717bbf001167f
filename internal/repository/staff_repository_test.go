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

func newStaffRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func staffMockRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "full_name", "email", "timezone", "active", "created_at", "updated_at"}).
		AddRow("staff-1", "Alice Martin", "alice@example.com", "Europe/Brussels", true, now, now)
}

func TestStaffRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newStaffRepoMock(t)
	defer cleanup()
	repo := NewStaffRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, email, timezone, active, created_at, updated_at FROM staff_members WHERE id = $1")).
		WithArgs("staff-1").
		WillReturnRows(staffMockRows())

	staff, err := repo.FindByID(context.Background(), "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Martin", staff.FullName)
	assert.Equal(t, "Europe/Brussels", staff.Timezone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepositoryListWithSearch(t *testing.T) {
	db, mock, cleanup := newStaffRepoMock(t)
	defer cleanup()
	repo := NewStaffRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, email, timezone, active, created_at, updated_at FROM staff_members WHERE 1=1 AND (full_name ILIKE $1 OR email ILIKE $1) ORDER BY full_name ASC LIMIT 50 OFFSET 0")).
		WithArgs("%alice%").
		WillReturnRows(staffMockRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM staff_members WHERE 1=1 AND (full_name ILIKE $1 OR email ILIKE $1)")).
		WithArgs("%alice%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	staff, total, err := repo.List(context.Background(), models.StaffFilter{Search: "alice"})
	require.NoError(t, err)
	assert.Len(t, staff, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newStaffRepoMock(t)
	defer cleanup()
	repo := NewStaffRepository(db)

	mock.ExpectExec("INSERT INTO staff_members").
		WithArgs(sqlmock.AnyArg(), "Alice Martin", "alice@example.com", "Europe/Brussels", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	staff := &models.StaffMember{FullName: "Alice Martin", Email: "alice@example.com", Timezone: "Europe/Brussels", Active: true}
	require.NoError(t, repo.Create(context.Background(), staff))
	assert.NotEmpty(t, staff.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newStaffRepoMock(t)
	defer cleanup()
	repo := NewStaffRepository(db)

	mock.ExpectExec("UPDATE staff_members SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.StaffMember{ID: "missing", FullName: "X", Email: "x@example.com", Timezone: "UTC"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepositorySetWorkingHours(t *testing.T) {
	db, mock, cleanup := newStaffRepoMock(t)
	defer cleanup()
	repo := NewStaffRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM working_hours").
		WithArgs("staff-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO working_hours").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO working_hours").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	hours := []models.WorkingHours{
		{Weekday: 1, StartHour: 9, EndHour: 12},
		{Weekday: 1, StartHour: 13, EndHour: 17},
	}
	require.NoError(t, repo.SetWorkingHours(context.Background(), "staff-1", hours))
	assert.Equal(t, "staff-1", hours[0].StaffID)
	assert.NotEmpty(t, hours[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
