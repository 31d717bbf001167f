package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkingHoursRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func workingHoursMockRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "staff_id", "weekday", "start_hour", "end_hour", "created_at"})
}

func expectStaffTimezone(mock sqlmock.Sqlmock, staffID, tz string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT timezone FROM staff_members WHERE id = $1")).
		WithArgs(staffID).
		WillReturnRows(sqlmock.NewRows([]string{"timezone"}).AddRow(tz))
}

func TestWorkingHoursRepositoryListByStaff(t *testing.T) {
	db, mock, cleanup := newWorkingHoursRepoMock(t)
	defer cleanup()
	repo := NewWorkingHoursRepository(db)

	rows := workingHoursMockRows().
		AddRow("wh1", "staff-1", 1, 9.0, 12.0, time.Now()).
		AddRow("wh2", "staff-1", 1, 13.5, 17.0, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, staff_id, weekday, start_hour, end_hour, created_at")).
		WithArgs("staff-1").
		WillReturnRows(rows)

	hours, err := repo.ListByStaff(context.Background(), "staff-1")
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, 13.5, hours[1].StartHour)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Weekly rows are defined in the staff member's timezone; Intervals must
// project them onto concrete days in UTC and coalesce touching ranges.
func TestWorkingHoursRepositoryIntervalsExpandsWeek(t *testing.T) {
	db, mock, cleanup := newWorkingHoursRepoMock(t)
	defer cleanup()
	repo := NewWorkingHoursRepository(db)

	expectStaffTimezone(mock, "staff-1", "Europe/Brussels")
	rows := workingHoursMockRows().
		AddRow("wh1", "staff-1", 1, 9.0, 12.0, time.Now()).
		AddRow("wh2", "staff-1", 1, 12.0, 17.0, time.Now()).
		AddRow("wh3", "staff-1", 7, 10.0, 11.0, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, staff_id, weekday, start_hour, end_hour, created_at")).
		WithArgs("staff-1").
		WillReturnRows(rows)

	// Sunday Sep 6 through Monday Sep 7, 2026. Brussels is UTC+2 in September.
	from := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	spans, err := repo.Intervals(context.Background(), "staff-1", from, to)
	require.NoError(t, err)
	require.Len(t, spans, 2)

	assert.Equal(t, time.Date(2026, 9, 6, 8, 0, 0, 0, time.UTC), spans[0].Start)
	assert.Equal(t, time.Date(2026, 9, 6, 9, 0, 0, 0, time.UTC), spans[0].End)
	// Monday 09:00-12:00 and 12:00-17:00 local merge into one span.
	assert.Equal(t, time.Date(2026, 9, 7, 7, 0, 0, 0, time.UTC), spans[1].Start)
	assert.Equal(t, time.Date(2026, 9, 7, 15, 0, 0, 0, time.UTC), spans[1].End)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkingHoursRepositoryIntervalsClipsToWindow(t *testing.T) {
	db, mock, cleanup := newWorkingHoursRepoMock(t)
	defer cleanup()
	repo := NewWorkingHoursRepository(db)

	expectStaffTimezone(mock, "staff-1", "UTC")
	rows := workingHoursMockRows().
		AddRow("wh1", "staff-1", 1, 9.0, 17.0, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, staff_id, weekday, start_hour, end_hour, created_at")).
		WithArgs("staff-1").
		WillReturnRows(rows)

	from := time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC)
	to := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	spans, err := repo.Intervals(context.Background(), "staff-1", from, to)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, from, spans[0].Start)
	assert.Equal(t, to, spans[0].End)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkingHoursRepositoryIntervalsNoRows(t *testing.T) {
	db, mock, cleanup := newWorkingHoursRepoMock(t)
	defer cleanup()
	repo := NewWorkingHoursRepository(db)

	expectStaffTimezone(mock, "staff-1", "UTC")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, staff_id, weekday, start_hour, end_hour, created_at")).
		WithArgs("staff-1").
		WillReturnRows(workingHoursMockRows())

	spans, err := repo.Intervals(context.Background(), "staff-1",
		time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, spans)
	assert.NoError(t, mock.ExpectationsWereMet())
}
