package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/appointment-api/internal/models"
	"github.com/noah-isme/appointment-api/pkg/interval"
)

// WorkingHoursRepository expands the weekly working-hour rows of a staff
// member into concrete UTC intervals over a query window.
type WorkingHoursRepository struct {
	db *sqlx.DB
}

// NewWorkingHoursRepository constructs the repository.
func NewWorkingHoursRepository(db *sqlx.DB) *WorkingHoursRepository {
	return &WorkingHoursRepository{db: db}
}

// ListByStaff returns the raw weekly rows of a staff member.
func (r *WorkingHoursRepository) ListByStaff(ctx context.Context, staffID string) ([]models.WorkingHours, error) {
	const query = `SELECT id, staff_id, weekday, start_hour, end_hour, created_at
FROM working_hours WHERE staff_id = $1 ORDER BY weekday ASC, start_hour ASC`
	var rows []models.WorkingHours
	if err := r.db.SelectContext(ctx, &rows, query, staffID); err != nil {
		return nil, fmt.Errorf("list working hours for %s: %w", staffID, err)
	}
	return rows, nil
}

// Intervals expands the staff member's weekly rows over [from, to] into a
// merged, ascending, non-overlapping list of UTC spans, clipped to the
// window. The weekly rows are defined in the staff member's own timezone.
func (r *WorkingHoursRepository) Intervals(ctx context.Context, staffID string, from, to time.Time) ([]interval.Span, error) {
	var tzName string
	if err := r.db.GetContext(ctx, &tzName, "SELECT timezone FROM staff_members WHERE id = $1", staffID); err != nil {
		return nil, fmt.Errorf("resolve timezone for staff %s: %w", staffID, err)
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("load staff timezone %q: %w", tzName, err)
	}

	rows, err := r.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	byWeekday := make(map[int][]models.WorkingHours, 7)
	for _, row := range rows {
		byWeekday[row.Weekday] = append(byWeekday[row.Weekday], row)
	}

	var spans []interval.Span
	localFrom := from.In(loc)
	day := time.Date(localFrom.Year(), localFrom.Month(), localFrom.Day(), 0, 0, 0, 0, loc)
	localTo := to.In(loc)
	for !day.After(localTo) {
		for _, row := range byWeekday[isoWeekday(day.Weekday())] {
			start := day.Add(hoursToDuration(row.StartHour)).UTC()
			end := day.Add(hoursToDuration(row.EndHour)).UTC()
			if !end.After(from) || !start.Before(to) {
				continue
			}
			if start.Before(from) {
				start = from
			}
			if end.After(to) {
				end = to
			}
			spans = append(spans, interval.Span{Start: start, End: end})
		}
		day = day.AddDate(0, 0, 1)
	}
	return interval.Merge(spans), nil
}

// isoWeekday maps Go's Sunday-first weekday to ISO numbering, 1=Monday..7=Sunday.
func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
