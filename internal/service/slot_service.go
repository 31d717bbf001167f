package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/appointment-api/internal/models"
	appErrors "github.com/noah-isme/appointment-api/pkg/errors"
	"github.com/noah-isme/appointment-api/pkg/interval"
)

// workHoursTolerance absorbs rounding at working-hour boundaries: gaps and
// overruns of at most one minute still count as covered.
const workHoursTolerance = time.Minute

type slotTypeReader interface {
	FindByID(ctx context.Context, id string) (*models.AppointmentType, error)
}

// WorkingHoursProvider supplies a staff member's working intervals over a UTC
// window as a merged, ascending, non-overlapping list.
type WorkingHoursProvider interface {
	Intervals(ctx context.Context, staffID string, from, to time.Time) ([]interval.Span, error)
}

// ConflictChecker verifies a candidate interval against a staff member's
// booked meetings.
type ConflictChecker interface {
	HasConflict(ctx context.Context, staffID string, start, end time.Time) (bool, error)
}

// SlotService computes the bookable slot grid of an appointment type: it
// expands slot templates into candidate intervals, resolves an available
// staff member per candidate, and lays the result onto a month calendar.
type SlotService struct {
	types     slotTypeReader
	hours     WorkingHoursProvider
	conflicts ConflictChecker
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger

	now func() time.Time
}

// NewSlotService wires the slot engine dependencies. cache and metrics may be nil.
func NewSlotService(types slotTypeReader, hours WorkingHoursProvider, conflicts ConflictChecker, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *SlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{
		types:     types,
		hours:     hours,
		conflicts: conflicts,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Slots returns the availability grid of an appointment type rendered in the
// requested timezone. When staffID is non-empty only that staff member is
// considered, and only if declared on the type.
func (s *SlotService) Slots(ctx context.Context, typeID, timezone, staffID string) ([]models.CalendarMonth, error) {
	at, err := s.types.FindByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment type")
	}

	if timezone == "" {
		timezone = at.Timezone
	}
	displayLoc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnknownTimezone.Code, appErrors.ErrUnknownTimezone.Status, appErrors.ErrUnknownTimezone.Message)
	}

	cacheKey := fmt.Sprintf("slots:%s:%s", at.ID, timezone)
	if staffID == "" && s.cache.Enabled() {
		var cached []models.CalendarMonth
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	started := time.Now()
	months, generated, unassigned, err := s.compute(ctx, at, displayLoc, staffID)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveSlotComputation(time.Since(started), generated, unassigned)
	}

	if staffID == "" && s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, months, 0); err != nil {
			s.logger.Warn("failed to cache slot grid", zap.String("appointment_type_id", at.ID), zap.Error(err))
		}
	}
	return months, nil
}

func (s *SlotService) compute(ctx context.Context, at *models.AppointmentType, displayLoc *time.Location, staffID string) ([]models.CalendarMonth, int, int, error) {
	homeLoc, err := at.Location()
	if err != nil {
		return nil, 0, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid appointment type timezone")
	}

	nowUTC := s.now().UTC()
	firstDay := nowUTC.Add(hoursToDuration(at.MinScheduleHours)).In(displayLoc)

	horizonDays := at.MaxScheduleDays
	if at.Category == models.CategoryCustom {
		if last := lastUniqueEnd(at.Templates); last != nil {
			horizonDays = int(last.Sub(nowUTC).Hours() / 24)
			if horizonDays < 0 {
				horizonDays = 0
			}
		}
	}
	lastDay := nowUTC.AddDate(0, 0, horizonDays).In(displayLoc)

	slots, err := s.expand(ctx, at, firstDay.In(homeLoc), lastDay.In(homeLoc), homeLoc, displayLoc, nowUTC)
	if err != nil {
		return nil, 0, 0, err
	}

	// A requested staff member outside the declared pool yields no
	// assignments at all; the grid then renders empty.
	if staffID == "" || at.HasStaff(staffID) {
		if err := s.resolve(ctx, at, slots, firstDay.UTC(), lastDay.UTC(), staffID); err != nil {
			return nil, 0, 0, err
		}
	}

	unassigned := 0
	for _, slot := range slots {
		if slot.StaffID == "" {
			unassigned++
		}
	}

	months := s.buildGrid(nowUTC.In(displayLoc), lastDay, slots, at.Category == models.CategoryCustom)
	return months, len(slots), unassigned, nil
}

// expand turns the type's slot templates into candidate slots over
// [first, last] (both in the home timezone), ordered by UTC start.
func (s *SlotService) expand(ctx context.Context, at *models.AppointmentType, first, last time.Time, homeLoc, displayLoc *time.Location, nowUTC time.Time) ([]*models.CandidateSlot, error) {
	var slots []*models.CandidateSlot

	appendTemplate := func(day time.Time, tpl models.SlotTemplate) {
		duration := hoursToDuration(at.Duration)
		localStart := atHour(day, tpl.StartHour, homeLoc)
		localEnd := localStart.Add(duration)
		for hourFraction(localStart) <= tpl.EndHour-at.Duration {
			slots = append(slots, &models.CandidateSlot{
				Template:     tpl,
				HomeStart:    localStart,
				HomeEnd:      localEnd,
				DisplayStart: localStart.In(displayLoc),
				DisplayEnd:   localEnd.In(displayLoc),
				UTCStart:     localStart.UTC(),
				UTCEnd:       localEnd.UTC(),
			})
			localStart = localEnd
			localEnd = localEnd.Add(duration)
		}
	}

	if at.Category != models.CategoryCustom {
		// Recurring templates: a partial first day, then whole days up to the horizon.
		for _, tpl := range at.Templates {
			if tpl.Type != models.SlotRecurring {
				continue
			}
			if tpl.Weekday == isoWeekday(first.Weekday()) && tpl.EndHour > hourFraction(first) {
				appendTemplate(first, tpl)
			}
		}
		day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, homeLoc).AddDate(0, 0, 1)
		lastDate := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, homeLoc)
		for !day.After(lastDate) {
			for _, tpl := range at.Templates {
				if tpl.Type == models.SlotRecurring && tpl.Weekday == isoWeekday(day.Weekday()) {
					appendTemplate(day, tpl)
				}
			}
			day = day.AddDate(0, 0, 1)
		}
	} else {
		// Unique templates carry absolute datetimes; the single declared
		// staff member is assigned immediately when the interval is free.
		if len(at.StaffIDs) != 1 {
			return nil, appErrors.Clone(appErrors.ErrStaffConfiguration, "")
		}
		staffID := at.StaffIDs[0]
		for _, tpl := range at.Templates {
			if tpl.Type != models.SlotUnique || tpl.StartAt == nil || tpl.EndAt == nil || !tpl.EndAt.After(nowUTC) {
				continue
			}
			startUTC := tpl.StartAt.UTC()
			endUTC := tpl.EndAt.UTC()
			conflict, err := s.conflicts.HasConflict(ctx, staffID, startUTC, endUTC)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "conflict check failed")
			}
			if conflict {
				continue
			}
			slots = append(slots, &models.CandidateSlot{
				Template:     tpl,
				HomeStart:    startUTC.In(homeLoc),
				HomeEnd:      endUTC.In(homeLoc),
				DisplayStart: startUTC.In(displayLoc),
				DisplayEnd:   endUTC.In(displayLoc),
				UTCStart:     startUTC,
				UTCEnd:       endUTC,
				StaffID:      staffID,
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].UTCStart.Before(slots[j].UTCStart) })
	return slots, nil
}

// resolve assigns a free staff member to each unassigned candidate slot.
// The pool is shuffled once per call so no staff member is systematically
// preferred; within a call assignment is first-fit in slot order.
func (s *SlotService) resolve(ctx context.Context, at *models.AppointmentType, slots []*models.CandidateSlot, from, to time.Time, only string) error {
	var pool []string
	if only != "" {
		pool = []string{only}
	} else {
		pool = append([]string(nil), at.StaffIDs...)
		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}

	// Working intervals are fetched once per staff member for the whole
	// window and cached for the duration of this call only.
	workhours := make(map[string][]interval.Span, len(pool))
	fetched := make(map[string]bool, len(pool))

	for _, slot := range slots {
		if slot.StaffID != "" {
			continue
		}
		for _, staffID := range pool {
			if !fetched[staffID] {
				spans, err := s.hours.Intervals(ctx, staffID, from, to)
				if err != nil {
					return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load working hours")
				}
				workhours[staffID] = spans
				fetched[staffID] = true
			}
			if !interval.Covers(workhours[staffID], slot.UTCStart, slot.UTCEnd, workHoursTolerance) {
				continue
			}
			conflict, err := s.conflicts.HasConflict(ctx, staffID, slot.UTCStart, slot.UTCEnd)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "conflict check failed")
			}
			if conflict {
				continue
			}
			slot.StaffID = staffID
			break
		}
	}
	return nil
}

// buildGrid lays the resolved slots onto month calendars, consuming the
// time-ordered slot queue in a single pass. Unassigned slots are dropped.
func (s *SlotService) buildGrid(today, lastDay time.Time, slots []*models.CandidateSlot, custom bool) []models.CalendarMonth {
	loc := today.Location()
	todayDate := dateOf(today)

	var months []models.CalendarMonth
	cursor := 0

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	for monthStart.Year() < lastDay.Year() || (monthStart.Year() == lastDay.Year() && monthStart.Month() <= lastDay.Month()) {
		weeks := monthWeeks(monthStart)
		for wi := range weeks {
			for di := range weeks[wi] {
				day := &weeks[wi][di]
				date := day.Date
				day.Weekend = date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
				day.Today = date.Equal(todayDate)
				day.Muted = date.Month() != monthStart.Month()
				if day.Muted || date.Before(todayDate) {
					continue
				}
				for cursor < len(slots) && !dateOf(slots[cursor].DisplayStart).After(date) {
					slot := slots[cursor]
					cursor++
					if !dateOf(slot.DisplayStart).Equal(date) || slot.StaffID == "" {
						continue
					}
					day.Slots = append(day.Slots, renderSlot(slot, custom))
				}
				sort.SliceStable(day.Slots, func(i, j int) bool { return day.Slots[i].Hours < day.Slots[j].Hours })
			}
		}
		months = append(months, models.CalendarMonth{
			Index: len(months),
			Label: monthStart.Format("January 2006"),
			Weeks: weeks,
		})
		monthStart = monthStart.AddDate(0, 1, 0)
	}
	return months
}

func renderSlot(slot *models.CandidateSlot, custom bool) models.SlotOption {
	if slot.Template.AllDay {
		return models.SlotOption{
			StaffID:  slot.StaffID,
			Datetime: slot.DisplayStart,
			Hours:    "All day",
			Duration: 24,
		}
	}
	hours := slot.DisplayStart.Format("15:04")
	if custom {
		hours = fmt.Sprintf("%s - %s", hours, slot.DisplayEnd.Format("15:04"))
	}
	return models.SlotOption{
		StaffID:  slot.StaffID,
		Datetime: slot.DisplayStart,
		Hours:    hours,
		Duration: slot.UTCEnd.Sub(slot.UTCStart).Hours(),
	}
}

// monthWeeks returns the Monday-first display weeks of the month containing
// monthStart, padded with adjacent-month days.
func monthWeeks(monthStart time.Time) []models.CalendarWeek {
	loc := monthStart.Location()
	first := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, loc)
	// Back up to the Monday on or before the first of the month.
	cell := first.AddDate(0, 0, -(isoWeekday(first.Weekday()) - 1))
	lastOfMonth := first.AddDate(0, 1, -1)

	var weeks []models.CalendarWeek
	for !cell.After(lastOfMonth) {
		week := make(models.CalendarWeek, 7)
		for i := 0; i < 7; i++ {
			week[i] = models.CalendarDay{Date: cell}
			cell = cell.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// isoWeekday maps Go's Sunday-first weekday to ISO numbering, 1=Monday..7=Sunday.
// Slot templates and the date walk both use this convention.
func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

func hourFraction(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// atHour anchors a fractional hour of day on the given date, minutes rounded
// to the nearest whole minute.
func atHour(day time.Time, hour float64, loc *time.Location) time.Time {
	h := int(hour)
	m := int(math.Round((hour - float64(h)) * 60))
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func lastUniqueEnd(templates []models.SlotTemplate) *time.Time {
	var last *time.Time
	for i := range templates {
		tpl := templates[i]
		if tpl.Type != models.SlotUnique || tpl.EndAt == nil {
			continue
		}
		if last == nil || tpl.EndAt.After(*last) {
			last = tpl.EndAt
		}
	}
	return last
}
