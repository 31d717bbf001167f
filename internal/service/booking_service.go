package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/appointment-api/internal/models"
	appErrors "github.com/noah-isme/appointment-api/pkg/errors"
	"github.com/noah-isme/appointment-api/pkg/interval"
	"github.com/noah-isme/appointment-api/pkg/jobs"
)

type meetingWriter interface {
	HasConflict(ctx context.Context, staffID string, start, end time.Time) (bool, error)
	Create(ctx context.Context, meeting *models.Meeting) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// BookSlotRequest represents payload for booking a slot.
type BookSlotRequest struct {
	AppointmentTypeID string    `json:"appointment_type_id" validate:"required"`
	StaffID           string    `json:"staff_id"`
	CustomerName      string    `json:"customer_name" validate:"required,max=200"`
	CustomerEmail     string    `json:"customer_email" validate:"required,email"`
	StartAt           time.Time `json:"start_at" validate:"required"`
}

// BookingService turns a picked slot into a meeting. Availability is checked
// again at booking time: the grid a visitor saw may be stale, and the conflict
// check here is the only double-booking backstop.
type BookingService struct {
	types     slotTypeReader
	hours     WorkingHoursProvider
	meetings  meetingWriter
	cache     *CacheService
	queue     jobEnqueuer
	validator *validator.Validate
	logger    *zap.Logger

	now func() time.Time
}

// NewBookingService constructs a BookingService. cache and queue may be nil.
func NewBookingService(types slotTypeReader, hours WorkingHoursProvider, meetings meetingWriter, cache *CacheService, queue jobEnqueuer, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		types:     types,
		hours:     hours,
		meetings:  meetings,
		cache:     cache,
		queue:     queue,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Book validates the requested interval against the type's scheduling window,
// the staff member's working hours and booked meetings, then persists the
// meeting and schedules a cache refresh for the type's slot grids.
func (s *BookingService) Book(ctx context.Context, req BookSlotRequest) (*models.Meeting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	at, err := s.types.FindByID(ctx, req.AppointmentTypeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment type")
	}
	if !at.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment type not found")
	}

	start := req.StartAt.UTC()
	end := start.Add(hoursToDuration(at.Duration))
	nowUTC := s.now().UTC()
	if start.Before(nowUTC.Add(hoursToDuration(at.MinScheduleHours))) {
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "slot starts before the minimum scheduling lead time")
	}
	if at.Category != models.CategoryCustom && start.After(nowUTC.AddDate(0, 0, at.MaxScheduleDays)) {
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "slot is beyond the scheduling horizon")
	}

	staffID, err := s.pickStaff(ctx, at, req.StaffID, start, end)
	if err != nil {
		return nil, err
	}

	typeID := at.ID
	meeting := &models.Meeting{
		ID:                uuid.NewString(),
		AppointmentTypeID: &typeID,
		StaffID:           staffID,
		CustomerName:      strings.TrimSpace(req.CustomerName),
		CustomerEmail:     strings.TrimSpace(req.CustomerEmail),
		StartAt:           start,
		EndAt:             end,
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create meeting")
	}

	s.refreshGrids(ctx, at.ID)
	return meeting, nil
}

// pickStaff re-validates availability for the requested staff member, or
// chooses one at random from the pool when none was requested.
func (s *BookingService) pickStaff(ctx context.Context, at *models.AppointmentType, requested string, start, end time.Time) (string, error) {
	var pool []string
	if requested != "" {
		if !at.HasStaff(requested) {
			return "", appErrors.Clone(appErrors.ErrSlotUnavailable, "requested staff member is not available for this appointment type")
		}
		pool = []string{requested}
	} else {
		pool = append([]string(nil), at.StaffIDs...)
		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}

	for _, staffID := range pool {
		spans, err := s.hours.Intervals(ctx, staffID, start.Add(-24*time.Hour), end.Add(24*time.Hour))
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load working hours")
		}
		if !interval.Covers(spans, start, end, workHoursTolerance) {
			continue
		}
		conflict, err := s.meetings.HasConflict(ctx, staffID, start, end)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "conflict check failed")
		}
		if conflict {
			continue
		}
		return staffID, nil
	}
	return "", appErrors.Clone(appErrors.ErrSlotUnavailable, "no staff member is available for the requested slot")
}

// refreshGrids drops the type's cached grids immediately and queues a
// background recomputation so the next lookup is warm again.
func (s *BookingService) refreshGrids(ctx context.Context, typeID string) {
	if s.cache != nil && s.cache.Enabled() {
		if err := s.cache.InvalidateAppointmentType(ctx, typeID); err != nil {
			s.logger.Warn("failed to invalidate cached slot grids", zap.String("appointment_type_id", typeID), zap.Error(err))
		}
	}
	if s.queue == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: JobRefreshSlotGrid, Payload: typeID}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue slot grid refresh", zap.String("appointment_type_id", typeID), zap.Error(err))
	}
}

// JobRefreshSlotGrid recomputes the cached slot grid of one appointment type.
const JobRefreshSlotGrid = "slots.refresh"

// RefreshHandler returns a job handler that warms the slot grid cache in the
// type's home timezone after bookings and configuration changes.
func RefreshHandler(slots *SlotService, types slotTypeReader, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		typeID, ok := job.Payload.(string)
		if !ok {
			logger.Warn("refresh job carries an unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		at, err := types.FindByID(ctx, typeID)
		if err != nil {
			return err
		}
		_, err = slots.Slots(ctx, typeID, at.Timezone, "")
		return err
	}
}
