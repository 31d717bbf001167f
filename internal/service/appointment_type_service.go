package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/appointment-api/internal/models"
	appErrors "github.com/noah-isme/appointment-api/pkg/errors"
)

type appointmentTypeRepository interface {
	FindByID(ctx context.Context, id string) (*models.AppointmentType, error)
	List(ctx context.Context, filter models.AppointmentTypeFilter) ([]models.AppointmentType, int, error)
	Create(ctx context.Context, at *models.AppointmentType) error
	Update(ctx context.Context, at *models.AppointmentType) error
	Delete(ctx context.Context, id string) error
	FindWorkHoursByStaff(ctx context.Context, staffID string) (*models.AppointmentType, error)
}

type staffReader interface {
	FindByID(ctx context.Context, id string) (*models.StaffMember, error)
}

// SlotTemplateRequest is one availability window in a type payload.
type SlotTemplateRequest struct {
	Type      models.SlotTemplateType `json:"slot_type" validate:"required,oneof=recurring unique"`
	Weekday   int                     `json:"weekday" validate:"omitempty,min=1,max=7"`
	StartHour float64                 `json:"start_hour" validate:"min=0,max=24"`
	EndHour   float64                 `json:"end_hour" validate:"min=0,max=24"`
	StartAt   *time.Time              `json:"start_at"`
	EndAt     *time.Time              `json:"end_at"`
	AllDay    bool                    `json:"all_day"`
}

// CreateAppointmentTypeRequest represents payload for creating appointment types.
type CreateAppointmentTypeRequest struct {
	Name             string                     `json:"name" validate:"required,max=200"`
	Category         models.AppointmentCategory `json:"category" validate:"required,oneof=website custom work_hours"`
	Duration         float64                    `json:"duration_hours" validate:"required,gt=0,lte=24"`
	MinScheduleHours float64                    `json:"min_schedule_hours" validate:"min=0"`
	MaxScheduleDays  int                        `json:"max_schedule_days" validate:"required,min=1,max=365"`
	Timezone         string                     `json:"timezone" validate:"required"`
	StaffIDs         []string                   `json:"staff_ids"`
	Slots            []SlotTemplateRequest      `json:"slot_templates" validate:"dive"`
}

// UpdateAppointmentTypeRequest represents payload for updating appointment types.
type UpdateAppointmentTypeRequest struct {
	Name             string                `json:"name" validate:"required,max=200"`
	Duration         float64               `json:"duration_hours" validate:"required,gt=0,lte=24"`
	MinScheduleHours float64               `json:"min_schedule_hours" validate:"min=0"`
	MaxScheduleDays  int                   `json:"max_schedule_days" validate:"required,min=1,max=365"`
	Timezone         string                `json:"timezone" validate:"required"`
	StaffIDs         []string              `json:"staff_ids"`
	Slots            []SlotTemplateRequest `json:"slot_templates" validate:"dive"`
	Active           *bool                 `json:"active"`
}

// UniqueSlotRequest is one hand-picked window for a custom type.
type UniqueSlotRequest struct {
	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required"`
	AllDay  bool      `json:"all_day"`
}

// CreateCustomRequest represents payload for creating a custom type from
// hand-picked slots on behalf of one staff member.
type CreateCustomRequest struct {
	Name    string              `json:"name" validate:"omitempty,max=200"`
	StaffID string              `json:"staff_id" validate:"required"`
	Slots   []UniqueSlotRequest `json:"slots" validate:"required,min=1,dive"`
}

// AppointmentTypeService orchestrates appointment type configuration.
type AppointmentTypeService struct {
	repo      appointmentTypeRepository
	staff     staffReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAppointmentTypeService constructs an AppointmentTypeService.
func NewAppointmentTypeService(repo appointmentTypeRepository, staff staffReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AppointmentTypeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentTypeService{repo: repo, staff: staff, cache: cache, validator: validate, logger: logger}
}

// List returns appointment types plus pagination data.
func (s *AppointmentTypeService) List(ctx context.Context, filter models.AppointmentTypeFilter) ([]models.AppointmentType, *models.Pagination, error) {
	types, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointment types")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return types, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns an appointment type with its templates and staff pool.
func (s *AppointmentTypeService) Get(ctx context.Context, id string) (*models.AppointmentType, error) {
	at, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment type")
	}
	return at, nil
}

// Create registers a new appointment type and its slot templates.
func (s *AppointmentTypeService) Create(ctx context.Context, req CreateAppointmentTypeRequest) (*models.AppointmentType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment type payload")
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", req.Timezone))
	}

	at := &models.AppointmentType{
		Name:             strings.TrimSpace(req.Name),
		Category:         req.Category,
		Duration:         req.Duration,
		MinScheduleHours: req.MinScheduleHours,
		MaxScheduleDays:  req.MaxScheduleDays,
		Timezone:         req.Timezone,
		Active:           true,
		StaffIDs:         req.StaffIDs,
	}
	templates, err := buildTemplates(req.Category, req.Slots)
	if err != nil {
		return nil, err
	}
	at.Templates = templates

	if err := s.checkStaffConfiguration(ctx, at, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, at); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create appointment type")
	}
	return at, nil
}

// Update replaces the configuration of an existing appointment type and
// invalidates any cached slot grids for it. Category is immutable.
func (s *AppointmentTypeService) Update(ctx context.Context, id string, req UpdateAppointmentTypeRequest) (*models.AppointmentType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment type payload")
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", req.Timezone))
	}

	at, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	at.Name = strings.TrimSpace(req.Name)
	at.Duration = req.Duration
	at.MinScheduleHours = req.MinScheduleHours
	at.MaxScheduleDays = req.MaxScheduleDays
	at.Timezone = req.Timezone
	at.StaffIDs = req.StaffIDs
	if req.Active != nil {
		at.Active = *req.Active
	}
	templates, err := buildTemplates(at.Category, req.Slots)
	if err != nil {
		return nil, err
	}
	at.Templates = templates

	if err := s.checkStaffConfiguration(ctx, at, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, at); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update appointment type")
	}
	s.invalidateGrids(ctx, id)
	return at, nil
}

// Delete removes an appointment type and its cached grids.
func (s *AppointmentTypeService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete appointment type")
	}
	s.invalidateGrids(ctx, id)
	return nil
}

// CreateCustom creates a custom appointment type from hand-picked slots,
// owned by a single staff member. Duration is taken from the first slot.
func (s *AppointmentTypeService) CreateCustom(ctx context.Context, req CreateCustomRequest) (*models.AppointmentType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid custom appointment payload")
	}
	staff, err := s.findStaff(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}

	templates := make([]models.SlotTemplate, 0, len(req.Slots))
	for _, slot := range req.Slots {
		if !slot.EndAt.After(slot.StartAt) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "slot end must be after slot start")
		}
		start := slot.StartAt.UTC()
		end := slot.EndAt.UTC()
		templates = append(templates, models.SlotTemplate{
			Type:    models.SlotUnique,
			StartAt: &start,
			EndAt:   &end,
			AllDay:  slot.AllDay,
		})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("Meeting with %s", staff.FullName)
	}
	at := &models.AppointmentType{
		Name:             name,
		Category:         models.CategoryCustom,
		Duration:         req.Slots[0].EndAt.Sub(req.Slots[0].StartAt).Hours(),
		MinScheduleHours: 1,
		MaxScheduleDays:  15,
		Timezone:         staff.Timezone,
		Active:           true,
		StaffIDs:         []string{staff.ID},
		Templates:        templates,
	}
	if err := s.repo.Create(ctx, at); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create custom appointment type")
	}
	return at, nil
}

// SearchCreateWorkHours returns the staff member's work-hours appointment
// type, creating it on first use. The seeded templates span the whole week,
// two twelve-hour ranges per weekday, so availability is bounded only by the
// staff member's working hours and booked meetings.
func (s *AppointmentTypeService) SearchCreateWorkHours(ctx context.Context, staffID string) (*models.AppointmentType, error) {
	staff, err := s.findStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindWorkHoursByStaff(ctx, staffID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up work hours appointment type")
	}
	if existing != nil {
		return existing, nil
	}

	templates := make([]models.SlotTemplate, 0, 14)
	for weekday := 1; weekday <= 7; weekday++ {
		templates = append(templates,
			models.SlotTemplate{Type: models.SlotRecurring, Weekday: weekday, StartHour: 0, EndHour: 12},
			models.SlotTemplate{Type: models.SlotRecurring, Weekday: weekday, StartHour: 12, EndHour: 24},
		)
	}
	at := &models.AppointmentType{
		Name:             fmt.Sprintf("Meeting with %s", staff.FullName),
		Category:         models.CategoryWorkHours,
		Duration:         1,
		MinScheduleHours: 1,
		MaxScheduleDays:  30,
		Timezone:         staff.Timezone,
		Active:           true,
		StaffIDs:         []string{staff.ID},
		Templates:        templates,
	}
	if err := s.repo.Create(ctx, at); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create work hours appointment type")
	}
	return at, nil
}

func (s *AppointmentTypeService) findStaff(ctx context.Context, staffID string) (*models.StaffMember, error) {
	staff, err := s.staff.FindByID(ctx, staffID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	return staff, nil
}

// checkStaffConfiguration enforces the category invariants: non-website types
// carry exactly one staff member, and a staff member owns at most one
// work-hours type.
func (s *AppointmentTypeService) checkStaffConfiguration(ctx context.Context, at *models.AppointmentType, excludeID string) error {
	if at.Category != models.CategoryWebsite && len(at.StaffIDs) != 1 {
		return appErrors.Clone(appErrors.ErrStaffConfiguration,
			fmt.Sprintf("this category of appointment type requires exactly one staff member but got %d", len(at.StaffIDs)))
	}
	if at.Category == models.CategoryWorkHours {
		existing, err := s.repo.FindWorkHoursByStaff(ctx, at.StaffIDs[0])
		if err != nil && err != sql.ErrNoRows {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check work hours uniqueness")
		}
		if existing != nil && existing.ID != excludeID {
			return appErrors.Clone(appErrors.ErrStaffConfiguration, "only one work hours appointment type is allowed per staff member")
		}
	}
	return nil
}

func (s *AppointmentTypeService) invalidateGrids(ctx context.Context, typeID string) {
	if s.cache == nil || !s.cache.Enabled() {
		return
	}
	if err := s.cache.InvalidateAppointmentType(ctx, typeID); err != nil {
		s.logger.Warn("failed to invalidate cached slot grids", zap.String("appointment_type_id", typeID), zap.Error(err))
	}
}

func buildTemplates(category models.AppointmentCategory, slots []SlotTemplateRequest) ([]models.SlotTemplate, error) {
	templates := make([]models.SlotTemplate, 0, len(slots))
	for _, slot := range slots {
		switch slot.Type {
		case models.SlotRecurring:
			if category == models.CategoryCustom {
				return nil, appErrors.Clone(appErrors.ErrValidation, "custom appointment types only accept unique slots")
			}
			if slot.Weekday < 1 || slot.Weekday > 7 {
				return nil, appErrors.Clone(appErrors.ErrValidation, "recurring slots require a weekday between 1 and 7")
			}
			if slot.EndHour <= slot.StartHour {
				return nil, appErrors.Clone(appErrors.ErrValidation, "recurring slot end hour must be after start hour")
			}
			templates = append(templates, models.SlotTemplate{
				Type:      models.SlotRecurring,
				Weekday:   slot.Weekday,
				StartHour: slot.StartHour,
				EndHour:   slot.EndHour,
			})
		case models.SlotUnique:
			if category != models.CategoryCustom {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unique slots are only allowed on custom appointment types")
			}
			if slot.StartAt == nil || slot.EndAt == nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unique slots require start and end datetimes")
			}
			if !slot.EndAt.After(*slot.StartAt) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unique slot end must be after its start")
			}
			start := slot.StartAt.UTC()
			end := slot.EndAt.UTC()
			templates = append(templates, models.SlotTemplate{
				Type:    models.SlotUnique,
				StartAt: &start,
				EndAt:   &end,
				AllDay:  slot.AllDay,
			})
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown slot type")
		}
	}
	return templates, nil
}
