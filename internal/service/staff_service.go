package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/appointment-api/internal/models"
	appErrors "github.com/noah-isme/appointment-api/pkg/errors"
)

type staffRepository interface {
	FindByID(ctx context.Context, id string) (*models.StaffMember, error)
	List(ctx context.Context, filter models.StaffFilter) ([]models.StaffMember, int, error)
	Create(ctx context.Context, staff *models.StaffMember) error
	Update(ctx context.Context, staff *models.StaffMember) error
	SetWorkingHours(ctx context.Context, staffID string, hours []models.WorkingHours) error
}

type workingHoursReader interface {
	ListByStaff(ctx context.Context, staffID string) ([]models.WorkingHours, error)
}

// CreateStaffRequest represents payload for creating staff members.
type CreateStaffRequest struct {
	FullName string `json:"full_name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Timezone string `json:"timezone" validate:"required"`
}

// UpdateStaffRequest represents payload for updating staff members.
type UpdateStaffRequest struct {
	FullName string `json:"full_name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Timezone string `json:"timezone" validate:"required"`
	Active   *bool  `json:"active"`
}

// WorkingHoursRequest is one weekly attendance range in the staff member's
// own timezone.
type WorkingHoursRequest struct {
	Weekday   int     `json:"weekday" validate:"required,min=1,max=7"`
	StartHour float64 `json:"start_hour" validate:"min=0,max=24"`
	EndHour   float64 `json:"end_hour" validate:"min=0,max=24"`
}

// StaffService manages the staff roster and weekly working hours.
type StaffService struct {
	repo      staffRepository
	hours     workingHoursReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(repo staffRepository, hours workingHoursReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, hours: hours, cache: cache, validator: validate, logger: logger}
}

// List returns staff members plus pagination data.
func (s *StaffService) List(ctx context.Context, filter models.StaffFilter) ([]models.StaffMember, *models.Pagination, error) {
	staff, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff members")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return staff, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a staff member by id.
func (s *StaffService) Get(ctx context.Context, id string) (*models.StaffMember, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	return staff, nil
}

// Create registers a new staff member.
func (s *StaffService) Create(ctx context.Context, req CreateStaffRequest) (*models.StaffMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", req.Timezone))
	}

	staff := &models.StaffMember{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Timezone: req.Timezone,
		Active:   true,
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff member")
	}
	return staff, nil
}

// Update modifies an existing staff member. Timezone changes shift the UTC
// projection of their working hours, so cached grids are dropped.
func (s *StaffService) Update(ctx context.Context, id string, req UpdateStaffRequest) (*models.StaffMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", req.Timezone))
	}

	staff, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	staff.FullName = strings.TrimSpace(req.FullName)
	staff.Email = strings.TrimSpace(req.Email)
	staff.Timezone = req.Timezone
	if req.Active != nil {
		staff.Active = *req.Active
	}
	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update staff member")
	}
	s.invalidateGrids(ctx)
	return staff, nil
}

// WorkingHours returns the staff member's weekly attendance rows.
func (s *StaffService) WorkingHours(ctx context.Context, staffID string) ([]models.WorkingHours, error) {
	if _, err := s.Get(ctx, staffID); err != nil {
		return nil, err
	}
	hours, err := s.hours.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load working hours")
	}
	return hours, nil
}

// SetWorkingHours replaces the staff member's weekly attendance and drops all
// cached grids, since every type the staff member serves is affected.
func (s *StaffService) SetWorkingHours(ctx context.Context, staffID string, reqs []WorkingHoursRequest) ([]models.WorkingHours, error) {
	if _, err := s.Get(ctx, staffID); err != nil {
		return nil, err
	}
	hours := make([]models.WorkingHours, 0, len(reqs))
	for _, req := range reqs {
		if err := s.validator.Struct(req); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid working hours payload")
		}
		if req.EndHour <= req.StartHour {
			return nil, appErrors.Clone(appErrors.ErrValidation, "working hours end must be after start")
		}
		hours = append(hours, models.WorkingHours{
			StaffID:   staffID,
			Weekday:   req.Weekday,
			StartHour: req.StartHour,
			EndHour:   req.EndHour,
		})
	}
	sort.SliceStable(hours, func(i, j int) bool {
		if hours[i].Weekday != hours[j].Weekday {
			return hours[i].Weekday < hours[j].Weekday
		}
		return hours[i].StartHour < hours[j].StartHour
	})
	if err := s.repo.SetWorkingHours(ctx, staffID, hours); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save working hours")
	}
	s.invalidateGrids(ctx)
	return hours, nil
}

func (s *StaffService) invalidateGrids(ctx context.Context) {
	if s.cache == nil || !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, "slots:*"); err != nil {
		s.logger.Warn("failed to invalidate cached slot grids", zap.Error(err))
	}
}
