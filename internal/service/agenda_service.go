package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/appointment-api/internal/models"
	appErrors "github.com/noah-isme/appointment-api/pkg/errors"
	"github.com/noah-isme/appointment-api/pkg/export"
)

// AgendaFormat selects the rendered agenda output.
type AgendaFormat string

const (
	AgendaCSV AgendaFormat = "csv"
	AgendaPDF AgendaFormat = "pdf"
)

type meetingLister interface {
	ListForStaff(ctx context.Context, staffID string, from, to time.Time) ([]models.Meeting, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// AgendaExport is a rendered agenda file.
type AgendaExport struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// AgendaService renders a staff member's upcoming booked meetings as a
// downloadable file. Times are rendered in the staff member's own timezone.
type AgendaService struct {
	staff    staffReader
	meetings meetingLister
	types    slotTypeReader
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger

	horizonDays int
	now         func() time.Time
}

// NewAgendaService constructs an AgendaService.
func NewAgendaService(staff staffReader, meetings meetingLister, types slotTypeReader, horizonDays int, logger *zap.Logger) *AgendaService {
	if horizonDays <= 0 {
		horizonDays = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgendaService{
		staff:       staff,
		meetings:    meetings,
		types:       types,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// Export renders the staff member's agenda over the configured horizon.
func (s *AgendaService) Export(ctx context.Context, staffID string, format AgendaFormat) (*AgendaExport, error) {
	staff, err := s.staff.FindByID(ctx, staffID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
	}
	loc, err := time.LoadLocation(staff.Timezone)
	if err != nil {
		loc = time.UTC
	}

	from := s.now().UTC()
	to := from.AddDate(0, 0, s.horizonDays)
	meetings, err := s.meetings.ListForStaff(ctx, staffID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meetings")
	}

	dataset := s.buildDataset(ctx, meetings, loc)
	title := fmt.Sprintf("Agenda for %s", staff.FullName)
	stamp := from.Format("20060102")

	switch format {
	case AgendaCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render agenda")
		}
		return &AgendaExport{
			Filename:    fmt.Sprintf("agenda_%s_%s.csv", sanitizeFilename(staff.FullName), stamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case AgendaPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render agenda")
		}
		return &AgendaExport{
			Filename:    fmt.Sprintf("agenda_%s_%s.pdf", sanitizeFilename(staff.FullName), stamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported agenda format %q", format))
	}
}

func (s *AgendaService) buildDataset(ctx context.Context, meetings []models.Meeting, loc *time.Location) export.Dataset {
	typeNames := map[string]string{}
	rows := make([]map[string]string, 0, len(meetings))
	for _, meeting := range meetings {
		typeName := ""
		if meeting.AppointmentTypeID != nil {
			typeName = s.typeName(ctx, typeNames, *meeting.AppointmentTypeID)
		}
		start := meeting.StartAt.In(loc)
		end := meeting.EndAt.In(loc)
		timeRange := fmt.Sprintf("%s - %s", start.Format("15:04"), end.Format("15:04"))
		if meeting.AllDay {
			timeRange = "All day"
		}
		rows = append(rows, map[string]string{
			"Date":             start.Format("2006-01-02"),
			"Time":             timeRange,
			"Customer":         meeting.CustomerName,
			"Email":            meeting.CustomerEmail,
			"Appointment Type": typeName,
		})
	}
	return export.Dataset{
		Headers: []string{"Date", "Time", "Customer", "Email", "Appointment Type"},
		Rows:    rows,
	}
}

func (s *AgendaService) typeName(ctx context.Context, cache map[string]string, typeID string) string {
	if name, ok := cache[typeID]; ok {
		return name
	}
	name := ""
	if at, err := s.types.FindByID(ctx, typeID); err == nil {
		name = at.Name
	}
	cache[typeID] = name
	return name
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := strings.ToLower(replacer.Replace(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
