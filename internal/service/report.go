package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	reportSheet      = "Maintenance"
	maxExportRows    = 10000
	reportSheetStart = "A1"
)

var reportHeaders = []interface{}{
	"Request", "Equipment", "Type", "Stage", "Priority", "Request Date", "Scheduled Date",
	"Close Date", "Duration (h)", "Parts Cost", "Labor Cost", "Total Cost", "Resolution (days)",
}

// ReportService serves the read-only maintenance report
type ReportService struct {
	repo repository.ReportRepositoryInterface
}

// Ensure ReportService implements ReportServiceInterface
var _ ReportServiceInterface = (*ReportService)(nil)

// NewReportService creates a new report service
func NewReportService(repo repository.ReportRepositoryInterface) *ReportService {
	return &ReportService{repo: repo}
}

// ReportParams narrows the rows of the maintenance report
type ReportParams struct {
	TeamID          *uuid.UUID
	CategoryID      *uuid.UUID
	TechnicianID    *uuid.UUID
	EquipmentID     *uuid.UUID
	MaintenanceType models.MaintenanceType
	Stage           models.Stage
	DateFrom        *time.Time
	DateTo          *time.Time
}

// ReportListResponse represents a page of report rows
type ReportListResponse struct {
	Rows     []models.MaintenanceReport `json:"rows"`
	Total    int64                      `json:"total"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"page_size"`
}

// ReportGroupResponse holds the aggregated buckets of a grouped report
type ReportGroupResponse struct {
	Dimensions []string                 `json:"dimensions"`
	Groups     []repository.ReportGroup `json:"groups"`
}

// ReportSummaryResponse holds the headline report figures
type ReportSummaryResponse struct {
	repository.ReportSummary
}

func (p ReportParams) filter() repository.ReportFilter {
	return repository.ReportFilter{
		TeamID:          p.TeamID,
		CategoryID:      p.CategoryID,
		TechnicianID:    p.TechnicianID,
		EquipmentID:     p.EquipmentID,
		MaintenanceType: p.MaintenanceType,
		Stage:           p.Stage,
		DateFrom:        p.DateFrom,
		DateTo:          p.DateTo,
	}
}

// List retrieves report rows with pagination
func (s *ReportService) List(params ReportParams, page, pageSize int) (*ReportListResponse, error) {
	page, pageSize, offset := normalizePage(page, pageSize)

	rows, total, err := s.repo.List(params.filter(), pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list report rows: %w", err)
	}
	return &ReportListResponse{
		Rows:     rows,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Group aggregates the report by one or more dimensions
func (s *ReportService) Group(params ReportParams, dimensions []string) (*ReportGroupResponse, error) {
	dims, err := ParseDimensions(dimensions)
	if err != nil {
		return nil, err
	}

	groups, err := s.repo.Group(params.filter(), dims)
	if err != nil {
		return nil, fmt.Errorf("failed to group report: %w", err)
	}

	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = string(d)
	}
	return &ReportGroupResponse{Dimensions: names, Groups: groups}, nil
}

// Summary returns the headline figures for the filtered rows
func (s *ReportService) Summary(params ReportParams) (*ReportSummaryResponse, error) {
	summary, err := s.repo.Summary(params.filter())
	if err != nil {
		return nil, fmt.Errorf("failed to summarize report: %w", err)
	}
	return &ReportSummaryResponse{ReportSummary: *summary}, nil
}

// Export renders the filtered rows as an XLSX workbook
func (s *ReportService) Export(params ReportParams) ([]byte, error) {
	rows, _, err := s.repo.List(params.filter(), maxExportRows, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list report rows: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(reportSheet, reportSheetStart, &reportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(reportHeaders), 1)
	if err := f.SetCellStyle(reportSheet, reportSheetStart, lastHeader, style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := reportRow(&rows[i])
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	_ = f.SetColWidth(reportSheet, "A", "B", 30)
	_ = f.SetColWidth(reportSheet, "F", "H", 15)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func reportRow(r *models.MaintenanceReport) []interface{} {
	var resolution interface{}
	if r.ResolutionDays != nil {
		resolution = *r.ResolutionDays
	}
	return []interface{}{
		r.Name,
		r.EquipmentName,
		string(r.MaintenanceType),
		string(r.Stage),
		int(r.Priority),
		r.RequestDate.Format(dateLayout),
		formatDate(r.ScheduleDate),
		formatDate(r.CloseDate),
		r.Duration,
		r.CostParts,
		r.CostLabor,
		r.CostTotal,
		resolution,
	}
}

// ParseDimensions validates report grouping dimensions, accepting comma
// separated entries
func ParseDimensions(raw []string) ([]repository.ReportDimension, error) {
	var dims []repository.ReportDimension
	seen := map[repository.ReportDimension]bool{}
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			d := repository.ReportDimension(part)
			if !d.IsValid() {
				return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidReportDimension, part)
			}
			if !seen[d] {
				seen[d] = true
				dims = append(dims, d)
			}
		}
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: at least one dimension is required", apperrors.ErrInvalidReportDimension)
	}
	return dims, nil
}
