package repository

import (
	"fmt"
	"time"

	"gearguard-backend/internal/database/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const reportView = "maintenance_report"

// ReportFilter narrows rows of the maintenance report
type ReportFilter struct {
	TeamID          *uuid.UUID
	CategoryID      *uuid.UUID
	TechnicianID    *uuid.UUID
	EquipmentID     *uuid.UUID
	MaintenanceType models.MaintenanceType
	Stage           models.Stage
	DateFrom        *time.Time
	DateTo          *time.Time
}

// ReportDimension is a column the report can be grouped by
type ReportDimension string

const (
	DimensionTeam            ReportDimension = "team"
	DimensionCategory        ReportDimension = "category"
	DimensionTechnician      ReportDimension = "technician"
	DimensionMaintenanceType ReportDimension = "maintenance_type"
	DimensionStage           ReportDimension = "stage"
)

var dimensionColumns = map[ReportDimension]struct {
	column string
	null   string
}{
	DimensionTeam:            {"team_id", "CAST(NULL AS uuid) AS team_id"},
	DimensionCategory:        {"category_id", "CAST(NULL AS uuid) AS category_id"},
	DimensionTechnician:      {"technician_id", "CAST(NULL AS uuid) AS technician_id"},
	DimensionMaintenanceType: {"maintenance_type", "CAST(NULL AS varchar) AS maintenance_type"},
	DimensionStage:           {"stage", "CAST(NULL AS varchar) AS stage"},
}

var dimensionOrder = []ReportDimension{
	DimensionTeam, DimensionCategory, DimensionTechnician, DimensionMaintenanceType, DimensionStage,
}

// IsValid checks if the ReportDimension is valid
func (d ReportDimension) IsValid() bool {
	_, ok := dimensionColumns[d]
	return ok
}

// ReportGroup is one aggregated bucket of the maintenance report
type ReportGroup struct {
	TeamID            *uuid.UUID              `json:"team_id,omitempty"`
	CategoryID        *uuid.UUID              `json:"category_id,omitempty"`
	TechnicianID      *uuid.UUID              `json:"technician_id,omitempty"`
	MaintenanceType   *models.MaintenanceType `json:"maintenance_type,omitempty"`
	Stage             *models.Stage           `json:"stage,omitempty"`
	RequestCount      int64                   `json:"request_count"`
	Duration          float64                 `json:"duration"`
	CostParts         float64                 `json:"cost_parts"`
	CostLabor         float64                 `json:"cost_labor"`
	CostTotal         float64                 `json:"cost_total"`
	AvgResolutionDays *float64                `json:"avg_resolution_days,omitempty"`
}

// ReportSummary holds the headline figures of the maintenance report
type ReportSummary struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalDuration     float64 `json:"total_duration"`
	TotalCost         float64 `json:"total_cost"`
	AvgResolutionDays float64 `json:"avg_resolution_time"`
	CorrectiveCount   int64   `json:"corrective_count"`
	PreventiveCount   int64   `json:"preventive_count"`
}

// ReportRepository queries the maintenance_report view
type ReportRepository struct {
	db *gorm.DB
}

// Ensure ReportRepository implements ReportRepositoryInterface
var _ ReportRepositoryInterface = (*ReportRepository)(nil)

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func applyReportFilter(b sq.SelectBuilder, filter ReportFilter) sq.SelectBuilder {
	if filter.TeamID != nil {
		b = b.Where(sq.Eq{"team_id": *filter.TeamID})
	}
	if filter.CategoryID != nil {
		b = b.Where(sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.TechnicianID != nil {
		b = b.Where(sq.Eq{"technician_id": *filter.TechnicianID})
	}
	if filter.EquipmentID != nil {
		b = b.Where(sq.Eq{"equipment_id": *filter.EquipmentID})
	}
	if filter.MaintenanceType != "" {
		b = b.Where(sq.Eq{"maintenance_type": string(filter.MaintenanceType)})
	}
	if filter.Stage != "" {
		b = b.Where(sq.Eq{"stage": string(filter.Stage)})
	}
	if filter.DateFrom != nil {
		b = b.Where(sq.GtOrEq{"request_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		b = b.Where(sq.LtOrEq{"request_date": *filter.DateTo})
	}
	return b
}

// List retrieves report rows with pagination, newest requests first
func (r *ReportRepository) List(filter ReportFilter, limit, offset int) ([]models.MaintenanceReport, int64, error) {
	countSQL, countArgs, err := applyReportFilter(sq.Select("COUNT(*)").From(reportView), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build report count query: %w", err)
	}
	var total int64
	if err := r.db.Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.MaintenanceReport{}
	if total == 0 {
		return rows, 0, nil
	}

	builder := applyReportFilter(sq.Select("*").From(reportView), filter).
		OrderBy("request_date DESC", "name ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit)).Offset(uint64(offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build report query: %w", err)
	}
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Group aggregates report rows by one or more dimensions
func (r *ReportRepository) Group(filter ReportFilter, dimensions []ReportDimension) ([]ReportGroup, error) {
	selected := make(map[ReportDimension]bool, len(dimensions))
	for _, d := range dimensions {
		if !d.IsValid() {
			return nil, fmt.Errorf("unknown report dimension %q", d)
		}
		selected[d] = true
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("at least one report dimension is required")
	}

	var columns, groupBy []string
	for _, d := range dimensionOrder {
		col := dimensionColumns[d]
		if selected[d] {
			columns = append(columns, col.column)
			groupBy = append(groupBy, col.column)
		} else {
			columns = append(columns, col.null)
		}
	}
	columns = append(columns,
		"SUM(request_count) AS request_count",
		"COALESCE(SUM(duration), 0) AS duration",
		"COALESCE(SUM(cost_parts), 0) AS cost_parts",
		"COALESCE(SUM(cost_labor), 0) AS cost_labor",
		"COALESCE(SUM(cost_total), 0) AS cost_total",
		"AVG(resolution_days) AS avg_resolution_days",
	)

	query, args, err := applyReportFilter(sq.Select(columns...).From(reportView), filter).
		GroupBy(groupBy...).
		OrderBy(groupBy...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build report group query: %w", err)
	}

	groups := []ReportGroup{}
	if err := r.db.Raw(query, args...).Scan(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Summary computes the headline figures of the report
func (r *ReportRepository) Summary(filter ReportFilter) (*ReportSummary, error) {
	query, args, err := applyReportFilter(sq.Select(
		"COUNT(*) AS total_requests",
		"COALESCE(SUM(duration), 0) AS total_duration",
		"COALESCE(SUM(cost_total), 0) AS total_cost",
		"COALESCE(AVG(resolution_days), 0) AS avg_resolution_days",
		fmt.Sprintf("COUNT(*) FILTER (WHERE maintenance_type = '%s') AS corrective_count", models.MaintenanceTypeCorrective),
		fmt.Sprintf("COUNT(*) FILTER (WHERE maintenance_type = '%s') AS preventive_count", models.MaintenanceTypePreventive),
	).From(reportView), filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build report summary query: %w", err)
	}

	var summary ReportSummary
	if err := r.db.Raw(query, args...).Scan(&summary).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}
