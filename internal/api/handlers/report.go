package handlers

import (
	"net/http"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	reportFilename  = "maintenance_report.xlsx"
)

// ReportHandler serves the read-only maintenance report
type ReportHandler struct {
	reportService service.ReportServiceInterface
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService service.ReportServiceInterface) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func reportParams(c *gin.Context) (service.ReportParams, error) {
	var params service.ReportParams
	var err error
	if params.TeamID, err = queryUUID(c, "team_id"); err != nil {
		return params, err
	}
	if params.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		return params, err
	}
	if params.TechnicianID, err = queryUUID(c, "technician_id"); err != nil {
		return params, err
	}
	if params.EquipmentID, err = queryUUID(c, "equipment_id"); err != nil {
		return params, err
	}
	if params.DateFrom, err = queryDate(c, "date_from"); err != nil {
		return params, err
	}
	if params.DateTo, err = queryDate(c, "date_to"); err != nil {
		return params, err
	}
	if params.DateFrom != nil && params.DateTo != nil && params.DateTo.Before(*params.DateFrom) {
		return params, apperrors.NewValidationError("date_to", "date_to must not be before date_from")
	}
	if t := models.MaintenanceType(c.Query("maintenance_type")); t != "" {
		if !t.IsValid() {
			return params, apperrors.NewValidationError("maintenance_type", "unknown maintenance type")
		}
		params.MaintenanceType = t
	}
	if s := models.Stage(c.Query("stage")); s != "" {
		if !s.IsValid() {
			return params, apperrors.NewValidationError("stage", "unknown stage")
		}
		params.Stage = s
	}
	return params, nil
}

// ListRows handles GET /reports/maintenance
// @Summary List maintenance report rows
// @Description One row per request with equipment, costs and resolution time
// @Tags reports
// @Produce json
// @Param date_from query string false "Request date from (YYYY-MM-DD)"
// @Param date_to query string false "Request date to (YYYY-MM-DD)"
// @Param team_id query string false "Team ID (UUID)"
// @Param category_id query string false "Category ID (UUID)"
// @Param technician_id query string false "Technician ID (UUID)"
// @Param equipment_id query string false "Equipment ID (UUID)"
// @Param maintenance_type query string false "Maintenance type" Enums(corrective, preventive)
// @Param stage query string false "Stage" Enums(new, in_progress, repaired, scrap)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(20)
// @Success 200 {object} service.ReportListResponse "Report rows"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Security BearerAuth
// @Router /reports/maintenance [get]
func (h *ReportHandler) ListRows(c *gin.Context) {
	params, err := reportParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, pageSize := pagination(c)

	resp, err := h.reportService.List(params, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Groups handles GET /reports/maintenance/groups
// @Summary Group the maintenance report
// @Description Counts, costs and average resolution per bucket of the requested dimensions
// @Tags reports
// @Produce json
// @Param group_by query []string true "Dimensions" collectionFormat(multi) Enums(team, category, technician, maintenance_type, stage)
// @Success 200 {object} service.ReportGroupResponse "Grouped report"
// @Failure 400 {object} ErrorResponse "Unknown dimension or invalid filter"
// @Security BearerAuth
// @Router /reports/maintenance/groups [get]
func (h *ReportHandler) Groups(c *gin.Context) {
	params, err := reportParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.reportService.Group(params, c.QueryArray("group_by"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Summary handles GET /reports/maintenance/summary
// @Summary Summarize the maintenance report
// @Tags reports
// @Produce json
// @Success 200 {object} service.ReportSummaryResponse "Headline figures"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Security BearerAuth
// @Router /reports/maintenance/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	params, err := reportParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.reportService.Summary(params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Export handles GET /reports/maintenance/export
// @Summary Export the maintenance report as XLSX
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "Workbook"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Security BearerAuth
// @Router /reports/maintenance/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	params, err := reportParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.reportService.Export(params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+reportFilename)
	c.Data(http.StatusOK, xlsxContentType, data)
}
