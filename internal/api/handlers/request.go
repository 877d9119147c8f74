package handlers

import (
	"net/http"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestHandler handles HTTP requests for maintenance request operations
type RequestHandler struct {
	requestService service.RequestServiceInterface
}

// NewRequestHandler creates a new maintenance request handler
func NewRequestHandler(requestService service.RequestServiceInterface) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRequest handles POST /requests
// @Summary Create a maintenance request
// @Description Category, team and technician are filled from the equipment when not given
// @Tags requests
// @Accept json
// @Produce json
// @Param request body service.CreateRequestRequest true "Request data"
// @Success 201 {object} service.RequestResponse "Successfully created request"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Equipment or team not found"
// @Security BearerAuth
// @Router /requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req service.CreateRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.requestService.Create(actorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetRequest handles GET /requests/:id
// @Summary Get maintenance request by ID
// @Tags requests
// @Produce json
// @Param id path string true "Request ID (UUID)"
// @Success 200 {object} service.RequestResponse "Successfully retrieved request"
// @Failure 404 {object} ErrorResponse "Request not found"
// @Security BearerAuth
// @Router /requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, ok := pathID(c, "request")
	if !ok {
		return
	}

	resp, err := h.requestService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListRequests handles GET /requests
// @Summary List maintenance requests
// @Tags requests
// @Produce json
// @Param equipment_id query string false "Equipment ID (UUID)"
// @Param category_id query string false "Category ID (UUID)"
// @Param team_id query string false "Team ID (UUID)"
// @Param technician_id query string false "Technician ID (UUID)"
// @Param stage query string false "Comma separated stages" example(new,in_progress)
// @Param maintenance_type query string false "Maintenance type" Enums(corrective, preventive)
// @Param overdue query bool false "Only overdue requests"
// @Param search query string false "Match on request name"
// @Param include_archived query bool false "Include archived requests"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(20)
// @Success 200 {object} service.RequestListResponse "Successfully retrieved requests"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Security BearerAuth
// @Router /requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	h.list(c, "", uuid.Nil)
}

// ListBy returns a handler listing the requests of the :id in scope
func (h *RequestHandler) ListBy(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, scope)
		if !ok {
			return
		}
		h.list(c, scope, id)
	}
}

func (h *RequestHandler) list(c *gin.Context, scope string, scopeID uuid.UUID) {
	params, err := requestParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	switch scope {
	case ScopeCategory:
		params.CategoryID = &scopeID
	case ScopeTeam:
		params.TeamID = &scopeID
	case ScopeEquipment:
		params.EquipmentID = &scopeID
	}
	page, pageSize := pagination(c)

	resp, err := h.requestService.List(params, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func requestParams(c *gin.Context) (service.RequestListParams, error) {
	var params service.RequestListParams
	var err error
	if params.EquipmentID, err = queryUUID(c, "equipment_id"); err != nil {
		return params, err
	}
	if params.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		return params, err
	}
	if params.TeamID, err = queryUUID(c, "team_id"); err != nil {
		return params, err
	}
	if params.TechnicianID, err = queryUUID(c, "technician_id"); err != nil {
		return params, err
	}
	if params.Stages, err = service.ParseStages(c.Query("stage")); err != nil {
		return params, err
	}
	if t := models.MaintenanceType(c.Query("maintenance_type")); t != "" {
		if !t.IsValid() {
			return params, apperrors.NewValidationError("maintenance_type", "unknown maintenance type")
		}
		params.MaintenanceType = t
	}
	overdue, err := queryBool(c, "overdue")
	if err != nil {
		return params, err
	}
	params.OverdueOnly = overdue != nil && *overdue
	archived, err := queryBool(c, "include_archived")
	if err != nil {
		return params, err
	}
	params.IncludeArchived = archived != nil && *archived
	params.Search = c.Query("search")
	return params, nil
}

// GetOverdue handles GET /requests/overdue
// @Summary List overdue maintenance requests
// @Description Open requests whose scheduled date is before today
// @Tags requests
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(20)
// @Success 200 {object} service.RequestListResponse "Overdue requests"
// @Security BearerAuth
// @Router /requests/overdue [get]
func (h *RequestHandler) GetOverdue(c *gin.Context) {
	page, pageSize := pagination(c)

	resp, err := h.requestService.GetOverdue(page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateRequest handles PATCH /requests/:id
// @Summary Update a maintenance request
// @Description Only the fields present in the body are written; null clears a field
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID (UUID)"
// @Param request body service.UpdateRequestRequest true "Fields to change"
// @Success 200 {object} service.RequestResponse "Successfully updated request"
// @Failure 400 {object} ErrorResponse "Invalid request or close date before schedule date"
// @Failure 404 {object} ErrorResponse "Request not found"
// @Security BearerAuth
// @Router /requests/{id} [patch]
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	id, ok := pathID(c, "request")
	if !ok {
		return
	}

	var req service.UpdateRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.requestService.Update(actorFrom(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// BatchUpdate handles PATCH /requests
// @Summary Apply the same change to several maintenance requests
// @Description Requests moved to scrap in one batch scrap each equipment once
// @Tags requests
// @Accept json
// @Produce json
// @Param batch body service.BatchUpdateRequest true "Request IDs and values"
// @Success 200 {object} service.RequestBatchResponse "Updated requests"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Request not found"
// @Security BearerAuth
// @Router /requests [patch]
func (h *RequestHandler) BatchUpdate(c *gin.Context) {
	var req service.BatchUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.requestService.BatchUpdate(actorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ArchiveRequest handles DELETE /requests/:id
// @Summary Archive a maintenance request
// @Tags requests
// @Param id path string true "Request ID (UUID)"
// @Success 204 "Request archived"
// @Failure 404 {object} ErrorResponse "Request not found"
// @Security BearerAuth
// @Router /requests/{id} [delete]
func (h *RequestHandler) ArchiveRequest(c *gin.Context) {
	id, ok := pathID(c, "request")
	if !ok {
		return
	}

	if err := h.requestService.Archive(id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Onchange handles POST /requests/onchange
// @Summary Preview the defaults a field change fills in
// @Description Selecting equipment fills category, team and technician. Selecting a team drops a technician outside it.
// @Tags requests
// @Accept json
// @Produce json
// @Param change body service.OnchangeRequest true "Changed field and current values"
// @Success 200 {object} service.OnchangeResponse "Resulting values"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Equipment or team not found"
// @Security BearerAuth
// @Router /requests/onchange [post]
func (h *RequestHandler) Onchange(c *gin.Context) {
	var req service.OnchangeRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.requestService.Onchange(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type requestAction func(actor *uuid.UUID, id uuid.UUID) (*service.ActionResponse, error)

func (h *RequestHandler) runAction(c *gin.Context, action requestAction) {
	id, ok := pathID(c, "request")
	if !ok {
		return
	}

	resp, err := action(actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Start handles POST /requests/:id/start
// @Summary Start work on a new request
// @Description Moves the request to in progress and assigns the acting user when no technician is set
// @Tags requests
// @Produce json
// @Param id path string true "Request ID (UUID)"
// @Success 200 {object} service.ActionResponse "Request started"
// @Failure 404 {object} ErrorResponse "Request not found"
// @Failure 409 {object} ErrorResponse "Request is not new"
// @Security BearerAuth
// @Router /requests/{id}/start [post]
func (h *RequestHandler) Start(c *gin.Context) {
	h.runAction(c, h.requestService.Start)
}

// Complete handles POST /requests/:id/complete
// @Summary Mark a request as repaired
// @Description Sets the close date to today. A zero duration is reported as a warning.
// @Tags requests
// @Produce json
// @Param id path string true "Request ID (UUID)"
// @Success 200 {object} service.ActionResponse "Request repaired"
// @Failure 404 {object} ErrorResponse "Request not found"
// @Failure 409 {object} ErrorResponse "Request is not in progress"
// @Security BearerAuth
// @Router /requests/{id}/complete [post]
func (h *RequestHandler) Complete(c *gin.Context) {
	h.runAction(c, h.requestService.Complete)
}

// Scrap handles POST /requests/:id/scrap
// @Summary Scrap a request and its equipment
// @Tags requests
// @Produce json
// @Param id path string true "Request ID (UUID)"
// @Success 200 {object} service.ActionResponse "Request scrapped"
// @Failure 404 {object} ErrorResponse "Request not found"
// @Security BearerAuth
// @Router /requests/{id}/scrap [post]
func (h *RequestHandler) Scrap(c *gin.Context) {
	h.runAction(c, h.requestService.Scrap)
}

// Reset handles POST /requests/:id/reset
// @Summary Move a request back to new
// @Tags requests
// @Produce json
// @Param id path string true "Request ID (UUID)"
// @Success 200 {object} service.ActionResponse "Request reset"
// @Failure 404 {object} ErrorResponse "Request not found"
// @Security BearerAuth
// @Router /requests/{id}/reset [post]
func (h *RequestHandler) Reset(c *gin.Context) {
	h.runAction(c, h.requestService.Reset)
}
