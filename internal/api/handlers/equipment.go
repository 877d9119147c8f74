package handlers

import (
	"net/http"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Scopes for nested listings such as /teams/:id/equipment
const (
	ScopeCategory  = "category"
	ScopeTeam      = "team"
	ScopeEquipment = "equipment"
)

// EquipmentHandler handles HTTP requests for equipment operations
type EquipmentHandler struct {
	equipmentService service.EquipmentServiceInterface
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(equipmentService service.EquipmentServiceInterface) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

// CreateEquipment handles POST /equipment
// @Summary Register equipment
// @Tags equipment
// @Accept json
// @Produce json
// @Param equipment body service.CreateEquipmentRequest true "Equipment data"
// @Success 201 {object} service.EquipmentResponse "Successfully created equipment"
// @Failure 400 {object} ErrorResponse "Invalid request body or technician outside team"
// @Failure 404 {object} ErrorResponse "Team or category not found"
// @Failure 409 {object} ErrorResponse "Serial number already registered"
// @Security BearerAuth
// @Router /equipment [post]
func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	var req service.CreateEquipmentRequest
	if !bindJSON(c, &req) {
		return
	}

	equipment, err := h.equipmentService.Create(actorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, equipment)
}

// GetEquipment handles GET /equipment/:id
// @Summary Get equipment by ID
// @Description Includes request counts, maintenance cost, downtime and MTBF
// @Tags equipment
// @Produce json
// @Param id path string true "Equipment ID (UUID)"
// @Success 200 {object} service.EquipmentResponse "Successfully retrieved equipment"
// @Failure 404 {object} ErrorResponse "Equipment not found"
// @Security BearerAuth
// @Router /equipment/{id} [get]
func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	id, ok := pathID(c, "equipment")
	if !ok {
		return
	}

	equipment, err := h.equipmentService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}

// ListEquipment handles GET /equipment
// @Summary List equipment
// @Tags equipment
// @Produce json
// @Param category_id query string false "Category ID (UUID)"
// @Param team_id query string false "Team ID (UUID)"
// @Param technician_id query string false "Technician ID (UUID)"
// @Param state query string false "Equipment state" Enums(operational, maintenance, scrapped)
// @Param warranty_alert query bool false "Only equipment whose warranty alert is on or off"
// @Param search query string false "Match on name or serial number"
// @Param include_archived query bool false "Include archived equipment"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(20)
// @Success 200 {object} service.EquipmentListResponse "Successfully retrieved equipment"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Security BearerAuth
// @Router /equipment [get]
func (h *EquipmentHandler) ListEquipment(c *gin.Context) {
	h.list(c, "", uuid.Nil)
}

// ListBy returns a handler listing the equipment of the :id in scope
func (h *EquipmentHandler) ListBy(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, scope)
		if !ok {
			return
		}
		h.list(c, scope, id)
	}
}

func (h *EquipmentHandler) list(c *gin.Context, scope string, scopeID uuid.UUID) {
	params, err := equipmentParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	switch scope {
	case ScopeCategory:
		params.CategoryID = &scopeID
	case ScopeTeam:
		params.TeamID = &scopeID
	}
	page, pageSize := pagination(c)

	resp, err := h.equipmentService.List(params, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func equipmentParams(c *gin.Context) (service.EquipmentListParams, error) {
	var params service.EquipmentListParams
	var err error
	if params.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		return params, err
	}
	if params.TeamID, err = queryUUID(c, "team_id"); err != nil {
		return params, err
	}
	if params.TechnicianID, err = queryUUID(c, "technician_id"); err != nil {
		return params, err
	}
	if params.WarrantyAlert, err = queryBool(c, "warranty_alert"); err != nil {
		return params, err
	}
	archived, err := queryBool(c, "include_archived")
	if err != nil {
		return params, err
	}
	params.IncludeArchived = archived != nil && *archived

	if state := models.EquipmentState(c.Query("state")); state != "" {
		if !state.IsValid() {
			return params, apperrors.NewValidationError("state", "unknown equipment state")
		}
		params.State = state
	}
	params.Search = c.Query("search")
	return params, nil
}

// UpdateEquipment handles PUT /equipment/:id
// @Summary Update equipment
// @Description Changing the team drops a technician who is not a member of the new team
// @Tags equipment
// @Accept json
// @Produce json
// @Param id path string true "Equipment ID (UUID)"
// @Param equipment body service.UpdateEquipmentRequest true "Fields to change"
// @Success 200 {object} service.EquipmentResponse "Successfully updated equipment"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Equipment not found"
// @Failure 409 {object} ErrorResponse "Serial number already registered"
// @Security BearerAuth
// @Router /equipment/{id} [put]
func (h *EquipmentHandler) UpdateEquipment(c *gin.Context) {
	id, ok := pathID(c, "equipment")
	if !ok {
		return
	}

	var req service.UpdateEquipmentRequest
	if !bindJSON(c, &req) {
		return
	}

	equipment, err := h.equipmentService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}

// ArchiveEquipment handles DELETE /equipment/:id
// @Summary Archive equipment
// @Tags equipment
// @Param id path string true "Equipment ID (UUID)"
// @Success 204 "Equipment archived"
// @Failure 404 {object} ErrorResponse "Equipment not found"
// @Security BearerAuth
// @Router /equipment/{id} [delete]
func (h *EquipmentHandler) ArchiveEquipment(c *gin.Context) {
	id, ok := pathID(c, "equipment")
	if !ok {
		return
	}

	if err := h.equipmentService.Archive(id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkScrapped handles POST /equipment/:id/scrap
// @Summary Mark equipment as scrapped
// @Description Deactivates the equipment and posts an audit message
// @Tags equipment
// @Produce json
// @Param id path string true "Equipment ID (UUID)"
// @Success 200 {object} service.EquipmentResponse "Equipment scrapped"
// @Failure 404 {object} ErrorResponse "Equipment not found"
// @Security BearerAuth
// @Router /equipment/{id}/scrap [post]
func (h *EquipmentHandler) MarkScrapped(c *gin.Context) {
	id, ok := pathID(c, "equipment")
	if !ok {
		return
	}

	equipment, err := h.equipmentService.MarkScrapped(actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}

// MarkOperational handles POST /equipment/:id/operational
// @Summary Mark equipment as operational
// @Tags equipment
// @Produce json
// @Param id path string true "Equipment ID (UUID)"
// @Success 200 {object} service.EquipmentResponse "Equipment operational"
// @Failure 404 {object} ErrorResponse "Equipment not found"
// @Security BearerAuth
// @Router /equipment/{id}/operational [post]
func (h *EquipmentHandler) MarkOperational(c *gin.Context) {
	id, ok := pathID(c, "equipment")
	if !ok {
		return
	}

	equipment, err := h.equipmentService.MarkOperational(actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}

// GetMessages handles GET /equipment/:id/messages
// @Summary List the audit messages of equipment
// @Tags equipment
// @Produce json
// @Param id path string true "Equipment ID (UUID)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(20)
// @Success 200 {object} service.MessageListResponse "Messages, newest first"
// @Failure 404 {object} ErrorResponse "Equipment not found"
// @Security BearerAuth
// @Router /equipment/{id}/messages [get]
func (h *EquipmentHandler) GetMessages(c *gin.Context) {
	id, ok := pathID(c, "equipment")
	if !ok {
		return
	}
	page, pageSize := pagination(c)

	messages, err := h.equipmentService.GetMessages(id, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
