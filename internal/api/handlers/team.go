package handlers

import (
	"net/http"

	"gearguard-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TeamHandler handles HTTP requests for maintenance team operations
type TeamHandler struct {
	teamService service.TeamServiceInterface
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService service.TeamServiceInterface) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeam handles POST /teams
// @Summary Create a maintenance team
// @Tags teams
// @Accept json
// @Produce json
// @Param team body service.CreateTeamRequest true "Team data"
// @Success 201 {object} service.TeamResponse "Successfully created team"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 404 {object} ErrorResponse "Member not found"
// @Failure 409 {object} ErrorResponse "Team name already taken"
// @Security BearerAuth
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req service.CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teamService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

// GetTeam handles GET /teams/:id
// @Summary Get maintenance team by ID
// @Tags teams
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} service.TeamResponse "Successfully retrieved team"
// @Failure 400 {object} ErrorResponse "Invalid team ID"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := pathID(c, "team")
	if !ok {
		return
	}

	team, err := h.teamService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// GetAllTeams handles GET /teams
// @Summary List maintenance teams
// @Description Active teams with member lists and open/todo request counts
// @Tags teams
// @Produce json
// @Param include_archived query bool false "Include archived teams"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(20)
// @Success 200 {object} service.TeamListResponse "Successfully retrieved teams"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Security BearerAuth
// @Router /teams [get]
func (h *TeamHandler) GetAllTeams(c *gin.Context) {
	includeArchived, err := queryBool(c, "include_archived")
	if err != nil {
		respondError(c, err)
		return
	}
	page, pageSize := pagination(c)

	teams, err := h.teamService.GetAll(includeArchived != nil && *includeArchived, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, teams)
}

// UpdateTeam handles PUT /teams/:id
// @Summary Update a maintenance team
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param team body service.UpdateTeamRequest true "Fields to change"
// @Success 200 {object} service.TeamResponse "Successfully updated team"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Failure 409 {object} ErrorResponse "Team name already taken"
// @Security BearerAuth
// @Router /teams/{id} [put]
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, ok := pathID(c, "team")
	if !ok {
		return
	}

	var req service.UpdateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teamService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// ArchiveTeam handles DELETE /teams/:id
// @Summary Archive a maintenance team
// @Tags teams
// @Param id path string true "Team ID (UUID)"
// @Success 204 "Team archived"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [delete]
func (h *TeamHandler) ArchiveTeam(c *gin.Context) {
	id, ok := pathID(c, "team")
	if !ok {
		return
	}

	if err := h.teamService.Archive(id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetMembers handles PUT /teams/:id/members
// @Summary Replace the members of a maintenance team
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param members body service.SetMembersRequest true "Member user IDs"
// @Success 200 {object} service.TeamResponse "Members replaced"
// @Failure 404 {object} ErrorResponse "Team or user not found"
// @Security BearerAuth
// @Router /teams/{id}/members [put]
func (h *TeamHandler) SetMembers(c *gin.Context) {
	id, ok := pathID(c, "team")
	if !ok {
		return
	}

	var req service.SetMembersRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teamService.SetMembers(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}
