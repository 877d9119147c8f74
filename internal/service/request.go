package service

import (
	"fmt"
	"strings"
	"time"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/logger"
	"gearguard-backend/internal/maintenance"
	"gearguard-backend/internal/metrics"
	"gearguard-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const zeroDurationWarning = "No duration was recorded for this request."

// RequestService handles business logic for maintenance requests. Every write,
// whether a dedicated action or a generic update, runs through the lifecycle.
type RequestService struct {
	repo               repository.RequestRepositoryInterface
	equipmentRepo      repository.EquipmentRepositoryInterface
	teamRepo           repository.TeamRepositoryInterface
	validator          *validator.Validate
	clock              maintenance.Clock
	metrics            *metrics.Metrics
	laborRate          float64
	preventiveLeadDays int
}

// Ensure RequestService implements RequestServiceInterface
var _ RequestServiceInterface = (*RequestService)(nil)

// RequestServiceOptions are the tunables of the request service
type RequestServiceOptions struct {
	LaborRate          float64
	PreventiveLeadDays int
	Metrics            *metrics.Metrics
}

// NewRequestService creates a new request service
func NewRequestService(
	repo repository.RequestRepositoryInterface,
	equipmentRepo repository.EquipmentRepositoryInterface,
	teamRepo repository.TeamRepositoryInterface,
	validator *validator.Validate,
	clock maintenance.Clock,
	opts RequestServiceOptions,
) *RequestService {
	if opts.LaborRate <= 0 {
		opts.LaborRate = maintenance.DefaultLaborRate
	}
	return &RequestService{
		repo:               repo,
		equipmentRepo:      equipmentRepo,
		teamRepo:           teamRepo,
		validator:          validator,
		clock:              clock,
		metrics:            opts.Metrics,
		laborRate:          opts.LaborRate,
		preventiveLeadDays: opts.PreventiveLeadDays,
	}
}

// CreateRequestRequest represents the request to create a maintenance request
type CreateRequestRequest struct {
	maintenance.Changes
}

// UpdateRequestRequest represents a partial update of a maintenance request
type UpdateRequestRequest struct {
	maintenance.Changes
}

// BatchUpdateRequest applies the same values to several requests at once
type BatchUpdateRequest struct {
	IDs    []uuid.UUID         `json:"ids" validate:"required,min=1"`
	Values maintenance.Changes `json:"values"`
}

// OnchangeRequest previews the auto-fill of a request form. Field names the
// input that changed: equipment_id or team_id.
type OnchangeRequest struct {
	Field        string     `json:"field" validate:"required,oneof=equipment_id team_id"`
	EquipmentID  *uuid.UUID `json:"equipment_id,omitempty"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	TeamID       *uuid.UUID `json:"team_id,omitempty"`
	TechnicianID *uuid.UUID `json:"technician_id,omitempty"`
}

// OnchangeResponse holds the auto-filled values
type OnchangeResponse struct {
	EquipmentID  *uuid.UUID `json:"equipment_id"`
	CategoryID   *uuid.UUID `json:"category_id"`
	TeamID       *uuid.UUID `json:"team_id"`
	TechnicianID *uuid.UUID `json:"technician_id"`
}

// RequestListParams narrows a request listing
type RequestListParams struct {
	EquipmentID     *uuid.UUID
	CategoryID      *uuid.UUID
	TeamID          *uuid.UUID
	TechnicianID    *uuid.UUID
	Stages          []models.Stage
	MaintenanceType models.MaintenanceType
	OverdueOnly     bool
	Search          string
	IncludeArchived bool
}

// RequestResponse is a maintenance request with its display name
type RequestResponse struct {
	models.MaintenanceRequest
	DisplayName string `json:"display_name"`
}

// RequestListResponse represents a paginated list of requests
type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// RequestBatchResponse lists the requests written by a batch update
type RequestBatchResponse struct {
	Requests []RequestResponse `json:"requests"`
}

// ActionResponse is the result of a lifecycle action with its soft warnings
type ActionResponse struct {
	Request  RequestResponse `json:"request"`
	Warnings []string        `json:"warnings,omitempty"`
}

func (s *RequestService) lifecycle() *maintenance.Lifecycle {
	return maintenance.NewLifecycle(s.clock, newRepoResolver(s.equipmentRepo, s.teamRepo), s.preventiveLeadDays)
}

// Create creates a maintenance request, auto-filling from the selected equipment
func (s *RequestService) Create(actor *uuid.UUID, req *CreateRequestRequest) (*RequestResponse, error) {
	request := &models.MaintenanceRequest{
		BaseModel:     models.BaseModel{CreatedBy: actor, UpdatedBy: actor},
		Priority:      models.PriorityNormal,
		CostLaborRate: s.laborRate,
	}

	out, err := s.lifecycle().Create(request, req.Changes, actor)
	if err != nil {
		return nil, err
	}

	batch := &repository.WriteBatch{Created: out.Requests}
	if err := s.consumeEvents(out.Events, batch); err != nil {
		return nil, err
	}
	if err := s.repo.SaveBatch(batch); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	s.record(req.Changes, out, batch)

	return s.GetByID(request.ID)
}

// GetByID retrieves a request with its overdue state evaluated for today
func (s *RequestService) GetByID(id uuid.UUID) (*RequestResponse, error) {
	request, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrRequestNotFound, "get request")
	}
	return s.toResponse(request, s.clock.Today()), nil
}

// List retrieves requests matching the params with pagination
func (s *RequestService) List(params RequestListParams, page, pageSize int) (*RequestListResponse, error) {
	page, pageSize, offset := normalizePage(page, pageSize)

	var overdueOn *time.Time
	if params.OverdueOnly {
		today := s.clock.Today()
		overdueOn = &today
	}

	requests, total, err := s.repo.List(repository.RequestFilter{
		EquipmentID:     params.EquipmentID,
		CategoryID:      params.CategoryID,
		TeamID:          params.TeamID,
		TechnicianID:    params.TechnicianID,
		Stages:          params.Stages,
		MaintenanceType: params.MaintenanceType,
		OverdueOn:       overdueOn,
		Search:          params.Search,
		IncludeArchived: params.IncludeArchived,
	}, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return &RequestListResponse{
		Requests: s.toResponses(requests),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetOverdue lists open requests whose schedule date has passed
func (s *RequestService) GetOverdue(page, pageSize int) (*RequestListResponse, error) {
	page, pageSize, offset := normalizePage(page, pageSize)

	requests, err := s.repo.GetOverdue(s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to get overdue requests: %w", err)
	}

	total := int64(len(requests))
	end := offset + pageSize
	if offset > len(requests) {
		offset = len(requests)
	}
	if end > len(requests) {
		end = len(requests)
	}
	return &RequestListResponse{
		Requests: s.toResponses(requests[offset:end]),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update applies a partial update to one request
func (s *RequestService) Update(actor *uuid.UUID, id uuid.UUID, req *UpdateRequestRequest) (*RequestResponse, error) {
	written, _, err := s.write(actor, []uuid.UUID{id}, req.Changes)
	if err != nil {
		return nil, err
	}
	return &written[0], nil
}

// BatchUpdate applies the same values to every listed request in one transaction
func (s *RequestService) BatchUpdate(actor *uuid.UUID, req *BatchUpdateRequest) (*RequestBatchResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	written, _, err := s.write(actor, req.IDs, req.Values)
	if err != nil {
		return nil, err
	}
	return &RequestBatchResponse{Requests: written}, nil
}

// Start moves a new request to in progress and assigns the acting user when
// no technician is set
func (s *RequestService) Start(actor *uuid.UUID, id uuid.UUID) (*ActionResponse, error) {
	return s.action(actor, id, "start", []models.Stage{models.StageNew}, maintenance.Changes{
		Stage: maintenance.Set(models.StageInProgress),
	})
}

// Complete marks an in-progress request as repaired today
func (s *RequestService) Complete(actor *uuid.UUID, id uuid.UUID) (*ActionResponse, error) {
	today := s.clock.Today()
	resp, err := s.action(actor, id, "complete", []models.Stage{models.StageInProgress}, maintenance.Changes{
		Stage:     maintenance.Set(models.StageRepaired),
		CloseDate: maintenance.Set(&today),
	})
	if err != nil {
		return nil, err
	}

	if resp.Request.Duration == 0 {
		resp.Warnings = append(resp.Warnings, zeroDurationWarning)
		logger.New().WithFields(map[string]interface{}{
			"request_id": id,
			"warning":    zeroDurationWarning,
		}).Warn("request completed without duration")
	}
	return resp, nil
}

// Scrap moves a request to scrap from any stage, scrapping its equipment
func (s *RequestService) Scrap(actor *uuid.UUID, id uuid.UUID) (*ActionResponse, error) {
	return s.action(actor, id, "scrap", nil, maintenance.Changes{
		Stage: maintenance.Set(models.StageScrap),
	})
}

// Reset moves a request back to new and clears its close date
func (s *RequestService) Reset(actor *uuid.UUID, id uuid.UUID) (*ActionResponse, error) {
	return s.action(actor, id, "reset", nil, maintenance.Changes{
		Stage:     maintenance.Set(models.StageNew),
		CloseDate: maintenance.Set[*time.Time](nil),
	})
}

// Archive deactivates a request; it is never deleted
func (s *RequestService) Archive(id uuid.UUID) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return mapNotFound(err, apperrors.ErrRequestNotFound, "get request")
	}
	if err := s.repo.SetActive(id, false); err != nil {
		return fmt.Errorf("failed to archive request: %w", err)
	}
	return nil
}

// Onchange previews the values auto-filled when equipment or team changes on a
// request form. Nothing is persisted.
func (s *RequestService) Onchange(req *OnchangeRequest) (*OnchangeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	draft := &models.MaintenanceRequest{
		CategoryID:   req.CategoryID,
		TeamID:       req.TeamID,
		TechnicianID: req.TechnicianID,
	}
	if req.EquipmentID != nil {
		draft.EquipmentID = *req.EquipmentID
	}

	resolver := newRepoResolver(s.equipmentRepo, s.teamRepo)
	switch req.Field {
	case "equipment_id":
		var eq *models.Equipment
		if req.EquipmentID != nil {
			found, err := resolver.Equipment(*req.EquipmentID)
			if err != nil {
				return nil, err
			}
			eq = found
		}
		maintenance.ApplyEquipmentSelection(draft, eq)
	case "team_id":
		var team *models.MaintenanceTeam
		if req.TeamID != nil {
			found, err := resolver.Team(*req.TeamID)
			if err != nil {
				return nil, err
			}
			team = found
		}
		maintenance.ApplyTeamSelection(draft, team)
	}

	resp := &OnchangeResponse{
		CategoryID:   draft.CategoryID,
		TeamID:       draft.TeamID,
		TechnicianID: draft.TechnicianID,
	}
	if draft.EquipmentID != uuid.Nil {
		id := draft.EquipmentID
		resp.EquipmentID = &id
	}
	return resp, nil
}

func (s *RequestService) action(actor *uuid.UUID, id uuid.UUID, name string, from []models.Stage, ch maintenance.Changes) (*ActionResponse, error) {
	written, _, err := s.writeChecked(actor, []uuid.UUID{id}, ch, func(r *models.MaintenanceRequest) error {
		if len(from) == 0 {
			return nil
		}
		for _, stage := range from {
			if r.Stage == stage {
				return nil
			}
		}
		return apperrors.NewInvalidTransitionError(name, string(r.Stage))
	})
	if err != nil {
		return nil, err
	}
	return &ActionResponse{Request: written[0]}, nil
}

func (s *RequestService) write(actor *uuid.UUID, ids []uuid.UUID, ch maintenance.Changes) ([]RequestResponse, *maintenance.Outcome, error) {
	return s.writeChecked(actor, ids, ch, nil)
}

// writeChecked loads the requests, applies the changes through the lifecycle,
// consumes the resulting events and persists everything in one batch
func (s *RequestService) writeChecked(actor *uuid.UUID, ids []uuid.UUID, ch maintenance.Changes, check func(*models.MaintenanceRequest) error) ([]RequestResponse, *maintenance.Outcome, error) {
	ids = uniqueIDs(ids)
	loaded, err := s.repo.GetByIDs(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get requests: %w", err)
	}
	if len(loaded) != len(ids) {
		return nil, nil, apperrors.ErrRequestNotFound
	}

	requests := make([]*models.MaintenanceRequest, len(loaded))
	for i := range loaded {
		requests[i] = &loaded[i]
		if check != nil {
			if err := check(requests[i]); err != nil {
				return nil, nil, err
			}
		}
		requests[i].UpdatedBy = actor
	}

	out, err := s.lifecycle().Write(requests, ch, actor)
	if err != nil {
		return nil, nil, err
	}

	batch := &repository.WriteBatch{Updated: out.Requests}
	if err := s.consumeEvents(out.Events, batch); err != nil {
		return nil, nil, err
	}
	if err := s.repo.SaveBatch(batch); err != nil {
		return nil, nil, fmt.Errorf("failed to save requests: %w", err)
	}
	s.record(ch, out, batch)

	reloaded, err := s.repo.GetByIDs(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload requests: %w", err)
	}
	return s.toResponses(reloaded), out, nil
}

// consumeEvents applies RequestScrapped events to the equipment aggregate and
// adds the changed equipment and audit messages to the batch
func (s *RequestService) consumeEvents(events []maintenance.RequestScrapped, batch *repository.WriteBatch) error {
	if len(events) == 0 {
		return nil
	}

	equipment := map[uuid.UUID]*models.Equipment{}
	for _, ev := range events {
		eq, ok := equipment[ev.EquipmentID]
		if !ok {
			found, err := s.equipmentRepo.GetByID(ev.EquipmentID)
			if err != nil {
				return mapNotFound(err, apperrors.ErrEquipmentNotFound, "get equipment")
			}
			eq = found
			equipment[ev.EquipmentID] = eq
		}

		message, changed := maintenance.ScrapEquipment(eq, ev)
		if changed {
			batch.Equipment = append(batch.Equipment, eq)
		}
		if message != nil {
			batch.Messages = append(batch.Messages, message)
		}
	}
	return nil
}

func (s *RequestService) record(ch maintenance.Changes, out *maintenance.Outcome, batch *repository.WriteBatch) {
	if ch.Stage.Set {
		for range out.Requests {
			s.metrics.StageTransition(string(ch.Stage.Value))
		}
	}
	s.metrics.EquipmentScrapped(len(batch.Equipment))

	for _, eq := range batch.Equipment {
		logger.New().WithFields(map[string]interface{}{
			"equipment_id": eq.ID,
			"event":        maintenance.RequestScrapped{}.Name(),
		}).Info("equipment scrapped by maintenance request")
	}
}

func (s *RequestService) toResponse(r *models.MaintenanceRequest, today time.Time) *RequestResponse {
	maintenance.ApplyOverdue(r, today)
	return &RequestResponse{
		MaintenanceRequest: *r,
		DisplayName:        r.DisplayName(),
	}
}

func (s *RequestService) toResponses(requests []models.MaintenanceRequest) []RequestResponse {
	today := s.clock.Today()
	responses := make([]RequestResponse, len(requests))
	for i := range requests {
		responses[i] = *s.toResponse(&requests[i], today)
	}
	return responses
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// ParseStages splits a comma separated stage list, rejecting unknown stages
func ParseStages(raw string) ([]models.Stage, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var stages []models.Stage
	for _, part := range strings.Split(raw, ",") {
		stage := models.Stage(strings.TrimSpace(part))
		if !stage.IsValid() {
			return nil, apperrors.NewValidationError("stage", fmt.Sprintf("unknown stage %q", stage))
		}
		stages = append(stages, stage)
	}
	return stages, nil
}
