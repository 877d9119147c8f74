package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/logger"
	"gearguard-backend/internal/maintenance"
	"gearguard-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EquipmentService handles business logic for equipment
type EquipmentService struct {
	repo              repository.EquipmentRepositoryInterface
	teamRepo          repository.TeamRepositoryInterface
	categoryRepo      repository.CategoryRepositoryInterface
	requestRepo       repository.RequestRepositoryInterface
	messageRepo       repository.MessageRepositoryInterface
	validator         *validator.Validate
	clock             maintenance.Clock
	warrantyAlertDays int
}

// Ensure EquipmentService implements EquipmentServiceInterface
var _ EquipmentServiceInterface = (*EquipmentService)(nil)

// NewEquipmentService creates a new equipment service
func NewEquipmentService(
	repo repository.EquipmentRepositoryInterface,
	teamRepo repository.TeamRepositoryInterface,
	categoryRepo repository.CategoryRepositoryInterface,
	requestRepo repository.RequestRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	validator *validator.Validate,
	clock maintenance.Clock,
	warrantyAlertDays int,
) *EquipmentService {
	if warrantyAlertDays <= 0 {
		warrantyAlertDays = maintenance.DefaultWarrantyAlertDays
	}
	return &EquipmentService{
		repo:              repo,
		teamRepo:          teamRepo,
		categoryRepo:      categoryRepo,
		requestRepo:       requestRepo,
		messageRepo:       messageRepo,
		validator:         validator,
		clock:             clock,
		warrantyAlertDays: warrantyAlertDays,
	}
}

// CreateEquipmentRequest represents the request to create equipment
type CreateEquipmentRequest struct {
	Name         string                         `json:"name" validate:"required,min=1,max=200"`
	SerialNumber *string                        `json:"serial_number,omitempty" validate:"omitempty,max=100"`
	CategoryID   *uuid.UUID                     `json:"category_id,omitempty"`
	OwnerType    models.OwnerType               `json:"owner_type,omitempty" validate:"omitempty,oneof=department employee"`
	Department   string                         `json:"department,omitempty" validate:"max=200"`
	Employee     string                         `json:"employee,omitempty" validate:"max=200"`
	TeamID       uuid.UUID                      `json:"team_id" validate:"required"`
	TechnicianID *uuid.UUID                     `json:"technician_id,omitempty"`
	PurchaseDate maintenance.Field[*time.Time] `json:"purchase_date,omitzero" swaggertype:"string" format:"date"`
	WarrantyDate maintenance.Field[*time.Time] `json:"warranty_date,omitzero" swaggertype:"string" format:"date"`
	Location     string                         `json:"location,omitempty" validate:"max=200"`
	Notes        string                         `json:"notes,omitempty"`
}

// UpdateEquipmentRequest represents the request to update equipment.
// Nullable fields are cleared by sending null.
type UpdateEquipmentRequest struct {
	Name         *string                        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	SerialNumber maintenance.Field[*string]    `json:"serial_number,omitzero" swaggertype:"string"`
	CategoryID   maintenance.Field[*uuid.UUID] `json:"category_id,omitzero" swaggertype:"string" format:"uuid"`
	State        *models.EquipmentState         `json:"state,omitempty" validate:"omitempty,oneof=operational maintenance scrapped"`
	OwnerType    *models.OwnerType              `json:"owner_type,omitempty" validate:"omitempty,oneof=department employee"`
	Department   *string                        `json:"department,omitempty" validate:"omitempty,max=200"`
	Employee     *string                        `json:"employee,omitempty" validate:"omitempty,max=200"`
	TeamID       *uuid.UUID                     `json:"team_id,omitempty"`
	TechnicianID maintenance.Field[*uuid.UUID] `json:"technician_id,omitzero" swaggertype:"string" format:"uuid"`
	PurchaseDate maintenance.Field[*time.Time] `json:"purchase_date,omitzero" swaggertype:"string" format:"date"`
	WarrantyDate maintenance.Field[*time.Time] `json:"warranty_date,omitzero" swaggertype:"string" format:"date"`
	Location     *string                        `json:"location,omitempty" validate:"omitempty,max=200"`
	Notes        *string                        `json:"notes,omitempty"`
}

// EquipmentListParams narrows an equipment listing
type EquipmentListParams struct {
	CategoryID      *uuid.UUID
	TeamID          *uuid.UUID
	TechnicianID    *uuid.UUID
	State           models.EquipmentState
	WarrantyAlert   *bool
	Search          string
	IncludeArchived bool
}

// EquipmentResponse is a piece of equipment with its display name and, on
// single reads, the figures derived from its maintenance requests
type EquipmentResponse struct {
	models.Equipment
	DisplayName string `json:"display_name"`
	*maintenance.EquipmentStats
}

// EquipmentListResponse represents a paginated list of equipment
type EquipmentListResponse struct {
	Equipment []EquipmentResponse `json:"equipment"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"page_size"`
}

// MessageListResponse represents a page of the equipment audit trail
type MessageListResponse struct {
	Messages []models.EquipmentMessage `json:"messages"`
	Total    int64                     `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

// Create registers a new active, operational piece of equipment
func (s *EquipmentService) Create(actor *uuid.UUID, req *CreateEquipmentRequest) (*EquipmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	serial := normalizeSerial(req.SerialNumber)
	if err := s.ensureSerialFree(serial, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(req.CategoryID); err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByID(req.TeamID)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrTeamNotFound, "get team")
	}
	if req.TechnicianID != nil && !team.HasMember(*req.TechnicianID) {
		return nil, apperrors.ErrTechnicianNotInTeam
	}

	ownerType := req.OwnerType
	if ownerType == "" {
		ownerType = models.OwnerTypeDepartment
	}

	equipment := &models.Equipment{
		BaseModel:    models.BaseModel{CreatedBy: actor, UpdatedBy: actor},
		Name:         strings.TrimSpace(req.Name),
		SerialNumber: serial,
		Active:       true,
		State:        models.EquipmentStateOperational,
		CategoryID:   req.CategoryID,
		OwnerType:    ownerType,
		Department:   req.Department,
		Employee:     req.Employee,
		TeamID:       team.ID,
		TechnicianID: req.TechnicianID,
		PurchaseDate: maintenance.DayPtr(req.PurchaseDate.Value),
		WarrantyDate: maintenance.DayPtr(req.WarrantyDate.Value),
		Location:     req.Location,
		Notes:        req.Notes,
	}
	maintenance.ClearOtherOwner(equipment)
	maintenance.ApplyWarranty(equipment, s.clock.Today(), s.warrantyAlertDays)

	if err := s.repo.Create(equipment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.ErrEquipmentExists
		}
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}

	return s.GetByID(equipment.ID)
}

// GetByID retrieves equipment with its warranty re-evaluated for today and
// the figures derived from its requests
func (s *EquipmentService) GetByID(id uuid.UUID) (*EquipmentResponse, error) {
	equipment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrEquipmentNotFound, "get equipment")
	}

	requests, err := s.requestRepo.GetByEquipmentID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment requests: %w", err)
	}

	maintenance.ApplyWarranty(equipment, s.clock.Today(), s.warrantyAlertDays)
	stats := maintenance.ComputeEquipmentStats(requests)
	return &EquipmentResponse{
		Equipment:      *equipment,
		DisplayName:    equipment.DisplayName(),
		EquipmentStats: &stats,
	}, nil
}

// List retrieves equipment matching the params with pagination
func (s *EquipmentService) List(params EquipmentListParams, page, pageSize int) (*EquipmentListResponse, error) {
	page, pageSize, offset := normalizePage(page, pageSize)

	items, total, err := s.repo.List(repository.EquipmentFilter{
		CategoryID:      params.CategoryID,
		TeamID:          params.TeamID,
		TechnicianID:    params.TechnicianID,
		State:           params.State,
		WarrantyAlert:   params.WarrantyAlert,
		Search:          params.Search,
		IncludeArchived: params.IncludeArchived,
	}, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}

	today := s.clock.Today()
	responses := make([]EquipmentResponse, len(items))
	for i := range items {
		maintenance.ApplyWarranty(&items[i], today, s.warrantyAlertDays)
		responses[i] = EquipmentResponse{Equipment: items[i], DisplayName: items[i].DisplayName()}
	}
	return &EquipmentListResponse{
		Equipment: responses,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// Update applies a partial update to a piece of equipment
func (s *EquipmentService) Update(id uuid.UUID, req *UpdateEquipmentRequest) (*EquipmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	equipment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrEquipmentNotFound, "get equipment")
	}

	if req.Name != nil {
		equipment.Name = strings.TrimSpace(*req.Name)
	}
	if req.SerialNumber.Set {
		serial := normalizeSerial(req.SerialNumber.Value)
		if err := s.ensureSerialFree(serial, id); err != nil {
			return nil, err
		}
		equipment.SerialNumber = serial
	}
	if req.CategoryID.Set {
		if err := s.ensureCategory(req.CategoryID.Value); err != nil {
			return nil, err
		}
		equipment.CategoryID = req.CategoryID.Value
	}
	if req.State != nil {
		equipment.State = *req.State
	}
	if req.OwnerType != nil {
		equipment.OwnerType = *req.OwnerType
	}
	if req.Department != nil {
		equipment.Department = *req.Department
	}
	if req.Employee != nil {
		equipment.Employee = *req.Employee
	}
	maintenance.ClearOtherOwner(equipment)

	if req.TeamID != nil || (req.TechnicianID.Set && req.TechnicianID.Value != nil) {
		teamID := equipment.TeamID
		if req.TeamID != nil {
			teamID = *req.TeamID
		}
		team, err := s.teamRepo.GetByID(teamID)
		if err != nil {
			return nil, mapNotFound(err, apperrors.ErrTeamNotFound, "get team")
		}
		maintenance.ApplyEquipmentTeam(equipment, team)
		if req.TechnicianID.Set && req.TechnicianID.Value != nil && !team.HasMember(*req.TechnicianID.Value) {
			return nil, apperrors.ErrTechnicianNotInTeam
		}
	}
	if req.TechnicianID.Set {
		equipment.TechnicianID = req.TechnicianID.Value
	}

	if req.PurchaseDate.Set {
		equipment.PurchaseDate = maintenance.DayPtr(req.PurchaseDate.Value)
	}
	if req.WarrantyDate.Set {
		equipment.WarrantyDate = maintenance.DayPtr(req.WarrantyDate.Value)
	}
	if req.Location != nil {
		equipment.Location = *req.Location
	}
	if req.Notes != nil {
		equipment.Notes = *req.Notes
	}
	maintenance.ApplyWarranty(equipment, s.clock.Today(), s.warrantyAlertDays)

	if err := s.repo.Update(equipment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.ErrEquipmentExists
		}
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}
	return s.GetByID(id)
}

// Archive deactivates a piece of equipment; its history is kept
func (s *EquipmentService) Archive(id uuid.UUID) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return mapNotFound(err, apperrors.ErrEquipmentNotFound, "get equipment")
	}
	if err := s.repo.SetActive(id, false); err != nil {
		return fmt.Errorf("failed to archive equipment: %w", err)
	}
	return nil
}

// MarkScrapped deactivates a piece of equipment and records why
func (s *EquipmentService) MarkScrapped(actor *uuid.UUID, id uuid.UUID) (*EquipmentResponse, error) {
	return s.changeState(id, func(eq *models.Equipment) *models.EquipmentMessage {
		return maintenance.MarkScrapped(eq, actor)
	})
}

// MarkOperational returns a piece of equipment to service
func (s *EquipmentService) MarkOperational(actor *uuid.UUID, id uuid.UUID) (*EquipmentResponse, error) {
	return s.changeState(id, func(eq *models.Equipment) *models.EquipmentMessage {
		return maintenance.MarkOperational(eq, actor)
	})
}

func (s *EquipmentService) changeState(id uuid.UUID, change func(*models.Equipment) *models.EquipmentMessage) (*EquipmentResponse, error) {
	equipment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrEquipmentNotFound, "get equipment")
	}

	message := change(equipment)
	if message == nil {
		return s.GetByID(id)
	}
	if err := s.repo.SaveState(equipment, message); err != nil {
		return nil, fmt.Errorf("failed to save equipment state: %w", err)
	}

	logger.New().WithFields(map[string]interface{}{
		"equipment_id": id,
		"state":        equipment.State,
	}).Info("equipment state changed")
	return s.GetByID(id)
}

// GetMessages retrieves the audit trail of a piece of equipment, newest first
func (s *EquipmentService) GetMessages(id uuid.UUID, page, pageSize int) (*MessageListResponse, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, mapNotFound(err, apperrors.ErrEquipmentNotFound, "get equipment")
	}

	page, pageSize, offset := normalizePage(page, pageSize)
	messages, total, err := s.messageRepo.GetByEquipmentID(id, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment messages: %w", err)
	}
	return &MessageListResponse{
		Messages: messages,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *EquipmentService) ensureSerialFree(serial *string, self uuid.UUID) error {
	if serial == nil {
		return nil
	}
	existing, err := s.repo.GetBySerialNumber(*serial)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check serial number: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperrors.ErrEquipmentExists
	}
	return nil
}

func (s *EquipmentService) ensureCategory(id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.categoryRepo.GetByID(*id); err != nil {
		return mapNotFound(err, apperrors.ErrCategoryNotFound, "get category")
	}
	return nil
}

// normalizeSerial treats blank serial numbers as absent
func normalizeSerial(serial *string) *string {
	if serial == nil {
		return nil
	}
	v := strings.TrimSpace(*serial)
	if v == "" {
		return nil
	}
	return &v
}
