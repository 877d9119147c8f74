package service

import (
	"context"

	"gearguard-backend/internal/database/models"
	"gearguard-backend/internal/notify"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// CategoryServiceInterface defines the interface for equipment category service
type CategoryServiceInterface interface {
	Create(req *CreateCategoryRequest) (*CategoryResponse, error)
	GetByID(id uuid.UUID) (*CategoryResponse, error)
	GetAll(page, pageSize int) (*CategoryListResponse, error)
	Update(id uuid.UUID, req *UpdateCategoryRequest) (*CategoryResponse, error)
	Delete(id uuid.UUID) error
}

// TeamServiceInterface defines the interface for maintenance team service
type TeamServiceInterface interface {
	Create(req *CreateTeamRequest) (*TeamResponse, error)
	GetByID(id uuid.UUID) (*TeamResponse, error)
	GetAll(includeArchived bool, page, pageSize int) (*TeamListResponse, error)
	Update(id uuid.UUID, req *UpdateTeamRequest) (*TeamResponse, error)
	Archive(id uuid.UUID) error
	SetMembers(id uuid.UUID, req *SetMembersRequest) (*TeamResponse, error)
}

// UserServiceInterface defines the interface for user service
type UserServiceInterface interface {
	Create(req *CreateUserRequest) (*UserResponse, error)
	GetByID(id uuid.UUID) (*UserResponse, error)
	GetAll(page, pageSize int) (*UserListResponse, error)
	Authenticate(email, password string) (*models.User, error)
}

// EquipmentServiceInterface defines the interface for equipment service
type EquipmentServiceInterface interface {
	Create(actor *uuid.UUID, req *CreateEquipmentRequest) (*EquipmentResponse, error)
	GetByID(id uuid.UUID) (*EquipmentResponse, error)
	List(params EquipmentListParams, page, pageSize int) (*EquipmentListResponse, error)
	Update(id uuid.UUID, req *UpdateEquipmentRequest) (*EquipmentResponse, error)
	Archive(id uuid.UUID) error
	MarkScrapped(actor *uuid.UUID, id uuid.UUID) (*EquipmentResponse, error)
	MarkOperational(actor *uuid.UUID, id uuid.UUID) (*EquipmentResponse, error)
	GetMessages(id uuid.UUID, page, pageSize int) (*MessageListResponse, error)
}

// RequestServiceInterface defines the interface for maintenance request service
type RequestServiceInterface interface {
	Create(actor *uuid.UUID, req *CreateRequestRequest) (*RequestResponse, error)
	GetByID(id uuid.UUID) (*RequestResponse, error)
	List(params RequestListParams, page, pageSize int) (*RequestListResponse, error)
	Update(actor *uuid.UUID, id uuid.UUID, req *UpdateRequestRequest) (*RequestResponse, error)
	BatchUpdate(actor *uuid.UUID, req *BatchUpdateRequest) (*RequestBatchResponse, error)
	Start(actor *uuid.UUID, id uuid.UUID) (*ActionResponse, error)
	Complete(actor *uuid.UUID, id uuid.UUID) (*ActionResponse, error)
	Scrap(actor *uuid.UUID, id uuid.UUID) (*ActionResponse, error)
	Reset(actor *uuid.UUID, id uuid.UUID) (*ActionResponse, error)
	Archive(id uuid.UUID) error
	Onchange(req *OnchangeRequest) (*OnchangeResponse, error)
	GetOverdue(page, pageSize int) (*RequestListResponse, error)
}

// ReportServiceInterface defines the interface for the maintenance report service
type ReportServiceInterface interface {
	List(params ReportParams, page, pageSize int) (*ReportListResponse, error)
	Group(params ReportParams, dimensions []string) (*ReportGroupResponse, error)
	Summary(params ReportParams) (*ReportSummaryResponse, error)
	Export(params ReportParams) ([]byte, error)
}

// WarrantyAlertServiceInterface defines the interface for warranty alert notifications
type WarrantyAlertServiceInterface interface {
	Send(ctx context.Context, actor *uuid.UUID, req *WarrantyAlertRequest) (*WarrantyAlertResponse, error)
	Preview(req *WarrantyAlertRequest) (*notify.Message, error)
}

// ReminderServiceInterface defines the interface for the overdue reminder job
type ReminderServiceInterface interface {
	Run(ctx context.Context) (*ReminderRunResult, error)
}
