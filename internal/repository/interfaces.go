package repository

import (
	"time"

	"gearguard-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// CategoryRepositoryInterface defines the interface for equipment category repository operations
type CategoryRepositoryInterface interface {
	Create(category *models.EquipmentCategory) error
	GetByID(id uuid.UUID) (*models.EquipmentCategory, error)
	GetByName(name string) (*models.EquipmentCategory, error)
	GetAll(limit, offset int) ([]models.EquipmentCategory, int64, error)
	Update(category *models.EquipmentCategory) error
	Delete(id uuid.UUID) error
	CountActiveEquipment(ids []uuid.UUID) (map[uuid.UUID]int64, error)
	IsReferenced(id uuid.UUID) (bool, error)
}

// TeamRepositoryInterface defines the interface for maintenance team repository operations
type TeamRepositoryInterface interface {
	Create(team *models.MaintenanceTeam) error
	GetByID(id uuid.UUID) (*models.MaintenanceTeam, error)
	GetByName(name string) (*models.MaintenanceTeam, error)
	GetAll(includeArchived bool, limit, offset int) ([]models.MaintenanceTeam, int64, error)
	Update(team *models.MaintenanceTeam) error
	SetActive(id uuid.UUID, active bool) error
	ReplaceMembers(teamID uuid.UUID, members []models.User) error
	GetRequestCounts(ids []uuid.UUID) (map[uuid.UUID]TeamRequestCounts, error)
	CountActiveEquipment(ids []uuid.UUID) (map[uuid.UUID]int64, error)
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByIDs(ids []uuid.UUID) ([]models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetAll(limit, offset int) ([]models.User, int64, error)
}

// EquipmentRepositoryInterface defines the interface for equipment repository operations
type EquipmentRepositoryInterface interface {
	Create(equipment *models.Equipment) error
	GetByID(id uuid.UUID) (*models.Equipment, error)
	GetBySerialNumber(serial string) (*models.Equipment, error)
	List(filter EquipmentFilter, limit, offset int) ([]models.Equipment, int64, error)
	Update(equipment *models.Equipment) error
	SetActive(id uuid.UUID, active bool) error
	SaveState(equipment *models.Equipment, message *models.EquipmentMessage) error
	GetWithWarranty() ([]models.Equipment, error)
	SaveWarrantyStatus(equipment []models.Equipment) error
}

// RequestRepositoryInterface defines the interface for maintenance request repository operations
type RequestRepositoryInterface interface {
	GetByID(id uuid.UUID) (*models.MaintenanceRequest, error)
	GetByIDs(ids []uuid.UUID) ([]models.MaintenanceRequest, error)
	List(filter RequestFilter, limit, offset int) ([]models.MaintenanceRequest, int64, error)
	GetByEquipmentID(equipmentID uuid.UUID) ([]models.MaintenanceRequest, error)
	GetOverdue(today time.Time) ([]models.MaintenanceRequest, error)
	RefreshOverdue(today time.Time) (int64, error)
	SaveBatch(batch *WriteBatch) error
	SetActive(id uuid.UUID, active bool) error
}

// MessageRepositoryInterface defines the interface for equipment message repository operations
type MessageRepositoryInterface interface {
	Create(messages ...*models.EquipmentMessage) error
	GetByEquipmentID(equipmentID uuid.UUID, limit, offset int) ([]models.EquipmentMessage, int64, error)
}

// ReportRepositoryInterface defines the interface for the maintenance report view
type ReportRepositoryInterface interface {
	List(filter ReportFilter, limit, offset int) ([]models.MaintenanceReport, int64, error)
	Group(filter ReportFilter, dimensions []ReportDimension) ([]ReportGroup, error)
	Summary(filter ReportFilter) (*ReportSummary, error)
}
