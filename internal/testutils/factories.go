package testutils

import (
	"time"

	"gearguard-backend/internal/database/models"

	"github.com/google/uuid"
)

// UserFactory provides methods to create test User data
type UserFactory struct{}

// Create creates a test User with default values
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	return &models.User{
		BaseModel:    models.BaseModel{ID: id},
		Name:         "Technician " + id.String()[:6],
		Email:        "tech-" + id.String()[:8] + "@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuuJ3n1Vd0WvX8lq5y9m9xv1bAnJ1qzW1i",
		Active:       true,
	}
}

// CategoryFactory provides methods to create test EquipmentCategory data
type CategoryFactory struct{}

// Create creates a test EquipmentCategory with default values
func (f *CategoryFactory) Create() *models.EquipmentCategory {
	return f.WithName("Category " + uuid.New().String()[:6])
}

// WithName creates a category with the given name
func (f *CategoryFactory) WithName(name string) *models.EquipmentCategory {
	return &models.EquipmentCategory{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      name,
		Color:     3,
	}
}

// TeamFactory provides methods to create test MaintenanceTeam data
type TeamFactory struct{}

// Create creates an active test MaintenanceTeam without members
func (f *TeamFactory) Create() *models.MaintenanceTeam {
	return f.WithMembers("Team " + uuid.New().String()[:6])
}

// WithMembers creates a team with the given name and members
func (f *TeamFactory) WithMembers(name string, members ...models.User) *models.MaintenanceTeam {
	return &models.MaintenanceTeam{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      name,
		Active:    true,
		Members:   members,
	}
}

// EquipmentFactory provides methods to create test Equipment data
type EquipmentFactory struct{}

// Create creates operational equipment assigned to the team
func (f *EquipmentFactory) Create(teamID uuid.UUID) *models.Equipment {
	id := uuid.New()
	serial := "SN-" + id.String()[:8]
	return &models.Equipment{
		BaseModel:     models.BaseModel{ID: id},
		Name:          "Equipment " + id.String()[:6],
		SerialNumber:  &serial,
		Active:        true,
		State:         models.EquipmentStateOperational,
		OwnerType:     models.OwnerTypeDepartment,
		Department:    "Production",
		TeamID:        teamID,
		WarrantyState: models.WarrantyStateNone,
	}
}

// RequestFactory provides methods to create test MaintenanceRequest data
type RequestFactory struct{}

// Create creates a new corrective request for the equipment
func (f *RequestFactory) Create(equipment *models.Equipment) *models.MaintenanceRequest {
	teamID := equipment.TeamID
	return &models.MaintenanceRequest{
		BaseModel:       models.BaseModel{ID: uuid.New()},
		Name:            "Request " + uuid.New().String()[:6],
		Active:          true,
		EquipmentID:     equipment.ID,
		CategoryID:      equipment.CategoryID,
		TeamID:          &teamID,
		TechnicianID:    equipment.TechnicianID,
		MaintenanceType: models.MaintenanceTypeCorrective,
		Stage:           models.StageNew,
		Priority:        models.PriorityNormal,
		KanbanState:     models.KanbanStateNormal,
		RequestDate:     time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		CostLaborRate:   50,
	}
}

// WithStage creates a request in the given stage
func (f *RequestFactory) WithStage(equipment *models.Equipment, stage models.Stage) *models.MaintenanceRequest {
	r := f.Create(equipment)
	r.Stage = stage
	return r
}

// FactorySet bundles all factories
type FactorySet struct {
	User      *UserFactory
	Category  *CategoryFactory
	Team      *TeamFactory
	Equipment *EquipmentFactory
	Request   *RequestFactory
}

// NewFactorySet creates a new FactorySet
func NewFactorySet() *FactorySet {
	return &FactorySet{
		User:      &UserFactory{},
		Category:  &CategoryFactory{},
		Team:      &TeamFactory{},
		Equipment: &EquipmentFactory{},
		Request:   &RequestFactory{},
	}
}
