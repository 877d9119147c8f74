package repository

import (
	"strings"

	"gearguard-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EquipmentFilter narrows equipment listings
type EquipmentFilter struct {
	CategoryID      *uuid.UUID
	TeamID          *uuid.UUID
	TechnicianID    *uuid.UUID
	State           models.EquipmentState
	WarrantyAlert   *bool
	Search          string
	IncludeArchived bool
}

// EquipmentRepository handles database operations for equipment
type EquipmentRepository struct {
	db *gorm.DB
}

// Ensure EquipmentRepository implements EquipmentRepositoryInterface
var _ EquipmentRepositoryInterface = (*EquipmentRepository)(nil)

// NewEquipmentRepository creates a new equipment repository
func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// Create creates a new piece of equipment
func (r *EquipmentRepository) Create(equipment *models.Equipment) error {
	return r.db.Omit(clause.Associations).Create(equipment).Error
}

// GetByID retrieves equipment with its category, team and technician
func (r *EquipmentRepository) GetByID(id uuid.UUID) (*models.Equipment, error) {
	var equipment models.Equipment
	err := r.db.Preload("Category").Preload("Team").Preload("Technician").
		First(&equipment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

// GetBySerialNumber retrieves equipment by its unique serial number
func (r *EquipmentRepository) GetBySerialNumber(serial string) (*models.Equipment, error) {
	var equipment models.Equipment
	if err := r.db.First(&equipment, "serial_number = ?", serial).Error; err != nil {
		return nil, err
	}
	return &equipment, nil
}

// List retrieves equipment matching the filter with pagination
func (r *EquipmentRepository) List(filter EquipmentFilter, limit, offset int) ([]models.Equipment, int64, error) {
	var items []models.Equipment
	var total int64

	query := r.applyFilter(r.db.Model(&models.Equipment{}), filter).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Category").Preload("Team").Preload("Technician").
		Limit(limit).Offset(offset).Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *EquipmentRepository) applyFilter(query *gorm.DB, filter EquipmentFilter) *gorm.DB {
	if !filter.IncludeArchived {
		query = query.Where("active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}
	if filter.TechnicianID != nil {
		query = query.Where("technician_id = ?", *filter.TechnicianID)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.WarrantyAlert != nil {
		query = query.Where("warranty_alert = ?", *filter.WarrantyAlert)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(serial_number) LIKE ?)", pattern, pattern)
	}
	return query
}

// Update saves the scalar fields of a piece of equipment
func (r *EquipmentRepository) Update(equipment *models.Equipment) error {
	return r.db.Omit(clause.Associations).Save(equipment).Error
}

// SetActive archives or restores a piece of equipment
func (r *EquipmentRepository) SetActive(id uuid.UUID, active bool) error {
	return r.db.Model(&models.Equipment{}).Where("id = ?", id).Update("active", active).Error
}

// SaveState persists a state change and its audit message in one transaction
func (r *EquipmentRepository) SaveState(equipment *models.Equipment, message *models.EquipmentMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := updateEquipmentState(tx, equipment); err != nil {
			return err
		}
		if message == nil {
			return nil
		}
		return tx.Create(message).Error
	})
}

// GetWithWarranty retrieves the equipment whose stored warranty fields may need a refresh
func (r *EquipmentRepository) GetWithWarranty() ([]models.Equipment, error) {
	var items []models.Equipment
	err := r.db.Where("warranty_date IS NOT NULL OR warranty_state <> ?", models.WarrantyStateNone).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SaveWarrantyStatus stores the warranty evaluation of each piece of equipment
func (r *EquipmentRepository) SaveWarrantyStatus(equipment []models.Equipment) error {
	if len(equipment) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range equipment {
			eq := &equipment[i]
			err := tx.Model(&models.Equipment{}).Where("id = ?", eq.ID).
				UpdateColumns(map[string]interface{}{
					"warranty_alert":       eq.WarrantyAlert,
					"warranty_state":       eq.WarrantyState,
					"days_to_warranty_end": eq.DaysToWarrantyEnd,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func updateEquipmentState(tx *gorm.DB, equipment *models.Equipment) error {
	return tx.Model(&models.Equipment{}).Where("id = ?", equipment.ID).
		Updates(map[string]interface{}{
			"active": equipment.Active,
			"state":  equipment.State,
		}).Error
}
