package repository

import (
	"strings"
	"time"

	"gearguard-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var closedStages = []models.Stage{models.StageRepaired, models.StageScrap}

// RequestFilter narrows maintenance request listings
type RequestFilter struct {
	EquipmentID     *uuid.UUID
	CategoryID      *uuid.UUID
	TeamID          *uuid.UUID
	TechnicianID    *uuid.UUID
	Stages          []models.Stage
	MaintenanceType models.MaintenanceType
	// OverdueOn keeps requests that are overdue on that day
	OverdueOn       *time.Time
	Search          string
	IncludeArchived bool
}

// WriteBatch is everything one request write persists, applied atomically
type WriteBatch struct {
	Created   []*models.MaintenanceRequest
	Updated   []*models.MaintenanceRequest
	Equipment []*models.Equipment
	Messages  []*models.EquipmentMessage
}

// RequestRepository handles database operations for maintenance requests
type RequestRepository struct {
	db *gorm.DB
}

// Ensure RequestRepository implements RequestRepositoryInterface
var _ RequestRepositoryInterface = (*RequestRepository)(nil)

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Equipment").Preload("Category").Preload("Team").Preload("Technician")
}

// GetByID retrieves a request with its equipment, category, team and technician
func (r *RequestRepository) GetByID(id uuid.UUID) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	if err := r.withRelations(r.db).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// GetByIDs retrieves the requests with the given IDs; unknown IDs are skipped
func (r *RequestRepository) GetByIDs(ids []uuid.UUID) ([]models.MaintenanceRequest, error) {
	var requests []models.MaintenanceRequest
	if len(ids) == 0 {
		return requests, nil
	}
	if err := r.withRelations(r.db).Where("id IN ?", ids).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// List retrieves requests matching the filter with pagination, most urgent first
func (r *RequestRepository) List(filter RequestFilter, limit, offset int) ([]models.MaintenanceRequest, int64, error) {
	var requests []models.MaintenanceRequest
	var total int64

	query := applyRequestFilter(r.db.Model(&models.MaintenanceRequest{}), filter).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.withRelations(query).
		Limit(limit).Offset(offset).
		Order("priority DESC").Order("request_date DESC").Order("name ASC").
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func applyRequestFilter(query *gorm.DB, filter RequestFilter) *gorm.DB {
	if !filter.IncludeArchived {
		query = query.Where("active = ?", true)
	}
	if filter.EquipmentID != nil {
		query = query.Where("equipment_id = ?", *filter.EquipmentID)
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
	if len(filter.Stages) > 0 {
		query = query.Where("stage IN ?", filter.Stages)
	}
	if filter.MaintenanceType != "" {
		query = query.Where("maintenance_type = ?", filter.MaintenanceType)
	}
	if filter.OverdueOn != nil {
		query = query.Where("stage NOT IN ? AND schedule_date IS NOT NULL AND schedule_date < ?", closedStages, *filter.OverdueOn)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	return query
}

// GetByEquipmentID retrieves every active request of a piece of equipment
func (r *RequestRepository) GetByEquipmentID(equipmentID uuid.UUID) ([]models.MaintenanceRequest, error) {
	var requests []models.MaintenanceRequest
	err := r.db.Where("equipment_id = ? AND active = ?", equipmentID, true).
		Order("request_date ASC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// GetOverdue retrieves open active requests scheduled before today
func (r *RequestRepository) GetOverdue(today time.Time) ([]models.MaintenanceRequest, error) {
	var requests []models.MaintenanceRequest
	err := r.db.Preload("Equipment").Preload("Technician").
		Where("active = ? AND stage NOT IN ? AND schedule_date IS NOT NULL AND schedule_date < ?", true, closedStages, today).
		Order("schedule_date ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// RefreshOverdue rewrites the stored overdue flags of every request for the given day
func (r *RequestRepository) RefreshOverdue(today time.Time) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.MaintenanceRequest{}).
			Where("stage NOT IN ? AND schedule_date IS NOT NULL AND schedule_date < ?", closedStages, today).
			UpdateColumns(map[string]interface{}{
				"is_overdue":   true,
				"days_overdue": gorm.Expr("CAST(? AS date) - schedule_date", today),
			})
		if res.Error != nil {
			return res.Error
		}
		affected += res.RowsAffected

		res = tx.Model(&models.MaintenanceRequest{}).
			Where("is_overdue = ?", true).
			Where("(stage IN ? OR schedule_date IS NULL OR schedule_date >= ?)", closedStages, today).
			UpdateColumns(map[string]interface{}{
				"is_overdue":   false,
				"days_overdue": 0,
			})
		if res.Error != nil {
			return res.Error
		}
		affected += res.RowsAffected
		return nil
	})
	return affected, err
}

// SaveBatch writes new and changed requests, the equipment changed by scrap
// events and the resulting audit messages in one transaction
func (r *RequestRepository) SaveBatch(batch *WriteBatch) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, request := range batch.Created {
			if err := tx.Omit(clause.Associations).Create(request).Error; err != nil {
				return err
			}
		}
		for _, request := range batch.Updated {
			if err := tx.Omit(clause.Associations).Save(request).Error; err != nil {
				return err
			}
		}
		for _, equipment := range batch.Equipment {
			if err := updateEquipmentState(tx, equipment); err != nil {
				return err
			}
		}
		for _, message := range batch.Messages {
			if err := tx.Create(message).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SetActive archives or restores a request
func (r *RequestRepository) SetActive(id uuid.UUID, active bool) error {
	return r.db.Model(&models.MaintenanceRequest{}).Where("id = ?", id).Update("active", active).Error
}
