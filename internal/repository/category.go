package repository

import (
	"gearguard-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository handles database operations for equipment categories
type CategoryRepository struct {
	db *gorm.DB
}

// Ensure CategoryRepository implements CategoryRepositoryInterface
var _ CategoryRepositoryInterface = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(category *models.EquipmentCategory) error {
	return r.db.Create(category).Error
}

// GetByID retrieves a category by its UUID
func (r *CategoryRepository) GetByID(id uuid.UUID) (*models.EquipmentCategory, error) {
	var category models.EquipmentCategory
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByName retrieves a category by its unique name
func (r *CategoryRepository) GetByName(name string) (*models.EquipmentCategory, error) {
	var category models.EquipmentCategory
	if err := r.db.First(&category, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetAll retrieves all categories with pagination
func (r *CategoryRepository) GetAll(limit, offset int) ([]models.EquipmentCategory, int64, error) {
	var categories []models.EquipmentCategory
	var total int64

	if err := r.db.Model(&models.EquipmentCategory{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Limit(limit).Offset(offset).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

// Update saves all fields of a category
func (r *CategoryRepository) Update(category *models.EquipmentCategory) error {
	return r.db.Save(category).Error
}

// Delete deletes a category
func (r *CategoryRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.EquipmentCategory{}, "id = ?", id).Error
}

// CountActiveEquipment counts active equipment per category in one grouped query
func (r *CategoryRepository) CountActiveEquipment(ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		CategoryID uuid.UUID
		Count      int64
	}
	err := r.db.Model(&models.Equipment{}).
		Select("category_id, COUNT(*) AS count").
		Where("category_id IN ? AND active = ?", ids, true).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}

// IsReferenced reports whether any equipment, archived or not, uses the category
func (r *CategoryRepository) IsReferenced(id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Equipment{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
