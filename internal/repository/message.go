package repository

import (
	"gearguard-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRepository handles the equipment audit trail
type MessageRepository struct {
	db *gorm.DB
}

// Ensure MessageRepository implements MessageRepositoryInterface
var _ MessageRepositoryInterface = (*MessageRepository)(nil)

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create appends messages in one statement
func (r *MessageRepository) Create(messages ...*models.EquipmentMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.Create(messages).Error
}

// GetByEquipmentID retrieves the messages of a piece of equipment, newest first
func (r *MessageRepository) GetByEquipmentID(equipmentID uuid.UUID, limit, offset int) ([]models.EquipmentMessage, int64, error) {
	var messages []models.EquipmentMessage
	var total int64

	if err := r.db.Model(&models.EquipmentMessage{}).Where("equipment_id = ?", equipmentID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("equipment_id = ?", equipmentID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}
