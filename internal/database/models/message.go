package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EquipmentMessage is an append-only audit entry posted on a piece of equipment
type EquipmentMessage struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt   time.Time   `json:"created_at" gorm:"index"`
	EquipmentID uuid.UUID   `json:"equipment_id" gorm:"type:uuid;not null;index"`
	RequestID   *uuid.UUID  `json:"request_id,omitempty" gorm:"type:uuid;index"`
	Kind        MessageKind `json:"kind" gorm:"type:varchar(20);not null"`
	Body        string      `json:"body" gorm:"type:text;not null"`
	AuthorID    *uuid.UUID  `json:"author_id,omitempty" gorm:"type:uuid"`

	Equipment *Equipment `json:"-" gorm:"foreignKey:EquipmentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for EquipmentMessage
func (EquipmentMessage) TableName() string {
	return "equipment_messages"
}

// BeforeCreate sets the UUID if not already set
func (m *EquipmentMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
