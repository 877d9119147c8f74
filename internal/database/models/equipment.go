package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Equipment is a maintainable asset
type Equipment struct {
	BaseModel
	Name         string         `json:"name" gorm:"size:200;not null" validate:"required,min=1,max=200"`
	SerialNumber *string        `json:"serial_number,omitempty" gorm:"size:100;uniqueIndex"`
	Active       bool           `json:"active" gorm:"not null;default:true"`
	State        EquipmentState `json:"state" gorm:"type:varchar(20);not null;default:'operational'"`
	CategoryID   *uuid.UUID     `json:"category_id,omitempty" gorm:"type:uuid;index"`

	OwnerType  OwnerType `json:"owner_type" gorm:"type:varchar(20);not null;default:'department'"`
	Department string    `json:"department" gorm:"size:200"`
	Employee   string    `json:"employee" gorm:"size:200"`

	TeamID       uuid.UUID  `json:"team_id" gorm:"type:uuid;not null;index"`
	TechnicianID *uuid.UUID `json:"technician_id,omitempty" gorm:"type:uuid;index"`

	PurchaseDate *time.Time `json:"purchase_date,omitempty" gorm:"type:date"`
	WarrantyDate *time.Time `json:"warranty_date,omitempty" gorm:"type:date;index"`
	Location     string     `json:"location" gorm:"size:200"`
	Notes        string     `json:"notes" gorm:"type:text"`

	// Stored copies of the warranty evaluation, refreshed on write and daily
	WarrantyAlert     bool          `json:"warranty_alert" gorm:"not null;default:false"`
	WarrantyState     WarrantyState `json:"warranty_state" gorm:"type:varchar(20);not null;default:'none'"`
	DaysToWarrantyEnd int           `json:"days_to_warranty_end" gorm:"not null;default:0"`

	// Relationships
	Category   *EquipmentCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Team       *MaintenanceTeam   `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:RESTRICT"`
	Technician *User              `json:"technician,omitempty" gorm:"foreignKey:TechnicianID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for Equipment
func (Equipment) TableName() string {
	return "equipment"
}

// DisplayName renders "name [serial]" when a serial number is known
func (e *Equipment) DisplayName() string {
	if e.SerialNumber != nil && *e.SerialNumber != "" {
		return fmt.Sprintf("%s [%s]", e.Name, *e.SerialNumber)
	}
	return e.Name
}
