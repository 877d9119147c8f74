package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaintenanceRequest is a unit of maintenance work on one piece of equipment
type MaintenanceRequest struct {
	BaseModel
	Name        string `json:"name" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Active      bool   `json:"active" gorm:"not null;default:true;index"`
	Color       int    `json:"color" gorm:"not null;default:0"`

	EquipmentID  uuid.UUID  `json:"equipment_id" gorm:"type:uuid;not null;index"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty" gorm:"type:uuid;index"`
	TeamID       *uuid.UUID `json:"team_id,omitempty" gorm:"type:uuid;index"`
	TechnicianID *uuid.UUID `json:"technician_id,omitempty" gorm:"type:uuid;index"`

	MaintenanceType MaintenanceType `json:"maintenance_type" gorm:"type:varchar(20);not null;default:'corrective'"`
	Stage           Stage           `json:"stage" gorm:"type:varchar(20);not null;default:'new';index"`
	Priority        Priority        `json:"priority" gorm:"not null"`
	KanbanState     KanbanState     `json:"kanban_state" gorm:"type:varchar(20);not null;default:'normal'"`

	RequestDate  time.Time  `json:"request_date" gorm:"type:date;not null"`
	ScheduleDate *time.Time `json:"schedule_date,omitempty" gorm:"type:date;index"`
	CloseDate    *time.Time `json:"close_date,omitempty" gorm:"type:date"`

	Duration      float64 `json:"duration" gorm:"not null;default:0"`
	CostParts     float64 `json:"cost_parts" gorm:"not null;default:0"`
	CostLaborRate float64 `json:"cost_labor_rate" gorm:"not null"`
	CostLabor     float64 `json:"cost_labor" gorm:"not null;default:0"`
	CostTotal     float64 `json:"cost_total" gorm:"not null;default:0"`

	// Stored copies of the overdue evaluation, refreshed on write and daily
	IsOverdue   bool `json:"is_overdue" gorm:"not null;default:false"`
	DaysOverdue int  `json:"days_overdue" gorm:"not null;default:0"`

	// Relationships
	Equipment  *Equipment         `json:"equipment,omitempty" gorm:"foreignKey:EquipmentID;constraint:OnDelete:RESTRICT"`
	Category   *EquipmentCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Team       *MaintenanceTeam   `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:SET NULL"`
	Technician *User              `json:"technician,omitempty" gorm:"foreignKey:TechnicianID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for MaintenanceRequest
func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// DisplayName renders "name - equipment" when the equipment is loaded
func (r *MaintenanceRequest) DisplayName() string {
	if r.Equipment != nil {
		return fmt.Sprintf("%s - %s", r.Name, r.Equipment.Name)
	}
	return r.Name
}
