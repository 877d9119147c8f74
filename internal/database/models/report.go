package models

import (
	"time"

	"github.com/google/uuid"
)

// MaintenanceReport is one row of the read-only maintenance_report view
type MaintenanceReport struct {
	ID              uuid.UUID       `json:"id" gorm:"column:id"`
	Name            string          `json:"name"`
	EquipmentID     uuid.UUID       `json:"equipment_id"`
	EquipmentName   string          `json:"equipment_name"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	TeamID          *uuid.UUID      `json:"team_id,omitempty"`
	TechnicianID    *uuid.UUID      `json:"technician_id,omitempty"`
	MaintenanceType MaintenanceType `json:"maintenance_type"`
	Stage           Stage           `json:"stage"`
	Priority        Priority        `json:"priority"`
	RequestDate     time.Time       `json:"request_date"`
	ScheduleDate    *time.Time      `json:"schedule_date,omitempty"`
	CloseDate       *time.Time      `json:"close_date,omitempty"`
	Duration        float64         `json:"duration"`
	CostParts       float64         `json:"cost_parts"`
	CostLabor       float64         `json:"cost_labor"`
	CostTotal       float64         `json:"cost_total"`
	ResolutionDays  *int            `json:"resolution_days,omitempty"`
	RequestCount    int             `json:"request_count"`
}

// TableName returns the view name for MaintenanceReport
func (MaintenanceReport) TableName() string {
	return "maintenance_report"
}
