package models

import (
	"github.com/google/uuid"
)

// MaintenanceTeam is a group of technicians responsible for equipment
type MaintenanceTeam struct {
	BaseModel
	Name   string `json:"name" gorm:"size:100;not null;uniqueIndex" validate:"required,min=1,max=100"`
	Active bool   `json:"active" gorm:"not null;default:true"`
	Color  int    `json:"color" gorm:"not null;default:0"`

	// Relationships
	Members []User `json:"members,omitempty" gorm:"many2many:maintenance_team_members;"`
}

// TableName returns the table name for MaintenanceTeam
func (MaintenanceTeam) TableName() string {
	return "maintenance_teams"
}

// HasMember reports whether the user belongs to the team
func (t *MaintenanceTeam) HasMember(userID uuid.UUID) bool {
	for _, m := range t.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
