package maintenance

import (
	"gearguard-backend/internal/database/models"

	"github.com/google/uuid"
)

// ApplyEquipmentSelection copies category, team and technician from the selected
// equipment onto the request. A nil equipment clears all three.
func ApplyEquipmentSelection(r *models.MaintenanceRequest, eq *models.Equipment) {
	if eq == nil {
		r.EquipmentID = uuid.Nil
		r.CategoryID = nil
		r.TeamID = nil
		r.TechnicianID = nil
		return
	}

	r.EquipmentID = eq.ID
	r.CategoryID = copyID(eq.CategoryID)
	teamID := eq.TeamID
	r.TeamID = &teamID
	if teamID == uuid.Nil {
		r.TeamID = nil
	}
	r.TechnicianID = copyID(eq.TechnicianID)
}

// ApplyTeamSelection sets the team and keeps the technician only when they belong to it
func ApplyTeamSelection(r *models.MaintenanceRequest, team *models.MaintenanceTeam) {
	if team == nil {
		r.TeamID = nil
		r.TechnicianID = nil
		return
	}

	teamID := team.ID
	r.TeamID = &teamID
	if r.TechnicianID != nil && !team.HasMember(*r.TechnicianID) {
		r.TechnicianID = nil
	}
}

// ClearOtherOwner blanks the owner field that does not match the owner type
func ClearOtherOwner(eq *models.Equipment) {
	switch eq.OwnerType {
	case models.OwnerTypeDepartment:
		eq.Employee = ""
	case models.OwnerTypeEmployee:
		eq.Department = ""
	}
}

// ApplyEquipmentTeam sets the default team of a piece of equipment and drops a
// default technician who is not a member of it
func ApplyEquipmentTeam(eq *models.Equipment, team *models.MaintenanceTeam) {
	eq.TeamID = team.ID
	if eq.TechnicianID != nil && !team.HasMember(*eq.TechnicianID) {
		eq.TechnicianID = nil
	}
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
