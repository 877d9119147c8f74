package service

import (
	"errors"
	"fmt"
	"time"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	dateLayout      = "2006-01-02"
)

// normalizePage clamps page and pageSize and returns the matching offset
func normalizePage(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize, (page - 1) * pageSize
}

// mapNotFound converts gorm.ErrRecordNotFound into the given domain error
func mapNotFound(err error, notFound error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// repoResolver looks up equipment and teams for the request lifecycle,
// caching each record for the duration of one write
type repoResolver struct {
	equipmentRepo repository.EquipmentRepositoryInterface
	teamRepo      repository.TeamRepositoryInterface
	equipment     map[uuid.UUID]*models.Equipment
	teams         map[uuid.UUID]*models.MaintenanceTeam
}

func newRepoResolver(equipmentRepo repository.EquipmentRepositoryInterface, teamRepo repository.TeamRepositoryInterface) *repoResolver {
	return &repoResolver{
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		equipment:     map[uuid.UUID]*models.Equipment{},
		teams:         map[uuid.UUID]*models.MaintenanceTeam{},
	}
}

func (r *repoResolver) Equipment(id uuid.UUID) (*models.Equipment, error) {
	if eq, ok := r.equipment[id]; ok {
		return eq, nil
	}
	eq, err := r.equipmentRepo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrEquipmentNotFound, "get equipment")
	}
	r.equipment[id] = eq
	return eq, nil
}

func (r *repoResolver) Team(id uuid.UUID) (*models.MaintenanceTeam, error) {
	if team, ok := r.teams[id]; ok {
		return team, nil
	}
	team, err := r.teamRepo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrTeamNotFound, "get team")
	}
	r.teams[id] = team
	return team, nil
}
