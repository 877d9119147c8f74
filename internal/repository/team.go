package repository

import (
	"gearguard-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRequestCounts are the request figures shown on a maintenance team
type TeamRequestCounts struct {
	Open int64 `json:"open_request_count"`
	Todo int64 `json:"todo_request_count"`
}

// TeamRepository handles database operations for maintenance teams
type TeamRepository struct {
	db *gorm.DB
}

// Ensure TeamRepository implements TeamRepositoryInterface
var _ TeamRepositoryInterface = (*TeamRepository)(nil)

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team together with its member links
func (r *TeamRepository) Create(team *models.MaintenanceTeam) error {
	return r.db.Omit("Members.*").Create(team).Error
}

// GetByID retrieves a team with its members
func (r *TeamRepository) GetByID(id uuid.UUID) (*models.MaintenanceTeam, error) {
	var team models.MaintenanceTeam
	if err := r.db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("users.name ASC")
	}).First(&team, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// GetByName retrieves a team by its unique name
func (r *TeamRepository) GetByName(name string) (*models.MaintenanceTeam, error) {
	var team models.MaintenanceTeam
	if err := r.db.First(&team, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// GetAll retrieves teams with pagination; archived teams only when asked for
func (r *TeamRepository) GetAll(includeArchived bool, limit, offset int) ([]models.MaintenanceTeam, int64, error) {
	var teams []models.MaintenanceTeam
	var total int64

	query := r.db.Model(&models.MaintenanceTeam{})
	if !includeArchived {
		query = query.Where("active = ?", true)
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Members").Limit(limit).Offset(offset).Order("name ASC").Find(&teams).Error; err != nil {
		return nil, 0, err
	}

	return teams, total, nil
}

// Update saves the scalar fields of a team; members are managed by ReplaceMembers
func (r *TeamRepository) Update(team *models.MaintenanceTeam) error {
	return r.db.Omit(clause.Associations).Save(team).Error
}

// SetActive archives or restores a team
func (r *TeamRepository) SetActive(id uuid.UUID, active bool) error {
	return r.db.Model(&models.MaintenanceTeam{}).Where("id = ?", id).Update("active", active).Error
}

// ReplaceMembers sets the exact member set of a team
func (r *TeamRepository) ReplaceMembers(teamID uuid.UUID, members []models.User) error {
	team := &models.MaintenanceTeam{BaseModel: models.BaseModel{ID: teamID}}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(team).Association("Members").Replace(members)
	})
}

// GetRequestCounts computes open and to-do request counts for a set of teams
func (r *TeamRepository) GetRequestCounts(ids []uuid.UUID) (map[uuid.UUID]TeamRequestCounts, error) {
	counts := make(map[uuid.UUID]TeamRequestCounts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		TeamID    uuid.UUID
		OpenCount int64
		TodoCount int64
	}
	err := r.db.Model(&models.MaintenanceRequest{}).
		Select("team_id, "+
			"COUNT(*) FILTER (WHERE stage NOT IN ?) AS open_count, "+
			"COUNT(*) FILTER (WHERE stage = ?) AS todo_count",
			[]models.Stage{models.StageRepaired, models.StageScrap}, models.StageNew).
		Where("team_id IN ? AND active = ?", ids, true).
		Group("team_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TeamID] = TeamRequestCounts{Open: row.OpenCount, Todo: row.TodoCount}
	}
	return counts, nil
}

// CountActiveEquipment counts active equipment whose default team is in ids
func (r *TeamRepository) CountActiveEquipment(ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		TeamID uuid.UUID
		Count  int64
	}
	err := r.db.Model(&models.Equipment{}).
		Select("team_id, COUNT(*) AS count").
		Where("team_id IN ? AND active = ?", ids, true).
		Group("team_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TeamID] = row.Count
	}
	return counts, nil
}
