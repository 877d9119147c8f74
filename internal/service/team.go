package service

import (
	"errors"
	"fmt"
	"strings"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamService handles business logic for maintenance teams
type TeamService struct {
	repo      repository.TeamRepositoryInterface
	userRepo  repository.UserRepositoryInterface
	validator *validator.Validate
}

// Ensure TeamService implements TeamServiceInterface
var _ TeamServiceInterface = (*TeamService)(nil)

// NewTeamService creates a new team service
func NewTeamService(repo repository.TeamRepositoryInterface, userRepo repository.UserRepositoryInterface, validator *validator.Validate) *TeamService {
	return &TeamService{
		repo:      repo,
		userRepo:  userRepo,
		validator: validator,
	}
}

// CreateTeamRequest represents the request to create a maintenance team
type CreateTeamRequest struct {
	Name      string      `json:"name" validate:"required,min=1,max=100"`
	Color     int         `json:"color" validate:"min=0,max=11"`
	MemberIDs []uuid.UUID `json:"member_ids,omitempty"`
}

// UpdateTeamRequest represents the request to update a maintenance team
type UpdateTeamRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Color  *int    `json:"color,omitempty" validate:"omitempty,min=0,max=11"`
	Active *bool   `json:"active,omitempty"`
}

// SetMembersRequest replaces the member set of a team
type SetMembersRequest struct {
	MemberIDs []uuid.UUID `json:"member_ids"`
}

// TeamMember is a member as listed on a team
type TeamMember struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// TeamResponse represents the response for team operations
type TeamResponse struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Active           bool         `json:"active"`
	Color            int          `json:"color"`
	Members          []TeamMember `json:"members"`
	OpenRequestCount int64        `json:"open_request_count"`
	TodoRequestCount int64        `json:"todo_request_count"`
	EquipmentCount   int64        `json:"equipment_count"`
}

// TeamListResponse represents a paginated list of teams
type TeamListResponse struct {
	Teams    []TeamResponse `json:"teams"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Create creates a new team
func (s *TeamService) Create(req *CreateTeamRequest) (*TeamResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(name, uuid.Nil); err != nil {
		return nil, err
	}

	members, err := s.loadMembers(req.MemberIDs)
	if err != nil {
		return nil, err
	}

	team := &models.MaintenanceTeam{
		Name:    name,
		Active:  true,
		Color:   req.Color,
		Members: members,
	}
	if err := s.repo.Create(team); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.ErrTeamExists
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return s.GetByID(team.ID)
}

// GetByID retrieves a team with its members and counts
func (s *TeamService) GetByID(id uuid.UUID) (*TeamResponse, error) {
	team, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrTeamNotFound, "get team")
	}

	responses, err := s.withCounts([]models.MaintenanceTeam{*team})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// GetAll retrieves teams with pagination
func (s *TeamService) GetAll(includeArchived bool, page, pageSize int) (*TeamListResponse, error) {
	page, pageSize, offset := normalizePage(page, pageSize)

	teams, total, err := s.repo.GetAll(includeArchived, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}

	responses, err := s.withCounts(teams)
	if err != nil {
		return nil, err
	}

	return &TeamListResponse{
		Teams:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update updates a team's name, color or active flag
func (s *TeamService) Update(id uuid.UUID, req *UpdateTeamRequest) (*TeamResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	team, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrTeamNotFound, "get team")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != team.Name {
			if err := s.ensureNameFree(name, id); err != nil {
				return nil, err
			}
		}
		team.Name = name
	}
	if req.Color != nil {
		team.Color = *req.Color
	}
	if req.Active != nil {
		team.Active = *req.Active
	}

	if err := s.repo.Update(team); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.ErrTeamExists
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return s.GetByID(id)
}

// Archive deactivates a team; teams are never hard-deleted
func (s *TeamService) Archive(id uuid.UUID) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return mapNotFound(err, apperrors.ErrTeamNotFound, "get team")
	}
	if err := s.repo.SetActive(id, false); err != nil {
		return fmt.Errorf("failed to archive team: %w", err)
	}
	return nil
}

// SetMembers replaces the member set of a team
func (s *TeamService) SetMembers(id uuid.UUID, req *SetMembersRequest) (*TeamResponse, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, mapNotFound(err, apperrors.ErrTeamNotFound, "get team")
	}

	members, err := s.loadMembers(req.MemberIDs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceMembers(id, members); err != nil {
		return nil, fmt.Errorf("failed to set team members: %w", err)
	}
	return s.GetByID(id)
}

func (s *TeamService) loadMembers(ids []uuid.UUID) ([]models.User, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return []models.User{}, nil
	}

	users, err := s.userRepo.GetByIDs(unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	if len(users) != len(unique) {
		return nil, apperrors.ErrUserNotFound
	}
	return users, nil
}

func (s *TeamService) withCounts(teams []models.MaintenanceTeam) ([]TeamResponse, error) {
	ids := make([]uuid.UUID, len(teams))
	for i := range teams {
		ids[i] = teams[i].ID
	}

	requestCounts, err := s.repo.GetRequestCounts(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count team requests: %w", err)
	}
	equipmentCounts, err := s.repo.CountActiveEquipment(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count team equipment: %w", err)
	}

	responses := make([]TeamResponse, len(teams))
	for i := range teams {
		team := &teams[i]
		members := make([]TeamMember, len(team.Members))
		for j, m := range team.Members {
			members[j] = TeamMember{ID: m.ID, Name: m.Name, Email: m.Email}
		}
		counts := requestCounts[team.ID]
		responses[i] = TeamResponse{
			ID:               team.ID,
			Name:             team.Name,
			Active:           team.Active,
			Color:            team.Color,
			Members:          members,
			OpenRequestCount: counts.Open,
			TodoRequestCount: counts.Todo,
			EquipmentCount:   equipmentCounts[team.ID],
		}
	}
	return responses, nil
}

func (s *TeamService) ensureNameFree(name string, self uuid.UUID) error {
	existing, err := s.repo.GetByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing team by name: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperrors.ErrTeamExists
	}
	return nil
}
