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

// CategoryService provides equipment category business logic
type CategoryService struct {
	repo      repository.CategoryRepositoryInterface
	validator *validator.Validate
}

// Ensure CategoryService implements CategoryServiceInterface
var _ CategoryServiceInterface = (*CategoryService)(nil)

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo repository.CategoryRepositoryInterface, validator *validator.Validate) *CategoryService {
	return &CategoryService{
		repo:      repo,
		validator: validator,
	}
}

// CreateCategoryRequest represents the request to create an equipment category
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color int    `json:"color" validate:"min=0,max=11"`
	Note  string `json:"note"`
}

// UpdateCategoryRequest represents the request to update an equipment category
type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Color *int    `json:"color,omitempty" validate:"omitempty,min=0,max=11"`
	Note  *string `json:"note,omitempty"`
}

// CategoryResponse represents a single category in API responses
type CategoryResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Color          int       `json:"color"`
	Note           string    `json:"note"`
	EquipmentCount int64     `json:"equipment_count"`
}

// CategoryListResponse represents a paginated list of categories
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
}

// Create creates a new category
func (s *CategoryService) Create(req *CreateCategoryRequest) (*CategoryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(name, uuid.Nil); err != nil {
		return nil, err
	}

	category := &models.EquipmentCategory{
		Name:  name,
		Color: req.Color,
		Note:  req.Note,
	}
	if err := s.repo.Create(category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return toCategoryResponse(category, 0), nil
}

// GetByID retrieves a category with its active equipment count
func (s *CategoryService) GetByID(id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrCategoryNotFound, "get category")
	}

	counts, err := s.repo.CountActiveEquipment([]uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to count equipment: %w", err)
	}
	return toCategoryResponse(category, counts[id]), nil
}

// GetAll retrieves categories with pagination
func (s *CategoryService) GetAll(page, pageSize int) (*CategoryListResponse, error) {
	page, pageSize, offset := normalizePage(page, pageSize)

	categories, total, err := s.repo.GetAll(pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	ids := make([]uuid.UUID, len(categories))
	for i := range categories {
		ids[i] = categories[i].ID
	}
	counts, err := s.repo.CountActiveEquipment(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count equipment: %w", err)
	}

	items := make([]CategoryResponse, len(categories))
	for i := range categories {
		items[i] = *toCategoryResponse(&categories[i], counts[categories[i].ID])
	}

	return &CategoryListResponse{
		Categories: items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Update updates a category
func (s *CategoryService) Update(id uuid.UUID, req *UpdateCategoryRequest) (*CategoryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, apperrors.ErrCategoryNotFound, "get category")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != category.Name {
			if err := s.ensureNameFree(name, id); err != nil {
				return nil, err
			}
		}
		category.Name = name
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Note != nil {
		category.Note = *req.Note
	}

	if err := s.repo.Update(category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return s.GetByID(id)
}

// Delete removes a category that no equipment references
func (s *CategoryService) Delete(id uuid.UUID) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return mapNotFound(err, apperrors.ErrCategoryNotFound, "get category")
	}

	referenced, err := s.repo.IsReferenced(id)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if referenced {
		return apperrors.ErrCategoryInUse
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *CategoryService) ensureNameFree(name string, self uuid.UUID) error {
	existing, err := s.repo.GetByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperrors.ErrCategoryExists
	}
	return nil
}

func toCategoryResponse(c *models.EquipmentCategory, equipmentCount int64) *CategoryResponse {
	return &CategoryResponse{
		ID:             c.ID,
		Name:           c.Name,
		Color:          c.Color,
		Note:           c.Note,
		EquipmentCount: equipmentCount,
	}
}
