package handlers

import (
	"net/http"

	"gearguard-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler handles HTTP requests for equipment category operations
type CategoryHandler struct {
	categoryService service.CategoryServiceInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService service.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories handles GET /categories
// @Summary List equipment categories
// @Description Get all equipment categories with their equipment counts
// @Tags categories
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(20)
// @Success 200 {object} service.CategoryListResponse "Successfully retrieved categories"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	page, pageSize := pagination(c)

	resp, err := h.categoryService.GetAll(page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateCategory handles POST /categories
// @Summary Create an equipment category
// @Tags categories
// @Accept json
// @Produce json
// @Param category body service.CreateCategoryRequest true "Category data"
// @Success 201 {object} service.CategoryResponse "Successfully created category"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 409 {object} ErrorResponse "Category name already taken"
// @Security BearerAuth
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetCategory handles GET /categories/:id
// @Summary Get equipment category by ID
// @Tags categories
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Success 200 {object} service.CategoryResponse "Successfully retrieved category"
// @Failure 400 {object} ErrorResponse "Invalid category ID"
// @Failure 404 {object} ErrorResponse "Category not found"
// @Security BearerAuth
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// UpdateCategory handles PUT /categories/:id
// @Summary Update an equipment category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Param category body service.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} service.CategoryResponse "Successfully updated category"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Category not found"
// @Failure 409 {object} ErrorResponse "Category name already taken"
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}

	var req service.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/:id
// @Summary Delete an equipment category
// @Description Categories still referenced by equipment cannot be deleted
// @Tags categories
// @Param id path string true "Category ID (UUID)"
// @Success 204 "Category deleted"
// @Failure 404 {object} ErrorResponse "Category not found"
// @Failure 409 {object} ErrorResponse "Category in use"
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
