package handlers

import (
	"log"

	"rentique/internal/middleware"
	"rentique/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for catalog categories.
type CategoryHandler struct {
	categoryService *services.CategoryService
	validate        *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validate:        newValidator(),
	}
}

// RegisterRoutes registers the category routes with the Fiber app.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, auth *middleware.Auth) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Get("/slug/:slug", h.HandleGetCategoryBySlug)
	categoryRoutes.Get("/:id", h.HandleGetCategory)

	categoryRoutes.Post("/", auth.AdminOnly(), h.HandleCreateCategory)
	categoryRoutes.Put("/:id", auth.AdminOnly(), h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", auth.AdminOnly(), h.HandleDeleteCategory)
}

// HandleListCategories lists categories, ordered by sort order unless
// overridden.
func (h *CategoryHandler) HandleListCategories(c *fiber.Ctx) error {
	opts := parseListOptions(c).Normalize("sort_order", "asc")
	categories, total, err := h.categoryService.ListCategories(opts)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Categories retrieved", listPayload("categories", categories, total, opts))
}

// HandleGetCategory returns one category by ID.
func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.categoryService.GetCategory(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Category retrieved", fiber.Map{"category": category})
}

// HandleGetCategoryBySlug returns one category by slug.
func (h *CategoryHandler) HandleGetCategoryBySlug(c *fiber.Ctx) error {
	category, err := h.categoryService.GetCategoryBySlug(c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Category retrieved", fiber.Map{"category": category})
}

// CategoryRequest represents the writable category fields.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=200"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"isActive"`
	SortOrder   *int   `json:"sortOrder"`
}

// HandleCreateCategory creates a category. Admin only.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing category body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, fieldErrors(err))
	}

	category, err := h.categoryService.CreateCategory(services.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    req.IsActive,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondCreated(c, "Category created", fiber.Map{"category": category})
}

// UpdateCategoryRequest is a partial category update; the looser
// validation lets fields be omitted.
type UpdateCategoryRequest struct {
	Name        string `json:"name" validate:"omitempty,max=50"`
	Description string `json:"description" validate:"max=200"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"isActive"`
	SortOrder   *int   `json:"sortOrder"`
}

// HandleUpdateCategory updates a category. Admin only.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing category body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, fieldErrors(err))
	}

	category, err := h.categoryService.UpdateCategory(c.Params("id"), services.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    req.IsActive,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Category updated", fiber.Map{"category": category})
}

// HandleDeleteCategory deletes a category. Admin only. Deletion is
// unconditional; no product referential check is made.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.categoryService.DeleteCategory(c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Category deleted", nil)
}
