package services

import (
	"fmt"
	"log"

	"rentique/internal/models"
	"rentique/internal/repositories"
)

// CategoryService handles business logic for catalog categories.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
	events       EventPublisher
	images       ImageStore
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository, events EventPublisher, images ImageStore) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, events: events, images: images}
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string
	Description string
	Image       string
	IsActive    *bool
	SortOrder   *int
}

// ListCategories retrieves categories ordered by sort order by default.
func (s *CategoryService) ListCategories(opts repositories.ListOptions) ([]models.Category, int64, error) {
	return s.categoryRepo.List(opts.Normalize("sort_order", "asc"))
}

// GetCategory retrieves a category by ID.
func (s *CategoryService) GetCategory(id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Resource: "category", ID: id}
		}
		return nil, err
	}
	return category, nil
}

// GetCategoryBySlug retrieves a category by slug.
func (s *CategoryService) GetCategoryBySlug(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Resource: "category", ID: slug}
		}
		return nil, err
	}
	return category, nil
}

// CreateCategory creates a category, deriving its slug from the name.
func (s *CategoryService) CreateCategory(input CategoryInput) (*models.Category, error) {
	slug, err := uniqueSlug(input.Name, "", s.categoryRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		Slug:        slug,
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.categoryRepo.Create(category); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Field: "name", Message: fmt.Sprintf("category '%s' already exists", input.Name)}
		}
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates a category. The slug is regenerated only when
// the name changed on this save.
func (s *CategoryService) UpdateCategory(id string, input CategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != category.Name {
		slug, err := uniqueSlug(input.Name, category.ID, s.categoryRepo.SlugExists)
		if err != nil {
			return nil, err
		}
		category.Name = input.Name
		category.Slug = slug
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	if input.Image != "" {
		category.Image = input.Image
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.categoryRepo.Update(category); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Field: "name", Message: fmt.Sprintf("category '%s' already exists", input.Name)}
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category unconditionally; products keep any
// dangling references. A store-hosted image is queued for best-effort
// remote cleanup, which never blocks or fails the deletion.
func (s *CategoryService) DeleteCategory(id string) error {
	category, err := s.GetCategory(id)
	if err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}
	s.enqueueImageCleanup(category.Image)
	return nil
}

func (s *CategoryService) enqueueImageCleanup(url string) {
	if s.images == nil || s.events == nil || url == "" {
		return
	}
	publicID, hosted := s.images.PublicID(url)
	if !hosted {
		return
	}
	if err := s.events.PublishImageCleanup(publicID); err != nil {
		log.Printf("Warning: failed to enqueue image cleanup for %s: %v", publicID, err)
	}
}
