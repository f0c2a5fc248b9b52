package repositories

import (
	"fmt"

	"rentique/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Columns a category listing may be sorted by.
var categorySortColumns = []string{"sort_order", "name", "created_at"}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// List retrieves categories with pagination.
func (r *GORMCategoryRepository) List(opts ListOptions) ([]models.Category, int64, error) {
	var total int64
	if err := r.db.Model(&models.Category{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	var categories []models.Category
	err := r.db.Order(opts.OrderClause("sort_order", categorySortColumns...)).
		Offset(opts.Offset()).Limit(opts.Limit).
		Find(&categories).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

// GetByID retrieves a single category by its ID.
func (r *GORMCategoryRepository) GetByID(id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("category with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}
	return &category, nil
}

// GetBySlug retrieves a single category by its slug.
func (r *GORMCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("category with slug %s not found: %w", slug, err)
		}
		return nil, fmt.Errorf("failed to get category by slug %s: %w", slug, err)
	}
	return &category, nil
}

// GetByIDs retrieves every category whose ID is in ids. Missing IDs are
// simply absent from the result; the caller decides whether that is an
// error.
func (r *GORMCategoryRepository) GetByIDs(ids []string) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := r.db.Find(&categories, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories by IDs: %w", err)
	}
	return categories, nil
}

// SlugExists reports whether any category other than excludeID already
// uses the slug.
func (r *GORMCategoryRepository) SlugExists(slug, excludeID string) (bool, error) {
	var count int64
	q := r.db.Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category slug %s: %w", slug, err)
	}
	return count > 0, nil
}

// Create creates a new category in the database.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update updates an existing category in the database.
func (r *GORMCategoryRepository) Update(category *models.Category) error {
	res := r.db.Save(category)
	if res.Error != nil {
		return fmt.Errorf("failed to update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %s not found for update", category.ID)
	}
	return nil
}

// Delete deletes a category by its ID. No referential check is made
// against products; see the catalog service.
func (r *GORMCategoryRepository) Delete(id string) error {
	res := r.db.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %s not found for deletion", id)
	}
	return nil
}
