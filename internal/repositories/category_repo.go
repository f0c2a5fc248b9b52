package repositories

import "rentique/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(opts ListOptions) ([]models.Category, int64, error)
	GetByID(id string) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetByIDs(ids []string) ([]models.Category, error)
	SlugExists(slug, excludeID string) (bool, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) error
}
