package repositories

import "rentique/internal/models"

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(filter ProductFilter, opts ListOptions) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	SlugExists(slug, excludeID string) (bool, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	IncrementViews(ids []string) error
}
