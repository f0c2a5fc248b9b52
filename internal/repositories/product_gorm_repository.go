package repositories

import (
	"fmt"
	"strings"

	"rentique/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Columns a product listing may be sorted by.
var productSortColumns = []string{"created_at", "updated_at", "name", "price", "views"}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// applyFilter builds the WHERE clauses for a product listing query.
func (r *GORMProductRepository) applyFilter(q *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.CategoryID != "" {
		// Matches the legacy single-category field OR membership in the
		// multi-category set, whichever holds the reference.
		q = q.Where(
			"products.category_id = ? OR EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = products.id AND pc.category_id = ?)",
			filter.CategoryID, filter.CategoryID,
		)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.tags) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.MinPrice != nil {
		q = q.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.Size != "" {
		q = q.Where(
			"EXISTS (SELECT 1 FROM product_sizes ps WHERE ps.product_id = products.id AND ps.size = ?)",
			filter.Size,
		)
	}
	if filter.Color != "" {
		q = q.Where("LOWER(products.color) LIKE ?", "%"+strings.ToLower(filter.Color)+"%")
	}
	if filter.FeaturedOnly {
		q = q.Where("products.is_featured = ?", true)
	}
	return q
}

// List retrieves products matching the filter with pagination.
func (r *GORMProductRepository) List(filter ProductFilter, opts ListOptions) ([]models.Product, int64, error) {
	var total int64
	countQ := r.applyFilter(r.db.Model(&models.Product{}), filter)
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	q := r.applyFilter(r.db.Model(&models.Product{}), filter).
		Preload("Categories").Preload("Sizes").
		Order("products." + opts.OrderClause("created_at", productSortColumns...)).
		Offset(opts.Offset()).Limit(opts.Limit)
	if err := q.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product with its categories and sizes.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Categories").Preload("Sizes").First(&product, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetBySlug retrieves a single product by its slug.
func (r *GORMProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Categories").Preload("Sizes").First(&product, "slug = ?", slug).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with slug %s not found: %w", slug, err)
		}
		return nil, fmt.Errorf("failed to get product by slug %s: %w", slug, err)
	}
	return &product, nil
}

// SlugExists reports whether any product other than excludeID already
// uses the slug.
func (r *GORMProductRepository) SlugExists(slug, excludeID string) (bool, error) {
	var count int64
	q := r.db.Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product slug %s: %w", slug, err)
	}
	return count > 0, nil
}

// Create creates a new product with its associations.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product, replacing its category set and
// size rows with the ones on the struct.
func (r *GORMProductRepository) Update(product *models.Product) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(product).Association("Categories").Replace(product.Categories); err != nil {
			return fmt.Errorf("failed to replace product categories: %w", err)
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductSize{}).Error; err != nil {
			return fmt.Errorf("failed to clear product sizes: %w", err)
		}
		res := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(product)
		if res.Error != nil {
			return fmt.Errorf("failed to update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s not found for update", product.ID)
		}
		return nil
	})
	return err
}

// Delete soft-deletes a product by its ID.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	return nil
}

// IncrementViews adds one view to every listed product in a single
// batched update. The expression form keeps concurrent views from
// losing counts.
func (r *GORMProductRepository) IncrementViews(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Model(&models.Product{}).
		Where("id IN ?", ids).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to increment product views: %w", err)
	}
	return nil
}
