package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"rentique/internal/models"
	"rentique/internal/repositories"
)

// ProductService handles business logic for the product catalog.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	events       EventPublisher
	images       ImageStore
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, events EventPublisher, images ImageStore) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		events:       events,
		images:       images,
	}
}

// SizeInput is one size entry on a product write.
type SizeInput struct {
	Size        string
	IsAvailable bool
	Quantity    int
}

// ProductInput carries the writable product fields for creation.
type ProductInput struct {
	Name             string
	Description      string
	CategoryIDs      []string
	Images           []string
	Price            float64
	OriginalPrice    float64
	Sizes            []SizeInput
	Color            string
	Brand            string
	Material         string
	Condition        string
	RentalDuration   int
	IsAvailable      *bool
	IsFeatured       *bool
	Tags             []string
	Specifications   map[string]string
	CareInstructions string
}

// ProductUpdate carries a partial product update. Nil pointers and nil
// slices leave the current value untouched.
type ProductUpdate struct {
	Name             *string
	Description      *string
	CategoryIDs      []string
	Images           []string
	Price            *float64
	OriginalPrice    *float64
	Sizes            []SizeInput
	Color            *string
	Brand            *string
	Material         *string
	Condition        *string
	RentalDuration   *int
	IsAvailable      *bool
	IsFeatured       *bool
	Tags             []string
	Specifications   map[string]string
	CareInstructions *string
}

// ListProducts retrieves products matching the filter. When the request
// carries an authenticated identity, every product on the returned page
// gets one view counted in a single batched update; anonymous views are
// not counted.
func (s *ProductService) ListProducts(actor Actor, filter repositories.ProductFilter, opts repositories.ListOptions) ([]models.Product, int64, error) {
	products, total, err := s.productRepo.List(filter, opts.Normalize("created_at", "desc"))
	if err != nil {
		return nil, 0, err
	}
	if actor.IsAuthenticated() && len(products) > 0 {
		ids := make([]string, len(products))
		for i := range products {
			ids[i] = products[i].ID
			products[i].Views++
		}
		if err := s.productRepo.IncrementViews(ids); err != nil {
			log.Printf("Warning: failed to increment product views: %v", err)
		}
	}
	return products, total, nil
}

// GetProduct retrieves a product by ID, counting the view when the
// requester is authenticated.
func (s *ProductService) GetProduct(actor Actor, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Resource: "product", ID: id}
		}
		return nil, err
	}
	s.countView(actor, product)
	return product, nil
}

// GetProductBySlug retrieves a product by slug, counting the view when
// the requester is authenticated.
func (s *ProductService) GetProductBySlug(actor Actor, slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Resource: "product", ID: slug}
		}
		return nil, err
	}
	s.countView(actor, product)
	return product, nil
}

func (s *ProductService) countView(actor Actor, product *models.Product) {
	if !actor.IsAuthenticated() {
		return
	}
	if err := s.productRepo.IncrementViews([]string{product.ID}); err != nil {
		log.Printf("Warning: failed to increment views for product %s: %v", product.ID, err)
		return
	}
	product.Views++
}

// CreateProduct creates a product, resolving its category set and
// assigning a collision-free slug.
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	categories, err := s.resolveCategories(input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(input.Name, "", s.productRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:             input.Name,
		Description:      input.Description,
		Categories:       categories,
		Images:           input.Images,
		Price:            input.Price,
		OriginalPrice:    input.OriginalPrice,
		Sizes:            toSizes(input.Sizes),
		Color:            input.Color,
		Brand:            input.Brand,
		Material:         input.Material,
		Condition:        input.Condition,
		RentalDuration:   input.RentalDuration,
		IsAvailable:      true,
		Tags:             input.Tags,
		Specifications:   input.Specifications,
		CareInstructions: input.CareInstructions,
		Slug:             slug,
	}
	if product.Condition == "" {
		product.Condition = models.ConditionGood
	}
	if product.RentalDuration < 1 {
		product.RentalDuration = 1
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	product.SyncPrimaryCategory()

	if err := s.productRepo.Create(product); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Field: "slug", Message: fmt.Sprintf("product slug '%s' already in use", slug)}
		}
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial update. The slug is regenerated only
// when the name changed on this save.
func (s *ProductService) UpdateProduct(id string, update ProductUpdate) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Resource: "product", ID: id}
		}
		return nil, err
	}

	if update.CategoryIDs != nil {
		categories, err := s.resolveCategories(update.CategoryIDs)
		if err != nil {
			return nil, err
		}
		product.Categories = categories
	}
	if update.Name != nil && *update.Name != product.Name {
		slug, err := uniqueSlug(*update.Name, product.ID, s.productRepo.SlugExists)
		if err != nil {
			return nil, err
		}
		product.Name = *update.Name
		product.Slug = slug
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Images != nil {
		product.Images = update.Images
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.OriginalPrice != nil {
		product.OriginalPrice = *update.OriginalPrice
	}
	if update.Sizes != nil {
		product.Sizes = toSizes(update.Sizes)
	}
	if update.Color != nil {
		product.Color = *update.Color
	}
	if update.Brand != nil {
		product.Brand = *update.Brand
	}
	if update.Material != nil {
		product.Material = *update.Material
	}
	if update.Condition != nil {
		product.Condition = *update.Condition
	}
	if update.RentalDuration != nil {
		product.RentalDuration = *update.RentalDuration
	}
	if update.IsAvailable != nil {
		product.IsAvailable = *update.IsAvailable
	}
	if update.IsFeatured != nil {
		product.IsFeatured = *update.IsFeatured
	}
	if update.Tags != nil {
		product.Tags = update.Tags
	}
	if update.Specifications != nil {
		product.Specifications = update.Specifications
	}
	if update.CareInstructions != nil {
		product.CareInstructions = *update.CareInstructions
	}
	product.SyncPrimaryCategory()

	if err := s.productRepo.Update(product); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Field: "slug", Message: fmt.Sprintf("product slug '%s' already in use", product.Slug)}
		}
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product and queues its store-hosted images
// for best-effort remote cleanup.
func (s *ProductService) DeleteProduct(id string) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return &NotFoundError{Resource: "product", ID: id}
		}
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	for _, url := range product.Images {
		s.enqueueImageCleanup(url)
	}
	return nil
}

// ImageUpload is one raw encoded image submitted for hosting.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// UploadImages sends every image to the external store concurrently and
// waits for all of them. A single failing upload fails the whole batch.
func (s *ProductService) UploadImages(ctx context.Context, uploads []ImageUpload) ([]string, error) {
	if s.images == nil {
		return nil, fmt.Errorf("image store is not configured")
	}
	if len(uploads) == 0 {
		return nil, &ValidationError{Errors: []FieldError{{Field: "images", Message: "at least one image is required"}}}
	}

	urls := make([]string, len(uploads))
	errs := make([]error, len(uploads))
	var wg sync.WaitGroup
	for i, up := range uploads {
		wg.Add(1)
		go func(i int, up ImageUpload) {
			defer wg.Done()
			asset, err := s.images.Upload(ctx, up.Data, up.Filename)
			if err != nil {
				errs[i] = fmt.Errorf("failed to upload image %s: %w", up.Filename, err)
				return
			}
			urls[i] = asset.URL
		}(i, up)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}

// resolveCategories cleans the submitted category ID list (blank
// entries dropped), requires at least one remaining reference, and
// verifies every reference exists. Result order follows the input.
func (s *ProductService) resolveCategories(ids []string) ([]models.Category, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return nil, &ValidationError{Errors: []FieldError{
			{Field: "categories", Message: "at least one category is required"},
		}}
	}

	found, err := s.categoryRepo.GetByIDs(cleaned)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Category, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	categories := make([]models.Category, 0, len(cleaned))
	for _, id := range cleaned {
		c, ok := byID[id]
		if !ok {
			return nil, &NotFoundError{Resource: "category", ID: id}
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (s *ProductService) enqueueImageCleanup(url string) {
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

func toSizes(inputs []SizeInput) []models.ProductSize {
	sizes := make([]models.ProductSize, 0, len(inputs))
	for _, in := range inputs {
		sizes = append(sizes, models.ProductSize{
			Size:        in.Size,
			IsAvailable: in.IsAvailable,
			Quantity:    in.Quantity,
		})
	}
	return sizes
}
