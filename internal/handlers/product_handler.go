package handlers

import (
	"io"
	"log"

	"rentique/internal/middleware"
	"rentique/internal/repositories"
	"rentique/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       newValidator(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. The
// public reads carry optional auth so authenticated views are counted.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth *middleware.Auth) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", auth.Optional(), h.HandleListProducts)
	productRoutes.Get("/slug/:slug", auth.Optional(), h.HandleGetProductBySlug)
	productRoutes.Get("/:id", auth.Optional(), h.HandleGetProduct)

	productRoutes.Post("/", auth.AdminOnly(), h.HandleCreateProduct)
	productRoutes.Post("/images", auth.AdminOnly(), h.HandleUploadImages)
	productRoutes.Put("/:id", auth.AdminOnly(), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth.AdminOnly(), h.HandleDeleteProduct)
}

// HandleListProducts lists products with the catalog filters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		CategoryID:   c.Query("category"),
		Search:       c.Query("search"),
		Size:         c.Query("size"),
		Color:        c.Query("color"),
		FeaturedOnly: c.QueryBool("featured"),
	}
	if c.Query("minPrice") != "" {
		v := c.QueryFloat("minPrice")
		filter.MinPrice = &v
	}
	if c.Query("maxPrice") != "" {
		v := c.QueryFloat("maxPrice")
		filter.MaxPrice = &v
	}
	opts := parseListOptions(c).Normalize("created_at", "desc")

	actor := middleware.ActorFromContext(c)
	products, total, err := h.productService.ListProducts(actor, filter, opts)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Products retrieved", listPayload("products", products, total, opts))
}

// HandleGetProduct returns one product by ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	product, err := h.productService.GetProduct(actor, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Product retrieved", fiber.Map{"product": product})
}

// HandleGetProductBySlug returns one product by slug.
func (h *ProductHandler) HandleGetProductBySlug(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	product, err := h.productService.GetProductBySlug(actor, c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Product retrieved", fiber.Map{"product": product})
}

// SizeRequest is one size entry on a product write.
type SizeRequest struct {
	Size        string `json:"size" validate:"required,oneof=XS S M L XL XXL 'Free Size'"`
	IsAvailable bool   `json:"isAvailable"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
}

// CreateProductRequest represents the product creation body.
type CreateProductRequest struct {
	Name             string            `json:"name" validate:"required,max=100"`
	Description      string            `json:"description"`
	Categories       []string          `json:"categories" validate:"required,min=1"`
	Images           []string          `json:"images" validate:"required,min=1"`
	Price            float64           `json:"price" validate:"gte=0"`
	OriginalPrice    float64           `json:"originalPrice" validate:"gte=0"`
	Sizes            []SizeRequest     `json:"sizes" validate:"dive"`
	Color            string            `json:"color" validate:"required"`
	Brand            string            `json:"brand"`
	Material         string            `json:"material"`
	Condition        string            `json:"condition" validate:"omitempty,oneof=Excellent 'Very Good' Good Fair"`
	RentalDuration   int               `json:"rentalDuration" validate:"omitempty,gte=1"`
	IsAvailable      *bool             `json:"isAvailable"`
	IsFeatured       *bool             `json:"isFeatured"`
	Tags             []string          `json:"tags"`
	Specifications   map[string]string `json:"specifications"`
	CareInstructions string            `json:"careInstructions"`
}

// HandleCreateProduct creates a product. Admin only.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, fieldErrors(err))
	}

	product, err := h.productService.CreateProduct(services.ProductInput{
		Name:             req.Name,
		Description:      req.Description,
		CategoryIDs:      req.Categories,
		Images:           req.Images,
		Price:            req.Price,
		OriginalPrice:    req.OriginalPrice,
		Sizes:            toSizeInputs(req.Sizes),
		Color:            req.Color,
		Brand:            req.Brand,
		Material:         req.Material,
		Condition:        req.Condition,
		RentalDuration:   req.RentalDuration,
		IsAvailable:      req.IsAvailable,
		IsFeatured:       req.IsFeatured,
		Tags:             req.Tags,
		Specifications:   req.Specifications,
		CareInstructions: req.CareInstructions,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondCreated(c, "Product created", fiber.Map{"product": product})
}

// UpdateProductRequest is a partial product update; nil fields stay
// untouched.
type UpdateProductRequest struct {
	Name             *string           `json:"name" validate:"omitempty,max=100"`
	Description      *string           `json:"description"`
	Categories       []string          `json:"categories"`
	Images           []string          `json:"images" validate:"omitempty,min=1"`
	Price            *float64          `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice    *float64          `json:"originalPrice" validate:"omitempty,gte=0"`
	Sizes            []SizeRequest     `json:"sizes" validate:"dive"`
	Color            *string           `json:"color"`
	Brand            *string           `json:"brand"`
	Material         *string           `json:"material"`
	Condition        *string           `json:"condition" validate:"omitempty,oneof=Excellent 'Very Good' Good Fair"`
	RentalDuration   *int              `json:"rentalDuration" validate:"omitempty,gte=1"`
	IsAvailable      *bool             `json:"isAvailable"`
	IsFeatured       *bool             `json:"isFeatured"`
	Tags             []string          `json:"tags"`
	Specifications   map[string]string `json:"specifications"`
	CareInstructions *string           `json:"careInstructions"`
}

// HandleUpdateProduct updates a product. Admin only.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, fieldErrors(err))
	}

	update := services.ProductUpdate{
		Name:             req.Name,
		Description:      req.Description,
		CategoryIDs:      req.Categories,
		Images:           req.Images,
		Price:            req.Price,
		OriginalPrice:    req.OriginalPrice,
		Color:            req.Color,
		Brand:            req.Brand,
		Material:         req.Material,
		Condition:        req.Condition,
		RentalDuration:   req.RentalDuration,
		IsAvailable:      req.IsAvailable,
		IsFeatured:       req.IsFeatured,
		Tags:             req.Tags,
		Specifications:   req.Specifications,
		CareInstructions: req.CareInstructions,
	}
	if req.Sizes != nil {
		update.Sizes = toSizeInputs(req.Sizes)
	}

	product, err := h.productService.UpdateProduct(c.Params("id"), update)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Product updated", fiber.Map{"product": product})
}

// HandleDeleteProduct deletes a product. Admin only.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Product deleted", nil)
}

// HandleUploadImages uploads product images to the external store. All
// uploads run concurrently; one failing upload fails the batch.
func (h *ProductHandler) HandleUploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return respondValidation(c, []services.FieldError{
			{Field: "images", Message: "at least one image file is required"},
		})
	}

	uploads := make([]services.ImageUpload, 0, len(files))
	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Failed to read uploaded file")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Failed to read uploaded file")
		}
		uploads = append(uploads, services.ImageUpload{Filename: file.Filename, Data: data})
	}

	urls, err := h.productService.UploadImages(c.Context(), uploads)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondCreated(c, "Images uploaded", fiber.Map{"urls": urls})
}

func toSizeInputs(reqs []SizeRequest) []services.SizeInput {
	sizes := make([]services.SizeInput, 0, len(reqs))
	for _, r := range reqs {
		sizes = append(sizes, services.SizeInput{
			Size:        r.Size,
			IsAvailable: r.IsAvailable,
			Quantity:    r.Quantity,
		})
	}
	return sizes
}
