package handlers

import (
	"log"
	"time"

	"rentique/internal/middleware"
	"rentique/internal/models"
	"rentique/internal/repositories"
	"rentique/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for rental orders.
type OrderHandler struct {
	orderService *services.OrderService
	validate     *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     newValidator(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth *middleware.Auth) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/guest", h.HandleCreateGuestOrder)
	orderRoutes.Post("/", auth.Required(), h.HandleCreateOrder)
	orderRoutes.Get("/stats", auth.AdminOnly(), h.HandleOrderStats)
	orderRoutes.Get("/", auth.Required(), h.HandleListOrders)
	orderRoutes.Get("/:id", auth.Required(), h.HandleGetOrder)
	orderRoutes.Patch("/:id/status", auth.AdminOnly(), h.HandleUpdateOrderStatus)
	orderRoutes.Patch("/:id/cancel", auth.Required(), h.HandleCancelOrder)
}

// OrderItemRequest is one requested rental line. The rental duration is
// validated for shape but overridden by the fixed-day pricing policy.
type OrderItemRequest struct {
	Product        string `json:"product" validate:"required"`
	Quantity       int    `json:"quantity" validate:"required,gte=1"`
	RentalDuration int    `json:"rentalDuration" validate:"omitempty,gte=1"`
}

// ShippingAddressRequest requires every address field.
type ShippingAddressRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// CreateOrderRequest represents a checkout request. Dates are ISO-8601.
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required,oneof='Credit Card' 'Debit Card' PayPal 'Cash on Delivery'"`
	RentalStartDate time.Time              `json:"rentalStartDate" validate:"required"`
	RentalEndDate   time.Time              `json:"rentalEndDate" validate:"required"`
	NeedDate        time.Time              `json:"needDate" validate:"required"`
	Notes           string                 `json:"notes"`
}

// HandleCreateOrder creates an order for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	return h.createOrder(c, &actor.ID)
}

// HandleCreateGuestOrder creates a guest order: same rules, nil user.
func (h *OrderHandler) HandleCreateGuestOrder(c *fiber.Ctx) error {
	return h.createOrder(c, nil)
}

func (h *OrderHandler) createOrder(c *fiber.Ctx, userID *string) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, fieldErrors(err))
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductID:      item.Product,
			Quantity:       item.Quantity,
			RentalDuration: item.RentalDuration,
		})
	}

	order, err := h.orderService.CreateOrder(userID, services.CreateOrderInput{
		Items: items,
		ShippingAddress: models.ShippingAddress{
			Name:    req.ShippingAddress.Name,
			Phone:   req.ShippingAddress.Phone,
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			ZipCode: req.ShippingAddress.ZipCode,
			Country: req.ShippingAddress.Country,
		},
		PaymentMethod:   req.PaymentMethod,
		RentalStartDate: req.RentalStartDate,
		RentalEndDate:   req.RentalEndDate,
		NeedDate:        req.NeedDate,
		Notes:           req.Notes,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondCreated(c, "Order created", fiber.Map{"order": order})
}

// HandleListOrders lists orders. Non-admin users only see their own.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	filter := repositories.OrderFilter{}
	if actor.IsAdmin() {
		filter.Status = c.Query("status")
	}
	opts := parseListOptions(c).Normalize("created_at", "desc")

	orders, total, err := h.orderService.ListOrders(actor, filter, opts)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Orders retrieved", listPayload("orders", orders, total, opts))
}

// HandleGetOrder returns one order, enforcing ownership.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	order, err := h.orderService.GetOrder(actor, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Order retrieved", fiber.Map{"order": order})
}

// UpdateOrderStatusRequest is the admin status update body.
type UpdateOrderStatusRequest struct {
	OrderStatus   string  `json:"orderStatus" validate:"required"`
	PaymentStatus *string `json:"paymentStatus"`
	AdminNotes    *string `json:"adminNotes"`
}

// HandleUpdateOrderStatus applies an admin status update.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, fieldErrors(err))
	}

	order, err := h.orderService.UpdateStatus(c.Params("id"), services.StatusUpdate{
		OrderStatus:   req.OrderStatus,
		PaymentStatus: req.PaymentStatus,
		AdminNotes:    req.AdminNotes,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Order status updated", fiber.Map{"order": order})
}

// CancelOrderRequest carries an optional cancellation note.
type CancelOrderRequest struct {
	Note string `json:"note"`
}

// HandleCancelOrder cancels an order (owner or admin, Pending or
// Confirmed only).
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	var req CancelOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			log.Printf("Error parsing cancel body: %v", err)
			return respondError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	actor := middleware.ActorFromContext(c)
	order, err := h.orderService.CancelOrder(actor, c.Params("id"), req.Note)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Order cancelled", fiber.Map{"order": order})
}

// HandleOrderStats returns aggregate order statistics. Admin only.
func (h *OrderHandler) HandleOrderStats(c *fiber.Ctx) error {
	stats, err := h.orderService.Stats()
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Order statistics retrieved", fiber.Map{"stats": stats})
}
