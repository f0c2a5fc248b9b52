package services

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"rentique/internal/models"
	"rentique/internal/repositories"
)

// Pricing policy.
const (
	// FixedRentalDays is the current business rule: every rental is
	// priced at exactly one day, regardless of the client-supplied
	// per-item duration (which is still accepted and validated for
	// shape). Change here when variable-length pricing returns.
	FixedRentalDays = 1

	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = 100.0

	// FlatShippingCost applies at or under the free-shipping threshold.
	FlatShippingCost = 10.0

	// TaxRate is applied to the subtotal.
	TaxRate = 0.08
)

// orderNumberAttempts bounds the retry loop when the random suffix of a
// generated order number collides with an existing one.
const orderNumberAttempts = 3

// OrderService handles business logic related to rental orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
	}
}

// OrderItemInput is one requested rental line.
type OrderItemInput struct {
	ProductID      string
	Quantity       int
	RentalDuration int // days; accepted for shape, overridden by FixedRentalDays
}

// CreateOrderInput is a validated checkout request. Structural
// validation happens at the handler; the date and availability business
// rules are enforced here.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	RentalStartDate time.Time
	RentalEndDate   time.Time
	NeedDate        time.Time
	Notes           string
}

// CreateOrder validates, prices and persists a rental order. A nil
// userID creates a guest order. Item prices are snapshots: later
// product price changes never affect the order.
func (s *OrderService) CreateOrder(userID *string, input CreateOrderInput) (*models.Order, error) {
	if err := validateOrderDates(input); err != nil {
		return nil, err
	}

	var items []models.OrderItem
	var subtotal float64
	for _, in := range input.Items {
		product, err := s.productRepo.GetByID(in.ProductID)
		if err != nil {
			if isNotFound(err) {
				return nil, &NotFoundError{Resource: "product", ID: in.ProductID}
			}
			return nil, err
		}
		if !product.IsAvailable {
			return nil, &BusinessRuleError{Message: fmt.Sprintf("product '%s' is not available for rent", product.Name)}
		}

		lineTotal := product.Price * float64(in.Quantity) * FixedRentalDays
		items = append(items, models.OrderItem{
			ProductID:      product.ID,
			Quantity:       in.Quantity,
			RentalDuration: FixedRentalDays,
			Price:          product.Price,
			TotalPrice:     lineTotal,
		})
		subtotal += lineTotal
	}

	shippingCost := FlatShippingCost
	if subtotal > FreeShippingThreshold {
		shippingCost = 0
	}
	tax := subtotal * TaxRate

	order := &models.Order{
		UserID:          userID,
		IsGuestOrder:    userID == nil,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderPending,
		Subtotal:        subtotal,
		ShippingCost:    shippingCost,
		Tax:             tax,
		TotalAmount:     subtotal + shippingCost + tax,
		RentalStartDate: input.RentalStartDate,
		RentalEndDate:   input.RentalEndDate,
		NeedDate:        input.NeedDate,
		Notes:           input.Notes,
		IsActive:        true,
	}

	if err := s.createWithOrderNumber(order); err != nil {
		return nil, err
	}

	s.publishOrderCreated(order)

	// Reload with product and user details expanded for display.
	created, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return order, nil
	}
	return created, nil
}

// createWithOrderNumber assigns a fresh order number and persists,
// retrying on a unique-constraint collision of the random suffix.
func (s *OrderService) createWithOrderNumber(order *models.Order) error {
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = generateOrderNumber()
		if err = s.orderRepo.Create(order); err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return fmt.Errorf("failed to assign a unique order number: %w", err)
}

// generateOrderNumber builds ORD + YYMMDD + a 3-digit random suffix.
func generateOrderNumber() string {
	return fmt.Sprintf("ORD%s%03d", time.Now().Format("060102"), rand.Intn(1000))
}

// validateOrderDates enforces the rental date rules: the start date may
// not lie before today (date-only comparison), the end date must be
// strictly after the start, and the need date may not lie before today.
func validateOrderDates(input CreateOrderInput) error {
	today := truncateToDate(time.Now())
	if truncateToDate(input.RentalStartDate).Before(today) {
		return &BusinessRuleError{Message: "rental start date cannot be in the past"}
	}
	if !input.RentalEndDate.After(input.RentalStartDate) {
		return &BusinessRuleError{Message: "rental end date must be after the start date"}
	}
	if truncateToDate(input.NeedDate).Before(today) {
		return &BusinessRuleError{Message: "need date cannot be in the past"}
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ListOrders retrieves orders. Non-admin actors are implicitly scoped
// to their own orders; the status filter is honored for admins.
func (s *OrderService) ListOrders(actor Actor, filter repositories.OrderFilter, opts repositories.ListOptions) ([]models.Order, int64, error) {
	if !actor.IsAdmin() {
		filter.UserID = actor.ID
	}
	return s.orderRepo.List(filter, opts.Normalize("created_at", "desc"))
}

// GetOrder retrieves a single order, enforcing ownership: a non-admin
// requesting someone else's order gets an access-denied error, not a
// not-found.
func (s *OrderService) GetOrder(actor Actor, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Resource: "order", ID: id}
		}
		return nil, err
	}
	if !s.canAccess(actor, order) {
		return nil, &ForbiddenError{Message: "access denied: you do not own this order"}
	}
	return order, nil
}

// StatusUpdate is an admin-driven status change. No transition graph is
// enforced beyond the cancellation rules; admins may set any value.
type StatusUpdate struct {
	OrderStatus   string
	PaymentStatus *string
	AdminNotes    *string
}

// UpdateStatus applies an admin status update.
func (s *OrderService) UpdateStatus(id string, update StatusUpdate) (*models.Order, error) {
	if !models.IsValidOrderStatus(update.OrderStatus) {
		return nil, &ValidationError{Errors: []FieldError{
			{Field: "orderStatus", Message: fmt.Sprintf("invalid order status: %s", update.OrderStatus)},
		}}
	}
	if update.PaymentStatus != nil && !models.IsValidPaymentStatus(*update.PaymentStatus) {
		return nil, &ValidationError{Errors: []FieldError{
			{Field: "paymentStatus", Message: fmt.Sprintf("invalid payment status: %s", *update.PaymentStatus)},
		}}
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Resource: "order", ID: id}
		}
		return nil, err
	}

	order.OrderStatus = update.OrderStatus
	if update.PaymentStatus != nil {
		order.PaymentStatus = *update.PaymentStatus
	}
	if update.AdminNotes != nil {
		order.AdminNotes = *update.AdminNotes
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels an order. Only the owner or an admin may cancel,
// and only while the order is Pending or Confirmed. An admin actor
// leaves a default admin note when none is supplied.
func (s *OrderService) CancelOrder(actor Actor, id, note string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Resource: "order", ID: id}
		}
		return nil, err
	}
	if !s.canAccess(actor, order) {
		return nil, &ForbiddenError{Message: "access denied: you do not own this order"}
	}
	if order.OrderStatus != models.OrderPending && order.OrderStatus != models.OrderConfirmed {
		return nil, &BusinessRuleError{Message: fmt.Sprintf("order in status '%s' cannot be cancelled", order.OrderStatus)}
	}

	order.OrderStatus = models.OrderCancelled
	if actor.IsAdmin() {
		if note == "" {
			note = "Order cancelled by admin"
		}
		order.AdminNotes = note
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Stats returns the admin aggregate view over all orders.
func (s *OrderService) Stats() (*repositories.OrderStats, error) {
	return s.orderRepo.Stats()
}

func (s *OrderService) canAccess(actor Actor, order *models.Order) bool {
	if actor.IsAdmin() {
		return true
	}
	return order.UserID != nil && *order.UserID == actor.ID
}

func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.events == nil {
		log.Println("Event publisher is not initialized. Skipping order event.")
		return
	}
	event := map[string]interface{}{
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"guest":       order.IsGuestOrder,
		"status":      order.OrderStatus,
		"total":       order.TotalAmount,
	}
	if order.UserID != nil {
		event["userID"] = *order.UserID
	}
	if err := s.events.PublishOrderCreated(event); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
	}
}
