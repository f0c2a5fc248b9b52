package services_test

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"rentique/internal/models"
	"rentique/internal/repositories"
	"rentique/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func validOrderInput(productIDs ...string) services.CreateOrderInput {
	items := make([]services.OrderItemInput, 0, len(productIDs))
	for _, id := range productIDs {
		items = append(items, services.OrderItemInput{ProductID: id, Quantity: 1, RentalDuration: 5})
	}
	now := time.Now()
	return services.CreateOrderInput{
		Items: items,
		ShippingAddress: models.ShippingAddress{
			Name: "Jordan Lee", Phone: "555-0100", Street: "1 Main St",
			City: "Springfield", State: "IL", ZipCode: "62701", Country: "USA",
		},
		PaymentMethod:   "Credit Card",
		RentalStartDate: now,
		RentalEndDate:   now.AddDate(0, 0, 2),
		NeedDate:        now,
	}
}

func newOrderService(orderRepo *MockOrderRepository, productRepo *MockProductRepository, events *MockEventPublisher) *services.OrderService {
	var publisher services.EventPublisher
	if events != nil {
		publisher = events
	}
	return services.NewOrderService(orderRepo, productRepo, publisher)
}

func TestOrderService_CreateOrder_PricingOverThreshold(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	events := new(MockEventPublisher)
	service := newOrderService(orderRepo, productRepo, events)

	productRepo.On("GetByID", "prod-1").Return(&models.Product{ID: "prod-1", Name: "Silk Gown", Price: 40, IsAvailable: true}, nil).Once()
	productRepo.On("GetByID", "prod-2").Return(&models.Product{ID: "prod-2", Name: "Tux Jacket", Price: 70, IsAvailable: true}, nil).Once()

	var created *models.Order
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*models.Order)
		created.ID = "order-1"
	}).Return(nil).Once()
	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1"}, nil).Once()
	events.On("PublishOrderCreated", mock.Anything).Return(nil).Once()

	_, err := service.CreateOrder(nil, validOrderInput("prod-1", "prod-2"))
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.InDelta(t, 110.0, created.Subtotal, 1e-9)
	assert.InDelta(t, 0.0, created.ShippingCost, 1e-9) // free shipping over the threshold
	assert.InDelta(t, 8.8, created.Tax, 1e-9)
	assert.InDelta(t, 118.8, created.TotalAmount, 1e-9)
	assert.True(t, created.IsGuestOrder)
	assert.Nil(t, created.UserID)
	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestOrderService_CreateOrder_PricingUnderThreshold(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := newOrderService(orderRepo, productRepo, nil)

	productRepo.On("GetByID", "prod-1").Return(&models.Product{ID: "prod-1", Name: "Day Dress", Price: 60, IsAvailable: true}, nil).Once()

	var created *models.Order
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*models.Order)
		created.ID = "order-2"
	}).Return(nil).Once()
	orderRepo.On("GetByID", "order-2").Return(&models.Order{ID: "order-2"}, nil).Once()

	userID := "user-1"
	_, err := service.CreateOrder(&userID, validOrderInput("prod-1"))
	assert.NoError(t, err)
	assert.InDelta(t, 60.0, created.Subtotal, 1e-9)
	assert.InDelta(t, 10.0, created.ShippingCost, 1e-9)
	assert.InDelta(t, 4.8, created.Tax, 1e-9)
	assert.InDelta(t, 74.8, created.TotalAmount, 1e-9)
	assert.False(t, created.IsGuestOrder)
	assert.Equal(t, "user-1", *created.UserID)
}

func TestOrderService_CreateOrder_FixedRentalDaysOverride(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := newOrderService(orderRepo, productRepo, nil)

	productRepo.On("GetByID", "prod-1").Return(&models.Product{ID: "prod-1", Price: 25, IsAvailable: true}, nil).Once()

	var created *models.Order
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*models.Order)
		created.ID = "order-3"
	}).Return(nil).Once()
	orderRepo.On("GetByID", "order-3").Return(&models.Order{ID: "order-3"}, nil).Once()

	input := validOrderInput("prod-1")
	input.Items[0].Quantity = 2
	input.Items[0].RentalDuration = 7 // accepted for shape, ignored by pricing

	_, err := service.CreateOrder(nil, input)
	assert.NoError(t, err)
	assert.Equal(t, services.FixedRentalDays, created.Items[0].RentalDuration)
	assert.InDelta(t, 50.0, created.Items[0].TotalPrice, 1e-9)
	assert.InDelta(t, 25.0, created.Items[0].Price, 1e-9) // snapshot unit price
}

func TestOrderService_CreateOrder_DateRules(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := newOrderService(orderRepo, productRepo, nil)

	// Start date in the past.
	input := validOrderInput("prod-1")
	input.RentalStartDate = time.Now().AddDate(0, 0, -1)
	_, err := service.CreateOrder(nil, input)
	var businessErr *services.BusinessRuleError
	assert.ErrorAs(t, err, &businessErr)
	assert.Contains(t, err.Error(), "start date")

	// End date not after start date.
	input = validOrderInput("prod-1")
	input.RentalEndDate = input.RentalStartDate
	_, err = service.CreateOrder(nil, input)
	assert.ErrorAs(t, err, &businessErr)
	assert.Contains(t, err.Error(), "end date")

	// Need date in the past.
	input = validOrderInput("prod-1")
	input.NeedDate = time.Now().AddDate(0, 0, -2)
	_, err = service.CreateOrder(nil, input)
	assert.ErrorAs(t, err, &businessErr)
	assert.Contains(t, err.Error(), "need date")

	// No order was persisted for any of the rejected requests.
	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_CreateOrder_ProductChecks(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := newOrderService(orderRepo, productRepo, nil)

	// Missing product.
	productRepo.On("GetByID", "missing").Return(nil, fmt.Errorf("product with ID missing not found: %w", gorm.ErrRecordNotFound)).Once()
	_, err := service.CreateOrder(nil, validOrderInput("missing"))
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)

	// Unavailable product.
	productRepo.On("GetByID", "prod-1").Return(&models.Product{ID: "prod-1", Name: "Worn Coat", Price: 30, IsAvailable: false}, nil).Once()
	_, err = service.CreateOrder(nil, validOrderInput("prod-1"))
	var businessErr *services.BusinessRuleError
	assert.ErrorAs(t, err, &businessErr)
	assert.Contains(t, err.Error(), "Worn Coat")

	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_CreateOrder_OrderNumberRetry(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := newOrderService(orderRepo, productRepo, nil)

	productRepo.On("GetByID", "prod-1").Return(&models.Product{ID: "prod-1", Price: 10, IsAvailable: true}, nil).Once()

	var created *models.Order
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(fmt.Errorf("UNIQUE constraint failed: orders.order_number")).Once()
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*models.Order)
		created.ID = "order-4"
	}).Return(nil).Once()
	orderRepo.On("GetByID", "order-4").Return(&models.Order{ID: "order-4"}, nil).Once()

	_, err := service.CreateOrder(nil, validOrderInput("prod-1"))
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORD\d{9}$`), created.OrderNumber)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_GetOrder_Ownership(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := newOrderService(orderRepo, productRepo, nil)

	ownerID := "user-1"
	order := &models.Order{ID: "order-1", UserID: &ownerID}
	orderRepo.On("GetByID", "order-1").Return(order, nil)

	// Owner can read.
	got, err := service.GetOrder(services.Actor{ID: "user-1", Role: models.RoleUser}, "order-1")
	assert.NoError(t, err)
	assert.Equal(t, order, got)

	// A different non-admin user gets access denied, not a not-found.
	_, err = service.GetOrder(services.Actor{ID: "user-2", Role: models.RoleUser}, "order-1")
	var forbidden *services.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	// Admin can read anything.
	_, err = service.GetOrder(services.Actor{ID: "admin-1", Role: models.RoleAdmin}, "order-1")
	assert.NoError(t, err)
}

func TestOrderService_ListOrders_ScopesNonAdmin(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := newOrderService(orderRepo, productRepo, nil)

	orderRepo.On("List", mock.MatchedBy(func(f repositories.OrderFilter) bool {
		return f.UserID == "user-1"
	}), mock.Anything).Return([]models.Order{}, int64(0), nil).Once()

	_, _, err := service.ListOrders(services.Actor{ID: "user-1", Role: models.RoleUser}, repositories.OrderFilter{}, repositories.ListOptions{})
	assert.NoError(t, err)

	orderRepo.On("List", mock.MatchedBy(func(f repositories.OrderFilter) bool {
		return f.UserID == ""
	}), mock.Anything).Return([]models.Order{}, int64(0), nil).Once()

	_, _, err = service.ListOrders(services.Actor{ID: "admin-1", Role: models.RoleAdmin}, repositories.OrderFilter{}, repositories.ListOptions{})
	assert.NoError(t, err)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_CancelOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := newOrderService(orderRepo, productRepo, nil)

	ownerID := "user-1"

	// Shipped orders cannot be cancelled.
	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", UserID: &ownerID, OrderStatus: models.OrderShipped}, nil).Once()
	_, err := service.CancelOrder(services.Actor{ID: "user-1", Role: models.RoleUser}, "order-1", "")
	var businessErr *services.BusinessRuleError
	assert.ErrorAs(t, err, &businessErr)

	// Pending orders can.
	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", UserID: &ownerID, OrderStatus: models.OrderPending}, nil).Once()
	orderRepo.On("Update", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	cancelled, err := service.CancelOrder(services.Actor{ID: "user-1", Role: models.RoleUser}, "order-1", "")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.OrderStatus)
	assert.Empty(t, cancelled.AdminNotes) // owner cancellation leaves no admin note

	// A stranger cannot cancel.
	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", UserID: &ownerID, OrderStatus: models.OrderPending}, nil).Once()
	_, err = service.CancelOrder(services.Actor{ID: "user-2", Role: models.RoleUser}, "order-1", "")
	var forbidden *services.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	// Admin cancellation records a default note when none is supplied.
	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", UserID: &ownerID, OrderStatus: models.OrderConfirmed}, nil).Once()
	orderRepo.On("Update", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	cancelled, err = service.CancelOrder(services.Actor{ID: "admin-1", Role: models.RoleAdmin}, "order-1", "")
	assert.NoError(t, err)
	assert.Equal(t, "Order cancelled by admin", cancelled.AdminNotes)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := newOrderService(orderRepo, productRepo, nil)

	// Invalid status is rejected with a field violation.
	_, err := service.UpdateStatus("order-1", services.StatusUpdate{OrderStatus: "Teleported"})
	var validationErr *services.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "orderStatus", validationErr.Errors[0].Field)

	// Admin may set any enumerated status directly.
	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", OrderStatus: models.OrderPending}, nil).Once()
	orderRepo.On("Update", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	paid := models.PaymentPaid
	notes := "left at the door"
	updated, err := service.UpdateStatus("order-1", services.StatusUpdate{
		OrderStatus:   models.OrderDelivered,
		PaymentStatus: &paid,
		AdminNotes:    &notes,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, updated.OrderStatus)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, "left at the door", updated.AdminNotes)
}
