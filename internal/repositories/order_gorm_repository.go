package repositories

import (
	"fmt"

	"rentique/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Columns an order listing may be sorted by.
var orderSortColumns = []string{"created_at", "updated_at", "total_amount", "order_status"}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// List retrieves orders matching the filter with pagination.
func (r *GORMOrderRepository) List(filter OrderFilter, opts ListOptions) ([]models.Order, int64, error) {
	q := r.db.Model(&models.Order{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("order_status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := q.Preload("Items").Preload("Items.Product").
		Order(opts.OrderClause("created_at", orderSortColumns...)).
		Offset(opts.Offset()).Limit(opts.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// GetByID retrieves a single order with items, product snapshots and,
// for authenticated orders, the owning user.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Items.Product").Preload("User").
		First(&order, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create creates a new order with its item rows.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update updates an existing order in the database.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Omit("Items", "User").Save(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for update", order.ID)
	}
	return nil
}

// Stats aggregates order counts per status and total revenue. Revenue
// counts each order once when it is Delivered or its payment is Paid.
func (r *GORMOrderRepository) Stats() (*OrderStats, error) {
	stats := &OrderStats{StatusCounts: make(map[string]int64)}

	if err := r.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	type statusRow struct {
		OrderStatus string
		Count       int64
	}
	var rows []statusRow
	err := r.db.Model(&models.Order{}).
		Select("order_status, COUNT(*) AS count").
		Group("order_status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order statuses: %w", err)
	}
	for _, row := range rows {
		stats.StatusCounts[row.OrderStatus] = row.Count
	}

	err = r.db.Model(&models.Order{}).
		Where("order_status = ? OR payment_status = ?", models.OrderDelivered, models.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	return stats, nil
}
