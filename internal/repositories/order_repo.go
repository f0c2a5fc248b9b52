package repositories

import "rentique/internal/models"

// OrderStats is the admin aggregate view over orders.
type OrderStats struct {
	TotalOrders  int64            `json:"totalOrders"`
	StatusCounts map[string]int64 `json:"statusCounts"`
	TotalRevenue float64          `json:"totalRevenue"`
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	List(filter OrderFilter, opts ListOptions) ([]models.Order, int64, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	Stats() (*OrderStats, error)
}
