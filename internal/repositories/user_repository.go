package repositories

import "rentique/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List(filter UserFilter, opts ListOptions) ([]models.User, int64, error)
	Update(user *models.User) error
	Delete(id string) error
}
