package services

import (
	"fmt"

	"rentique/internal/models"
	"rentique/internal/repositories"
)

// UserService handles profile and admin user management.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ProfileUpdate carries the self-service profile fields. Nil pointers
// leave the current value untouched.
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *models.Address
}

// AdminUserUpdate lets an admin change any user field, including role
// and active state.
type AdminUserUpdate struct {
	ProfileUpdate
	Email           *string
	Role            *string
	IsActive        *bool
	IsEmailVerified *bool
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Resource: "user", ID: id}
		}
		return nil, err
	}
	return user, nil
}

// ListUsers retrieves users matching the filter. Admin-only at the
// routing layer.
func (s *UserService) ListUsers(filter repositories.UserFilter, opts repositories.ListOptions) ([]models.User, int64, error) {
	return s.userRepo.List(filter, opts.Normalize("created_at", "desc"))
}

// UpdateProfile applies a self-service profile update.
func (s *UserService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	applyProfile(user, update)
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// UpdateUser applies an admin update to any user.
func (s *UserService) UpdateUser(id string, update AdminUserUpdate) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	applyProfile(user, update.ProfileUpdate)
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}
	if update.IsEmailVerified != nil {
		user.IsEmailVerified = *update.IsEmailVerified
	}
	if err := s.userRepo.Update(user); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Field: "email", Message: fmt.Sprintf("email '%s' already registered", user.Email)}
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// ToggleActive flips a user's active flag. An admin cannot deactivate
// their own account.
func (s *UserService) ToggleActive(actor Actor, id string) (*models.User, error) {
	if actor.ID == id {
		return nil, &ForbiddenError{Message: "cannot change the active state of your own account"}
	}
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to toggle user active state: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user. An admin cannot delete their own account.
func (s *UserService) DeleteUser(actor Actor, id string) error {
	if actor.ID == id {
		return &ForbiddenError{Message: "cannot delete your own account"}
	}
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func applyProfile(user *models.User, update ProfileUpdate) {
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
}
