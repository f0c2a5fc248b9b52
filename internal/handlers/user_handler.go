package handlers

import (
	"log"

	"rentique/internal/middleware"
	"rentique/internal/models"
	"rentique/internal/repositories"
	"rentique/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user profiles and admin user
// management.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth *middleware.Auth) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/profile", auth.Required(), h.HandleGetProfile)
	userRoutes.Put("/profile", auth.Required(), h.HandleUpdateProfile)

	userRoutes.Get("/", auth.AdminOnly(), h.HandleListUsers)
	userRoutes.Get("/:id", auth.AdminOnly(), h.HandleGetUser)
	userRoutes.Put("/:id", auth.AdminOnly(), h.HandleUpdateUser)
	userRoutes.Patch("/:id/toggle-active", auth.AdminOnly(), h.HandleToggleActive)
	userRoutes.Delete("/:id", auth.AdminOnly(), h.HandleDeleteUser)
}

// HandleGetProfile returns the authenticated user's profile.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	user, err := h.userService.GetUser(actor.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Profile retrieved", fiber.Map{"user": user})
}

// UpdateProfileRequest represents a self-service profile update.
type UpdateProfileRequest struct {
	Name    *string         `json:"name" validate:"omitempty,max=100"`
	Phone   *string         `json:"phone"`
	Address *models.Address `json:"address"`
}

// HandleUpdateProfile applies a self-service profile update.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, fieldErrors(err))
	}

	actor := middleware.ActorFromContext(c)
	user, err := h.userService.UpdateProfile(actor.ID, services.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Profile updated", fiber.Map{"user": user})
}

// HandleListUsers lists users with filters. Admin only.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	filter := repositories.UserFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
	}
	if c.Query("isActive") != "" {
		active := c.QueryBool("isActive")
		filter.IsActive = &active
	}
	opts := parseListOptions(c).Normalize("created_at", "desc")

	users, total, err := h.userService.ListUsers(filter, opts)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Users retrieved", listPayload("users", users, total, opts))
}

// HandleGetUser returns one user by ID. Admin only.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "User retrieved", fiber.Map{"user": user})
}

// AdminUpdateUserRequest lets an admin change any user field.
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Email           *string `json:"email" validate:"omitempty,email"`
	Role            *string `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive        *bool   `json:"isActive"`
	IsEmailVerified *bool   `json:"isEmailVerified"`
}

// HandleUpdateUser applies an admin update to any user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user update body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, fieldErrors(err))
	}

	user, err := h.userService.UpdateUser(c.Params("id"), services.AdminUserUpdate{
		ProfileUpdate: services.ProfileUpdate{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
		},
		Email:           req.Email,
		Role:            req.Role,
		IsActive:        req.IsActive,
		IsEmailVerified: req.IsEmailVerified,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "User updated", fiber.Map{"user": user})
}

// HandleToggleActive flips a user's active flag. Admin only; rejected
// when the admin targets their own account.
func (h *UserHandler) HandleToggleActive(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	user, err := h.userService.ToggleActive(actor, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "User active state updated", fiber.Map{"user": user})
}

// HandleDeleteUser removes a user. Admin only; rejected when the admin
// targets their own account.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if err := h.userService.DeleteUser(actor, c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "User deleted", nil)
}
