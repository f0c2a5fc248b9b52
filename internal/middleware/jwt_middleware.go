package middleware

import (
	"log"
	"strings"

	"rentique/internal/models"
	"rentique/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Context keys for the verified identity.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// Auth provides the JWT middleware variants backed by the auth service.
type Auth struct {
	authService *services.AuthService
}

// NewAuth creates the auth middleware set.
func NewAuth(authService *services.AuthService) *Auth {
	return &Auth{authService: authService}
}

// Required rejects requests without a valid bearer token.
func (a *Auth) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := a.resolve(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		c.Locals(LocalUserID, actor.ID)
		c.Locals(LocalRole, actor.Role)
		return c.Next()
	}
}

// AdminOnly is the stricter variant: it additionally fails the request
// outright for non-admin roles.
func (a *Auth) AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := a.resolve(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		if actor.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "admin access required",
			})
		}
		c.Locals(LocalUserID, actor.ID)
		c.Locals(LocalRole, actor.Role)
		return c.Next()
	}
}

// Optional resolves an identity when a valid token is present and lets
// the request through as guest otherwise. Used for guest checkout and
// view counting.
func (a *Auth) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := a.resolve(c)
		if err == nil {
			c.Locals(LocalUserID, actor.ID)
			c.Locals(LocalRole, actor.Role)
		}
		return c.Next()
	}
}

func (a *Auth) resolve(c *fiber.Ctx) (services.Actor, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return services.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Authorization header is required")
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return services.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Authorization header format must be 'Bearer <token>'")
	}

	actor, err := a.authService.ValidateToken(parts[1])
	if err != nil {
		log.Printf("JWT validation failed: %v", err)
		return services.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}
	return actor, nil
}

// ActorFromContext rebuilds the verified identity stored by the
// middleware. A zero actor means an unauthenticated request.
func ActorFromContext(c *fiber.Ctx) services.Actor {
	id, _ := c.Locals(LocalUserID).(string)
	role, _ := c.Locals(LocalRole).(string)
	return services.Actor{ID: id, Role: role}
}
