package handlers

import (
	"errors"
	"log"

	"rentique/internal/repositories"
	"rentique/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Every response uses the same envelope:
// {success, message?, data?, errors?: [{field, message}]}.

func respondOK(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func respondCreated(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func respondValidation(c *fiber.Ctx, errs []services.FieldError) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}

// respondServiceError maps the service error taxonomy onto HTTP. Errors
// outside the taxonomy are logged and surfaced as a generic internal
// failure without leaking details.
func respondServiceError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return respondValidation(c, validationErr.Errors)
	}
	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		return respondError(c, fiber.StatusNotFound, notFoundErr.Error())
	}
	var forbiddenErr *services.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		return respondError(c, fiber.StatusForbidden, forbiddenErr.Error())
	}
	var businessErr *services.BusinessRuleError
	if errors.As(err, &businessErr) {
		return respondError(c, fiber.StatusBadRequest, businessErr.Error())
	}
	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": conflictErr.Message,
			"errors":  []services.FieldError{{Field: conflictErr.Field, Message: conflictErr.Message}},
		})
	}

	log.Printf("Internal error: %v", err)
	return respondError(c, fiber.StatusInternalServerError, "Something went wrong")
}

// listPayload is the uniform paginated listing shape.
func listPayload(key string, items interface{}, total int64, opts repositories.ListOptions) fiber.Map {
	return fiber.Map{
		key:           items,
		"total":       total,
		"currentPage": opts.Page,
		"totalPages":  repositories.TotalPages(total, opts.Limit),
	}
}

// parseListOptions reads page/limit/sort query parameters.
func parseListOptions(c *fiber.Ctx) repositories.ListOptions {
	return repositories.ListOptions{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}
