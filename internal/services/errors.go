package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// FieldError is a single field-level violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the complete set of field violations for a
// request, reported before any state mutation.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError marks a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ForbiddenError marks an authorization failure: insufficient role,
// foreign resource access, or a self-targeting destructive action.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// BusinessRuleError marks a well-formed request that violates a domain
// rule (unavailable product, past-dated rental, bad status transition).
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string { return e.Message }

// ConflictError marks a duplicate on a unique field, including
// store-level unique-constraint violations translated upward.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// isUniqueViolation reports whether err is a store-level unique
// constraint failure. The drivers translate to gorm.ErrDuplicatedKey;
// the string check covers only sqlite's exact constraint message, for
// builds that predate the translator.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isNotFound reports whether err wraps a record-not-found lookup.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
