package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"rentique/internal/services"

	"github.com/go-playground/validator/v10"
)

// newValidator builds the request validator used by all handlers.
// Field names in violation reports follow the json tags.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// fieldErrors expands a validator error into the complete list of
// field-level violations, never just the first.
func fieldErrors(err error) []services.FieldError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []services.FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]services.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, services.FieldError{Field: e.Field(), Message: violationMessage(e)})
	}
	return out
}

func violationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if e.Kind() == reflect.Slice || e.Kind() == reflect.String {
			return fmt.Sprintf("must have at least %s entries or characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.Slice || e.Kind() == reflect.String {
			return fmt.Sprintf("must have at most %s entries or characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), "'", ""))
	default:
		return fmt.Sprintf("failed the '%s' rule", e.Tag())
	}
}
