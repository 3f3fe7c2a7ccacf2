package api

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	app_errors "inkflow/backend/internal/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getInstance returns the shared validator. Building the instance is
// expensive, so it is created once and reused across requests.
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// validateRequest checks a request DTO against its `validate` field tags and
// turns any violations into one wrapped ErrValidation whose message names
// every offending field, so the client can fix the whole payload in one go.
func validateRequest(payload interface{}) error {
	err := getInstance().Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %s", app_errors.ErrValidation, err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fieldMessage(fieldErr))
	}
	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(messages, "; "))
}

// fieldMessage renders one rule violation the way API clients should read
// it. The cases cover the tags this API's DTOs actually use (message roles,
// checkpoint title and description limits, required ids and prompts).
func fieldMessage(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of [%s]", field, fieldErr.Param())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s characters", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters", field, fieldErr.Param())
	default:
		return fmt.Sprintf("field '%s' failed the '%s' rule", field, fieldErr.Tag())
	}
}
