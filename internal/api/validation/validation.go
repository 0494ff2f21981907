package validation

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Message returns the first error's message, used as the response summary.
func Message(errs []FieldError) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message
}

func required(errs []FieldError, field, value string) []FieldError {
	if strings.TrimSpace(value) == "" {
		return append(errs, FieldError{Field: field, Message: field + " is required"})
	}
	return errs
}

func requiredUUID(errs []FieldError, field, value string) []FieldError {
	if strings.TrimSpace(value) == "" {
		return append(errs, FieldError{Field: field, Message: field + " is required"})
	}
	if _, err := uuid.Parse(value); err != nil {
		return append(errs, FieldError{Field: field, Message: field + " must be a valid UUID"})
	}
	return errs
}

func maxLen(errs []FieldError, field, value string, n int) []FieldError {
	if len(value) > n {
		return append(errs, FieldError{Field: field, Message: field + " must be at most " + strconv.Itoa(n) + " characters"})
	}
	return errs
}
