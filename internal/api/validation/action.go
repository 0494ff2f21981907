package validation

import (
	"strings"

	"github.com/replyforge/replyforge/internal/action"
)

// CreateActionRequest mirrors the fields needed for create action validation.
type CreateActionRequest struct {
	BrandID    string
	ActionType string
	Title      string
}

// ValidateCreateActionRequest validates the fields of a create action request.
func ValidateCreateActionRequest(req CreateActionRequest) []FieldError {
	var errs []FieldError

	errs = requiredUUID(errs, "brandId", req.BrandID)

	if req.ActionType == "" {
		errs = append(errs, FieldError{Field: "actionType", Message: "actionType is required"})
	} else if !action.IsValidType(req.ActionType) {
		errs = append(errs, FieldError{
			Field:   "actionType",
			Message: "Invalid actionType. Must be one of: " + strings.Join(action.ValidTypes, ", "),
		})
	}

	errs = required(errs, "title", req.Title)
	errs = maxLen(errs, "title", req.Title, 500)

	return errs
}

// ValidateActionStatus validates a requested action status.
func ValidateActionStatus(status string) []FieldError {
	switch status {
	case "":
		return []FieldError{{Field: "status", Message: "status is required"}}
	case action.StatusPending, action.StatusCompleted, action.StatusPaused:
		return nil
	default:
		return []FieldError{{Field: "status", Message: "status must be one of: pending, completed, paused"}}
	}
}
