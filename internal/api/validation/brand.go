package validation

import (
	"net/url"
	"strings"
)

// CreateBrandRequest mirrors the fields needed for create brand validation.
type CreateBrandRequest struct {
	Name       string
	WebsiteURL string
}

// ValidateCreateBrandRequest validates the fields of a create brand request.
func ValidateCreateBrandRequest(req CreateBrandRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	errs = required(errs, "name", name)
	errs = maxLen(errs, "name", name, 255)

	if req.WebsiteURL != "" {
		u, err := url.Parse(req.WebsiteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, FieldError{Field: "websiteUrl", Message: "websiteUrl must be an http or https URL"})
		}
	}

	return errs
}
