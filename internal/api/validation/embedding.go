package validation

// StoreEmbeddingRequest mirrors the fields of a store embedding request.
type StoreEmbeddingRequest struct {
	BrandID   string
	Content   string
	Dimension int
}

// ValidateStoreEmbeddingRequest validates a store embedding request.
func ValidateStoreEmbeddingRequest(req StoreEmbeddingRequest) []FieldError {
	var errs []FieldError
	errs = requiredUUID(errs, "brandId", req.BrandID)
	errs = required(errs, "content", req.Content)
	if req.Dimension == 0 {
		errs = append(errs, FieldError{Field: "embedding", Message: "embedding must be a non-empty array of numbers"})
	}
	return errs
}
