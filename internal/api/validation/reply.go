package validation

// FindAndReplyRequest mirrors the fields of a find-and-reply request.
type FindAndReplyRequest struct {
	BrandID string
}

// ValidateFindAndReplyRequest validates a find-and-reply request.
func ValidateFindAndReplyRequest(req FindAndReplyRequest) []FieldError {
	return requiredUUID(nil, "brandId", req.BrandID)
}

// PostReplyRequest mirrors the fields of a confirmed reply post.
type PostReplyRequest struct {
	BrandID   string
	TweetID   string
	ReplyText string
}

// ValidatePostReplyRequest validates a confirmed reply post.
func ValidatePostReplyRequest(req PostReplyRequest) []FieldError {
	var errs []FieldError
	errs = requiredUUID(errs, "brandId", req.BrandID)
	errs = required(errs, "tweetId", req.TweetID)
	errs = required(errs, "replyText", req.ReplyText)
	errs = maxLen(errs, "replyText", req.ReplyText, 280*4)
	return errs
}

// PostTweetRequest mirrors the fields of an internal post-tweet call.
type PostTweetRequest struct {
	BrandID string
	Text    string
}

// ValidatePostTweetRequest validates an internal post-tweet call.
func ValidatePostTweetRequest(req PostTweetRequest) []FieldError {
	var errs []FieldError
	errs = requiredUUID(errs, "brandId", req.BrandID)
	errs = required(errs, "text", req.Text)
	return errs
}
