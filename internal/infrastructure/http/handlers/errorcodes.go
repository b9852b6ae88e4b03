package handlers

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeValidation     = "validation_error"
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeInvalidToken   = "invalid_token"
	ErrCodeTokenReuse     = "refresh_token_reused"
	ErrCodeNotFound       = "not_found"
	ErrCodeLimitExceeded  = "limit_exceeded"
	ErrCodeUpstream       = "upstream_error"
	ErrCodeInternal       = "internal_error"
)
