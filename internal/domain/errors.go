package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrClientNotFound      = errors.New("client not found")
	ErrWeddingNotFound     = errors.New("wedding not found")
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrLineItemNotFound    = errors.New("budget line item not found")
	ErrSummaryNotFound     = errors.New("budget summary not found")
	ErrPortalTokenNotFound = errors.New("portal token not found or revoked")
	ErrTooManyPortalTokens = errors.New("portal token limit reached")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrCategoryRequired    = errors.New("category is required")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrInvalidStatus       = errors.New("invalid payment status")
)

// Validation constants
const (
	MaxNameLength     = 255
	MaxCategoryLength = 100
)
