package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	// PortalTokenIDKey is the context key for the portal token ID
	PortalTokenIDKey contextKey = "portal_token_id"
	// PortalClientIDKey is the context key for the client the token belongs to
	PortalClientIDKey contextKey = "portal_client_id"
	// IsPortalAuthKey is the context key indicating portal token authentication
	IsPortalAuthKey contextKey = "is_portal_auth"
)

// PortalTokenValidator provides portal token validation
type PortalTokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.PortalToken, error)
}

// PortalAuthMiddleware authenticates couple-portal requests. A valid token
// scopes the request to exactly one client in one workspace.
type PortalAuthMiddleware struct {
	validator PortalTokenValidator
}

// NewPortalAuthMiddleware creates a new PortalAuthMiddleware
func NewPortalAuthMiddleware(validator PortalTokenValidator) *PortalAuthMiddleware {
	return &PortalAuthMiddleware{validator: validator}
}

// Authenticate returns an Echo middleware that validates portal tokens
func (m *PortalAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "Missing authorization header")
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			token := parts[1]

			// Validate token format - must start with "hitch_"
			if !strings.HasPrefix(token, "hitch_") {
				return unauthorizedError(c, "Invalid token format")
			}

			// Validate the token
			portalToken, err := m.validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrPortalTokenNotFound) {
					log.Debug().Msg("Portal token not found or revoked")
					return unauthorizedError(c, "Invalid or expired portal token")
				}
				log.Error().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "Token validation failed")
			}

			// Set context values
			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, WorkspaceIDKey, portalToken.WorkspaceID)
			ctx = context.WithValue(ctx, PortalClientIDKey, portalToken.ClientID)
			ctx = context.WithValue(ctx, PortalTokenIDKey, portalToken.ID)
			ctx = context.WithValue(ctx, IsPortalAuthKey, true)

			c.SetRequest(c.Request().WithContext(ctx))

			log.Debug().
				Int32("workspace_id", portalToken.WorkspaceID).
				Int32("client_id", portalToken.ClientID).
				Str("token_id", portalToken.ID.String()).
				Msg("Portal token authentication successful")

			return next(c)
		}
	}
}

// GetPortalClientID extracts the portal client ID from the context
func GetPortalClientID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(PortalClientIDKey).(int32); ok {
		return id
	}
	return 0
}

// GetPortalTokenID extracts the portal token ID from the context
func GetPortalTokenID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(PortalTokenIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// IsPortalAuth checks if the request was authenticated via portal token
func IsPortalAuth(c echo.Context) bool {
	if isPortal, ok := c.Request().Context().Value(IsPortalAuthKey).(bool); ok {
		return isPortal
	}
	return false
}
