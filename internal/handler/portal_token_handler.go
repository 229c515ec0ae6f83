package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/middleware"
	"github.com/hitchly/hitchly-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PortalTokenHandler handles portal token management HTTP requests
type PortalTokenHandler struct {
	tokenService *service.PortalTokenService
}

// NewPortalTokenHandler creates a new PortalTokenHandler
func NewPortalTokenHandler(tokenService *service.PortalTokenService) *PortalTokenHandler {
	return &PortalTokenHandler{tokenService: tokenService}
}

// CreatePortalTokenRequest represents the create portal token request body
type CreatePortalTokenRequest struct {
	ClientID    int32  `json:"clientId"`
	Description string `json:"description"`
}

// CreateToken handles POST /api/v1/portal-tokens
func (h *PortalTokenHandler) CreateToken(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreatePortalTokenRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.Description == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	}

	result, err := h.tokenService.Create(c.Request().Context(), workspaceID, req.ClientID, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		if errors.Is(err, domain.ErrTooManyPortalTokens) {
			return NewConflictError(c, "Portal token limit reached for this workspace")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create portal token")
		return NewInternalError(c, "Failed to create portal token")
	}

	return c.JSON(http.StatusCreated, result)
}

// GetTokens handles GET /api/v1/portal-tokens
func (h *PortalTokenHandler) GetTokens(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	tokens, err := h.tokenService.GetByWorkspace(c.Request().Context(), workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get portal tokens")
		return NewInternalError(c, "Failed to get portal tokens")
	}

	return c.JSON(http.StatusOK, tokens)
}

// RevokeToken handles DELETE /api/v1/portal-tokens/:id
func (h *PortalTokenHandler) RevokeToken(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	tokenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid token ID", nil)
	}

	if err := h.tokenService.Revoke(c.Request().Context(), workspaceID, tokenID); err != nil {
		if errors.Is(err, domain.ErrPortalTokenNotFound) {
			return NewNotFoundError(c, "Portal token not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to revoke portal token")
		return NewInternalError(c, "Failed to revoke portal token")
	}

	return c.NoContent(http.StatusNoContent)
}
