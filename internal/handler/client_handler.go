package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/middleware"
	"github.com/hitchly/hitchly-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// ClientRequest represents the create/update client request body
type ClientRequest struct {
	CoupleNames string  `json:"coupleNames"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	WeddingDate *string `json:"weddingDate,omitempty"`
}

func (req ClientRequest) toInput() (service.ClientInput, error) {
	input := service.ClientInput{
		CoupleNames: req.CoupleNames,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	if req.WeddingDate != nil && *req.WeddingDate != "" {
		date, err := time.Parse("2006-01-02", *req.WeddingDate)
		if err != nil {
			return input, err
		}
		input.WeddingDate = &date
	}
	return input, nil
}

// CreateClient handles POST /api/v1/clients
func (h *ClientHandler) CreateClient(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid wedding date", []ValidationError{
			{Field: "weddingDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	client, err := h.clientService.CreateClient(workspaceID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "coupleNames", Message: "Couple names are required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "coupleNames", Message: "Couple names must be 255 characters or less"},
			})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create client")
		return NewInternalError(c, "Failed to create client")
	}

	return c.JSON(http.StatusCreated, client)
}

// GetClients handles GET /api/v1/clients
func (h *ClientHandler) GetClients(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	clients, err := h.clientService.GetClients(workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get clients")
		return NewInternalError(c, "Failed to get clients")
	}

	return c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	client, err := h.clientService.GetClient(workspaceID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("client_id", id).Msg("Failed to get client")
		return NewInternalError(c, "Failed to get client")
	}

	return c.JSON(http.StatusOK, client)
}

// UpdateClient handles PUT /api/v1/clients/:id
func (h *ClientHandler) UpdateClient(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid wedding date", []ValidationError{
			{Field: "weddingDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	client, err := h.clientService.UpdateClient(workspaceID, int32(id), input)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "coupleNames", Message: "Couple names are required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "coupleNames", Message: "Couple names must be 255 characters or less"},
			})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("client_id", id).Msg("Failed to update client")
		return NewInternalError(c, "Failed to update client")
	}

	return c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /api/v1/clients/:id
func (h *ClientHandler) DeleteClient(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	if err := h.clientService.DeleteClient(workspaceID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("client_id", id).Msg("Failed to delete client")
		return NewInternalError(c, "Failed to delete client")
	}

	log.Info().Int32("workspace_id", workspaceID).Int("client_id", id).Msg("Client deleted")
	return c.NoContent(http.StatusNoContent)
}
