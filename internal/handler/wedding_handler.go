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

// WeddingHandler handles wedding-related HTTP requests
type WeddingHandler struct {
	weddingService *service.WeddingService
}

// NewWeddingHandler creates a new WeddingHandler
func NewWeddingHandler(weddingService *service.WeddingService) *WeddingHandler {
	return &WeddingHandler{weddingService: weddingService}
}

// WeddingRequest represents the create/update wedding request body
type WeddingRequest struct {
	ClientID   int32   `json:"clientId"`
	Venue      *string `json:"venue,omitempty"`
	Date       string  `json:"date"`
	GuestCount int     `json:"guestCount"`
}

func (req WeddingRequest) toInput() (service.WeddingInput, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return service.WeddingInput{}, err
	}
	return service.WeddingInput{
		ClientID:   req.ClientID,
		Venue:      req.Venue,
		Date:       date,
		GuestCount: req.GuestCount,
	}, nil
}

// CreateWedding handles POST /api/v1/weddings
func (h *WeddingHandler) CreateWedding(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req WeddingRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	wedding, err := h.weddingService.CreateWedding(workspaceID, input)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create wedding")
		return NewInternalError(c, "Failed to create wedding")
	}

	return c.JSON(http.StatusCreated, wedding)
}

// GetWeddings handles GET /api/v1/weddings. A clientId query parameter
// narrows the list to one client's weddings.
func (h *WeddingHandler) GetWeddings(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	if clientParam := c.QueryParam("clientId"); clientParam != "" {
		clientID, err := strconv.Atoi(clientParam)
		if err != nil {
			return NewValidationError(c, "Invalid client ID", nil)
		}
		weddings, err := h.weddingService.GetWeddingsByClient(workspaceID, int32(clientID))
		if err != nil {
			if errors.Is(err, domain.ErrClientNotFound) {
				return NewNotFoundError(c, "Client not found")
			}
			log.Error().Err(err).Int32("workspace_id", workspaceID).Int("client_id", clientID).Msg("Failed to get weddings")
			return NewInternalError(c, "Failed to get weddings")
		}
		return c.JSON(http.StatusOK, weddings)
	}

	weddings, err := h.weddingService.GetWeddings(workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get weddings")
		return NewInternalError(c, "Failed to get weddings")
	}

	return c.JSON(http.StatusOK, weddings)
}

// GetWedding handles GET /api/v1/weddings/:id
func (h *WeddingHandler) GetWedding(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid wedding ID", nil)
	}

	wedding, err := h.weddingService.GetWedding(workspaceID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrWeddingNotFound) {
			return NewNotFoundError(c, "Wedding not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("wedding_id", id).Msg("Failed to get wedding")
		return NewInternalError(c, "Failed to get wedding")
	}

	return c.JSON(http.StatusOK, wedding)
}

// UpdateWedding handles PUT /api/v1/weddings/:id
func (h *WeddingHandler) UpdateWedding(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid wedding ID", nil)
	}

	var req WeddingRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	wedding, err := h.weddingService.UpdateWedding(workspaceID, int32(id), input)
	if err != nil {
		if errors.Is(err, domain.ErrWeddingNotFound) {
			return NewNotFoundError(c, "Wedding not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("wedding_id", id).Msg("Failed to update wedding")
		return NewInternalError(c, "Failed to update wedding")
	}

	return c.JSON(http.StatusOK, wedding)
}

// DeleteWedding handles DELETE /api/v1/weddings/:id
func (h *WeddingHandler) DeleteWedding(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid wedding ID", nil)
	}

	if err := h.weddingService.DeleteWedding(workspaceID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrWeddingNotFound) {
			return NewNotFoundError(c, "Wedding not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("wedding_id", id).Msg("Failed to delete wedding")
		return NewInternalError(c, "Failed to delete wedding")
	}

	log.Info().Int32("workspace_id", workspaceID).Int("wedding_id", id).Msg("Wedding deleted")
	return c.NoContent(http.StatusNoContent)
}
