package handler

import (
	"errors"
	"net/http"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/middleware"
	"github.com/hitchly/hitchly-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PortalHandler serves the read-only couple portal. Requests are
// authenticated with a portal token which pins the workspace and client; no
// IDs are taken from the request.
type PortalHandler struct {
	clientService   *service.ClientService
	weddingService  *service.WeddingService
	vendorService   *service.VendorService
	balanceService  *service.BalanceService
	lineItemService *service.BudgetLineItemService
	summaryService  *service.BudgetSummaryService
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(
	clientService *service.ClientService,
	weddingService *service.WeddingService,
	vendorService *service.VendorService,
	balanceService *service.BalanceService,
	lineItemService *service.BudgetLineItemService,
	summaryService *service.BudgetSummaryService,
) *PortalHandler {
	return &PortalHandler{
		clientService:   clientService,
		weddingService:  weddingService,
		vendorService:   vendorService,
		balanceService:  balanceService,
		lineItemService: lineItemService,
		summaryService:  summaryService,
	}
}

func portalScope(c echo.Context) (workspaceID, clientID int32, err error) {
	workspaceID = middleware.GetWorkspaceID(c)
	clientID = middleware.GetPortalClientID(c)
	if workspaceID == 0 || clientID == 0 {
		return 0, 0, errors.New("portal scope missing")
	}
	return workspaceID, clientID, nil
}

// GetOverview handles GET /api/portal/v1/overview. Returns the couple's
// profile and their scheduled weddings.
func (h *PortalHandler) GetOverview(c echo.Context) error {
	workspaceID, clientID, err := portalScope(c)
	if err != nil {
		return NewUnauthorizedError(c, "Portal token required")
	}

	client, err := h.clientService.GetClient(workspaceID, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("client_id", clientID).Msg("Failed to get portal overview")
		return NewInternalError(c, "Failed to get overview")
	}

	weddings, err := h.weddingService.GetWeddingsByClient(workspaceID, clientID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("client_id", clientID).Msg("Failed to get portal weddings")
		return NewInternalError(c, "Failed to get overview")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"client":   client,
		"weddings": weddings,
	})
}

// GetVendorBalances handles GET /api/portal/v1/vendor-balances. The couple
// sees the stored balance per vendor across all their weddings.
func (h *PortalHandler) GetVendorBalances(c echo.Context) error {
	workspaceID, clientID, err := portalScope(c)
	if err != nil {
		return NewUnauthorizedError(c, "Portal token required")
	}

	weddings, err := h.weddingService.GetWeddingsByClient(workspaceID, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("client_id", clientID).Msg("Failed to get portal weddings")
		return NewInternalError(c, "Failed to get vendor balances")
	}

	vendors := []*domain.Vendor{}
	for _, wedding := range weddings {
		weddingVendors, err := h.vendorService.GetVendorsByWedding(workspaceID, wedding.ID)
		if err != nil {
			log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("wedding_id", wedding.ID).Msg("Failed to get portal vendors")
			return NewInternalError(c, "Failed to get vendor balances")
		}
		vendors = append(vendors, weddingVendors...)
	}

	return c.JSON(http.StatusOK, vendors)
}

// GetBudget handles GET /api/portal/v1/budget. Returns the couple's line
// items plus the cached summary (null when never computed).
func (h *PortalHandler) GetBudget(c echo.Context) error {
	workspaceID, clientID, err := portalScope(c)
	if err != nil {
		return NewUnauthorizedError(c, "Portal token required")
	}

	items, err := h.lineItemService.GetLineItems(workspaceID, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("client_id", clientID).Msg("Failed to get portal line items")
		return NewInternalError(c, "Failed to get budget")
	}

	var summary *domain.BudgetSummary
	summary, err = h.summaryService.GetSummary(workspaceID, clientID)
	if err != nil {
		if !errors.Is(err, domain.ErrSummaryNotFound) {
			log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("client_id", clientID).Msg("Failed to get portal summary")
			return NewInternalError(c, "Failed to get budget")
		}
		summary = nil
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"lineItems": items,
		"summary":   summary,
	})
}
