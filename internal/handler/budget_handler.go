package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/middleware"
	"github.com/hitchly/hitchly-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget line item and budget summary HTTP requests
type BudgetHandler struct {
	lineItemService *service.BudgetLineItemService
	summaryService  *service.BudgetSummaryService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(lineItemService *service.BudgetLineItemService, summaryService *service.BudgetSummaryService) *BudgetHandler {
	return &BudgetHandler{
		lineItemService: lineItemService,
		summaryService:  summaryService,
	}
}

// LineItemRequest represents the create/update line item request body.
// Amounts are decimal strings; omitted amounts default to zero.
type LineItemRequest struct {
	Category      string `json:"category"`
	Budget        string `json:"budget,omitempty"`
	EstimatedCost string `json:"estimatedCost,omitempty"`
	ActualCost    string `json:"actualCost,omitempty"`
	PaidAmount    string `json:"paidAmount,omitempty"`
	PendingAmount string `json:"pendingAmount,omitempty"`
}

func (req LineItemRequest) toInput() (service.LineItemInput, []ValidationError) {
	input := service.LineItemInput{Category: req.Category}

	fields := []struct {
		name  string
		raw   string
		value *decimal.Decimal
	}{
		{"budget", req.Budget, &input.Budget},
		{"estimatedCost", req.EstimatedCost, &input.EstimatedCost},
		{"actualCost", req.ActualCost, &input.ActualCost},
		{"paidAmount", req.PaidAmount, &input.PaidAmount},
		{"pendingAmount", req.PendingAmount, &input.PendingAmount},
	}
	for _, f := range fields {
		if f.raw == "" {
			*f.value = decimal.Zero
			continue
		}
		parsed, err := decimal.NewFromString(f.raw)
		if err != nil {
			return input, []ValidationError{
				{Field: f.name, Message: "Must be a valid decimal number"},
			}
		}
		*f.value = parsed
	}
	return input, nil
}

func budgetServiceError(c echo.Context, err error, workspaceID int32, action string) error {
	switch {
	case errors.Is(err, domain.ErrClientNotFound):
		return NewNotFoundError(c, "Client not found")
	case errors.Is(err, domain.ErrLineItemNotFound):
		return NewNotFoundError(c, "Budget line item not found")
	case errors.Is(err, domain.ErrSummaryNotFound):
		return NewNotFoundError(c, "Budget summary not found. Recompute it first.")
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amounts must not be negative"},
		})
	}
	log.Error().Err(err).Int32("workspace_id", workspaceID).Msg(action)
	return NewInternalError(c, action)
}

func clientIDParam(c echo.Context) (int32, error) {
	id, err := strconv.Atoi(c.Param("clientId"))
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

// CreateLineItem handles POST /api/v1/budgets/:clientId/items
func (h *BudgetHandler) CreateLineItem(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	clientID, err := clientIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	var req LineItemRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, validationErrs := req.toInput()
	if validationErrs != nil {
		return NewValidationError(c, "Validation failed", validationErrs)
	}

	item, err := h.lineItemService.CreateLineItem(workspaceID, clientID, input)
	if err != nil {
		return budgetServiceError(c, err, workspaceID, "Failed to create budget line item")
	}

	return c.JSON(http.StatusCreated, item)
}

// GetLineItems handles GET /api/v1/budgets/:clientId/items
func (h *BudgetHandler) GetLineItems(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	clientID, err := clientIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	items, err := h.lineItemService.GetLineItems(workspaceID, clientID)
	if err != nil {
		return budgetServiceError(c, err, workspaceID, "Failed to get budget line items")
	}

	return c.JSON(http.StatusOK, items)
}

// UpdateLineItem handles PUT /api/v1/budgets/items/:id
func (h *BudgetHandler) UpdateLineItem(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid line item ID", nil)
	}

	var req LineItemRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, validationErrs := req.toInput()
	if validationErrs != nil {
		return NewValidationError(c, "Validation failed", validationErrs)
	}

	item, err := h.lineItemService.UpdateLineItem(workspaceID, int32(id), input)
	if err != nil {
		return budgetServiceError(c, err, workspaceID, "Failed to update budget line item")
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteLineItem handles DELETE /api/v1/budgets/items/:id
func (h *BudgetHandler) DeleteLineItem(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid line item ID", nil)
	}

	if err := h.lineItemService.DeleteLineItem(workspaceID, int32(id)); err != nil {
		return budgetServiceError(c, err, workspaceID, "Failed to delete budget line item")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetSummary handles GET /api/v1/budgets/:clientId/summary. Returns the
// cached summary; it does not recompute.
func (h *BudgetHandler) GetSummary(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	clientID, err := clientIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	summary, err := h.summaryService.GetSummary(workspaceID, clientID)
	if err != nil {
		return budgetServiceError(c, err, workspaceID, "Failed to get budget summary")
	}

	return c.JSON(http.StatusOK, summary)
}

// RecomputeSummary handles POST /api/v1/budgets/:clientId/summary/recompute
func (h *BudgetHandler) RecomputeSummary(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	clientID, err := clientIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	summaryID, err := h.summaryService.Recompute(workspaceID, clientID)
	if err != nil {
		return budgetServiceError(c, err, workspaceID, "Failed to recompute budget summary")
	}

	summary, err := h.summaryService.GetSummary(workspaceID, clientID)
	if err != nil {
		return budgetServiceError(c, err, workspaceID, "Failed to get budget summary")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("client_id", clientID).
		Int32("summary_id", summaryID).
		Msg("Budget summary recomputed via API")

	return c.JSON(http.StatusOK, summary)
}

// GetHealth handles GET /api/v1/budgets/:clientId/health
func (h *BudgetHandler) GetHealth(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	clientID, err := clientIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	health, err := h.summaryService.GetHealth(workspaceID, clientID)
	if err != nil {
		return budgetServiceError(c, err, workspaceID, "Failed to get budget health")
	}

	return c.JSON(http.StatusOK, map[string]string{"budgetHealth": string(health)})
}

// GetCategoryBreakdown handles GET /api/v1/budgets/:clientId/breakdown
func (h *BudgetHandler) GetCategoryBreakdown(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	clientID, err := clientIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	breakdown, err := h.summaryService.GetCategoryBreakdown(workspaceID, clientID)
	if err != nil {
		return budgetServiceError(c, err, workspaceID, "Failed to get category breakdown")
	}

	return c.JSON(http.StatusOK, breakdown)
}
