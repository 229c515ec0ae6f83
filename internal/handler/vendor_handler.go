package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/middleware"
	"github.com/hitchly/hitchly-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// VendorHandler handles vendor-related HTTP requests, including the balance
// diagnostic and repair endpoints
type VendorHandler struct {
	vendorService   *service.VendorService
	balanceService  *service.BalanceService
	documentService *service.DocumentService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendorService *service.VendorService, balanceService *service.BalanceService, documentService *service.DocumentService) *VendorHandler {
	return &VendorHandler{
		vendorService:   vendorService,
		balanceService:  balanceService,
		documentService: documentService,
	}
}

// VendorRequest represents the create/update vendor request body
type VendorRequest struct {
	WeddingID     int32  `json:"weddingId"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	TotalCost     string `json:"totalCost"`
	DepositAmount string `json:"depositAmount,omitempty"`
}

// RecordPaymentRequest represents the record payment request body
type RecordPaymentRequest struct {
	Amount string  `json:"amount"`
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
	PaidAt *string `json:"paidAt,omitempty"`
}

func (req VendorRequest) toInput() (service.CreateVendorInput, []ValidationError) {
	totalCost, err := decimal.NewFromString(req.TotalCost)
	if err != nil {
		return service.CreateVendorInput{}, []ValidationError{
			{Field: "totalCost", Message: "Must be a valid decimal number"},
		}
	}

	deposit := decimal.Zero
	if req.DepositAmount != "" {
		deposit, err = decimal.NewFromString(req.DepositAmount)
		if err != nil {
			return service.CreateVendorInput{}, []ValidationError{
				{Field: "depositAmount", Message: "Must be a valid decimal number"},
			}
		}
	}

	return service.CreateVendorInput{
		WeddingID:     req.WeddingID,
		Name:          req.Name,
		Category:      req.Category,
		TotalCost:     totalCost,
		DepositAmount: deposit,
	}, nil
}

func vendorServiceError(c echo.Context, err error, workspaceID int32, action string) error {
	switch {
	case errors.Is(err, domain.ErrVendorNotFound):
		return NewNotFoundError(c, "Vendor not found")
	case errors.Is(err, domain.ErrWeddingNotFound):
		return NewNotFoundError(c, "Wedding not found")
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amounts must not be negative"},
		})
	case errors.Is(err, domain.ErrInvalidStatus):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Status must be one of: paid, pending, scheduled"},
		})
	}
	log.Error().Err(err).Int32("workspace_id", workspaceID).Msg(action)
	return NewInternalError(c, action)
}

// CreateVendor handles POST /api/v1/vendors
func (h *VendorHandler) CreateVendor(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req VendorRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, validationErrs := req.toInput()
	if validationErrs != nil {
		return NewValidationError(c, "Validation failed", validationErrs)
	}

	vendor, err := h.vendorService.CreateVendor(workspaceID, input)
	if err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to create vendor")
	}

	return c.JSON(http.StatusCreated, vendor)
}

// GetVendors handles GET /api/v1/vendors. A weddingId query parameter narrows
// the list to one wedding's vendors.
func (h *VendorHandler) GetVendors(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	if weddingParam := c.QueryParam("weddingId"); weddingParam != "" {
		weddingID, err := strconv.Atoi(weddingParam)
		if err != nil {
			return NewValidationError(c, "Invalid wedding ID", nil)
		}
		vendors, err := h.vendorService.GetVendorsByWedding(workspaceID, int32(weddingID))
		if err != nil {
			return vendorServiceError(c, err, workspaceID, "Failed to get vendors")
		}
		return c.JSON(http.StatusOK, vendors)
	}

	vendors, err := h.vendorService.GetVendorsByWorkspace(workspaceID)
	if err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to get vendors")
	}

	return c.JSON(http.StatusOK, vendors)
}

// GetVendor handles GET /api/v1/vendors/:id
func (h *VendorHandler) GetVendor(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid vendor ID", nil)
	}

	vendor, err := h.vendorService.GetVendor(workspaceID, int32(id))
	if err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to get vendor")
	}

	return c.JSON(http.StatusOK, vendor)
}

// UpdateVendor handles PUT /api/v1/vendors/:id
func (h *VendorHandler) UpdateVendor(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid vendor ID", nil)
	}

	var req VendorRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, validationErrs := req.toInput()
	if validationErrs != nil {
		return NewValidationError(c, "Validation failed", validationErrs)
	}

	vendor, err := h.vendorService.UpdateVendor(workspaceID, int32(id), input)
	if err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to update vendor")
	}

	return c.JSON(http.StatusOK, vendor)
}

// DeleteVendor handles DELETE /api/v1/vendors/:id
func (h *VendorHandler) DeleteVendor(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid vendor ID", nil)
	}

	if err := h.vendorService.DeleteVendor(workspaceID, int32(id)); err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to delete vendor")
	}

	return c.NoContent(http.StatusNoContent)
}

// RecordPayment handles POST /api/v1/vendors/:id/payments
func (h *VendorHandler) RecordPayment(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid vendor ID", nil)
	}

	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	input := service.RecordPaymentInput{
		Amount: amount,
		Status: domain.PaymentStatus(req.Status),
		Note:   req.Note,
	}
	if req.PaidAt != nil && *req.PaidAt != "" {
		paidAt, err := time.Parse(time.RFC3339, *req.PaidAt)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "paidAt", Message: "Must be an RFC 3339 timestamp"},
			})
		}
		input.PaidAt = &paidAt
	}

	payment, err := h.vendorService.RecordPayment(workspaceID, int32(id), input)
	if err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to record payment")
	}

	return c.JSON(http.StatusCreated, payment)
}

// GetBalance handles GET /api/v1/vendors/:id/balance
func (h *VendorHandler) GetBalance(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid vendor ID", nil)
	}

	check, err := h.balanceService.CheckBalance(workspaceID, int32(id))
	if err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to check balance")
	}

	return c.JSON(http.StatusOK, check)
}

// FixBalance handles POST /api/v1/vendors/:id/balance/fix
func (h *VendorHandler) FixBalance(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid vendor ID", nil)
	}

	result, err := h.balanceService.FixVendorBalance(workspaceID, int32(id))
	if err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to fix balance")
	}

	return c.JSON(http.StatusOK, result)
}

// FixAllBalances handles POST /api/v1/vendors/balances/fix
func (h *VendorHandler) FixAllBalances(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	results, err := h.balanceService.FixAllBalances(workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to fix balances")
		return NewInternalError(c, "Failed to fix balances")
	}

	fixed := 0
	failed := 0
	for _, r := range results {
		if r.Fixed {
			fixed++
		}
		if r.Error != "" {
			failed++
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"checked": len(results),
		"fixed":   fixed,
		"failed":  failed,
		"results": results,
	})
}

// InspectBalance handles GET /api/v1/vendors/:id/balance/inspect
func (h *VendorHandler) InspectBalance(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid vendor ID", nil)
	}

	diagnostic, err := h.balanceService.InspectVendor(workspaceID, int32(id))
	if err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to inspect balance")
	}

	return c.JSON(http.StatusOK, diagnostic)
}

// InspectWeddingBalances handles GET /api/v1/weddings/:id/vendor-balances
func (h *VendorHandler) InspectWeddingBalances(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid wedding ID", nil)
	}

	diagnostics, err := h.balanceService.InspectWeddingVendors(workspaceID, int32(id))
	if err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to inspect wedding vendor balances")
	}

	return c.JSON(http.StatusOK, diagnostics)
}

// UploadImage handles POST /api/v1/vendors/:id/images. Contracts and
// portfolio shots are stored as resized variants in object storage.
func (h *VendorHandler) UploadImage(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	if h.documentService == nil || !h.documentService.IsEnabled() {
		return NewValidationError(c, "Image storage is not configured", nil)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid vendor ID", nil)
	}

	// Vendor must exist and belong to the workspace
	if _, err := h.vendorService.GetVendor(workspaceID, int32(id)); err != nil {
		return vendorServiceError(c, err, workspaceID, "Failed to get vendor")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return NewValidationError(c, "Image file is required", []ValidationError{
			{Field: "image", Message: "Multipart field 'image' is missing"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read uploaded file")
	}

	metadata, err := h.documentService.ProcessAndUpload(c.Request().Context(), workspaceID, int32(id), data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageTooLarge),
			errors.Is(err, service.ErrInvalidFormat),
			errors.Is(err, service.ErrImageTooSmall),
			errors.Is(err, service.ErrInvalidImageData):
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("vendor_id", id).Msg("Failed to upload image")
		return NewInternalError(c, "Failed to upload image")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int("vendor_id", id).
		Str("image_id", metadata.ID).
		Msg("Vendor image uploaded")

	return c.JSON(http.StatusCreated, metadata)
}
