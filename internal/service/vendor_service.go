package service

import (
	"time"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// VendorService handles vendor business logic. Balance maintenance after a
// payment is delegated to BalanceService so the stored column always matches
// the computed value.
type VendorService struct {
	vendorRepo     domain.VendorRepository
	weddingRepo    domain.WeddingRepository
	balanceService *BalanceService
	publisher      websocket.EventPublisher
}

// NewVendorService creates a new VendorService
func NewVendorService(
	vendorRepo domain.VendorRepository,
	weddingRepo domain.WeddingRepository,
	balanceService *BalanceService,
	publisher websocket.EventPublisher,
) *VendorService {
	return &VendorService{
		vendorRepo:     vendorRepo,
		weddingRepo:    weddingRepo,
		balanceService: balanceService,
		publisher:      publisher,
	}
}

// CreateVendorInput carries the fields for booking a vendor
type CreateVendorInput struct {
	WeddingID     int32
	Name          string
	Category      string
	TotalCost     decimal.Decimal
	DepositAmount decimal.Decimal
}

// RecordPaymentInput carries the fields for recording a vendor payment
type RecordPaymentInput struct {
	Amount decimal.Decimal
	Status domain.PaymentStatus
	Note   *string
	PaidAt *time.Time
}

// CreateVendor books a vendor for a wedding. The initial stored balance is
// totalCost - depositAmount (no payments exist yet).
func (s *VendorService) CreateVendor(workspaceID int32, input CreateVendorInput) (*domain.Vendor, error) {
	if input.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(input.Name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.TotalCost.IsNegative() || input.DepositAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	// Wedding must exist and belong to the workspace
	if _, err := s.weddingRepo.GetByID(workspaceID, input.WeddingID); err != nil {
		return nil, err
	}

	vendor := &domain.Vendor{
		WorkspaceID:   workspaceID,
		WeddingID:     input.WeddingID,
		Name:          input.Name,
		Category:      input.Category,
		TotalCost:     input.TotalCost,
		DepositAmount: input.DepositAmount,
		Balance:       input.TotalCost.Sub(input.DepositAmount),
		Payments:      []domain.VendorPayment{},
	}

	created, err := s.vendorRepo.Create(vendor)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create vendor")
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("vendor_id", created.ID).
		Str("name", created.Name).
		Msg("Vendor created")

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.VendorCreated(created))
	}
	return created, nil
}

// GetVendor retrieves a single vendor with its payments
func (s *VendorService) GetVendor(workspaceID, vendorID int32) (*domain.Vendor, error) {
	return s.vendorRepo.GetByID(workspaceID, vendorID)
}

// GetVendorsByWedding lists the vendors booked for a wedding
func (s *VendorService) GetVendorsByWedding(workspaceID, weddingID int32) ([]*domain.Vendor, error) {
	if _, err := s.weddingRepo.GetByID(workspaceID, weddingID); err != nil {
		return nil, err
	}
	return s.vendorRepo.GetAllByWedding(workspaceID, weddingID)
}

// GetVendorsByWorkspace lists every vendor in the workspace
func (s *VendorService) GetVendorsByWorkspace(workspaceID int32) ([]*domain.Vendor, error) {
	return s.vendorRepo.GetAllByWorkspace(workspaceID)
}

// UpdateVendor updates a vendor's contract fields and re-syncs the stored
// balance since totalCost/depositAmount may have changed
func (s *VendorService) UpdateVendor(workspaceID, vendorID int32, input CreateVendorInput) (*domain.Vendor, error) {
	if input.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(input.Name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.TotalCost.IsNegative() || input.DepositAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	vendor, err := s.vendorRepo.GetByID(workspaceID, vendorID)
	if err != nil {
		return nil, err
	}

	vendor.Name = input.Name
	vendor.Category = input.Category
	vendor.TotalCost = input.TotalCost
	vendor.DepositAmount = input.DepositAmount

	updated, err := s.vendorRepo.Update(vendor)
	if err != nil {
		return nil, err
	}

	if _, err := s.balanceService.FixVendorBalance(workspaceID, vendorID); err != nil {
		return nil, err
	}

	updated, err = s.vendorRepo.GetByID(workspaceID, vendorID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.VendorUpdated(updated))
	}
	return updated, nil
}

// DeleteVendor removes a vendor and its payments
func (s *VendorService) DeleteVendor(workspaceID, vendorID int32) error {
	if _, err := s.vendorRepo.GetByID(workspaceID, vendorID); err != nil {
		return err
	}
	if err := s.vendorRepo.Delete(workspaceID, vendorID); err != nil {
		return err
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("vendor_id", vendorID).Msg("Vendor deleted")

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.VendorDeleted(map[string]int32{"id": vendorID}))
	}
	return nil
}

// RecordPayment appends a payment to the vendor and immediately re-syncs the
// stored balance so it never drifts from the computed value
func (s *VendorService) RecordPayment(workspaceID, vendorID int32, input RecordPaymentInput) (*domain.VendorPayment, error) {
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	if _, err := s.vendorRepo.GetByID(workspaceID, vendorID); err != nil {
		return nil, err
	}

	payment := &domain.VendorPayment{
		VendorID: vendorID,
		Amount:   input.Amount,
		Status:   input.Status,
		Note:     input.Note,
		PaidAt:   input.PaidAt,
	}

	created, err := s.vendorRepo.AddPayment(payment)
	if err != nil {
		log.Error().Err(err).
			Int32("workspace_id", workspaceID).
			Int32("vendor_id", vendorID).
			Msg("Failed to record vendor payment")
		return nil, err
	}

	if _, err := s.balanceService.FixVendorBalance(workspaceID, vendorID); err != nil {
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("vendor_id", vendorID).
		Str("amount", created.Amount.StringFixed(2)).
		Str("status", string(created.Status)).
		Msg("Vendor payment recorded")

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.PaymentRecorded(created))
	}
	return created, nil
}
