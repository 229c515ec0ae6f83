package service

import (
	"fmt"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BalanceService owns vendor balance verification and repair. The stored
// balance column is derived data; this service is the only writer of it
// outside of vendor creation.
type BalanceService struct {
	vendorRepo  domain.VendorRepository
	weddingRepo domain.WeddingRepository
	publisher   websocket.EventPublisher
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(vendorRepo domain.VendorRepository, weddingRepo domain.WeddingRepository, publisher websocket.EventPublisher) *BalanceService {
	return &BalanceService{
		vendorRepo:  vendorRepo,
		weddingRepo: weddingRepo,
		publisher:   publisher,
	}
}

// BalanceCheck holds the result of comparing a vendor's stored balance
// against the computed one, without mutating anything
type BalanceCheck struct {
	VendorID          int32           `json:"vendorId"`
	Name              string          `json:"name"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	DepositAmount     decimal.Decimal `json:"depositAmount"`
	CurrentBalance    decimal.Decimal `json:"currentBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	PaymentsCount     int             `json:"paymentsCount"`
	PaidPaymentsTotal decimal.Decimal `json:"paidPaymentsTotal"`
	NeedsFix          bool            `json:"needsFix"`
}

// BalanceFixResult is the per-vendor outcome of a fix run. Error is set when
// the vendor's stored balance could not be written; the rest of the batch
// still runs (skip-and-report, no rollback).
type BalanceFixResult struct {
	VendorID      int32           `json:"vendorId"`
	Name          string          `json:"name"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
	OldBalance    decimal.Decimal `json:"oldBalance"`
	NewBalance    decimal.Decimal `json:"newBalance"`
	Fixed         bool            `json:"fixed"`
	Error         string          `json:"error,omitempty"`
}

// BalanceDiagnostic is the detailed single-vendor audit view
type BalanceDiagnostic struct {
	VendorID          int32           `json:"vendorId"`
	Name              string          `json:"name"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	DepositAmount     decimal.Decimal `json:"depositAmount"`
	StoredBalance     decimal.Decimal `json:"storedBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	PaymentsCount     int             `json:"paymentsCount"`
	PaidPaymentsTotal decimal.Decimal `json:"paidPaymentsTotal"`
	IsCorrect         bool            `json:"isCorrect"`
	Formula           string          `json:"formula"`
}

// WeddingVendorDiagnostic is one row of the per-wedding audit view
type WeddingVendorDiagnostic struct {
	VendorID          int32           `json:"vendorId"`
	Name              string          `json:"name"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	DepositAmount     decimal.Decimal `json:"depositAmount"`
	StoredBalance     decimal.Decimal `json:"storedBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	IsCorrect         bool            `json:"isCorrect"`
}

// CheckBalance compares a vendor's stored and computed balances without
// writing anything
func (s *BalanceService) CheckBalance(workspaceID, vendorID int32) (*BalanceCheck, error) {
	vendor, err := s.vendorRepo.GetByID(workspaceID, vendorID)
	if err != nil {
		return nil, err
	}

	calculated := vendor.ComputedBalance()
	return &BalanceCheck{
		VendorID:          vendor.ID,
		Name:              vendor.Name,
		TotalCost:         vendor.TotalCost,
		DepositAmount:     vendor.DepositAmount,
		CurrentBalance:    vendor.Balance,
		CalculatedBalance: calculated,
		PaymentsCount:     len(vendor.Payments),
		PaidPaymentsTotal: vendor.PaidTotal(),
		NeedsFix:          !vendor.Balance.Equal(calculated),
	}, nil
}

// FixVendorBalance recomputes and stores a single vendor's balance.
// Fixed is false when the stored value already matched, which makes a second
// consecutive call a no-op.
func (s *BalanceService) FixVendorBalance(workspaceID, vendorID int32) (*BalanceFixResult, error) {
	vendor, err := s.vendorRepo.GetByID(workspaceID, vendorID)
	if err != nil {
		return nil, err
	}

	result := s.fixOne(workspaceID, vendor)
	if result.Error != "" {
		return nil, fmt.Errorf("failed to update balance for vendor %d: %s", vendorID, result.Error)
	}
	return result, nil
}

// FixAllBalances recomputes and stores balances for every vendor in the
// workspace. A vendor whose write fails is reported in its result entry and
// the rest of the batch continues.
func (s *BalanceService) FixAllBalances(workspaceID int32) ([]*BalanceFixResult, error) {
	vendors, err := s.vendorRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	results := make([]*BalanceFixResult, len(vendors))
	for i, vendor := range vendors {
		results[i] = s.fixOne(workspaceID, vendor)
	}
	return results, nil
}

func (s *BalanceService) fixOne(workspaceID int32, vendor *domain.Vendor) *BalanceFixResult {
	calculated := vendor.ComputedBalance()
	result := &BalanceFixResult{
		VendorID:      vendor.ID,
		Name:          vendor.Name,
		TotalCost:     vendor.TotalCost,
		DepositAmount: vendor.DepositAmount,
		OldBalance:    vendor.Balance,
		NewBalance:    calculated,
	}

	if vendor.Balance.Equal(calculated) {
		return result
	}

	if err := s.vendorRepo.UpdateBalance(workspaceID, vendor.ID, calculated); err != nil {
		log.Error().Err(err).
			Int32("workspace_id", workspaceID).
			Int32("vendor_id", vendor.ID).
			Msg("Failed to store recomputed vendor balance")
		result.Error = err.Error()
		return result
	}

	result.Fixed = true
	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("vendor_id", vendor.ID).
		Str("old_balance", vendor.Balance.StringFixed(2)).
		Str("new_balance", calculated.StringFixed(2)).
		Msg("Vendor balance fixed")

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.VendorBalanceFixed(result))
	}
	return result
}

// InspectVendor returns the full audit view for one vendor, including the
// balance formula spelled out, without mutating anything
func (s *BalanceService) InspectVendor(workspaceID, vendorID int32) (*BalanceDiagnostic, error) {
	vendor, err := s.vendorRepo.GetByID(workspaceID, vendorID)
	if err != nil {
		return nil, err
	}

	calculated := vendor.ComputedBalance()
	paidTotal := vendor.PaidTotal()
	return &BalanceDiagnostic{
		VendorID:          vendor.ID,
		Name:              vendor.Name,
		TotalCost:         vendor.TotalCost,
		DepositAmount:     vendor.DepositAmount,
		StoredBalance:     vendor.Balance,
		CalculatedBalance: calculated,
		PaymentsCount:     len(vendor.Payments),
		PaidPaymentsTotal: paidTotal,
		IsCorrect:         vendor.Balance.Equal(calculated),
		Formula: fmt.Sprintf("%s - %s - %s = %s",
			vendor.TotalCost.StringFixed(2),
			vendor.DepositAmount.StringFixed(2),
			paidTotal.StringFixed(2),
			calculated.StringFixed(2)),
	}, nil
}

// InspectWeddingVendors returns the audit view for every vendor booked for a
// wedding
func (s *BalanceService) InspectWeddingVendors(workspaceID, weddingID int32) ([]*WeddingVendorDiagnostic, error) {
	if _, err := s.weddingRepo.GetByID(workspaceID, weddingID); err != nil {
		return nil, err
	}

	vendors, err := s.vendorRepo.GetAllByWedding(workspaceID, weddingID)
	if err != nil {
		return nil, err
	}

	results := make([]*WeddingVendorDiagnostic, len(vendors))
	for i, vendor := range vendors {
		calculated := vendor.ComputedBalance()
		results[i] = &WeddingVendorDiagnostic{
			VendorID:          vendor.ID,
			Name:              vendor.Name,
			TotalCost:         vendor.TotalCost,
			DepositAmount:     vendor.DepositAmount,
			StoredBalance:     vendor.Balance,
			CalculatedBalance: calculated,
			IsCorrect:         vendor.Balance.Equal(calculated),
		}
	}
	return results, nil
}
