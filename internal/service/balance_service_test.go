package service

import (
	"errors"
	"testing"
	"time"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/testutil"
	"github.com/hitchly/hitchly-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

func setupBalanceService() (*BalanceService, *testutil.MockVendorRepository, *testutil.MockWeddingRepository) {
	vendorRepo := testutil.NewMockVendorRepository()
	weddingRepo := testutil.NewMockWeddingRepository()
	balanceService := NewBalanceService(vendorRepo, weddingRepo, &websocket.NoOpPublisher{})
	return balanceService, vendorRepo, weddingRepo
}

func addVendor(vendorRepo *testutil.MockVendorRepository, workspaceID int32, totalCost, deposit, storedBalance decimal.Decimal, payments []domain.VendorPayment) *domain.Vendor {
	vendor := &domain.Vendor{
		WorkspaceID:   workspaceID,
		WeddingID:     1,
		Name:          "Grand Ballroom",
		Category:      "venue",
		TotalCost:     totalCost,
		DepositAmount: deposit,
		Balance:       storedBalance,
		Payments:      payments,
	}
	created, _ := vendorRepo.Create(vendor)
	return created
}

func paidPayment(amount decimal.Decimal) domain.VendorPayment {
	now := time.Now()
	return domain.VendorPayment{
		Amount: amount,
		Status: domain.PaymentStatusPaid,
		PaidAt: &now,
	}
}

func TestCheckBalance_Correct(t *testing.T) {
	balanceService, vendorRepo, _ := setupBalanceService()

	// 10000 - 2000 - 3000 paid = 5000
	vendor := addVendor(vendorRepo, 1,
		decimal.NewFromInt(10000),
		decimal.NewFromInt(2000),
		decimal.NewFromInt(5000),
		[]domain.VendorPayment{paidPayment(decimal.NewFromInt(3000))},
	)

	check, err := balanceService.CheckBalance(1, vendor.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if check.NeedsFix {
		t.Error("Expected NeedsFix false for a correct stored balance")
	}
	if !check.CalculatedBalance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected calculated balance 5000, got %s", check.CalculatedBalance.String())
	}
	if !check.PaidPaymentsTotal.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected paid total 3000, got %s", check.PaidPaymentsTotal.String())
	}
}

func TestCheckBalance_Drifted(t *testing.T) {
	balanceService, vendorRepo, _ := setupBalanceService()

	vendor := addVendor(vendorRepo, 1,
		decimal.NewFromInt(10000),
		decimal.NewFromInt(2000),
		decimal.NewFromInt(8000), // stale, ignores the payment
		[]domain.VendorPayment{paidPayment(decimal.NewFromInt(3000))},
	)

	check, err := balanceService.CheckBalance(1, vendor.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !check.NeedsFix {
		t.Error("Expected NeedsFix true for a drifted stored balance")
	}
	if !check.CurrentBalance.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("Expected current balance 8000, got %s", check.CurrentBalance.String())
	}
	if !check.CalculatedBalance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected calculated balance 5000, got %s", check.CalculatedBalance.String())
	}
}

func TestCheckBalance_IgnoresPendingAndScheduled(t *testing.T) {
	balanceService, vendorRepo, _ := setupBalanceService()

	payments := []domain.VendorPayment{
		paidPayment(decimal.NewFromInt(1000)),
		{Amount: decimal.NewFromInt(500), Status: domain.PaymentStatusPending},
		{Amount: decimal.NewFromInt(700), Status: domain.PaymentStatusScheduled},
	}
	vendor := addVendor(vendorRepo, 1,
		decimal.NewFromInt(5000),
		decimal.Zero,
		decimal.NewFromInt(4000),
		payments,
	)

	check, err := balanceService.CheckBalance(1, vendor.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !check.PaidPaymentsTotal.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected paid total 1000, got %s", check.PaidPaymentsTotal.String())
	}
	if !check.CalculatedBalance.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("Expected calculated balance 4000, got %s", check.CalculatedBalance.String())
	}
	if check.PaymentsCount != 3 {
		t.Errorf("Expected 3 payments counted, got %d", check.PaymentsCount)
	}
}

func TestCheckBalance_NegativeBalanceNotClamped(t *testing.T) {
	balanceService, vendorRepo, _ := setupBalanceService()

	// Overpaid: 1000 - 0 - 1500 = -500
	vendor := addVendor(vendorRepo, 1,
		decimal.NewFromInt(1000),
		decimal.Zero,
		decimal.NewFromInt(1000),
		[]domain.VendorPayment{paidPayment(decimal.NewFromInt(1500))},
	)

	check, err := balanceService.CheckBalance(1, vendor.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !check.CalculatedBalance.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("Expected calculated balance -500, got %s", check.CalculatedBalance.String())
	}
}

func TestCheckBalance_VendorNotFound(t *testing.T) {
	balanceService, _, _ := setupBalanceService()

	_, err := balanceService.CheckBalance(1, 999)
	if !errors.Is(err, domain.ErrVendorNotFound) {
		t.Errorf("Expected ErrVendorNotFound, got %v", err)
	}
}

func TestCheckBalance_WrongWorkspace(t *testing.T) {
	balanceService, vendorRepo, _ := setupBalanceService()

	vendor := addVendor(vendorRepo, 1,
		decimal.NewFromInt(1000), decimal.Zero, decimal.NewFromInt(1000), nil)

	_, err := balanceService.CheckBalance(2, vendor.ID)
	if !errors.Is(err, domain.ErrVendorNotFound) {
		t.Errorf("Expected ErrVendorNotFound for another workspace, got %v", err)
	}
}

func TestFixVendorBalance_Drifted(t *testing.T) {
	balanceService, vendorRepo, _ := setupBalanceService()

	vendor := addVendor(vendorRepo, 1,
		decimal.NewFromInt(10000),
		decimal.NewFromInt(2000),
		decimal.NewFromInt(8000),
		[]domain.VendorPayment{paidPayment(decimal.NewFromInt(3000))},
	)

	result, err := balanceService.FixVendorBalance(1, vendor.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Fixed {
		t.Error("Expected Fixed true when the stored balance drifted")
	}
	if !result.OldBalance.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("Expected old balance 8000, got %s", result.OldBalance.String())
	}
	if !result.NewBalance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected new balance 5000, got %s", result.NewBalance.String())
	}
	if !vendorRepo.Vendors[vendor.ID].Balance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected stored balance written as 5000, got %s", vendorRepo.Vendors[vendor.ID].Balance.String())
	}
}

func TestFixVendorBalance_SecondCallIsNoOp(t *testing.T) {
	balanceService, vendorRepo, _ := setupBalanceService()

	vendor := addVendor(vendorRepo, 1,
		decimal.NewFromInt(10000),
		decimal.NewFromInt(2000),
		decimal.NewFromInt(8000),
		[]domain.VendorPayment{paidPayment(decimal.NewFromInt(3000))},
	)

	first, err := balanceService.FixVendorBalance(1, vendor.ID)
	if err != nil {
		t.Fatalf("Expected no error on first fix, got %v", err)
	}
	if !first.Fixed {
		t.Error("Expected first fix to write")
	}

	second, err := balanceService.FixVendorBalance(1, vendor.ID)
	if err != nil {
		t.Fatalf("Expected no error on second fix, got %v", err)
	}
	if second.Fixed {
		t.Error("Expected second fix to be a no-op")
	}
	if !second.OldBalance.Equal(second.NewBalance) {
		t.Errorf("Expected old and new balance equal on no-op, got %s and %s",
			second.OldBalance.String(), second.NewBalance.String())
	}
}

func TestFixVendorBalance_NotFound(t *testing.T) {
	balanceService, _, _ := setupBalanceService()

	_, err := balanceService.FixVendorBalance(1, 42)
	if !errors.Is(err, domain.ErrVendorNotFound) {
		t.Errorf("Expected ErrVendorNotFound, got %v", err)
	}
}

func TestFixAllBalances_MixedBatch(t *testing.T) {
	balanceService, vendorRepo, _ := setupBalanceService()

	correct := addVendor(vendorRepo, 1,
		decimal.NewFromInt(5000), decimal.NewFromInt(1000), decimal.NewFromInt(4000), nil)
	drifted := addVendor(vendorRepo, 1,
		decimal.NewFromInt(5000), decimal.NewFromInt(1000), decimal.NewFromInt(5000), nil)

	results, err := balanceService.FixAllBalances(1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	byID := map[int32]*BalanceFixResult{}
	for _, r := range results {
		byID[r.VendorID] = r
	}
	if byID[correct.ID].Fixed {
		t.Error("Expected correct vendor untouched")
	}
	if !byID[drifted.ID].Fixed {
		t.Error("Expected drifted vendor fixed")
	}
	if !vendorRepo.Vendors[drifted.ID].Balance.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("Expected drifted vendor written as 4000, got %s", vendorRepo.Vendors[drifted.ID].Balance.String())
	}
}

func TestFixAllBalances_PartialFailureContinues(t *testing.T) {
	balanceService, vendorRepo, _ := setupBalanceService()

	failing := addVendor(vendorRepo, 1,
		decimal.NewFromInt(5000), decimal.Zero, decimal.NewFromInt(9999), nil)
	healthy := addVendor(vendorRepo, 1,
		decimal.NewFromInt(5000), decimal.Zero, decimal.NewFromInt(9999), nil)
	vendorRepo.UpdateBalanceErr[failing.ID] = errors.New("write failed")

	results, err := balanceService.FixAllBalances(1)
	if err != nil {
		t.Fatalf("Expected batch to continue past a failed write, got %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	byID := map[int32]*BalanceFixResult{}
	for _, r := range results {
		byID[r.VendorID] = r
	}
	if byID[failing.ID].Fixed {
		t.Error("Expected failing vendor reported unfixed")
	}
	if byID[failing.ID].Error == "" {
		t.Error("Expected failing vendor to carry the write error")
	}
	if !byID[healthy.ID].Fixed {
		t.Error("Expected healthy vendor fixed despite the earlier failure")
	}
}

func TestFixAllBalances_EmptyWorkspace(t *testing.T) {
	balanceService, _, _ := setupBalanceService()

	results, err := balanceService.FixAllBalances(1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty result set, got %d entries", len(results))
	}
}

func TestInspectVendor_Formula(t *testing.T) {
	balanceService, vendorRepo, _ := setupBalanceService()

	vendor := addVendor(vendorRepo, 1,
		decimal.NewFromInt(10000),
		decimal.NewFromInt(2000),
		decimal.NewFromInt(5000),
		[]domain.VendorPayment{paidPayment(decimal.NewFromInt(3000))},
	)

	diag, err := balanceService.InspectVendor(1, vendor.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !diag.IsCorrect {
		t.Error("Expected IsCorrect true")
	}
	expected := "10000.00 - 2000.00 - 3000.00 = 5000.00"
	if diag.Formula != expected {
		t.Errorf("Expected formula %q, got %q", expected, diag.Formula)
	}
}

func TestInspectWeddingVendors(t *testing.T) {
	balanceService, vendorRepo, weddingRepo := setupBalanceService()

	wedding, _ := weddingRepo.Create(&domain.Wedding{WorkspaceID: 1, ClientID: 1, Date: time.Now()})

	ok := addVendor(vendorRepo, 1,
		decimal.NewFromInt(3000), decimal.NewFromInt(500), decimal.NewFromInt(2500), nil)
	stale := addVendor(vendorRepo, 1,
		decimal.NewFromInt(3000), decimal.NewFromInt(500), decimal.NewFromInt(3000), nil)

	diags, err := balanceService.InspectWeddingVendors(1, wedding.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(diags) != 2 {
		t.Fatalf("Expected 2 diagnostics, got %d", len(diags))
	}

	byID := map[int32]*WeddingVendorDiagnostic{}
	for _, d := range diags {
		byID[d.VendorID] = d
	}
	if !byID[ok.ID].IsCorrect {
		t.Error("Expected in-sync vendor reported correct")
	}
	if byID[stale.ID].IsCorrect {
		t.Error("Expected stale vendor reported incorrect")
	}
}

func TestInspectWeddingVendors_WeddingNotFound(t *testing.T) {
	balanceService, _, _ := setupBalanceService()

	_, err := balanceService.InspectWeddingVendors(1, 7)
	if !errors.Is(err, domain.ErrWeddingNotFound) {
		t.Errorf("Expected ErrWeddingNotFound, got %v", err)
	}
}
