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

func setupVendorService() (*VendorService, *testutil.MockVendorRepository, *testutil.MockWeddingRepository) {
	vendorRepo := testutil.NewMockVendorRepository()
	weddingRepo := testutil.NewMockWeddingRepository()
	publisher := &websocket.NoOpPublisher{}
	balanceService := NewBalanceService(vendorRepo, weddingRepo, publisher)
	vendorService := NewVendorService(vendorRepo, weddingRepo, balanceService, publisher)
	return vendorService, vendorRepo, weddingRepo
}

func addTestWedding(weddingRepo *testutil.MockWeddingRepository, workspaceID int32) *domain.Wedding {
	wedding, _ := weddingRepo.Create(&domain.Wedding{
		WorkspaceID: workspaceID,
		ClientID:    1,
		Date:        time.Now().AddDate(0, 6, 0),
		GuestCount:  120,
	})
	return wedding
}

func TestCreateVendor_Success(t *testing.T) {
	vendorService, _, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 1)

	vendor, err := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID:     wedding.ID,
		Name:          "Bloom & Co",
		Category:      "flowers",
		TotalCost:     decimal.NewFromInt(3000),
		DepositAmount: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !vendor.Balance.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("Expected initial balance 2500, got %s", vendor.Balance.String())
	}
	if len(vendor.Payments) != 0 {
		t.Errorf("Expected no payments on a new vendor, got %d", len(vendor.Payments))
	}
}

func TestCreateVendor_EmptyName(t *testing.T) {
	vendorService, _, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 1)

	_, err := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID: wedding.ID,
		Name:      "",
		TotalCost: decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateVendor_NegativeCost(t *testing.T) {
	vendorService, _, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 1)

	_, err := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID: wedding.ID,
		Name:      "Bad Deal",
		TotalCost: decimal.NewFromInt(-100),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateVendor_WeddingNotFound(t *testing.T) {
	vendorService, _, _ := setupVendorService()

	_, err := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID: 42,
		Name:      "Orphan Vendor",
		TotalCost: decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrWeddingNotFound) {
		t.Errorf("Expected ErrWeddingNotFound, got %v", err)
	}
}

func TestCreateVendor_WeddingInOtherWorkspace(t *testing.T) {
	vendorService, _, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 2)

	_, err := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID: wedding.ID,
		Name:      "Cross Workspace",
		TotalCost: decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrWeddingNotFound) {
		t.Errorf("Expected ErrWeddingNotFound for another workspace's wedding, got %v", err)
	}
}

func TestRecordPayment_SyncsBalance(t *testing.T) {
	vendorService, vendorRepo, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 1)

	vendor, err := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID:     wedding.ID,
		Name:          "Grand Ballroom",
		Category:      "venue",
		TotalCost:     decimal.NewFromInt(10000),
		DepositAmount: decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	payment, err := vendorService.RecordPayment(1, vendor.ID, RecordPaymentInput{
		Amount: decimal.NewFromInt(3000),
		Status: domain.PaymentStatusPaid,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if payment.ID == 0 {
		t.Error("Expected payment to get an ID")
	}

	stored := vendorRepo.Vendors[vendor.ID]
	if !stored.Balance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected balance re-synced to 5000 after payment, got %s", stored.Balance.String())
	}
}

func TestRecordPayment_PendingDoesNotChangeBalance(t *testing.T) {
	vendorService, vendorRepo, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 1)

	vendor, _ := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID:     wedding.ID,
		Name:          "Grand Ballroom",
		TotalCost:     decimal.NewFromInt(10000),
		DepositAmount: decimal.NewFromInt(2000),
	})

	_, err := vendorService.RecordPayment(1, vendor.ID, RecordPaymentInput{
		Amount: decimal.NewFromInt(3000),
		Status: domain.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	stored := vendorRepo.Vendors[vendor.ID]
	if !stored.Balance.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("Expected balance unchanged at 8000 for pending payment, got %s", stored.Balance.String())
	}
}

func TestRecordPayment_OverpaymentGoesNegative(t *testing.T) {
	vendorService, vendorRepo, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 1)

	vendor, _ := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID: wedding.ID,
		Name:      "Small Band",
		TotalCost: decimal.NewFromInt(1000),
	})

	_, err := vendorService.RecordPayment(1, vendor.ID, RecordPaymentInput{
		Amount: decimal.NewFromInt(1500),
		Status: domain.PaymentStatusPaid,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	stored := vendorRepo.Vendors[vendor.ID]
	if !stored.Balance.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("Expected overpayment balance -500, got %s", stored.Balance.String())
	}
}

func TestRecordPayment_InvalidStatus(t *testing.T) {
	vendorService, _, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 1)

	vendor, _ := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID: wedding.ID,
		Name:      "Grand Ballroom",
		TotalCost: decimal.NewFromInt(1000),
	})

	_, err := vendorService.RecordPayment(1, vendor.ID, RecordPaymentInput{
		Amount: decimal.NewFromInt(100),
		Status: "refunded",
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestRecordPayment_NegativeAmount(t *testing.T) {
	vendorService, _, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 1)

	vendor, _ := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID: wedding.ID,
		Name:      "Grand Ballroom",
		TotalCost: decimal.NewFromInt(1000),
	})

	_, err := vendorService.RecordPayment(1, vendor.ID, RecordPaymentInput{
		Amount: decimal.NewFromInt(-100),
		Status: domain.PaymentStatusPaid,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestRecordPayment_VendorNotFound(t *testing.T) {
	vendorService, _, _ := setupVendorService()

	_, err := vendorService.RecordPayment(1, 7, RecordPaymentInput{
		Amount: decimal.NewFromInt(100),
		Status: domain.PaymentStatusPaid,
	})
	if !errors.Is(err, domain.ErrVendorNotFound) {
		t.Errorf("Expected ErrVendorNotFound, got %v", err)
	}
}

func TestUpdateVendor_ResyncsBalance(t *testing.T) {
	vendorService, vendorRepo, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 1)

	vendor, _ := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID:     wedding.ID,
		Name:          "Grand Ballroom",
		TotalCost:     decimal.NewFromInt(10000),
		DepositAmount: decimal.NewFromInt(2000),
	})
	if _, err := vendorService.RecordPayment(1, vendor.ID, RecordPaymentInput{
		Amount: decimal.NewFromInt(1000),
		Status: domain.PaymentStatusPaid,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// contract renegotiated, total cost drops
	updated, err := vendorService.UpdateVendor(1, vendor.ID, CreateVendorInput{
		WeddingID:     wedding.ID,
		Name:          "Grand Ballroom",
		Category:      "venue",
		TotalCost:     decimal.NewFromInt(8000),
		DepositAmount: decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 8000 - 2000 - 1000 = 5000
	if !updated.Balance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected re-synced balance 5000, got %s", updated.Balance.String())
	}
	if !vendorRepo.Vendors[vendor.ID].Balance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected stored balance 5000, got %s", vendorRepo.Vendors[vendor.ID].Balance.String())
	}
}

func TestDeleteVendor_Success(t *testing.T) {
	vendorService, vendorRepo, weddingRepo := setupVendorService()
	wedding := addTestWedding(weddingRepo, 1)

	vendor, _ := vendorService.CreateVendor(1, CreateVendorInput{
		WeddingID: wedding.ID,
		Name:      "Grand Ballroom",
		TotalCost: decimal.NewFromInt(1000),
	})

	if err := vendorService.DeleteVendor(1, vendor.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := vendorRepo.Vendors[vendor.ID]; ok {
		t.Error("Expected vendor removed from repository")
	}
}

func TestDeleteVendor_NotFound(t *testing.T) {
	vendorService, _, _ := setupVendorService()

	err := vendorService.DeleteVendor(1, 7)
	if !errors.Is(err, domain.ErrVendorNotFound) {
		t.Errorf("Expected ErrVendorNotFound, got %v", err)
	}
}

func TestGetVendorsByWedding_WeddingNotFound(t *testing.T) {
	vendorService, _, _ := setupVendorService()

	_, err := vendorService.GetVendorsByWedding(1, 7)
	if !errors.Is(err, domain.ErrWeddingNotFound) {
		t.Errorf("Expected ErrWeddingNotFound, got %v", err)
	}
}
