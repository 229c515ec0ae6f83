package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/service"
	"github.com/hitchly/hitchly-backend/internal/testutil"
	"github.com/hitchly/hitchly-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type vendorHandlerFixture struct {
	handler     *VendorHandler
	vendorRepo  *testutil.MockVendorRepository
	weddingRepo *testutil.MockWeddingRepository
	wedding     *domain.Wedding
}

func setupVendorHandler(t *testing.T) *vendorHandlerFixture {
	t.Helper()
	vendorRepo := testutil.NewMockVendorRepository()
	weddingRepo := testutil.NewMockWeddingRepository()
	publisher := &websocket.NoOpPublisher{}
	balanceService := service.NewBalanceService(vendorRepo, weddingRepo, publisher)
	vendorService := service.NewVendorService(vendorRepo, weddingRepo, balanceService, publisher)

	wedding, _ := weddingRepo.Create(&domain.Wedding{
		WorkspaceID: 1,
		ClientID:    1,
		Date:        time.Now().AddDate(0, 6, 0),
		GuestCount:  120,
	})

	return &vendorHandlerFixture{
		handler:     NewVendorHandler(vendorService, balanceService, nil),
		vendorRepo:  vendorRepo,
		weddingRepo: weddingRepo,
		wedding:     wedding,
	}
}

func vendorRequest(t *testing.T, e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|planner", "planner@example.com", "", "", 1)
	return c, rec
}

func (f *vendorHandlerFixture) addDriftedVendor(storedBalance int64) *domain.Vendor {
	vendor, _ := f.vendorRepo.Create(&domain.Vendor{
		WorkspaceID:   1,
		WeddingID:     f.wedding.ID,
		Name:          "Grand Ballroom",
		Category:      "venue",
		TotalCost:     decimal.NewFromInt(10000),
		DepositAmount: decimal.NewFromInt(2000),
		Balance:       decimal.NewFromInt(storedBalance),
	})
	return vendor
}

func TestCreateVendor_HandlerSuccess(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)

	body := `{"weddingId": ` + strconv.Itoa(int(f.wedding.ID)) + `, "name": "Bloom & Co", "category": "flowers", "totalCost": "3000", "depositAmount": "500"}`
	c, rec := vendorRequest(t, e, http.MethodPost, "/api/v1/vendors", body)

	if err := f.handler.CreateVendor(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var vendor domain.Vendor
	if err := json.Unmarshal(rec.Body.Bytes(), &vendor); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if vendor.Name != "Bloom & Co" {
		t.Errorf("Expected name Bloom & Co, got %s", vendor.Name)
	}
	// Initial balance is totalCost - deposit
	if vendor.Balance.String() != "2500" {
		t.Errorf("Expected balance 2500, got %s", vendor.Balance.String())
	}
}

func TestCreateVendor_InvalidTotalCost(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)

	body := `{"weddingId": 1, "name": "Bloom & Co", "totalCost": "lots"}`
	c, rec := vendorRequest(t, e, http.MethodPost, "/api/v1/vendors", body)

	if err := f.handler.CreateVendor(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateVendor_WeddingNotFound(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)

	body := `{"weddingId": 99, "name": "Bloom & Co", "totalCost": "3000"}`
	c, rec := vendorRequest(t, e, http.MethodPost, "/api/v1/vendors", body)

	if err := f.handler.CreateVendor(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetVendors_FilterByWedding(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	f.addDriftedVendor(8000)

	c, rec := vendorRequest(t, e, http.MethodGet, "/api/v1/vendors?weddingId="+strconv.Itoa(int(f.wedding.ID)), "")

	if err := f.handler.GetVendors(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var vendors []domain.Vendor
	if err := json.Unmarshal(rec.Body.Bytes(), &vendors); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(vendors) != 1 {
		t.Errorf("Expected 1 vendor, got %d", len(vendors))
	}
}

func TestRecordPayment_HandlerSuccess(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	vendor := f.addDriftedVendor(8000)

	body := `{"amount": "3000", "status": "paid"}`
	c, rec := vendorRequest(t, e, http.MethodPost, "/api/v1/vendors/1/payments", body)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(vendor.ID)))

	if err := f.handler.RecordPayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Paid payment re-syncs the stored balance: 10000 - 2000 - 3000 = 5000
	updated, _ := f.vendorRepo.GetByID(1, vendor.ID)
	if updated.Balance.String() != "5000" {
		t.Errorf("Expected balance 5000 after payment, got %s", updated.Balance.String())
	}
}

func TestRecordPayment_InvalidStatus(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	vendor := f.addDriftedVendor(8000)

	body := `{"amount": "3000", "status": "refunded"}`
	c, rec := vendorRequest(t, e, http.MethodPost, "/api/v1/vendors/1/payments", body)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(vendor.ID)))

	if err := f.handler.RecordPayment(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRecordPayment_InvalidPaidAt(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	vendor := f.addDriftedVendor(8000)

	body := `{"amount": "3000", "status": "paid", "paidAt": "yesterday"}`
	c, rec := vendorRequest(t, e, http.MethodPost, "/api/v1/vendors/1/payments", body)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(vendor.ID)))

	if err := f.handler.RecordPayment(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetBalance_ReportsDrift(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	vendor := f.addDriftedVendor(9999)

	c, rec := vendorRequest(t, e, http.MethodGet, "/api/v1/vendors/1/balance", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(vendor.ID)))

	if err := f.handler.GetBalance(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var check service.BalanceCheck
	if err := json.Unmarshal(rec.Body.Bytes(), &check); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !check.NeedsFix {
		t.Error("Expected NeedsFix true for drifted balance")
	}
	if check.CalculatedBalance.String() != "8000" {
		t.Errorf("Expected calculated balance 8000, got %s", check.CalculatedBalance.String())
	}
}

func TestFixBalance_HandlerSuccess(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	vendor := f.addDriftedVendor(9999)

	c, rec := vendorRequest(t, e, http.MethodPost, "/api/v1/vendors/1/balance/fix", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(vendor.ID)))

	if err := f.handler.FixBalance(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var result service.BalanceFixResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !result.Fixed {
		t.Error("Expected Fixed true")
	}
	if result.NewBalance.String() != "8000" {
		t.Errorf("Expected new balance 8000, got %s", result.NewBalance.String())
	}
}

func TestFixAllBalances_HandlerCounts(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	f.addDriftedVendor(9999)
	f.addDriftedVendor(8000) // already in sync

	c, rec := vendorRequest(t, e, http.MethodPost, "/api/v1/vendors/balances/fix", "")

	if err := f.handler.FixAllBalances(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response struct {
		Checked int                        `json:"checked"`
		Fixed   int                        `json:"fixed"`
		Failed  int                        `json:"failed"`
		Results []service.BalanceFixResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Checked != 2 {
		t.Errorf("Expected 2 checked, got %d", response.Checked)
	}
	if response.Fixed != 1 {
		t.Errorf("Expected 1 fixed, got %d", response.Fixed)
	}
	if response.Failed != 0 {
		t.Errorf("Expected 0 failed, got %d", response.Failed)
	}
}

func TestInspectBalance_Formula(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	vendor := f.addDriftedVendor(8000)

	c, rec := vendorRequest(t, e, http.MethodGet, "/api/v1/vendors/1/balance/inspect", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(vendor.ID)))

	if err := f.handler.InspectBalance(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var diagnostic service.BalanceDiagnostic
	if err := json.Unmarshal(rec.Body.Bytes(), &diagnostic); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !diagnostic.IsCorrect {
		t.Error("Expected IsCorrect true for in-sync balance")
	}
	if diagnostic.Formula == "" {
		t.Error("Expected formula string to be present")
	}
}

func TestInspectWeddingBalances_Handler(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	f.addDriftedVendor(8000)
	f.addDriftedVendor(9999)

	c, rec := vendorRequest(t, e, http.MethodGet, "/api/v1/weddings/1/vendor-balances", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(f.wedding.ID)))

	if err := f.handler.InspectWeddingBalances(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var diagnostics []service.WeddingVendorDiagnostic
	if err := json.Unmarshal(rec.Body.Bytes(), &diagnostics); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(diagnostics) != 2 {
		t.Errorf("Expected 2 diagnostics, got %d", len(diagnostics))
	}
}

func TestDeleteVendor_HandlerSuccess(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	vendor := f.addDriftedVendor(8000)

	c, rec := vendorRequest(t, e, http.MethodDelete, "/api/v1/vendors/1", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(vendor.ID)))

	if err := f.handler.DeleteVendor(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestUploadImage_StorageNotConfigured(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)
	vendor := f.addDriftedVendor(8000)

	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var imgBuf bytes.Buffer
	if err := jpeg.Encode(&imgBuf, img, nil); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "venue.jpg")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(imgBuf.Bytes()); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors/1/images", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|planner", "planner@example.com", "", "", 1)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(vendor.ID)))

	// Handler was built with a nil document service
	if err := f.handler.UploadImage(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestVendorEndpoints_MissingWorkspace(t *testing.T) {
	e := echo.New()
	f := setupVendorHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.GetVendors(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
