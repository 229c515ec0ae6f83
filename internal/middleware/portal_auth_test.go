package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

// MockPortalTokenValidator implements PortalTokenValidator for testing
type MockPortalTokenValidator struct {
	token *domain.PortalToken
	err   error
}

func (m *MockPortalTokenValidator) ValidateToken(ctx context.Context, token string) (*domain.PortalToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.token, nil
}

func TestPortalAuth_Success(t *testing.T) {
	e := echo.New()
	tokenID := uuid.New()
	workspaceID := int32(1)
	clientID := int32(42)

	validator := &MockPortalTokenValidator{
		token: &domain.PortalToken{
			ID:          tokenID,
			WorkspaceID: workspaceID,
			ClientID:    clientID,
		},
	}

	middleware := NewPortalAuthMiddleware(validator)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/v1/overview", nil)
	req.Header.Set("Authorization", "Bearer hitch_testtoken123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerCalled := false
	handler := func(c echo.Context) error {
		handlerCalled = true
		if GetWorkspaceID(c) != workspaceID {
			t.Errorf("Expected workspace ID %d, got %d", workspaceID, GetWorkspaceID(c))
		}
		if GetPortalClientID(c) != clientID {
			t.Errorf("Expected client ID %d, got %d", clientID, GetPortalClientID(c))
		}
		if GetPortalTokenID(c) != tokenID {
			t.Errorf("Expected token ID %s, got %s", tokenID, GetPortalTokenID(c))
		}
		if !IsPortalAuth(c) {
			t.Error("Expected IsPortalAuth to be true")
		}
		return c.String(http.StatusOK, "OK")
	}

	err := middleware.Authenticate()(handler)(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !handlerCalled {
		t.Error("Handler was not called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestPortalAuth_MissingHeader(t *testing.T) {
	e := echo.New()

	validator := &MockPortalTokenValidator{}
	middleware := NewPortalAuthMiddleware(validator)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/v1/overview", nil)
	// No Authorization header
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		t.Error("Handler should not be called")
		return nil
	}

	err := middleware.Authenticate()(handler)(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestPortalAuth_InvalidFormat(t *testing.T) {
	e := echo.New()

	validator := &MockPortalTokenValidator{}
	middleware := NewPortalAuthMiddleware(validator)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/v1/overview", nil)
	req.Header.Set("Authorization", "Invalid format")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		t.Error("Handler should not be called")
		return nil
	}

	err := middleware.Authenticate()(handler)(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestPortalAuth_NotPortalToken(t *testing.T) {
	e := echo.New()

	validator := &MockPortalTokenValidator{}
	middleware := NewPortalAuthMiddleware(validator)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/v1/overview", nil)
	req.Header.Set("Authorization", "Bearer jwt_token_here")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		t.Error("Handler should not be called")
		return nil
	}

	err := middleware.Authenticate()(handler)(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestPortalAuth_RevokedToken(t *testing.T) {
	e := echo.New()

	validator := &MockPortalTokenValidator{
		err: domain.ErrPortalTokenNotFound,
	}
	middleware := NewPortalAuthMiddleware(validator)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/v1/overview", nil)
	req.Header.Set("Authorization", "Bearer hitch_revokedtoken")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		t.Error("Handler should not be called")
		return nil
	}

	err := middleware.Authenticate()(handler)(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
