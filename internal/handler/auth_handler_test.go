package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/hitchly/hitchly-backend/internal/middleware"
	"github.com/hitchly/hitchly-backend/internal/service"
	"github.com/hitchly/hitchly-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

// Helper to set up auth context without workspace ID
func setupAuthContext(c echo.Context, auth0ID string, email, name, picture string) {
	setupAuthContextWithWorkspace(c, auth0ID, email, name, picture, 0)
}

// Helper to set up auth context with workspace ID
func setupAuthContextWithWorkspace(c echo.Context, auth0ID string, email, name, picture string, workspaceID int32) {
	customClaims := &middleware.CustomClaims{
		Email:   email,
		Name:    name,
		Picture: picture,
	}
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: auth0ID,
		},
		CustomClaims: customClaims,
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	if workspaceID > 0 {
		ctx = context.WithValue(ctx, middleware.WorkspaceIDKey, workspaceID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestCallback_NewPlanner(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	authService := service.NewAuthService(userRepo, workspaceRepo)
	handler := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|newplanner", "new@example.com", "New Planner", "")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AuthCallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if !response.IsNewUser {
		t.Error("Expected IsNewUser true for first login")
	}
	if response.User.Email != "new@example.com" {
		t.Errorf("Expected email new@example.com, got %s", response.User.Email)
	}
	if response.Workspace.Name != "My Studio" {
		t.Errorf("Expected default workspace name 'My Studio', got %s", response.Workspace.Name)
	}
}

func TestCallback_ExistingPlanner(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	authService := service.NewAuthService(userRepo, workspaceRepo)
	handler := NewAuthHandler(authService)

	// First login creates the user and workspace
	if _, err := authService.AuthenticateUser("auth0|existing", "ex@example.com", nil, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|existing", "ex@example.com", "", "")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response AuthCallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.IsNewUser {
		t.Error("Expected IsNewUser false for returning planner")
	}
}

func TestCallback_MissingAuth(t *testing.T) {
	e := echo.New()
	authService := service.NewAuthService(testutil.NewMockUserRepository(), testutil.NewMockWorkspaceRepository())
	handler := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// No auth context set
	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestCallback_MissingEmail(t *testing.T) {
	e := echo.New()
	authService := service.NewAuthService(testutil.NewMockUserRepository(), testutil.NewMockWorkspaceRepository())
	handler := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|noemail", "", "", "")

	err := handler.Callback(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestMe_Success(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	authService := service.NewAuthService(userRepo, workspaceRepo)
	handler := NewAuthHandler(authService)

	result, err := authService.AuthenticateUser("auth0|me", "me@example.com", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithWorkspace(c, "auth0|me", "me@example.com", "", "", result.Workspace.ID)

	if err := handler.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AuthCallbackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.User.Email != "me@example.com" {
		t.Errorf("Expected email me@example.com, got %s", response.User.Email)
	}
}

func TestLogout_Success(t *testing.T) {
	e := echo.New()
	authService := service.NewAuthService(testutil.NewMockUserRepository(), testutil.NewMockWorkspaceRepository())
	handler := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|bye", "bye@example.com", "", "")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}
