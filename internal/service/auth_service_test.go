package service

import (
	"errors"
	"testing"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/testutil"
)

func setupAuthService() (*AuthService, *testutil.MockUserRepository, *testutil.MockWorkspaceRepository) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	authService := NewAuthService(userRepo, workspaceRepo)
	return authService, userRepo, workspaceRepo
}

func TestAuthenticateUser_NewPlanner(t *testing.T) {
	authService, _, _ := setupAuthService()

	name := "Jordan Planner"
	result, err := authService.AuthenticateUser("auth0|abc123", "jordan@example.com", &name, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.IsNewUser {
		t.Error("Expected IsNewUser true for first login")
	}
	if result.User.Email != "jordan@example.com" {
		t.Errorf("Expected email jordan@example.com, got %s", result.User.Email)
	}
	if result.Workspace == nil {
		t.Fatal("Expected a default workspace")
	}
	if result.Workspace.Name != "My Studio" {
		t.Errorf("Expected default workspace name 'My Studio', got %s", result.Workspace.Name)
	}
	if result.Workspace.UserID != result.User.ID {
		t.Error("Expected workspace owned by the new user")
	}
}

func TestAuthenticateUser_ExistingPlanner(t *testing.T) {
	authService, _, _ := setupAuthService()

	first, err := authService.AuthenticateUser("auth0|abc123", "jordan@example.com", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second, err := authService.AuthenticateUser("auth0|abc123", "jordan@example.com", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if second.IsNewUser {
		t.Error("Expected IsNewUser false for second login")
	}
	if second.User.ID != first.User.ID {
		t.Error("Expected the same user on second login")
	}
	if second.Workspace.ID != first.Workspace.ID {
		t.Error("Expected the same workspace on second login")
	}
}

func TestGetWorkspaceByAuth0ID_NotFound(t *testing.T) {
	authService, _, _ := setupAuthService()

	_, err := authService.GetWorkspaceByAuth0ID("auth0|unknown")
	if !errors.Is(err, domain.ErrWorkspaceNotFound) {
		t.Errorf("Expected ErrWorkspaceNotFound, got %v", err)
	}
}

func TestGetUserByAuth0ID_NotFound(t *testing.T) {
	authService, _, _ := setupAuthService()

	_, err := authService.GetUserByAuth0ID("auth0|unknown")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
