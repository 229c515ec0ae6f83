package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo      domain.UserRepository
	workspaceRepo domain.WorkspaceRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, workspaceRepo domain.WorkspaceRepository) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
	}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User      *domain.User
	Workspace *domain.Workspace
	IsNewUser bool
}

// AuthenticateUser handles the authentication flow after Auth0 callback.
// Creates the planner's user and default workspace if they don't exist.
func (s *AuthService) AuthenticateUser(auth0ID, email string, name, pictureURL *string) (*AuthResult, error) {
	user, err := s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name, pictureURL)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get user")
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetByUserID(user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			workspace, err = s.createDefaultWorkspace(user.ID)
			if err != nil {
				log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to create default workspace")
				return nil, err
			}
			log.Info().Str("user_id", user.ID.String()).Msg("Created new planner with default workspace")
			return &AuthResult{
				User:      user,
				Workspace: workspace,
				IsNewUser: true,
			}, nil
		}
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to get workspace")
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("Existing planner authenticated")
	return &AuthResult{
		User:      user,
		Workspace: workspace,
		IsNewUser: false,
	}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByAuth0ID retrieves a user by their Auth0 ID
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// GetWorkspaceByAuth0ID retrieves a planner's workspace by their Auth0 ID
func (s *AuthService) GetWorkspaceByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByUserAuth0ID(auth0ID)
}

// GetWorkspaceByID retrieves a workspace by its ID
func (s *AuthService) GetWorkspaceByID(id int32) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByID(id)
}

func (s *AuthService) createDefaultWorkspace(userID uuid.UUID) (*domain.Workspace, error) {
	workspace := &domain.Workspace{
		UserID: userID,
		Name:   "My Studio",
	}
	return s.workspaceRepo.Create(workspace)
}
