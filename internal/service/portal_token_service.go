package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// tokenPrefix is the prefix for all portal tokens
	tokenPrefix = "hitch_"
	// tokenRandomBytes is the number of random bytes for the token (32 bytes = 256 bits)
	tokenRandomBytes = 32
	// tokenPrefixLength is the length of the displayable prefix (e.g., "hitch_abc...xyz")
	tokenPrefixLength = 8
	// maxTokensPerWorkspace is the maximum number of active portal tokens per workspace
	maxTokensPerWorkspace = 25
)

// PortalTokenService handles couple-portal access token business logic
type PortalTokenService struct {
	repo       domain.PortalTokenRepository
	clientRepo domain.ClientRepository
}

// NewPortalTokenService creates a new PortalTokenService
func NewPortalTokenService(repo domain.PortalTokenRepository, clientRepo domain.ClientRepository) *PortalTokenService {
	return &PortalTokenService{repo: repo, clientRepo: clientRepo}
}

// Create creates a new portal token for a client and returns the full token
// (shown only once)
func (s *PortalTokenService) Create(ctx context.Context, workspaceID, clientID int32, description string) (*domain.CreatePortalTokenResponse, error) {
	// Client must exist and belong to the workspace
	if _, err := s.clientRepo.GetByID(workspaceID, clientID); err != nil {
		return nil, err
	}

	// Check token limit per workspace
	existingTokens, err := s.repo.GetByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if len(existingTokens) >= maxTokensPerWorkspace {
		return nil, domain.ErrTooManyPortalTokens
	}

	// Generate secure random token
	rawToken, err := generateSecureToken()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate secure token")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	fullToken := tokenPrefix + rawToken
	hash := hashToken(fullToken)
	displayPrefix := tokenPrefix + rawToken[:tokenPrefixLength] + "..."

	token := &domain.PortalToken{
		WorkspaceID: workspaceID,
		ClientID:    clientID,
		Description: description,
		TokenHash:   hash,
		TokenPrefix: displayPrefix,
	}

	if err := s.repo.Create(ctx, token); err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create portal token")
		return nil, err
	}

	log.Info().
		Str("token_id", token.ID.String()).
		Int32("workspace_id", workspaceID).
		Int32("client_id", clientID).
		Msg("Portal token created")

	return &domain.CreatePortalTokenResponse{
		ID:          token.ID,
		ClientID:    clientID,
		Description: description,
		TokenPrefix: displayPrefix,
		Token:       fullToken,
		CreatedAt:   token.CreatedAt,
		Warning:     "Make sure to copy the portal link now. The token won't be shown again!",
	}, nil
}

// GetByWorkspace retrieves all active portal tokens for a workspace
func (s *PortalTokenService) GetByWorkspace(ctx context.Context, workspaceID int32) ([]*domain.PortalTokenResponse, error) {
	tokens, err := s.repo.GetByWorkspace(ctx, workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get portal tokens")
		return nil, err
	}

	result := make([]*domain.PortalTokenResponse, len(tokens))
	for i, t := range tokens {
		result[i] = &domain.PortalTokenResponse{
			ID:          t.ID,
			ClientID:    t.ClientID,
			Description: t.Description,
			TokenPrefix: t.TokenPrefix,
			CreatedAt:   t.CreatedAt,
			LastUsedAt:  t.LastUsedAt,
		}
	}
	return result, nil
}

// Revoke revokes a portal token
func (s *PortalTokenService) Revoke(ctx context.Context, workspaceID int32, tokenID uuid.UUID) error {
	if err := s.repo.Revoke(ctx, workspaceID, tokenID); err != nil {
		log.Error().Err(err).
			Int32("workspace_id", workspaceID).
			Str("token_id", tokenID.String()).
			Msg("Failed to revoke portal token")
		return err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("token_id", tokenID.String()).
		Msg("Portal token revoked")

	return nil
}

// ValidateToken validates a portal token and returns the associated token data
func (s *PortalTokenService) ValidateToken(ctx context.Context, token string) (*domain.PortalToken, error) {
	if len(token) < len(tokenPrefix) || token[:len(tokenPrefix)] != tokenPrefix {
		return nil, domain.ErrPortalTokenNotFound
	}

	hash := hashToken(token)

	portalToken, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	// Update last used timestamp asynchronously
	go func() {
		if updateErr := s.repo.UpdateLastUsed(context.Background(), portalToken.ID); updateErr != nil {
			log.Error().Err(updateErr).Str("token_id", portalToken.ID.String()).Msg("Failed to update last_used_at")
		}
	}()

	return portalToken, nil
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken() (string, error) {
	bytes := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	// Use URL-safe base64 encoding without padding
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// hashToken creates a SHA-256 hash of the token
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", hash)
}
