package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PortalToken grants a couple read-only access to their own budget and vendor
// balances through the client portal. Only the SHA-256 hash is stored; the
// full token is shown once at creation.
type PortalToken struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID int32      `json:"workspaceId"`
	ClientID    int32      `json:"clientId"`
	Description string     `json:"description"`
	TokenHash   string     `json:"-"`
	TokenPrefix string     `json:"tokenPrefix"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastUsedAt  *time.Time `json:"lastUsedAt,omitempty"`
	RevokedAt   *time.Time `json:"-"`
}

// PortalTokenResponse is the list/read DTO (no secrets)
type PortalTokenResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClientID    int32      `json:"clientId"`
	Description string     `json:"description"`
	TokenPrefix string     `json:"tokenPrefix"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastUsedAt  *time.Time `json:"lastUsedAt,omitempty"`
}

// CreatePortalTokenResponse carries the full token exactly once
type CreatePortalTokenResponse struct {
	ID          uuid.UUID `json:"id"`
	ClientID    int32     `json:"clientId"`
	Description string    `json:"description"`
	TokenPrefix string    `json:"tokenPrefix"`
	Token       string    `json:"token"`
	CreatedAt   time.Time `json:"createdAt"`
	Warning     string    `json:"warning"`
}

// PortalTokenRepository defines persistence for portal tokens
type PortalTokenRepository interface {
	Create(ctx context.Context, token *PortalToken) error
	GetByHash(ctx context.Context, hash string) (*PortalToken, error)
	GetByWorkspace(ctx context.Context, workspaceID int32) ([]*PortalToken, error)
	Revoke(ctx context.Context, workspaceID int32, tokenID uuid.UUID) error
	UpdateLastUsed(ctx context.Context, tokenID uuid.UUID) error
}
