package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PortalTokenRepository implements domain.PortalTokenRepository using
// PostgreSQL
type PortalTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPortalTokenRepository creates a new PortalTokenRepository
func NewPortalTokenRepository(pool *pgxpool.Pool) *PortalTokenRepository {
	return &PortalTokenRepository{pool: pool}
}

const portalTokenColumns = `id, workspace_id, client_id, description, token_hash, token_prefix, created_at, last_used_at, revoked_at`

func scanPortalToken(row pgx.Row) (*domain.PortalToken, error) {
	var t domain.PortalToken
	err := row.Scan(&t.ID, &t.WorkspaceID, &t.ClientID, &t.Description,
		&t.TokenHash, &t.TokenPrefix, &t.CreatedAt, &t.LastUsedAt, &t.RevokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPortalTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create creates a new portal token and fills in the generated ID and
// timestamp
func (r *PortalTokenRepository) Create(ctx context.Context, token *domain.PortalToken) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO portal_tokens (workspace_id, client_id, description, token_hash, token_prefix)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		token.WorkspaceID, token.ClientID, token.Description, token.TokenHash, token.TokenPrefix).
		Scan(&token.ID, &token.CreatedAt)
}

// GetByHash retrieves an active (non-revoked) portal token by its hash
func (r *PortalTokenRepository) GetByHash(ctx context.Context, hash string) (*domain.PortalToken, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+portalTokenColumns+` FROM portal_tokens
		 WHERE token_hash = $1 AND revoked_at IS NULL`, hash)
	return scanPortalToken(row)
}

// GetByWorkspace retrieves all active portal tokens for a workspace
func (r *PortalTokenRepository) GetByWorkspace(ctx context.Context, workspaceID int32) ([]*domain.PortalToken, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+portalTokenColumns+` FROM portal_tokens
		 WHERE workspace_id = $1 AND revoked_at IS NULL
		 ORDER BY created_at DESC`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []*domain.PortalToken{}
	for rows.Next() {
		t, err := scanPortalToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// Revoke marks a portal token as revoked
func (r *PortalTokenRepository) Revoke(ctx context.Context, workspaceID int32, tokenID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE portal_tokens SET revoked_at = now()
		 WHERE workspace_id = $1 AND id = $2 AND revoked_at IS NULL`,
		workspaceID, tokenID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPortalTokenNotFound
	}
	return nil
}

// UpdateLastUsed updates the last_used_at timestamp for a token
func (r *PortalTokenRepository) UpdateLastUsed(ctx context.Context, tokenID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE portal_tokens SET last_used_at = now() WHERE id = $1`, tokenID)
	return err
}
