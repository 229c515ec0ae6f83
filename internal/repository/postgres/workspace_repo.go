package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

const workspaceColumns = `id, user_id, name, created_at, updated_at`

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var w domain.Workspace
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &w, nil
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	return scanWorkspace(row)
}

// GetByUserID retrieves the workspace owned by a user
func (r *WorkspaceRepository) GetByUserID(userID uuid.UUID) (*domain.Workspace, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE user_id = $1`, userID)
	return scanWorkspace(row)
}

// GetByUserAuth0ID retrieves the workspace owned by the user with the given
// Auth0 subject
func (r *WorkspaceRepository) GetByUserAuth0ID(auth0ID string) (*domain.Workspace, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT w.id, w.user_id, w.name, w.created_at, w.updated_at
		 FROM workspaces w
		 JOIN users u ON u.id = w.user_id
		 WHERE u.auth0_id = $1`, auth0ID)
	return scanWorkspace(row)
}

// Create creates a new workspace
func (r *WorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO workspaces (user_id, name)
		 VALUES ($1, $2)
		 RETURNING `+workspaceColumns,
		workspace.UserID, workspace.Name)
	return scanWorkspace(row)
}

// Update updates a workspace's name
func (r *WorkspaceRepository) Update(workspace *domain.Workspace) (*domain.Workspace, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE workspaces
		 SET name = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+workspaceColumns,
		workspace.ID, workspace.Name)
	return scanWorkspace(row)
}
