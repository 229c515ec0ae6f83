package postgres

import (
	"context"
	"errors"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientRepository implements domain.ClientRepository using PostgreSQL
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const clientColumns = `id, workspace_id, couple_names, email, phone, wedding_date, created_at, updated_at`

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.CoupleNames, &c.Email, &c.Phone, &c.WeddingDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create creates a new client
func (r *ClientRepository) Create(client *domain.Client) (*domain.Client, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO clients (workspace_id, couple_names, email, phone, wedding_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+clientColumns,
		client.WorkspaceID, client.CoupleNames, client.Email, client.Phone, client.WeddingDate)
	return scanClient(row)
}

// GetByID retrieves a client by ID within a workspace
func (r *ClientRepository) GetByID(workspaceID int32, id int32) (*domain.Client, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	return scanClient(row)
}

// GetAllByWorkspace retrieves all clients for a workspace
func (r *ClientRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Client, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE workspace_id = $1 ORDER BY id`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Update updates a client's contact details
func (r *ClientRepository) Update(client *domain.Client) (*domain.Client, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE clients
		 SET couple_names = $3, email = $4, phone = $5, wedding_date = $6, updated_at = now()
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+clientColumns,
		client.WorkspaceID, client.ID, client.CoupleNames, client.Email, client.Phone, client.WeddingDate)
	return scanClient(row)
}

// Delete removes a client and everything hanging off it (cascade)
func (r *ClientRepository) Delete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM clients WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
