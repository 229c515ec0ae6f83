package postgres

import (
	"context"
	"errors"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WeddingRepository implements domain.WeddingRepository using PostgreSQL
type WeddingRepository struct {
	pool *pgxpool.Pool
}

// NewWeddingRepository creates a new WeddingRepository
func NewWeddingRepository(pool *pgxpool.Pool) *WeddingRepository {
	return &WeddingRepository{pool: pool}
}

const weddingColumns = `id, workspace_id, client_id, venue, date, guest_count, created_at, updated_at`

func scanWedding(row pgx.Row) (*domain.Wedding, error) {
	var w domain.Wedding
	err := row.Scan(&w.ID, &w.WorkspaceID, &w.ClientID, &w.Venue, &w.Date, &w.GuestCount, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWeddingNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Create creates a new wedding
func (r *WeddingRepository) Create(wedding *domain.Wedding) (*domain.Wedding, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO weddings (workspace_id, client_id, venue, date, guest_count)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+weddingColumns,
		wedding.WorkspaceID, wedding.ClientID, wedding.Venue, wedding.Date, wedding.GuestCount)
	return scanWedding(row)
}

// GetByID retrieves a wedding by ID within a workspace
func (r *WeddingRepository) GetByID(workspaceID int32, id int32) (*domain.Wedding, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+weddingColumns+` FROM weddings WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	return scanWedding(row)
}

// GetAllByWorkspace retrieves all weddings for a workspace
func (r *WeddingRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Wedding, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+weddingColumns+` FROM weddings WHERE workspace_id = $1 ORDER BY date, id`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWeddings(rows)
}

// GetAllByClient retrieves a client's weddings
func (r *WeddingRepository) GetAllByClient(workspaceID int32, clientID int32) ([]*domain.Wedding, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+weddingColumns+` FROM weddings
		 WHERE workspace_id = $1 AND client_id = $2 ORDER BY date, id`,
		workspaceID, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWeddings(rows)
}

func collectWeddings(rows pgx.Rows) ([]*domain.Wedding, error) {
	weddings := []*domain.Wedding{}
	for rows.Next() {
		w, err := scanWedding(rows)
		if err != nil {
			return nil, err
		}
		weddings = append(weddings, w)
	}
	return weddings, rows.Err()
}

// Update updates a wedding's details
func (r *WeddingRepository) Update(wedding *domain.Wedding) (*domain.Wedding, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE weddings
		 SET venue = $3, date = $4, guest_count = $5, updated_at = now()
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+weddingColumns,
		wedding.WorkspaceID, wedding.ID, wedding.Venue, wedding.Date, wedding.GuestCount)
	return scanWedding(row)
}

// Delete removes a wedding
func (r *WeddingRepository) Delete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM weddings WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWeddingNotFound
	}
	return nil
}
