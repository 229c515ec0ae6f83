package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetLineItemRepository implements domain.BudgetLineItemRepository using
// PostgreSQL
type BudgetLineItemRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetLineItemRepository creates a new BudgetLineItemRepository
func NewBudgetLineItemRepository(pool *pgxpool.Pool) *BudgetLineItemRepository {
	return &BudgetLineItemRepository{pool: pool}
}

const lineItemColumns = `id, workspace_id, client_id, category, budget, estimated_cost, actual_cost, paid_amount, pending_amount, created_at, updated_at`

func scanLineItem(row pgx.Row) (*domain.BudgetLineItem, error) {
	var item domain.BudgetLineItem
	var budget, estimated, actual, paid, pending pgtype.Numeric
	err := row.Scan(&item.ID, &item.WorkspaceID, &item.ClientID, &item.Category,
		&budget, &estimated, &actual, &paid, &pending, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLineItemNotFound
		}
		return nil, err
	}
	item.Budget = pgNumericToDecimal(budget)
	item.EstimatedCost = pgNumericToDecimal(estimated)
	item.ActualCost = pgNumericToDecimal(actual)
	item.PaidAmount = pgNumericToDecimal(paid)
	item.PendingAmount = pgNumericToDecimal(pending)
	return &item, nil
}

func lineItemAmounts(item *domain.BudgetLineItem) (budget, estimated, actual, paid, pending pgtype.Numeric, err error) {
	if budget, err = decimalToPgNumeric(item.Budget); err != nil {
		err = fmt.Errorf("invalid budget: %w", err)
		return
	}
	if estimated, err = decimalToPgNumeric(item.EstimatedCost); err != nil {
		err = fmt.Errorf("invalid estimated cost: %w", err)
		return
	}
	if actual, err = decimalToPgNumeric(item.ActualCost); err != nil {
		err = fmt.Errorf("invalid actual cost: %w", err)
		return
	}
	if paid, err = decimalToPgNumeric(item.PaidAmount); err != nil {
		err = fmt.Errorf("invalid paid amount: %w", err)
		return
	}
	if pending, err = decimalToPgNumeric(item.PendingAmount); err != nil {
		err = fmt.Errorf("invalid pending amount: %w", err)
		return
	}
	return
}

// Create creates a new budget line item
func (r *BudgetLineItemRepository) Create(item *domain.BudgetLineItem) (*domain.BudgetLineItem, error) {
	ctx := context.Background()
	budget, estimated, actual, paid, pending, err := lineItemAmounts(item)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO budget_line_items (workspace_id, client_id, category, budget, estimated_cost, actual_cost, paid_amount, pending_amount)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+lineItemColumns,
		item.WorkspaceID, item.ClientID, item.Category, budget, estimated, actual, paid, pending)
	return scanLineItem(row)
}

// GetByID retrieves a line item by ID within a workspace
func (r *BudgetLineItemRepository) GetByID(workspaceID int32, id int32) (*domain.BudgetLineItem, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+lineItemColumns+` FROM budget_line_items WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	return scanLineItem(row)
}

// GetAllByClient retrieves a client's line items in insertion order. The
// serial primary key carries the ordering the summary breakdown depends on.
func (r *BudgetLineItemRepository) GetAllByClient(workspaceID int32, clientID int32) ([]*domain.BudgetLineItem, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+lineItemColumns+` FROM budget_line_items
		 WHERE workspace_id = $1 AND client_id = $2 ORDER BY id`,
		workspaceID, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.BudgetLineItem{}
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update updates a line item's amounts and category
func (r *BudgetLineItemRepository) Update(item *domain.BudgetLineItem) (*domain.BudgetLineItem, error) {
	ctx := context.Background()
	budget, estimated, actual, paid, pending, err := lineItemAmounts(item)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE budget_line_items
		 SET category = $3, budget = $4, estimated_cost = $5, actual_cost = $6, paid_amount = $7, pending_amount = $8, updated_at = now()
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+lineItemColumns,
		item.WorkspaceID, item.ID, item.Category, budget, estimated, actual, paid, pending)
	return scanLineItem(row)
}

// Delete removes a line item
func (r *BudgetLineItemRepository) Delete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM budget_line_items WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLineItemNotFound
	}
	return nil
}
