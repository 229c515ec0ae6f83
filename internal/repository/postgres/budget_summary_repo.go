package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetSummaryRepository implements domain.BudgetSummaryRepository using
// PostgreSQL. The category breakdown and the two category lists are stored as
// jsonb; the summary row is always written whole.
type BudgetSummaryRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetSummaryRepository creates a new BudgetSummaryRepository
func NewBudgetSummaryRepository(pool *pgxpool.Pool) *BudgetSummaryRepository {
	return &BudgetSummaryRepository{pool: pool}
}

const summaryColumns = `id, workspace_id, client_id, total_budget, total_estimated, total_actual, total_paid, total_pending,
	category_breakdown, overbudget_categories, budget_health, savings_opportunities, last_updated`

func scanSummary(row pgx.Row) (*domain.BudgetSummary, error) {
	var s domain.BudgetSummary
	var totalBudget, totalEstimated, totalActual, totalPaid, totalPending pgtype.Numeric
	var breakdownJSON, overbudgetJSON, savingsJSON []byte
	var health string

	err := row.Scan(&s.ID, &s.WorkspaceID, &s.ClientID,
		&totalBudget, &totalEstimated, &totalActual, &totalPaid, &totalPending,
		&breakdownJSON, &overbudgetJSON, &health, &savingsJSON, &s.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, err
	}

	s.TotalBudget = pgNumericToDecimal(totalBudget)
	s.TotalEstimated = pgNumericToDecimal(totalEstimated)
	s.TotalActual = pgNumericToDecimal(totalActual)
	s.TotalPaid = pgNumericToDecimal(totalPaid)
	s.TotalPending = pgNumericToDecimal(totalPending)
	s.BudgetHealth = domain.BudgetHealth(health)

	s.CategoryBreakdown = []domain.CategoryVariance{}
	if len(breakdownJSON) > 0 {
		if err := json.Unmarshal(breakdownJSON, &s.CategoryBreakdown); err != nil {
			return nil, fmt.Errorf("invalid category breakdown: %w", err)
		}
	}
	s.OverbudgetCategories = []string{}
	if len(overbudgetJSON) > 0 {
		if err := json.Unmarshal(overbudgetJSON, &s.OverbudgetCategories); err != nil {
			return nil, fmt.Errorf("invalid overbudget categories: %w", err)
		}
	}
	s.SavingsOpportunities = []string{}
	if len(savingsJSON) > 0 {
		if err := json.Unmarshal(savingsJSON, &s.SavingsOpportunities); err != nil {
			return nil, fmt.Errorf("invalid savings opportunities: %w", err)
		}
	}

	return &s, nil
}

// GetByClient retrieves the cached summary for a client
func (r *BudgetSummaryRepository) GetByClient(workspaceID int32, clientID int32) (*domain.BudgetSummary, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+summaryColumns+` FROM budget_summaries
		 WHERE workspace_id = $1 AND client_id = $2`,
		workspaceID, clientID)
	return scanSummary(row)
}

// Upsert writes the summary whole, keyed by client_id. An existing row is
// updated in place so its id survives recomputes; concurrent recomputes for
// the same client serialize on the unique index.
func (r *BudgetSummaryRepository) Upsert(summary *domain.BudgetSummary) (*domain.BudgetSummary, error) {
	ctx := context.Background()

	totalBudget, err := decimalToPgNumeric(summary.TotalBudget)
	if err != nil {
		return nil, fmt.Errorf("invalid total budget: %w", err)
	}
	totalEstimated, err := decimalToPgNumeric(summary.TotalEstimated)
	if err != nil {
		return nil, fmt.Errorf("invalid total estimated: %w", err)
	}
	totalActual, err := decimalToPgNumeric(summary.TotalActual)
	if err != nil {
		return nil, fmt.Errorf("invalid total actual: %w", err)
	}
	totalPaid, err := decimalToPgNumeric(summary.TotalPaid)
	if err != nil {
		return nil, fmt.Errorf("invalid total paid: %w", err)
	}
	totalPending, err := decimalToPgNumeric(summary.TotalPending)
	if err != nil {
		return nil, fmt.Errorf("invalid total pending: %w", err)
	}

	breakdownJSON, err := json.Marshal(summary.CategoryBreakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal category breakdown: %w", err)
	}
	overbudgetJSON, err := json.Marshal(summary.OverbudgetCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal overbudget categories: %w", err)
	}
	savingsJSON, err := json.Marshal(summary.SavingsOpportunities)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal savings opportunities: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO budget_summaries
		   (workspace_id, client_id, total_budget, total_estimated, total_actual, total_paid, total_pending,
		    category_breakdown, overbudget_categories, budget_health, savings_opportunities, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (client_id) DO UPDATE SET
		   total_budget = EXCLUDED.total_budget,
		   total_estimated = EXCLUDED.total_estimated,
		   total_actual = EXCLUDED.total_actual,
		   total_paid = EXCLUDED.total_paid,
		   total_pending = EXCLUDED.total_pending,
		   category_breakdown = EXCLUDED.category_breakdown,
		   overbudget_categories = EXCLUDED.overbudget_categories,
		   budget_health = EXCLUDED.budget_health,
		   savings_opportunities = EXCLUDED.savings_opportunities,
		   last_updated = EXCLUDED.last_updated
		 RETURNING `+summaryColumns,
		summary.WorkspaceID, summary.ClientID,
		totalBudget, totalEstimated, totalActual, totalPaid, totalPending,
		breakdownJSON, overbudgetJSON, string(summary.BudgetHealth), savingsJSON, summary.LastUpdated)
	return scanSummary(row)
}

// Delete removes a client's cached summary
func (r *BudgetSummaryRepository) Delete(workspaceID int32, clientID int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM budget_summaries WHERE workspace_id = $1 AND client_id = $2`,
		workspaceID, clientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSummaryNotFound
	}
	return nil
}
