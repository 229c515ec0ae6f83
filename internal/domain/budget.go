package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetHealth is a coarse classification of a client's spend-to-budget ratio
type BudgetHealth string

const (
	BudgetHealthExcellent BudgetHealth = "excellent"
	BudgetHealthGood      BudgetHealth = "good"
	BudgetHealthWarning   BudgetHealth = "warning"
	BudgetHealthCritical  BudgetHealth = "critical"
)

// Spend-percentage thresholds for health classification. Upper bounds are
// inclusive: exactly 85% is still excellent, exactly 105% is still warning.
var (
	healthExcellentMax = decimal.NewFromInt(85)
	healthGoodMax      = decimal.NewFromInt(95)
	healthWarningMax   = decimal.NewFromInt(105)
)

// ClassifyBudgetHealth maps a spend percentage (actual/budget*100) to a
// health band. The bands are fixed policy, not configurable.
func ClassifyBudgetHealth(spendPercentage decimal.Decimal) BudgetHealth {
	switch {
	case spendPercentage.LessThanOrEqual(healthExcellentMax):
		return BudgetHealthExcellent
	case spendPercentage.LessThanOrEqual(healthGoodMax):
		return BudgetHealthGood
	case spendPercentage.LessThanOrEqual(healthWarningMax):
		return BudgetHealthWarning
	default:
		return BudgetHealthCritical
	}
}

// BudgetLineItem is one budgeted expense row for a client
type BudgetLineItem struct {
	ID            int32           `json:"id"`
	WorkspaceID   int32           `json:"workspaceId"`
	ClientID      int32           `json:"clientId"`
	Category      string          `json:"category"`
	Budget        decimal.Decimal `json:"budget"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	ActualCost    decimal.Decimal `json:"actualCost"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CategoryVariance is one per-category rollup entry in a budget summary.
// Variance = budget - actual; negative means the category is overbudget.
type CategoryVariance struct {
	Category string          `json:"category"`
	Budget   decimal.Decimal `json:"budget"`
	Actual   decimal.Decimal `json:"actual"`
	Variance decimal.Decimal `json:"variance"`
}

// BudgetSummary is the cached, fully derived rollup of a client's budget line
// items. One row per client; recomputed and upserted as a whole, never
// patched field by field. It goes stale the moment a line item changes and
// stays stale until the next recompute.
type BudgetSummary struct {
	ID                   int32              `json:"id"`
	WorkspaceID          int32              `json:"workspaceId"`
	ClientID             int32              `json:"clientId"`
	TotalBudget          decimal.Decimal    `json:"totalBudget"`
	TotalEstimated       decimal.Decimal    `json:"totalEstimated"`
	TotalActual          decimal.Decimal    `json:"totalActual"`
	TotalPaid            decimal.Decimal    `json:"totalPaid"`
	TotalPending         decimal.Decimal    `json:"totalPending"`
	CategoryBreakdown    []CategoryVariance `json:"categoryBreakdown"`
	OverbudgetCategories []string           `json:"overbudgetCategories"`
	BudgetHealth         BudgetHealth       `json:"budgetHealth"`
	SavingsOpportunities []string           `json:"savingsOpportunities"`
	LastUpdated          time.Time          `json:"lastUpdated"`
}

// BudgetLineItemRepository defines persistence for budget line items.
// GetAllByClient must return rows in a deterministic order (insertion order)
// so the summary's category breakdown is stable.
type BudgetLineItemRepository interface {
	Create(item *BudgetLineItem) (*BudgetLineItem, error)
	GetByID(workspaceID int32, id int32) (*BudgetLineItem, error)
	GetAllByClient(workspaceID int32, clientID int32) ([]*BudgetLineItem, error)
	Update(item *BudgetLineItem) (*BudgetLineItem, error)
	Delete(workspaceID int32, id int32) error
}

// BudgetSummaryRepository defines persistence for the cached summary.
// Upsert is keyed by client_id: update-in-place when a row exists (identity
// preserved), insert otherwise.
type BudgetSummaryRepository interface {
	GetByClient(workspaceID int32, clientID int32) (*BudgetSummary, error)
	Upsert(summary *BudgetSummary) (*BudgetSummary, error)
	Delete(workspaceID int32, clientID int32) error
}
