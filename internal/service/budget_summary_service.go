package service

import (
	"time"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// BudgetSummaryService folds a client's budget line items into the cached
// summary row. The summary is a materialized view: it is rebuilt from scratch
// on every recompute and upserted by client, never patched piecemeal.
type BudgetSummaryService struct {
	lineItemRepo domain.BudgetLineItemRepository
	summaryRepo  domain.BudgetSummaryRepository
	clientRepo   domain.ClientRepository
	publisher    websocket.EventPublisher
}

// NewBudgetSummaryService creates a new BudgetSummaryService
func NewBudgetSummaryService(
	lineItemRepo domain.BudgetLineItemRepository,
	summaryRepo domain.BudgetSummaryRepository,
	clientRepo domain.ClientRepository,
	publisher websocket.EventPublisher,
) *BudgetSummaryService {
	return &BudgetSummaryService{
		lineItemRepo: lineItemRepo,
		summaryRepo:  summaryRepo,
		clientRepo:   clientRepo,
		publisher:    publisher,
	}
}

// Recompute rebuilds the client's budget summary from its line items and
// upserts it. Returns the summary's ID (the existing row's ID when one was
// already there). An empty line-item set is valid: all totals are zero and
// health classifies as excellent.
func (s *BudgetSummaryService) Recompute(workspaceID, clientID int32) (int32, error) {
	if _, err := s.clientRepo.GetByID(workspaceID, clientID); err != nil {
		return 0, err
	}

	items, err := s.lineItemRepo.GetAllByClient(workspaceID, clientID)
	if err != nil {
		return 0, err
	}

	summary := buildSummary(workspaceID, clientID, items)

	saved, err := s.summaryRepo.Upsert(summary)
	if err != nil {
		log.Error().Err(err).
			Int32("workspace_id", workspaceID).
			Int32("client_id", clientID).
			Msg("Failed to upsert budget summary")
		return 0, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("client_id", clientID).
		Int32("summary_id", saved.ID).
		Str("total_budget", saved.TotalBudget.StringFixed(2)).
		Str("total_actual", saved.TotalActual.StringFixed(2)).
		Str("health", string(saved.BudgetHealth)).
		Msg("Budget summary recomputed")

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.SummaryRecomputed(saved))
	}
	return saved.ID, nil
}

// buildSummary is the pure aggregation: five totals, per-category rollups in
// first-seen order, overbudget list in breakdown order, health band.
func buildSummary(workspaceID, clientID int32, items []*domain.BudgetLineItem) *domain.BudgetSummary {
	summary := &domain.BudgetSummary{
		WorkspaceID:          workspaceID,
		ClientID:             clientID,
		TotalBudget:          decimal.Zero,
		TotalEstimated:       decimal.Zero,
		TotalActual:          decimal.Zero,
		TotalPaid:            decimal.Zero,
		TotalPending:         decimal.Zero,
		CategoryBreakdown:    []domain.CategoryVariance{},
		OverbudgetCategories: []string{},
		SavingsOpportunities: []string{},
		LastUpdated:          time.Now().UTC(),
	}

	// Per-category accumulation in first-seen order
	categoryIndex := make(map[string]int)

	for _, item := range items {
		summary.TotalBudget = summary.TotalBudget.Add(item.Budget)
		summary.TotalEstimated = summary.TotalEstimated.Add(item.EstimatedCost)
		summary.TotalActual = summary.TotalActual.Add(item.ActualCost)
		summary.TotalPaid = summary.TotalPaid.Add(item.PaidAmount)
		summary.TotalPending = summary.TotalPending.Add(item.PendingAmount)

		idx, seen := categoryIndex[item.Category]
		if !seen {
			idx = len(summary.CategoryBreakdown)
			categoryIndex[item.Category] = idx
			summary.CategoryBreakdown = append(summary.CategoryBreakdown, domain.CategoryVariance{
				Category: item.Category,
				Budget:   decimal.Zero,
				Actual:   decimal.Zero,
			})
		}
		entry := &summary.CategoryBreakdown[idx]
		entry.Budget = entry.Budget.Add(item.Budget)
		entry.Actual = entry.Actual.Add(item.ActualCost)
	}

	for i := range summary.CategoryBreakdown {
		entry := &summary.CategoryBreakdown[i]
		entry.Variance = entry.Budget.Sub(entry.Actual)
		if entry.Variance.IsNegative() {
			summary.OverbudgetCategories = append(summary.OverbudgetCategories, entry.Category)
		}
	}

	spendPercentage := decimal.Zero
	if summary.TotalBudget.IsPositive() {
		spendPercentage = summary.TotalActual.Div(summary.TotalBudget).Mul(oneHundred)
	}
	summary.BudgetHealth = domain.ClassifyBudgetHealth(spendPercentage)

	return summary
}

// GetSummary returns the cached summary for a client, or ErrSummaryNotFound
// when it has never been computed. It never triggers a recompute.
func (s *BudgetSummaryService) GetSummary(workspaceID, clientID int32) (*domain.BudgetSummary, error) {
	return s.summaryRepo.GetByClient(workspaceID, clientID)
}

// GetHealth returns the cached health band, defaulting to "good" when no
// summary row exists yet
func (s *BudgetSummaryService) GetHealth(workspaceID, clientID int32) (domain.BudgetHealth, error) {
	summary, err := s.summaryRepo.GetByClient(workspaceID, clientID)
	if err != nil {
		if err == domain.ErrSummaryNotFound {
			return domain.BudgetHealthGood, nil
		}
		return "", err
	}
	return summary.BudgetHealth, nil
}

// GetCategoryBreakdown returns the cached per-category rollups, defaulting to
// an empty list when no summary row exists yet
func (s *BudgetSummaryService) GetCategoryBreakdown(workspaceID, clientID int32) ([]domain.CategoryVariance, error) {
	summary, err := s.summaryRepo.GetByClient(workspaceID, clientID)
	if err != nil {
		if err == domain.ErrSummaryNotFound {
			return []domain.CategoryVariance{}, nil
		}
		return nil, err
	}
	return summary.CategoryBreakdown, nil
}
