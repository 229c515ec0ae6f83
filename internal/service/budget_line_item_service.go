package service

import (
	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/hitchly/hitchly-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetLineItemService handles budget line item business logic. Mutations
// leave the client's cached summary stale; callers recompute it explicitly.
type BudgetLineItemService struct {
	lineItemRepo domain.BudgetLineItemRepository
	clientRepo   domain.ClientRepository
	publisher    websocket.EventPublisher
}

// NewBudgetLineItemService creates a new BudgetLineItemService
func NewBudgetLineItemService(
	lineItemRepo domain.BudgetLineItemRepository,
	clientRepo domain.ClientRepository,
	publisher websocket.EventPublisher,
) *BudgetLineItemService {
	return &BudgetLineItemService{
		lineItemRepo: lineItemRepo,
		clientRepo:   clientRepo,
		publisher:    publisher,
	}
}

// LineItemInput carries the writable fields of a budget line item
type LineItemInput struct {
	Category      string
	Budget        decimal.Decimal
	EstimatedCost decimal.Decimal
	ActualCost    decimal.Decimal
	PaidAmount    decimal.Decimal
	PendingAmount decimal.Decimal
}

func (in LineItemInput) validate() error {
	if in.Category == "" {
		return domain.ErrCategoryRequired
	}
	if len(in.Category) > domain.MaxCategoryLength {
		return domain.ErrNameTooLong
	}
	for _, amount := range []decimal.Decimal{in.Budget, in.EstimatedCost, in.ActualCost, in.PaidAmount, in.PendingAmount} {
		if amount.IsNegative() {
			return domain.ErrInvalidAmount
		}
	}
	return nil
}

// CreateLineItem adds a budget row for a client
func (s *BudgetLineItemService) CreateLineItem(workspaceID, clientID int32, input LineItemInput) (*domain.BudgetLineItem, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByID(workspaceID, clientID); err != nil {
		return nil, err
	}

	item := &domain.BudgetLineItem{
		WorkspaceID:   workspaceID,
		ClientID:      clientID,
		Category:      input.Category,
		Budget:        input.Budget,
		EstimatedCost: input.EstimatedCost,
		ActualCost:    input.ActualCost,
		PaidAmount:    input.PaidAmount,
		PendingAmount: input.PendingAmount,
	}

	created, err := s.lineItemRepo.Create(item)
	if err != nil {
		log.Error().Err(err).
			Int32("workspace_id", workspaceID).
			Int32("client_id", clientID).
			Msg("Failed to create budget line item")
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.LineItemCreated(created))
	}
	return created, nil
}

// GetLineItems lists all budget rows for a client in insertion order
func (s *BudgetLineItemService) GetLineItems(workspaceID, clientID int32) ([]*domain.BudgetLineItem, error) {
	if _, err := s.clientRepo.GetByID(workspaceID, clientID); err != nil {
		return nil, err
	}
	return s.lineItemRepo.GetAllByClient(workspaceID, clientID)
}

// UpdateLineItem replaces a budget row's writable fields
func (s *BudgetLineItemService) UpdateLineItem(workspaceID, itemID int32, input LineItemInput) (*domain.BudgetLineItem, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	item, err := s.lineItemRepo.GetByID(workspaceID, itemID)
	if err != nil {
		return nil, err
	}

	item.Category = input.Category
	item.Budget = input.Budget
	item.EstimatedCost = input.EstimatedCost
	item.ActualCost = input.ActualCost
	item.PaidAmount = input.PaidAmount
	item.PendingAmount = input.PendingAmount

	updated, err := s.lineItemRepo.Update(item)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.LineItemUpdated(updated))
	}
	return updated, nil
}

// DeleteLineItem removes a budget row
func (s *BudgetLineItemService) DeleteLineItem(workspaceID, itemID int32) error {
	if _, err := s.lineItemRepo.GetByID(workspaceID, itemID); err != nil {
		return err
	}
	if err := s.lineItemRepo.Delete(workspaceID, itemID); err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.LineItemDeleted(map[string]int32{"id": itemID}))
	}
	return nil
}
