package service

import (
	"time"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// WeddingService handles wedding (event) business logic
type WeddingService struct {
	weddingRepo domain.WeddingRepository
	clientRepo  domain.ClientRepository
}

// NewWeddingService creates a new WeddingService
func NewWeddingService(weddingRepo domain.WeddingRepository, clientRepo domain.ClientRepository) *WeddingService {
	return &WeddingService{
		weddingRepo: weddingRepo,
		clientRepo:  clientRepo,
	}
}

// WeddingInput carries the writable fields of a wedding
type WeddingInput struct {
	ClientID   int32
	Venue      *string
	Date       time.Time
	GuestCount int
}

// CreateWedding schedules a wedding for a client
func (s *WeddingService) CreateWedding(workspaceID int32, input WeddingInput) (*domain.Wedding, error) {
	// Client must exist and belong to the workspace
	if _, err := s.clientRepo.GetByID(workspaceID, input.ClientID); err != nil {
		return nil, err
	}

	wedding := &domain.Wedding{
		WorkspaceID: workspaceID,
		ClientID:    input.ClientID,
		Venue:       input.Venue,
		Date:        input.Date,
		GuestCount:  input.GuestCount,
	}

	created, err := s.weddingRepo.Create(wedding)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create wedding")
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("wedding_id", created.ID).
		Int32("client_id", created.ClientID).
		Msg("Wedding created")
	return created, nil
}

// GetWedding retrieves a single wedding
func (s *WeddingService) GetWedding(workspaceID, weddingID int32) (*domain.Wedding, error) {
	return s.weddingRepo.GetByID(workspaceID, weddingID)
}

// GetWeddings lists all weddings in a workspace
func (s *WeddingService) GetWeddings(workspaceID int32) ([]*domain.Wedding, error) {
	return s.weddingRepo.GetAllByWorkspace(workspaceID)
}

// GetWeddingsByClient lists a client's weddings
func (s *WeddingService) GetWeddingsByClient(workspaceID, clientID int32) ([]*domain.Wedding, error) {
	if _, err := s.clientRepo.GetByID(workspaceID, clientID); err != nil {
		return nil, err
	}
	return s.weddingRepo.GetAllByClient(workspaceID, clientID)
}

// UpdateWedding updates a wedding's details
func (s *WeddingService) UpdateWedding(workspaceID, weddingID int32, input WeddingInput) (*domain.Wedding, error) {
	wedding, err := s.weddingRepo.GetByID(workspaceID, weddingID)
	if err != nil {
		return nil, err
	}

	wedding.Venue = input.Venue
	wedding.Date = input.Date
	wedding.GuestCount = input.GuestCount

	return s.weddingRepo.Update(wedding)
}

// DeleteWedding removes a wedding
func (s *WeddingService) DeleteWedding(workspaceID, weddingID int32) error {
	if _, err := s.weddingRepo.GetByID(workspaceID, weddingID); err != nil {
		return err
	}
	return s.weddingRepo.Delete(workspaceID, weddingID)
}
