package service

import (
	"time"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// ClientService handles client (couple) business logic
type ClientService struct {
	clientRepo domain.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo domain.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// ClientInput carries the writable fields of a client
type ClientInput struct {
	CoupleNames string
	Email       string
	Phone       *string
	WeddingDate *time.Time
}

// CreateClient registers a new couple in the workspace
func (s *ClientService) CreateClient(workspaceID int32, input ClientInput) (*domain.Client, error) {
	if input.CoupleNames == "" {
		return nil, domain.ErrNameRequired
	}
	if len(input.CoupleNames) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	client := &domain.Client{
		WorkspaceID: workspaceID,
		CoupleNames: input.CoupleNames,
		Email:       input.Email,
		Phone:       input.Phone,
		WeddingDate: input.WeddingDate,
	}

	created, err := s.clientRepo.Create(client)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create client")
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("client_id", created.ID).
		Msg("Client created")
	return created, nil
}

// GetClient retrieves a single client
func (s *ClientService) GetClient(workspaceID, clientID int32) (*domain.Client, error) {
	return s.clientRepo.GetByID(workspaceID, clientID)
}

// GetClients lists all clients in a workspace
func (s *ClientService) GetClients(workspaceID int32) ([]*domain.Client, error) {
	return s.clientRepo.GetAllByWorkspace(workspaceID)
}

// UpdateClient updates a client's contact details
func (s *ClientService) UpdateClient(workspaceID, clientID int32, input ClientInput) (*domain.Client, error) {
	if input.CoupleNames == "" {
		return nil, domain.ErrNameRequired
	}
	if len(input.CoupleNames) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	client, err := s.clientRepo.GetByID(workspaceID, clientID)
	if err != nil {
		return nil, err
	}

	client.CoupleNames = input.CoupleNames
	client.Email = input.Email
	client.Phone = input.Phone
	client.WeddingDate = input.WeddingDate

	return s.clientRepo.Update(client)
}

// DeleteClient removes a client
func (s *ClientService) DeleteClient(workspaceID, clientID int32) error {
	if _, err := s.clientRepo.GetByID(workspaceID, clientID); err != nil {
		return err
	}
	return s.clientRepo.Delete(workspaceID, clientID)
}
