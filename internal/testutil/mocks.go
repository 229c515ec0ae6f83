package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	user.ID = uuid.New()
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

func (m *MockUserRepository) Update(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces    map[int32]*domain.Workspace
	ByUserID      map[uuid.UUID]*domain.Workspace
	ByUserAuth0ID map[string]*domain.Workspace
	NextID        int32
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces:    make(map[int32]*domain.Workspace),
		ByUserID:      make(map[uuid.UUID]*domain.Workspace),
		ByUserAuth0ID: make(map[string]*domain.Workspace),
		NextID:        1,
	}
}

func (m *MockWorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

func (m *MockWorkspaceRepository) GetByUserID(userID uuid.UUID) (*domain.Workspace, error) {
	if ws, ok := m.ByUserID[userID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

func (m *MockWorkspaceRepository) GetByUserAuth0ID(auth0ID string) (*domain.Workspace, error) {
	if ws, ok := m.ByUserAuth0ID[auth0ID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

func (m *MockWorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	workspace.ID = m.NextID
	m.NextID++
	m.Workspaces[workspace.ID] = workspace
	m.ByUserID[workspace.UserID] = workspace
	return workspace, nil
}

func (m *MockWorkspaceRepository) Update(workspace *domain.Workspace) (*domain.Workspace, error) {
	if _, ok := m.Workspaces[workspace.ID]; !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	m.Workspaces[workspace.ID] = workspace
	return workspace, nil
}

// MockClientRepository is a mock implementation of domain.ClientRepository
type MockClientRepository struct {
	Clients map[int32]*domain.Client
	NextID  int32
}

// NewMockClientRepository creates a new MockClientRepository
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		Clients: make(map[int32]*domain.Client),
		NextID:  1,
	}
}

func (m *MockClientRepository) Create(client *domain.Client) (*domain.Client, error) {
	client.ID = m.NextID
	m.NextID++
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt
	m.Clients[client.ID] = client
	return client, nil
}

func (m *MockClientRepository) GetByID(workspaceID int32, id int32) (*domain.Client, error) {
	if client, ok := m.Clients[id]; ok && client.WorkspaceID == workspaceID {
		return client, nil
	}
	return nil, domain.ErrClientNotFound
}

func (m *MockClientRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Client, error) {
	clients := []*domain.Client{}
	for id := int32(1); id < m.NextID; id++ {
		if client, ok := m.Clients[id]; ok && client.WorkspaceID == workspaceID {
			clients = append(clients, client)
		}
	}
	return clients, nil
}

func (m *MockClientRepository) Update(client *domain.Client) (*domain.Client, error) {
	existing, ok := m.Clients[client.ID]
	if !ok || existing.WorkspaceID != client.WorkspaceID {
		return nil, domain.ErrClientNotFound
	}
	client.UpdatedAt = time.Now()
	m.Clients[client.ID] = client
	return client, nil
}

func (m *MockClientRepository) Delete(workspaceID int32, id int32) error {
	if client, ok := m.Clients[id]; ok && client.WorkspaceID == workspaceID {
		delete(m.Clients, id)
		return nil
	}
	return domain.ErrClientNotFound
}

// MockWeddingRepository is a mock implementation of domain.WeddingRepository
type MockWeddingRepository struct {
	Weddings map[int32]*domain.Wedding
	NextID   int32
}

// NewMockWeddingRepository creates a new MockWeddingRepository
func NewMockWeddingRepository() *MockWeddingRepository {
	return &MockWeddingRepository{
		Weddings: make(map[int32]*domain.Wedding),
		NextID:   1,
	}
}

func (m *MockWeddingRepository) Create(wedding *domain.Wedding) (*domain.Wedding, error) {
	wedding.ID = m.NextID
	m.NextID++
	wedding.CreatedAt = time.Now()
	wedding.UpdatedAt = wedding.CreatedAt
	m.Weddings[wedding.ID] = wedding
	return wedding, nil
}

func (m *MockWeddingRepository) GetByID(workspaceID int32, id int32) (*domain.Wedding, error) {
	if wedding, ok := m.Weddings[id]; ok && wedding.WorkspaceID == workspaceID {
		return wedding, nil
	}
	return nil, domain.ErrWeddingNotFound
}

func (m *MockWeddingRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Wedding, error) {
	weddings := []*domain.Wedding{}
	for id := int32(1); id < m.NextID; id++ {
		if wedding, ok := m.Weddings[id]; ok && wedding.WorkspaceID == workspaceID {
			weddings = append(weddings, wedding)
		}
	}
	return weddings, nil
}

func (m *MockWeddingRepository) GetAllByClient(workspaceID int32, clientID int32) ([]*domain.Wedding, error) {
	weddings := []*domain.Wedding{}
	for id := int32(1); id < m.NextID; id++ {
		if wedding, ok := m.Weddings[id]; ok && wedding.WorkspaceID == workspaceID && wedding.ClientID == clientID {
			weddings = append(weddings, wedding)
		}
	}
	return weddings, nil
}

func (m *MockWeddingRepository) Update(wedding *domain.Wedding) (*domain.Wedding, error) {
	existing, ok := m.Weddings[wedding.ID]
	if !ok || existing.WorkspaceID != wedding.WorkspaceID {
		return nil, domain.ErrWeddingNotFound
	}
	wedding.UpdatedAt = time.Now()
	m.Weddings[wedding.ID] = wedding
	return wedding, nil
}

func (m *MockWeddingRepository) Delete(workspaceID int32, id int32) error {
	if wedding, ok := m.Weddings[id]; ok && wedding.WorkspaceID == workspaceID {
		delete(m.Weddings, id)
		return nil
	}
	return domain.ErrWeddingNotFound
}

// MockVendorRepository is a mock implementation of domain.VendorRepository
type MockVendorRepository struct {
	Vendors       map[int32]*domain.Vendor
	NextID        int32
	NextPaymentID int32

	// UpdateBalanceErr, when set, makes UpdateBalance fail for the given
	// vendor IDs (simulates a partial batch failure)
	UpdateBalanceErr map[int32]error
}

// NewMockVendorRepository creates a new MockVendorRepository
func NewMockVendorRepository() *MockVendorRepository {
	return &MockVendorRepository{
		Vendors:          make(map[int32]*domain.Vendor),
		NextID:           1,
		NextPaymentID:    1,
		UpdateBalanceErr: make(map[int32]error),
	}
}

func (m *MockVendorRepository) Create(vendor *domain.Vendor) (*domain.Vendor, error) {
	vendor.ID = m.NextID
	m.NextID++
	vendor.CreatedAt = time.Now()
	vendor.UpdatedAt = vendor.CreatedAt
	if vendor.Payments == nil {
		vendor.Payments = []domain.VendorPayment{}
	}
	m.Vendors[vendor.ID] = vendor
	return vendor, nil
}

func (m *MockVendorRepository) GetByID(workspaceID int32, id int32) (*domain.Vendor, error) {
	if vendor, ok := m.Vendors[id]; ok && vendor.WorkspaceID == workspaceID {
		return vendor, nil
	}
	return nil, domain.ErrVendorNotFound
}

func (m *MockVendorRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Vendor, error) {
	vendors := []*domain.Vendor{}
	for id := int32(1); id < m.NextID; id++ {
		if vendor, ok := m.Vendors[id]; ok && vendor.WorkspaceID == workspaceID {
			vendors = append(vendors, vendor)
		}
	}
	return vendors, nil
}

func (m *MockVendorRepository) GetAllByWedding(workspaceID int32, weddingID int32) ([]*domain.Vendor, error) {
	vendors := []*domain.Vendor{}
	for id := int32(1); id < m.NextID; id++ {
		if vendor, ok := m.Vendors[id]; ok && vendor.WorkspaceID == workspaceID && vendor.WeddingID == weddingID {
			vendors = append(vendors, vendor)
		}
	}
	return vendors, nil
}

func (m *MockVendorRepository) Update(vendor *domain.Vendor) (*domain.Vendor, error) {
	existing, ok := m.Vendors[vendor.ID]
	if !ok || existing.WorkspaceID != vendor.WorkspaceID {
		return nil, domain.ErrVendorNotFound
	}
	vendor.UpdatedAt = time.Now()
	m.Vendors[vendor.ID] = vendor
	return vendor, nil
}

func (m *MockVendorRepository) UpdateBalance(workspaceID int32, id int32, balance decimal.Decimal) error {
	if err, ok := m.UpdateBalanceErr[id]; ok {
		return err
	}
	vendor, ok := m.Vendors[id]
	if !ok || vendor.WorkspaceID != workspaceID {
		return domain.ErrVendorNotFound
	}
	vendor.Balance = balance
	return nil
}

func (m *MockVendorRepository) Delete(workspaceID int32, id int32) error {
	if vendor, ok := m.Vendors[id]; ok && vendor.WorkspaceID == workspaceID {
		delete(m.Vendors, id)
		return nil
	}
	return domain.ErrVendorNotFound
}

func (m *MockVendorRepository) AddPayment(payment *domain.VendorPayment) (*domain.VendorPayment, error) {
	vendor, ok := m.Vendors[payment.VendorID]
	if !ok {
		return nil, domain.ErrVendorNotFound
	}
	payment.ID = m.NextPaymentID
	m.NextPaymentID++
	payment.CreatedAt = time.Now()
	vendor.Payments = append(vendor.Payments, *payment)
	return payment, nil
}

// MockBudgetLineItemRepository is a mock implementation of
// domain.BudgetLineItemRepository. Items are returned in insertion order.
type MockBudgetLineItemRepository struct {
	Items  map[int32]*domain.BudgetLineItem
	Order  []int32
	NextID int32
}

// NewMockBudgetLineItemRepository creates a new MockBudgetLineItemRepository
func NewMockBudgetLineItemRepository() *MockBudgetLineItemRepository {
	return &MockBudgetLineItemRepository{
		Items:  make(map[int32]*domain.BudgetLineItem),
		NextID: 1,
	}
}

func (m *MockBudgetLineItemRepository) Create(item *domain.BudgetLineItem) (*domain.BudgetLineItem, error) {
	item.ID = m.NextID
	m.NextID++
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	m.Items[item.ID] = item
	m.Order = append(m.Order, item.ID)
	return item, nil
}

func (m *MockBudgetLineItemRepository) GetByID(workspaceID int32, id int32) (*domain.BudgetLineItem, error) {
	if item, ok := m.Items[id]; ok && item.WorkspaceID == workspaceID {
		return item, nil
	}
	return nil, domain.ErrLineItemNotFound
}

func (m *MockBudgetLineItemRepository) GetAllByClient(workspaceID int32, clientID int32) ([]*domain.BudgetLineItem, error) {
	items := []*domain.BudgetLineItem{}
	for _, id := range m.Order {
		if item, ok := m.Items[id]; ok && item.WorkspaceID == workspaceID && item.ClientID == clientID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *MockBudgetLineItemRepository) Update(item *domain.BudgetLineItem) (*domain.BudgetLineItem, error) {
	existing, ok := m.Items[item.ID]
	if !ok || existing.WorkspaceID != item.WorkspaceID {
		return nil, domain.ErrLineItemNotFound
	}
	item.UpdatedAt = time.Now()
	m.Items[item.ID] = item
	return item, nil
}

func (m *MockBudgetLineItemRepository) Delete(workspaceID int32, id int32) error {
	if item, ok := m.Items[id]; ok && item.WorkspaceID == workspaceID {
		delete(m.Items, id)
		return nil
	}
	return domain.ErrLineItemNotFound
}

// MockBudgetSummaryRepository is a mock implementation of
// domain.BudgetSummaryRepository. Upsert preserves the existing row's ID.
type MockBudgetSummaryRepository struct {
	Summaries map[int32]*domain.BudgetSummary // keyed by client ID
	NextID    int32
}

// NewMockBudgetSummaryRepository creates a new MockBudgetSummaryRepository
func NewMockBudgetSummaryRepository() *MockBudgetSummaryRepository {
	return &MockBudgetSummaryRepository{
		Summaries: make(map[int32]*domain.BudgetSummary),
		NextID:    1,
	}
}

func (m *MockBudgetSummaryRepository) GetByClient(workspaceID int32, clientID int32) (*domain.BudgetSummary, error) {
	if summary, ok := m.Summaries[clientID]; ok && summary.WorkspaceID == workspaceID {
		return summary, nil
	}
	return nil, domain.ErrSummaryNotFound
}

func (m *MockBudgetSummaryRepository) Upsert(summary *domain.BudgetSummary) (*domain.BudgetSummary, error) {
	if existing, ok := m.Summaries[summary.ClientID]; ok {
		summary.ID = existing.ID
	} else {
		summary.ID = m.NextID
		m.NextID++
	}
	m.Summaries[summary.ClientID] = summary
	return summary, nil
}

func (m *MockBudgetSummaryRepository) Delete(workspaceID int32, clientID int32) error {
	if summary, ok := m.Summaries[clientID]; ok && summary.WorkspaceID == workspaceID {
		delete(m.Summaries, clientID)
		return nil
	}
	return domain.ErrSummaryNotFound
}

// MockPortalTokenRepository is a mock implementation of
// domain.PortalTokenRepository
type MockPortalTokenRepository struct {
	Tokens map[uuid.UUID]*domain.PortalToken
	ByHash map[string]*domain.PortalToken
}

// NewMockPortalTokenRepository creates a new MockPortalTokenRepository
func NewMockPortalTokenRepository() *MockPortalTokenRepository {
	return &MockPortalTokenRepository{
		Tokens: make(map[uuid.UUID]*domain.PortalToken),
		ByHash: make(map[string]*domain.PortalToken),
	}
}

func (m *MockPortalTokenRepository) Create(ctx context.Context, token *domain.PortalToken) error {
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	m.Tokens[token.ID] = token
	m.ByHash[token.TokenHash] = token
	return nil
}

func (m *MockPortalTokenRepository) GetByHash(ctx context.Context, hash string) (*domain.PortalToken, error) {
	if token, ok := m.ByHash[hash]; ok && token.RevokedAt == nil {
		return token, nil
	}
	return nil, domain.ErrPortalTokenNotFound
}

func (m *MockPortalTokenRepository) GetByWorkspace(ctx context.Context, workspaceID int32) ([]*domain.PortalToken, error) {
	tokens := []*domain.PortalToken{}
	for _, token := range m.Tokens {
		if token.WorkspaceID == workspaceID && token.RevokedAt == nil {
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}

func (m *MockPortalTokenRepository) Revoke(ctx context.Context, workspaceID int32, tokenID uuid.UUID) error {
	token, ok := m.Tokens[tokenID]
	if !ok || token.WorkspaceID != workspaceID || token.RevokedAt != nil {
		return domain.ErrPortalTokenNotFound
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

func (m *MockPortalTokenRepository) UpdateLastUsed(ctx context.Context, tokenID uuid.UUID) error {
	if token, ok := m.Tokens[tokenID]; ok {
		now := time.Now()
		token.LastUsedAt = &now
	}
	return nil
}
