package domain

import "time"

// Wedding represents a single event being planned. Vendors are booked per
// wedding.
type Wedding struct {
	ID          int32     `json:"id"`
	WorkspaceID int32     `json:"workspaceId"`
	ClientID    int32     `json:"clientId"`
	Venue       *string   `json:"venue,omitempty"`
	Date        time.Time `json:"date"`
	GuestCount  int       `json:"guestCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WeddingRepository defines the interface for wedding persistence operations
type WeddingRepository interface {
	Create(wedding *Wedding) (*Wedding, error)
	GetByID(workspaceID int32, id int32) (*Wedding, error)
	GetAllByWorkspace(workspaceID int32) ([]*Wedding, error)
	GetAllByClient(workspaceID int32, clientID int32) ([]*Wedding, error)
	Update(wedding *Wedding) (*Wedding, error)
	Delete(workspaceID int32, id int32) error
}
