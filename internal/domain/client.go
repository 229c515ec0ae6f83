package domain

import "time"

// Client represents a couple being planned for. Budget line items and the
// cached budget summary hang off the client, not the wedding.
type Client struct {
	ID          int32      `json:"id"`
	WorkspaceID int32      `json:"workspaceId"`
	CoupleNames string     `json:"coupleNames"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	WeddingDate *time.Time `json:"weddingDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ClientRepository defines the interface for client persistence operations
type ClientRepository interface {
	Create(client *Client) (*Client, error)
	GetByID(workspaceID int32, id int32) (*Client, error)
	GetAllByWorkspace(workspaceID int32) ([]*Client, error)
	Update(client *Client) (*Client, error)
	Delete(workspaceID int32, id int32) error
}
