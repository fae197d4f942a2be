package clients

import (
	"context"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
)

// Service manages clients on behalf of staff and the client portal.
type Service interface {
	Create(ctx context.Context, companyID string, input *Input) (*Client, error)
	// Update changes profile fields. Status is left untouched when empty.
	Update(ctx context.Context, companyID, clientID string, input *Input) (*Client, error)
	// Delete removes a client without billing history.
	Delete(ctx context.Context, companyID, clientID string) error
	GetByID(ctx context.Context, companyID, clientID string) (*Client, error)
	List(ctx context.Context, query *Query) (paging.Page[*Client], error)
	// Authenticate checks portal credentials.
	Authenticate(ctx context.Context, companyID, username, password string) (*Client, error)
}

// Repository persists clients.
type Repository interface {
	Create(ctx context.Context, client *Client) error
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, clientID string) error
	GetByID(ctx context.Context, companyID, clientID string) (*Client, error)
	GetByUsername(ctx context.Context, companyID, username string) (*Client, error)
	List(ctx context.Context, query *Query) ([]*Client, int64, error)
	// HasBillingHistory reports whether any non-void invoice or transaction references the client.
	HasBillingHistory(ctx context.Context, clientID string) (bool, error)
}
