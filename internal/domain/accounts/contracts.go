package accounts

import (
	"context"
)

// Service manages payment accounts of a client. Every call checks that the
// client belongs to companyID.
type Service interface {
	Create(ctx context.Context, companyID, clientID string, input *Input) (*Account, error)
	Update(ctx context.Context, companyID, clientID, accountID string, input *Input) (*Account, error)
	// Delete deactivates the account.
	Delete(ctx context.Context, companyID, clientID, accountID string) error
	// GetByID returns an account. When accessedBy is a staff ID the access is logged.
	GetByID(ctx context.Context, companyID, clientID, accountID, accessedBy string) (*Account, error)
	List(ctx context.Context, companyID, clientID string) ([]*Account, error)
	// ExpiringIn returns active cards expiring in month (YYYYMM).
	ExpiringIn(ctx context.Context, companyID, month string) ([]*Account, error)
}

// Repository persists payment accounts.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, clientID, accountID string) (*Account, error)
	ListActive(ctx context.Context, clientID string) ([]*Account, error)
	ListExpiring(ctx context.Context, companyID, month string) ([]*Account, error)
}
