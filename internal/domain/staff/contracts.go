package staff

import "context"

// Repository persists staff members.
type Repository interface {
	Create(ctx context.Context, staff *Staff) error
	Update(ctx context.Context, staff *Staff) error
	GetByID(ctx context.Context, staffID string) (*Staff, error)
	GetByUsername(ctx context.Context, username string) (*Staff, error)
	// CompanyIDs lists every company that has at least one active staff member.
	CompanyIDs(ctx context.Context) ([]string, error)
}

// Service manages staff accounts.
type Service interface {
	Create(ctx context.Context, companyID string, input *Input) (*Staff, error)
	GetByID(ctx context.Context, staffID string) (*Staff, error)
}
