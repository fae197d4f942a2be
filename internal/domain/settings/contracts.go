package settings

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Service manages company settings.
type Service interface {
	// GetAll returns every known key, stored values overriding defaults.
	GetAll(ctx context.Context, companyID string) (map[string]string, error)
	// Get returns a single value or ErrUnknownKey.
	Get(ctx context.Context, companyID, key string) (string, error)
	// Update validates every pair before writing any of them.
	Update(ctx context.Context, companyID string, values map[string]string) error
	// Reset removes the stored value so the default applies again.
	Reset(ctx context.Context, companyID, key string) error

	Int(ctx context.Context, companyID, key string) (int, error)
	Bool(ctx context.Context, companyID, key string) (bool, error)
	Decimal(ctx context.Context, companyID, key string) (decimal.Decimal, error)
	Location(ctx context.Context, companyID string) (*time.Location, error)
}

// Repository persists stored settings.
type Repository interface {
	List(ctx context.Context, companyID string) ([]*Setting, error)
	Get(ctx context.Context, companyID, key string) (*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
	Delete(ctx context.Context, companyID, key string) error
}
