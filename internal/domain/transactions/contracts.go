package transactions

import (
	"context"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
)

// Service records payments and applies them to invoices.
type Service interface {
	Record(ctx context.Context, companyID string, input *Input) (*Transaction, error)
	Apply(ctx context.Context, companyID, transactionID string, allocations []Allocation) (*Transaction, error)
	// AutoApply credits the unapplied amount to open invoices, oldest due first.
	AutoApply(ctx context.Context, companyID, transactionID string) (*Transaction, error)
	Void(ctx context.Context, companyID, transactionID string) (*Transaction, error)
	GetByID(ctx context.Context, companyID, transactionID string) (*Transaction, error)
	List(ctx context.Context, query *Query) (paging.Page[*Transaction], error)
	// ListWithCredit returns approved transactions of a company that still have unapplied credit.
	ListWithCredit(ctx context.Context, companyID string) ([]*Transaction, error)
}

// Repository persists transactions and their applications.
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	UpdateStatus(ctx context.Context, transactionID, status string) error
	AddApplications(ctx context.Context, applications []*Application) error
	DeleteApplications(ctx context.Context, transactionID string) error
	GetByID(ctx context.Context, companyID, transactionID string) (*Transaction, error)
	// GetForUpdate loads a transaction and locks its row until the surrounding
	// database transaction ends.
	GetForUpdate(ctx context.Context, companyID, transactionID string) (*Transaction, error)
	List(ctx context.Context, query *Query) ([]*Transaction, int64, error)
	ListApproved(ctx context.Context, companyID string) ([]*Transaction, error)
}
