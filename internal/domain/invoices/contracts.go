package invoices

import (
	"context"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
)

// Service manages the invoice lifecycle.
type Service interface {
	Create(ctx context.Context, companyID string, input *Input) (*Invoice, error)
	Update(ctx context.Context, companyID, invoiceID string, input *Input) (*Invoice, error)
	Void(ctx context.Context, companyID, invoiceID string) (*Invoice, error)
	DeleteDraft(ctx context.Context, companyID, invoiceID string) error
	GetByID(ctx context.Context, companyID, invoiceID string) (*Invoice, error)
	List(ctx context.Context, query *Query) (paging.Page[*Invoice], error)
	// Deliver queues the invoice for delivery to the client.
	Deliver(ctx context.Context, companyID, invoiceID, method string) (*Delivery, error)
}

// Repository persists invoices with their lines and deliveries.
type Repository interface {
	Create(ctx context.Context, invoice *Invoice) error
	// Update saves header fields and replaces lines.
	Update(ctx context.Context, invoice *Invoice) error
	// UpdateTotals saves only the paid amount and closed date.
	UpdateTotals(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, invoiceID string) error
	GetByID(ctx context.Context, companyID, invoiceID string) (*Invoice, error)
	// GetForUpdate loads an invoice by ID only, locking the row where the
	// database supports it.
	GetForUpdate(ctx context.Context, invoiceID string) (*Invoice, error)
	List(ctx context.Context, query *Query) ([]*Invoice, int64, error)
	// ListOpenByClient returns open invoices of a client in one currency, oldest due first.
	ListOpenByClient(ctx context.Context, clientID, currency string) ([]*Invoice, error)
	// ListBilledBetween returns non-draft invoices billed in [start, end].
	ListBilledBetween(ctx context.Context, companyID string, start, end time.Time, status string) ([]*Invoice, error)
	// ListOpen returns every open invoice of a company.
	ListOpen(ctx context.Context, companyID string) ([]*Invoice, error)
	NextIDValue(ctx context.Context, companyID string, start int64) (int64, error)

	AddDelivery(ctx context.Context, delivery *Delivery) error
	ListPendingDeliveries(ctx context.Context, companyID string, limit int) ([]*Delivery, error)
	MarkDelivered(ctx context.Context, deliveryID string, at time.Time) error
}
