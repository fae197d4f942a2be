package logs

import (
	"context"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
)

// Service records and lists log entries.
type Service interface {
	// Record fills ID and DateAdded when empty and stores the entry.
	Record(ctx context.Context, entry *Entry) error
	List(ctx context.Context, query *Query) (paging.Page[*Entry], error)
	// Purge deletes entries of a company older than the cut-off and returns how many were removed.
	Purge(ctx context.Context, companyID string, olderThan time.Time) (int64, error)
}

// Repository persists log entries.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	List(ctx context.Context, query *Query) ([]*Entry, int64, error)
	DeleteBefore(ctx context.Context, companyID string, before time.Time) (int64, error)
}
