// Package search dispatches free-text searches by resource type.
package search

import (
	"context"
	"errors"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
)

// Searchable types
const (
	TypeClients      = "clients"
	TypeInvoices     = "invoices"
	TypeTransactions = "transactions"
)

// Errors returned by the search service
var (
	ErrUnknownType = errors.New("unknown search type")
	ErrBlankQuery  = errors.New("search query must not be blank")
)

// Searcher finds one type of resource.
type Searcher interface {
	Type() string
	Search(ctx context.Context, companyID, query string, page paging.Request) (paging.Page[any], error)
}

// Service paginates searches with the company's results_per_page setting.
type Service interface {
	Types() []string
	Search(ctx context.Context, companyID, searchType, query string, page int) (paging.Page[any], error)
}
