package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/search"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
)

// searchService implements the search.Service interface
type searchService struct {
	searchers map[string]search.Searcher
	settings  settings.Service
	logger    logger.Logger
}

// NewSearchService creates a search.Service dispatching to searchers by type
func NewSearchService(settingService settings.Service, logger logger.Logger, searchers ...search.Searcher) (search.Service, error) {
	byType := make(map[string]search.Searcher, len(searchers))
	for _, s := range searchers {
		if _, dup := byType[s.Type()]; dup {
			return nil, fmt.Errorf("duplicate searcher for type %s", s.Type())
		}
		byType[s.Type()] = s
	}
	return &searchService{
		searchers: byType,
		settings:  settingService,
		logger:    logger,
	}, nil
}

func (s *searchService) Types() []string {
	types := make([]string, 0, len(s.searchers))
	for t := range s.searchers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Search pages with the company's results_per_page. Pages below one are
// clamped to the first page.
func (s *searchService) Search(ctx context.Context, companyID, searchType, query string, page int) (paging.Page[any], error) {
	searcher, ok := s.searchers[searchType]
	if !ok {
		return paging.Page[any]{}, fmt.Errorf("%s: %w", searchType, search.ErrUnknownType)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return paging.Page[any]{}, search.ErrBlankQuery
	}

	perPage, err := s.settings.Int(ctx, companyID, settings.KeyResultsPerPage)
	if err != nil {
		return paging.Page[any]{}, err
	}

	return searcher.Search(ctx, companyID, query, paging.NewRequest(page, perPage))
}

type clientSearcher struct {
	repo clients.Repository
}

// NewClientSearcher matches clients by name, email, username or company
func NewClientSearcher(repo clients.Repository) search.Searcher {
	return &clientSearcher{repo: repo}
}

func (s *clientSearcher) Type() string { return search.TypeClients }

func (s *clientSearcher) Search(ctx context.Context, companyID, query string, page paging.Request) (paging.Page[any], error) {
	items, total, err := s.repo.List(ctx, &clients.Query{CompanyID: companyID, Search: query, Page: page})
	if err != nil {
		return paging.Page[any]{}, err
	}
	return paging.Map(paging.NewPage(page, items, total), func(c *clients.Client) any { return c }), nil
}

type invoiceSearcher struct {
	repo invoices.Repository
}

// NewInvoiceSearcher matches invoices by their code
func NewInvoiceSearcher(repo invoices.Repository) search.Searcher {
	return &invoiceSearcher{repo: repo}
}

func (s *invoiceSearcher) Type() string { return search.TypeInvoices }

func (s *invoiceSearcher) Search(ctx context.Context, companyID, query string, page paging.Request) (paging.Page[any], error) {
	items, total, err := s.repo.List(ctx, &invoices.Query{
		CompanyID: companyID,
		Status:    invoices.FilterAll,
		Search:    query,
		Page:      page,
	})
	if err != nil {
		return paging.Page[any]{}, err
	}
	return paging.Map(paging.NewPage(page, items, total), func(i *invoices.Invoice) any { return i }), nil
}

type transactionSearcher struct {
	repo transactions.Repository
}

// NewTransactionSearcher matches transactions by reference
func NewTransactionSearcher(repo transactions.Repository) search.Searcher {
	return &transactionSearcher{repo: repo}
}

func (s *transactionSearcher) Type() string { return search.TypeTransactions }

func (s *transactionSearcher) Search(ctx context.Context, companyID, query string, page paging.Request) (paging.Page[any], error) {
	items, total, err := s.repo.List(ctx, &transactions.Query{CompanyID: companyID, Search: query, Page: page})
	if err != nil {
		return paging.Page[any]{}, err
	}
	return paging.Map(paging.NewPage(page, items, total), func(t *transactions.Transaction) any { return t }), nil
}
