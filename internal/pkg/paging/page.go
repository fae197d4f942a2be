// Package paging keeps list and search pagination consistent across modules.
package paging

import "math"

// DefaultPerPage applies when no results_per_page setting is available.
const DefaultPerPage = 20

// MaxPerPage caps caller supplied page sizes.
const MaxPerPage = 100

// Request is a 1-based page request.
type Request struct {
	Page    int
	PerPage int
}

// NewRequest clamps page to >= 1 and perPage to [1, MaxPerPage]. Pages whose
// offset would overflow an int are pinned to the last representable page,
// which is always past the end of any result set.
func NewRequest(page, perPage int) Request {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page > math.MaxInt/perPage {
		page = math.MaxInt / perPage
	}
	return Request{Page: page, PerPage: perPage}
}

// Offset is the number of rows to skip.
func (r Request) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// Limit is the number of rows to fetch.
func (r Request) Limit() int {
	return r.PerPage
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items   []T
	Total   int64
	Page    int
	PerPage int
	Pages   int
}

// NewPage builds a page for the request. Pages past the end have no items
// but still report the real totals.
func NewPage[T any](req Request, items []T, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.PerPage > 0 {
		pages = int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	}
	return Page[T]{
		Items:   items,
		Total:   total,
		Page:    req.Page,
		PerPage: req.PerPage,
		Pages:   pages,
	}
}

// Map converts the items of a page while keeping the counters.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Page[U]{Items: out, Total: p.Total, Page: p.Page, PerPage: p.PerPage, Pages: p.Pages}
}
