// Package uow defines the unit of work boundary used by services that update
// several rows at once.
package uow

import "context"

// Transactor runs fn inside a database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise. Calls nested in fn
// join the outer transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
