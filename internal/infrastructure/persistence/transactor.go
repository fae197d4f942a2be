package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/uow"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
)

type txKey struct{}

type gormTransactor struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormTransactor creates a Transactor that stores the open transaction in the context
func NewGormTransactor(db *gorm.DB, logger logger.Logger) uow.Transactor {
	return &gormTransactor{
		db:     db,
		logger: logger,
	}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	// gorm rolls back when fn returns an error or panics
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err != nil {
		t.logger.Debug("Rolled back transaction: ", err.Error())
		return err
	}
	return nil
}

// conn returns the transaction bound to ctx, or db when there is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// notFound wraps gorm.ErrRecordNotFound into the domain sentinel
func notFound(err, sentinel error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s with ID %s: %w", what, id, sentinel)
	}
	return fmt.Errorf("failed to fetch %s: %w", what, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereContains matches text as a literal, case-insensitive substring of any
// of the columns
func whereContains(db *gorm.DB, text string, columns ...string) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
	conditions := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		conditions[i] = "LOWER(" + column + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return db.Where(strings.Join(conditions, " OR "), args...)
}
