//go:build unit
// +build unit

package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormTransactor_Commit(t *testing.T) {
	db, mock := setupMockDB(t)
	transactor := NewGormTransactor(db, testutil.SetupTestLogger(t))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "settings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return conn(ctx, db).Exec(`DELETE FROM "settings" WHERE company_id = ?`, "c1").Error
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactor_RollbackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	transactor := NewGormTransactor(db, testutil.SetupTestLogger(t))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "invoices"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	failure := errors.New("allocation exceeds due")
	err := transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := conn(ctx, db).Exec(`UPDATE "invoices" SET paid = ?`, 1).Error; err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactor_RollbackOnPanic(t *testing.T) {
	db, mock := setupMockDB(t)
	transactor := NewGormTransactor(db, testutil.SetupTestLogger(t))

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
			panic("handler bug")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactor_NestedJoinsOuter(t *testing.T) {
	db, mock := setupMockDB(t)
	transactor := NewGormTransactor(db, testutil.SetupTestLogger(t))

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			calls++
			_, inTx := ctx.Value(txKey{}).(*gorm.DB)
			assert.True(t, inTx)
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
