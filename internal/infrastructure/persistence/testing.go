//go:build integration
// +build integration

package persistence

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/uow"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB              *gorm.DB
	Transactor      uow.Transactor
	SettingRepo     settings.Repository
	ClientRepo      clients.Repository
	InvoiceRepo     invoices.Repository
	AccountRepo     accounts.Repository
	TransactionRepo transactions.Repository
	LogRepo         logs.Repository
	ThemeRepo       themes.Repository
	PluginRepo      PluginRepository
	StaffRepo       staff.Repository
	CronRepo        cron.Repository
	Locker          cron.Locker
}

// SetupTestDB initializes test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settingsCfg config.DatabaseSettings
	var cleanupFunc func()

	switch dbType {
	case config.SqliteDbType:
		settingsCfg = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}
		cleanupFunc = func() {
			// SQLite in-memory cleanup is automatic
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settingsCfg = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settingsCfg)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	logger := testutil.SetupTestLogger(t)

	err = AutoMigrate(context.Background(), db, logger)
	require.NoError(t, err, "Failed to migrate schema")

	tc := &TestContext{
		DB:         db,
		Transactor: NewGormTransactor(db, logger),
		Locker:     NewGormLocker(db, logger),
	}

	tc.SettingRepo, err = NewGormSettingRepository(db, logger)
	require.NoError(t, err)
	tc.ClientRepo, err = NewGormClientRepository(db, logger)
	require.NoError(t, err)
	tc.InvoiceRepo, err = NewGormInvoiceRepository(db, logger)
	require.NoError(t, err)
	tc.AccountRepo, err = NewGormAccountRepository(db, logger)
	require.NoError(t, err)
	tc.TransactionRepo, err = NewGormTransactionRepository(db, logger)
	require.NoError(t, err)
	tc.LogRepo, err = NewGormLogRepository(db, logger)
	require.NoError(t, err)
	tc.ThemeRepo, err = NewGormThemeRepository(db, logger)
	require.NoError(t, err)
	tc.PluginRepo, err = NewGormPluginRepository(db, logger)
	require.NoError(t, err)
	tc.StaffRepo, err = NewGormStaffRepository(db, logger)
	require.NoError(t, err)
	tc.CronRepo, err = NewGormCronRepository(db, logger)
	require.NoError(t, err)

	return tc
}

// CreateTestClient stores an active client of companyID
func CreateTestClient(t *testing.T, tc *TestContext, companyID, username string) *clients.Client {
	t.Helper()
	return CreateTestClientCtx(t, context.Background(), tc, companyID, username)
}

// CreateTestClientCtx stores an active client using ctx, joining its transaction
func CreateTestClientCtx(t *testing.T, ctx context.Context, tc *TestContext, companyID, username string) *clients.Client {
	t.Helper()

	client := &clients.Client{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     strings.ToUpper(username[:1]) + username[1:],
		Status:       clients.StatusActive,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		DateAdded:    time.Now().UTC(),
	}
	require.NoError(t, tc.ClientRepo.Create(ctx, client))
	return client
}

// NewTestInvoice builds an active invoice with one taxable line of amount
func NewTestInvoice(companyID, clientID string, amount string, due time.Time) *invoices.Invoice {
	inv := &invoices.Invoice{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		ClientID:   clientID,
		Status:     invoices.StatusActive,
		Currency:   "USD",
		TaxRate:    decimal.Zero,
		DateBilled: due.AddDate(0, 0, -7),
		DateDue:    due,
		Lines: []*invoices.Line{{
			ID:          uuid.NewString(),
			Description: "Hosting",
			Quantity:    decimal.NewFromInt(1),
			UnitAmount:  decimal.RequireFromString(amount),
			Taxable:     true,
		}},
	}
	inv.Recalculate(due)
	return inv
}
