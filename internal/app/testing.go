//go:build integration
// +build integration

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/reports"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/search"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/cryptography"
	pluginloader "github.com/JsAppNinja/blesta-sub003/internal/infrastructure/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testEncryptionKey is a 32 byte AES key used by integration tests
var testEncryptionKey = []byte("0123456789abcdef0123456789abcdef")

// testPluginManifest is written to the plugin directory of every test run
const testPluginManifest = `name: Reminders
version: 1.0.0
description: Sends <b>friendly</b> reminders
authors:
  - name: Billing Team
cron_tasks:
  - key: send_reminders
    name: Send reminders
    type: interval
    interval: 5
`

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	CompanyID string

	SettingService     settings.Service
	ClientService      clients.Service
	StaffService       staff.Service
	LogService         logs.Service
	InvoiceService     invoices.Service
	AccountService     accounts.Service
	TransactionService transactions.Service
	ThemeService       themes.Service
	CronService        cron.Service
	PluginService      plugins.Service
	Authenticator      identity.Authenticator
	SearchService      search.Service
	ReportService      reports.Service

	Registry   *cron.Registry
	Hasher     identity.PasswordHasher
	OTP        identity.OTPProvider
	PluginRoot string

	// Infrastructure
	DBContext *persistence.TestContext
}

// SetupTestServices initializes all application services for integration tests
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	ts := &TestServices{
		CompanyID:  uuid.NewString(),
		DBContext:  dbContext,
		Registry:   cron.NewRegistry(),
		Hasher:     cryptography.NewBcryptHasher(4),
		OTP:        cryptography.NewTOTPProvider("Billing Test"),
		PluginRoot: t.TempDir(),
	}

	pluginDir := filepath.Join(ts.PluginRoot, "reminders")
	require.NoError(t, os.MkdirAll(pluginDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, plugins.ManifestFile), []byte(testPluginManifest), 0o644))

	cipher, err := cryptography.NewAESCipher(testEncryptionKey, logger)
	require.NoError(t, err, "Failed to create cipher")

	ts.SettingService, err = NewSettingService(dbContext.SettingRepo, dbContext.Transactor, logger)
	require.NoError(t, err)
	ts.ClientService, err = NewClientService(dbContext.ClientRepo, ts.Hasher, logger)
	require.NoError(t, err)
	ts.StaffService, err = NewStaffService(dbContext.StaffRepo, ts.Hasher, logger)
	require.NoError(t, err)
	ts.LogService, err = NewLogService(dbContext.LogRepo, logger)
	require.NoError(t, err)
	ts.InvoiceService, err = NewInvoiceService(dbContext.InvoiceRepo, dbContext.ClientRepo, ts.SettingService, dbContext.Transactor, logger)
	require.NoError(t, err)
	ts.AccountService, err = NewAccountService(dbContext.AccountRepo, dbContext.ClientRepo, cipher, ts.LogService, logger)
	require.NoError(t, err)
	ts.TransactionService, err = NewTransactionService(dbContext.TransactionRepo, dbContext.InvoiceRepo, dbContext.ClientRepo, ts.SettingService, dbContext.Transactor, logger)
	require.NoError(t, err)
	ts.ThemeService, err = NewThemeService(dbContext.ThemeRepo, ts.SettingService, nil, logger)
	require.NoError(t, err)

	handlers := &SystemTaskHandlers{
		Settings:     ts.SettingService,
		Logs:         ts.LogService,
		CronRepo:     dbContext.CronRepo,
		InvoiceRepo:  dbContext.InvoiceRepo,
		Transactions: ts.TransactionService,
		Accounts:     ts.AccountService,
		Logger:       logger,
	}
	handlers.Register(ts.Registry)

	ts.CronService, err = NewCronService(dbContext.CronRepo, dbContext.Locker, dbContext.PluginRepo, ts.Registry, ts.SettingService, nil, time.Hour, logger)
	require.NoError(t, err)

	loader, err := pluginloader.NewDirManifestLoader(ts.PluginRoot, logger)
	require.NoError(t, err)
	ts.PluginService, err = NewPluginService(dbContext.PluginRepo, loader, ts.CronService, dbContext.Transactor, logger)
	require.NoError(t, err)

	tokens := cryptography.NewJWTIssuer("integration-secret", time.Hour)
	ts.Authenticator, err = NewAuthenticator(dbContext.StaffRepo, ts.ClientService, ts.Hasher, cipher, ts.OTP, tokens, ts.LogService, logger)
	require.NoError(t, err)

	ts.SearchService, err = NewSearchService(ts.SettingService, logger,
		NewClientSearcher(dbContext.ClientRepo),
		NewInvoiceSearcher(dbContext.InvoiceRepo),
		NewTransactionSearcher(dbContext.TransactionRepo),
	)
	require.NoError(t, err)

	ts.ReportService, err = NewReportService(logger,
		NewInvoiceCreationReport(dbContext.InvoiceRepo, dbContext.ClientRepo, ts.SettingService),
		NewAgingInvoicesReport(dbContext.InvoiceRepo),
		NewTaxLiabilityReport(dbContext.InvoiceRepo),
	)
	require.NoError(t, err)

	return ts
}

// CreateClient creates an active client through the client service
func (ts *TestServices) CreateClient(t *testing.T, username string) *clients.Client {
	t.Helper()

	client, err := ts.ClientService.Create(context.Background(), ts.CompanyID, &clients.Input{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "Client",
		Password:  "secret-password",
	})
	require.NoError(t, err)
	return client
}

// CreateInvoice creates an active invoice of one untaxed line
func (ts *TestServices) CreateInvoice(t *testing.T, clientID, amount string, billed time.Time) *invoices.Invoice {
	t.Helper()

	invoice, err := ts.InvoiceService.Create(context.Background(), ts.CompanyID, &invoices.Input{
		ClientID:   clientID,
		Status:     invoices.StatusActive,
		DateBilled: billed,
		DateDue:    billed.AddDate(0, 0, 14),
		Lines: []invoices.LineInput{{
			Description: "Hosting",
			Quantity:    decimal.NewFromInt(1),
			UnitAmount:  decimal.RequireFromString(amount),
		}},
	})
	require.NoError(t, err)
	return invoice
}
