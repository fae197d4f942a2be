//go:build integration
// +build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/reports"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/search"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSettingService_Operations(t *testing.T) {
	t.Run("defaults are returned until a value is stored", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()

		value, err := services.SettingService.Get(ctx, services.CompanyID, settings.KeyDefaultCurrency)
		require.NoError(t, err)
		require.Equal(t, "USD", value)

		require.NoError(t, services.SettingService.Update(ctx, services.CompanyID, map[string]string{
			settings.KeyDefaultCurrency: "EUR",
			settings.KeyResultsPerPage:  "5",
		}))

		all, err := services.SettingService.GetAll(ctx, services.CompanyID)
		require.NoError(t, err)
		require.Equal(t, "EUR", all[settings.KeyDefaultCurrency])
		require.Equal(t, "5", all[settings.KeyResultsPerPage])

		require.NoError(t, services.SettingService.Reset(ctx, services.CompanyID, settings.KeyDefaultCurrency))
		value, err = services.SettingService.Get(ctx, services.CompanyID, settings.KeyDefaultCurrency)
		require.NoError(t, err)
		require.Equal(t, "USD", value)
	})

	t.Run("one invalid value leaves every setting untouched", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()

		err := services.SettingService.Update(ctx, services.CompanyID, map[string]string{
			settings.KeyDefaultCurrency: "EUR",
			settings.KeyTimezone:        "Mars/Olympus",
		})
		require.Error(t, err)
		fieldErrs, ok := validation.As(err)
		require.True(t, ok)
		require.Contains(t, fieldErrs, settings.KeyTimezone)

		value, err := services.SettingService.Get(ctx, services.CompanyID, settings.KeyDefaultCurrency)
		require.NoError(t, err)
		require.Equal(t, "USD", value)
	})

	t.Run("welcome markup is sanitized before it is stored", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()

		require.NoError(t, services.SettingService.Update(ctx, services.CompanyID, map[string]string{
			settings.KeyClientPortalWelcome: `<h2>Welcome</h2><script>alert(1)</script>`,
		}))

		value, err := services.SettingService.Get(ctx, services.CompanyID, settings.KeyClientPortalWelcome)
		require.NoError(t, err)
		require.Equal(t, `<h2>Welcome</h2>`, value)
	})

	t.Run("unknown currencies are rejected", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)

		err := services.SettingService.Update(context.Background(), services.CompanyID, map[string]string{
			settings.KeyDefaultCurrency: "XYZ",
		})
		fieldErrs, ok := validation.As(err)
		require.True(t, ok)
		require.Contains(t, fieldErrs, settings.KeyDefaultCurrency)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)

		err := services.SettingService.Update(context.Background(), services.CompanyID, map[string]string{"no_such_key": "1"})
		require.Error(t, err)
	})
}

func TestClientService_Operations(t *testing.T) {
	t.Run("create authenticate and delete", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()

		client := services.CreateClient(t, "alice")
		require.Equal(t, clients.StatusActive, client.Status)
		require.NotEqual(t, "secret-password", client.PasswordHash)

		authenticated, err := services.ClientService.Authenticate(ctx, services.CompanyID, "alice", "secret-password")
		require.NoError(t, err)
		require.Equal(t, client.ID, authenticated.ID)

		_, err = services.ClientService.Authenticate(ctx, services.CompanyID, "alice", "wrong-password")
		require.Error(t, err)

		require.NoError(t, services.ClientService.Delete(ctx, services.CompanyID, client.ID))
		_, err = services.ClientService.GetByID(ctx, services.CompanyID, client.ID)
		require.ErrorIs(t, err, clients.ErrNotFound)
	})

	t.Run("usernames are unique per company", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		services.CreateClient(t, "bob")

		_, err := services.ClientService.Create(context.Background(), services.CompanyID, &clients.Input{
			Username:  "bob",
			Email:     "other@example.com",
			FirstName: "Other",
			LastName:  "Bob",
			Password:  "secret-password",
		})
		require.ErrorIs(t, err, clients.ErrUsernameTaken)
	})

	t.Run("clients with invoices cannot be deleted", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		client := services.CreateClient(t, "carol")
		services.CreateInvoice(t, client.ID, "10.00", time.Now().UTC())

		err := services.ClientService.Delete(context.Background(), services.CompanyID, client.ID)
		require.ErrorIs(t, err, clients.ErrHasBillingHistory)
	})
}

func TestInvoiceService_Operations(t *testing.T) {
	t.Run("active invoices are numbered from the invoice settings", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		require.NoError(t, services.SettingService.Update(ctx, services.CompanyID, map[string]string{
			settings.KeyInvoiceFormat:  "INV-{num}",
			settings.KeyInvoiceStart:   "1500",
			settings.KeyInvoicePadSize: "6",
		}))
		client := services.CreateClient(t, "dave")

		first := services.CreateInvoice(t, client.ID, "10.00", time.Now().UTC())
		second := services.CreateInvoice(t, client.ID, "20.00", time.Now().UTC())

		require.Equal(t, int64(1500), first.IDValue)
		require.Equal(t, "INV-001500", first.IDCode)
		require.Equal(t, int64(1501), second.IDValue)
	})

	t.Run("totals include tax on taxable lines only", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		client := services.CreateClient(t, "erin")
		rate := decimal.RequireFromString("10")
		now := time.Now().UTC()

		invoice, err := services.InvoiceService.Create(context.Background(), services.CompanyID, &invoices.Input{
			ClientID:   client.ID,
			Status:     invoices.StatusActive,
			TaxRate:    &rate,
			DateBilled: now,
			DateDue:    now.AddDate(0, 0, 7),
			Lines: []invoices.LineInput{
				{Description: "Hosting", Quantity: decimal.NewFromInt(2), UnitAmount: decimal.RequireFromString("5.00"), Taxable: true},
				{Description: "Setup", Quantity: decimal.NewFromInt(1), UnitAmount: decimal.RequireFromString("3.00")},
			},
		})
		require.NoError(t, err)
		require.Equal(t, "13.00", invoice.Subtotal.StringFixed(2))
		require.Equal(t, "1.00", invoice.Tax.StringFixed(2))
		require.Equal(t, "14.00", invoice.Total.StringFixed(2))
	})

	t.Run("drafts get no number and may be deleted", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		client := services.CreateClient(t, "frank")
		now := time.Now().UTC()

		draft, err := services.InvoiceService.Create(ctx, services.CompanyID, &invoices.Input{
			ClientID:   client.ID,
			Status:     invoices.StatusDraft,
			DateBilled: now,
			DateDue:    now,
			Lines:      []invoices.LineInput{{Description: "Hosting", Quantity: decimal.NewFromInt(1), UnitAmount: decimal.NewFromInt(5)}},
		})
		require.NoError(t, err)
		require.Zero(t, draft.IDValue)

		require.NoError(t, services.InvoiceService.DeleteDraft(ctx, services.CompanyID, draft.ID))

		active := services.CreateInvoice(t, client.ID, "5.00", now)
		err = services.InvoiceService.DeleteDraft(ctx, services.CompanyID, active.ID)
		require.ErrorIs(t, err, invoices.ErrNotDraft)
	})

	t.Run("void is refused once payments are applied", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		client := services.CreateClient(t, "grace")
		invoice := services.CreateInvoice(t, client.ID, "50.00", time.Now().UTC())

		_, err := services.TransactionService.Record(ctx, services.CompanyID, &transactions.Input{
			ClientID:    client.ID,
			Type:        transactions.TypeCash,
			Amount:      decimal.RequireFromString("10.00"),
			Allocations: []transactions.Allocation{{InvoiceID: invoice.ID, Amount: decimal.RequireFromString("10.00")}},
		})
		require.NoError(t, err)

		_, err = services.InvoiceService.Void(ctx, services.CompanyID, invoice.ID)
		require.ErrorIs(t, err, invoices.ErrHasPayments)
	})

	t.Run("deliver queues a pending delivery", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		client := services.CreateClient(t, "heidi")
		invoice := services.CreateInvoice(t, client.ID, "5.00", time.Now().UTC())

		delivery, err := services.InvoiceService.Deliver(context.Background(), services.CompanyID, invoice.ID, "")
		require.NoError(t, err)
		require.Equal(t, invoices.DeliveryEmail, delivery.Method)
		require.Equal(t, invoices.DeliveryPending, delivery.Status)
	})
}

func TestTransactionService_Operations(t *testing.T) {
	t.Run("auto apply pays the oldest invoice first and keeps the rest as credit", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		client := services.CreateClient(t, "ivan")
		now := time.Now().UTC()
		older := services.CreateInvoice(t, client.ID, "30.00", now.AddDate(0, 0, -10))
		newer := services.CreateInvoice(t, client.ID, "30.00", now)

		txn, err := services.TransactionService.Record(ctx, services.CompanyID, &transactions.Input{
			ClientID:  client.ID,
			Type:      transactions.TypeCheck,
			Amount:    decimal.RequireFromString("45.00"),
			AutoApply: true,
		})
		require.NoError(t, err)
		require.Equal(t, "0.00", txn.Unapplied().StringFixed(2))

		paid, err := services.InvoiceService.GetByID(ctx, services.CompanyID, older.ID)
		require.NoError(t, err)
		require.NotNil(t, paid.DateClosed)

		partial, err := services.InvoiceService.GetByID(ctx, services.CompanyID, newer.ID)
		require.NoError(t, err)
		require.Equal(t, "15.00", partial.Paid.StringFixed(2))
		require.Nil(t, partial.DateClosed)
	})

	t.Run("applying more than the unapplied amount fails", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		client := services.CreateClient(t, "judy")
		invoice := services.CreateInvoice(t, client.ID, "100.00", time.Now().UTC())

		txn, err := services.TransactionService.Record(ctx, services.CompanyID, &transactions.Input{
			ClientID: client.ID,
			Type:     transactions.TypeCash,
			Amount:   decimal.RequireFromString("20.00"),
		})
		require.NoError(t, err)

		_, err = services.TransactionService.Apply(ctx, services.CompanyID, txn.ID, []transactions.Allocation{
			{InvoiceID: invoice.ID, Amount: decimal.RequireFromString("25.00")},
		})
		require.ErrorIs(t, err, transactions.ErrExceedsUnapplied)

		credit, err := services.TransactionService.ListWithCredit(ctx, services.CompanyID)
		require.NoError(t, err)
		require.Len(t, credit, 1)
	})

	t.Run("void reopens paid invoices", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		client := services.CreateClient(t, "mallory")
		invoice := services.CreateInvoice(t, client.ID, "10.00", time.Now().UTC())

		txn, err := services.TransactionService.Record(ctx, services.CompanyID, &transactions.Input{
			ClientID:  client.ID,
			Type:      transactions.TypeCash,
			Amount:    decimal.RequireFromString("10.00"),
			AutoApply: true,
		})
		require.NoError(t, err)

		closed, err := services.InvoiceService.GetByID(ctx, services.CompanyID, invoice.ID)
		require.NoError(t, err)
		require.NotNil(t, closed.DateClosed)

		voided, err := services.TransactionService.Void(ctx, services.CompanyID, txn.ID)
		require.NoError(t, err)
		require.Equal(t, transactions.StatusVoid, voided.Status)
		require.Empty(t, voided.Applied)

		reopened, err := services.InvoiceService.GetByID(ctx, services.CompanyID, invoice.ID)
		require.NoError(t, err)
		require.Nil(t, reopened.DateClosed)
		require.True(t, reopened.Paid.IsZero())

		_, err = services.TransactionService.Void(ctx, services.CompanyID, txn.ID)
		require.ErrorIs(t, err, transactions.ErrAlreadyVoid)
	})
}

func TestSearchService_Search(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	services.CreateClient(t, "oscar")
	services.CreateClient(t, "peggy")

	page, err := services.SearchService.Search(ctx, services.CompanyID, search.TypeClients, "oscar", 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	client, ok := page.Items[0].(*clients.Client)
	require.True(t, ok)
	require.Equal(t, "oscar", client.Username)

	_, err = services.SearchService.Search(ctx, services.CompanyID, "servers", "oscar", 1)
	require.ErrorIs(t, err, search.ErrUnknownType)
}

func TestReportService_Generate(t *testing.T) {
	t.Run("invoice creation lists invoices billed in range", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		client := services.CreateClient(t, "trent")
		billed := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
		invoice := services.CreateInvoice(t, client.ID, "42.00", billed)
		services.CreateInvoice(t, client.ID, "7.00", billed.AddDate(0, 2, 0))

		result, err := services.ReportService.Generate(ctx, services.CompanyID, "invoice_creation", reports.Params{
			Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		})
		require.NoError(t, err)
		require.Equal(t, "Invoice Creation", result.Name)
		require.Len(t, result.Rows, 1)
		require.Equal(t, invoice.IDCode, result.Rows[0][0])
		require.Equal(t, "Test Client", result.Rows[0][1])
		require.Equal(t, "2024-03-10", result.Rows[0][3])
		require.Equal(t, "42.00", result.Rows[0][7])
	})

	t.Run("aging buckets open invoices by days past due", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		client := services.CreateClient(t, "victor")
		now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
		// due dates are billed + 14 days
		services.CreateInvoice(t, client.ID, "10.00", now.AddDate(0, 0, -14))
		services.CreateInvoice(t, client.ID, "20.00", now.AddDate(0, 0, -14-45))
		services.CreateInvoice(t, client.ID, "30.00", now.AddDate(0, 0, -14-120))

		result, err := services.ReportService.Generate(ctx, services.CompanyID, "aging_invoices", reports.Params{Now: now})
		require.NoError(t, err)
		require.Equal(t, []string{"currency", "invoices", "current", "1-30", "31-60", "61-90", "90+", "total"}, result.Columns)
		require.Equal(t, [][]string{{"USD", "3", "10.00", "0.00", "20.00", "0.00", "30.00", "60.00"}}, result.Rows)
	})

	t.Run("tax liability skips void invoices", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		client := services.CreateClient(t, "wendy")
		billed := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
		services.CreateInvoice(t, client.ID, "10.00", billed)
		voided := services.CreateInvoice(t, client.ID, "99.00", billed)
		_, err := services.InvoiceService.Void(ctx, services.CompanyID, voided.ID)
		require.NoError(t, err)

		result, err := services.ReportService.Generate(ctx, services.CompanyID, "tax_liability", reports.Params{
			Start: billed.AddDate(0, 0, -1),
			End:   billed.AddDate(0, 0, 1),
		})
		require.NoError(t, err)
		require.Equal(t, [][]string{{"USD", "1", "10.00", "0.00", "10.00"}}, result.Rows)
	})

	t.Run("unknown reports are rejected", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)

		_, err := services.ReportService.Generate(context.Background(), services.CompanyID, "profit", reports.Params{})
		require.ErrorIs(t, err, reports.ErrUnknownReport)

		keys := []string{}
		for _, info := range services.ReportService.List() {
			keys = append(keys, info.Key)
		}
		require.Equal(t, []string{"aging_invoices", "invoice_creation", "tax_liability"}, keys)
	})
}
