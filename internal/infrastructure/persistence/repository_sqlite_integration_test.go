//go:build integration
// +build integration

package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingSqliteRepository_UpsertListDelete(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()

	setting := &settings.Setting{CompanyID: companyID, Key: settings.KeyTimezone, Value: "UTC", UpdatedAt: time.Now()}
	require.NoError(t, tc.SettingRepo.Upsert(ctx, setting))

	setting.Value = "Europe/Berlin"
	require.NoError(t, tc.SettingRepo.Upsert(ctx, setting))

	stored, err := tc.SettingRepo.Get(ctx, companyID, settings.KeyTimezone)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Europe/Berlin", stored.Value)

	list, err := tc.SettingRepo.List(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, tc.SettingRepo.Delete(ctx, companyID, settings.KeyTimezone))
	stored, err = tc.SettingRepo.Get(ctx, companyID, settings.KeyTimezone)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestClientSqliteRepository_CreateAndGet(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	companyID := uuid.NewString()

	client := CreateTestClient(t, tc, companyID, "alice")

	var model models.ClientModel
	require.NoError(t, tc.DB.First(&model, "id = ?", client.ID).Error)
	assert.Equal(t, "alice", model.Username)

	fetched, err := tc.ClientRepo.GetByUsername(context.Background(), companyID, "alice")
	require.NoError(t, err)
	assert.Equal(t, client.ID, fetched.ID)

	_, err = tc.ClientRepo.GetByID(context.Background(), uuid.NewString(), client.ID)
	assert.True(t, errors.Is(err, clients.ErrNotFound))
}

func TestClientSqliteRepository_Create_InvalidClient(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)

	err := tc.ClientRepo.Create(context.Background(), &clients.Client{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestClientSqliteRepository_ListPagination(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	companyID := uuid.NewString()

	for _, name := range []string{"anna", "bert", "carl", "dora", "emil"} {
		CreateTestClient(t, tc, companyID, name)
	}
	CreateTestClient(t, tc, uuid.NewString(), "other")

	items, total, err := tc.ClientRepo.List(context.Background(), &clients.Query{
		CompanyID: companyID,
		Page:      paging.NewRequest(2, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, items, 2)

	items, total, err = tc.ClientRepo.List(context.Background(), &clients.Query{
		CompanyID: companyID,
		Page:      paging.NewRequest(9, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, items)

	items, total, err = tc.ClientRepo.List(context.Background(), &clients.Query{
		CompanyID: companyID,
		Search:    "dora@",
		Page:      paging.NewRequest(1, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "dora", items[0].Username)
}

func TestClientSqliteRepository_SearchMatchesLiterally(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	companyID := uuid.NewString()
	CreateTestClient(t, tc, companyID, "anna_b")
	CreateTestClient(t, tc, companyID, "annaxb")

	search := func(text string) []string {
		items, _, err := tc.ClientRepo.List(context.Background(), &clients.Query{
			CompanyID: companyID,
			Search:    text,
			Page:      paging.NewRequest(1, 10),
		})
		require.NoError(t, err)
		usernames := make([]string, 0, len(items))
		for _, item := range items {
			usernames = append(usernames, item.Username)
		}
		return usernames
	}

	assert.Empty(t, search("%"))
	assert.Equal(t, []string{"anna_b"}, search("a_b"))
	assert.ElementsMatch(t, []string{"anna_b", "annaxb"}, search("ANNA"))
	assert.ElementsMatch(t, []string{"anna_b"}, search("test Anna_"))
}

func TestClientSqliteRepository_HasBillingHistory(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()
	client := CreateTestClient(t, tc, companyID, "bob")

	has, err := tc.ClientRepo.HasBillingHistory(ctx, client.ID)
	require.NoError(t, err)
	assert.False(t, has)

	inv := NewTestInvoice(companyID, client.ID, "10.00", time.Now().AddDate(0, 0, 7))
	require.NoError(t, tc.InvoiceRepo.Create(ctx, inv))

	has, err = tc.ClientRepo.HasBillingHistory(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestInvoiceSqliteRepository_CreateUpdateGet(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()
	client := CreateTestClient(t, tc, companyID, "carol")

	inv := NewTestInvoice(companyID, client.ID, "19.99", time.Now().AddDate(0, 0, 14))
	require.NoError(t, tc.InvoiceRepo.Create(ctx, inv))

	fetched, err := tc.InvoiceRepo.GetByID(ctx, companyID, inv.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Lines, 1)
	assert.True(t, decimal.RequireFromString("19.99").Equal(fetched.Total))

	fetched.Lines = append(fetched.Lines, &invoices.Line{
		ID:          uuid.NewString(),
		Description: "Setup fee",
		Quantity:    decimal.NewFromInt(2),
		UnitAmount:  decimal.RequireFromString("5.00"),
		Order:       1,
	})
	fetched.Recalculate(time.Now())
	require.NoError(t, tc.InvoiceRepo.Update(ctx, fetched))

	updated, err := tc.InvoiceRepo.GetForUpdate(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Lines, 2)
	assert.True(t, decimal.RequireFromString("29.99").Equal(updated.Total))

	_, err = tc.InvoiceRepo.GetByID(ctx, uuid.NewString(), inv.ID)
	assert.True(t, errors.Is(err, invoices.ErrNotFound))
}

func TestInvoiceSqliteRepository_ListFiltersAndNumbers(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()
	client := CreateTestClient(t, tc, companyID, "dave")
	now := time.Now().UTC()

	pastDue := NewTestInvoice(companyID, client.ID, "10.00", now.AddDate(0, 0, -3))
	pastDue.IDValue = 7
	open := NewTestInvoice(companyID, client.ID, "20.00", now.AddDate(0, 0, 10))
	closed := NewTestInvoice(companyID, client.ID, "30.00", now.AddDate(0, 0, 10))
	closed.Paid = closed.Total
	closed.SyncClosed(now)
	for _, inv := range []*invoices.Invoice{pastDue, open, closed} {
		require.NoError(t, tc.InvoiceRepo.Create(ctx, inv))
	}

	count := func(status string) int64 {
		_, total, err := tc.InvoiceRepo.List(ctx, &invoices.Query{
			CompanyID: companyID,
			Status:    status,
			Now:       now,
			Page:      paging.NewRequest(1, 10),
		})
		require.NoError(t, err)
		return total
	}
	assert.Equal(t, int64(2), count(invoices.FilterOpen))
	assert.Equal(t, int64(1), count(invoices.FilterClosed))
	assert.Equal(t, int64(1), count(invoices.FilterPastDue))
	assert.Equal(t, int64(3), count(invoices.FilterAll))

	next, err := tc.InvoiceRepo.NextIDValue(ctx, companyID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), next)

	next, err = tc.InvoiceRepo.NextIDValue(ctx, companyID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), next, "every draw advances the sequence")

	next, err = tc.InvoiceRepo.NextIDValue(ctx, companyID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), next, "a raised start skips ahead")

	next, err = tc.InvoiceRepo.NextIDValue(ctx, uuid.NewString(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), next)

	openByClient, err := tc.InvoiceRepo.ListOpenByClient(ctx, client.ID, "USD")
	require.NoError(t, err)
	require.Len(t, openByClient, 2)
	assert.Equal(t, pastDue.ID, openByClient[0].ID, "oldest due first")
}

func TestInvoiceSqliteRepository_Deliveries(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()
	client := CreateTestClient(t, tc, companyID, "erin")
	inv := NewTestInvoice(companyID, client.ID, "10.00", time.Now().AddDate(0, 0, 5))
	require.NoError(t, tc.InvoiceRepo.Create(ctx, inv))

	delivery := &invoices.Delivery{
		ID:        uuid.NewString(),
		InvoiceID: inv.ID,
		Method:    invoices.DeliveryEmail,
		Status:    invoices.DeliveryPending,
		DateAdded: time.Now(),
	}
	require.NoError(t, tc.InvoiceRepo.AddDelivery(ctx, delivery))

	pending, err := tc.InvoiceRepo.ListPendingDeliveries(ctx, companyID, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, tc.InvoiceRepo.MarkDelivered(ctx, delivery.ID, time.Now()))
	pending, err = tc.InvoiceRepo.ListPendingDeliveries(ctx, companyID, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTransactionSqliteRepository_Applications(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()
	client := CreateTestClient(t, tc, companyID, "fred")
	inv := NewTestInvoice(companyID, client.ID, "50.00", time.Now().AddDate(0, 0, 5))
	require.NoError(t, tc.InvoiceRepo.Create(ctx, inv))

	txn := &transactions.Transaction{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		ClientID:  client.ID,
		Type:      transactions.TypeCheck,
		Amount:    decimal.RequireFromString("40.00"),
		Currency:  "USD",
		Status:    transactions.StatusApproved,
		Reference: "CHK-1001",
		DateAdded: time.Now(),
	}
	require.NoError(t, tc.TransactionRepo.Create(ctx, txn))

	apply := func(amount string) {
		require.NoError(t, tc.TransactionRepo.AddApplications(ctx, []*transactions.Application{{
			TransactionID: txn.ID,
			InvoiceID:     inv.ID,
			Amount:        decimal.RequireFromString(amount),
			DateApplied:   time.Now(),
		}}))
	}
	apply("15.00")
	apply("5.00")

	fetched, err := tc.TransactionRepo.GetByID(ctx, companyID, txn.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Applied, 1)
	assert.True(t, decimal.RequireFromString("20.00").Equal(fetched.AppliedTotal()))
	assert.True(t, decimal.RequireFromString("20.00").Equal(fetched.Unapplied()))

	locked, err := tc.TransactionRepo.GetForUpdate(ctx, companyID, txn.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("20.00").Equal(locked.AppliedTotal()))

	_, err = tc.TransactionRepo.GetForUpdate(ctx, uuid.NewString(), txn.ID)
	assert.True(t, errors.Is(err, transactions.ErrNotFound))

	require.NoError(t, tc.TransactionRepo.DeleteApplications(ctx, txn.ID))
	require.NoError(t, tc.TransactionRepo.UpdateStatus(ctx, txn.ID, transactions.StatusVoid))

	approved, err := tc.TransactionRepo.ListApproved(ctx, companyID)
	require.NoError(t, err)
	assert.Empty(t, approved)

	err = tc.TransactionRepo.UpdateStatus(ctx, uuid.NewString(), transactions.StatusVoid)
	assert.True(t, errors.Is(err, transactions.ErrNotFound))
}

func TestTransactionSqliteRepository_SearchReference(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()
	client := CreateTestClient(t, tc, companyID, "gina")

	for _, reference := range []string{`wire\2026`, "WIRE-2026", "50% deposit"} {
		require.NoError(t, tc.TransactionRepo.Create(ctx, &transactions.Transaction{
			ID:        uuid.NewString(),
			CompanyID: companyID,
			ClientID:  client.ID,
			Type:      transactions.TypeOther,
			Amount:    decimal.RequireFromString("10.00"),
			Currency:  "USD",
			Status:    transactions.StatusApproved,
			Reference: reference,
			DateAdded: time.Now(),
		}))
	}

	search := func(text string) int64 {
		_, total, err := tc.TransactionRepo.List(ctx, &transactions.Query{
			CompanyID: companyID,
			Search:    text,
			Page:      paging.NewRequest(1, 10),
		})
		require.NoError(t, err)
		return total
	}

	assert.Equal(t, int64(1), search(`e\2`))
	assert.Equal(t, int64(2), search("wire"))
	assert.Equal(t, int64(1), search("0%"))
	assert.Equal(t, int64(0), search("_"))
}

func TestLogSqliteRepository_ListAndPurge(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		require.NoError(t, tc.LogRepo.Create(ctx, &logs.Entry{
			ID:        uuid.NewString(),
			CompanyID: companyID,
			Type:      logs.TypeUser,
			Summary:   "login",
			Status:    logs.StatusSuccess,
			DateAdded: now.AddDate(0, 0, -i*10),
		}))
	}

	items, total, err := tc.LogRepo.List(ctx, &logs.Query{CompanyID: companyID, Type: logs.TypeUser, Page: paging.NewRequest(1, 2)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.True(t, items[0].DateAdded.After(items[1].DateAdded), "newest first")

	removed, err := tc.LogRepo.DeleteBefore(ctx, companyID, now.AddDate(0, 0, -5))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func TestThemeSqliteRepository_SystemAndCompanyThemes(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()

	system, err := tc.ThemeRepo.List(ctx, companyID, themes.TypeAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, system, "seeded by AutoMigrate")
	assert.True(t, system[0].IsSystem())

	colors := map[string]string{}
	for k, v := range system[0].Colors {
		colors[k] = v
	}
	own := &themes.Theme{
		ID:        uuid.NewString(),
		CompanyID: &companyID,
		Type:      themes.TypeAdmin,
		Name:      "Mine",
		Colors:    colors,
		DateAdded: time.Now(),
	}
	require.NoError(t, tc.ThemeRepo.Create(ctx, own))

	list, err := tc.ThemeRepo.List(ctx, companyID, themes.TypeAdmin)
	require.NoError(t, err)
	assert.Len(t, list, len(system)+1)
	assert.Equal(t, own.ID, list[len(list)-1].ID)

	otherList, err := tc.ThemeRepo.List(ctx, uuid.NewString(), themes.TypeAdmin)
	require.NoError(t, err)
	assert.Len(t, otherList, len(system))

	fetched, err := tc.ThemeRepo.GetByID(ctx, companyID, own.ID)
	require.NoError(t, err)
	assert.Equal(t, colors, fetched.Colors)

	_, err = tc.ThemeRepo.GetByID(ctx, uuid.NewString(), own.ID)
	assert.True(t, errors.Is(err, themes.ErrNotFound))
}

func TestAutoMigrate_Idempotent(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	logger := testutil.SetupTestLogger(t)

	require.NoError(t, AutoMigrate(context.Background(), tc.DB, logger))

	var themeCount, taskCount int64
	require.NoError(t, tc.DB.Model(&models.ThemeModel{}).Count(&themeCount).Error)
	require.NoError(t, tc.DB.Model(&models.CronTaskModel{}).Count(&taskCount).Error)
	assert.Equal(t, int64(len(systemThemes())), themeCount)
	assert.Equal(t, int64(4), taskCount)
}
