//go:build integration
// +build integration

package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCard(clientID, expiration string) *accounts.Account {
	return &accounts.Account{
		ID:              uuid.NewString(),
		ClientID:        clientID,
		Type:            accounts.TypeCC,
		FirstName:       "Ada",
		LastName:        "Lovelace",
		LastFour:        "4242",
		CardType:        accounts.CardVisa,
		Expiration:      expiration,
		EncryptedNumber: []byte("ciphertext"),
		Status:          accounts.StatusActive,
		DateAdded:       time.Now().UTC(),
	}
}

func TestAccountSqliteRepository_ListActiveAndExpiring(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()
	client := CreateTestClient(t, tc, companyID, "carol")
	other := CreateTestClient(t, tc, uuid.NewString(), "dave")

	expiring := newTestCard(client.ID, "202611")
	later := newTestCard(client.ID, "202801")
	foreign := newTestCard(other.ID, "202611")
	for _, a := range []*accounts.Account{expiring, later, foreign} {
		require.NoError(t, tc.AccountRepo.Create(ctx, a))
	}

	later.Status = accounts.StatusInactive
	require.NoError(t, tc.AccountRepo.Update(ctx, later))

	active, err := tc.AccountRepo.ListActive(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, expiring.ID, active[0].ID)

	list, err := tc.AccountRepo.ListExpiring(ctx, companyID, "202611")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, expiring.ID, list[0].ID)

	_, err = tc.AccountRepo.GetByID(ctx, other.ID, expiring.ID)
	assert.True(t, errors.Is(err, accounts.ErrNotFound))
}

func TestStaffSqliteRepository_CreateGetAndCompanies(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()

	member := &staff.Staff{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		Username:     "admin",
		Email:        "admin@example.com",
		FirstName:    "Grace",
		LastName:     "Hopper",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Status:       staff.StatusActive,
		DateAdded:    time.Now().UTC(),
	}
	require.NoError(t, tc.StaffRepo.Create(ctx, member))

	member.TOTPSecret = []byte("sealed")
	member.TOTPEnabled = true
	require.NoError(t, tc.StaffRepo.Update(ctx, member))

	fetched, err := tc.StaffRepo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, member.ID, fetched.ID)
	assert.True(t, fetched.TOTPEnabled)
	assert.Equal(t, []byte("sealed"), fetched.TOTPSecret)

	_, err = tc.StaffRepo.GetByID(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, staff.ErrNotFound))

	companies, err := tc.StaffRepo.CompanyIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{companyID}, companies)
}

func TestPluginSqliteRepository_EnabledDirs(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()

	newPlugin := func(dir string, enabled bool) *plugins.Plugin {
		return &plugins.Plugin{
			ID:            uuid.NewString(),
			CompanyID:     companyID,
			Dir:           dir,
			Name:          dir,
			Version:       "1.0.0",
			Enabled:       enabled,
			DateInstalled: time.Now().UTC(),
		}
	}
	require.NoError(t, tc.PluginRepo.Create(ctx, newPlugin("domains", true)))
	require.NoError(t, tc.PluginRepo.Create(ctx, newPlugin("support", false)))
	assert.Error(t, tc.PluginRepo.Create(ctx, newPlugin("domains", true)))

	dirs, err := tc.PluginRepo.EnabledDirs(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"domains": true}, dirs)

	installed, err := tc.PluginRepo.List(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, installed, 2)

	_, err = tc.PluginRepo.GetByDir(ctx, companyID, "billing")
	assert.True(t, errors.Is(err, plugins.ErrNotFound))
}
