//go:build integration
// +build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestThemeService_Operations(t *testing.T) {
	t.Run("custom themes copy the system colors and can be activated", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()

		system, err := services.ThemeService.Active(ctx, services.CompanyID, themes.TypeAdmin)
		require.NoError(t, err)
		require.True(t, system.IsSystem())

		custom, err := services.ThemeService.Create(ctx, services.CompanyID, &themes.Input{Type: themes.TypeAdmin, Name: "Night"})
		require.NoError(t, err)
		require.Equal(t, system.Colors, custom.Colors)

		_, err = services.ThemeService.Activate(ctx, services.CompanyID, custom.ID)
		require.NoError(t, err)

		active, err := services.ThemeService.Active(ctx, services.CompanyID, themes.TypeAdmin)
		require.NoError(t, err)
		require.Equal(t, custom.ID, active.ID)

		err = services.ThemeService.Delete(ctx, services.CompanyID, custom.ID)
		require.ErrorIs(t, err, themes.ErrThemeInUse)
	})

	t.Run("system themes are read only", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()

		system, err := services.ThemeService.Active(ctx, services.CompanyID, themes.TypeClient)
		require.NoError(t, err)

		_, err = services.ThemeService.Update(ctx, services.CompanyID, system.ID, &themes.Input{Type: themes.TypeClient, Name: "Mine"})
		require.ErrorIs(t, err, themes.ErrSystemTheme)
		require.ErrorIs(t, services.ThemeService.Delete(ctx, services.CompanyID, system.ID), themes.ErrSystemTheme)
	})

	t.Run("logo upload needs asset storage", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()

		custom, err := services.ThemeService.Create(ctx, services.CompanyID, &themes.Input{Type: themes.TypeClient, Name: "Bright"})
		require.NoError(t, err)

		_, err = services.ThemeService.UploadLogo(ctx, services.CompanyID, custom.ID, "logo.png", nil)
		require.ErrorIs(t, err, themes.ErrNoAssets)
	})
}

func TestPluginService_Operations(t *testing.T) {
	t.Run("install registers the plugin tasks", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()

		available, err := services.PluginService.Available(ctx, services.CompanyID)
		require.NoError(t, err)
		require.Len(t, available, 1)
		require.Equal(t, "reminders", available[0].Dir)
		require.Equal(t, "Sends friendly reminders", available[0].Manifest.Description)
		require.Nil(t, available[0].Installed)

		plugin, err := services.PluginService.Install(ctx, services.CompanyID, "reminders")
		require.NoError(t, err)
		require.True(t, plugin.Enabled)

		_, err = services.PluginService.Install(ctx, services.CompanyID, "reminders")
		require.ErrorIs(t, err, plugins.ErrAlreadyInstalled)

		tasks, err := services.CronService.ListTasks(ctx, services.CompanyID)
		require.NoError(t, err)
		keys := map[string]bool{}
		for _, run := range tasks {
			keys[run.Task.Key] = true
		}
		require.True(t, keys["send_reminders"])

		_, err = services.PluginService.Upgrade(ctx, services.CompanyID, plugin.ID)
		require.ErrorIs(t, err, plugins.ErrNoUpgrade)

		require.NoError(t, services.PluginService.Uninstall(ctx, services.CompanyID, plugin.ID))
		_, err = services.CronService.RunTask(ctx, services.CompanyID, "send_reminders", time.Now())
		require.ErrorIs(t, err, cron.ErrNotFound)
	})

	t.Run("missing manifests are reported", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)

		_, err := services.PluginService.Install(context.Background(), services.CompanyID, "missing")
		require.ErrorIs(t, err, plugins.ErrManifestNotFound)
	})
}

func TestCronService_Operations(t *testing.T) {
	t.Run("run due executes built-in tasks once per interval", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		now := time.Date(2024, 7, 2, 12, 0, 0, 0, time.UTC)

		first, err := services.CronService.RunDue(ctx, services.CompanyID, now)
		require.NoError(t, err)
		require.Len(t, first.Tasks, len(cron.SystemTasks()))
		require.Zero(t, first.Failed())

		second, err := services.CronService.RunDue(ctx, services.CompanyID, now.Add(time.Minute))
		require.NoError(t, err)
		require.Empty(t, second.Tasks)

		third, err := services.CronService.RunDue(ctx, services.CompanyID, now.Add(5*time.Minute))
		require.NoError(t, err)
		require.Len(t, third.Tasks, 1)
		require.Equal(t, cron.TaskDeliverInvoices, third.Tasks[0].Key)

		runLogs, err := services.CronService.ListRunLogs(ctx, &cron.LogQuery{CompanyID: services.CompanyID, Group: cron.GroupSystem, Page: paging.NewRequest(1, 50)})
		require.NoError(t, err)
		require.Equal(t, int64(len(cron.SystemTasks())+1), runLogs.Total)
	})

	t.Run("deliver invoices records an email log", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		client := services.CreateClient(t, "quentin")
		invoice := services.CreateInvoice(t, client.ID, "12.00", time.Now().UTC())
		_, err := services.InvoiceService.Deliver(ctx, services.CompanyID, invoice.ID, invoices.DeliveryEmail)
		require.NoError(t, err)

		result, err := services.CronService.RunTask(ctx, services.CompanyID, cron.TaskDeliverInvoices, time.Now())
		require.NoError(t, err)
		require.Equal(t, "Delivered 1 invoice(s).", result.Tasks[0].Output)

		entries, err := services.LogService.List(ctx, &logs.Query{CompanyID: services.CompanyID, Type: logs.TypeEmail, Page: paging.NewRequest(1, 10)})
		require.NoError(t, err)
		require.Equal(t, int64(1), entries.Total)
	})

	t.Run("plugin tasks without a handler fail in the run log", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		plugin, err := services.PluginService.Install(ctx, services.CompanyID, "reminders")
		require.NoError(t, err)

		result, err := services.CronService.RunTask(ctx, services.CompanyID, "send_reminders", time.Now())
		require.NoError(t, err)
		require.Equal(t, cron.StatusError, result.Tasks[0].Status)
		require.Contains(t, result.Tasks[0].Error, "no handler is registered")

		services.Registry.Register("send_reminders", func(ctx context.Context, companyID string, now time.Time) (string, error) {
			return "Sent 0 reminders.", nil
		})
		result, err = services.CronService.RunTask(ctx, services.CompanyID, "send_reminders", time.Now())
		require.NoError(t, err)
		require.Equal(t, cron.StatusSuccess, result.Tasks[0].Status)

		_, err = services.PluginService.Disable(ctx, services.CompanyID, plugin.ID)
		require.NoError(t, err)
		_, err = services.CronService.RunTask(ctx, services.CompanyID, "send_reminders", time.Now())
		require.ErrorIs(t, err, cron.ErrDisabled)
	})

	t.Run("a held lock refuses a second run", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()

		acquired, err := services.DBContext.Locker.Acquire(ctx, LockName(services.CompanyID), "other-process", time.Hour)
		require.NoError(t, err)
		require.True(t, acquired)

		_, err = services.CronService.RunDue(ctx, services.CompanyID, time.Now())
		require.ErrorIs(t, err, cron.ErrLocked)
	})

	t.Run("runs can be disabled", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		_, err := services.CronService.RunDue(ctx, services.CompanyID, time.Now())
		require.NoError(t, err)

		tasks, err := services.CronService.ListTasks(ctx, services.CompanyID)
		require.NoError(t, err)
		disabled := false
		for _, run := range tasks {
			_, err := services.CronService.UpdateRun(ctx, services.CompanyID, run.ID, &cron.RunUpdate{Enabled: &disabled})
			require.NoError(t, err)
		}

		result, err := services.CronService.RunDue(ctx, services.CompanyID, time.Now().Add(48*time.Hour))
		require.NoError(t, err)
		require.Empty(t, result.Tasks)
	})
}

func TestAuthenticator_Operations(t *testing.T) {
	createStaff := func(t *testing.T, services *TestServices) *staff.Staff {
		member, err := services.StaffService.Create(context.Background(), services.CompanyID, &staff.Input{
			Username:  "admin",
			Email:     "Admin@Example.com",
			FirstName: "Ada",
			LastName:  "Admin",
			Password:  "correct-horse",
		})
		require.NoError(t, err)
		return member
	}

	t.Run("staff login issues a session and logs the attempt", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		member := createStaff(t, services)

		session, err := services.Authenticator.LoginStaff(ctx, identity.LoginRequest{Username: "admin", Password: "correct-horse", IPAddress: "10.0.0.1"})
		require.NoError(t, err)
		require.Equal(t, member.ID, session.Claims.Subject)
		require.Equal(t, identity.RoleStaff, session.Claims.Role)

		claims, err := services.Authenticator.ParseSession(session.Token)
		require.NoError(t, err)
		require.Equal(t, services.CompanyID, claims.CompanyID)

		_, err = services.Authenticator.LoginStaff(ctx, identity.LoginRequest{Username: "admin", Password: "wrong"})
		require.ErrorIs(t, err, identity.ErrInvalidCredentials)

		entries, err := services.LogService.List(ctx, &logs.Query{CompanyID: services.CompanyID, Type: logs.TypeUser, Page: paging.NewRequest(1, 10)})
		require.NoError(t, err)
		require.Equal(t, int64(2), entries.Total)
	})

	t.Run("two-factor login requires a valid code once confirmed", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		ctx := context.Background()
		member := createStaff(t, services)

		enrollment, err := services.Authenticator.EnrollTOTP(ctx, member.ID)
		require.NoError(t, err)
		require.Contains(t, enrollment.URL, "otpauth://")

		require.ErrorIs(t, services.Authenticator.ConfirmTOTP(ctx, member.ID, "000000"), identity.ErrInvalidOTP)

		code, err := totp.GenerateCode(enrollment.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, services.Authenticator.ConfirmTOTP(ctx, member.ID, code))

		_, err = services.Authenticator.LoginStaff(ctx, identity.LoginRequest{Username: "admin", Password: "correct-horse"})
		require.ErrorIs(t, err, identity.ErrOTPRequired)

		session, err := services.Authenticator.LoginStaff(ctx, identity.LoginRequest{Username: "admin", Password: "correct-horse", OTP: code})
		require.NoError(t, err)
		require.NotEmpty(t, session.Token)

		require.NoError(t, services.Authenticator.DisableTOTP(ctx, member.ID))
		_, err = services.Authenticator.LoginStaff(ctx, identity.LoginRequest{Username: "admin", Password: "correct-horse"})
		require.NoError(t, err)
	})

	t.Run("client login uses portal credentials", func(t *testing.T) {
		services := SetupTestServices(t, config.SqliteDbType)
		client := services.CreateClient(t, "rupert")

		session, err := services.Authenticator.LoginClient(context.Background(), identity.LoginRequest{
			CompanyID: services.CompanyID,
			Username:  "rupert",
			Password:  "secret-password",
		})
		require.NoError(t, err)
		require.Equal(t, client.ID, session.Claims.Subject)
		require.Equal(t, identity.RoleClient, session.Claims.Role)
	})
}

func TestAccountService_Operations(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	client := services.CreateClient(t, "sybil")
	staffID := "3f1f3c1e-8a1b-4b7a-9f5e-0a1b2c3d4e5f"
	expiration := time.Now().UTC().AddDate(1, 0, 0).Format("200601")

	account, err := services.AccountService.Create(ctx, services.CompanyID, client.ID, &accounts.Input{
		Type:       accounts.TypeCC,
		FirstName:  "Sybil",
		LastName:   "Client",
		Number:     "4111 1111 1111 1111",
		Expiration: expiration,
	})
	require.NoError(t, err)
	require.Equal(t, "1111", account.LastFour)
	require.Equal(t, accounts.CardVisa, account.CardType)
	require.NotContains(t, string(account.EncryptedNumber), "4111")

	_, err = services.AccountService.GetByID(ctx, services.CompanyID, client.ID, account.ID, staffID)
	require.NoError(t, err)
	entries, err := services.LogService.List(ctx, &logs.Query{CompanyID: services.CompanyID, Type: logs.TypeAccountAccess, Page: paging.NewRequest(1, 10)})
	require.NoError(t, err)
	require.Equal(t, int64(1), entries.Total)

	expiring, err := services.AccountService.ExpiringIn(ctx, services.CompanyID, expiration)
	require.NoError(t, err)
	require.Len(t, expiring, 1)

	require.NoError(t, services.AccountService.Delete(ctx, services.CompanyID, client.ID, account.ID))
	active, err := services.AccountService.List(ctx, services.CompanyID, client.ID)
	require.NoError(t, err)
	require.Empty(t, active)
}
