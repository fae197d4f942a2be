package v1

import (
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
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

// Services holds everything the routes are served by
type Services struct {
	Authenticator identity.Authenticator
	Staff         staff.Service
	Settings      settings.Service
	Clients       clients.Service
	Invoices      invoices.Service
	Accounts      accounts.Service
	Transactions  transactions.Service
	Logs          logs.Service
	Themes        themes.Service
	Plugins       plugins.Service
	Cron          cron.Service
	Reports       reports.Service
	Search        search.Service

	// Metrics is optional. When set, requests are counted and /metrics is served.
	Metrics      *metrics.Metrics
	CookieSecure bool
}

// SetupRoutes sets up all the API routes for version 1
func SetupRoutes(r *gin.Engine, services *Services) {
	if services.Metrics != nil {
		r.Use(services.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(services.Metrics.Handler()))
	}

	v1 := r.Group(BasePath)

	authHandler := NewAuthHandler(services.Authenticator, services.Staff, services.CookieSecure)
	v1.POST("/auth/staff/login", authHandler.StaffLogin)
	v1.POST("/auth/client/login", authHandler.ClientLogin)
	v1.POST("/auth/logout", authHandler.Logout)

	cronHandler := NewCronHandler(services.Cron, services.Settings)
	v1.POST("/cron/run", cronHandler.WebRun)

	admin := v1.Group("/admin", RequireRole(services.Authenticator, identity.RoleStaff))
	{
		admin.GET("/staff/me", authHandler.Me)
		admin.POST("/staff", authHandler.CreateStaff)
		admin.POST("/staff/me/otp", authHandler.EnrollOTP)
		admin.POST("/staff/me/otp/confirm", authHandler.ConfirmOTP)
		admin.DELETE("/staff/me/otp", authHandler.DisableOTP)

		settingHandler := NewSettingHandler(services.Settings)
		admin.GET("/settings", settingHandler.List)
		admin.PUT("/settings", settingHandler.Update)
		admin.DELETE("/settings/:key", settingHandler.Reset)

		clientHandler := NewClientHandler(services.Clients, services.Settings)
		admin.GET("/clients", clientHandler.List)
		admin.POST("/clients", clientHandler.Create)
		admin.GET("/clients/:id", clientHandler.GetByID)
		admin.PUT("/clients/:id", clientHandler.Update)
		admin.DELETE("/clients/:id", clientHandler.Delete)

		accountHandler := NewAccountHandler(services.Accounts)
		admin.GET("/clients/:id/accounts", accountHandler.List)
		admin.POST("/clients/:id/accounts", accountHandler.Create)
		admin.GET("/clients/:id/accounts/:account_id", accountHandler.GetByID)
		admin.PUT("/clients/:id/accounts/:account_id", accountHandler.Update)
		admin.DELETE("/clients/:id/accounts/:account_id", accountHandler.Delete)

		invoiceHandler := NewInvoiceHandler(services.Invoices, services.Settings)
		admin.GET("/invoices", invoiceHandler.List)
		admin.POST("/invoices", invoiceHandler.Create)
		admin.GET("/invoices/:id", invoiceHandler.GetByID)
		admin.PUT("/invoices/:id", invoiceHandler.Update)
		admin.DELETE("/invoices/:id", invoiceHandler.Delete)
		admin.POST("/invoices/:id/void", invoiceHandler.Void)
		admin.POST("/invoices/:id/deliver", invoiceHandler.Deliver)

		transactionHandler := NewTransactionHandler(services.Transactions, services.Settings)
		admin.GET("/transactions", transactionHandler.List)
		admin.POST("/transactions", transactionHandler.Record)
		admin.GET("/transactions/:id", transactionHandler.GetByID)
		admin.POST("/transactions/:id/apply", transactionHandler.Apply)
		admin.POST("/transactions/:id/void", transactionHandler.Void)

		logHandler := NewLogHandler(services.Logs, services.Cron, services.Settings)
		admin.GET("/logs/:type", logHandler.List)

		themeHandler := NewThemeHandler(services.Themes)
		admin.GET("/themes", themeHandler.List)
		admin.POST("/themes", themeHandler.Create)
		admin.GET("/themes/:id", themeHandler.GetByID)
		admin.PUT("/themes/:id", themeHandler.Update)
		admin.DELETE("/themes/:id", themeHandler.Delete)
		admin.POST("/themes/:id/activate", themeHandler.Activate)
		admin.POST("/themes/:id/logo", themeHandler.UploadLogo)

		pluginHandler := NewPluginHandler(services.Plugins)
		admin.GET("/plugins/available", pluginHandler.Available)
		admin.GET("/plugins", pluginHandler.Installed)
		admin.POST("/plugins", pluginHandler.Install)
		admin.DELETE("/plugins/:id", pluginHandler.Uninstall)
		admin.POST("/plugins/:id/enable", pluginHandler.Enable)
		admin.POST("/plugins/:id/disable", pluginHandler.Disable)
		admin.POST("/plugins/:id/upgrade", pluginHandler.Upgrade)

		admin.GET("/cron/tasks", cronHandler.ListTasks)
		admin.PUT("/cron/runs/:id", cronHandler.UpdateRun)
		admin.POST("/cron/tasks/:key/run", cronHandler.RunTask)

		reportHandler := NewReportHandler(services.Reports)
		admin.GET("/reports", reportHandler.List)
		admin.GET("/reports/:key", reportHandler.Generate)

		searchHandler := NewSearchHandler(services.Search)
		admin.GET("/search", searchHandler.Search)
	}

	portal := v1.Group("/client", RequireRole(services.Authenticator, identity.RoleClient))
	{
		portalHandler := NewPortalHandler(
			services.Clients,
			services.Invoices,
			services.Accounts,
			services.Transactions,
			services.Settings,
			services.Themes,
		)
		portal.GET("/profile", portalHandler.Profile)
		portal.PUT("/profile", portalHandler.UpdateProfile)
		portal.GET("/invoices", portalHandler.ListInvoices)
		portal.GET("/invoices/:id", portalHandler.GetInvoice)
		portal.GET("/accounts", portalHandler.ListAccounts)
		portal.POST("/accounts", portalHandler.CreateAccount)
		portal.DELETE("/accounts/:id", portalHandler.DeleteAccount)
		portal.GET("/transactions", portalHandler.ListTransactions)
		portal.GET("/welcome", portalHandler.Welcome)
	}
}
