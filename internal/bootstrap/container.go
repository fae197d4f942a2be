package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/JsAppNinja/blesta-sub003/internal/app"
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
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/connector"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/cryptography"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/metrics"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence"
	pluginfs "github.com/JsAppNinja/blesta-sub003/internal/infrastructure/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container holds every initialized application component
type Container struct {
	DB      *gorm.DB
	Metrics *metrics.Metrics

	StaffRepo staff.Repository

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

	redis *redis.Client
}

type repositories struct {
	staff        staff.Repository
	settings     settings.Repository
	clients      clients.Repository
	invoices     invoices.Repository
	accounts     accounts.Repository
	transactions transactions.Repository
	logs         logs.Repository
	themes       themes.Repository
	plugins      persistence.PluginRepository
	cron         cron.Repository
}

type securityProviders struct {
	hasher identity.PasswordHasher
	cipher identity.Cipher
	otp    identity.OTPProvider
	tokens identity.TokenIssuer
}

// New connects to the database, migrates the schema and wires all services.
// Close must be called to release the connections.
func New(ctx context.Context, cfg *config.RestConfig, log logger.Logger) (*Container, error) {
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	if err := persistence.AutoMigrate(ctx, db, log); err != nil {
		_ = persistence.CloseDB(db)
		return nil, err
	}
	log.Info("Database migrations completed successfully")

	c := &Container{DB: db, Metrics: metrics.New()}
	if err := c.wire(ctx, cfg, log); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the database and redis connections
func (c *Container) Close() error {
	var errs []error
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, persistence.CloseDB(c.DB))
	}
	return errors.Join(errs...)
}

func (c *Container) wire(ctx context.Context, cfg *config.RestConfig, log logger.Logger) error {
	repos, err := initializeRepositories(c.DB, log)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	c.StaffRepo = repos.staff

	security, err := initializeSecurity(&cfg.Security, log)
	if err != nil {
		return fmt.Errorf("failed to initialize security providers: %w", err)
	}

	locker, err := c.initializeLocker(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize cron locker: %w", err)
	}

	assets, err := initializeAssets(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize asset connector: %w", err)
	}

	loader, err := pluginfs.NewDirManifestLoader(cfg.Plugins.Dir, log)
	if err != nil {
		return fmt.Errorf("failed to create manifest loader: %w", err)
	}

	transactor := persistence.NewGormTransactor(c.DB, log)

	if c.Logs, err = app.NewLogService(repos.logs, log); err != nil {
		return fmt.Errorf("failed to create log service: %w", err)
	}
	if c.Settings, err = app.NewSettingService(repos.settings, transactor, log); err != nil {
		return fmt.Errorf("failed to create setting service: %w", err)
	}
	if c.Staff, err = app.NewStaffService(repos.staff, security.hasher, log); err != nil {
		return fmt.Errorf("failed to create staff service: %w", err)
	}
	if c.Clients, err = app.NewClientService(repos.clients, security.hasher, log); err != nil {
		return fmt.Errorf("failed to create client service: %w", err)
	}
	if c.Authenticator, err = app.NewAuthenticator(
		repos.staff, c.Clients,
		security.hasher, security.cipher, security.otp, security.tokens,
		c.Logs, log,
	); err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}
	if c.Invoices, err = app.NewInvoiceService(repos.invoices, repos.clients, c.Settings, transactor, log); err != nil {
		return fmt.Errorf("failed to create invoice service: %w", err)
	}
	if c.Accounts, err = app.NewAccountService(repos.accounts, repos.clients, security.cipher, c.Logs, log); err != nil {
		return fmt.Errorf("failed to create account service: %w", err)
	}
	if c.Transactions, err = app.NewTransactionService(
		repos.transactions, repos.invoices, repos.clients,
		c.Settings, transactor, log,
	); err != nil {
		return fmt.Errorf("failed to create transaction service: %w", err)
	}
	if c.Themes, err = app.NewThemeService(repos.themes, c.Settings, assets, log); err != nil {
		return fmt.Errorf("failed to create theme service: %w", err)
	}

	registry := cron.NewRegistry()
	systemHandlers := &app.SystemTaskHandlers{
		Settings:     c.Settings,
		Logs:         c.Logs,
		CronRepo:     repos.cron,
		InvoiceRepo:  repos.invoices,
		Transactions: c.Transactions,
		Accounts:     c.Accounts,
		Logger:       log,
	}
	systemHandlers.Register(registry)

	if c.Cron, err = app.NewCronService(
		repos.cron, locker, repos.plugins, registry,
		c.Settings, c.Metrics, cfg.Cron.LockTTL, log,
	); err != nil {
		return fmt.Errorf("failed to create cron service: %w", err)
	}
	if c.Plugins, err = app.NewPluginService(repos.plugins, loader, c.Cron, transactor, log); err != nil {
		return fmt.Errorf("failed to create plugin service: %w", err)
	}
	if c.Reports, err = app.NewReportService(log,
		app.NewInvoiceCreationReport(repos.invoices, repos.clients, c.Settings),
		app.NewAgingInvoicesReport(repos.invoices),
		app.NewTaxLiabilityReport(repos.invoices),
	); err != nil {
		return fmt.Errorf("failed to create report service: %w", err)
	}
	if c.Search, err = app.NewSearchService(c.Settings, log,
		app.NewClientSearcher(repos.clients),
		app.NewInvoiceSearcher(repos.invoices),
		app.NewTransactionSearcher(repos.transactions),
	); err != nil {
		return fmt.Errorf("failed to create search service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return nil
}

func initializeRepositories(db *gorm.DB, log logger.Logger) (*repositories, error) {
	var (
		repos repositories
		err   error
	)

	if repos.staff, err = persistence.NewGormStaffRepository(db, log); err != nil {
		return nil, err
	}
	if repos.settings, err = persistence.NewGormSettingRepository(db, log); err != nil {
		return nil, err
	}
	if repos.clients, err = persistence.NewGormClientRepository(db, log); err != nil {
		return nil, err
	}
	if repos.invoices, err = persistence.NewGormInvoiceRepository(db, log); err != nil {
		return nil, err
	}
	if repos.accounts, err = persistence.NewGormAccountRepository(db, log); err != nil {
		return nil, err
	}
	if repos.transactions, err = persistence.NewGormTransactionRepository(db, log); err != nil {
		return nil, err
	}
	if repos.logs, err = persistence.NewGormLogRepository(db, log); err != nil {
		return nil, err
	}
	if repos.themes, err = persistence.NewGormThemeRepository(db, log); err != nil {
		return nil, err
	}
	if repos.plugins, err = persistence.NewGormPluginRepository(db, log); err != nil {
		return nil, err
	}
	if repos.cron, err = persistence.NewGormCronRepository(db, log); err != nil {
		return nil, err
	}

	return &repos, nil
}

func initializeSecurity(cfg *config.SecuritySettings, log logger.Logger) (*securityProviders, error) {
	key, err := cfg.Key()
	if err != nil {
		return nil, err
	}

	cipher, err := cryptography.NewAESCipher(key, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return &securityProviders{
		hasher: cryptography.NewBcryptHasher(0),
		cipher: cipher,
		otp:    cryptography.NewTOTPProvider(cfg.TOTPIssuer),
		tokens: cryptography.NewJWTIssuer(cfg.JWTSecret, cfg.SessionTTL),
	}, nil
}

func (c *Container) initializeLocker(ctx context.Context, cfg *config.RestConfig, log logger.Logger) (cron.Locker, error) {
	if cfg.Cron.LockBackend != config.LockBackendRedis {
		return persistence.NewGormLocker(c.DB, log), nil
	}

	client, err := connector.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, err
	}
	c.redis = client

	log.Info("Using redis cron lock at ", cfg.Redis.Addr)
	return connector.NewRedisLocker(client, log), nil
}

// initializeAssets returns nil when no blob connector is configured
func initializeAssets(ctx context.Context, cfg *config.RestConfig, log logger.Logger) (themes.AssetConnector, error) {
	switch cfg.BlobConnector.CloudProvider {
	case "":
		log.Warn("No blob connector configured, logo uploads are disabled")
		return nil, nil
	case config.AzureCloudProvider:
		return connector.NewAzureBlobConnector(ctx, &cfg.BlobConnector, log)
	default:
		return nil, fmt.Errorf("unsupported cloud provider: %s (only Azure is supported)", cfg.BlobConnector.CloudProvider)
	}
}
