//go:build unit
// +build unit

package v1

import (
	"context"
	"io"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/reports"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAuthenticator is a mock implementation of identity.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) LoginStaff(ctx context.Context, req identity.LoginRequest) (*identity.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func (m *MockAuthenticator) LoginClient(ctx context.Context, req identity.LoginRequest) (*identity.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func (m *MockAuthenticator) ParseSession(token string) (*identity.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Claims), args.Error(1)
}

func (m *MockAuthenticator) EnrollTOTP(ctx context.Context, staffID string) (*identity.Enrollment, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Enrollment), args.Error(1)
}

func (m *MockAuthenticator) ConfirmTOTP(ctx context.Context, staffID, code string) error {
	args := m.Called(ctx, staffID, code)
	return args.Error(0)
}

func (m *MockAuthenticator) DisableTOTP(ctx context.Context, staffID string) error {
	args := m.Called(ctx, staffID)
	return args.Error(0)
}

// MockStaffService is a mock implementation of staff.Service
type MockStaffService struct {
	mock.Mock
}

func (m *MockStaffService) Create(ctx context.Context, companyID string, input *staff.Input) (*staff.Staff, error) {
	args := m.Called(ctx, companyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Staff), args.Error(1)
}

func (m *MockStaffService) GetByID(ctx context.Context, staffID string) (*staff.Staff, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Staff), args.Error(1)
}

// MockSettingService is a mock implementation of settings.Service
type MockSettingService struct {
	mock.Mock
}

func (m *MockSettingService) GetAll(ctx context.Context, companyID string) (map[string]string, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingService) Get(ctx context.Context, companyID, key string) (string, error) {
	args := m.Called(ctx, companyID, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingService) Update(ctx context.Context, companyID string, values map[string]string) error {
	args := m.Called(ctx, companyID, values)
	return args.Error(0)
}

func (m *MockSettingService) Reset(ctx context.Context, companyID, key string) error {
	args := m.Called(ctx, companyID, key)
	return args.Error(0)
}

func (m *MockSettingService) Int(ctx context.Context, companyID, key string) (int, error) {
	args := m.Called(ctx, companyID, key)
	return args.Int(0), args.Error(1)
}

func (m *MockSettingService) Bool(ctx context.Context, companyID, key string) (bool, error) {
	args := m.Called(ctx, companyID, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettingService) Decimal(ctx context.Context, companyID, key string) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, key)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSettingService) Location(ctx context.Context, companyID string) (*time.Location, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Location), args.Error(1)
}

// MockClientService is a mock implementation of clients.Service
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) Create(ctx context.Context, companyID string, input *clients.Input) (*clients.Client, error) {
	args := m.Called(ctx, companyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.Client), args.Error(1)
}

func (m *MockClientService) Update(ctx context.Context, companyID, clientID string, input *clients.Input) (*clients.Client, error) {
	args := m.Called(ctx, companyID, clientID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.Client), args.Error(1)
}

func (m *MockClientService) Delete(ctx context.Context, companyID, clientID string) error {
	args := m.Called(ctx, companyID, clientID)
	return args.Error(0)
}

func (m *MockClientService) GetByID(ctx context.Context, companyID, clientID string) (*clients.Client, error) {
	args := m.Called(ctx, companyID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.Client), args.Error(1)
}

func (m *MockClientService) List(ctx context.Context, query *clients.Query) (paging.Page[*clients.Client], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(paging.Page[*clients.Client]), args.Error(1)
}

func (m *MockClientService) Authenticate(ctx context.Context, companyID, username, password string) (*clients.Client, error) {
	args := m.Called(ctx, companyID, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.Client), args.Error(1)
}

// MockInvoiceService is a mock implementation of invoices.Service
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, companyID string, input *invoices.Input) (*invoices.Invoice, error) {
	args := m.Called(ctx, companyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoices.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Update(ctx context.Context, companyID, invoiceID string, input *invoices.Input) (*invoices.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoices.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Void(ctx context.Context, companyID, invoiceID string) (*invoices.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoices.Invoice), args.Error(1)
}

func (m *MockInvoiceService) DeleteDraft(ctx context.Context, companyID, invoiceID string) error {
	args := m.Called(ctx, companyID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, companyID, invoiceID string) (*invoices.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoices.Invoice), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, query *invoices.Query) (paging.Page[*invoices.Invoice], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(paging.Page[*invoices.Invoice]), args.Error(1)
}

func (m *MockInvoiceService) Deliver(ctx context.Context, companyID, invoiceID, method string) (*invoices.Delivery, error) {
	args := m.Called(ctx, companyID, invoiceID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoices.Delivery), args.Error(1)
}

// MockAccountService is a mock implementation of accounts.Service
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Create(ctx context.Context, companyID, clientID string, input *accounts.Input) (*accounts.Account, error) {
	args := m.Called(ctx, companyID, clientID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccountService) Update(ctx context.Context, companyID, clientID, accountID string, input *accounts.Input) (*accounts.Account, error) {
	args := m.Called(ctx, companyID, clientID, accountID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccountService) Delete(ctx context.Context, companyID, clientID, accountID string) error {
	args := m.Called(ctx, companyID, clientID, accountID)
	return args.Error(0)
}

func (m *MockAccountService) GetByID(ctx context.Context, companyID, clientID, accountID, accessedBy string) (*accounts.Account, error) {
	args := m.Called(ctx, companyID, clientID, accountID, accessedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccountService) List(ctx context.Context, companyID, clientID string) ([]*accounts.Account, error) {
	args := m.Called(ctx, companyID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounts.Account), args.Error(1)
}

func (m *MockAccountService) ExpiringIn(ctx context.Context, companyID, month string) ([]*accounts.Account, error) {
	args := m.Called(ctx, companyID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounts.Account), args.Error(1)
}

// MockTransactionService is a mock implementation of transactions.Service
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Record(ctx context.Context, companyID string, input *transactions.Input) (*transactions.Transaction, error) {
	args := m.Called(ctx, companyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transactions.Transaction), args.Error(1)
}

func (m *MockTransactionService) Apply(ctx context.Context, companyID, transactionID string, allocations []transactions.Allocation) (*transactions.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID, allocations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transactions.Transaction), args.Error(1)
}

func (m *MockTransactionService) AutoApply(ctx context.Context, companyID, transactionID string) (*transactions.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transactions.Transaction), args.Error(1)
}

func (m *MockTransactionService) Void(ctx context.Context, companyID, transactionID string) (*transactions.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transactions.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetByID(ctx context.Context, companyID, transactionID string) (*transactions.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transactions.Transaction), args.Error(1)
}

func (m *MockTransactionService) List(ctx context.Context, query *transactions.Query) (paging.Page[*transactions.Transaction], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(paging.Page[*transactions.Transaction]), args.Error(1)
}

func (m *MockTransactionService) ListWithCredit(ctx context.Context, companyID string) ([]*transactions.Transaction, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transactions.Transaction), args.Error(1)
}

// MockLogService is a mock implementation of logs.Service
type MockLogService struct {
	mock.Mock
}

func (m *MockLogService) Record(ctx context.Context, entry *logs.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogService) List(ctx context.Context, query *logs.Query) (paging.Page[*logs.Entry], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(paging.Page[*logs.Entry]), args.Error(1)
}

func (m *MockLogService) Purge(ctx context.Context, companyID string, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, companyID, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockThemeService is a mock implementation of themes.Service
type MockThemeService struct {
	mock.Mock
}

func (m *MockThemeService) List(ctx context.Context, companyID, themeType string) ([]*themes.Theme, error) {
	args := m.Called(ctx, companyID, themeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*themes.Theme), args.Error(1)
}

func (m *MockThemeService) GetByID(ctx context.Context, companyID, themeID string) (*themes.Theme, error) {
	args := m.Called(ctx, companyID, themeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*themes.Theme), args.Error(1)
}

func (m *MockThemeService) Create(ctx context.Context, companyID string, input *themes.Input) (*themes.Theme, error) {
	args := m.Called(ctx, companyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*themes.Theme), args.Error(1)
}

func (m *MockThemeService) Update(ctx context.Context, companyID, themeID string, input *themes.Input) (*themes.Theme, error) {
	args := m.Called(ctx, companyID, themeID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*themes.Theme), args.Error(1)
}

func (m *MockThemeService) Delete(ctx context.Context, companyID, themeID string) error {
	args := m.Called(ctx, companyID, themeID)
	return args.Error(0)
}

func (m *MockThemeService) Activate(ctx context.Context, companyID, themeID string) (*themes.Theme, error) {
	args := m.Called(ctx, companyID, themeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*themes.Theme), args.Error(1)
}

func (m *MockThemeService) Active(ctx context.Context, companyID, themeType string) (*themes.Theme, error) {
	args := m.Called(ctx, companyID, themeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*themes.Theme), args.Error(1)
}

func (m *MockThemeService) UploadLogo(ctx context.Context, companyID, themeID, fileName string, content io.Reader) (*themes.Theme, error) {
	args := m.Called(ctx, companyID, themeID, fileName, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*themes.Theme), args.Error(1)
}

// MockPluginService is a mock implementation of plugins.Service
type MockPluginService struct {
	mock.Mock
}

func (m *MockPluginService) Available(ctx context.Context, companyID string) ([]*plugins.Available, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*plugins.Available), args.Error(1)
}

func (m *MockPluginService) Installed(ctx context.Context, companyID string) ([]*plugins.Plugin, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*plugins.Plugin), args.Error(1)
}

func (m *MockPluginService) Install(ctx context.Context, companyID, dir string) (*plugins.Plugin, error) {
	return m.plugin(m.Called(ctx, companyID, dir))
}

func (m *MockPluginService) Uninstall(ctx context.Context, companyID, pluginID string) error {
	args := m.Called(ctx, companyID, pluginID)
	return args.Error(0)
}

func (m *MockPluginService) Enable(ctx context.Context, companyID, pluginID string) (*plugins.Plugin, error) {
	return m.plugin(m.Called(ctx, companyID, pluginID))
}

func (m *MockPluginService) Disable(ctx context.Context, companyID, pluginID string) (*plugins.Plugin, error) {
	return m.plugin(m.Called(ctx, companyID, pluginID))
}

func (m *MockPluginService) Upgrade(ctx context.Context, companyID, pluginID string) (*plugins.Plugin, error) {
	return m.plugin(m.Called(ctx, companyID, pluginID))
}

func (m *MockPluginService) plugin(args mock.Arguments) (*plugins.Plugin, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plugins.Plugin), args.Error(1)
}

// MockCronService is a mock implementation of cron.Service
type MockCronService struct {
	mock.Mock
}

func (m *MockCronService) RunDue(ctx context.Context, companyID string, now time.Time) (*cron.Result, error) {
	args := m.Called(ctx, companyID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cron.Result), args.Error(1)
}

func (m *MockCronService) RunTask(ctx context.Context, companyID, key string, now time.Time) (*cron.Result, error) {
	args := m.Called(ctx, companyID, key, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cron.Result), args.Error(1)
}

func (m *MockCronService) UpdateRun(ctx context.Context, companyID, runID string, update *cron.RunUpdate) (*cron.TaskRun, error) {
	args := m.Called(ctx, companyID, runID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cron.TaskRun), args.Error(1)
}

func (m *MockCronService) ListTasks(ctx context.Context, companyID string) ([]*cron.TaskRun, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cron.TaskRun), args.Error(1)
}

func (m *MockCronService) ListRunLogs(ctx context.Context, query *cron.LogQuery) (paging.Page[*cron.RunLog], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(paging.Page[*cron.RunLog]), args.Error(1)
}

func (m *MockCronService) PurgeRunLogs(ctx context.Context, companyID string, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, companyID, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCronService) InstallPluginTasks(ctx context.Context, companyID, pluginDir string, runs []*cron.TaskRun) error {
	args := m.Called(ctx, companyID, pluginDir, runs)
	return args.Error(0)
}

func (m *MockCronService) UninstallPluginTasks(ctx context.Context, companyID, pluginDir string) error {
	args := m.Called(ctx, companyID, pluginDir)
	return args.Error(0)
}

// MockReportService is a mock implementation of reports.Service
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) List() []reports.Info {
	args := m.Called()
	return args.Get(0).([]reports.Info)
}

func (m *MockReportService) Generate(ctx context.Context, companyID, key string, params reports.Params) (*reports.Result, error) {
	args := m.Called(ctx, companyID, key, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reports.Result), args.Error(1)
}

// MockSearchService is a mock implementation of search.Service
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Types() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockSearchService) Search(ctx context.Context, companyID, searchType, query string, page int) (paging.Page[any], error) {
	args := m.Called(ctx, companyID, searchType, query, page)
	return args.Get(0).(paging.Page[any]), args.Error(1)
}
