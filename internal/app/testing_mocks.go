//go:build unit
// +build unit

package app

import (
	"context"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/reports"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockLocker is a mock implementation of cron.Locker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, name, owner, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) Release(ctx context.Context, name, owner string) error {
	args := m.Called(ctx, name, owner)
	return args.Error(0)
}

// MockObserver is a mock implementation of cron.Observer
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) TaskRun(key, status string) {
	m.Called(key, status)
}

func (m *MockObserver) LockContention() {
	m.Called()
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

// MockStaffRepository is a mock implementation of staff.Repository
type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) Create(ctx context.Context, member *staff.Staff) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockStaffRepository) Update(ctx context.Context, member *staff.Staff) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockStaffRepository) GetByID(ctx context.Context, staffID string) (*staff.Staff, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Staff), args.Error(1)
}

func (m *MockStaffRepository) GetByUsername(ctx context.Context, username string) (*staff.Staff, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Staff), args.Error(1)
}

func (m *MockStaffRepository) CompanyIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
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

// MockSearcher is a mock implementation of search.Searcher
type MockSearcher struct {
	mock.Mock
	SearchType string
}

func (m *MockSearcher) Type() string {
	return m.SearchType
}

func (m *MockSearcher) Search(ctx context.Context, companyID, query string, page paging.Request) (paging.Page[any], error) {
	args := m.Called(ctx, companyID, query, page)
	return args.Get(0).(paging.Page[any]), args.Error(1)
}

// MockReport is a mock implementation of reports.Report
type MockReport struct {
	mock.Mock
	ReportKey string
}

func (m *MockReport) Key() string {
	return m.ReportKey
}

func (m *MockReport) Name() string {
	return "Mock " + m.ReportKey
}

func (m *MockReport) Generate(ctx context.Context, companyID string, params reports.Params) (*reports.Result, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reports.Result), args.Error(1)
}
