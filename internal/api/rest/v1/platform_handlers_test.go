//go:build unit
// +build unit

package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/reports"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/search"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestThemeHandler_UploadLogo(t *testing.T) {
	mockThemes := new(MockThemeService)
	handler := NewThemeHandler(mockThemes)

	mockThemes.On("UploadLogo", mock.Anything, testCompanyID, "theme-1", "logo.png", mock.Anything).
		Return(&themes.Theme{ID: "theme-1", Type: themes.TypeClient, Name: "Brand", LogoURL: "https://cdn.example.com/logo.png"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = testutil.NewMultipartRequest(t, "POST", "/admin/themes/theme-1/logo", LogoFormField, "logo.png", []byte("\x89PNG"))
	c.Params = gin.Params{gin.Param{Key: "id", Value: "theme-1"}}
	withClaims(c, identity.RoleStaff)

	handler.UploadLogo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://cdn.example.com/logo.png")
	mockThemes.AssertExpectations(t)
}

func TestThemeHandler_UploadLogo_NoStorage(t *testing.T) {
	mockThemes := new(MockThemeService)
	handler := NewThemeHandler(mockThemes)

	mockThemes.On("UploadLogo", mock.Anything, testCompanyID, "theme-1", "logo.png", mock.Anything).
		Return(nil, themes.ErrNoAssets)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = testutil.NewMultipartRequest(t, "POST", "/admin/themes/theme-1/logo", LogoFormField, "logo.png", []byte("\x89PNG"))
	c.Params = gin.Params{gin.Param{Key: "id", Value: "theme-1"}}
	withClaims(c, identity.RoleStaff)

	handler.UploadLogo(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestThemeHandler_UploadLogo_MissingFile(t *testing.T) {
	mockThemes := new(MockThemeService)
	handler := NewThemeHandler(mockThemes)

	c, w := newTestContext("POST", "/admin/themes/theme-1/logo", "")
	withClaims(c, identity.RoleStaff)
	handler.UploadLogo(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockThemes.AssertNotCalled(t, "UploadLogo", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestThemeHandler_Delete_Active(t *testing.T) {
	mockThemes := new(MockThemeService)
	handler := NewThemeHandler(mockThemes)

	mockThemes.On("Delete", mock.Anything, testCompanyID, "theme-1").Return(themes.ErrThemeInUse)

	c, w := newTestContext("DELETE", "/admin/themes/theme-1", "")
	withClaims(c, identity.RoleStaff)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "theme-1"}}
	handler.Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPluginHandler_Install(t *testing.T) {
	t.Run("requires a directory", func(t *testing.T) {
		mockPlugins := new(MockPluginService)
		handler := NewPluginHandler(mockPlugins)

		c, w := newTestContext("POST", "/admin/plugins", `{}`)
		withClaims(c, identity.RoleStaff)
		handler.Install(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Dir")
	})

	t.Run("already installed", func(t *testing.T) {
		mockPlugins := new(MockPluginService)
		handler := NewPluginHandler(mockPlugins)
		mockPlugins.On("Install", mock.Anything, testCompanyID, "reminders").Return(nil, plugins.ErrAlreadyInstalled)

		c, w := newTestContext("POST", "/admin/plugins", `{"dir":"reminders"}`)
		withClaims(c, identity.RoleStaff)
		handler.Install(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockPlugins.AssertExpectations(t)
	})
}

func TestPluginHandler_Available(t *testing.T) {
	mockPlugins := new(MockPluginService)
	handler := NewPluginHandler(mockPlugins)

	mockPlugins.On("Available", mock.Anything, testCompanyID).Return([]*plugins.Available{{
		Dir: "reminders",
		Manifest: &plugins.Manifest{
			Name:      "Reminders",
			Version:   "1.1.0",
			CronTasks: []plugins.ManifestTask{{Key: "send_reminders", Name: "Send reminders", Type: cron.TypeInterval, Interval: 5}},
		},
		Installed:        &plugins.Plugin{ID: "p-1", Dir: "reminders", Version: "1.0.0", Enabled: true},
		UpgradeAvailable: true,
	}}, nil)

	c, w := newTestContext("GET", "/admin/plugins/available", "")
	withClaims(c, identity.RoleStaff)
	handler.Available(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []AvailablePluginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, []string{"send_reminders"}, response[0].Tasks)
	assert.True(t, response[0].UpgradeAvailable)
	require.NotNil(t, response[0].Installed)
	assert.Equal(t, "1.0.0", response[0].Installed.Version)
}

func TestCronHandler_WebRun(t *testing.T) {
	result := &cron.Result{
		CompanyID: testCompanyID,
		StartedAt: time.Date(2024, 7, 2, 12, 0, 0, 0, time.UTC),
		Tasks: []cron.TaskResult{
			{Key: "deliver_invoices", Status: cron.StatusSuccess, Output: "0 deliveries sent"},
			{Key: "send_reminders", Status: cron.StatusError, Error: cron.ErrNoHandler.Error()},
		},
	}

	tests := []struct {
		name     string
		cronKey  string
		query    string
		expected int
	}{
		{"web cron disabled", "", "key=anything", http.StatusForbidden},
		{"wrong key", "s3cret-key", "key=guess", http.StatusForbidden},
		{"matching key", "s3cret-key", "key=s3cret-key", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCron := new(MockCronService)
			mockSettings := new(MockSettingService)
			handler := NewCronHandler(mockCron, mockSettings)

			mockSettings.On("Get", mock.Anything, testCompanyID, settings.KeyCronKey).Return(tt.cronKey, nil)
			mockCron.On("RunDue", mock.Anything, testCompanyID, mock.AnythingOfType("time.Time")).Return(result, nil)

			c, w := newTestContext("POST", "/cron/run?company_id="+testCompanyID+"&"+tt.query, "")
			handler.WebRun(c)

			assert.Equal(t, tt.expected, w.Code)
			if tt.expected == http.StatusOK {
				var response CronResultResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Len(t, response.Tasks, 2)
				assert.Equal(t, 1, response.Failed)
				mockCron.AssertExpectations(t)
			} else {
				mockCron.AssertNotCalled(t, "RunDue", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCronHandler_RunTask_Locked(t *testing.T) {
	mockCron := new(MockCronService)
	handler := NewCronHandler(mockCron, new(MockSettingService))

	mockCron.On("RunTask", mock.Anything, testCompanyID, "deliver_invoices", mock.AnythingOfType("time.Time")).
		Return(nil, cron.ErrLocked)

	c, w := newTestContext("POST", "/admin/cron/tasks/deliver_invoices/run", "")
	withClaims(c, identity.RoleStaff)
	c.Params = gin.Params{gin.Param{Key: "key", Value: "deliver_invoices"}}
	handler.RunTask(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCronHandler_UpdateRun(t *testing.T) {
	mockCron := new(MockCronService)
	handler := NewCronHandler(mockCron, new(MockSettingService))

	mockCron.On("UpdateRun", mock.Anything, testCompanyID, "run-1", mock.MatchedBy(func(u *cron.RunUpdate) bool {
		return u.Interval != nil && *u.Interval == 10 && u.Enabled == nil
	})).Return(&cron.TaskRun{
		ID:       "run-1",
		Interval: 10,
		Enabled:  true,
		Task:     &cron.Task{Key: "deliver_invoices", Name: "Deliver invoices", Type: cron.TypeInterval},
	}, nil)

	c, w := newTestContext("PUT", "/admin/cron/runs/run-1", `{"interval":10}`)
	withClaims(c, identity.RoleStaff)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "run-1"}}
	handler.UpdateRun(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"group":"system"`)
	mockCron.AssertExpectations(t)
}

func TestReportHandler_Generate(t *testing.T) {
	result := &reports.Result{
		Key:     "tax_liability",
		Name:    "Tax Liability",
		Columns: []string{"currency", "invoices", "subtotal", "tax", "total"},
		Rows:    [][]string{{"USD", "2", "200.00", "20.00", "220.00"}},
	}

	t.Run("csv attachment", func(t *testing.T) {
		mockReports := new(MockReportService)
		handler := NewReportHandler(mockReports)

		mockReports.On("Generate", mock.Anything, testCompanyID, "tax_liability", mock.MatchedBy(func(p reports.Params) bool {
			return p.Start.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) &&
				p.End.After(time.Date(2024, 7, 31, 23, 59, 0, 0, time.UTC)) &&
				p.End.Before(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
		})).Return(result, nil)

		c, w := newTestContext("GET", "/admin/reports/tax_liability?start=2024-07-01&end=2024-07-31&format=csv", "")
		withClaims(c, identity.RoleStaff)
		c.Params = gin.Params{gin.Param{Key: "key", Value: "tax_liability"}}
		handler.Generate(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="tax_liability.csv"`)
		assert.Equal(t, "currency,invoices,subtotal,tax,total\nUSD,2,200.00,20.00,220.00\n", w.Body.String())
		mockReports.AssertExpectations(t)
	})

	t.Run("invalid date", func(t *testing.T) {
		mockReports := new(MockReportService)
		handler := NewReportHandler(mockReports)

		c, w := newTestContext("GET", "/admin/reports/tax_liability?start=07/01/2024", "")
		withClaims(c, identity.RoleStaff)
		c.Params = gin.Params{gin.Param{Key: "key", Value: "tax_liability"}}
		handler.Generate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Start")
	})

	t.Run("unknown format", func(t *testing.T) {
		handler := NewReportHandler(new(MockReportService))

		c, w := newTestContext("GET", "/admin/reports/tax_liability?format=xlsx", "")
		withClaims(c, identity.RoleStaff)
		handler.Generate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown report", func(t *testing.T) {
		mockReports := new(MockReportService)
		handler := NewReportHandler(mockReports)
		mockReports.On("Generate", mock.Anything, testCompanyID, "nope", mock.Anything).Return(nil, reports.ErrUnknownReport)

		c, w := newTestContext("GET", "/admin/reports/nope", "")
		withClaims(c, identity.RoleStaff)
		c.Params = gin.Params{gin.Param{Key: "key", Value: "nope"}}
		handler.Generate(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSearchHandler_Search(t *testing.T) {
	mockSearch := new(MockSearchService)
	handler := NewSearchHandler(mockSearch)

	req := paging.NewRequest(5, 20)
	mockSearch.On("Search", mock.Anything, testCompanyID, search.TypeInvoices, "INV-0015", 5).
		Return(paging.NewPage[any](req, []any{newTestInvoice()}, 1), nil)

	c, w := newTestContext("GET", "/admin/search?type=invoices&q=INV-0015&page=5", "")
	withClaims(c, identity.RoleStaff)
	handler.Search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id_code":"INV-001500"`)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestSearchHandler_Search_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"blank query", search.ErrBlankQuery, http.StatusBadRequest},
		{"unknown type", search.ErrUnknownType, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSearch := new(MockSearchService)
			handler := NewSearchHandler(mockSearch)
			mockSearch.On("Search", mock.Anything, testCompanyID, mock.Anything, mock.Anything, 1).
				Return(paging.Page[any]{}, tt.err)

			c, w := newTestContext("GET", "/admin/search?type=x&q=", "")
			withClaims(c, identity.RoleStaff)
			handler.Search(c)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestPortalHandler_GetInvoice_OtherClient(t *testing.T) {
	mockInvoices := new(MockInvoiceService)
	handler := NewPortalHandler(new(MockClientService), mockInvoices, new(MockAccountService), new(MockTransactionService), new(MockSettingService), new(MockThemeService))

	invoice := newTestInvoice()
	invoice.ClientID = "someone-else"
	mockInvoices.On("GetByID", mock.Anything, testCompanyID, testInvoiceID).Return(invoice, nil)

	c, w := newTestContext("GET", "/client/invoices/"+testInvoiceID, "")
	withClaims(c, identity.RoleClient)
	c.Params = gin.Params{gin.Param{Key: "id", Value: testInvoiceID}}
	handler.GetInvoice(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPortalHandler_ListInvoices_ScopedToClient(t *testing.T) {
	mockInvoices := new(MockInvoiceService)
	mockSettings := new(MockSettingService)
	handler := NewPortalHandler(new(MockClientService), mockInvoices, new(MockAccountService), new(MockTransactionService), mockSettings, new(MockThemeService))

	mockSettings.On("Int", mock.Anything, testCompanyID, settings.KeyResultsPerPage).Return(20, nil)
	req := paging.NewRequest(1, 20)
	mockInvoices.On("List", mock.Anything, mock.MatchedBy(func(q *invoices.Query) bool {
		return q.ClientID == testSubject && q.Status == invoices.FilterOpen && q.ExcludeDrafts
	})).Return(paging.NewPage(req, []*invoices.Invoice{newTestInvoice()}, 1), nil)

	c, w := newTestContext("GET", "/client/invoices?status=open&client_id=someone-else", "")
	withClaims(c, identity.RoleClient)
	handler.ListInvoices(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockInvoices.AssertExpectations(t)
}

func TestPortalHandler_UpdateProfile_KeepsStatus(t *testing.T) {
	mockClients := new(MockClientService)
	handler := NewPortalHandler(mockClients, new(MockInvoiceService), new(MockAccountService), new(MockTransactionService), new(MockSettingService), new(MockThemeService))

	current := &clients.Client{
		ID:        testSubject,
		Username:  "jdoe",
		Email:     "old@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Status:    clients.StatusActive,
		Notes:     "VIP",
	}
	mockClients.On("GetByID", mock.Anything, testCompanyID, testSubject).Return(current, nil)
	mockClients.On("Update", mock.Anything, testCompanyID, testSubject, mock.MatchedBy(func(in *clients.Input) bool {
		return in.Email == "new@example.com" && in.FirstName == "Jane" && in.Username == "jdoe" &&
			in.Status == clients.StatusActive && in.Notes == "VIP"
	})).Return(&clients.Client{ID: testSubject, Username: "jdoe", Email: "new@example.com", Status: clients.StatusActive, Notes: "VIP"}, nil)

	c, w := newTestContext("PUT", "/client/profile", `{"email":"new@example.com","status":"fraud"}`)
	withClaims(c, identity.RoleClient)
	handler.UpdateProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "VIP")
	mockClients.AssertExpectations(t)
}

func TestPortalHandler_CreateAccount(t *testing.T) {
	mockAccounts := new(MockAccountService)
	handler := NewPortalHandler(new(MockClientService), new(MockInvoiceService), mockAccounts, new(MockTransactionService), new(MockSettingService), new(MockThemeService))

	mockAccounts.On("Create", mock.Anything, testCompanyID, testSubject, mock.MatchedBy(func(in *accounts.Input) bool {
		return in.Type == accounts.TypeCC && in.Number == "4111111111111111"
	})).Return(&accounts.Account{ID: "a-1", ClientID: testSubject, Type: accounts.TypeCC, LastFour: "1111", CardType: "visa"}, nil)

	c, w := newTestContext("POST", "/client/accounts", `{"type":"cc","first_name":"Jane","last_name":"Doe","number":"4111111111111111","expiration":"203012"}`)
	withClaims(c, identity.RoleClient)
	handler.CreateAccount(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"last_four":"1111"`)
	assert.NotContains(t, w.Body.String(), "4111111111111111")
}

func TestPortalHandler_Welcome(t *testing.T) {
	mockSettings := new(MockSettingService)
	mockThemes := new(MockThemeService)
	handler := NewPortalHandler(new(MockClientService), new(MockInvoiceService), new(MockAccountService), new(MockTransactionService), mockSettings, mockThemes)

	mockSettings.On("Get", mock.Anything, testCompanyID, settings.KeyClientPortalWelcome).Return("<p>Hello</p>", nil)
	mockThemes.On("Active", mock.Anything, testCompanyID, themes.TypeClient).
		Return(&themes.Theme{ID: "theme-1", Type: themes.TypeClient, Name: "FOUR", Colors: map[string]string{"primary": "#336699"}}, nil)

	c, w := newTestContext("GET", "/client/welcome", "")
	withClaims(c, identity.RoleClient)
	handler.Welcome(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response WelcomeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "<p>Hello</p>", response.Message)
	assert.True(t, response.Theme.System)
}
