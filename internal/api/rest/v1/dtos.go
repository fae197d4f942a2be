package v1

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"

	"github.com/shopspring/decimal"
)

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// InfoResponse is returned when there is no resource to show
type InfoResponse struct {
	Message string `json:"message"`
}

// PageResponse wraps one page of a list
type PageResponse[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
}

func newPageResponse[T, U any](page paging.Page[T], fn func(T) U) PageResponse[U] {
	mapped := paging.Map(page, fn)
	return PageResponse[U]{
		Items:   mapped.Items,
		Total:   mapped.Total,
		Page:    mapped.Page,
		PerPage: mapped.PerPage,
		Pages:   mapped.Pages,
	}
}

// LoginRequest carries staff or client credentials
type LoginRequest struct {
	CompanyID string `json:"company_id" validate:"omitempty,uuid4"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	OTP       string `json:"otp" validate:"omitempty,numeric,len=6"`
}

// Validate for validating LoginRequest struct
func (r *LoginRequest) Validate() error {
	return validation.Struct(r)
}

// SessionResponse describes an issued session
type SessionResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	Subject   string    `json:"subject"`
	CompanyID string    `json:"company_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OTPConfirmRequest carries the first code generated from a new secret
type OTPConfirmRequest struct {
	Code string `json:"code" validate:"required,numeric,len=6"`
}

// Validate for validating OTPConfirmRequest struct
func (r *OTPConfirmRequest) Validate() error {
	return validation.Struct(r)
}

// EnrollmentResponse is returned once when two-factor setup starts
type EnrollmentResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// StaffRequest creates a staff member
type StaffRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (r *StaffRequest) toInput() *staff.Input {
	return &staff.Input{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}
}

// StaffResponse describes a staff member without credentials
type StaffResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	TOTPEnabled bool      `json:"totp_enabled"`
	Status      string    `json:"status"`
	DateAdded   time.Time `json:"date_added"`
}

func toStaffResponse(member *staff.Staff) StaffResponse {
	return StaffResponse{
		ID:          member.ID,
		CompanyID:   member.CompanyID,
		Username:    member.Username,
		Email:       member.Email,
		FirstName:   member.FirstName,
		LastName:    member.LastName,
		TOTPEnabled: member.TOTPEnabled,
		Status:      member.Status,
		DateAdded:   member.DateAdded,
	}
}

// ClientRequest creates or updates a client
type ClientRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	Password  string `json:"password"`
}

func (r *ClientRequest) toInput() *clients.Input {
	return &clients.Input{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Company:   r.Company,
		Status:    r.Status,
		Notes:     r.Notes,
		Password:  r.Password,
	}
}

// ProfileRequest is what a client may change about itself
type ProfileRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Password  string `json:"password"`
}

// ClientResponse describes a client
type ClientResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Company   string    `json:"company"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	DateAdded time.Time `json:"date_added"`
}

func toClientResponse(client *clients.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		Username:  client.Username,
		Email:     client.Email,
		FirstName: client.FirstName,
		LastName:  client.LastName,
		Company:   client.Company,
		Status:    client.Status,
		Notes:     client.Notes,
		DateAdded: client.DateAdded,
	}
}

// InvoiceLineRequest is one line of an invoice request
type InvoiceLineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitAmount  decimal.Decimal `json:"unit_amount"`
	Taxable     bool            `json:"taxable"`
}

// InvoiceRequest creates or updates an invoice
type InvoiceRequest struct {
	ClientID   string               `json:"client_id"`
	Status     string               `json:"status"`
	Currency   string               `json:"currency"`
	TaxRate    *decimal.Decimal     `json:"tax_rate"`
	DateBilled time.Time            `json:"date_billed"`
	DateDue    time.Time            `json:"date_due"`
	Lines      []InvoiceLineRequest `json:"lines"`
}

func (r *InvoiceRequest) toInput() *invoices.Input {
	lines := make([]invoices.LineInput, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, invoices.LineInput{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitAmount:  line.UnitAmount,
			Taxable:     line.Taxable,
		})
	}
	return &invoices.Input{
		ClientID:   r.ClientID,
		Status:     r.Status,
		Currency:   r.Currency,
		TaxRate:    r.TaxRate,
		DateBilled: r.DateBilled,
		DateDue:    r.DateDue,
		Lines:      lines,
	}
}

// DeliverRequest selects how an invoice is sent
type DeliverRequest struct {
	Method string `json:"method"`
}

// InvoiceLineResponse is one line of an invoice
type InvoiceLineResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitAmount  string `json:"unit_amount"`
	Total       string `json:"total"`
	Taxable     bool   `json:"taxable"`
}

// InvoiceResponse describes an invoice
type InvoiceResponse struct {
	ID         string                `json:"id"`
	ClientID   string                `json:"client_id"`
	IDValue    int64                 `json:"id_value"`
	IDCode     string                `json:"id_code"`
	Status     string                `json:"status"`
	Currency   string                `json:"currency"`
	TaxRate    string                `json:"tax_rate"`
	Subtotal   string                `json:"subtotal"`
	Tax        string                `json:"tax"`
	Total      string                `json:"total"`
	Paid       string                `json:"paid"`
	Due        string                `json:"due"`
	DateBilled time.Time             `json:"date_billed"`
	DateDue    time.Time             `json:"date_due"`
	DateClosed *time.Time            `json:"date_closed"`
	Lines      []InvoiceLineResponse `json:"lines,omitempty"`
}

func toInvoiceResponse(invoice *invoices.Invoice) InvoiceResponse {
	response := InvoiceResponse{
		ID:         invoice.ID,
		ClientID:   invoice.ClientID,
		IDValue:    invoice.IDValue,
		IDCode:     invoice.IDCode,
		Status:     invoice.Status,
		Currency:   invoice.Currency,
		TaxRate:    invoice.TaxRate.String(),
		Subtotal:   invoice.Subtotal.StringFixed(2),
		Tax:        invoice.Tax.StringFixed(2),
		Total:      invoice.Total.StringFixed(2),
		Paid:       invoice.Paid.StringFixed(2),
		Due:        invoice.Due().StringFixed(2),
		DateBilled: invoice.DateBilled,
		DateDue:    invoice.DateDue,
		DateClosed: invoice.DateClosed,
	}
	for _, line := range invoice.Lines {
		response.Lines = append(response.Lines, InvoiceLineResponse{
			ID:          line.ID,
			Description: line.Description,
			Quantity:    line.Quantity.String(),
			UnitAmount:  line.UnitAmount.StringFixed(2),
			Total:       line.Total().StringFixed(2),
			Taxable:     line.Taxable,
		})
	}
	return response
}

// DeliveryResponse describes a queued delivery
type DeliveryResponse struct {
	ID        string     `json:"id"`
	InvoiceID string     `json:"invoice_id"`
	Method    string     `json:"method"`
	Status    string     `json:"status"`
	DateAdded time.Time  `json:"date_added"`
	DateSent  *time.Time `json:"date_sent"`
}

func toDeliveryResponse(delivery *invoices.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:        delivery.ID,
		InvoiceID: delivery.InvoiceID,
		Method:    delivery.Method,
		Status:    delivery.Status,
		DateAdded: delivery.DateAdded,
		DateSent:  delivery.DateSent,
	}
}

// AccountRequest adds or edits a payment account
type AccountRequest struct {
	Type          string `json:"type"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Address1      string `json:"address1"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	Country       string `json:"country"`
	Number        string `json:"number"`
	Expiration    string `json:"expiration"`
	AccountType   string `json:"account_type"`
	RoutingNumber string `json:"routing_number"`
}

func (r *AccountRequest) toInput() *accounts.Input {
	return &accounts.Input{
		Type:          r.Type,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Address1:      r.Address1,
		City:          r.City,
		State:         r.State,
		Zip:           r.Zip,
		Country:       r.Country,
		Number:        r.Number,
		Expiration:    r.Expiration,
		AccountType:   r.AccountType,
		RoutingNumber: r.RoutingNumber,
	}
}

// AccountResponse describes a payment account. Numbers never leave the service.
type AccountResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	Type        string    `json:"type"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Address1    string    `json:"address1"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Zip         string    `json:"zip"`
	Country     string    `json:"country"`
	LastFour    string    `json:"last_four"`
	CardType    string    `json:"card_type,omitempty"`
	Expiration  string    `json:"expiration,omitempty"`
	AccountType string    `json:"account_type,omitempty"`
	Status      string    `json:"status"`
	DateAdded   time.Time `json:"date_added"`
}

func toAccountResponse(account *accounts.Account) AccountResponse {
	return AccountResponse{
		ID:          account.ID,
		ClientID:    account.ClientID,
		Type:        account.Type,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		Address1:    account.Address1,
		City:        account.City,
		State:       account.State,
		Zip:         account.Zip,
		Country:     account.Country,
		LastFour:    account.LastFour,
		CardType:    account.CardType,
		Expiration:  account.Expiration,
		AccountType: account.AccountType,
		Status:      account.Status,
		DateAdded:   account.DateAdded,
	}
}

// AllocationRequest credits part of a payment to one invoice
type AllocationRequest struct {
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func toAllocations(requests []AllocationRequest) []transactions.Allocation {
	allocations := make([]transactions.Allocation, 0, len(requests))
	for _, r := range requests {
		allocations = append(allocations, transactions.Allocation{InvoiceID: r.InvoiceID, Amount: r.Amount})
	}
	return allocations
}

// TransactionRequest records a payment
type TransactionRequest struct {
	ClientID    string              `json:"client_id"`
	AccountID   *string             `json:"account_id"`
	Type        string              `json:"type"`
	Amount      decimal.Decimal     `json:"amount"`
	Currency    string              `json:"currency"`
	Status      string              `json:"status"`
	Reference   string              `json:"reference"`
	AutoApply   bool                `json:"auto_apply"`
	Allocations []AllocationRequest `json:"allocations"`
}

func (r *TransactionRequest) toInput() *transactions.Input {
	return &transactions.Input{
		ClientID:    r.ClientID,
		AccountID:   r.AccountID,
		Type:        r.Type,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Status:      r.Status,
		Reference:   r.Reference,
		AutoApply:   r.AutoApply,
		Allocations: toAllocations(r.Allocations),
	}
}

// ApplyRequest applies a payment. Without allocations the credit is spread automatically.
type ApplyRequest struct {
	Allocations []AllocationRequest `json:"allocations"`
}

// ApplicationResponse is one invoice a payment was applied to
type ApplicationResponse struct {
	InvoiceID   string    `json:"invoice_id"`
	Amount      string    `json:"amount"`
	DateApplied time.Time `json:"date_applied"`
}

// TransactionResponse describes a payment
type TransactionResponse struct {
	ID        string                `json:"id"`
	ClientID  string                `json:"client_id"`
	AccountID *string               `json:"account_id"`
	Type      string                `json:"type"`
	Amount    string                `json:"amount"`
	Unapplied string                `json:"unapplied"`
	Currency  string                `json:"currency"`
	Status    string                `json:"status"`
	Reference string                `json:"reference"`
	DateAdded time.Time             `json:"date_added"`
	Applied   []ApplicationResponse `json:"applied"`
}

func toTransactionResponse(txn *transactions.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:        txn.ID,
		ClientID:  txn.ClientID,
		AccountID: txn.AccountID,
		Type:      txn.Type,
		Amount:    txn.Amount.StringFixed(2),
		Unapplied: txn.Unapplied().StringFixed(2),
		Currency:  txn.Currency,
		Status:    txn.Status,
		Reference: txn.Reference,
		DateAdded: txn.DateAdded,
		Applied:   []ApplicationResponse{},
	}
	for _, application := range txn.Applied {
		response.Applied = append(response.Applied, ApplicationResponse{
			InvoiceID:   application.InvoiceID,
			Amount:      application.Amount.StringFixed(2),
			DateApplied: application.DateApplied,
		})
	}
	return response
}

// LogEntryResponse is one audit log line
type LogEntryResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ClientID  *string   `json:"client_id"`
	StaffID   *string   `json:"staff_id"`
	Summary   string    `json:"summary"`
	Detail    string    `json:"detail"`
	Status    string    `json:"status"`
	IPAddress string    `json:"ip_address"`
	DateAdded time.Time `json:"date_added"`
}

func toLogEntryResponse(entry *logs.Entry) LogEntryResponse {
	return LogEntryResponse{
		ID:        entry.ID,
		Type:      entry.Type,
		ClientID:  entry.ClientID,
		StaffID:   entry.StaffID,
		Summary:   entry.Summary,
		Detail:    entry.Detail,
		Status:    entry.Status,
		IPAddress: entry.IPAddress,
		DateAdded: entry.DateAdded,
	}
}

// RunLogResponse is one cron task execution
type RunLogResponse struct {
	ID        string     `json:"id"`
	Key       string     `json:"key"`
	Group     string     `json:"group"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Output    string     `json:"output"`
	Status    string     `json:"status"`
}

func toRunLogResponse(log *cron.RunLog) RunLogResponse {
	return RunLogResponse{
		ID:        log.ID,
		Key:       log.Key,
		Group:     log.Group,
		StartedAt: log.StartedAt,
		EndedAt:   log.EndedAt,
		Output:    log.Output,
		Status:    log.Status,
	}
}

// ThemeRequest creates or updates a theme
type ThemeRequest struct {
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Colors      map[string]string `json:"colors"`
	BaseThemeID string            `json:"base_theme_id"`
}

func (r *ThemeRequest) toInput() *themes.Input {
	return &themes.Input{
		Type:        r.Type,
		Name:        r.Name,
		Colors:      r.Colors,
		BaseThemeID: r.BaseThemeID,
	}
}

// ThemeResponse describes a theme
type ThemeResponse struct {
	ID        string            `json:"id"`
	System    bool              `json:"system"`
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	Colors    map[string]string `json:"colors"`
	LogoURL   string            `json:"logo_url"`
	DateAdded time.Time         `json:"date_added"`
}

func toThemeResponse(theme *themes.Theme) ThemeResponse {
	return ThemeResponse{
		ID:        theme.ID,
		System:    theme.IsSystem(),
		Type:      theme.Type,
		Name:      theme.Name,
		Colors:    theme.Colors,
		LogoURL:   theme.LogoURL,
		DateAdded: theme.DateAdded,
	}
}

// InstallPluginRequest names the plugin directory to install
type InstallPluginRequest struct {
	Dir string `json:"dir" validate:"required,max=64"`
}

// Validate for validating InstallPluginRequest struct
func (r *InstallPluginRequest) Validate() error {
	return validation.Struct(r)
}

// PluginResponse describes an installed plugin
type PluginResponse struct {
	ID            string    `json:"id"`
	Dir           string    `json:"dir"`
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	Description   string    `json:"description"`
	Enabled       bool      `json:"enabled"`
	DateInstalled time.Time `json:"date_installed"`
}

func toPluginResponse(plugin *plugins.Plugin) PluginResponse {
	return PluginResponse{
		ID:            plugin.ID,
		Dir:           plugin.Dir,
		Name:          plugin.Name,
		Version:       plugin.Version,
		Description:   plugin.Description,
		Enabled:       plugin.Enabled,
		DateInstalled: plugin.DateInstalled,
	}
}

// AvailablePluginResponse describes a plugin found on disk
type AvailablePluginResponse struct {
	Dir              string          `json:"dir"`
	Name             string          `json:"name"`
	Version          string          `json:"version"`
	Description      string          `json:"description"`
	Tasks            []string        `json:"tasks"`
	Installed        *PluginResponse `json:"installed"`
	UpgradeAvailable bool            `json:"upgrade_available"`
}

func toAvailablePluginResponse(available *plugins.Available) AvailablePluginResponse {
	response := AvailablePluginResponse{
		Dir:              available.Dir,
		Name:             available.Manifest.Name,
		Version:          available.Manifest.Version,
		Description:      available.Manifest.Description,
		Tasks:            []string{},
		UpgradeAvailable: available.UpgradeAvailable,
	}
	for _, task := range available.Manifest.CronTasks {
		response.Tasks = append(response.Tasks, task.Key)
	}
	if available.Installed != nil {
		installed := toPluginResponse(available.Installed)
		response.Installed = &installed
	}
	return response
}

// TaskRunRequest changes the schedule of a task run
type TaskRunRequest struct {
	Enabled  *bool   `json:"enabled"`
	Interval *int    `json:"interval"`
	Time     *string `json:"time"`
	Schedule *string `json:"schedule"`
}

// TaskRunResponse describes the schedule of a task for the company
type TaskRunResponse struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Group       string     `json:"group"`
	Type        string     `json:"type"`
	Interval    int        `json:"interval,omitempty"`
	Time        string     `json:"time,omitempty"`
	Schedule    string     `json:"schedule,omitempty"`
	Enabled     bool       `json:"enabled"`
	LastRunAt   *time.Time `json:"last_run_at"`
}

func toTaskRunResponse(run *cron.TaskRun) TaskRunResponse {
	response := TaskRunResponse{
		ID:        run.ID,
		Interval:  run.Interval,
		Time:      run.Time,
		Schedule:  run.Schedule,
		Enabled:   run.Enabled,
		LastRunAt: run.LastRunAt,
	}
	if run.Task != nil {
		response.Key = run.Task.Key
		response.Name = run.Task.Name
		response.Description = run.Task.Description
		response.Group = run.Task.Group()
		response.Type = run.Task.Type
	}
	return response
}

// TaskResultResponse is the outcome of one task in a cron invocation
type TaskResultResponse struct {
	Key    string `json:"key"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CronResultResponse lists what a cron invocation ran
type CronResultResponse struct {
	StartedAt time.Time            `json:"started_at"`
	Tasks     []TaskResultResponse `json:"tasks"`
	Failed    int                  `json:"failed"`
}

func toCronResultResponse(result *cron.Result) CronResultResponse {
	response := CronResultResponse{
		StartedAt: result.StartedAt,
		Tasks:     []TaskResultResponse{},
		Failed:    result.Failed(),
	}
	for _, task := range result.Tasks {
		response.Tasks = append(response.Tasks, TaskResultResponse(task))
	}
	return response
}

// ReportInfoResponse names a registered report
type ReportInfoResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// ReportResponse is a rendered report
type ReportResponse struct {
	Key     string     `json:"key"`
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// WelcomeResponse is shown on the client portal landing page
type WelcomeResponse struct {
	Message string        `json:"message"`
	Theme   ThemeResponse `json:"theme"`
}
