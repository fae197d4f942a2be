package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"

	"github.com/gin-gonic/gin"
)

// PortalHandler defines the interface for the client portal. Every request is
// scoped to the client owning the session.
type PortalHandler interface {
	Profile(ctx *gin.Context)
	UpdateProfile(ctx *gin.Context)
	ListInvoices(ctx *gin.Context)
	GetInvoice(ctx *gin.Context)
	ListAccounts(ctx *gin.Context)
	CreateAccount(ctx *gin.Context)
	DeleteAccount(ctx *gin.Context)
	ListTransactions(ctx *gin.Context)
	Welcome(ctx *gin.Context)
}

type portalHandler struct {
	clientService      clients.Service
	invoiceService     invoices.Service
	accountService     accounts.Service
	transactionService transactions.Service
	settingService     settings.Service
	themeService       themes.Service
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(
	clientService clients.Service,
	invoiceService invoices.Service,
	accountService accounts.Service,
	transactionService transactions.Service,
	settingService settings.Service,
	themeService themes.Service,
) PortalHandler {
	return &portalHandler{
		clientService:      clientService,
		invoiceService:     invoiceService,
		accountService:     accountService,
		transactionService: transactionService,
		settingService:     settingService,
		themeService:       themeService,
	}
}

// Profile handles the GET request for the signed in client
// @Summary Show my profile
// @Tags Portal
// @Produce json
// @Success 200 {object} ClientResponse
// @Router /client/profile [get]
func (handler *portalHandler) Profile(ctx *gin.Context) {
	claims := claimsFrom(ctx)
	client, err := handler.clientService.GetByID(ctx, claims.CompanyID, claims.Subject)
	if err != nil {
		writeError(ctx, err)
		return
	}
	response := toClientResponse(client)
	response.Notes = ""
	ctx.JSON(http.StatusOK, response)
}

// UpdateProfile handles the PUT request to change contact details or the password
// @Summary Update my profile
// @Description Username, status and notes are kept as they are.
// @Tags Portal
// @Accept json
// @Produce json
// @Param requestBody body ProfileRequest true "Profile"
// @Success 200 {object} ClientResponse
// @Failure 400 {object} ErrorResponse
// @Router /client/profile [put]
func (handler *portalHandler) UpdateProfile(ctx *gin.Context) {
	var request ProfileRequest
	if !bindJSON(ctx, &request) {
		return
	}

	claims := claimsFrom(ctx)
	current, err := handler.clientService.GetByID(ctx, claims.CompanyID, claims.Subject)
	if err != nil {
		writeError(ctx, err)
		return
	}

	input := &clients.Input{
		Username:  current.Username,
		Email:     orDefault(request.Email, current.Email),
		FirstName: orDefault(request.FirstName, current.FirstName),
		LastName:  orDefault(request.LastName, current.LastName),
		Company:   request.Company,
		Status:    current.Status,
		Notes:     current.Notes,
		Password:  request.Password,
	}

	client, err := handler.clientService.Update(ctx, claims.CompanyID, claims.Subject, input)
	if err != nil {
		writeError(ctx, err)
		return
	}
	response := toClientResponse(client)
	response.Notes = ""
	ctx.JSON(http.StatusOK, response)
}

// ListInvoices handles the GET request for the invoices of the signed in client
// @Summary List my invoices
// @Tags Portal
// @Produce json
// @Param status query string false "open, closed, past_due, void or all"
// @Param page query int false "Page number"
// @Success 200 {object} PageResponse[InvoiceResponse]
// @Failure 400 {object} ErrorResponse
// @Router /client/invoices [get]
func (handler *portalHandler) ListInvoices(ctx *gin.Context) {
	status := ctx.Query("status")
	if status == invoices.FilterDraft {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Errors:  map[string]string{"Status": "must be one of [open closed past_due void all]"},
		})
		return
	}

	claims := claimsFrom(ctx)
	page, err := handler.invoiceService.List(ctx, &invoices.Query{
		CompanyID: claims.CompanyID,
		ClientID:  claims.Subject,
		Status:    status,
		Now:       time.Now().UTC(),
		Page:      pageRequest(ctx, handler.settingService, claims.CompanyID),

		ExcludeDrafts: true,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newPageResponse(page, toInvoiceResponse))
}

// GetInvoice handles the GET request for one invoice of the signed in client
// @Summary Show my invoice
// @Tags Portal
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} InvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Router /client/invoices/{id} [get]
func (handler *portalHandler) GetInvoice(ctx *gin.Context) {
	claims := claimsFrom(ctx)
	invoice, err := handler.invoiceService.GetByID(ctx, claims.CompanyID, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	// another client's invoice must look like a missing one
	if invoice.ClientID != claims.Subject || invoice.Status == invoices.StatusDraft {
		writeError(ctx, fmt.Errorf("%s: %w", ctx.Param("id"), invoices.ErrNotFound))
		return
	}
	ctx.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// ListAccounts handles the GET request for the payment accounts of the signed in client
// @Summary List my payment accounts
// @Tags Portal
// @Produce json
// @Success 200 {array} AccountResponse
// @Router /client/accounts [get]
func (handler *portalHandler) ListAccounts(ctx *gin.Context) {
	claims := claimsFrom(ctx)
	list, err := handler.accountService.List(ctx, claims.CompanyID, claims.Subject)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var listResponse = []AccountResponse{}
	for _, account := range list {
		listResponse = append(listResponse, toAccountResponse(account))
	}
	ctx.JSON(http.StatusOK, listResponse)
}

// CreateAccount handles the POST request to store a payment account
// @Summary Add a payment account
// @Tags Portal
// @Accept json
// @Produce json
// @Param requestBody body AccountRequest true "Account"
// @Success 201 {object} AccountResponse
// @Failure 400 {object} ErrorResponse
// @Router /client/accounts [post]
func (handler *portalHandler) CreateAccount(ctx *gin.Context) {
	var request AccountRequest
	if !bindJSON(ctx, &request) {
		return
	}

	claims := claimsFrom(ctx)
	account, err := handler.accountService.Create(ctx, claims.CompanyID, claims.Subject, request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toAccountResponse(account))
}

// DeleteAccount handles the DELETE request to remove a payment account
// @Summary Remove a payment account
// @Tags Portal
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} InfoResponse
// @Failure 404 {object} ErrorResponse
// @Router /client/accounts/{id} [delete]
func (handler *portalHandler) DeleteAccount(ctx *gin.Context) {
	claims := claimsFrom(ctx)
	accountID := ctx.Param("id")
	if err := handler.accountService.Delete(ctx, claims.CompanyID, claims.Subject, accountID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, InfoResponse{Message: fmt.Sprintf("deleted account with id %s", accountID)})
}

// ListTransactions handles the GET request for the payments of the signed in client
// @Summary List my transactions
// @Tags Portal
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} PageResponse[TransactionResponse]
// @Router /client/transactions [get]
func (handler *portalHandler) ListTransactions(ctx *gin.Context) {
	claims := claimsFrom(ctx)
	page, err := handler.transactionService.List(ctx, &transactions.Query{
		CompanyID: claims.CompanyID,
		ClientID:  claims.Subject,
		Page:      pageRequest(ctx, handler.settingService, claims.CompanyID),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newPageResponse(page, toTransactionResponse))
}

// Welcome handles the GET request for the portal landing page
// @Summary Show the portal welcome message and theme
// @Tags Portal
// @Produce json
// @Success 200 {object} WelcomeResponse
// @Router /client/welcome [get]
func (handler *portalHandler) Welcome(ctx *gin.Context) {
	companyID := claimsFrom(ctx).CompanyID

	message, err := handler.settingService.Get(ctx, companyID, settings.KeyClientPortalWelcome)
	if err != nil {
		writeError(ctx, err)
		return
	}

	theme, err := handler.themeService.Active(ctx, companyID, themes.TypeClient)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, WelcomeResponse{Message: message, Theme: toThemeResponse(theme)})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
