package v1

import (
	"net/http"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"

	"github.com/gin-gonic/gin"
)

// TransactionHandler defines the interface for recording and applying payments
type TransactionHandler interface {
	List(ctx *gin.Context)
	Record(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	Apply(ctx *gin.Context)
	Void(ctx *gin.Context)
}

type transactionHandler struct {
	transactionService transactions.Service
	settingService     settings.Service
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService transactions.Service, settingService settings.Service) TransactionHandler {
	return &transactionHandler{
		transactionService: transactionService,
		settingService:     settingService,
	}
}

// List handles the GET request to page through transactions
// @Summary List transactions
// @Tags Transaction
// @Produce json
// @Param client_id query string false "Only transactions of this client"
// @Param status query string false "approved, declined, void, refunded or pending"
// @Param q query string false "Matches the reference"
// @Param page query int false "Page number"
// @Success 200 {object} PageResponse[TransactionResponse]
// @Failure 400 {object} ErrorResponse
// @Router /admin/transactions [get]
func (handler *transactionHandler) List(ctx *gin.Context) {
	companyID := claimsFrom(ctx).CompanyID

	page, err := handler.transactionService.List(ctx, &transactions.Query{
		CompanyID: companyID,
		ClientID:  ctx.Query("client_id"),
		Status:    ctx.Query("status"),
		Search:    ctx.Query("q"),
		Page:      pageRequest(ctx, handler.settingService, companyID),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newPageResponse(page, toTransactionResponse))
}

// Record handles the POST request to record a payment
// @Summary Record a transaction
// @Description Allocations are applied immediately. With auto_apply the credit is spread over open invoices, oldest due first.
// @Tags Transaction
// @Accept json
// @Produce json
// @Param requestBody body TransactionRequest true "Transaction"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/transactions [post]
func (handler *transactionHandler) Record(ctx *gin.Context) {
	var request TransactionRequest
	if !bindJSON(ctx, &request) {
		return
	}

	txn, err := handler.transactionService.Record(ctx, claimsFrom(ctx).CompanyID, request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toTransactionResponse(txn))
}

// GetByID handles the GET request for one transaction with its applications
// @Summary Show a transaction
// @Tags Transaction
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/transactions/{id} [get]
func (handler *transactionHandler) GetByID(ctx *gin.Context) {
	txn, err := handler.transactionService.GetByID(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toTransactionResponse(txn))
}

// Apply handles the POST request to apply unapplied credit to invoices
// @Summary Apply a transaction
// @Description Without allocations the credit is applied automatically.
// @Tags Transaction
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param requestBody body ApplyRequest false "Allocations"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/transactions/{id}/apply [post]
func (handler *transactionHandler) Apply(ctx *gin.Context) {
	var request ApplyRequest
	if ctx.Request.ContentLength > 0 && !bindJSON(ctx, &request) {
		return
	}

	companyID := claimsFrom(ctx).CompanyID
	transactionID := ctx.Param("id")

	var (
		txn *transactions.Transaction
		err error
	)
	if len(request.Allocations) == 0 {
		txn, err = handler.transactionService.AutoApply(ctx, companyID, transactionID)
	} else {
		txn, err = handler.transactionService.Apply(ctx, companyID, transactionID, toAllocations(request.Allocations))
	}
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toTransactionResponse(txn))
}

// Void handles the POST request to void a transaction and reopen the invoices it paid
// @Summary Void a transaction
// @Tags Transaction
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/transactions/{id}/void [post]
func (handler *transactionHandler) Void(ctx *gin.Context) {
	txn, err := handler.transactionService.Void(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toTransactionResponse(txn))
}
