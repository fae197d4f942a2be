package v1

import (
	"fmt"
	"net/http"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"

	"github.com/gin-gonic/gin"
)

// AccountHandler defines the interface for the payment accounts of a client
type AccountHandler interface {
	List(ctx *gin.Context)
	Create(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type accountHandler struct {
	accountService accounts.Service
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService accounts.Service) AccountHandler {
	return &accountHandler{accountService: accountService}
}

// List handles the GET request for the active accounts of a client
// @Summary List payment accounts
// @Tags Account
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {array} AccountResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id}/accounts [get]
func (handler *accountHandler) List(ctx *gin.Context) {
	list, err := handler.accountService.List(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"))
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

// Create handles the POST request to store a card or bank account
// @Summary Add a payment account
// @Description The number is encrypted at rest. Only the last four digits are returned.
// @Tags Account
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param requestBody body AccountRequest true "Account"
// @Success 201 {object} AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id}/accounts [post]
func (handler *accountHandler) Create(ctx *gin.Context) {
	var request AccountRequest
	if !bindJSON(ctx, &request) {
		return
	}

	account, err := handler.accountService.Create(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"), request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toAccountResponse(account))
}

// GetByID handles the GET request for one account. Every read is logged as an account access.
// @Summary Show a payment account
// @Tags Account
// @Produce json
// @Param id path string true "Client ID"
// @Param account_id path string true "Account ID"
// @Success 200 {object} AccountResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id}/accounts/{account_id} [get]
func (handler *accountHandler) GetByID(ctx *gin.Context) {
	claims := claimsFrom(ctx)
	account, err := handler.accountService.GetByID(ctx, claims.CompanyID, ctx.Param("id"), ctx.Param("account_id"), claims.Subject)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toAccountResponse(account))
}

// Update handles the PUT request to change an account
// @Summary Update a payment account
// @Description Leave number empty to keep the stored one.
// @Tags Account
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param account_id path string true "Account ID"
// @Param requestBody body AccountRequest true "Account"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id}/accounts/{account_id} [put]
func (handler *accountHandler) Update(ctx *gin.Context) {
	var request AccountRequest
	if !bindJSON(ctx, &request) {
		return
	}

	account, err := handler.accountService.Update(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"), ctx.Param("account_id"), request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toAccountResponse(account))
}

// Delete handles the DELETE request that deactivates an account
// @Summary Remove a payment account
// @Tags Account
// @Produce json
// @Param id path string true "Client ID"
// @Param account_id path string true "Account ID"
// @Success 200 {object} InfoResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id}/accounts/{account_id} [delete]
func (handler *accountHandler) Delete(ctx *gin.Context) {
	accountID := ctx.Param("account_id")
	if err := handler.accountService.Delete(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"), accountID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, InfoResponse{Message: fmt.Sprintf("deleted account with id %s", accountID)})
}
