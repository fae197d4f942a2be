package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler defines the interface for staff invoice management
type InvoiceHandler interface {
	List(ctx *gin.Context)
	Create(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	Update(ctx *gin.Context)
	Void(ctx *gin.Context)
	Delete(ctx *gin.Context)
	Deliver(ctx *gin.Context)
}

type invoiceHandler struct {
	invoiceService invoices.Service
	settingService settings.Service
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService invoices.Service, settingService settings.Service) InvoiceHandler {
	return &invoiceHandler{
		invoiceService: invoiceService,
		settingService: settingService,
	}
}

// List handles the GET request to page through invoices
// @Summary List invoices
// @Tags Invoice
// @Produce json
// @Param status query string false "open, closed, past_due, draft, void or all"
// @Param client_id query string false "Only invoices of this client"
// @Param q query string false "Matches the invoice code"
// @Param sort_by query string false "date_billed, date_due, id_value or total"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page number"
// @Success 200 {object} PageResponse[InvoiceResponse]
// @Failure 400 {object} ErrorResponse
// @Router /admin/invoices [get]
func (handler *invoiceHandler) List(ctx *gin.Context) {
	companyID := claimsFrom(ctx).CompanyID

	page, err := handler.invoiceService.List(ctx, &invoices.Query{
		CompanyID: companyID,
		ClientID:  ctx.Query("client_id"),
		Status:    ctx.Query("status"),
		Search:    ctx.Query("q"),
		SortBy:    ctx.Query("sort_by"),
		SortOrder: ctx.Query("sort_order"),
		Now:       time.Now().UTC(),
		Page:      pageRequest(ctx, handler.settingService, companyID),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newPageResponse(page, toInvoiceResponse))
}

// Create handles the POST request to bill a client
// @Summary Create an invoice
// @Description Active invoices get the next number of the company. Drafts are numbered when they are activated.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param requestBody body InvoiceRequest true "Invoice"
// @Success 201 {object} InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/invoices [post]
func (handler *invoiceHandler) Create(ctx *gin.Context) {
	var request InvoiceRequest
	if !bindJSON(ctx, &request) {
		return
	}

	invoice, err := handler.invoiceService.Create(ctx, claimsFrom(ctx).CompanyID, request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toInvoiceResponse(invoice))
}

// GetByID handles the GET request for one invoice with its lines
// @Summary Show an invoice
// @Tags Invoice
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} InvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/invoices/{id} [get]
func (handler *invoiceHandler) GetByID(ctx *gin.Context) {
	invoice, err := handler.invoiceService.GetByID(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// Update handles the PUT request to replace an editable invoice
// @Summary Update an invoice
// @Tags Invoice
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param requestBody body InvoiceRequest true "Invoice"
// @Success 200 {object} InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/invoices/{id} [put]
func (handler *invoiceHandler) Update(ctx *gin.Context) {
	var request InvoiceRequest
	if !bindJSON(ctx, &request) {
		return
	}

	invoice, err := handler.invoiceService.Update(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"), request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// Void handles the POST request to void an invoice without payments
// @Summary Void an invoice
// @Tags Invoice
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} InvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/invoices/{id}/void [post]
func (handler *invoiceHandler) Void(ctx *gin.Context) {
	invoice, err := handler.invoiceService.Void(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// Delete handles the DELETE request for a draft invoice
// @Summary Delete a draft invoice
// @Tags Invoice
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} InfoResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/invoices/{id} [delete]
func (handler *invoiceHandler) Delete(ctx *gin.Context) {
	invoiceID := ctx.Param("id")
	if err := handler.invoiceService.DeleteDraft(ctx, claimsFrom(ctx).CompanyID, invoiceID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, InfoResponse{Message: fmt.Sprintf("deleted invoice with id %s", invoiceID)})
}

// Deliver handles the POST request to queue an invoice for delivery
// @Summary Queue an invoice delivery
// @Description The delivery is sent by the next cron run.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param requestBody body DeliverRequest false "Delivery method, email by default"
// @Success 202 {object} DeliveryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/invoices/{id}/deliver [post]
func (handler *invoiceHandler) Deliver(ctx *gin.Context) {
	request := DeliverRequest{Method: invoices.DeliveryEmail}
	if ctx.Request.ContentLength > 0 && !bindJSON(ctx, &request) {
		return
	}

	delivery, err := handler.invoiceService.Deliver(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"), request.Method)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, toDeliveryResponse(delivery))
}
