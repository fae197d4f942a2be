package v1

import (
	"net/http"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/search"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/strutil"

	"github.com/gin-gonic/gin"
)

// SearchHandler defines the interface for the staff search box
type SearchHandler interface {
	Search(ctx *gin.Context)
}

type searchHandler struct {
	searchService search.Service
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService search.Service) SearchHandler {
	return &searchHandler{searchService: searchService}
}

// Search handles the GET request to search one kind of record
// @Summary Search
// @Tags Search
// @Produce json
// @Param type query string true "clients, invoices or transactions"
// @Param q query string true "Search text"
// @Param page query int false "Page number"
// @Success 200 {object} PageResponse[any]
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/search [get]
func (handler *searchHandler) Search(ctx *gin.Context) {
	page, err := handler.searchService.Search(
		ctx,
		claimsFrom(ctx).CompanyID,
		ctx.Query("type"),
		ctx.Query("q"),
		strutil.ConvertToInt(ctx.Query("page"), 1),
	)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newPageResponse(page, toSearchItem))
}

// toSearchItem renders a match the same way its own endpoint does
func toSearchItem(item any) any {
	switch v := item.(type) {
	case *clients.Client:
		return toClientResponse(v)
	case *invoices.Invoice:
		return toInvoiceResponse(v)
	case *transactions.Transaction:
		return toTransactionResponse(v)
	default:
		return v
	}
}
