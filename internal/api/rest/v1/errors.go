package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/reports"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/search"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"

	"github.com/gin-gonic/gin"
)

// errorStatuses maps sentinel errors to the status returned for them.
// Anything not listed is an internal error.
var errorStatuses = []struct {
	err    error
	status int
}{
	{identity.ErrInvalidCredentials, http.StatusUnauthorized},
	{identity.ErrOTPRequired, http.StatusUnauthorized},
	{identity.ErrInvalidOTP, http.StatusUnauthorized},
	{identity.ErrInvalidToken, http.StatusUnauthorized},
	{identity.ErrAccountDisabled, http.StatusForbidden},

	{settings.ErrUnknownKey, http.StatusNotFound},
	{staff.ErrNotFound, http.StatusNotFound},
	{staff.ErrUsernameTaken, http.StatusConflict},
	{staff.ErrOTPNotEnrolled, http.StatusConflict},
	{staff.ErrOTPAlreadyActive, http.StatusConflict},

	{clients.ErrNotFound, http.StatusNotFound},
	{clients.ErrUsernameTaken, http.StatusConflict},
	{clients.ErrHasBillingHistory, http.StatusConflict},

	{invoices.ErrNotFound, http.StatusNotFound},
	{invoices.ErrNoLines, http.StatusBadRequest},
	{invoices.ErrInvalidDates, http.StatusBadRequest},
	{invoices.ErrNotEditable, http.StatusConflict},
	{invoices.ErrNotDraft, http.StatusConflict},
	{invoices.ErrHasPayments, http.StatusConflict},
	{invoices.ErrAlreadyVoid, http.StatusConflict},
	{invoices.ErrNotDelivered, http.StatusConflict},

	{accounts.ErrNotFound, http.StatusNotFound},
	{accounts.ErrExpired, http.StatusBadRequest},

	{transactions.ErrNotFound, http.StatusNotFound},
	{transactions.ErrCurrencyMismatch, http.StatusBadRequest},
	{transactions.ErrExceedsUnapplied, http.StatusBadRequest},
	{transactions.ErrExceedsInvoiceDue, http.StatusBadRequest},
	{transactions.ErrClientMismatch, http.StatusBadRequest},
	{transactions.ErrNotApproved, http.StatusConflict},
	{transactions.ErrAlreadyVoid, http.StatusConflict},
	{transactions.ErrInvoiceNotOpen, http.StatusConflict},

	{themes.ErrNotFound, http.StatusNotFound},
	{themes.ErrLogoType, http.StatusBadRequest},
	{themes.ErrSystemTheme, http.StatusConflict},
	{themes.ErrThemeInUse, http.StatusConflict},
	{themes.ErrNoAssets, http.StatusServiceUnavailable},

	{plugins.ErrNotFound, http.StatusNotFound},
	{plugins.ErrManifestNotFound, http.StatusNotFound},
	{plugins.ErrAlreadyInstalled, http.StatusConflict},
	{plugins.ErrNoUpgrade, http.StatusConflict},

	{cron.ErrNotFound, http.StatusNotFound},
	{cron.ErrRunNotFound, http.StatusNotFound},
	{cron.ErrLocked, http.StatusConflict},
	{cron.ErrDisabled, http.StatusConflict},
	{cron.ErrNoHandler, http.StatusConflict},

	{reports.ErrUnknownReport, http.StatusNotFound},
	{search.ErrUnknownType, http.StatusNotFound},
	{search.ErrBlankQuery, http.StatusBadRequest},
}

// statusFor returns the HTTP status for err
func statusFor(err error) int {
	if _, ok := validation.As(err); ok {
		return http.StatusBadRequest
	}
	for _, candidate := range errorStatuses {
		if errors.Is(err, candidate.err) {
			return candidate.status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err with the status it maps to. Internal errors are
// not echoed to the caller.
func writeError(ctx *gin.Context, err error) {
	status := statusFor(err)

	var errorResponse ErrorResponse
	if fieldErrs, ok := validation.As(err); ok {
		errorResponse.Message = "validation failed"
		errorResponse.Errors = fieldErrs
	} else if status == http.StatusInternalServerError {
		_ = ctx.Error(err)
		errorResponse.Message = "internal server error"
	} else {
		errorResponse.Message = err.Error()
	}

	ctx.AbortWithStatusJSON(status, errorResponse)
}

// bindJSON decodes the body into request and writes a 400 on failure
func bindJSON(ctx *gin.Context, request interface{}) bool {
	if err := ctx.ShouldBindJSON(request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid request body: %v", err.Error())
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errorResponse)
		return false
	}
	return true
}

// validated runs request validation and writes a 400 on failure
func validated(ctx *gin.Context, request interface{ Validate() error }) bool {
	if err := request.Validate(); err != nil {
		writeError(ctx, err)
		return false
	}
	return true
}
