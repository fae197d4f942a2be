// Package invoices describes invoices, their lines and totals.
package invoices

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"
	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusVoid   = "void"
)

// List filters; open, closed and past_due are derived from active invoices.
const (
	FilterOpen    = "open"
	FilterClosed  = "closed"
	FilterPastDue = "past_due"
	FilterDraft   = StatusDraft
	FilterVoid    = StatusVoid
	FilterAll     = "all"
)

// Delivery methods and states
const (
	DeliveryEmail   = "email"
	DeliveryPending = "pending"
	DeliverySent    = "sent"
)

// Errors returned by the invoice service
var (
	ErrNotFound     = errors.New("invoice not found")
	ErrNotEditable  = errors.New("invoice can no longer be edited")
	ErrNotDraft     = errors.New("only draft invoices can be deleted")
	ErrHasPayments  = errors.New("invoice has payments applied")
	ErrAlreadyVoid  = errors.New("invoice is already void")
	ErrNoLines      = errors.New("invoice needs at least one line")
	ErrInvalidDates = errors.New("due date is before the billing date")
	ErrNotDelivered = errors.New("only active invoices can be delivered")
)

// Invoice entity
type Invoice struct {
	ID         string          `validate:"required,uuid4"`
	CompanyID  string          `validate:"required,uuid4"`
	ClientID   string          `validate:"required,uuid4"`
	IDValue    int64           `validate:"gte=0"`
	IDCode     string          `validate:"max=80"`
	Status     string          `validate:"required,oneof=draft active void"`
	Currency   string          `validate:"required,iso4217"`
	TaxRate    decimal.Decimal `validate:"-"`
	Subtotal   decimal.Decimal `validate:"-"`
	Tax        decimal.Decimal `validate:"-"`
	Total      decimal.Decimal `validate:"-"`
	Paid       decimal.Decimal `validate:"-"`
	DateBilled time.Time       `validate:"required"`
	DateDue    time.Time       `validate:"required"`
	DateClosed *time.Time
	Lines      []*Line     `validate:"required,min=1,dive"`
	Deliveries []*Delivery `validate:"dive"`
}

// Line is a billable row of an invoice.
type Line struct {
	ID          string          `validate:"required,uuid4"`
	Description string          `validate:"required,max=512"`
	Quantity    decimal.Decimal `validate:"-"`
	UnitAmount  decimal.Decimal `validate:"-"`
	Taxable     bool
	Order       int
}

// Delivery records a request to send the invoice to the client.
type Delivery struct {
	ID        string `validate:"required,uuid4"`
	InvoiceID string `validate:"required,uuid4"`
	Method    string `validate:"required,oneof=email"`
	Status    string `validate:"required,oneof=pending sent"`
	DateAdded time.Time
	DateSent  *time.Time
}

// Validate for validating Invoice struct
func (i *Invoice) Validate() error {
	errs := validation.Errors{}
	if err := validation.Struct(i); err != nil {
		fieldErrs, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	if i.DateDue.Before(i.DateBilled) {
		errs.Add("DateDue", ErrInvalidDates.Error())
	}
	if i.TaxRate.IsNegative() {
		errs.Add("TaxRate", "must not be negative")
	}
	for _, line := range i.Lines {
		if !line.Quantity.IsPositive() {
			errs.Add("Quantity", "must be greater than zero")
		}
	}
	return errs.Err()
}

// Due is the amount still owed.
func (i *Invoice) Due() decimal.Decimal {
	return i.Total.Sub(i.Paid)
}

// IsOpen reports an active invoice that has not been paid in full.
func (i *Invoice) IsOpen() bool {
	return i.Status == StatusActive && i.DateClosed == nil
}

// IsPastDue reports an open invoice whose due date lies before now.
func (i *Invoice) IsPastDue(now time.Time) bool {
	return i.IsOpen() && i.DateDue.Before(now)
}

// Editable reports whether lines and dates may still change.
func (i *Invoice) Editable() bool {
	return i.Status == StatusDraft || i.IsOpen()
}

// Recalculate recomputes subtotal, tax and total from the lines and then
// closes or reopens the invoice depending on the amount due.
func (i *Invoice) Recalculate(now time.Time) {
	subtotal := decimal.Zero
	taxable := decimal.Zero
	for _, line := range i.Lines {
		amount := line.Total()
		subtotal = subtotal.Add(amount)
		if line.Taxable {
			taxable = taxable.Add(amount)
		}
	}

	i.Subtotal = subtotal.Round(2)
	i.Tax = taxable.Mul(i.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	i.Total = i.Subtotal.Add(i.Tax)
	i.SyncClosed(now)
}

// SyncClosed sets DateClosed when an active invoice is fully paid and clears
// it when money is owed again.
func (i *Invoice) SyncClosed(now time.Time) {
	if i.Status != StatusActive {
		i.DateClosed = nil
		return
	}
	if i.Due().IsPositive() {
		i.DateClosed = nil
		return
	}
	if i.DateClosed == nil {
		closed := now
		i.DateClosed = &closed
	}
}

// Total is quantity times unit amount, unrounded.
func (l *Line) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitAmount)
}

// Input carries the editable invoice fields.
type Input struct {
	ClientID   string           `validate:"required,uuid4"`
	Status     string           `validate:"required,oneof=draft active"`
	Currency   string           `validate:"omitempty,iso4217"`
	TaxRate    *decimal.Decimal `validate:"-"`
	DateBilled time.Time        `validate:"required"`
	DateDue    time.Time        `validate:"required"`
	Lines      []LineInput      `validate:"required,min=1,dive"`
}

// LineInput is one requested invoice line.
type LineInput struct {
	Description string          `validate:"required,max=512"`
	Quantity    decimal.Decimal `validate:"-"`
	UnitAmount  decimal.Decimal `validate:"-"`
	Taxable     bool
}

// Validate for validating Input struct
func (in *Input) Validate() error {
	errs := validation.Errors{}
	if err := validation.Struct(in); err != nil {
		fieldErrs, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	if !in.DateBilled.IsZero() && !in.DateDue.IsZero() && in.DateDue.Before(in.DateBilled) {
		errs.Add("DateDue", ErrInvalidDates.Error())
	}
	if in.TaxRate != nil && (in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(decimal.NewFromInt(100))) {
		errs.Add("TaxRate", "must be between 0 and 100")
	}
	for _, line := range in.Lines {
		if !line.Quantity.IsPositive() {
			errs.Add("Quantity", "must be greater than zero")
		}
	}
	return errs.Err()
}

// Query filters invoice listings.
type Query struct {
	CompanyID string
	ClientID  string
	Status    string `validate:"omitempty,oneof=open closed past_due draft void all"`
	Search    string
	SortBy    string `validate:"omitempty,oneof=date_billed date_due id_value total"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
	Now       time.Time
	Page      paging.Request
	// ExcludeDrafts hides drafts whatever the status filter.
	ExcludeDrafts bool
}

// Validate for validating Query struct
func (q *Query) Validate() error {
	return validation.Struct(q)
}

// FormatIDCode renders value into format, replacing {num} with the value
// left-padded to padSize using padStr.
func FormatIDCode(format string, value int64, padSize int, padStr string) string {
	num := strconv.FormatInt(value, 10)
	if padStr != "" {
		for len([]rune(num)) < padSize {
			num = padStr + num
		}
	}
	return strings.ReplaceAll(format, "{num}", num)
}
