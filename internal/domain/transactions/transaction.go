// Package transactions describes payments received from clients and how
// they are applied to invoices.
package transactions

import (
	"errors"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"
	"github.com/shopspring/decimal"
)

// Payment types
const (
	TypeCC    = "cc"
	TypeACH   = "ach"
	TypeCash  = "cash"
	TypeCheck = "check"
	TypeOther = "other"
)

// Transaction statuses
const (
	StatusApproved = "approved"
	StatusDeclined = "declined"
	StatusVoid     = "void"
	StatusRefunded = "refunded"
	StatusPending  = "pending"
)

// Errors returned by the transaction service
var (
	ErrNotFound          = errors.New("transaction not found")
	ErrNotApproved       = errors.New("only approved transactions can be applied")
	ErrAlreadyVoid       = errors.New("transaction is already void")
	ErrCurrencyMismatch  = errors.New("invoice currency does not match transaction")
	ErrExceedsUnapplied  = errors.New("amount exceeds the unapplied credit")
	ErrExceedsInvoiceDue = errors.New("amount exceeds the invoice amount due")
	ErrInvoiceNotOpen    = errors.New("invoice is not open")
	ErrClientMismatch    = errors.New("invoice belongs to another client")
)

// Transaction entity
type Transaction struct {
	ID        string          `validate:"required,uuid4"`
	CompanyID string          `validate:"required,uuid4"`
	ClientID  string          `validate:"required,uuid4"`
	AccountID *string         `validate:"omitempty,uuid4"`
	Type      string          `validate:"required,oneof=cc ach cash check other"`
	Amount    decimal.Decimal `validate:"-"`
	Currency  string          `validate:"required,iso4217"`
	Status    string          `validate:"required,oneof=approved declined void refunded pending"`
	Reference string          `validate:"max=128"`
	DateAdded time.Time       `validate:"required"`
	Applied   []*Application  `validate:"dive"`
}

// Application is the part of a transaction credited to one invoice.
type Application struct {
	TransactionID string          `validate:"required,uuid4"`
	InvoiceID     string          `validate:"required,uuid4"`
	Amount        decimal.Decimal `validate:"-"`
	DateApplied   time.Time
}

// Validate for validating Transaction struct
func (t *Transaction) Validate() error {
	errs := validation.Errors{}
	if err := validation.Struct(t); err != nil {
		fieldErrs, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	if !t.Amount.IsPositive() {
		errs.Add("Amount", "must be greater than zero")
	}
	return errs.Err()
}

// AppliedTotal sums every application.
func (t *Transaction) AppliedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range t.Applied {
		total = total.Add(a.Amount)
	}
	return total
}

// Unapplied is the credit still available to apply.
func (t *Transaction) Unapplied() decimal.Decimal {
	if t.Status != StatusApproved {
		return decimal.Zero
	}
	return t.Amount.Sub(t.AppliedTotal())
}

// Allocation asks for amount of a transaction to be credited to an invoice.
type Allocation struct {
	InvoiceID string          `validate:"required,uuid4"`
	Amount    decimal.Decimal `validate:"-"`
}

// Input carries a payment being recorded.
type Input struct {
	ClientID  string          `validate:"required,uuid4"`
	AccountID *string         `validate:"omitempty,uuid4"`
	Type      string          `validate:"required,oneof=cc ach cash check other"`
	Amount    decimal.Decimal `validate:"-"`
	Currency  string          `validate:"omitempty,iso4217"`
	Status    string          `validate:"omitempty,oneof=approved declined pending"`
	Reference string          `validate:"max=128"`
	// AutoApply credits open invoices oldest due first when Allocations is empty.
	AutoApply   bool
	Allocations []Allocation `validate:"dive"`
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
	if !in.Amount.IsPositive() {
		errs.Add("Amount", "must be greater than zero")
	}
	if err := ValidateAllocations(in.Allocations); err != nil {
		if fieldErrs, ok := validation.As(err); ok {
			for field, msg := range fieldErrs {
				errs.Add(field, msg)
			}
		}
	}
	return errs.Err()
}

// ValidateAllocations requires positive amounts and distinct invoices.
func ValidateAllocations(allocations []Allocation) error {
	errs := validation.Errors{}
	seen := make(map[string]bool, len(allocations))
	for _, a := range allocations {
		if err := validation.Struct(&a); err != nil {
			if fieldErrs, ok := validation.As(err); ok {
				for field, msg := range fieldErrs {
					errs.Add(field, msg)
				}
			}
		}
		if !a.Amount.IsPositive() {
			errs.Add("Amount", "must be greater than zero")
		}
		if seen[a.InvoiceID] {
			errs.Add("InvoiceID", "is listed more than once")
		}
		seen[a.InvoiceID] = true
	}
	return errs.Err()
}

// Query filters transaction listings.
type Query struct {
	CompanyID string
	ClientID  string
	Status    string `validate:"omitempty,oneof=approved declined void refunded pending"`
	Search    string
	Page      paging.Request
}

// Validate for validating Query struct
func (q *Query) Validate() error {
	return validation.Struct(q)
}
