// Package logs describes the audit trail kept per company.
package logs

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"
)

// Log types. Cron runs are kept by the cron module.
const (
	TypeEmail         = "email"
	TypeGateway       = "gateway"
	TypeModule        = "module"
	TypeUser          = "user"
	TypeAccountAccess = "account_access"
	TypeCron          = "cron"
)

// Entry statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Types lists every type kept in the general log table.
var Types = []string{TypeEmail, TypeGateway, TypeModule, TypeUser, TypeAccountAccess}

// Entry is one audit log line.
type Entry struct {
	ID        string  `validate:"required,uuid4"`
	CompanyID string  `validate:"required,uuid4"`
	Type      string  `validate:"required,oneof=email gateway module user account_access"`
	ClientID  *string `validate:"omitempty,uuid4"`
	StaffID   *string `validate:"omitempty,uuid4"`
	Summary   string  `validate:"required,max=255"`
	Detail    string
	Status    string    `validate:"required,oneof=success error"`
	IPAddress string    `validate:"omitempty,ip"`
	DateAdded time.Time `validate:"required"`
}

// Validate for validating Entry struct
func (e *Entry) Validate() error {
	return validation.Struct(e)
}

// Query filters log listings.
type Query struct {
	CompanyID string `validate:"required"`
	Type      string `validate:"required,oneof=email gateway module user account_access"`
	ClientID  string
	Page      paging.Request
}

// Validate for validating Query struct
func (q *Query) Validate() error {
	return validation.Struct(q)
}
