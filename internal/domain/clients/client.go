// Package clients describes billing customers.
package clients

import (
	"errors"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"
)

// Client statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusFraud    = "fraud"
)

// MinPasswordLength is the shortest password accepted for clients and staff.
const MinPasswordLength = 8

// Errors returned by the client service
var (
	ErrNotFound          = errors.New("client not found")
	ErrUsernameTaken     = errors.New("username already in use")
	ErrHasBillingHistory = errors.New("client has invoices or transactions")
)

// Client entity
type Client struct {
	ID           string    `validate:"required,uuid4"`
	CompanyID    string    `validate:"required,uuid4"`
	Username     string    `validate:"required,min=3,max=64"`
	Email        string    `validate:"required,email,max=255"`
	FirstName    string    `validate:"required,max=64"`
	LastName     string    `validate:"required,max=64"`
	Company      string    `validate:"max=128"`
	Status       string    `validate:"required,oneof=active inactive fraud"`
	Notes        string    `validate:"max=4000"`
	PasswordHash string    `validate:"required"`
	DateAdded    time.Time `validate:"required"`
}

// Validate for validating Client struct
func (c *Client) Validate() error {
	return validation.Struct(c)
}

// FullName joins first and last name.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CanLogIn reports whether the client may start a portal session.
func (c *Client) CanLogIn() bool {
	return c.Status == StatusActive
}

// Input carries the editable client fields. Password is only applied when set.
type Input struct {
	Username  string `validate:"required,min=3,max=64,alphanum"`
	Email     string `validate:"required,email,max=255"`
	FirstName string `validate:"required,max=64"`
	LastName  string `validate:"required,max=64"`
	Company   string `validate:"max=128"`
	Status    string `validate:"omitempty,oneof=active inactive fraud"`
	Notes     string `validate:"max=4000"`
	Password  string `validate:"omitempty,min=8,max=128"`
}

// Validate for validating Input struct
func (i *Input) Validate() error {
	return validation.Struct(i)
}

// Query filters client listings.
type Query struct {
	CompanyID string
	Status    string `validate:"omitempty,oneof=active inactive fraud"`
	Search    string
	Page      paging.Request
}

// Validate for validating Query struct
func (q *Query) Validate() error {
	return validation.Struct(q)
}
