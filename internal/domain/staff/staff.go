// Package staff describes administrators who manage a company.
package staff

import (
	"errors"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"
)

// Staff statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// MinPasswordLength applies to staff passwords.
const MinPasswordLength = 8

// Errors returned by the staff service
var (
	ErrNotFound         = errors.New("staff member not found")
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrOTPNotEnrolled   = errors.New("two-factor authentication is not enrolled")
	ErrOTPAlreadyActive = errors.New("two-factor authentication is already enabled")
)

// Staff entity
type Staff struct {
	ID           string `validate:"required,uuid4"`
	CompanyID    string `validate:"required,uuid4"`
	Username     string `validate:"required,min=3,max=64"`
	Email        string `validate:"required,email"`
	FirstName    string `validate:"required,max=64"`
	LastName     string `validate:"required,max=64"`
	PasswordHash string `validate:"required"`
	// TOTPSecret is encrypted at rest.
	TOTPSecret  []byte
	TOTPEnabled bool
	Status      string    `validate:"required,oneof=active inactive"`
	DateAdded   time.Time `validate:"required"`
}

// Validate for validating Staff struct
func (s *Staff) Validate() error {
	return validation.Struct(s)
}

// CanLogIn reports whether the staff member may start a session.
func (s *Staff) CanLogIn() bool {
	return s.Status == StatusActive
}

// Input carries the fields to create a staff member.
type Input struct {
	Username  string `validate:"required,min=3,max=64"`
	Email     string `validate:"required,email"`
	FirstName string `validate:"required,max=64"`
	LastName  string `validate:"required,max=64"`
	Password  string `validate:"required,min=8,max=72"`
}

// Validate for validating Input struct
func (in *Input) Validate() error {
	return validation.Struct(in)
}
